package main

import (
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/pulse-app/pulse-push/internal/application/notification"
	"github.com/pulse-app/pulse-push/internal/config"
	"github.com/pulse-app/pulse-push/internal/infrastructure/dynamo"
	snsinfra "github.com/pulse-app/pulse-push/internal/infrastructure/sns"
	"github.com/pulse-app/pulse-push/internal/pkg/logging"
	transportlambda "github.com/pulse-app/pulse-push/internal/transport/lambda"
)

func main() {
	cfg := config.Load()
	logger := logging.New("send-notification", cfg.LogLevel)

	endpoints, err := snsinfra.NewClient(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("could not build SNS client")
	}
	devices := dynamo.NewDeviceRepo(dynamo.NewClient(cfg), cfg.DeviceTable)

	svc := notification.NewService(devices, endpoints, logger)
	h := transportlambda.NewNotifyHandler(svc, logger)

	lambda.Start(h.Handle)
}
