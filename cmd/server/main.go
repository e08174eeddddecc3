// Command server runs both handlers behind a plain HTTP server for local
// development, typically against LocalStack.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/pulse-app/pulse-push/internal/application/notification"
	"github.com/pulse-app/pulse-push/internal/application/registration"
	"github.com/pulse-app/pulse-push/internal/config"
	"github.com/pulse-app/pulse-push/internal/infrastructure/dynamo"
	snsinfra "github.com/pulse-app/pulse-push/internal/infrastructure/sns"
	"github.com/pulse-app/pulse-push/internal/pkg/logging"
	transporthttp "github.com/pulse-app/pulse-push/internal/transport/http"
	transportlambda "github.com/pulse-app/pulse-push/internal/transport/lambda"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.New("pulse-push", cfg.LogLevel)

	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DeviceTable, logger)
	devices := dynamo.NewDeviceRepo(dynamoClient, cfg.DeviceTable)

	endpoints, err := snsinfra.NewClient(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("could not build SNS client")
	}

	registerH := transportlambda.NewRegisterHandler(
		registration.NewService(devices, endpoints, logger), logger)
	notifyH := transportlambda.NewNotifyHandler(
		notification.NewService(devices, endpoints, logger), logger)

	router := transporthttp.NewRouter(cfg, registerH, notifyH)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.AppPort).Str("env", cfg.AppEnv).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("forced shutdown")
	}
	logger.Info().Msg("server stopped")
}
