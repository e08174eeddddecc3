package lambda

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/pulse-app/pulse-push/internal/application/registration"
	"github.com/pulse-app/pulse-push/internal/domain"
	"github.com/pulse-app/pulse-push/internal/pkg/validate"
	"github.com/rs/zerolog"
)

// RegisterHandler is the Lambda handler that registers device tokens.
type RegisterHandler struct {
	svc    registration.Service
	logger zerolog.Logger
}

func NewRegisterHandler(svc registration.Service, logger zerolog.Logger) *RegisterHandler {
	return &RegisterHandler{svc: svc, logger: logger}
}

type registeredBody struct {
	Message     string `json:"message"`
	DeviceID    string `json:"device_id"`
	EndpointARN string `json:"endpoint_arn"`
}

// Handle processes one registration event. Errors are always mapped to an
// HTTP-shaped response; the returned error is nil so API Gateway relays
// the status code instead of a Lambda invocation failure.
func (h *RegisterHandler) Handle(ctx context.Context, event json.RawMessage) (events.APIGatewayProxyResponse, error) {
	p, err := parsePayload(event)
	if err != nil {
		h.logger.Error().Err(err).Msg("malformed request JSON")
		return respond(http.StatusBadRequest, false, errorBody{
			Error:   "Invalid JSON",
			Message: "request body is not valid JSON",
		}), nil
	}

	req := registerRequest(p)
	if err := validate.Struct(req); err != nil {
		return respond(http.StatusBadRequest, true, errorBody{
			Error:   "Missing device_token",
			Message: "device_token is required",
		}), nil
	}

	d, err := h.svc.Register(ctx, req)
	switch {
	case errors.Is(err, domain.ErrEndpointCreate):
		return respond(http.StatusInternalServerError, false, errorBody{
			Error:   "Failed to create platform endpoint",
			Message: "Could not register device with SNS",
		}), nil
	case errors.Is(err, domain.ErrRegistryWrite):
		return respond(http.StatusInternalServerError, false, errorBody{
			Error:   "Failed to store device token",
			Message: "Could not save device information",
		}), nil
	case err != nil:
		h.logger.Error().Err(err).Msg("unexpected registration error")
		return respond(http.StatusInternalServerError, false, errorBody{
			Error:   "Internal server error",
			Message: "An unexpected error occurred",
		}), nil
	}

	return respond(http.StatusOK, true, registeredBody{
		Message:     "Device registered successfully",
		DeviceID:    d.DeviceID,
		EndpointARN: d.EndpointARN,
	}), nil
}
