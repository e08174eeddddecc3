package lambda

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/pulse-app/pulse-push/internal/application/notification"
	"github.com/pulse-app/pulse-push/internal/domain"
	"github.com/rs/zerolog"
)

// NotifyHandler is the Lambda handler that sends push notifications to
// registered devices.
type NotifyHandler struct {
	svc    notification.Service
	logger zerolog.Logger
}

func NewNotifyHandler(svc notification.Service, logger zerolog.Logger) *NotifyHandler {
	return &NotifyHandler{svc: svc, logger: logger}
}

type sentBody struct {
	Message string `json:"message"`
	domain.SendSummary
}

// Handle processes one notification event. Per-target failures are
// reported inside a 200 response; only resolution and input problems map
// to error status codes.
func (h *NotifyHandler) Handle(ctx context.Context, event json.RawMessage) (events.APIGatewayProxyResponse, error) {
	p, err := parsePayload(event)
	if err != nil {
		h.logger.Error().Err(err).Msg("malformed request JSON")
		return respond(http.StatusBadRequest, false, errorBody{
			Error:   "Invalid JSON",
			Message: "request body is not valid JSON",
		}), nil
	}

	summary, err := h.svc.Send(ctx, sendRequest(p))
	switch {
	case errors.Is(err, domain.ErrNoTargets):
		return respond(http.StatusNotFound, true, errorBody{
			Error:   "No device tokens found",
			Message: "No registered devices found for the specified criteria",
		}), nil
	case err != nil:
		h.logger.Error().Err(err).Msg("unexpected notification error")
		return respond(http.StatusInternalServerError, false, errorBody{
			Error:   "Internal server error",
			Message: "An unexpected error occurred",
		}), nil
	}

	return respond(http.StatusOK, true, sentBody{
		Message:     "Notifications sent",
		SendSummary: *summary,
	}), nil
}
