package notification

import (
	"context"
	"errors"

	"github.com/pulse-app/pulse-push/internal/domain"
	snsinfra "github.com/pulse-app/pulse-push/internal/infrastructure/sns"
	"github.com/rs/zerolog"
)

// Service resolves a targeting criterion into registered devices and
// publishes a push notification to each, sequentially.
type Service interface {
	Send(ctx context.Context, req domain.SendRequest) (*domain.SendSummary, error)
}

type deviceStore interface {
	Get(ctx context.Context, deviceID string) (*domain.Device, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Device, error)
	ListAll(ctx context.Context) ([]domain.Device, error)
}

type endpointClient interface {
	CreateEndpoint(ctx context.Context, deviceToken, customUserData string) (string, error)
	Publish(ctx context.Context, endpointARN string, push domain.Push) (string, error)
	DeleteEndpoint(ctx context.Context, endpointARN string) error
}

type service struct {
	devices   deviceStore
	endpoints endpointClient
	logger    zerolog.Logger
}

func NewService(devices deviceStore, endpoints endpointClient, logger zerolog.Logger) Service {
	return &service{devices: devices, endpoints: endpoints, logger: logger}
}

func (s *service) Send(ctx context.Context, req domain.SendRequest) (*domain.SendSummary, error) {
	push := domain.Push{
		Title: req.Title,
		Body:  req.Message,
	}
	if push.Title == "" {
		push.Title = domain.DefaultTitle
	}
	if push.Body == "" {
		push.Body = domain.DefaultMessage
	}

	s.logger.Info().Str("title", push.Title).Msg("sending notification")

	targets := s.resolveTargets(ctx, req)
	if len(targets) == 0 {
		return nil, domain.ErrNoTargets
	}

	summary := &domain.SendSummary{
		TotalDevices: len(targets),
		Results:      make([]domain.SendResult, 0, len(targets)),
	}
	for _, t := range targets {
		var res domain.SendResult
		switch {
		case t.EndpointARN != "":
			res = s.publish(ctx, t.EndpointARN, t.DeviceID, push)
		case t.DeviceToken != "":
			res = s.sendToDirectToken(ctx, t, push)
		default:
			res = domain.SendResult{
				Success:  false,
				DeviceID: t.DeviceID,
				Error:    "invalid target: no endpoint or token",
			}
		}
		if res.Success {
			summary.Successful++
		} else {
			summary.Failed++
		}
		summary.Results = append(summary.Results, res)
	}
	return summary, nil
}

// resolveTargets applies the targeting precedence: direct token, device
// id, user id, then every registered device. Registry failures degrade to
// an empty set; the response cannot distinguish them from "no devices",
// so the distinction is kept in the logs.
func (s *service) resolveTargets(ctx context.Context, req domain.SendRequest) []domain.Target {
	switch {
	case req.DeviceToken != "":
		return []domain.Target{{
			DeviceID:    domain.DirectTokenDeviceID,
			DeviceToken: req.DeviceToken,
		}}

	case req.DeviceID != "":
		d, err := s.devices.Get(ctx, req.DeviceID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				s.logger.Debug().Str("device_id", req.DeviceID).Msg("device not registered")
			} else {
				s.logger.Error().Err(err).Str("device_id", req.DeviceID).Msg("device lookup failed")
			}
			return nil
		}
		return []domain.Target{deviceTarget(d)}

	case req.UserID != "":
		devices, err := s.devices.ListByUser(ctx, req.UserID)
		if err != nil {
			s.logger.Error().Err(err).Str("user_id", req.UserID).Msg("user device query failed")
			return nil
		}
		return deviceTargets(devices)

	default:
		devices, err := s.devices.ListAll(ctx)
		if err != nil {
			s.logger.Error().Err(err).Msg("registry scan failed")
			return nil
		}
		return deviceTargets(devices)
	}
}

// sendToDirectToken creates a temporary endpoint for a raw token,
// publishes through it, then deletes it best-effort.
func (s *service) sendToDirectToken(ctx context.Context, t domain.Target, push domain.Push) domain.SendResult {
	endpointARN, err := s.endpoints.CreateEndpoint(ctx, t.DeviceToken, t.DeviceID)
	if err != nil {
		if errors.Is(err, domain.ErrPlatformNotConfigured) {
			s.logger.Warn().Msg("no SNS platform application configured, cannot send to direct token")
			return domain.SendResult{
				Success:     false,
				DeviceID:    t.DeviceID,
				DeviceToken: t.DeviceToken,
				Error:       "SNS platform application not configured",
			}
		}
		s.logger.Error().Err(err).Msg("temporary endpoint creation failed")
		return domain.SendResult{
			Success:     false,
			DeviceID:    t.DeviceID,
			DeviceToken: t.DeviceToken,
			Error:       snsinfra.FormatError(err),
		}
	}

	res := s.publish(ctx, endpointARN, t.DeviceID, push)

	// Fire-and-forget cleanup; a leaked endpoint is harmless since SNS
	// dedupes token/endpoint pairs.
	if err := s.endpoints.DeleteEndpoint(ctx, endpointARN); err != nil {
		s.logger.Debug().Err(err).Str("endpoint_arn", endpointARN).Msg("temporary endpoint cleanup failed")
	}
	return res
}

func (s *service) publish(ctx context.Context, endpointARN, deviceID string, push domain.Push) domain.SendResult {
	messageID, err := s.endpoints.Publish(ctx, endpointARN, push)
	if err != nil {
		code := snsinfra.ErrorCode(err)
		s.logger.Error().Err(err).
			Str("device_id", deviceID).
			Str("endpoint_arn", endpointARN).
			Msg("publish failed")
		if code == "EndpointDisabled" || code == "InvalidParameter" {
			// Stale registration; deactivation is handled out of band.
			s.logger.Warn().Str("device_id", deviceID).Msg("endpoint appears stale")
		}
		return domain.SendResult{
			Success:     false,
			DeviceID:    deviceID,
			EndpointARN: endpointARN,
			Error:       snsinfra.FormatError(err),
		}
	}

	s.logger.Info().
		Str("device_id", deviceID).
		Str("message_id", messageID).
		Msg("notification sent")
	return domain.SendResult{
		Success:     true,
		DeviceID:    deviceID,
		EndpointARN: endpointARN,
		MessageID:   messageID,
	}
}

func deviceTarget(d *domain.Device) domain.Target {
	return domain.Target{
		DeviceID:    d.DeviceID,
		DeviceToken: d.DeviceToken,
		EndpointARN: d.EndpointARN,
	}
}

func deviceTargets(devices []domain.Device) []domain.Target {
	targets := make([]domain.Target, 0, len(devices))
	for i := range devices {
		targets = append(targets, deviceTarget(&devices[i]))
	}
	return targets
}
