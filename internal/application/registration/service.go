package registration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pulse-app/pulse-push/internal/domain"
	snsinfra "github.com/pulse-app/pulse-push/internal/infrastructure/sns"
	"github.com/pulse-app/pulse-push/internal/pkg/id"
	"github.com/rs/zerolog"
)

// Service registers device tokens for push notifications.
type Service interface {
	// Register resolves a platform endpoint for the token and persists
	// the registration, overwriting any prior record for the device id.
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.Device, error)
}

type deviceStore interface {
	Put(ctx context.Context, d *domain.Device) error
}

type endpointClient interface {
	CreateEndpoint(ctx context.Context, deviceToken, customUserData string) (string, error)
}

type service struct {
	devices   deviceStore
	endpoints endpointClient
	logger    zerolog.Logger
}

func NewService(devices deviceStore, endpoints endpointClient, logger zerolog.Logger) Service {
	return &service{devices: devices, endpoints: endpoints, logger: logger}
}

func (s *service) Register(ctx context.Context, req domain.RegisterRequest) (*domain.Device, error) {
	deviceID := req.DeviceID
	if deviceID == "" {
		deviceID = id.New()
	}
	userID := req.UserID
	if userID == "" {
		userID = domain.AnonymousUserID
	}
	bundleID := req.BundleID
	if bundleID == "" {
		bundleID = domain.UnknownBundleID
	}
	platform := req.Platform
	if platform == "" {
		platform = domain.DefaultPlatform
	}

	s.logger.Info().Str("device_id", deviceID).Str("user_id", userID).Msg("registering device")

	endpointARN, err := s.endpoints.CreateEndpoint(ctx, req.DeviceToken, deviceID)
	switch {
	case errors.Is(err, domain.ErrPlatformNotConfigured):
		// Push credentials may be provisioned after initial rollout: record
		// the registration under a placeholder so it isn't lost. Sends to
		// this endpoint will fail until the platform application exists.
		endpointARN = placeholderEndpointARN(deviceID)
		s.logger.Warn().
			Str("device_id", deviceID).
			Msg("no SNS platform application configured, recording placeholder endpoint")
	case err != nil:
		if snsinfra.IsTokenConflict(err) {
			// The token is likely bound to an existing endpoint already.
			// No reuse lookup is attempted; the registration fails like any
			// other provider error.
			s.logger.Warn().Err(err).Str("device_id", deviceID).Msg("device token may already be registered")
		}
		s.logger.Error().Err(err).Str("device_id", deviceID).Msg("platform endpoint creation failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrEndpointCreate, err)
	default:
		s.logger.Info().Str("endpoint_arn", endpointARN).Msg("created platform endpoint")
	}

	now := time.Now().UTC().Format(time.RFC3339)
	createdAt := req.Timestamp
	if createdAt == "" {
		createdAt = now
	}

	d := &domain.Device{
		DeviceID:    deviceID,
		UserID:      userID,
		DeviceToken: req.DeviceToken,
		EndpointARN: endpointARN,
		BundleID:    bundleID,
		Platform:    platform,
		CreatedAt:   createdAt,
		LastUpdated: now,
		Active:      true,
	}
	if err := s.devices.Put(ctx, d); err != nil {
		// The endpoint stays created with no compensating delete.
		s.logger.Error().Err(err).Str("device_id", deviceID).Msg("registry write failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrRegistryWrite, err)
	}

	s.logger.Info().Str("device_id", deviceID).Msg("stored device registration")
	return d, nil
}

// placeholderEndpointARN marks registrations recorded before the SNS
// platform application was provisioned.
func placeholderEndpointARN(deviceID string) string {
	return "arn:aws:sns:us-east-1:123456789012:app/APNS/dummy-endpoint-" + deviceID
}
