package registration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pulse-app/pulse-push/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockDeviceStore struct{ mock.Mock }

func (m *mockDeviceStore) Put(ctx context.Context, d *domain.Device) error {
	return m.Called(ctx, d).Error(0)
}

type mockEndpointClient struct{ mock.Mock }

func (m *mockEndpointClient) CreateEndpoint(ctx context.Context, deviceToken, customUserData string) (string, error) {
	args := m.Called(ctx, deviceToken, customUserData)
	return args.String(0), args.Error(1)
}

func newSvc(ds *mockDeviceStore, ec *mockEndpointClient) Service {
	return NewService(ds, ec, zerolog.Nop())
}

// --- tests ---

func TestRegister_AppliesDefaults(t *testing.T) {
	ds := &mockDeviceStore{}
	ec := &mockEndpointClient{}
	ec.On("CreateEndpoint", mock.Anything, "tok123", mock.AnythingOfType("string")).
		Return("arn:aws:sns:us-east-1:1:endpoint/APNS/app/abc", nil)

	var stored *domain.Device
	ds.On("Put", mock.Anything, mock.AnythingOfType("*domain.Device")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*domain.Device) }).
		Return(nil)

	d, err := newSvc(ds, ec).Register(context.Background(), domain.RegisterRequest{
		DeviceToken: "tok123",
	})
	require.NoError(t, err)
	require.NotNil(t, stored)

	assert.NotEmpty(t, d.DeviceID)
	assert.Equal(t, "anonymous", stored.UserID)
	assert.Equal(t, "unknown", stored.BundleID)
	assert.Equal(t, "ios", stored.Platform)
	assert.Equal(t, "tok123", stored.DeviceToken)
	assert.Equal(t, "arn:aws:sns:us-east-1:1:endpoint/APNS/app/abc", stored.EndpointARN)
	assert.True(t, stored.Active)

	_, err = time.Parse(time.RFC3339, stored.CreatedAt)
	assert.NoError(t, err, "created_at should be an RFC3339 timestamp")
	_, err = time.Parse(time.RFC3339, stored.LastUpdated)
	assert.NoError(t, err, "last_updated should be an RFC3339 timestamp")
}

func TestRegister_KeepsCallerDeviceIDAndTimestamp(t *testing.T) {
	ds := &mockDeviceStore{}
	ec := &mockEndpointClient{}
	ec.On("CreateEndpoint", mock.Anything, "tok", "dev-7").Return("arn:endpoint", nil)

	var stored *domain.Device
	ds.On("Put", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*domain.Device) }).
		Return(nil)

	d, err := newSvc(ds, ec).Register(context.Background(), domain.RegisterRequest{
		DeviceToken: "tok",
		DeviceID:    "dev-7",
		UserID:      "alice",
		BundleID:    "com.pulse.app",
		Platform:    "android",
		Timestamp:   "2026-01-02T03:04:05Z",
	})
	require.NoError(t, err)

	assert.Equal(t, "dev-7", d.DeviceID)
	assert.Equal(t, "alice", stored.UserID)
	assert.Equal(t, "com.pulse.app", stored.BundleID)
	assert.Equal(t, "android", stored.Platform)
	assert.Equal(t, "2026-01-02T03:04:05Z", stored.CreatedAt)
	assert.NotEqual(t, stored.CreatedAt, stored.LastUpdated)
}

func TestRegister_PlaceholderWhenPlatformUnconfigured(t *testing.T) {
	ds := &mockDeviceStore{}
	ec := &mockEndpointClient{}
	ec.On("CreateEndpoint", mock.Anything, "tok", "dev-9").
		Return("", domain.ErrPlatformNotConfigured)

	var stored *domain.Device
	ds.On("Put", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*domain.Device) }).
		Return(nil)

	d, err := newSvc(ds, ec).Register(context.Background(), domain.RegisterRequest{
		DeviceToken: "tok",
		DeviceID:    "dev-9",
	})
	require.NoError(t, err)

	assert.Contains(t, d.EndpointARN, "dummy-endpoint-dev-9")
	assert.Equal(t, d.EndpointARN, stored.EndpointARN, "placeholder must be persisted")
}

func TestRegister_ProviderFailure_NoRegistryWrite(t *testing.T) {
	ds := &mockDeviceStore{}
	ec := &mockEndpointClient{}
	ec.On("CreateEndpoint", mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("InvalidParameter: token rejected"))

	_, err := newSvc(ds, ec).Register(context.Background(), domain.RegisterRequest{
		DeviceToken: "tok",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEndpointCreate)
	ds.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestRegister_RegistryWriteFailure(t *testing.T) {
	ds := &mockDeviceStore{}
	ec := &mockEndpointClient{}
	ec.On("CreateEndpoint", mock.Anything, mock.Anything, mock.Anything).
		Return("arn:endpoint", nil)
	ds.On("Put", mock.Anything, mock.Anything).Return(errors.New("throttled"))

	_, err := newSvc(ds, ec).Register(context.Background(), domain.RegisterRequest{
		DeviceToken: "tok",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRegistryWrite)
}

func TestRegister_ReRegistrationOverwritesOmittedFields(t *testing.T) {
	ds := &mockDeviceStore{}
	ec := &mockEndpointClient{}
	ec.On("CreateEndpoint", mock.Anything, mock.Anything, "dev-1").
		Return("arn:endpoint", nil)

	var stored []*domain.Device
	ds.On("Put", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { stored = append(stored, args.Get(1).(*domain.Device)) }).
		Return(nil)

	svc := newSvc(ds, ec)
	_, err := svc.Register(context.Background(), domain.RegisterRequest{
		DeviceToken: "tok-old",
		DeviceID:    "dev-1",
		BundleID:    "com.pulse.app",
	})
	require.NoError(t, err)

	// Second registration omits bundle_id; the write must not carry the
	// prior value forward.
	_, err = svc.Register(context.Background(), domain.RegisterRequest{
		DeviceToken: "tok-new",
		DeviceID:    "dev-1",
	})
	require.NoError(t, err)

	require.Len(t, stored, 2)
	assert.Equal(t, "com.pulse.app", stored[0].BundleID)
	assert.Equal(t, "unknown", stored[1].BundleID)
	assert.Equal(t, "tok-new", stored[1].DeviceToken)
}
