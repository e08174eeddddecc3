package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	// ErrNotFound: a registry item is genuinely absent, as opposed to the
	// registry call itself failing.
	ErrNotFound = errors.New("not found")

	// ErrNoTargets: the notification targeting criterion resolved to zero devices.
	ErrNoTargets = errors.New("no registered devices found")

	// ErrPlatformNotConfigured: no SNS platform application ARN in the environment.
	ErrPlatformNotConfigured = errors.New("SNS platform application not configured")

	// ErrEndpointCreate: the provider rejected platform endpoint creation.
	ErrEndpointCreate = errors.New("failed to create platform endpoint")

	// ErrRegistryWrite: the device registry rejected the write.
	ErrRegistryWrite = errors.New("failed to store device registration")

	// ErrTableNotConfigured: DYNAMODB_TABLE_NAME is unset, so no registry
	// operation can succeed.
	ErrTableNotConfigured = errors.New("device table not configured")
)
