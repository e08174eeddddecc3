package domain

// Defaults applied when a registration omits optional fields.
const (
	AnonymousUserID = "anonymous"
	UnknownBundleID = "unknown"
	DefaultPlatform = "ios"
)

// Device is a push registration persisted in the device registry.
// Writes are full-record overwrites: re-registering a device_id replaces
// the entire prior item, including fields the second call omitted.
type Device struct {
	DeviceID    string `json:"device_id" dynamodbav:"device_id"`
	UserID      string `json:"user_id" dynamodbav:"user_id"`
	DeviceToken string `json:"device_token" dynamodbav:"device_token"`
	EndpointARN string `json:"endpoint_arn" dynamodbav:"endpoint_arn"`
	BundleID    string `json:"bundle_id" dynamodbav:"bundle_id"`
	Platform    string `json:"platform" dynamodbav:"platform"`
	CreatedAt   string `json:"created_at" dynamodbav:"created_at"`
	LastUpdated string `json:"last_updated" dynamodbav:"last_updated"`
	Active      bool   `json:"active" dynamodbav:"active"`
}

// RegisterRequest is the parsed registration payload. Only the token is
// validated; every other field has a documented default.
type RegisterRequest struct {
	DeviceToken string `validate:"required"`
	UserID      string
	DeviceID    string
	BundleID    string
	Platform    string
	Timestamp   string
}
