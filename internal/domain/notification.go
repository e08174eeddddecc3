package domain

// Default notification content when the caller supplies none.
const (
	DefaultMessage = "Hello from Pulse!"
	DefaultTitle   = "Pulse Notification"
)

// DirectTokenDeviceID marks synthetic targets built from a raw token
// without a registry record.
const DirectTokenDeviceID = "direct-token"

// SendRequest is the parsed notification payload. At most one targeting
// field is honored, in the order DeviceToken, DeviceID, UserID; when all
// are empty every registered device is targeted.
type SendRequest struct {
	Message     string
	Title       string
	UserID      string
	DeviceID    string
	DeviceToken string
}

// Target is one resolved notification destination: a registered device
// (EndpointARN set) or a synthetic direct-token pair (DeviceToken set).
type Target struct {
	DeviceID    string
	DeviceToken string
	EndpointARN string
}

// Push is the notification content published to a platform endpoint.
type Push struct {
	Title string
	Body  string
}

// SendResult is the per-target outcome of one publish attempt.
type SendResult struct {
	Success     bool   `json:"success"`
	DeviceID    string `json:"device_id,omitempty"`
	EndpointARN string `json:"endpoint_arn,omitempty"`
	DeviceToken string `json:"device_token,omitempty"`
	MessageID   string `json:"message_id,omitempty"`
	Error       string `json:"error,omitempty"`
}

// SendSummary aggregates per-target results. Successful+Failed always
// equals TotalDevices; partial failure is not an overall error.
type SendSummary struct {
	TotalDevices int          `json:"total_devices"`
	Successful   int          `json:"successful"`
	Failed       int          `json:"failed"`
	Results      []SendResult `json:"results"`
}
