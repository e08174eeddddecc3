package lambda

import (
	"bytes"
	"encoding/json"

	"github.com/pulse-app/pulse-push/internal/domain"
)

// payload is the decoded request body, kept raw so each field can be
// resolved through its snake_case/camelCase aliases.
type payload map[string]json.RawMessage

// parsePayload extracts the request fields from a Lambda invocation. An
// empty body parses as an empty payload rather than an error.
func parsePayload(event json.RawMessage) (payload, error) {
	body := eventBody(event)
	if len(bytes.TrimSpace(body)) == 0 {
		return payload{}, nil
	}
	var p payload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, err
	}
	if p == nil {
		p = payload{}
	}
	return p, nil
}

// eventBody unwraps the invocation event. API Gateway wraps the caller's
// JSON in a "body" string field; direct invocations pass the JSON object
// as the event itself.
func eventBody(event json.RawMessage) []byte {
	var probe struct {
		Body json.RawMessage `json:"body"`
	}
	if err := json.Unmarshal(event, &probe); err == nil && len(probe.Body) > 0 {
		var s string
		if json.Unmarshal(probe.Body, &s) == nil {
			return []byte(s)
		}
		return probe.Body
	}
	return event
}

// str returns the first non-empty string among the alias keys, so callers
// may send either naming convention for the same logical field.
func (p payload) str(aliases ...string) string {
	for _, k := range aliases {
		raw, ok := p[k]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			return s
		}
	}
	return ""
}

func registerRequest(p payload) domain.RegisterRequest {
	return domain.RegisterRequest{
		DeviceToken: p.str("device_token", "deviceToken"),
		UserID:      p.str("user_id", "userId"),
		DeviceID:    p.str("device_id", "deviceId"),
		BundleID:    p.str("bundle_id", "bundleId"),
		Platform:    p.str("platform"),
		Timestamp:   p.str("timestamp"),
	}
}

func sendRequest(p payload) domain.SendRequest {
	return domain.SendRequest{
		Message:     p.str("message"),
		Title:       p.str("title"),
		UserID:      p.str("user_id", "userId"),
		DeviceID:    p.str("device_id", "deviceId"),
		DeviceToken: p.str("device_token", "deviceToken"),
	}
}
