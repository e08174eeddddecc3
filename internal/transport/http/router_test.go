package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/pulse-app/pulse-push/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubHandler records the event it received and replies with a fixed
// proxy response.
type stubHandler struct {
	event json.RawMessage
	resp  events.APIGatewayProxyResponse
}

func (s *stubHandler) Handle(_ context.Context, event json.RawMessage) (events.APIGatewayProxyResponse, error) {
	s.event = event
	return s.resp, nil
}

func testConfig() *config.Config {
	return &config.Config{AllowedOrigins: []string{"*"}}
}

func TestRouter_Health(t *testing.T) {
	r := NewRouter(testConfig(), &stubHandler{}, &stubHandler{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRouter_RegisterRelaysProxyResponse(t *testing.T) {
	register := &stubHandler{resp: events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers: map[string]string{
			"Content-Type":                "application/json",
			"Access-Control-Allow-Origin": "*",
		},
		Body: `{"message":"Device registered successfully"}`,
	}}
	r := NewRouter(testConfig(), register, &stubHandler{})

	req := httptest.NewRequest(http.MethodPost, "/register",
		strings.NewReader(`{"device_token":"tok"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "registered successfully")

	// The HTTP body must arrive wrapped API-Gateway style.
	var event events.APIGatewayProxyRequest
	require.NoError(t, json.Unmarshal(register.event, &event))
	assert.Equal(t, `{"device_token":"tok"}`, event.Body)
	assert.Equal(t, http.MethodPost, event.HTTPMethod)
}

func TestRouter_NotifyStatusPassthrough(t *testing.T) {
	notify := &stubHandler{resp: events.APIGatewayProxyResponse{
		StatusCode: http.StatusNotFound,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       `{"error":"No device tokens found"}`,
	}}
	r := NewRouter(testConfig(), &stubHandler{}, notify)

	req := httptest.NewRequest(http.MethodPost, "/notify", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "No device tokens found")
}
