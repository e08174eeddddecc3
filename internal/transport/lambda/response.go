package lambda

import (
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
)

// corsHeaders builds the response header set. The main request/response
// paths advertise the allowed methods and headers; error shortcuts carry
// only the origin and content type.
func corsHeaders(full bool) map[string]string {
	h := map[string]string{
		"Content-Type":                "application/json",
		"Access-Control-Allow-Origin": "*",
	}
	if full {
		h["Access-Control-Allow-Methods"] = "POST, OPTIONS"
		h["Access-Control-Allow-Headers"] = "Content-Type"
	}
	return h
}

func respond(status int, full bool, body interface{}) events.APIGatewayProxyResponse {
	b, err := json.Marshal(body)
	if err != nil {
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusInternalServerError,
			Headers:    corsHeaders(false),
			Body:       `{"error":"Internal server error"}`,
		}
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    corsHeaders(full),
		Body:       string(b),
	}
}

// errorBody is the error envelope: a short error plus a human-readable
// message. 500-path messages stay generic; detail goes to the logs only.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
