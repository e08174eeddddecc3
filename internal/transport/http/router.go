package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/pulse-app/pulse-push/internal/config"
	appmiddleware "github.com/pulse-app/pulse-push/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// Handler is the Lambda-shaped handler both functions implement.
type Handler interface {
	Handle(ctx context.Context, event json.RawMessage) (events.APIGatewayProxyResponse, error)
}

// NewRouter builds the local development router, exposing the Lambda
// handlers as plain HTTP endpoints. Production traffic goes through API
// Gateway instead.
func NewRouter(cfg *config.Config, register, notify Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	// 5 requests/second, burst of 10 — generous for a dev endpoint while
	// still catching runaway client loops.
	rl := appmiddleware.NewRateLimiter(rate.Limit(5), 10)
	r.Use(rl.Limit)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"status":"ok"}`)
	})
	r.Post("/register", adapt(register))
	r.Post("/notify", adapt(notify))

	return r
}

// adapt bridges an HTTP request into the Lambda handler by wrapping the
// body in an API-Gateway-shaped event and relaying the proxy response.
func adapt(h Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, `{"error":"could not read request body"}`, http.StatusBadRequest)
			return
		}
		event, err := json.Marshal(events.APIGatewayProxyRequest{
			HTTPMethod: r.Method,
			Path:       r.URL.Path,
			Body:       string(body),
		})
		if err != nil {
			http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
			return
		}

		resp, err := h.Handle(r.Context(), event)
		if err != nil {
			http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
			return
		}
		for k, v := range resp.Headers {
			w.Header().Set(k, v)
		}
		w.WriteHeader(resp.StatusCode)
		_, _ = io.WriteString(w, resp.Body)
	}
}
