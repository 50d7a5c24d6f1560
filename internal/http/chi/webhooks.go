package chi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"
	"github.com/marcelsud/webhook-logger/webhook"
)

// Handlers sets up the webhook API routes
func Handlers(ctx context.Context, webhookService webhook.UseCase, maxBodyBytes int64, metricsHandler http.Handler) *chi.Mux {
	logger := httplog.NewLogger("webhook-logger", httplog.Options{
		JSON: true,
	})

	r := chi.NewRouter()
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// Webhook receiver endpoint
	r.Post("/webhook/{source}", postWebhook(webhookService, maxBodyBytes).ServeHTTP)

	// Retrieval endpoint for the frontend
	r.Get("/api/webhooks", getWebhooks(webhookService).ServeHTTP)

	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	return r
}
