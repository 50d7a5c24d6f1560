package chi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/marcelsud/webhook-logger/webhook"
)

/* HTTP layer DTOs for the webhook API
 * Separate from domain entities to avoid leaking internal structure
 */

// ingestResponse is the API response when a webhook is accepted
type ingestResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      string `json:"id"`
}

// errorResponse is the generic API error envelope
type errorResponse struct {
	Error string `json:"error"`
}

// recordResponse represents a stored webhook record in the API
type recordResponse struct {
	ID             string            `json:"id"`
	Timestamp      string            `json:"timestamp"`
	Source         string            `json:"source"`
	Headers        map[string]string `json:"headers"`
	Payload        any               `json:"payload"`
	Processed      bool              `json:"processed"`
	Status         string            `json:"status"`
	SignatureValid *bool             `json:"signatureValid,omitempty"`
}

// postWebhook handles POST /webhook/{source}
func postWebhook(webhookService webhook.UseCase, maxBodyBytes int64) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		source := chi.URLParam(r, "source")
		if source == "" {
			respondError(w, http.StatusBadRequest, "source is required")
			return
		}

		// Collect the streamed body; a transport failure here means
		// the request is abandoned and nothing is persisted.
		limited := io.LimitReader(r.Body, maxBodyBytes+1)
		body, err := io.ReadAll(limited)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "Failed to process webhook")
			return
		}
		defer r.Body.Close()

		if int64(len(body)) > maxBodyBytes {
			respondError(w, http.StatusRequestEntityTooLarge, "payload too large")
			return
		}

		// Capture headers verbatim, lower-cased keys
		headers := make(map[string]string)
		for key, values := range r.Header {
			if len(values) > 0 {
				headers[strings.ToLower(key)] = values[0]
			}
		}

		id, err := webhookService.Ingest(r.Context(), source, body, headers)
		if err != nil {
			if errors.Is(err, webhook.ErrInvalidSignature) {
				respondError(w, http.StatusUnauthorized, "Invalid signature")
				return
			}
			respondError(w, http.StatusInternalServerError, "Failed to process webhook")
			return
		}

		respondJSON(w, http.StatusOK, ingestResponse{
			Success: true,
			Message: "Webhook received",
			ID:      id,
		})
	})
}

// getWebhooks handles GET /api/webhooks
func getWebhooks(webhookService webhook.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		all, err := webhookService.List(r.Context())
		if err != nil {
			respondError(w, http.StatusInternalServerError, "Internal Server Error")
			return
		}

		result := make([]recordResponse, 0, len(all))
		for _, rec := range all {
			result = append(result, recordResponse{
				ID:             rec.ID,
				Timestamp:      rec.Timestamp.Format(time.RFC3339Nano),
				Source:         rec.Source,
				Headers:        rec.Headers,
				Payload:        rec.Payload,
				Processed:      rec.Processed,
				Status:         rec.Status.String(),
				SignatureValid: rec.SignatureValid,
			})
		}

		respondJSON(w, http.StatusOK, result)
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}
