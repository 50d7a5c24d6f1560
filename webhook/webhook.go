package webhook

import "time"

/* Record represents a received webhook notification in the system
 * Uses value semantics as it represents data, not behavior
 */
type Record struct {
	ID        string            `json:"id"`
	Timestamp time.Time         `json:"timestamp"`
	Source    string            `json:"source"`
	Headers   map[string]string `json:"headers"`
	Payload   any               `json:"payload"`
	Processed bool              `json:"processed"`
	Status    Status            `json:"status"`
	// SignatureValid is set only when signature verification was
	// attempted for this record; nil means no verification ran.
	SignatureValid *bool `json:"signatureValid,omitempty"`
}
