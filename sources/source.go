package sources

import (
	"fmt"
)

// DefaultSignatureHeader is the header checked when a source does not
// name one (GitHub's X-Hub-Signature-256 convention).
const DefaultSignatureHeader = "X-Hub-Signature-256"

/* Source represents a webhook channel configuration
 * Maps a source name to its signature verification settings
 */
type Source struct {
	Name            string
	SignatureHeader string
	// Secret is the shared HMAC secret. Empty means verification is
	// disabled for this channel: every notification is accepted
	// unauthenticated. That is a documented trust decision, not an error.
	Secret string
}

// Validate checks if the source configuration is valid
func (s *Source) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("source name cannot be empty")
	}
	if s.SignatureHeader == "" {
		return fmt.Errorf("signature_header cannot be empty for source %s", s.Name)
	}
	return nil
}
