package webhook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/marcelsud/webhook-logger/webhook/payload"
	"github.com/marcelsud/webhook-logger/webhook/signature"
)

/* Service represents the business logic layer
 * Uses pointer semantics as it's an API, not data
 */

// ErrInvalidSignature is returned by Ingest when a channel has a
// configured secret and the caller-supplied signature does not match.
// The record is not persisted in that case.
var ErrInvalidSignature = errors.New("invalid signature")

// UseCase defines the business operations for webhook ingestion
type UseCase interface {
	Ingest(ctx context.Context, source string, body []byte, headers map[string]string) (string, error)
	List(ctx context.Context) ([]Record, error)
}

// ChannelSecrets resolves the signing configuration for a webhook channel.
// ok is false when no verification is configured for the source.
type ChannelSecrets interface {
	Signing(source string) (header, secret string, ok bool)
}

// ActivityLogger records human-readable entries in the daily activity log.
// Implementations must be best-effort; the service never checks for failure.
type ActivityLogger interface {
	Record(level, message string)
}

type Service struct {
	Repo     Repository
	Channels ChannelSecrets
	Logger   *slog.Logger
	Activity ActivityLogger
}

// NewService creates a new webhook service with dependency injection
func NewService(repo Repository, channels ChannelSecrets, logger *slog.Logger, activity ActivityLogger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		Repo:     repo,
		Channels: channels,
		Logger:   logger,
		Activity: activity,
	}
}

/* Ingest sequences one inbound webhook: decode the collected body,
 * verify authenticity when the channel has a secret, persist, then
 * run best-effort post-processing. Verification failure rejects the
 * request before anything is written.
 */
func (s *Service) Ingest(ctx context.Context, source string, body []byte, headers map[string]string) (string, error) {
	if source == "" {
		return "", fmt.Errorf("source cannot be empty")
	}

	rec := Record{
		Timestamp: time.Now().UTC(),
		Source:    source,
		Headers:   lowerKeys(headers),
		Payload:   payload.Decode(body),
		Processed: false,
		Status:    Received,
	}

	if header, secret, ok := s.lookupSigning(source); ok {
		valid := signature.Verify(secret, body, rec.Headers[strings.ToLower(header)])
		rec.SignatureValid = &valid
		if !valid {
			s.Logger.Warn("webhook signature verification failed", "source", source)
			s.activity("WARNING", fmt.Sprintf("Invalid signature from %s", source))
			return "", ErrInvalidSignature
		}
	}

	id, err := s.Repo.Append(ctx, rec)
	if err != nil {
		return "", fmt.Errorf("storing webhook: %w", err)
	}
	rec.ID = id

	s.activity("SUCCESS", fmt.Sprintf("Webhook saved: %s", id))
	s.process(rec)

	return id, nil
}

// List returns every stored record, newest first
func (s *Service) List(ctx context.Context) ([]Record, error) {
	recs, err := s.Repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing webhooks: %w", err)
	}
	return recs, nil
}

// lookupSigning is nil-safe: a service without channel configuration
// accepts every source unauthenticated.
func (s *Service) lookupSigning(source string) (string, string, bool) {
	if s.Channels == nil {
		return "", "", false
	}
	header, secret, ok := s.Channels.Signing(source)
	if !ok || secret == "" {
		// A channel without a secret is an explicit trust decision:
		// verification is disabled, records are accepted as-is.
		return "", "", false
	}
	return header, secret, true
}

/* process derives human-readable summaries from known payload shapes.
 * It runs after the record is persisted and must never influence the
 * outcome of the request; every failure mode here is a silent no-op
 * beyond logging.
 */
func (s *Service) process(rec Record) {
	s.Logger.Info("processing webhook", "source", rec.Source, "id", rec.ID)

	if rec.Source != "github" {
		return
	}

	event := rec.Headers["x-github-event"]
	if event == "" {
		return
	}
	s.Logger.Info("github event received", "event", event, "id", rec.ID)

	if event != "push" {
		return
	}

	data, ok := rec.Payload.(map[string]any)
	if !ok {
		return
	}
	commits := 0
	if list, ok := data["commits"].([]any); ok {
		commits = len(list)
	}
	branch := ""
	if ref, ok := data["ref"].(string); ok {
		parts := strings.Split(ref, "/")
		branch = parts[len(parts)-1]
	}

	summary := fmt.Sprintf("Received %d commits to branch %s", commits, branch)
	s.Logger.Info("github push summary", "commits", commits, "branch", branch, "id", rec.ID)
	s.activity("INFO", summary)
}

func (s *Service) activity(level, message string) {
	if s.Activity == nil {
		return
	}
	s.Activity.Record(level, message)
}

// lowerKeys normalizes header names; keys are unique after folding
// because Go's http layer canonicalizes them before we see them.
func lowerKeys(headers map[string]string) map[string]string {
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		out[strings.ToLower(k)] = v
	}
	return out
}
