package file

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/marcelsud/webhook-logger/webhook"
)

/* Filesystem implementation of webhook.Repository
 * One JSON document per record. File names are the record IDs, so
 * plain byte-order sorting of the directory listing yields
 * chronological order.
 */

const fileSuffix = ".json"

type Repository struct {
	dir    string
	logger *slog.Logger
}

// NewRepository creates a filesystem repository rooted at dir,
// creating the directory if needed.
func NewRepository(dir string, logger *slog.Logger) (*Repository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating webhooks directory: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		dir:    dir,
		logger: logger,
	}, nil
}

/* Append persists a record as <id>.json. The document is first
 * written to a temporary file and then renamed into place, so a
 * concurrent ListAll observes either no record or the whole record,
 * never a partial write. Concurrent appends land on distinct file
 * names because IDs carry a per-record random disambiguator.
 */
func (r *Repository) Append(ctx context.Context, rec webhook.Record) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}
	if rec.ID == "" {
		rec.ID = webhook.NewID(rec.Timestamp)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling webhook record: %w", err)
	}

	path := filepath.Join(r.dir, rec.ID+fileSuffix)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("writing webhook record: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("committing webhook record: %w", err)
	}

	return rec.ID, nil
}

/* ListAll returns every stored record ordered by ID descending.
 * A record that cannot be read or decoded is skipped with a logged
 * warning; readable records are always returned. An unreadable
 * directory fails the whole call.
 */
func (r *Repository) ListAll(ctx context.Context) ([]webhook.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("reading webhooks directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, webhook.IDPrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		names = append(names, name)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))

	records := make([]webhook.Record, 0, len(names))
	for _, name := range names {
		path := filepath.Join(r.dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			r.logger.Warn("skipping unreadable webhook record", "file", name, "error", err)
			continue
		}

		var rec webhook.Record
		if err := json.Unmarshal(data, &rec); err != nil {
			r.logger.Warn("skipping corrupt webhook record", "file", name, "error", err)
			continue
		}
		if rec.ID == "" {
			rec.ID = strings.TrimSuffix(name, fileSuffix)
		}
		records = append(records, rec)
	}

	return records, nil
}

// Close is a no-op; the repository holds no open handles between calls.
func (r *Repository) Close(ctx context.Context) error {
	return nil
}
