package webhook

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// IDPrefix prefixes every record identifier (and storage unit name).
const IDPrefix = "webhook_"

/* NewID derives a record identifier from the creation instant.
 * Zero-padded nanoseconds make plain byte-order sorting equal to
 * chronological sorting; the random suffix keeps two records created
 * within the same nanosecond from colliding.
 */
func NewID(t time.Time) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("%s%020d_%s", IDPrefix, t.UnixNano(), suffix)
}

// ValidID reports whether s has the shape produced by NewID.
func ValidID(s string) bool {
	if !strings.HasPrefix(s, IDPrefix) {
		return false
	}
	rest := strings.TrimPrefix(s, IDPrefix)
	parts := strings.Split(rest, "_")
	if len(parts) != 2 || len(parts[0]) != 20 || len(parts[1]) != 8 {
		return false
	}
	for _, c := range parts[0] {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
