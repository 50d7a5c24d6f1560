package webhook

import (
	"context"
)

/* Small, focused interfaces following "The Go Way"
 * Interfaces abstract behavior, not things
 * Written for users of the API, not just for testing
 */

// Reader provides read operations for webhook records
type Reader interface {
	/* Context is always the first parameter in functions that do I/O
	 * This allows for cancellation, timeouts, and shared values
	 */

	/* ListAll returns every persisted record ordered by ID descending
	 * (newest first). An empty store yields an empty slice, not an error.
	 */
	ListAll(ctx context.Context) ([]Record, error)
}

// Writer provides write operations for webhook records
type Writer interface {
	/* Append durably persists a new record and returns its assigned ID.
	 * The write must be visible to a ListAll that starts after Append
	 * returns, and concurrent appends must never share an identifier.
	 */
	Append(ctx context.Context, rec Record) (string, error)
}

/* Interface composition - combining small interfaces into larger ones
 * This is preferred over large monolithic interfaces
 */
type Repository interface {
	Reader
	Writer
	Close(ctx context.Context) error
}
