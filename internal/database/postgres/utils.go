package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// withTimeout bounds a single store operation so callers never hang on the database.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = DefaultStoreTimeout
	}
	return context.WithTimeout(ctx, d)
}

// validAccountID reports whether id can name a row in accounts.
func validAccountID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
