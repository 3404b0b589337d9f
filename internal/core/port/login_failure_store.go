package port

import (
	"context"
	"time"
)

// LoginFailureStore records failed login attempts and reads them back through
// a trailing window. Appends are independent inserts; there is no shared
// counter to race on, so concurrent failures are all retained.
type LoginFailureStore interface {
	RecordFailure(ctx context.Context, userID string, at time.Time) error
	CountSince(ctx context.Context, userID string, since time.Time) (int, error)
}
