package port

import "context"

// Mailer delivers transactional email. Callers treat delivery as
// fire-and-forget: failures are logged, never surfaced to the HTTP response.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, link string) error
	SendHomeInvitation(ctx context.Context, to, homeName, link string) error
}
