package domain

import "time"

// UserRegisteredEvent is emitted after a new account is created.
type UserRegisteredEvent struct {
	EventID      string
	UserID       string
	Name         string
	Email        string
	RegisteredAt time.Time
	// Method distinguishes plain registration from invite-based registration.
	Method   string
	Metadata map[string]any
}

// PasswordChangedEvent is emitted after a password reset completes.
type PasswordChangedEvent struct {
	EventID   string
	UserID    string
	ChangedAt time.Time
	Metadata  map[string]any
}

// InvitationResolvedEvent is emitted when a pending invitation is accepted or rejected.
type InvitationResolvedEvent struct {
	EventID      string
	InvitationID string
	UserID       string
	HomeID       string
	Accepted     bool
	ResolvedAt   time.Time
	Metadata     map[string]any
}
