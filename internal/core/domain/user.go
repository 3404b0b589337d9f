package domain

import "time"

// User represents a registered account.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Image        *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// LoginFailure records a single failed login attempt for a user.
// Rows are append-only; throttling reads them through a trailing window.
type LoginFailure struct {
	ID          string
	UserID      string
	AttemptedAt time.Time
}
