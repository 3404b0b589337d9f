package domain

import "time"

// TokenPurpose tags what a one-time token authorizes.
type TokenPurpose string

const (
	TokenPurposeResetPassword TokenPurpose = "reset-password"
	TokenPurposeInviteHome    TokenPurpose = "invite-home"
)

// OneTimeToken is a single-use, time-bounded credential. The signed token
// string itself is never stored; the row keeps its SHA-256 hash, and
// redemption is authoritative from this record, not from the signature.
type OneTimeToken struct {
	ID        string
	TokenHash string
	Purpose   TokenPurpose
	UserID    *string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}

// Used reports whether the token has already been redeemed.
func (t OneTimeToken) Used() bool {
	return t.UsedAt != nil
}

// Expired reports whether the token is past its expiration at the given instant.
func (t OneTimeToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
