package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenExpired signals the token's exp claim is in the past.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid covers every other verification failure: bad
	// signature, wrong purpose, malformed payload.
	ErrTokenInvalid = errors.New("token invalid")
)

// SessionClaims carries the authenticated user identity embedded in a
// session token.
type SessionClaims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// ResetClaims is embedded in a password-reset token.
type ResetClaims struct {
	UserID  string `json:"user_id"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// InviteClaims is embedded in a home-invitation token. The invited email
// is carried so registration through an invite link can pre-fill and
// cross-check it.
type InviteClaims struct {
	HomeID  string `json:"id_hogar"`
	Email   string `json:"email"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

const (
	purposeResetPassword = "reset-password"
	purposeInviteHome    = "invite-home"
)

// TokenIssuer signs and verifies the three token families used by the
// service: sessions, password resets, and home invitations. All tokens
// are HS256 under a single process-wide secret.
type TokenIssuer struct {
	secret     []byte
	issuer     string
	sessionTTL time.Duration
	resetTTL   time.Duration
	inviteTTL  time.Duration
	now        func() time.Time
}

// NewTokenIssuer constructs a TokenIssuer. The secret must be non-empty.
func NewTokenIssuer(secret, issuer string, sessionTTL, resetTTL, inviteTTL time.Duration) (*TokenIssuer, error) {
	if secret == "" {
		return nil, errors.New("security: jwt secret is required")
	}
	return &TokenIssuer{
		secret:     []byte(secret),
		issuer:     issuer,
		sessionTTL: sessionTTL,
		resetTTL:   resetTTL,
		inviteTTL:  inviteTTL,
		now:        time.Now,
	}, nil
}

// WithClock overrides the issuer's time source for tests.
func (t *TokenIssuer) WithClock(now func() time.Time) *TokenIssuer {
	t.now = now
	return t
}

// SessionTTL reports the configured session token lifetime.
func (t *TokenIssuer) SessionTTL() time.Duration { return t.sessionTTL }

// InviteTTL reports the configured invitation token lifetime.
func (t *TokenIssuer) InviteTTL() time.Duration { return t.inviteTTL }

// IssueSession signs a session token for the given user.
func (t *TokenIssuer) IssueSession(userID, email, name string) (string, error) {
	now := t.now()
	jti, err := t.newTokenID()
	if err != nil {
		return "", err
	}
	claims := SessionClaims{
		UserID: userID,
		Email:  email,
		Name:   name,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Issuer:    t.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.sessionTTL)),
		},
	}
	return t.sign(claims)
}

// IssueReset signs a short-lived password-reset token for the given user.
func (t *TokenIssuer) IssueReset(userID string) (string, error) {
	now := t.now()
	jti, err := t.newTokenID()
	if err != nil {
		return "", err
	}
	claims := ResetClaims{
		UserID:  userID,
		Purpose: purposeResetPassword,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Issuer:    t.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.resetTTL)),
		},
	}
	return t.sign(claims)
}

// IssueInvite signs a home-invitation token addressed to the given email.
func (t *TokenIssuer) IssueInvite(homeID, email string) (string, error) {
	now := t.now()
	jti, err := t.newTokenID()
	if err != nil {
		return "", err
	}
	claims := InviteClaims{
		HomeID:  homeID,
		Email:   email,
		Purpose: purposeInviteHome,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Issuer:    t.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.inviteTTL)),
		},
	}
	return t.sign(claims)
}

// newTokenID mints a random jti so each issued token is revocable and
// distinguishable even when claims and timestamps collide.
func (t *TokenIssuer) newTokenID() (string, error) {
	jti, err := GenerateSecureToken(16)
	if err != nil {
		return "", fmt.Errorf("security: token id: %w", err)
	}
	return jti, nil
}

func (t *TokenIssuer) sign(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("security: sign token: %w", err)
	}
	return signed, nil
}

// ParseSession verifies a session token and returns its claims.
func (t *TokenIssuer) ParseSession(raw string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	if err := t.parse(raw, claims); err != nil {
		return nil, err
	}
	if claims.UserID == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// ParseReset verifies a password-reset token and returns its claims.
func (t *TokenIssuer) ParseReset(raw string) (*ResetClaims, error) {
	claims := &ResetClaims{}
	if err := t.parse(raw, claims); err != nil {
		return nil, err
	}
	if claims.Purpose != purposeResetPassword || claims.UserID == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// ParseInvite verifies a home-invitation token and returns its claims.
func (t *TokenIssuer) ParseInvite(raw string) (*InviteClaims, error) {
	claims := &InviteClaims{}
	if err := t.parse(raw, claims); err != nil {
		return nil, err
	}
	if claims.Purpose != purposeInviteHome || claims.HomeID == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func (t *TokenIssuer) parse(raw string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(raw, claims, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return ErrTokenInvalid
	}
	if !token.Valid {
		return ErrTokenInvalid
	}
	return nil
}
