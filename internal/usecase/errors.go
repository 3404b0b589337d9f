package usecase

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/PabloValdazoDEV/NotApp-Servidor/internal/infra/security"
)

var (
	// ErrMissingFields indicates a required request field is absent.
	ErrMissingFields = errors.New("missing fields")
	// ErrEmailMismatch indicates email and its confirmation differ.
	ErrEmailMismatch = errors.New("email confirmation mismatch")
	// ErrPasswordMismatch indicates password and its confirmation differ.
	ErrPasswordMismatch = errors.New("password confirmation mismatch")
	// ErrCredentialFormat indicates the email or password fails basic format checks.
	ErrCredentialFormat = errors.New("invalid email or password format")
	// ErrWeakPassword indicates the password fails the complexity policy.
	ErrWeakPassword = errors.New("password does not meet complexity policy")
	// ErrEmailTaken indicates the email is already registered.
	ErrEmailTaken = errors.New("email already registered")
	// ErrUnknownEmail indicates no account exists for the email.
	ErrUnknownEmail = errors.New("unknown email")
	// ErrUserNotFound indicates the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrHomeNotFound indicates the referenced home does not exist.
	ErrHomeNotFound = errors.New("home not found")
	// ErrInvitationNotFound indicates the referenced invitation does not exist.
	ErrInvitationNotFound = errors.New("invitation not found")
	// ErrAlreadyMember indicates the invited email already belongs to the home.
	ErrAlreadyMember = errors.New("email already a member of the home")
	// ErrAlreadyInvited indicates the invited email already has a pending invitation.
	ErrAlreadyInvited = errors.New("email already has a pending invitation")
	// ErrTokenInvalid indicates a one-time token is used, expired, or forged.
	ErrTokenInvalid = errors.New("one-time token invalid")
	// ErrTokenNotFound indicates no one-time token record exists for the value.
	ErrTokenNotFound = errors.New("one-time token not found")
	// ErrInviteEmailMismatch indicates the submitted email differs from the invited one.
	ErrInviteEmailMismatch = errors.New("email does not match invitation")
	// ErrInvalidCredentials is wrapped by RemainingAttemptsError for bad passwords.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrLoginBlocked indicates the account is throttled by recent failures.
	ErrLoginBlocked = errors.New("too many failed login attempts")
)

// RemainingAttemptsError reports a rejected password together with how many
// attempts remain before the throttle blocks the account.
type RemainingAttemptsError struct {
	Remaining int
}

// Error implements error.
func (e *RemainingAttemptsError) Error() string {
	return fmt.Sprintf("invalid credentials, %d attempts remaining", e.Remaining)
}

// Unwrap lets errors.Is match ErrInvalidCredentials.
func (e *RemainingAttemptsError) Unwrap() error {
	return ErrInvalidCredentials
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// validateRegistration applies the shared field checks for both plain and
// invite-based registration, in the order the API contract promises.
func validateRegistration(name, email, emailConfirm, password, passwordConfirm string, validator *security.PasswordValidator) error {
	if name == "" || email == "" || emailConfirm == "" || password == "" || passwordConfirm == "" {
		return ErrMissingFields
	}
	if email != emailConfirm {
		return ErrEmailMismatch
	}
	if password != passwordConfirm {
		return ErrPasswordMismatch
	}
	if !emailPattern.MatchString(strings.TrimSpace(email)) {
		return ErrCredentialFormat
	}
	if err := validator.Validate(strings.TrimSpace(password)); err != nil {
		return ErrWeakPassword
	}
	return nil
}
