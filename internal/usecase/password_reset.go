package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/PabloValdazoDEV/NotApp-Servidor/internal/core/domain"
	"github.com/PabloValdazoDEV/NotApp-Servidor/internal/core/port"
	"github.com/PabloValdazoDEV/NotApp-Servidor/internal/infra/logger"
	"github.com/PabloValdazoDEV/NotApp-Servidor/internal/infra/security"
	"github.com/PabloValdazoDEV/NotApp-Servidor/internal/repository"
)

const mailDeliveryTimeout = 20 * time.Second

// PasswordResetService coordinates the forgot/reset/check-token flow.
type PasswordResetService struct {
	users             port.UserRepository
	tokens            port.TokenRepository
	issuer            *security.TokenIssuer
	passwordValidator *security.PasswordValidator
	mailer            port.Mailer
	events            port.EventPublisher
	logger            *zap.Logger
	publicURL         string
	resetTTL          time.Duration
	now               func() time.Time
}

// NewPasswordResetService constructs a PasswordResetService.
func NewPasswordResetService(
	users port.UserRepository,
	tokens port.TokenRepository,
	issuer *security.TokenIssuer,
	passwordValidator *security.PasswordValidator,
	mailer port.Mailer,
	events port.EventPublisher,
	log *zap.Logger,
	publicURL string,
	resetTTL time.Duration,
) *PasswordResetService {
	if resetTTL <= 0 {
		resetTTL = 30 * time.Minute
	}
	return &PasswordResetService{
		users:             users,
		tokens:            tokens,
		issuer:            issuer,
		passwordValidator: passwordValidator,
		mailer:            mailer,
		events:            events,
		logger:            log,
		publicURL:         strings.TrimSuffix(publicURL, "/") + "/",
		resetTTL:          resetTTL,
		now:               time.Now,
	}
}

// WithClock allows tests to override the clock used by the service.
func (s *PasswordResetService) WithClock(clock func() time.Time) {
	if clock != nil {
		s.now = clock
	}
}

// Forgot creates a reset token for the account and mails the reset link.
// Unknown emails surface ErrUserNotFound; the resulting 404 leaks account
// existence, which the current API contract knowingly preserves. Delivery is
// fire-and-forget: the caller gets success even when the mail later fails.
func (s *PasswordResetService) Forgot(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	token, err := s.issuer.IssueReset(user.ID)
	if err != nil {
		return fmt.Errorf("issue reset token: %w", err)
	}

	now := s.now().UTC()
	userID := user.ID
	record := domain.OneTimeToken{
		ID:        uuid.NewString(),
		TokenHash: security.HashToken(token),
		Purpose:   domain.TokenPurposeResetPassword,
		UserID:    &userID,
		ExpiresAt: now.Add(s.resetTTL),
		CreatedAt: now,
	}
	if err := s.tokens.Create(ctx, record); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	link := s.publicURL + "reset-password?token=" + token
	recipient := user.Email

	go func() {
		mailCtx, cancel := context.WithTimeout(context.Background(), mailDeliveryTimeout)
		defer cancel()
		if err := s.mailer.SendPasswordReset(mailCtx, recipient, link); err != nil {
			s.logger.Error("send password reset mail",
				zap.String("email", logger.MaskEmail(recipient)),
				zap.Error(err),
			)
		}
	}()

	return nil
}

// Reset redeems the token and stores the new password. Redemption is
// authoritative from storage: the signature check alone is not enough, the
// stored record must still be unused and unexpired at consume time.
func (s *PasswordResetService) Reset(ctx context.Context, rawToken, password, passwordConfirm string) error {
	if password == "" || passwordConfirm == "" {
		return ErrMissingFields
	}

	passwordClean := strings.TrimSpace(password)
	if passwordClean != strings.TrimSpace(passwordConfirm) {
		return ErrPasswordMismatch
	}
	if err := s.passwordValidator.Validate(passwordClean); err != nil {
		return ErrWeakPassword
	}

	if _, err := s.issuer.ParseReset(rawToken); err != nil {
		return ErrTokenInvalid
	}

	now := s.now().UTC()
	record, err := s.tokens.Consume(ctx, security.HashToken(rawToken), now)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTokenInvalid
		}
		return fmt.Errorf("consume reset token: %w", err)
	}
	if record.UserID == nil {
		return ErrTokenInvalid
	}

	hash, err := security.HashPassword(passwordClean)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, *record.UserID, hash, now); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTokenInvalid
		}
		return fmt.Errorf("update password: %w", err)
	}

	if err := s.events.PublishPasswordChanged(ctx, domain.PasswordChangedEvent{
		UserID:    *record.UserID,
		ChangedAt: now,
	}); err != nil {
		s.logger.Warn("publish password changed event", zap.Error(err))
	}

	return nil
}

// CheckToken reports token validity without consuming it, so a subsequent
// redemption of the same token still succeeds.
func (s *PasswordResetService) CheckToken(ctx context.Context, rawToken string) error {
	record, err := s.tokens.GetByHash(ctx, security.HashToken(rawToken))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTokenNotFound
		}
		return fmt.Errorf("lookup token: %w", err)
	}

	if record.Used() || record.Expired(s.now().UTC()) {
		return ErrTokenInvalid
	}

	return nil
}
