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

// AuthService coordinates registration, login, and session introspection.
type AuthService struct {
	users             port.UserRepository
	loginFailures     port.LoginFailureStore
	issuer            *security.TokenIssuer
	passwordValidator *security.PasswordValidator
	events            port.EventPublisher
	logger            *zap.Logger
	now               func() time.Time
	throttleWindow    time.Duration
	throttleMax       int
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(
	users port.UserRepository,
	loginFailures port.LoginFailureStore,
	issuer *security.TokenIssuer,
	passwordValidator *security.PasswordValidator,
	events port.EventPublisher,
	log *zap.Logger,
	throttleWindow time.Duration,
	throttleMax int,
) *AuthService {
	if throttleWindow <= 0 {
		throttleWindow = 10 * time.Minute
	}
	if throttleMax <= 0 {
		throttleMax = 3
	}
	return &AuthService{
		users:             users,
		loginFailures:     loginFailures,
		issuer:            issuer,
		passwordValidator: passwordValidator,
		events:            events,
		logger:            log,
		now:               time.Now,
		throttleWindow:    throttleWindow,
		throttleMax:       throttleMax,
	}
}

// WithClock allows tests to override the clock used by the service.
func (s *AuthService) WithClock(clock func() time.Time) {
	if clock != nil {
		s.now = clock
	}
}

// RegisterInput carries the plain registration payload.
type RegisterInput struct {
	Name            string
	Email           string
	EmailConfirm    string
	Password        string
	PasswordConfirm string
}

// Register validates the payload, creates the user, and issues a session token.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, string, error) {
	if err := validateRegistration(input.Name, input.Email, input.EmailConfirm, input.Password, input.PasswordConfirm, s.passwordValidator); err != nil {
		return nil, "", err
	}

	email := strings.TrimSpace(input.Email)
	password := strings.TrimSpace(input.Password)

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, "", fmt.Errorf("lookup email: %w", err)
	}

	if score := security.PasswordStrengthScore(password, input.Name, email); score < 2 {
		s.logger.Warn("weak password accepted by policy",
			zap.Int("zxcvbn_score", score),
			zap.String("email", logger.MaskEmail(email)),
		)
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	user := domain.User{
		ID:           uuid.NewString(),
		Name:         input.Name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.issuer.IssueSession(user.ID, user.Email, user.Name)
	if err != nil {
		return nil, "", fmt.Errorf("issue session token: %w", err)
	}

	if err := s.events.PublishUserRegistered(ctx, domain.UserRegisteredEvent{
		UserID:       user.ID,
		Name:         user.Name,
		Email:        user.Email,
		RegisteredAt: now,
		Method:       "register",
	}); err != nil {
		s.logger.Warn("publish user registered event", zap.Error(err))
	}

	sanitized := user
	sanitized.PasswordHash = ""
	return &sanitized, token, nil
}

// Login authenticates the user and issues a session token. Failed password
// checks record a throttle failure; the throttle is consulted both before
// hashing work and again after recording, so the caller always learns
// whether the account is already blocked.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrUnknownEmail
		}
		return "", fmt.Errorf("lookup user: %w", err)
	}

	now := s.now().UTC()
	since := now.Add(-s.throttleWindow)

	priorFailures, err := s.loginFailures.CountSince(ctx, user.ID, since)
	if err != nil {
		return "", fmt.Errorf("count login failures: %w", err)
	}
	if priorFailures >= s.throttleMax {
		return "", ErrLoginBlocked
	}

	ok, err := security.VerifyPassword(strings.TrimSpace(password), user.PasswordHash)
	if err != nil {
		s.logger.Warn("malformed password hash",
			zap.String("user_id", user.ID),
			zap.Error(err),
		)
		ok = false
	}

	if !ok {
		if err := s.loginFailures.RecordFailure(ctx, user.ID, now); err != nil {
			return "", fmt.Errorf("record login failure: %w", err)
		}

		// This failure may have been the one that crossed the threshold.
		if priorFailures >= s.throttleMax-1 {
			return "", ErrLoginBlocked
		}

		remaining := s.throttleMax - 1 - priorFailures
		if remaining < 0 {
			remaining = 0
		}
		return "", &RemainingAttemptsError{Remaining: remaining}
	}

	token, err := s.issuer.IssueSession(user.ID, user.Email, user.Name)
	if err != nil {
		return "", fmt.Errorf("issue session token: %w", err)
	}

	return token, nil
}

// ParseSession validates a bearer token and returns its identity claims.
func (s *AuthService) ParseSession(token string) (*security.SessionClaims, error) {
	return s.issuer.ParseSession(token)
}

// Me returns the user's profile and pending invitations.
func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, []domain.Invitation, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, fmt.Errorf("lookup user: %w", err)
	}

	invitations, err := s.users.ListInvitations(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("list invitations: %w", err)
	}

	sanitized := *user
	sanitized.PasswordHash = ""
	return &sanitized, invitations, nil
}
