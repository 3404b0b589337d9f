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

// InvitationService coordinates inviting users into homes and resolving
// the resulting invitations.
type InvitationService struct {
	users             port.UserRepository
	homes             port.HomeRepository
	tokens            port.TokenRepository
	issuer            *security.TokenIssuer
	passwordValidator *security.PasswordValidator
	mailer            port.Mailer
	events            port.EventPublisher
	logger            *zap.Logger
	publicURL         string
	now               func() time.Time
}

// NewInvitationService constructs an InvitationService.
func NewInvitationService(
	users port.UserRepository,
	homes port.HomeRepository,
	tokens port.TokenRepository,
	issuer *security.TokenIssuer,
	passwordValidator *security.PasswordValidator,
	mailer port.Mailer,
	events port.EventPublisher,
	log *zap.Logger,
	publicURL string,
) *InvitationService {
	return &InvitationService{
		users:             users,
		homes:             homes,
		tokens:            tokens,
		issuer:            issuer,
		passwordValidator: passwordValidator,
		mailer:            mailer,
		events:            events,
		logger:            log,
		publicURL:         strings.TrimSuffix(publicURL, "/") + "/",
		now:               time.Now,
	}
}

// WithClock allows tests to override the clock used by the service.
func (s *InvitationService) WithClock(clock func() time.Time) {
	if clock != nil {
		s.now = clock
	}
}

// InviteOutcome reports which of the two invite paths ran.
type InviteOutcome struct {
	// EmailSent is true when the invitee had no account and received a
	// register-via-invite link.
	EmailSent bool
	// InviteeName is set when an Invitation row was created for an
	// existing account.
	InviteeName string
}

// Invite adds the email to the home, either by mailing a registration link
// (no account yet) or by creating an Invitation row (existing account).
func (s *InvitationService) Invite(ctx context.Context, homeID, email string) (*InviteOutcome, error) {
	if homeID == "" || email == "" {
		return nil, ErrMissingFields
	}

	home, err := s.homes.GetByID(ctx, homeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrHomeNotFound
		}
		return nil, fmt.Errorf("lookup home: %w", err)
	}

	member, err := s.homes.HasMemberEmail(ctx, homeID, email)
	if err != nil {
		return nil, fmt.Errorf("check home membership: %w", err)
	}
	if member {
		return nil, ErrAlreadyMember
	}

	pending, err := s.homes.HasPendingInvitation(ctx, homeID, email)
	if err != nil {
		return nil, fmt.Errorf("check pending invitation: %w", err)
	}
	if pending {
		return nil, ErrAlreadyInvited
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("lookup user: %w", err)
		}
		// No account: mail a one-day register-via-invite link.
		if err := s.inviteByMail(ctx, home, email); err != nil {
			return nil, err
		}
		return &InviteOutcome{EmailSent: true}, nil
	}

	invitation := domain.Invitation{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		HomeID:    homeID,
		CreatedAt: s.now().UTC(),
	}
	if err := s.homes.CreateInvitation(ctx, invitation); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyInvited
		}
		return nil, fmt.Errorf("create invitation: %w", err)
	}

	return &InviteOutcome{InviteeName: user.Name}, nil
}

func (s *InvitationService) inviteByMail(ctx context.Context, home *domain.Home, email string) error {
	token, err := s.issuer.IssueInvite(home.ID, email)
	if err != nil {
		return fmt.Errorf("issue invite token: %w", err)
	}

	now := s.now().UTC()
	record := domain.OneTimeToken{
		ID:        uuid.NewString(),
		TokenHash: security.HashToken(token),
		Purpose:   domain.TokenPurposeInviteHome,
		ExpiresAt: now.Add(s.issuer.InviteTTL()),
		CreatedAt: now,
	}
	if err := s.tokens.Create(ctx, record); err != nil {
		return fmt.Errorf("store invite token: %w", err)
	}

	link := s.publicURL + "register-special?token=" + token
	homeName := home.Name

	go func() {
		mailCtx, cancel := context.WithTimeout(context.Background(), mailDeliveryTimeout)
		defer cancel()
		if err := s.mailer.SendHomeInvitation(mailCtx, email, homeName, link); err != nil {
			s.logger.Error("send home invitation mail",
				zap.String("email", logger.MaskEmail(email)),
				zap.Error(err),
			)
		}
	}()

	return nil
}

// RegisterViaInviteInput carries the register-special payload.
type RegisterViaInviteInput struct {
	Name            string
	Email           string
	EmailConfirm    string
	Password        string
	PasswordConfirm string
	Token           string
}

// RegisterViaInvite redeems an invite token and registers the invited user,
// leaving them with a pending invitation to the token's home.
func (s *InvitationService) RegisterViaInvite(ctx context.Context, input RegisterViaInviteInput) (*domain.User, string, error) {
	if input.Token == "" {
		return nil, "", ErrMissingFields
	}
	if err := validateRegistration(input.Name, input.Email, input.EmailConfirm, input.Password, input.PasswordConfirm, s.passwordValidator); err != nil {
		return nil, "", err
	}

	claims, err := s.issuer.ParseInvite(input.Token)
	if err != nil {
		return nil, "", ErrTokenInvalid
	}
	if claims.Email != strings.TrimSpace(input.Email) {
		return nil, "", ErrInviteEmailMismatch
	}

	email := strings.TrimSpace(input.Email)
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, "", fmt.Errorf("lookup email: %w", err)
	}

	now := s.now().UTC()
	if _, err := s.tokens.Consume(ctx, security.HashToken(input.Token), now); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrTokenInvalid
		}
		return nil, "", fmt.Errorf("consume invite token: %w", err)
	}

	hash, err := security.HashPassword(strings.TrimSpace(input.Password))
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

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

	sessionToken, err := s.issuer.IssueSession(user.ID, user.Email, user.Name)
	if err != nil {
		return nil, "", fmt.Errorf("issue session token: %w", err)
	}

	invitation := domain.Invitation{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		HomeID:    claims.HomeID,
		CreatedAt: now,
	}
	if err := s.homes.CreateInvitation(ctx, invitation); err != nil {
		return nil, "", fmt.Errorf("create invitation: %w", err)
	}

	if err := s.events.PublishUserRegistered(ctx, domain.UserRegisteredEvent{
		UserID:       user.ID,
		Name:         user.Name,
		Email:        user.Email,
		RegisteredAt: now,
		Method:       "invite",
	}); err != nil {
		s.logger.Warn("publish user registered event", zap.Error(err))
	}

	sanitized := user
	sanitized.PasswordHash = ""
	return &sanitized, sessionToken, nil
}

// Resolve accepts or rejects a pending invitation. Accepting creates the
// MEMBER membership before the invitation row is deleted.
func (s *InvitationService) Resolve(ctx context.Context, invitationID string, accept bool) (*domain.InvitationDetail, error) {
	if invitationID == "" {
		return nil, ErrMissingFields
	}

	detail, err := s.homes.GetInvitation(ctx, invitationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, fmt.Errorf("lookup invitation: %w", err)
	}

	now := s.now().UTC()
	if accept {
		membership := domain.Membership{
			ID:        uuid.NewString(),
			UserID:    detail.UserID,
			HomeID:    detail.HomeID,
			Role:      domain.RoleMember,
			CreatedAt: now,
		}
		if err := s.homes.CreateMembership(ctx, membership); err != nil && !errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("create membership: %w", err)
		}
	}

	if err := s.homes.DeleteInvitation(ctx, invitationID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("delete invitation: %w", err)
	}

	if err := s.events.PublishInvitationResolved(ctx, domain.InvitationResolvedEvent{
		InvitationID: detail.ID,
		UserID:       detail.UserID,
		HomeID:       detail.HomeID,
		Accepted:     accept,
		ResolvedAt:   now,
	}); err != nil {
		s.logger.Warn("publish invitation resolved event", zap.Error(err))
	}

	return detail, nil
}
