package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/PabloValdazoDEV/NotApp-Servidor/internal/core/domain"
	"github.com/PabloValdazoDEV/NotApp-Servidor/internal/core/port"
	"github.com/PabloValdazoDEV/NotApp-Servidor/internal/repository"
)

// ProfileService reads and updates user profiles.
type ProfileService struct {
	users  port.UserRepository
	media  port.MediaStore
	logger *zap.Logger
	now    func() time.Time
}

// NewProfileService constructs a ProfileService.
func NewProfileService(users port.UserRepository, media port.MediaStore, log *zap.Logger) *ProfileService {
	return &ProfileService{
		users:  users,
		media:  media,
		logger: log,
		now:    time.Now,
	}
}

// WithClock allows tests to override the clock used by the service.
func (s *ProfileService) WithClock(clock func() time.Time) {
	if clock != nil {
		s.now = clock
	}
}

// Get returns the user's profile and pending invitations.
func (s *ProfileService) Get(ctx context.Context, userID string) (*domain.User, []domain.Invitation, error) {
	if userID == "" {
		return nil, nil, ErrMissingFields
	}

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

// ProfileUpdateInput carries the mutable profile fields. Empty Name or
// Email keep the current values; a non-nil Avatar replaces the stored image.
type ProfileUpdateInput struct {
	UserID   string
	Name     string
	Email    string
	Avatar   io.Reader
	Filename string
}

// Update applies the profile changes.
func (s *ProfileService) Update(ctx context.Context, input ProfileUpdateInput) error {
	if input.UserID == "" {
		return ErrMissingFields
	}

	user, err := s.users.GetByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	imageRef := user.Image
	if input.Avatar != nil {
		if user.Image != nil {
			if err := s.media.Destroy(ctx, *user.Image); err != nil {
				s.logger.Warn("destroy profile image", zap.String("image", *user.Image), zap.Error(err))
			}
		}
		url, err := s.media.Upload(ctx, input.Avatar, input.Filename)
		if err != nil {
			return fmt.Errorf("upload profile image: %w", err)
		}
		imageRef = &url
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = user.Name
	}
	email := strings.TrimSpace(input.Email)
	if email == "" {
		email = user.Email
	}

	updated := *user
	updated.Name = name
	updated.Email = email
	updated.Image = imageRef
	updated.UpdatedAt = s.now().UTC()

	if err := s.users.UpdateProfile(ctx, updated); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return ErrUserNotFound
		case errors.Is(err, repository.ErrDuplicate):
			return ErrEmailTaken
		}
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}
