package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/PabloValdazoDEV/NotApp-Servidor/internal/core/domain"
	"github.com/PabloValdazoDEV/NotApp-Servidor/internal/core/port"
	"github.com/PabloValdazoDEV/NotApp-Servidor/internal/repository"
)

// HomeService coordinates home CRUD and image lifecycle.
type HomeService struct {
	users  port.UserRepository
	homes  port.HomeRepository
	lists  port.ListRepository
	items  port.ItemRepository
	media  port.MediaStore
	logger *zap.Logger
	now    func() time.Time
}

// NewHomeService constructs a HomeService.
func NewHomeService(users port.UserRepository, homes port.HomeRepository, lists port.ListRepository, items port.ItemRepository, media port.MediaStore, log *zap.Logger) *HomeService {
	return &HomeService{
		users:  users,
		homes:  homes,
		lists:  lists,
		items:  items,
		media:  media,
		logger: log,
		now:    time.Now,
	}
}

// WithClock allows tests to override the clock used by the service.
func (s *HomeService) WithClock(clock func() time.Time) {
	if clock != nil {
		s.now = clock
	}
}

// Create makes a new home owned by the user. The optional image file is
// uploaded before the home row is written.
func (s *HomeService) Create(ctx context.Context, userID, name string, image io.Reader, filename string) error {
	if userID == "" || name == "" {
		return ErrMissingFields
	}

	var imageRef *string
	if image != nil {
		url, err := s.media.Upload(ctx, image, filename)
		if err != nil {
			return fmt.Errorf("upload home image: %w", err)
		}
		imageRef = &url
	}

	now := s.now().UTC()
	home := domain.Home{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		Image:     imageRef,
		CreatedAt: now,
		UpdatedAt: now,
	}
	ownerMembership := domain.Membership{
		ID:        uuid.NewString(),
		UserID:    userID,
		HomeID:    home.ID,
		Role:      domain.RoleOwner,
		CreatedAt: now,
	}

	if err := s.homes.Create(ctx, home, ownerMembership); err != nil {
		return fmt.Errorf("create home: %w", err)
	}
	return nil
}

// ListByUser returns the user's homes.
func (s *HomeService) ListByUser(ctx context.Context, userID string) ([]domain.Home, error) {
	if userID == "" {
		return nil, ErrMissingFields
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	homes, err := s.homes.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list homes: %w", err)
	}
	return homes, nil
}

// Get returns the home detail with members, lists, and items.
func (s *HomeService) Get(ctx context.Context, homeID string) (*domain.HomeDetail, error) {
	if homeID == "" {
		return nil, ErrMissingFields
	}

	home, err := s.homes.GetByID(ctx, homeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrHomeNotFound
		}
		return nil, fmt.Errorf("get home: %w", err)
	}

	members, err := s.homes.ListMembers(ctx, homeID)
	if err != nil {
		return nil, fmt.Errorf("list home members: %w", err)
	}

	lists, err := s.lists.ListByHome(ctx, homeID)
	if err != nil {
		return nil, fmt.Errorf("list home lists: %w", err)
	}

	items, err := s.items.ListByHome(ctx, homeID)
	if err != nil {
		return nil, fmt.Errorf("list home items: %w", err)
	}

	return &domain.HomeDetail{
		Home:    *home,
		Members: members,
		Lists:   lists,
		Items:   items,
	}, nil
}

// UpdateInput carries the mutable home fields. A nil Image with ImageDelete
// false keeps the current image.
type HomeUpdateInput struct {
	HomeID      string
	Name        string
	ImageDelete bool
	Image       io.Reader
	Filename    string
}

// Update renames the home and replaces or removes its image.
func (s *HomeService) Update(ctx context.Context, input HomeUpdateInput) error {
	if input.HomeID == "" {
		return ErrMissingFields
	}

	home, err := s.homes.GetByID(ctx, input.HomeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrHomeNotFound
		}
		return fmt.Errorf("lookup home: %w", err)
	}

	imageRef := home.Image
	switch {
	case input.ImageDelete:
		if home.Image != nil {
			s.destroyImage(ctx, *home.Image)
		}
		imageRef = nil
	case input.Image != nil:
		if home.Image != nil {
			s.destroyImage(ctx, *home.Image)
		}
		url, err := s.media.Upload(ctx, input.Image, input.Filename)
		if err != nil {
			return fmt.Errorf("upload home image: %w", err)
		}
		imageRef = &url
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = home.Name
	}

	updated := *home
	updated.Name = name
	updated.Image = imageRef
	updated.UpdatedAt = s.now().UTC()

	if err := s.homes.Update(ctx, updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrHomeNotFound
		}
		return fmt.Errorf("update home: %w", err)
	}
	return nil
}

// Delete removes the home and its remote image. Memberships, invitations,
// lists, and items cascade in storage.
func (s *HomeService) Delete(ctx context.Context, homeID string) error {
	if homeID == "" {
		return ErrMissingFields
	}

	home, err := s.homes.GetByID(ctx, homeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrHomeNotFound
		}
		return fmt.Errorf("lookup home: %w", err)
	}

	if home.Image != nil {
		s.destroyImage(ctx, *home.Image)
	}

	if err := s.homes.Delete(ctx, homeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrHomeNotFound
		}
		return fmt.Errorf("delete home: %w", err)
	}
	return nil
}

// destroyImage is best-effort: a stale remote asset is not worth failing
// the primary operation over.
func (s *HomeService) destroyImage(ctx context.Context, ref string) {
	if err := s.media.Destroy(ctx, ref); err != nil {
		s.logger.Warn("destroy home image", zap.String("image", ref), zap.Error(err))
	}
}
