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

// CatalogService coordinates the shopping lists and items owned by homes.
type CatalogService struct {
	homes  port.HomeRepository
	lists  port.ListRepository
	items  port.ItemRepository
	media  port.MediaStore
	logger *zap.Logger
	now    func() time.Time
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(homes port.HomeRepository, lists port.ListRepository, items port.ItemRepository, media port.MediaStore, log *zap.Logger) *CatalogService {
	return &CatalogService{
		homes:  homes,
		lists:  lists,
		items:  items,
		media:  media,
		logger: log,
		now:    time.Now,
	}
}

// WithClock allows tests to override the clock used by the service.
func (s *CatalogService) WithClock(clock func() time.Time) {
	if clock != nil {
		s.now = clock
	}
}

// ItemInput carries the create-item payload.
type ItemInput struct {
	HomeID      string
	Name        string
	Description string
	Price       string
	Categories  string
	Image       io.Reader
	Filename    string
}

// CreateItem adds an item to the home, uploading the optional image first.
func (s *CatalogService) CreateItem(ctx context.Context, input ItemInput) (*domain.Item, error) {
	if input.HomeID == "" || input.Name == "" {
		return nil, ErrMissingFields
	}

	if _, err := s.homes.GetByID(ctx, input.HomeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrHomeNotFound
		}
		return nil, fmt.Errorf("lookup home: %w", err)
	}

	var imageRef *string
	if input.Image != nil {
		url, err := s.media.Upload(ctx, input.Image, input.Filename)
		if err != nil {
			return nil, fmt.Errorf("upload item image: %w", err)
		}
		imageRef = &url
	}

	now := s.now().UTC()
	item := domain.Item{
		ID:          uuid.NewString(),
		HomeID:      input.HomeID,
		Name:        strings.TrimSpace(input.Name),
		Image:       imageRef,
		Description: input.Description,
		Price:       input.Price,
		Categories:  input.Categories,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.items.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	return &item, nil
}

// CreateList adds a shopping list to the home.
func (s *CatalogService) CreateList(ctx context.Context, homeID, name string) (*domain.List, error) {
	if homeID == "" || name == "" {
		return nil, ErrMissingFields
	}

	if _, err := s.homes.GetByID(ctx, homeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrHomeNotFound
		}
		return nil, fmt.Errorf("lookup home: %w", err)
	}

	now := s.now().UTC()
	list := domain.List{
		ID:        uuid.NewString(),
		HomeID:    homeID,
		Name:      strings.TrimSpace(name),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.lists.Create(ctx, list); err != nil {
		return nil, fmt.Errorf("create list: %w", err)
	}
	return &list, nil
}
