package port

import (
	"context"
	"time"

	"github.com/PabloValdazoDEV/NotApp-Servidor/internal/core/domain"
)

// TokenRepository persists one-time tokens for the reset and invite flows.
type TokenRepository interface {
	Create(ctx context.Context, token domain.OneTimeToken) error
	GetByHash(ctx context.Context, hash string) (*domain.OneTimeToken, error)
	// Consume atomically marks the live token as used and returns it.
	// The update is conditional on the row being unused and unexpired, so two
	// concurrent redemptions of the same token cannot both succeed.
	// Returns repository.ErrNotFound when no live row matched.
	Consume(ctx context.Context, hash string, at time.Time) (*domain.OneTimeToken, error)
}
