package port

import (
	"context"
	"time"

	"github.com/PabloValdazoDEV/NotApp-Servidor/internal/core/domain"
)

// UserRepository persists user accounts.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateProfile(ctx context.Context, user domain.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string, changedAt time.Time) error
	// ListInvitations returns the user's pending home invitations.
	ListInvitations(ctx context.Context, userID string) ([]domain.Invitation, error)
}
