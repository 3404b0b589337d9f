package port

import (
	"context"

	"github.com/PabloValdazoDEV/NotApp-Servidor/internal/core/domain"
)

// HomeRepository persists homes, memberships, and invitations.
type HomeRepository interface {
	// Create inserts the home and its OWNER membership atomically.
	Create(ctx context.Context, home domain.Home, ownerMembership domain.Membership) error
	GetByID(ctx context.Context, id string) (*domain.Home, error)
	// ListMembers returns the home's memberships with each member's user loaded.
	ListMembers(ctx context.Context, homeID string) ([]domain.HomeMember, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Home, error)
	Update(ctx context.Context, home domain.Home) error
	Delete(ctx context.Context, id string) error

	CreateMembership(ctx context.Context, membership domain.Membership) error
	// HasMemberEmail reports whether any current member of the home uses the email.
	HasMemberEmail(ctx context.Context, homeID, email string) (bool, error)

	CreateInvitation(ctx context.Context, invitation domain.Invitation) error
	GetInvitation(ctx context.Context, id string) (*domain.InvitationDetail, error)
	DeleteInvitation(ctx context.Context, id string) error
	// HasPendingInvitation reports whether the email already has an invitation to the home.
	HasPendingInvitation(ctx context.Context, homeID, email string) (bool, error)
}

// ListRepository persists shopping lists.
type ListRepository interface {
	Create(ctx context.Context, list domain.List) error
	ListByHome(ctx context.Context, homeID string) ([]domain.List, error)
}

// ItemRepository persists shopping items.
type ItemRepository interface {
	Create(ctx context.Context, item domain.Item) error
	ListByHome(ctx context.Context, homeID string) ([]domain.Item, error)
}
