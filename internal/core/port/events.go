package port

import (
	"context"

	"github.com/PabloValdazoDEV/NotApp-Servidor/internal/core/domain"
)

// EventPublisher forwards domain events to downstream consumers. Publish
// failures must never fail the primary operation; implementations log and
// move on.
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, event domain.UserRegisteredEvent) error
	PublishPasswordChanged(ctx context.Context, event domain.PasswordChangedEvent) error
	PublishInvitationResolved(ctx context.Context, event domain.InvitationResolvedEvent) error
}
