package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/PabloValdazoDEV/NotApp-Servidor/internal/core/domain"
)

// StubPublisher logs events instead of sending them to Kafka. Useful for development environments.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

func (p *StubPublisher) logEvent(eventType, userID string, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("Stub event published",
		zap.String("event_type", eventType),
		zap.String("user_id", userID),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishUserRegistered logs notapp.user.registered events.
func (p *StubPublisher) PublishUserRegistered(_ context.Context, event domain.UserRegisteredEvent) error {
	payload := map[string]any{
		"user_id":       event.UserID,
		"name":          event.Name,
		"email":         event.Email,
		"registered_at": event.RegisteredAt,
		"method":        event.Method,
		"metadata":      event.Metadata,
	}
	p.logEvent("notapp.user.registered", event.UserID, event.RegisteredAt, payload)
	return nil
}

// PublishPasswordChanged logs notapp.user.password.changed events.
func (p *StubPublisher) PublishPasswordChanged(_ context.Context, event domain.PasswordChangedEvent) error {
	payload := map[string]any{
		"user_id":    event.UserID,
		"changed_at": event.ChangedAt,
		"metadata":   event.Metadata,
	}
	p.logEvent("notapp.user.password.changed", event.UserID, event.ChangedAt, payload)
	return nil
}

// PublishInvitationResolved logs notapp.home.invitation.resolved events.
func (p *StubPublisher) PublishInvitationResolved(_ context.Context, event domain.InvitationResolvedEvent) error {
	payload := map[string]any{
		"invitation_id": event.InvitationID,
		"user_id":       event.UserID,
		"home_id":       event.HomeID,
		"accepted":      event.Accepted,
		"resolved_at":   event.ResolvedAt,
		"metadata":      event.Metadata,
	}
	p.logEvent("notapp.home.invitation.resolved", event.UserID, event.ResolvedAt, payload)
	return nil
}
