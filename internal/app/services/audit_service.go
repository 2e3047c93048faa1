package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/mbaylon/interntrack/internal/app/models"
	"github.com/mbaylon/interntrack/internal/pkg/events"
)

// AuditLogStore reads back persisted audit entries
type AuditLogStore interface {
	GetRecent(ctx context.Context, limit int) ([]models.AuditEntry, error)
}

// AuditService exposes the audit trail to the admin surface
type AuditService struct {
	store AuditLogStore
}

// NewAuditService creates a new audit service instance
func NewAuditService(store AuditLogStore) *AuditService {
	return &AuditService{store: store}
}

// Recent returns the newest audit entries up to limit
func (s *AuditService) Recent(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	return s.store.GetRecent(ctx, limit)
}

// PublishingAuditStore persists audit entries and mirrors them to the event
// broker. Broker failures are logged and never fail the write.
type PublishingAuditStore struct {
	store  AuditStore
	broker events.Publisher
	logger zerolog.Logger
}

// NewPublishingAuditStore wraps an audit store with broker mirroring
func NewPublishingAuditStore(store AuditStore, broker events.Publisher, logger zerolog.Logger) *PublishingAuditStore {
	return &PublishingAuditStore{
		store:  store,
		broker: broker,
		logger: logger,
	}
}

// Create writes the entry and publishes it under "audit.<action>"
func (p *PublishingAuditStore) Create(ctx context.Context, entry *models.AuditEntry) error {
	if err := p.store.Create(ctx, entry); err != nil {
		return err
	}
	if err := p.broker.Publish(ctx, "audit."+entry.Action, entry); err != nil {
		p.logger.Warn().Err(err).Str("action", entry.Action).Msg("Failed to publish audit event")
	}
	return nil
}
