package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mbaylon/interntrack/internal/app/models"
)

// AuditRepository stores the audit log of mutating actions
type AuditRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewAuditRepository creates a new AuditRepository
func NewAuditRepository(db *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create appends an audit entry
func (r *AuditRepository) Create(ctx context.Context, entry *models.AuditEntry) error {
	sql, args, err := r.sb.Insert("audit_log").
		Columns("actor_id", "action", "entity", "entity_id", "detail").
		Values(entry.ActorID, entry.Action, entry.Entity, entry.EntityID, entry.Detail).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create audit entry query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&entry.ID, &entry.CreatedAt); err != nil {
		return fmt.Errorf("error creating audit entry: %w", err)
	}
	return nil
}

// GetRecent retrieves the newest audit entries up to limit
func (r *AuditRepository) GetRecent(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	sql, args, err := r.sb.Select("id", "actor_id", "action", "entity", "entity_id", "detail", "created_at").
		From("audit_log").
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list audit entries query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing audit entries: %w", err)
	}
	defer rows.Close()

	var entries []models.AuditEntry
	for rows.Next() {
		var entry models.AuditEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.ActorID,
			&entry.Action,
			&entry.Entity,
			&entry.EntityID,
			&entry.Detail,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning audit entry row: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
