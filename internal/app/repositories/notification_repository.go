package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mbaylon/interntrack/internal/app/models"
	"github.com/mbaylon/interntrack/internal/db"
	"github.com/mbaylon/interntrack/internal/pkg/apperrors"
	"github.com/mbaylon/interntrack/internal/pkg/logger"
)

// NotificationRepository handles database operations for notifications
type NotificationRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{
		db: pool,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanNotification(row pgx.Row) (*models.Notification, error) {
	var notification models.Notification
	var target []byte
	err := row.Scan(
		&notification.ID,
		&notification.Message,
		&target,
		&notification.CreatedBy,
		&notification.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(target, &notification.Target); err != nil {
		return nil, fmt.Errorf("failed to decode notification target: %w", err)
	}
	return &notification, nil
}

// CreateWithPrune inserts a notification and prunes entries beyond the
// retention cap in the same transaction, so the table never exceeds the cap.
func (r *NotificationRepository) CreateWithPrune(ctx context.Context, notification *models.Notification, retention int) error {
	target, err := json.Marshal(notification.Target)
	if err != nil {
		return fmt.Errorf("failed to marshal notification target: %w", err)
	}

	return db.WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		insertSQL, args, err := r.sb.Insert("notifications").
			Columns("message", "target", "created_by").
			Values(notification.Message, target, notification.CreatedBy).
			Suffix("RETURNING id, created_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create notification query: %w", err)
		}

		if err := tx.QueryRow(ctx, insertSQL, args...).Scan(&notification.ID, &notification.CreatedAt); err != nil {
			return fmt.Errorf("error creating notification: %w", err)
		}

		// Keep only the newest `retention` rows
		pruneSQL := `
			DELETE FROM notifications
			WHERE id NOT IN (
				SELECT id FROM notifications ORDER BY created_at DESC, id DESC LIMIT $1
			)`
		cmdTag, err := tx.Exec(ctx, pruneSQL, retention)
		if err != nil {
			return fmt.Errorf("error pruning notifications: %w", err)
		}
		if pruned := cmdTag.RowsAffected(); pruned > 0 {
			logger.Debug().Int64("pruned", pruned).Msg("Pruned notifications beyond retention cap")
		}
		return nil
	})
}

// GetByID retrieves a notification by ID
func (r *NotificationRepository) GetByID(ctx context.Context, id int64) (*models.Notification, error) {
	sql, args, err := r.sb.Select("id", "message", "target", "created_by", "created_at").
		From("notifications").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get notification query: %w", err)
	}

	notification, err := scanNotification(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotificationNotFound
		}
		return nil, fmt.Errorf("error retrieving notification %d: %w", id, err)
	}
	return notification, nil
}

// GetAll retrieves notifications newest first with pagination
func (r *NotificationRepository) GetAll(ctx context.Context, offset uint64, limit int) ([]models.Notification, int64, error) {
	sql, args, err := r.sb.Select("id", "message", "target", "created_by", "created_at", "COUNT(*) OVER()").
		From("notifications").
		OrderBy("created_at DESC", "id DESC").
		Offset(offset).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list notifications query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing notifications: %w", err)
	}
	defer rows.Close()

	var notifications []models.Notification
	var total int64
	for rows.Next() {
		var notification models.Notification
		var target []byte
		if err := rows.Scan(
			&notification.ID,
			&notification.Message,
			&target,
			&notification.CreatedBy,
			&notification.CreatedAt,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("error scanning notification row: %w", err)
		}
		if err := json.Unmarshal(target, &notification.Target); err != nil {
			return nil, 0, fmt.Errorf("failed to decode notification target: %w", err)
		}
		notifications = append(notifications, notification)
	}
	return notifications, total, rows.Err()
}

// Delete removes a notification
func (r *NotificationRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("notifications").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete notification query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting notification: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotificationNotFound
	}
	return nil
}
