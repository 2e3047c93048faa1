package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mbaylon/interntrack/internal/app/models"
)

// DeletedStudentRepository stores audit copies of removed student records
type DeletedStudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewDeletedStudentRepository creates a new DeletedStudentRepository
func NewDeletedStudentRepository(db *pgxpool.Pool) *DeletedStudentRepository {
	return &DeletedStudentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateTx writes the audit copy inside the deletion transaction, so the
// snapshot and the removal commit or roll back together.
func (r *DeletedStudentRepository) CreateTx(ctx context.Context, tx pgx.Tx, record *models.DeletedStudent) error {
	sql, args, err := r.sb.Insert("deleted_students").
		Columns("student_no", "snapshot", "deleted_by").
		Values(record.StudentNo, record.Snapshot, record.DeletedBy).
		Suffix("RETURNING id, deleted_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create deleted student query: %w", err)
	}

	if err := tx.QueryRow(ctx, sql, args...).Scan(&record.ID, &record.DeletedAt); err != nil {
		return fmt.Errorf("error archiving deleted student: %w", err)
	}
	return nil
}

// GetAll retrieves archived student snapshots, newest first
func (r *DeletedStudentRepository) GetAll(ctx context.Context) ([]models.DeletedStudent, error) {
	sql, args, err := r.sb.Select("id", "student_no", "snapshot", "deleted_by", "deleted_at").
		From("deleted_students").
		OrderBy("deleted_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list deleted students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing deleted students: %w", err)
	}
	defer rows.Close()

	var records []models.DeletedStudent
	for rows.Next() {
		var record models.DeletedStudent
		if err := rows.Scan(
			&record.ID,
			&record.StudentNo,
			&record.Snapshot,
			&record.DeletedBy,
			&record.DeletedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning deleted student row: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
