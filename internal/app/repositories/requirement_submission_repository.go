package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mbaylon/interntrack/internal/app/models"
	"github.com/mbaylon/interntrack/internal/pkg/apperrors"
)

const submissionColumns = "id, student_id, requirement, status, files, submitted_at, reviewed_at, reviewed_by"

// RequirementSubmissionRepository handles the fallback submissions store
type RequirementSubmissionRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewRequirementSubmissionRepository creates a new RequirementSubmissionRepository
func NewRequirementSubmissionRepository(db *pgxpool.Pool) *RequirementSubmissionRepository {
	return &RequirementSubmissionRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanSubmission(row pgx.Row) (*models.RequirementSubmission, error) {
	var submission models.RequirementSubmission
	var status string
	err := row.Scan(
		&submission.ID,
		&submission.StudentID,
		&submission.Requirement,
		&status,
		&submission.Files,
		&submission.SubmittedAt,
		&submission.ReviewedAt,
		&submission.ReviewedBy,
	)
	if err != nil {
		return nil, err
	}
	// Legacy rows carry synonyms like "approved" and "rejected"
	submission.Status = models.ParseRequirementStatus(status)
	return &submission, nil
}

// GetByID retrieves a submission by ID
func (r *RequirementSubmissionRepository) GetByID(ctx context.Context, id int64) (*models.RequirementSubmission, error) {
	sql, args, err := r.sb.Select(submissionColumns).
		From("requirement_submissions").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get submission query: %w", err)
	}

	submission, err := scanSubmission(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRequirementNotFound
		}
		return nil, fmt.Errorf("error retrieving submission %d: %w", id, err)
	}
	return submission, nil
}

// ListByStudent retrieves all submissions of one student, newest first
func (r *RequirementSubmissionRepository) ListByStudent(ctx context.Context, studentID int64) ([]models.RequirementSubmission, error) {
	sql, args, err := r.sb.Select(submissionColumns).
		From("requirement_submissions").
		Where(squirrel.Eq{"student_id": studentID}).
		OrderBy("submitted_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list submissions query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing submissions: %w", err)
	}
	defer rows.Close()

	var submissions []models.RequirementSubmission
	for rows.Next() {
		submission, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning submission row: %w", err)
		}
		submissions = append(submissions, *submission)
	}
	return submissions, rows.Err()
}

// UpdateStatus sets the review status of one submission
func (r *RequirementSubmissionRepository) UpdateStatus(ctx context.Context, id int64, status models.RequirementStatus, reviewerID int64) error {
	sql, args, err := r.sb.Update("requirement_submissions").
		Set("status", string(status)).
		Set("reviewed_at", time.Now()).
		Set("reviewed_by", reviewerID).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update submission query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating submission: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrRequirementNotFound
	}
	return nil
}
