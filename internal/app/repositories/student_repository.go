package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mbaylon/interntrack/internal/app/models"
	"github.com/mbaylon/interntrack/internal/db"
	"github.com/mbaylon/interntrack/internal/pkg/apperrors"
	"github.com/mbaylon/interntrack/internal/pkg/dberrors"
	"github.com/mbaylon/interntrack/internal/pkg/logger"
)

const studentColumns = "id, student_no, first_name, last_name, program, section, email, contact_number, hired, open_to_relocation, photo_url, photo_data, requirements, account_id, created_at, updated_at"

// StudentRepository handles database operations for student records
type StudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	var student models.Student
	var requirements []byte
	err := row.Scan(
		&student.ID,
		&student.StudentNo,
		&student.FirstName,
		&student.LastName,
		&student.Program,
		&student.Section,
		&student.Email,
		&student.ContactNumber,
		&student.Hired,
		&student.OpenToRelocation,
		&student.PhotoURL,
		&student.PhotoData,
		&requirements,
		&student.AccountID,
		&student.CreatedAt,
		&student.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	student.Requirements, err = models.DecodeRequirements(requirements)
	if err != nil {
		// Legacy records carry malformed document payloads; surface the
		// student with no requirements rather than hiding the whole row.
		logger.Warn().Err(err).Str("studentNo", student.StudentNo).Msg("Failed to decode requirements payload")
		student.Requirements = nil
	}
	return &student, nil
}

// Create inserts a new student record
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	requirements, err := json.Marshal(student.Requirements)
	if err != nil {
		return fmt.Errorf("failed to marshal requirements: %w", err)
	}

	sql, args, err := r.sb.Insert("students").
		Columns("student_no", "first_name", "last_name", "program", "section", "email",
			"contact_number", "hired", "open_to_relocation", "photo_url", "photo_data",
			"requirements", "account_id").
		Values(student.StudentNo, student.FirstName, student.LastName, student.Program,
			student.Section, student.Email, student.ContactNumber, student.Hired,
			student.OpenToRelocation, student.PhotoURL, student.PhotoData,
			requirements, student.AccountID).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create student query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&student.ID, &student.CreatedAt, &student.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "students_student_no_key") {
			return apperrors.ErrStudentNumberExists
		}
		logger.Error().Err(err).Str("studentNo", student.StudentNo).Msg("Error executing create student query")
		return fmt.Errorf("error creating student: %w", err)
	}

	return nil
}

// GetByID retrieves a student by ID
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns).
		From("students").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student %d: %w", id, err)
	}
	return student, nil
}

// GetByStudentNo retrieves a student by student number
func (r *StudentRepository) GetByStudentNo(ctx context.Context, studentNo string) (*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns).
		From("students").
		Where(squirrel.Eq{"student_no": studentNo}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student %s: %w", studentNo, err)
	}
	return student, nil
}

// ExistsByStudentNo reports whether a student number is already taken
func (r *StudentRepository) ExistsByStudentNo(ctx context.Context, studentNo string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM students WHERE student_no = $1)`, studentNo).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking student existence: %w", err)
	}
	return exists, nil
}

// ListAll retrieves every student record ordered by creation time. Filtering,
// sorting and pagination run in the roster engine over this snapshot.
func (r *StudentRepository) ListAll(ctx context.Context) ([]models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns).
		From("students").
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		if dberrors.IsUnavailable(err) {
			return nil, apperrors.ErrBackendUnavailable
		}
		return nil, fmt.Errorf("error listing students: %w", err)
	}
	defer rows.Close()

	var students []models.Student
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning student row: %w", err)
		}
		students = append(students, *student)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating student rows: %w", err)
	}

	return students, nil
}

// Update replaces the mutable profile fields of a student
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	sql, args, err := r.sb.Update("students").
		Set("first_name", student.FirstName).
		Set("last_name", student.LastName).
		Set("program", student.Program).
		Set("section", student.Section).
		Set("email", student.Email).
		Set("contact_number", student.ContactNumber).
		Set("hired", student.Hired).
		Set("open_to_relocation", student.OpenToRelocation).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": student.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update student query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", student.ID).Msg("Error executing update student query")
		return fmt.Errorf("error updating student: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// UpdateRequirements replaces the requirements payload of a student
func (r *StudentRepository) UpdateRequirements(ctx context.Context, id int64, requirements []models.Requirement) error {
	payload, err := json.Marshal(requirements)
	if err != nil {
		return fmt.Errorf("failed to marshal requirements: %w", err)
	}

	sql, args, err := r.sb.Update("students").
		Set("requirements", payload).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update requirements query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating requirements: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// UpdatePhoto sets the stored photo URL and clears the legacy inline payload
func (r *StudentRepository) UpdatePhoto(ctx context.Context, id int64, photoURL string) error {
	sql, args, err := r.sb.Update("students").
		Set("photo_url", photoURL).
		Set("photo_data", nil).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update photo query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating photo: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// ListWithInlineAvatars retrieves students still carrying inline photo data
func (r *StudentRepository) ListWithInlineAvatars(ctx context.Context) ([]models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns).
		From("students").
		Where("photo_data IS NOT NULL").
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build inline avatar query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing inline avatars: %w", err)
	}
	defer rows.Close()

	var students []models.Student
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning student row: %w", err)
		}
		students = append(students, *student)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating student rows: %w", err)
	}

	return students, nil
}

// DeleteTx removes a student inside the given transaction. The caller is
// responsible for writing the audit snapshot in the same transaction.
func (r *StudentRepository) DeleteTx(ctx context.Context, tx pgx.Tx, id int64) error {
	sql, args, err := r.sb.Delete("students").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete student query: %w", err)
	}

	cmdTag, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting student: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// DeleteArchiving removes a student and writes the audit copy in one
// transaction. Either both happen or neither does.
func (r *StudentRepository) DeleteArchiving(ctx context.Context, studentID int64, record *models.DeletedStudent) error {
	return db.WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		sql, args, err := r.sb.Insert("deleted_students").
			Columns("student_no", "snapshot", "deleted_by").
			Values(record.StudentNo, record.Snapshot, record.DeletedBy).
			Suffix("RETURNING id, deleted_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build archive query: %w", err)
		}

		if err := tx.QueryRow(ctx, sql, args...).Scan(&record.ID, &record.DeletedAt); err != nil {
			return fmt.Errorf("error archiving student snapshot: %w", err)
		}

		return r.DeleteTx(ctx, tx, studentID)
	})
}

// CountBySection returns per-section student counts
func (r *StudentRepository) CountBySection(ctx context.Context) (map[string]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT section, COUNT(*) FROM students GROUP BY section`)
	if err != nil {
		return nil, fmt.Errorf("error counting students by section: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var section string
		var count int64
		if err := rows.Scan(&section, &count); err != nil {
			return nil, fmt.Errorf("error scanning section count: %w", err)
		}
		counts[section] = count
	}
	return counts, rows.Err()
}
