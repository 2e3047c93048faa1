package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mbaylon/interntrack/internal/app/models"
	"github.com/mbaylon/interntrack/internal/app/models/dto"
	"github.com/mbaylon/interntrack/internal/app/roster"
	"github.com/mbaylon/interntrack/internal/pkg/apperrors"
	"github.com/mbaylon/interntrack/internal/pkg/live"
	"github.com/mbaylon/interntrack/internal/pkg/validation"
)

// StudentStore is the persistence surface the student service needs
type StudentStore interface {
	ListAll(ctx context.Context) ([]models.Student, error)
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	ExistsByStudentNo(ctx context.Context, studentNo string) (bool, error)
	DeleteArchiving(ctx context.Context, studentID int64, record *models.DeletedStudent) error
}

// AccountStore removes auth accounts linked to deleted students
type AccountStore interface {
	DeleteByID(ctx context.Context, id int64) error
}

// AuditStore appends audit entries
type AuditStore interface {
	Create(ctx context.Context, entry *models.AuditEntry) error
}

// DeletedStudentStore lists archived deletion snapshots
type DeletedStudentStore interface {
	GetAll(ctx context.Context) ([]models.DeletedStudent, error)
}

// FeedPublisher pushes change events to connected dashboards
type FeedPublisher interface {
	Publish(event *live.Event)
}

// StudentService handles student record operations
type StudentService struct {
	students     StudentStore
	deleted      DeletedStudentStore
	accounts     AccountStore
	audit        AuditStore
	feed         FeedPublisher
	requiredDocs []string
	logger       zerolog.Logger
}

// NewStudentService creates a new student service instance
func NewStudentService(
	students StudentStore,
	accounts AccountStore,
	audit AuditStore,
	feed FeedPublisher,
	requiredDocs []string,
	logger zerolog.Logger,
) *StudentService {
	return &StudentService{
		students:     students,
		accounts:     accounts,
		audit:        audit,
		feed:         feed,
		requiredDocs: requiredDocs,
		logger:       logger,
	}
}

// WithDeletedStore attaches the archive listing store
func (s *StudentService) WithDeletedStore(deleted DeletedStudentStore) *StudentService {
	s.deleted = deleted
	return s
}

// ListDeleted returns archived deletion snapshots, newest first. Admin only;
// enforced in routing.
func (s *StudentService) ListDeleted(ctx context.Context) ([]models.DeletedStudent, error) {
	if s.deleted == nil {
		return nil, nil
	}
	return s.deleted.GetAll(ctx)
}

// RequiredDocuments returns the configured required document names
func (s *StudentService) RequiredDocuments() []string {
	return s.requiredDocs
}

// List returns one page of the roster visible to the caller. The snapshot is
// restricted to the caller's scope before any filtering, so out-of-scope
// records can never match a filter.
func (s *StudentService) List(ctx context.Context, scope roster.Scope, query roster.Query) (*roster.Page, error) {
	students, err := s.students.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	visible := scope.Restrict(students)
	query.RequiredDocuments = s.requiredDocs
	page := roster.Apply(visible, query)
	return &page, nil
}

// GetByID returns one student if the caller's scope covers it
func (s *StudentService) GetByID(ctx context.Context, scope roster.Scope, id int64) (*models.Student, error) {
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !scope.Allows(student) {
		return nil, apperrors.ErrStudentOutOfScope
	}
	return student, nil
}

// Create adds a student record. Student numbers are unique; a duplicate is
// rejected before the insert and again by the database constraint.
func (s *StudentService) Create(ctx context.Context, req *dto.CreateStudentRequest, actorID int64) (*models.Student, error) {
	studentNo := strings.TrimSpace(req.StudentNo)
	if studentNo == "" {
		return nil, apperrors.NewBadRequestError("student number is required")
	}
	if !validation.ValidStudentNo(studentNo) {
		return nil, apperrors.ErrInvalidStudentNumber
	}
	if !validation.ValidEmail(strings.TrimSpace(req.Email)) {
		return nil, apperrors.NewBadRequestError("invalid email address")
	}

	exists, err := s.students.ExistsByStudentNo(ctx, studentNo)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrStudentNumberExists
	}

	student := &models.Student{
		StudentNo:        studentNo,
		FirstName:        strings.TrimSpace(req.FirstName),
		LastName:         strings.TrimSpace(req.LastName),
		Program:          strings.TrimSpace(req.Program),
		Section:          strings.TrimSpace(req.Section),
		Email:            strings.TrimSpace(req.Email),
		ContactNumber:    strings.TrimSpace(req.ContactNumber),
		Hired:            req.Hired,
		OpenToRelocation: req.OpenToRelocation,
	}

	if err := s.students.Create(ctx, student); err != nil {
		return nil, err
	}

	s.recordAudit(ctx, actorID, "student.create", student.StudentNo, nil)
	s.feed.Publish(&live.Event{
		Type:    live.EventStudentCreated,
		Section: student.Section,
		Program: student.Program,
		Payload: map[string]interface{}{"id": student.ID, "studentNo": student.StudentNo},
	})

	s.logger.Info().Int64("studentID", student.ID).Str("studentNo", student.StudentNo).Msg("Student created")
	return student, nil
}

// Update applies a partial update to a student inside the caller's scope
func (s *StudentService) Update(ctx context.Context, scope roster.Scope, id int64, req *dto.UpdateStudentRequest, actorID int64) (*models.Student, error) {
	student, err := s.GetByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		student.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		student.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Program != nil {
		student.Program = strings.TrimSpace(*req.Program)
	}
	if req.Section != nil {
		student.Section = strings.TrimSpace(*req.Section)
	}
	if req.Email != nil {
		student.Email = strings.TrimSpace(*req.Email)
	}
	if req.ContactNumber != nil {
		student.ContactNumber = strings.TrimSpace(*req.ContactNumber)
	}
	if req.Hired != nil {
		student.Hired = *req.Hired
	}
	if req.OpenToRelocation != nil {
		student.OpenToRelocation = *req.OpenToRelocation
	}

	if err := s.students.Update(ctx, student); err != nil {
		return nil, err
	}

	s.recordAudit(ctx, actorID, "student.update", student.StudentNo, nil)
	s.feed.Publish(&live.Event{
		Type:    live.EventStudentUpdated,
		Section: student.Section,
		Program: student.Program,
		Payload: map[string]interface{}{"id": student.ID, "studentNo": student.StudentNo},
	})

	return student, nil
}

// Delete removes a student. The full record is archived in the same
// transaction as the removal; the linked auth account is cleaned up
// best-effort afterwards.
func (s *StudentService) Delete(ctx context.Context, scope roster.Scope, id int64, actorID int64) error {
	student, err := s.GetByID(ctx, scope, id)
	if err != nil {
		return err
	}

	snapshot, err := json.Marshal(student)
	if err != nil {
		return fmt.Errorf("failed to snapshot student %d: %w", id, err)
	}

	record := &models.DeletedStudent{
		StudentNo: student.StudentNo,
		Snapshot:  snapshot,
		DeletedBy: &actorID,
	}
	if err := s.students.DeleteArchiving(ctx, id, record); err != nil {
		return err
	}

	if student.AccountID != nil {
		if err := s.accounts.DeleteByID(ctx, *student.AccountID); err != nil {
			// The student row is already gone; an orphaned account is
			// acceptable and logged for manual cleanup.
			s.logger.Warn().Err(err).Int64("accountID", *student.AccountID).
				Str("studentNo", student.StudentNo).Msg("Failed to remove linked account")
		}
	}

	s.recordAudit(ctx, actorID, "student.delete", student.StudentNo, snapshot)
	s.feed.Publish(&live.Event{
		Type:    live.EventStudentDeleted,
		Section: student.Section,
		Program: student.Program,
		Payload: map[string]interface{}{"id": student.ID, "studentNo": student.StudentNo},
	})

	s.logger.Info().Int64("studentID", id).Str("studentNo", student.StudentNo).
		Int64("actorID", actorID).Msg("Student deleted")
	return nil
}

// DeleteMany removes several students sequentially. Each record is archived
// and removed independently; one failure never stops the rest of the batch.
func (s *StudentService) DeleteMany(ctx context.Context, scope roster.Scope, ids []int64, actorID int64) *dto.BatchDeleteReport {
	report := &dto.BatchDeleteReport{}
	for _, id := range ids {
		if err := s.Delete(ctx, scope, id, actorID); err != nil {
			report.Failures = append(report.Failures, dto.BatchDeleteFailure{
				ID:      id,
				Message: err.Error(),
			})
			continue
		}
		report.Deleted++
	}
	return report
}

func (s *StudentService) recordAudit(ctx context.Context, actorID int64, action, entityID string, detail json.RawMessage) {
	entry := &models.AuditEntry{
		ActorID:  &actorID,
		Action:   action,
		Entity:   "student",
		EntityID: entityID,
		Detail:   detail,
	}
	if err := s.audit.Create(ctx, entry); err != nil {
		s.logger.Warn().Err(err).Str("action", action).Str("entityID", entityID).Msg("Failed to write audit entry")
	}
}
