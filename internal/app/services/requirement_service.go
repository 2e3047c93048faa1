package services

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mbaylon/interntrack/internal/app/models"
	"github.com/mbaylon/interntrack/internal/app/roster"
	"github.com/mbaylon/interntrack/internal/pkg/apperrors"
	"github.com/mbaylon/interntrack/internal/pkg/filekind"
	"github.com/mbaylon/interntrack/internal/pkg/live"
)

// RequirementStudentStore is the student persistence surface for requirements
type RequirementStudentStore interface {
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	UpdateRequirements(ctx context.Context, id int64, requirements []models.Requirement) error
}

// SubmissionStore is the fallback submissions table
type SubmissionStore interface {
	ListByStudent(ctx context.Context, studentID int64) ([]models.RequirementSubmission, error)
	UpdateStatus(ctx context.Context, id int64, status models.RequirementStatus, reviewerID int64) error
}

// ResolvedFile is a requirement document prepared for download. Either Data
// is set (inline legacy payloads) or RedirectURL points at stored content.
type ResolvedFile struct {
	Name        string
	ContentType string
	Data        []byte
	RedirectURL string
}

// RequirementService handles requirement document review
type RequirementService struct {
	students    RequirementStudentStore
	submissions SubmissionStore
	audit       AuditStore
	feed        FeedPublisher
	logger      zerolog.Logger
}

// NewRequirementService creates a new requirement service instance
func NewRequirementService(
	students RequirementStudentStore,
	submissions SubmissionStore,
	audit AuditStore,
	feed FeedPublisher,
	logger zerolog.Logger,
) *RequirementService {
	return &RequirementService{
		students:    students,
		submissions: submissions,
		audit:       audit,
		feed:        feed,
		logger:      logger,
	}
}

// GetStudentRequirements returns a student's requirement documents. The field
// on the student row is authoritative; when it is empty the fallback
// submissions table is consulted, keeping the newest entry per requirement.
func (s *RequirementService) GetStudentRequirements(ctx context.Context, scope roster.Scope, studentID int64) ([]models.Requirement, error) {
	student, err := s.getScoped(ctx, scope, studentID)
	if err != nil {
		return nil, err
	}

	if len(student.Requirements) > 0 {
		return student.Requirements, nil
	}

	submissions, err := s.submissions.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	// Rows are newest-first; the first occurrence of each name wins
	var requirements []models.Requirement
	seen := make(map[string]bool)
	for i := range submissions {
		name := strings.TrimSpace(submissions[i].Requirement)
		if name == "" || seen[strings.ToLower(name)] {
			continue
		}
		seen[strings.ToLower(name)] = true
		requirements = append(requirements, submissions[i].ToRequirement())
	}
	return requirements, nil
}

// UpdateStatus sets the review status of one named requirement. Writes land
// on the student row when the requirement lives there, otherwise on the
// newest matching fallback submission.
func (s *RequirementService) UpdateStatus(ctx context.Context, scope roster.Scope, studentID int64, requirementName, rawStatus string, reviewerID int64) (*models.Requirement, error) {
	status, ok := parseStatusStrict(rawStatus)
	if !ok {
		return nil, apperrors.ErrInvalidRequirementStatus
	}

	student, err := s.getScoped(ctx, scope, studentID)
	if err != nil {
		return nil, err
	}

	updated, found, err := s.updatePrimary(ctx, student, requirementName, status)
	if err != nil {
		return nil, err
	}
	if found {
		s.afterStatusChange(ctx, student, updated, reviewerID)
		return updated, nil
	}

	updated, err = s.updateFallback(ctx, studentID, requirementName, status, reviewerID)
	if err != nil {
		return nil, err
	}

	s.afterStatusChange(ctx, student, updated, reviewerID)
	return updated, nil
}

// ResolveFile prepares one requirement document for download. Inline data
// URLs are decoded server-side so the legacy payload never reaches the
// browser address bar.
func (s *RequirementService) ResolveFile(ctx context.Context, scope roster.Scope, studentID int64, requirementName string, fileIndex int) (*ResolvedFile, error) {
	requirements, err := s.GetStudentRequirements(ctx, scope, studentID)
	if err != nil {
		return nil, err
	}

	for i := range requirements {
		if !strings.EqualFold(requirements[i].Name, requirementName) {
			continue
		}
		files := requirements[i].Files
		if fileIndex < 0 || fileIndex >= len(files) {
			return nil, apperrors.NewResourceNotFoundError("requirement file")
		}

		file := files[fileIndex]
		if filekind.IsDataURL(file.URL) {
			data, contentType, err := filekind.DecodeDataURL(file.URL)
			if err != nil {
				return nil, apperrors.NewBadRequestError("stored document payload is malformed")
			}
			name := file.Name
			if name == "" || name == "attachment" {
				name = "attachment" + filekind.ExtensionFor(contentType)
			}
			return &ResolvedFile{Name: name, ContentType: contentType, Data: data}, nil
		}
		return &ResolvedFile{Name: file.Name, RedirectURL: file.URL}, nil
	}

	return nil, apperrors.ErrRequirementNotFound
}

func (s *RequirementService) getScoped(ctx context.Context, scope roster.Scope, studentID int64) (*models.Student, error) {
	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if !scope.Allows(student) {
		return nil, apperrors.ErrStudentOutOfScope
	}
	return student, nil
}

// updatePrimary mutates the requirement on the student row when it carries
// one with this name
func (s *RequirementService) updatePrimary(ctx context.Context, student *models.Student, name string, status models.RequirementStatus) (*models.Requirement, bool, error) {
	for i := range student.Requirements {
		if strings.EqualFold(student.Requirements[i].Name, name) {
			now := time.Now()
			student.Requirements[i].Status = status
			student.Requirements[i].UpdatedAt = &now
			if err := s.students.UpdateRequirements(ctx, student.ID, student.Requirements); err != nil {
				return nil, false, err
			}
			return &student.Requirements[i], true, nil
		}
	}
	return nil, false, nil
}

func (s *RequirementService) updateFallback(ctx context.Context, studentID int64, name string, status models.RequirementStatus, reviewerID int64) (*models.Requirement, error) {
	submissions, err := s.submissions.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	for i := range submissions {
		if strings.EqualFold(submissions[i].Requirement, name) {
			if err := s.submissions.UpdateStatus(ctx, submissions[i].ID, status, reviewerID); err != nil {
				return nil, err
			}
			submissions[i].Status = status
			requirement := submissions[i].ToRequirement()
			return &requirement, nil
		}
	}
	return nil, apperrors.ErrRequirementNotFound
}

func (s *RequirementService) afterStatusChange(ctx context.Context, student *models.Student, requirement *models.Requirement, reviewerID int64) {
	entry := &models.AuditEntry{
		ActorID:  &reviewerID,
		Action:   "requirement.review",
		Entity:   "requirement",
		EntityID: student.StudentNo + "/" + requirement.Name,
	}
	if err := s.audit.Create(ctx, entry); err != nil {
		s.logger.Warn().Err(err).Str("requirement", requirement.Name).Msg("Failed to write audit entry")
	}

	s.feed.Publish(&live.Event{
		Type:    live.EventRequirementUpdated,
		Section: student.Section,
		Program: student.Program,
		Payload: map[string]interface{}{
			"studentId":   student.ID,
			"requirement": requirement.Name,
			"status":      string(requirement.Status),
		},
	})
}

// parseStatusStrict accepts only canonical status values, unlike the tolerant
// parser used for legacy stored payloads
func parseStatusStrict(raw string) (models.RequirementStatus, bool) {
	switch models.RequirementStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case models.StatusSubmitted:
		return models.StatusSubmitted, true
	case models.StatusPending:
		return models.StatusPending, true
	case models.StatusAccepted:
		return models.StatusAccepted, true
	case models.StatusDenied:
		return models.StatusDenied, true
	}
	return "", false
}
