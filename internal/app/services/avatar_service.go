package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/mbaylon/interntrack/internal/app/models"
	"github.com/mbaylon/interntrack/internal/app/models/dto"
	"github.com/mbaylon/interntrack/internal/pkg/apperrors"
	"github.com/mbaylon/interntrack/internal/pkg/filekind"
	"github.com/mbaylon/interntrack/internal/pkg/filestorage"
)

// AvatarStudentStore is the student persistence surface for avatar migration
type AvatarStudentStore interface {
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	ListWithInlineAvatars(ctx context.Context) ([]models.Student, error)
	UpdatePhoto(ctx context.Context, id int64, photoURL string) error
}

// AvatarService migrates legacy inline avatar payloads into file storage.
// Old records carry the photo as a base64 data URL on the row itself; the
// migration decodes it, stores the bytes, and replaces the field with a URL.
type AvatarService struct {
	students AvatarStudentStore
	storage  filestorage.FileStorage
	logger   zerolog.Logger
}

// NewAvatarService creates a new avatar service instance
func NewAvatarService(students AvatarStudentStore, storage filestorage.FileStorage, logger zerolog.Logger) *AvatarService {
	return &AvatarService{
		students: students,
		storage:  storage,
		logger:   logger,
	}
}

// MigrateOne migrates a single student's inline avatar
func (s *AvatarService) MigrateOne(ctx context.Context, studentID int64) (string, error) {
	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return "", err
	}
	return s.migrate(ctx, student)
}

// MigrateAll sweeps every student still carrying inline photo data. Failures
// are per-record: one malformed payload never stops the sweep.
func (s *AvatarService) MigrateAll(ctx context.Context) (*dto.AvatarMigrationReport, error) {
	students, err := s.students.ListWithInlineAvatars(ctx)
	if err != nil {
		return nil, err
	}

	report := &dto.AvatarMigrationReport{Scanned: len(students)}
	for i := range students {
		if _, err := s.migrate(ctx, &students[i]); err != nil {
			report.Skipped++
			report.Errors = append(report.Errors, dto.ImportRowError{
				Row:     int(students[i].ID),
				Message: err.Error(),
			})
			continue
		}
		report.Migrated++
	}

	s.logger.Info().Int("scanned", report.Scanned).Int("migrated", report.Migrated).
		Int("skipped", report.Skipped).Msg("Avatar migration sweep finished")
	return report, nil
}

func (s *AvatarService) migrate(ctx context.Context, student *models.Student) (string, error) {
	if student.PhotoData == nil || !filekind.IsDataURL(*student.PhotoData) {
		return "", apperrors.ErrNoInlineAvatar
	}

	data, contentType, err := filekind.DecodeDataURL(*student.PhotoData)
	if err != nil {
		return "", apperrors.NewBadRequestError("inline avatar payload is malformed")
	}

	url, err := s.storage.SaveBytes(data, "avatars", filekind.ExtensionFor(contentType))
	if err != nil {
		return "", err
	}

	if err := s.students.UpdatePhoto(ctx, student.ID, url); err != nil {
		// Roll back the orphaned blob; the row still holds the inline data
		if delErr := s.storage.DeleteFile(url); delErr != nil {
			s.logger.Warn().Err(delErr).Str("url", url).Msg("Failed to remove orphaned avatar blob")
		}
		return "", err
	}

	s.logger.Info().Int64("studentID", student.ID).Str("url", url).Msg("Avatar migrated to file storage")
	return url, nil
}
