package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mbaylon/interntrack/internal/app/models"
	"github.com/mbaylon/interntrack/internal/app/models/dto"
	"github.com/mbaylon/interntrack/internal/pkg/apperrors"
	"github.com/mbaylon/interntrack/internal/pkg/metrics"
	"github.com/mbaylon/interntrack/internal/pkg/validation"
)

// csvHeaderAliases maps accepted header spellings to canonical field names.
// Imports come from spreadsheets maintained by different coordinators, so the
// header row is matched loosely.
var csvHeaderAliases = map[string]string{
	"studentno":      "studentNo",
	"student no":     "studentNo",
	"student number": "studentNo",
	"firstname":      "firstName",
	"first name":     "firstName",
	"lastname":       "lastName",
	"last name":      "lastName",
	"program":        "program",
	"course":         "program",
	"section":        "section",
	"email":          "email",
	"email address":  "email",
	"contactnumber":  "contactNumber",
	"contact number": "contactNumber",
	"contact":        "contactNumber",
}

// ImportService ingests student rosters from CSV batches
type ImportService struct {
	students StudentStore
	audit    AuditStore
	stats    StatsInvalidator
	logger   zerolog.Logger
}

// NewImportService creates a new import service instance
func NewImportService(students StudentStore, audit AuditStore, logger zerolog.Logger) *ImportService {
	return &ImportService{
		students: students,
		audit:    audit,
		logger:   logger,
	}
}

// WithStatsInvalidator attaches cached-counter invalidation to imports
func (s *ImportService) WithStatsInvalidator(stats StatsInvalidator) *ImportService {
	s.stats = stats
	return s
}

// ImportCSV ingests a CSV batch. Rows are processed independently: a student
// number already present (in the database or earlier in the batch) lands in
// the duplicates bucket, a malformed row lands in the errors bucket, and
// neither stops the remaining rows from importing.
func (s *ImportService) ImportCSV(ctx context.Context, reader io.Reader, actorID int64) (*dto.ImportReport, error) {
	cr := csv.NewReader(reader)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, apperrors.NewBadRequestError("CSV file is empty or unreadable")
	}

	columns := resolveHeader(header)
	if _, ok := columns["studentNo"]; !ok {
		return nil, apperrors.NewBadRequestError("CSV header must contain a student number column")
	}

	report := &dto.ImportReport{
		Duplicates: []string{},
		Errors:     []dto.ImportRowError{},
	}
	seen := make(map[string]bool)

	for rowNum := 2; ; rowNum++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			report.TotalRows++
			report.Errors = append(report.Errors, dto.ImportRowError{Row: rowNum, Message: "malformed CSV row"})
			continue
		}
		report.TotalRows++

		student, rowErr := buildStudent(row, columns)
		if rowErr != "" {
			report.Errors = append(report.Errors, dto.ImportRowError{Row: rowNum, Message: rowErr})
			continue
		}

		if seen[student.StudentNo] {
			report.Duplicates = append(report.Duplicates, student.StudentNo)
			continue
		}
		exists, err := s.students.ExistsByStudentNo(ctx, student.StudentNo)
		if err != nil {
			return nil, err
		}
		if exists {
			seen[student.StudentNo] = true
			report.Duplicates = append(report.Duplicates, student.StudentNo)
			continue
		}

		if err := s.students.Create(ctx, student); err != nil {
			// A concurrent insert can still race the existence check
			if errors.Is(err, apperrors.ErrStudentNumberExists) {
				report.Duplicates = append(report.Duplicates, student.StudentNo)
				continue
			}
			report.Errors = append(report.Errors, dto.ImportRowError{Row: rowNum, Message: err.Error()})
			continue
		}

		seen[student.StudentNo] = true
		report.Imported++
		metrics.StudentsImported.Inc()
	}

	if report.Imported > 0 && s.stats != nil {
		s.stats.InvalidateStats(ctx)
	}

	s.logger.Info().
		Int("totalRows", report.TotalRows).
		Int("imported", report.Imported).
		Int("duplicates", len(report.Duplicates)).
		Int("errors", len(report.Errors)).
		Msg("CSV import finished")

	entry := &models.AuditEntry{
		ActorID:  &actorID,
		Action:   "student.import",
		Entity:   "student",
		EntityID: fmt.Sprintf("batch:%d rows", report.TotalRows),
	}
	if err := s.audit.Create(ctx, entry); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to write import audit entry")
	}

	return report, nil
}

// resolveHeader maps column indices to canonical field names
func resolveHeader(header []string) map[string]int {
	columns := make(map[string]int)
	for i, raw := range header {
		key := strings.ToLower(strings.TrimSpace(raw))
		if canonical, ok := csvHeaderAliases[key]; ok {
			if _, taken := columns[canonical]; !taken {
				columns[canonical] = i
			}
		}
	}
	return columns
}

func buildStudent(row []string, columns map[string]int) (*models.Student, string) {
	field := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	studentNo := field("studentNo")
	if studentNo == "" {
		return nil, "missing student number"
	}
	if !validation.ValidStudentNo(studentNo) {
		return nil, "unrecognized student number format: " + studentNo
	}
	firstName := field("firstName")
	lastName := field("lastName")
	if firstName == "" && lastName == "" {
		return nil, "missing student name"
	}
	email := field("email")
	if !validation.ValidEmail(email) {
		return nil, "invalid email address: " + email
	}

	return &models.Student{
		StudentNo:     studentNo,
		FirstName:     firstName,
		LastName:      lastName,
		Program:       field("program"),
		Section:       field("section"),
		Email:         email,
		ContactNumber: field("contactNumber"),
	}, ""
}
