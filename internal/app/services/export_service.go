package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/mbaylon/interntrack/internal/app/models"
	"github.com/mbaylon/interntrack/internal/app/roster"
)

var exportHeader = []string{
	"Student No", "First Name", "Last Name", "Program", "Section",
	"Email", "Contact Number", "Hired", "Open To Relocation",
}

// ExportService writes roster snapshots as CSV or XLSX
type ExportService struct {
	students StudentStore
	logger   zerolog.Logger
}

// NewExportService creates a new export service instance
func NewExportService(students StudentStore, logger zerolog.Logger) *ExportService {
	return &ExportService{
		students: students,
		logger:   logger,
	}
}

// ExportCSV writes the caller's visible roster as CSV. The same filters as
// the dashboard list apply, so the export matches what the caller sees.
func (s *ExportService) ExportCSV(ctx context.Context, scope roster.Scope, filters roster.Filters, requiredDocs []string, w io.Writer) error {
	students, err := s.visibleStudents(ctx, scope, filters, requiredDocs)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for i := range students {
		if err := cw.Write(exportRow(&students[i])); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportXLSX writes the caller's visible roster as an Excel workbook
func (s *ExportService) ExportXLSX(ctx context.Context, scope roster.Scope, filters roster.Filters, requiredDocs []string, w io.Writer) error {
	students, err := s.visibleStudents(ctx, scope, filters, requiredDocs)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Students"
	f.SetSheetName(f.GetSheetName(0), sheet)

	for col, title := range exportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to resolve cell name: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return fmt.Errorf("failed to write header cell: %w", err)
		}
	}

	for i := range students {
		row := exportRow(&students[i])
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("failed to resolve cell name: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("failed to write cell: %w", err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	s.logger.Info().Int("students", len(students)).Msg("Roster exported as XLSX")
	return nil
}

func (s *ExportService) visibleStudents(ctx context.Context, scope roster.Scope, filters roster.Filters, requiredDocs []string) ([]models.Student, error) {
	students, err := s.students.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	visible := scope.Restrict(students)
	filtered := roster.Filter(visible, filters, requiredDocs)
	return roster.Sort(filtered, "name", false), nil
}

func exportRow(s *models.Student) []string {
	return []string{
		s.StudentNo,
		s.FirstName,
		s.LastName,
		s.Program,
		s.Section,
		s.Email,
		s.ContactNumber,
		strconv.FormatBool(s.Hired),
		strconv.FormatBool(s.OpenToRelocation),
	}
}
