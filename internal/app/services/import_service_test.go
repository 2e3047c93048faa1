package services

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/mbaylon/interntrack/internal/app/models"
)

func TestImportCSVSkipsDuplicatesAndImportsRest(t *testing.T) {
	existing := &models.Student{StudentNo: "2021-00002", FirstName: "Ana", LastName: "Reyes"}
	store := newFakeStudentStore(existing)
	svc := NewImportService(store, &fakeAuditStore{}, zerolog.Nop())

	csv := strings.Join([]string{
		"Student No,First Name,Last Name,Program,Section",
		"2021-00001,Juan,Dela Cruz,BSIT,IT-4A",
		"2021-00002,Ana,Reyes,BSIT,IT-4A",
		"2021-00003,Pedro,Santos,BSCS,CS-4B",
		"2021-00003,Pedro,Santos,BSCS,CS-4B",
		"2021-00004,Liza,Cruz,BSIT,IT-4B",
	}, "\n")

	report, err := svc.ImportCSV(context.Background(), strings.NewReader(csv), 1)
	if err != nil {
		t.Fatalf("ImportCSV returned error: %v", err)
	}

	if report.TotalRows != 5 {
		t.Errorf("TotalRows = %d, want 5", report.TotalRows)
	}
	if report.Imported != 3 {
		t.Errorf("Imported = %d, want 3", report.Imported)
	}
	if len(report.Duplicates) != 2 {
		t.Fatalf("Duplicates = %v, want 2 entries", report.Duplicates)
	}
	if report.Duplicates[0] != "2021-00002" || report.Duplicates[1] != "2021-00003" {
		t.Errorf("Duplicates = %v, want [2021-00002 2021-00003]", report.Duplicates)
	}
	if len(report.Errors) != 0 {
		t.Errorf("Errors = %v, want none", report.Errors)
	}

	// Every row is accounted for exactly once
	if report.Imported+len(report.Duplicates)+len(report.Errors) != report.TotalRows {
		t.Errorf("buckets do not sum to total: %d+%d+%d != %d",
			report.Imported, len(report.Duplicates), len(report.Errors), report.TotalRows)
	}

	students, _ := store.ListAll(context.Background())
	if len(students) != 4 {
		t.Errorf("stored students = %d, want 4", len(students))
	}
}

func TestImportCSVHeaderAliases(t *testing.T) {
	store := newFakeStudentStore()
	svc := NewImportService(store, &fakeAuditStore{}, zerolog.Nop())

	csv := "student number,first name,last name,course,Email Address\n" +
		"2022-00010,Mia,Lopez,BS Computer Science,mia@school.edu.ph\n"

	report, err := svc.ImportCSV(context.Background(), strings.NewReader(csv), 1)
	if err != nil {
		t.Fatalf("ImportCSV returned error: %v", err)
	}
	if report.Imported != 1 {
		t.Fatalf("Imported = %d, want 1", report.Imported)
	}

	student, err := store.GetByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if student.Program != "BS Computer Science" {
		t.Errorf("Program = %q, want %q", student.Program, "BS Computer Science")
	}
	if student.Email != "mia@school.edu.ph" {
		t.Errorf("Email = %q, want %q", student.Email, "mia@school.edu.ph")
	}
}

func TestImportCSVRowErrorsDoNotStopBatch(t *testing.T) {
	store := newFakeStudentStore()
	svc := NewImportService(store, &fakeAuditStore{}, zerolog.Nop())

	csv := strings.Join([]string{
		"studentno,firstname,lastname",
		",Juan,Dela Cruz",
		"2021-00001,,",
		"2021-00002,Ana,Reyes",
	}, "\n")

	report, err := svc.ImportCSV(context.Background(), strings.NewReader(csv), 1)
	if err != nil {
		t.Fatalf("ImportCSV returned error: %v", err)
	}
	if report.Imported != 1 {
		t.Errorf("Imported = %d, want 1", report.Imported)
	}
	if len(report.Errors) != 2 {
		t.Fatalf("Errors = %v, want 2 entries", report.Errors)
	}
	if report.Errors[0].Row != 2 {
		t.Errorf("first error row = %d, want 2", report.Errors[0].Row)
	}
}

func TestImportCSVRejectsMissingStudentNoColumn(t *testing.T) {
	svc := NewImportService(newFakeStudentStore(), &fakeAuditStore{}, zerolog.Nop())

	_, err := svc.ImportCSV(context.Background(), strings.NewReader("name,section\nJuan,IT-4A\n"), 1)
	if err == nil {
		t.Fatal("ImportCSV accepted a header without a student number column")
	}
}
