package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/mbaylon/interntrack/internal/app/models"
	"github.com/mbaylon/interntrack/internal/app/models/dto"
	"github.com/mbaylon/interntrack/internal/app/roster"
	"github.com/mbaylon/interntrack/internal/pkg/apperrors"
	"github.com/mbaylon/interntrack/internal/pkg/live"
)

var adminScope = roster.Scope{Role: models.RoleAdmin}

func newStudentService(store *fakeStudentStore) (*StudentService, *fakeAccountStore, *fakeAuditStore, *fakeFeed) {
	accounts := &fakeAccountStore{}
	audit := &fakeAuditStore{}
	feed := &fakeFeed{}
	svc := NewStudentService(store, accounts, audit, feed,
		[]string{"Resume", "Endorsement Letter"}, zerolog.Nop())
	return svc, accounts, audit, feed
}

func TestDeleteArchivesFullSnapshot(t *testing.T) {
	accountID := int64(77)
	store := newFakeStudentStore(&models.Student{
		StudentNo: "2021-00451",
		FirstName: "Juan",
		LastName:  "Dela Cruz",
		Program:   "BS Information Technology",
		Section:   "IT-4A",
		AccountID: &accountID,
	})
	svc, accounts, audit, feed := newStudentService(store)

	if err := svc.Delete(context.Background(), adminScope, 1, 9); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	if len(store.archived) != 1 {
		t.Fatalf("archived records = %d, want 1", len(store.archived))
	}
	record := store.archived[0]
	if record.StudentNo != "2021-00451" {
		t.Errorf("archived StudentNo = %q, want 2021-00451", record.StudentNo)
	}
	if record.DeletedBy == nil || *record.DeletedBy != 9 {
		t.Errorf("archived DeletedBy = %v, want 9", record.DeletedBy)
	}

	var snapshot models.Student
	if err := json.Unmarshal(record.Snapshot, &snapshot); err != nil {
		t.Fatalf("snapshot is not valid JSON: %v", err)
	}
	if snapshot.FirstName != "Juan" || snapshot.Section != "IT-4A" {
		t.Errorf("snapshot = %+v, want full pre-deletion record", snapshot)
	}

	if len(accounts.deleted) != 1 || accounts.deleted[0] != accountID {
		t.Errorf("account cleanup = %v, want [77]", accounts.deleted)
	}
	if len(audit.entries) != 1 || audit.entries[0].Action != "student.delete" {
		t.Errorf("audit entries = %+v, want one student.delete", audit.entries)
	}
	if len(feed.events) != 1 || feed.events[0].Type != live.EventStudentDeleted {
		t.Errorf("feed events = %+v, want one student.deleted", feed.events)
	}

	if _, err := store.GetByID(context.Background(), 1); !errors.Is(err, apperrors.ErrStudentNotFound) {
		t.Errorf("student still retrievable after delete: %v", err)
	}
}

func TestDeleteSucceedsWhenAccountCleanupFails(t *testing.T) {
	accountID := int64(5)
	store := newFakeStudentStore(&models.Student{StudentNo: "2021-00001", FirstName: "Ana", AccountID: &accountID})
	accounts := &fakeAccountStore{err: errors.New("auth backend down")}
	svc := NewStudentService(store, accounts, &fakeAuditStore{}, &fakeFeed{}, nil, zerolog.Nop())

	if err := svc.Delete(context.Background(), adminScope, 1, 9); err != nil {
		t.Fatalf("Delete failed on best-effort account cleanup: %v", err)
	}
	if len(store.archived) != 1 {
		t.Errorf("archived records = %d, want 1", len(store.archived))
	}
}

func TestGetByIDEnforcesScope(t *testing.T) {
	store := newFakeStudentStore(
		&models.Student{StudentNo: "2021-00001", Section: "IT-4A"},
		&models.Student{StudentNo: "2021-00002", Section: "CS-4B"},
	)
	svc, _, _, _ := newStudentService(store)

	coordinator := roster.Scope{Role: models.RoleCoordinator, Sections: []string{"IT-4A"}}

	if _, err := svc.GetByID(context.Background(), coordinator, 1); err != nil {
		t.Errorf("in-scope student rejected: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), coordinator, 2); !errors.Is(err, apperrors.ErrStudentOutOfScope) {
		t.Errorf("out-of-scope GetByID error = %v, want ErrStudentOutOfScope", err)
	}
}

func TestDeleteRejectsOutOfScopeStudent(t *testing.T) {
	store := newFakeStudentStore(&models.Student{StudentNo: "2021-00002", Section: "CS-4B"})
	svc, _, _, _ := newStudentService(store)

	coordinator := roster.Scope{Role: models.RoleCoordinator, Sections: []string{"IT-4A"}}
	if err := svc.Delete(context.Background(), coordinator, 1, 9); !errors.Is(err, apperrors.ErrStudentOutOfScope) {
		t.Fatalf("Delete error = %v, want ErrStudentOutOfScope", err)
	}
	if len(store.archived) != 0 {
		t.Errorf("out-of-scope delete archived a record")
	}
}

func TestDeleteManyIsolatesFailures(t *testing.T) {
	store := newFakeStudentStore(
		&models.Student{StudentNo: "2021-00001", Section: "IT-4A"},
		&models.Student{StudentNo: "2021-00002", Section: "CS-4B"},
		&models.Student{StudentNo: "2021-00003", Section: "IT-4A"},
	)
	svc, _, _, _ := newStudentService(store)

	coordinator := roster.Scope{Role: models.RoleCoordinator, Sections: []string{"IT-4A"}}
	report := svc.DeleteMany(context.Background(), coordinator, []int64{1, 2, 3, 99}, 9)

	if report.Deleted != 2 {
		t.Errorf("Deleted = %d, want 2", report.Deleted)
	}
	if len(report.Failures) != 2 {
		t.Fatalf("Failures = %+v, want 2 entries", report.Failures)
	}
	if report.Failures[0].ID != 2 || report.Failures[1].ID != 99 {
		t.Errorf("failure IDs = %d, %d, want 2, 99", report.Failures[0].ID, report.Failures[1].ID)
	}
	if len(store.archived) != 2 {
		t.Errorf("archived records = %d, want 2", len(store.archived))
	}
}

func TestCreateRejectsDuplicateStudentNo(t *testing.T) {
	store := newFakeStudentStore(&models.Student{StudentNo: "2021-00001"})
	svc, _, _, _ := newStudentService(store)

	_, err := svc.Create(context.Background(), &dto.CreateStudentRequest{
		StudentNo: "2021-00001",
		FirstName: "Juan",
		LastName:  "Dela Cruz",
		Program:   "BSIT",
		Section:   "IT-4A",
	}, 1)
	if !errors.Is(err, apperrors.ErrStudentNumberExists) {
		t.Fatalf("Create error = %v, want ErrStudentNumberExists", err)
	}
}

func TestListRestrictsBeforeFiltering(t *testing.T) {
	hired := true
	store := newFakeStudentStore(
		&models.Student{StudentNo: "2021-00001", Section: "IT-4A", Hired: true},
		&models.Student{StudentNo: "2021-00002", Section: "CS-4B", Hired: true},
		&models.Student{StudentNo: "2021-00003", Section: "IT-4A", Hired: false},
	)
	svc, _, _, _ := newStudentService(store)

	coordinator := roster.Scope{Role: models.RoleCoordinator, Sections: []string{"IT-4A"}}
	page, err := svc.List(context.Background(), coordinator, roster.Query{
		Filters: roster.Filters{Hired: &hired},
	})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}

	if page.TotalItems != 1 {
		t.Fatalf("TotalItems = %d, want 1", page.TotalItems)
	}
	if page.Students[0].StudentNo != "2021-00001" {
		t.Errorf("visible student = %q, want 2021-00001", page.Students[0].StudentNo)
	}
}
