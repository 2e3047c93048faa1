package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/mbaylon/interntrack/internal/app/models"
	"github.com/mbaylon/interntrack/internal/pkg/apperrors"
)

// fakeSubmissionStore is an in-memory SubmissionStore
type fakeSubmissionStore struct {
	submissions []models.RequirementSubmission
	updated     []int64
}

func (f *fakeSubmissionStore) ListByStudent(ctx context.Context, studentID int64) ([]models.RequirementSubmission, error) {
	var out []models.RequirementSubmission
	for _, s := range f.submissions {
		if s.StudentID == studentID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSubmissionStore) UpdateStatus(ctx context.Context, id int64, status models.RequirementStatus, reviewerID int64) error {
	for i := range f.submissions {
		if f.submissions[i].ID == id {
			f.submissions[i].Status = status
			f.updated = append(f.updated, id)
			return nil
		}
	}
	return apperrors.ErrRequirementNotFound
}

func newRequirementService(store *fakeStudentStore, subs *fakeSubmissionStore) *RequirementService {
	return NewRequirementService(store, subs, &fakeAuditStore{}, &fakeFeed{}, zerolog.Nop())
}

func TestGetStudentRequirementsPrefersPrimaryField(t *testing.T) {
	store := newFakeStudentStore(&models.Student{
		StudentNo: "2021-00001",
		Requirements: []models.Requirement{
			{Name: "Resume", Status: models.StatusAccepted},
		},
	})
	subs := &fakeSubmissionStore{submissions: []models.RequirementSubmission{
		{ID: 1, StudentID: 1, Requirement: "Medical Certificate", Status: models.StatusPending},
	}}
	svc := newRequirementService(store, subs)

	reqs, err := svc.GetStudentRequirements(context.Background(), adminScope, 1)
	if err != nil {
		t.Fatalf("GetStudentRequirements returned error: %v", err)
	}
	if len(reqs) != 1 || reqs[0].Name != "Resume" {
		t.Errorf("requirements = %+v, want only the primary field", reqs)
	}
}

func TestGetStudentRequirementsFallsBackNewestWins(t *testing.T) {
	store := newFakeStudentStore(&models.Student{StudentNo: "2021-00001"})
	older := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	// ListByStudent returns rows newest-first, as the real store does
	subs := &fakeSubmissionStore{submissions: []models.RequirementSubmission{
		{ID: 2, StudentID: 1, Requirement: "Resume", Status: models.StatusAccepted, SubmittedAt: newer},
		{ID: 1, StudentID: 1, Requirement: "resume", Status: models.StatusDenied, SubmittedAt: older},
		{ID: 3, StudentID: 1, Requirement: "Parental Consent", Status: models.StatusPending, SubmittedAt: older},
	}}
	svc := newRequirementService(store, subs)

	reqs, err := svc.GetStudentRequirements(context.Background(), adminScope, 1)
	if err != nil {
		t.Fatalf("GetStudentRequirements returned error: %v", err)
	}
	if len(reqs) != 2 {
		t.Fatalf("requirements = %+v, want 2 deduplicated entries", reqs)
	}
	if reqs[0].Name != "Resume" || reqs[0].Status != models.StatusAccepted {
		t.Errorf("newest submission did not win: %+v", reqs[0])
	}
}

func TestUpdateStatusWritesPrimaryFieldWhenPresent(t *testing.T) {
	store := newFakeStudentStore(&models.Student{
		StudentNo: "2021-00001",
		Requirements: []models.Requirement{
			{Name: "Resume", Status: models.StatusSubmitted},
		},
	})
	subs := &fakeSubmissionStore{}
	svc := newRequirementService(store, subs)

	updated, err := svc.UpdateStatus(context.Background(), adminScope, 1, "resume", "accepted", 9)
	if err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}
	if updated.Status != models.StatusAccepted {
		t.Errorf("status = %s, want accepted", updated.Status)
	}

	student, _ := store.GetByID(context.Background(), 1)
	if student.Requirements[0].Status != models.StatusAccepted {
		t.Errorf("persisted status = %s, want accepted", student.Requirements[0].Status)
	}
	if len(subs.updated) != 0 {
		t.Errorf("fallback store was written despite primary field hit")
	}
}

func TestUpdateStatusFallsBackToSubmissions(t *testing.T) {
	store := newFakeStudentStore(&models.Student{StudentNo: "2021-00001"})
	subs := &fakeSubmissionStore{submissions: []models.RequirementSubmission{
		{ID: 4, StudentID: 1, Requirement: "Resume", Status: models.StatusSubmitted},
	}}
	svc := newRequirementService(store, subs)

	updated, err := svc.UpdateStatus(context.Background(), adminScope, 1, "Resume", "denied", 9)
	if err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}
	if updated.Status != models.StatusDenied {
		t.Errorf("status = %s, want denied", updated.Status)
	}
	if len(subs.updated) != 1 || subs.updated[0] != 4 {
		t.Errorf("fallback updates = %v, want [4]", subs.updated)
	}
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	store := newFakeStudentStore(&models.Student{StudentNo: "2021-00001"})
	svc := newRequirementService(store, &fakeSubmissionStore{})

	_, err := svc.UpdateStatus(context.Background(), adminScope, 1, "Resume", "approved-ish", 9)
	if !errors.Is(err, apperrors.ErrInvalidRequirementStatus) {
		t.Fatalf("UpdateStatus error = %v, want ErrInvalidRequirementStatus", err)
	}
}

func TestResolveFileDecodesInlineDataURL(t *testing.T) {
	payload := []byte("%PDF-1.4 fake")
	dataURL := "data:application/pdf;base64," + base64.StdEncoding.EncodeToString(payload)
	store := newFakeStudentStore(&models.Student{
		StudentNo: "2021-00001",
		Requirements: []models.Requirement{
			{Name: "Resume", Status: models.StatusSubmitted, Files: []models.FileRef{{URL: dataURL, Name: "attachment"}}},
		},
	})
	svc := newRequirementService(store, &fakeSubmissionStore{})

	resolved, err := svc.ResolveFile(context.Background(), adminScope, 1, "Resume", 0)
	if err != nil {
		t.Fatalf("ResolveFile returned error: %v", err)
	}
	if resolved.ContentType != "application/pdf" {
		t.Errorf("ContentType = %q, want application/pdf", resolved.ContentType)
	}
	if string(resolved.Data) != string(payload) {
		t.Errorf("decoded payload mismatch")
	}
	if resolved.Name != "attachment.pdf" {
		t.Errorf("Name = %q, want attachment.pdf", resolved.Name)
	}
	if resolved.RedirectURL != "" {
		t.Errorf("RedirectURL = %q, want empty for inline payloads", resolved.RedirectURL)
	}
}

func TestResolveFileRedirectsStoredURL(t *testing.T) {
	store := newFakeStudentStore(&models.Student{
		StudentNo: "2021-00001",
		Requirements: []models.Requirement{
			{Name: "Resume", Files: []models.FileRef{{URL: "http://localhost:8080/uploads/requirements/a.pdf", Name: "a.pdf"}}},
		},
	})
	svc := newRequirementService(store, &fakeSubmissionStore{})

	resolved, err := svc.ResolveFile(context.Background(), adminScope, 1, "Resume", 0)
	if err != nil {
		t.Fatalf("ResolveFile returned error: %v", err)
	}
	if resolved.RedirectURL == "" || resolved.Data != nil {
		t.Errorf("resolved = %+v, want redirect with no inline data", resolved)
	}
}

func TestHeterogeneousSubmissionFilesNormalize(t *testing.T) {
	files := json.RawMessage(`{"Endorsement":"uploads/reqs/endorsement.pdf"}`)
	store := newFakeStudentStore(&models.Student{StudentNo: "2021-00001"})
	subs := &fakeSubmissionStore{submissions: []models.RequirementSubmission{
		{ID: 1, StudentID: 1, Requirement: "Endorsement Letter", Status: models.StatusSubmitted, Files: files},
	}}
	svc := newRequirementService(store, subs)

	reqs, err := svc.GetStudentRequirements(context.Background(), adminScope, 1)
	if err != nil {
		t.Fatalf("GetStudentRequirements returned error: %v", err)
	}
	if len(reqs) != 1 || len(reqs[0].Files) != 1 {
		t.Fatalf("requirements = %+v, want one with one file", reqs)
	}
	if reqs[0].Files[0].URL != "uploads/reqs/endorsement.pdf" || reqs[0].Files[0].Name != "Endorsement" {
		t.Errorf("file = %+v, want normalized map entry", reqs[0].Files[0])
	}
}
