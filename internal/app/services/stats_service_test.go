package services

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/mbaylon/interntrack/internal/app/models"
	"github.com/mbaylon/interntrack/internal/pkg/live"
)

type fakeStatsInvalidator struct {
	calls int
}

func (f *fakeStatsInvalidator) InvalidateStats(ctx context.Context) {
	f.calls++
}

func TestInvalidatingFeedDropsCountersThenForwards(t *testing.T) {
	inner := &fakeFeed{}
	invalidator := &fakeStatsInvalidator{}
	feed := NewInvalidatingFeed(inner, invalidator)

	feed.Publish(&live.Event{Type: live.EventStudentUpdated, Section: "IT-4A"})

	if invalidator.calls != 1 {
		t.Errorf("InvalidateStats calls = %d, want 1", invalidator.calls)
	}
	if len(inner.events) != 1 || inner.events[0].Type != live.EventStudentUpdated {
		t.Errorf("forwarded events = %+v, want one student.updated", inner.events)
	}
}

func TestStudentMutationInvalidatesCachedStats(t *testing.T) {
	store := newFakeStudentStore(&models.Student{StudentNo: "2021-00001", Section: "IT-4A"})
	invalidator := &fakeStatsInvalidator{}
	feed := NewInvalidatingFeed(&fakeFeed{}, invalidator)
	svc := NewStudentService(store, &fakeAccountStore{}, &fakeAuditStore{}, feed, nil, zerolog.Nop())

	if err := svc.Delete(context.Background(), adminScope, 1, 9); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if invalidator.calls != 1 {
		t.Errorf("InvalidateStats calls after delete = %d, want 1", invalidator.calls)
	}
}

func TestImportInvalidatesCachedStats(t *testing.T) {
	store := newFakeStudentStore(&models.Student{StudentNo: "2021-00001"})
	invalidator := &fakeStatsInvalidator{}
	svc := NewImportService(store, &fakeAuditStore{}, zerolog.Nop()).WithStatsInvalidator(invalidator)

	csv := "Student No,First Name,Last Name\n2021-00077,Maria,Santos\n"
	report, err := svc.ImportCSV(context.Background(), strings.NewReader(csv), 1)
	if err != nil {
		t.Fatalf("ImportCSV returned error: %v", err)
	}
	if report.Imported != 1 {
		t.Fatalf("Imported = %d, want 1", report.Imported)
	}
	if invalidator.calls != 1 {
		t.Errorf("InvalidateStats calls after import = %d, want 1", invalidator.calls)
	}

	// A batch that imports nothing leaves the cache alone
	dupes := "Student No,First Name,Last Name\n2021-00001,Juan,Dela Cruz\n"
	if _, err := svc.ImportCSV(context.Background(), strings.NewReader(dupes), 1); err != nil {
		t.Fatalf("ImportCSV returned error: %v", err)
	}
	if invalidator.calls != 1 {
		t.Errorf("InvalidateStats calls after duplicate-only batch = %d, want 1", invalidator.calls)
	}
}
