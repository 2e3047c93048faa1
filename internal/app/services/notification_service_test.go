package services

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/rs/zerolog"

	"github.com/mbaylon/interntrack/internal/app/models"
	"github.com/mbaylon/interntrack/internal/app/models/dto"
	"github.com/mbaylon/interntrack/internal/app/roster"
	"github.com/mbaylon/interntrack/internal/pkg/apperrors"
	"github.com/mbaylon/interntrack/internal/pkg/events"
)

// fakeNotificationStore applies the retention cap the way the real store does
type fakeNotificationStore struct {
	notifications []*models.Notification
	nextID        int64
}

func (f *fakeNotificationStore) CreateWithPrune(ctx context.Context, n *models.Notification, retention int) error {
	f.nextID++
	n.ID = f.nextID
	f.notifications = append(f.notifications, n)
	if len(f.notifications) > retention {
		f.notifications = f.notifications[len(f.notifications)-retention:]
	}
	return nil
}

func (f *fakeNotificationStore) GetByID(ctx context.Context, id int64) (*models.Notification, error) {
	for _, n := range f.notifications {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, apperrors.ErrNotificationNotFound
}

func (f *fakeNotificationStore) GetAll(ctx context.Context, offset uint64, limit int) ([]models.Notification, int64, error) {
	out := make([]models.Notification, 0, len(f.notifications))
	for _, n := range f.notifications {
		out = append(out, *n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	total := int64(len(out))
	if int(offset) >= len(out) {
		return nil, total, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

func (f *fakeNotificationStore) Delete(ctx context.Context, id int64) error {
	for i, n := range f.notifications {
		if n.ID == id {
			f.notifications = append(f.notifications[:i], f.notifications[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotificationNotFound
}

func newNotificationService(retention int, seed ...*models.Student) (*NotificationService, *fakeNotificationStore, *fakeFeed) {
	store := &fakeNotificationStore{}
	feed := &fakeFeed{}
	svc := NewNotificationService(store, newFakeStudentStore(seed...), feed, events.NoopPublisher{}, retention, zerolog.Nop())
	return svc, store, feed
}

func TestNotificationRetentionCap(t *testing.T) {
	const retention = 5
	svc, store, _ := newNotificationService(retention)

	for i := 0; i < retention+3; i++ {
		_, err := svc.Create(context.Background(), adminScope, &dto.CreateNotificationRequest{
			Message:    "submit your requirements",
			TargetKind: "ALL",
		}, 1)
		if err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
	}

	if len(store.notifications) != retention {
		t.Fatalf("stored notifications = %d, want %d", len(store.notifications), retention)
	}
	// The survivors are the newest ones
	if store.notifications[0].ID != 4 {
		t.Errorf("oldest surviving ID = %d, want 4", store.notifications[0].ID)
	}
}

func TestNotificationTargetValidation(t *testing.T) {
	tests := []struct {
		name string
		req  dto.CreateNotificationRequest
	}{
		{"unknown kind", dto.CreateNotificationRequest{Message: "m", TargetKind: "EVERYONE"}},
		{"students without ids", dto.CreateNotificationRequest{Message: "m", TargetKind: "STUDENTS"}},
		{"section without name", dto.CreateNotificationRequest{Message: "m", TargetKind: "SECTION"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, _ := newNotificationService(10)
			_, err := svc.Create(context.Background(), adminScope, &tt.req, 1)
			if !errors.Is(err, apperrors.ErrInvalidTarget) {
				t.Errorf("Create error = %v, want ErrInvalidTarget", err)
			}
			if len(store.notifications) != 0 {
				t.Errorf("invalid target was persisted")
			}
		})
	}
}

func TestNotificationSectionScopeEnforced(t *testing.T) {
	svc, store, _ := newNotificationService(10)
	coordinator := roster.Scope{Role: models.RoleCoordinator, Sections: []string{"IT-4A"}}

	_, err := svc.Create(context.Background(), coordinator, &dto.CreateNotificationRequest{
		Message:    "meet at the lab",
		TargetKind: "SECTION",
		Section:    "CS-4B",
	}, 1)
	if !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("Create error = %v, want ErrPermissionDenied", err)
	}
	if len(store.notifications) != 0 {
		t.Errorf("out-of-scope notification was persisted")
	}

	if _, err := svc.Create(context.Background(), coordinator, &dto.CreateNotificationRequest{
		Message:    "meet at the lab",
		TargetKind: "SECTION",
		Section:    "IT-4A",
	}, 1); err != nil {
		t.Errorf("in-scope section rejected: %v", err)
	}
}

func TestStudentTargetedFeedEventsCarryStudentGroupings(t *testing.T) {
	svc, _, feed := newNotificationService(10,
		&models.Student{StudentNo: "2021-00001", Section: "IT-4A", Program: "BS Information Technology"},
		&models.Student{StudentNo: "2021-00002", Section: "IT-4A", Program: "BS Information Technology"},
		&models.Student{StudentNo: "2021-00003", Section: "CS-4B", Program: "BS Computer Science"},
	)

	_, err := svc.Create(context.Background(), adminScope, &dto.CreateNotificationRequest{
		Message:    "orientation moved to Friday",
		TargetKind: "STUDENTS",
		StudentIDs: []int64{1, 2, 3},
	}, 1)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	// One event per distinct section, each carrying its grouping so the
	// feed only reaches staff covering those students
	if len(feed.events) != 2 {
		t.Fatalf("feed events = %d, want 2", len(feed.events))
	}
	sections := map[string]bool{}
	for _, event := range feed.events {
		if event.Section == "" {
			t.Errorf("student-targeted event has no section: %+v", event)
		}
		sections[event.Section] = true
	}
	if !sections["IT-4A"] || !sections["CS-4B"] {
		t.Errorf("event sections = %v, want IT-4A and CS-4B", sections)
	}
}

func TestNotificationTargetIncludes(t *testing.T) {
	student := &models.Student{ID: 3, Section: "IT-4A"}

	tests := []struct {
		name   string
		target models.NotificationTarget
		want   bool
	}{
		{"all", models.AllTarget(), true},
		{"listed student", models.StudentsTarget([]int64{1, 3}), true},
		{"unlisted student", models.StudentsTarget([]int64{1, 2}), false},
		{"matching section", models.SectionTarget("IT-4A"), true},
		{"other section", models.SectionTarget("CS-4B"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.target.Includes(student); got != tt.want {
				t.Errorf("Includes = %v, want %v", got, tt.want)
			}
		})
	}
}
