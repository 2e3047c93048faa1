package services

import (
	"context"
	"strings"
	"sync"

	"github.com/mbaylon/interntrack/internal/app/models"
	"github.com/mbaylon/interntrack/internal/pkg/apperrors"
	"github.com/mbaylon/interntrack/internal/pkg/live"
)

// fakeStudentStore is an in-memory StudentStore for service tests
type fakeStudentStore struct {
	mu       sync.Mutex
	students map[int64]*models.Student
	nextID   int64
	archived []*models.DeletedStudent
}

func newFakeStudentStore(seed ...*models.Student) *fakeStudentStore {
	store := &fakeStudentStore{students: make(map[int64]*models.Student)}
	for _, s := range seed {
		store.nextID++
		copied := *s
		copied.ID = store.nextID
		store.students[copied.ID] = &copied
	}
	return store
}

func (f *fakeStudentStore) ListAll(ctx context.Context) ([]models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Student, 0, len(f.students))
	for id := int64(1); id <= f.nextID; id++ {
		if s, ok := f.students[id]; ok {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeStudentStore) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.students[id]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, apperrors.ErrStudentNotFound
}

func (f *fakeStudentStore) Create(ctx context.Context, student *models.Student) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.students {
		if existing.StudentNo == student.StudentNo {
			return apperrors.ErrStudentNumberExists
		}
	}
	f.nextID++
	student.ID = f.nextID
	copied := *student
	f.students[student.ID] = &copied
	return nil
}

func (f *fakeStudentStore) Update(ctx context.Context, student *models.Student) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.students[student.ID]; !ok {
		return apperrors.ErrStudentNotFound
	}
	copied := *student
	f.students[student.ID] = &copied
	return nil
}

func (f *fakeStudentStore) UpdateRequirements(ctx context.Context, id int64, requirements []models.Requirement) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.students[id]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	s.Requirements = requirements
	return nil
}

func (f *fakeStudentStore) UpdatePhoto(ctx context.Context, id int64, photoURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.students[id]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	s.PhotoURL = &photoURL
	s.PhotoData = nil
	return nil
}

func (f *fakeStudentStore) ListWithInlineAvatars(ctx context.Context) ([]models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Student
	for id := int64(1); id <= f.nextID; id++ {
		if s, ok := f.students[id]; ok && s.PhotoData != nil && strings.HasPrefix(*s.PhotoData, "data:") {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeStudentStore) ExistsByStudentNo(ctx context.Context, studentNo string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.students {
		if s.StudentNo == studentNo {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStudentStore) DeleteArchiving(ctx context.Context, studentID int64, record *models.DeletedStudent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.students[studentID]; !ok {
		return apperrors.ErrStudentNotFound
	}
	delete(f.students, studentID)
	f.archived = append(f.archived, record)
	return nil
}

// fakeAccountStore records account deletions
type fakeAccountStore struct {
	deleted []int64
	err     error
}

func (f *fakeAccountStore) DeleteByID(ctx context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

// fakeAuditStore records audit entries
type fakeAuditStore struct {
	entries []*models.AuditEntry
}

func (f *fakeAuditStore) Create(ctx context.Context, entry *models.AuditEntry) error {
	f.entries = append(f.entries, entry)
	return nil
}

// fakeFeed records published live events
type fakeFeed struct {
	events []*live.Event
}

func (f *fakeFeed) Publish(event *live.Event) {
	f.events = append(f.events, event)
}
