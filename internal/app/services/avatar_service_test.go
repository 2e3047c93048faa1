package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime/multipart"
	"testing"

	"github.com/rs/zerolog"

	"github.com/mbaylon/interntrack/internal/app/models"
	"github.com/mbaylon/interntrack/internal/pkg/apperrors"
)

// fakeStorage records saved blobs
type fakeStorage struct {
	saved   []string
	deleted []string
}

func (f *fakeStorage) SaveFile(fileHeader *multipart.FileHeader) (string, error) {
	return "", errors.New("not used")
}

func (f *fakeStorage) SaveFileWithPath(fileHeader *multipart.FileHeader, subPath string) (string, error) {
	return "", errors.New("not used")
}

func (f *fakeStorage) SaveBytes(data []byte, subPath, ext string) (string, error) {
	url := fmt.Sprintf("http://localhost:8080/uploads/%s/blob-%d%s", subPath, len(f.saved), ext)
	f.saved = append(f.saved, url)
	return url, nil
}

func (f *fakeStorage) DeleteFile(filePath string) error {
	f.deleted = append(f.deleted, filePath)
	return nil
}

func (f *fakeStorage) GetFullPath(fileURL string) string { return fileURL }

func inlinePNG() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("png-bytes"))
}

func TestMigrateOneMovesInlineAvatarToStorage(t *testing.T) {
	data := inlinePNG()
	store := newFakeStudentStore(&models.Student{StudentNo: "2021-00001", PhotoData: &data})
	storage := &fakeStorage{}
	svc := NewAvatarService(store, storage, zerolog.Nop())

	url, err := svc.MigrateOne(context.Background(), 1)
	if err != nil {
		t.Fatalf("MigrateOne returned error: %v", err)
	}
	if len(storage.saved) != 1 || storage.saved[0] != url {
		t.Errorf("saved blobs = %v, want the returned URL", storage.saved)
	}

	student, _ := store.GetByID(context.Background(), 1)
	if student.PhotoData != nil {
		t.Errorf("inline payload not cleared after migration")
	}
	if student.PhotoURL == nil || *student.PhotoURL != url {
		t.Errorf("PhotoURL = %v, want %q", student.PhotoURL, url)
	}
}

func TestMigrateOneWithoutInlineAvatar(t *testing.T) {
	url := "http://localhost:8080/uploads/avatars/done.png"
	store := newFakeStudentStore(&models.Student{StudentNo: "2021-00001", PhotoURL: &url})
	svc := NewAvatarService(store, &fakeStorage{}, zerolog.Nop())

	if _, err := svc.MigrateOne(context.Background(), 1); !errors.Is(err, apperrors.ErrNoInlineAvatar) {
		t.Fatalf("MigrateOne error = %v, want ErrNoInlineAvatar", err)
	}
}

func TestMigrateAllIsolatesPerRecordFailures(t *testing.T) {
	good := inlinePNG()
	malformed := "data:image/png;base64,!!!not-base64!!!"
	store := newFakeStudentStore(
		&models.Student{StudentNo: "2021-00001", PhotoData: &good},
		&models.Student{StudentNo: "2021-00002", PhotoData: &malformed},
		&models.Student{StudentNo: "2021-00003", PhotoData: &good},
	)
	svc := NewAvatarService(store, &fakeStorage{}, zerolog.Nop())

	report, err := svc.MigrateAll(context.Background())
	if err != nil {
		t.Fatalf("MigrateAll returned error: %v", err)
	}
	if report.Scanned != 3 {
		t.Errorf("Scanned = %d, want 3", report.Scanned)
	}
	if report.Migrated != 2 {
		t.Errorf("Migrated = %d, want 2", report.Migrated)
	}
	if report.Skipped != 1 || len(report.Errors) != 1 {
		t.Errorf("Skipped = %d, Errors = %v, want 1 each", report.Skipped, report.Errors)
	}
}
