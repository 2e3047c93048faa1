package filestorage

import (
	"mime/multipart"
)

// FileStorage defines the interface for object-storage operations. The local
// implementation stands in for the hosted blob store of the original system.
type FileStorage interface {
	// SaveFile saves an uploaded file and returns its accessible URL
	SaveFile(fileHeader *multipart.FileHeader) (string, error)

	// SaveFileWithPath saves an uploaded file under a subdirectory
	SaveFileWithPath(fileHeader *multipart.FileHeader, subPath string) (string, error)

	// SaveBytes stores raw bytes (decoded inline avatars, generated
	// exports) under a subdirectory with the given extension
	SaveBytes(data []byte, subPath, ext string) (string, error)

	// DeleteFile removes a file from storage
	DeleteFile(filePath string) error

	// GetFullPath returns the full filesystem path for a given file URL
	GetFullPath(fileURL string) string
}
