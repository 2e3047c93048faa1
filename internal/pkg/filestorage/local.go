package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/mbaylon/interntrack/internal/pkg/logger"
)

// LocalStorage saves files to the local filesystem.
type LocalStorage struct {
	basePath string // root directory where files are stored
	baseURL  string // base URL prepended to returned paths, optional
}

// NewLocalStorage creates a new LocalStorage instance. basePath is the
// directory on disk; baseURL, if provided, is prepended to returned paths.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}

	return &LocalStorage{
		basePath: basePath,
		baseURL:  baseURL,
	}, nil
}

// SaveFileWithPath saves an uploaded file to a subdirectory
func (ls *LocalStorage) SaveFileWithPath(fileHeader *multipart.FileHeader, subPath string) (string, error) {
	if fileHeader == nil {
		return "", nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	ext := filepath.Ext(fileHeader.Filename)
	dstPath, accessiblePath, err := ls.preparePath(subPath, ext)
	if err != nil {
		return "", err
	}

	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, file); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	logger.Info().Str("filename", fileHeader.Filename).Str("path", accessiblePath).Msg("File saved")
	return accessiblePath, nil
}

// SaveFile saves an uploaded file using the default path
func (ls *LocalStorage) SaveFile(fileHeader *multipart.FileHeader) (string, error) {
	return ls.SaveFileWithPath(fileHeader, "")
}

// SaveBytes stores raw bytes under a subdirectory with the given extension.
// Used by the avatar migration to move decoded inline images into storage.
func (ls *LocalStorage) SaveBytes(data []byte, subPath, ext string) (string, error) {
	dstPath, accessiblePath, err := ls.preparePath(subPath, ext)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(dstPath, data, 0o644); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to write file")
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	logger.Info().Str("path", accessiblePath).Int("bytes", len(data)).Msg("Bytes saved")
	return accessiblePath, nil
}

// preparePath ensures the target directory exists and returns the physical
// destination path plus the URL the caller should store.
func (ls *LocalStorage) preparePath(subPath, ext string) (dstPath, accessiblePath string, err error) {
	fullDirPath := ls.basePath
	if subPath != "" {
		fullDirPath = filepath.Join(ls.basePath, subPath)
		if err := os.MkdirAll(fullDirPath, os.ModePerm); err != nil {
			logger.Error().Err(err).Str("path", fullDirPath).Msg("Failed to create subdirectory")
			return "", "", fmt.Errorf("failed to create subdirectory: %w", err)
		}
	}

	uniqueFilename := uuid.New().String() + ext
	dstPath = filepath.Join(fullDirPath, uniqueFilename)

	relative := uniqueFilename
	if subPath != "" {
		relative = subPath + "/" + uniqueFilename
	}
	if ls.baseURL != "" {
		accessiblePath = strings.TrimRight(ls.baseURL, "/") + "/" + relative
	} else {
		accessiblePath = "uploads/" + relative
	}
	return dstPath, accessiblePath, nil
}

// DeleteFile removes a file from storage. Deleting a missing file is not an
// error; the operation is idempotent.
func (ls *LocalStorage) DeleteFile(filePath string) error {
	if filePath == "" {
		return nil
	}

	physicalPath := ls.GetFullPath(filePath)
	if physicalPath == "" {
		return fmt.Errorf("invalid file path: %s", filePath)
	}

	if _, err := os.Stat(physicalPath); os.IsNotExist(err) {
		logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
		return nil
	}

	if err := os.Remove(physicalPath); err != nil {
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

// GetFullPath returns the filesystem path for a stored file URL. It accepts
// both the bare relative form (uploads/sub/name.ext) and the full base-URL
// form returned by the save methods.
func (ls *LocalStorage) GetFullPath(fileURL string) string {
	rel := fileURL
	if ls.baseURL != "" && strings.HasPrefix(rel, strings.TrimRight(ls.baseURL, "/")+"/") {
		rel = strings.TrimPrefix(rel, strings.TrimRight(ls.baseURL, "/")+"/")
	}
	rel = strings.TrimPrefix(rel, "uploads/")
	rel = strings.TrimPrefix(rel, "/")

	if rel == "" || strings.Contains(rel, "..") {
		return ""
	}
	return filepath.Join(ls.basePath, filepath.FromSlash(rel))
}
