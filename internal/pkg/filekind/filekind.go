// Package filekind infers the MIME category of an uploaded file reference so
// callers can decide between inline preview and forced download, and decodes
// legacy inline data URLs.
package filekind

import (
	"encoding/base64"
	"fmt"
	"mime"
	"path"
	"strings"
)

// Category is the coarse MIME category of a file reference
type Category string

const (
	CategoryImage Category = "image"
	CategoryPDF   Category = "pdf"
	CategoryOther Category = "other"
)

// Previewable reports whether the category renders inline in a browser
func (c Category) Previewable() bool {
	return c == CategoryImage || c == CategoryPDF
}

// Detect infers the category of a file reference from its data-URL prefix,
// its extension, or the URL path.
func Detect(url string) Category {
	if strings.HasPrefix(url, "data:") {
		return fromContentType(dataURLContentType(url))
	}

	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	ext := strings.ToLower(path.Ext(url))
	if ext == "" {
		return CategoryOther
	}
	return fromContentType(mime.TypeByExtension(ext))
}

func fromContentType(contentType string) Category {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return CategoryImage
	case contentType == "application/pdf":
		return CategoryPDF
	default:
		return CategoryOther
	}
}

// IsDataURL reports whether the reference is an inline data URL
func IsDataURL(url string) bool {
	return strings.HasPrefix(url, "data:")
}

// DecodeDataURL decodes a base64 data URL into its bytes and content type
func DecodeDataURL(url string) (data []byte, contentType string, err error) {
	if !IsDataURL(url) {
		return nil, "", fmt.Errorf("not a data URL")
	}

	comma := strings.IndexByte(url, ',')
	if comma < 0 {
		return nil, "", fmt.Errorf("malformed data URL: no payload separator")
	}

	meta := url[len("data:"):comma]
	if !strings.HasSuffix(meta, ";base64") {
		return nil, "", fmt.Errorf("unsupported data URL encoding (want base64)")
	}
	contentType = strings.TrimSuffix(meta, ";base64")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	data, err = base64.StdEncoding.DecodeString(url[comma+1:])
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode data URL payload: %w", err)
	}
	return data, contentType, nil
}

func dataURLContentType(url string) string {
	rest := url[len("data:"):]
	if i := strings.IndexAny(rest, ";,"); i >= 0 {
		rest = rest[:i]
	}
	return rest
}

// ExtensionFor returns a file extension (with dot) for a content type,
// defaulting to .bin for unknown types.
func ExtensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "application/pdf":
		return ".pdf"
	}
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}
