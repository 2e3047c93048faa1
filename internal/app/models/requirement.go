package models

import (
	"encoding/json"
	"path"
	"sort"
	"strings"
	"time"
)

// RequirementStatus is the review state of a submitted document
type RequirementStatus string

const (
	StatusSubmitted RequirementStatus = "submitted"
	StatusPending   RequirementStatus = "pending"
	StatusAccepted  RequirementStatus = "accepted"
	StatusDenied    RequirementStatus = "denied"
)

// Valid reports whether the status is one of the known states
func (s RequirementStatus) Valid() bool {
	switch s {
	case StatusSubmitted, StatusPending, StatusAccepted, StatusDenied:
		return true
	}
	return false
}

// ParseRequirementStatus maps loosely-written status values onto the known
// set. Legacy records use "approved"/"rejected"; anything unknown is pending.
func ParseRequirementStatus(raw string) RequirementStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "submitted":
		return StatusSubmitted
	case "accepted", "approved":
		return StatusAccepted
	case "denied", "rejected":
		return StatusDenied
	default:
		return StatusPending
	}
}

// FileRef is the uniform representation of an uploaded file
type FileRef struct {
	URL  string `json:"url" example:"http://localhost:8080/uploads/requirements/abc.pdf"`
	Name string `json:"name" example:"resume.pdf"`
}

// Requirement is a named document a student must upload and have approved
type Requirement struct {
	Name      string            `json:"name" example:"Resume"`
	Status    RequirementStatus `json:"status" example:"pending"`
	Files     []FileRef         `json:"files,omitempty"`
	UpdatedAt *time.Time        `json:"updatedAt,omitempty"`
}

// AllApproved reports whether every required document name appears in reqs
// with an accepted status. This is the derived roster predicate.
func AllApproved(reqs []Requirement, required []string) bool {
	if len(required) == 0 {
		return false
	}
	accepted := make(map[string]bool, len(reqs))
	for _, r := range reqs {
		if r.Status == StatusAccepted {
			accepted[strings.ToLower(r.Name)] = true
		}
	}
	for _, name := range required {
		if !accepted[strings.ToLower(name)] {
			return false
		}
	}
	return true
}

// DecodeRequirements parses the primary requirements document field. Records
// written over the years hold either a JSON array of requirement objects or a
// map keyed by requirement name, with files in several shapes; everything is
// normalized to []Requirement.
func DecodeRequirements(raw []byte) ([]Requirement, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}

	if strings.HasPrefix(trimmed, "[") {
		var entries []json.RawMessage
		if err := json.Unmarshal(raw, &entries); err != nil {
			return nil, err
		}
		reqs := make([]Requirement, 0, len(entries))
		for _, e := range entries {
			req, ok := decodeRequirementEntry("", e)
			if ok {
				reqs = append(reqs, req)
			}
		}
		return reqs, nil
	}

	var byName map[string]json.RawMessage
	if err := json.Unmarshal(raw, &byName); err != nil {
		return nil, err
	}
	reqs := make([]Requirement, 0, len(byName))
	for name, e := range byName {
		req, ok := decodeRequirementEntry(name, e)
		if ok {
			reqs = append(reqs, req)
		}
	}
	// Map iteration order is random; keep the output deterministic.
	sort.Slice(reqs, func(i, j int) bool { return reqs[i].Name < reqs[j].Name })
	return reqs, nil
}

// decodeRequirementEntry decodes one requirement which may be an object, a
// bare status string, or a bare URL string.
func decodeRequirementEntry(name string, raw json.RawMessage) (Requirement, bool) {
	trimmed := strings.TrimSpace(string(raw))

	if strings.HasPrefix(trimmed, "\"") {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Requirement{}, false
		}
		req := Requirement{Name: name, Status: ParseRequirementStatus(s)}
		if looksLikeURL(s) {
			req.Status = StatusSubmitted
			req.Files = []FileRef{{URL: s, Name: fileNameFromURL(s)}}
		}
		return req, req.Name != ""
	}

	var obj struct {
		Name        string          `json:"name"`
		Requirement string          `json:"requirement"`
		Type        string          `json:"type"`
		Status      string          `json:"status"`
		Files       json.RawMessage `json:"files"`
		FileURL     string          `json:"fileUrl"`
		URL         string          `json:"url"`
		UpdatedAt   *time.Time      `json:"updatedAt"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return Requirement{}, false
	}

	req := Requirement{
		Name:      firstNonEmpty(name, obj.Name, obj.Requirement, obj.Type),
		Status:    ParseRequirementStatus(obj.Status),
		Files:     NormalizeFiles(obj.Files),
		UpdatedAt: obj.UpdatedAt,
	}
	for _, direct := range []string{obj.FileURL, obj.URL} {
		if direct != "" {
			req.Files = append(req.Files, FileRef{URL: direct, Name: fileNameFromURL(direct)})
		}
	}
	return req, req.Name != ""
}

// NormalizeFiles flattens the heterogeneous uploaded-file representations
// (array of objects, map keyed by display name, bare URL string) into a
// uniform list. Unparseable input yields no files rather than an error.
func NormalizeFiles(raw json.RawMessage) []FileRef {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil
	}

	switch {
	case strings.HasPrefix(trimmed, "\""):
		var url string
		if err := json.Unmarshal(raw, &url); err != nil || url == "" {
			return nil
		}
		return []FileRef{{URL: url, Name: fileNameFromURL(url)}}

	case strings.HasPrefix(trimmed, "["):
		var entries []json.RawMessage
		if err := json.Unmarshal(raw, &entries); err != nil {
			return nil
		}
		var files []FileRef
		for _, e := range entries {
			if f, ok := decodeFileEntry("", e); ok {
				files = append(files, f)
			}
		}
		return files

	case strings.HasPrefix(trimmed, "{"):
		var byName map[string]json.RawMessage
		if err := json.Unmarshal(raw, &byName); err != nil {
			return nil
		}
		var files []FileRef
		for name, e := range byName {
			if f, ok := decodeFileEntry(name, e); ok {
				files = append(files, f)
			}
		}
		sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
		return files
	}

	return nil
}

func decodeFileEntry(name string, raw json.RawMessage) (FileRef, bool) {
	trimmed := strings.TrimSpace(string(raw))

	if strings.HasPrefix(trimmed, "\"") {
		var url string
		if err := json.Unmarshal(raw, &url); err != nil || url == "" {
			return FileRef{}, false
		}
		if name == "" {
			name = fileNameFromURL(url)
		}
		return FileRef{URL: url, Name: name}, true
	}

	var obj struct {
		URL         string `json:"url"`
		FileURL     string `json:"fileUrl"`
		DownloadURL string `json:"downloadUrl"`
		Name        string `json:"name"`
		FileName    string `json:"fileName"`
		Label       string `json:"label"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return FileRef{}, false
	}

	url := firstNonEmpty(obj.URL, obj.FileURL, obj.DownloadURL)
	if url == "" {
		return FileRef{}, false
	}
	display := firstNonEmpty(name, obj.Name, obj.FileName, obj.Label, fileNameFromURL(url))
	return FileRef{URL: url, Name: display}, true
}

func looksLikeURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") ||
		strings.HasPrefix(s, "data:") || strings.HasPrefix(s, "uploads/")
}

func fileNameFromURL(url string) string {
	if strings.HasPrefix(url, "data:") {
		return "attachment"
	}
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	base := path.Base(url)
	if base == "." || base == "/" || base == "" {
		return "attachment"
	}
	return base
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
