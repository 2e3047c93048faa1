package dto

import (
	"time"

	"github.com/mbaylon/interntrack/internal/app/models"
)

// UpdateRequirementStatusRequest changes the review status of one requirement
type UpdateRequirementStatusRequest struct {
	Status string `json:"status" binding:"required" enums:"submitted,pending,accepted,denied"`
}

// SubmissionResponse represents a standalone requirement submission row
type SubmissionResponse struct {
	ID          int64             `json:"id"`
	StudentID   int64             `json:"studentId"`
	Requirement string            `json:"requirement"`
	Status      string            `json:"status" enums:"submitted,pending,accepted,denied"`
	Files       []FileRefResponse `json:"files"`
	SubmittedAt time.Time         `json:"submittedAt"`
	ReviewedAt  *time.Time        `json:"reviewedAt,omitempty"`
	ReviewedBy  *int64            `json:"reviewedBy,omitempty"`
}

// FromRequirement converts a requirement model to its response form
func FromRequirement(r *models.Requirement, fileMeta func(url string) (category string, previewable bool)) RequirementResponse {
	files := make([]FileRefResponse, 0, len(r.Files))
	for _, f := range r.Files {
		category, previewable := "other", false
		if fileMeta != nil {
			category, previewable = fileMeta(f.URL)
		}
		files = append(files, FileRefResponse{
			URL:         f.URL,
			Name:        f.Name,
			Category:    category,
			Previewable: previewable,
		})
	}
	return RequirementResponse{
		Name:      r.Name,
		Status:    string(r.Status),
		Files:     files,
		UpdatedAt: r.UpdatedAt,
	}
}

// RequirementProgressResponse summarizes completion for one requirement name
// across the visible roster
type RequirementProgressResponse struct {
	Name     string `json:"name"`
	Accepted int    `json:"accepted"`
	Pending  int    `json:"pending"`
	Denied   int    `json:"denied"`
	Missing  int    `json:"missing"`
}
