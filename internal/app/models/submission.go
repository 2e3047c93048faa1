package models

import (
	"encoding/json"
	"time"
)

// RequirementSubmission is a row in the fallback submissions store. It is
// consulted when a student's primary requirements field is empty, which
// happens for records created before documents moved onto the student row.
type RequirementSubmission struct {
	ID          int64           `json:"id" db:"id"`
	StudentID   int64           `json:"studentId" db:"student_id"`
	Requirement string          `json:"requirement" db:"requirement" example:"Endorsement Letter"`
	Status      RequirementStatus `json:"status" db:"status"`
	Files       json.RawMessage `json:"files" db:"files"` // heterogeneous legacy payload, normalized on read
	SubmittedAt time.Time       `json:"submittedAt" db:"submitted_at"`
	ReviewedAt  *time.Time      `json:"reviewedAt,omitempty" db:"reviewed_at"`
	ReviewedBy  *int64          `json:"reviewedBy,omitempty" db:"reviewed_by"`
}

// ToRequirement converts a submission row into the primary requirement shape
func (s *RequirementSubmission) ToRequirement() Requirement {
	updatedAt := s.SubmittedAt
	if s.ReviewedAt != nil {
		updatedAt = *s.ReviewedAt
	}
	return Requirement{
		Name:      s.Requirement,
		Status:    s.Status,
		Files:     NormalizeFiles(s.Files),
		UpdatedAt: &updatedAt,
	}
}
