package dto

import (
	"time"

	"github.com/mbaylon/interntrack/internal/app/models"
)

// CreateStudentRequest represents a new student record
type CreateStudentRequest struct {
	StudentNo        string `json:"studentNo" binding:"required"`
	FirstName        string `json:"firstName" binding:"required"`
	LastName         string `json:"lastName" binding:"required"`
	Program          string `json:"program" binding:"required"`
	Section          string `json:"section" binding:"required"`
	Email            string `json:"email" binding:"omitempty,email"`
	ContactNumber    string `json:"contactNumber"`
	Hired            bool   `json:"hired"`
	OpenToRelocation bool   `json:"openToRelocation"`
}

// UpdateStudentRequest carries a partial student update. Nil fields are
// left unchanged.
type UpdateStudentRequest struct {
	FirstName        *string `json:"firstName,omitempty"`
	LastName         *string `json:"lastName,omitempty"`
	Program          *string `json:"program,omitempty"`
	Section          *string `json:"section,omitempty"`
	Email            *string `json:"email,omitempty" binding:"omitempty,email"`
	ContactNumber    *string `json:"contactNumber,omitempty"`
	Hired            *bool   `json:"hired,omitempty"`
	OpenToRelocation *bool   `json:"openToRelocation,omitempty"`
}

// BatchDeleteStudentsRequest names the student records to remove
type BatchDeleteStudentsRequest struct {
	IDs []int64 `json:"ids" binding:"required,min=1"`
}

// BatchDeleteFailure describes why one record in a batch was not deleted
type BatchDeleteFailure struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

// BatchDeleteReport summarizes a batch deletion. Every requested ID lands in
// exactly one bucket.
type BatchDeleteReport struct {
	Deleted  int                  `json:"deleted"`
	Failures []BatchDeleteFailure `json:"failures,omitempty"`
}

// ListStudentsRequest represents roster query parameters
type ListStudentsRequest struct {
	Search           string `form:"search"`
	Hired            *bool  `form:"hired"`
	OpenToRelocation *bool  `form:"openToRelocation"`
	AllApproved      bool   `form:"allApproved"`
	SortBy           string `form:"sortBy"`
	SortDesc         bool   `form:"sortDesc"`
	Page             int    `form:"page,default=1"`
	Size             int    `form:"size,default=10"`
}

// RequirementResponse represents one tracked requirement on a student
type RequirementResponse struct {
	Name      string            `json:"name"`
	Status    string            `json:"status" enums:"submitted,pending,accepted,denied"`
	Files     []FileRefResponse `json:"files"`
	UpdatedAt *time.Time        `json:"updatedAt,omitempty"`
}

// FileRefResponse represents a stored file reference
type FileRefResponse struct {
	URL         string `json:"url"`
	Name        string `json:"name"`
	Category    string `json:"category" enums:"image,pdf,other"`
	Previewable bool   `json:"previewable"`
}

// StudentResponse represents a student record in API responses
type StudentResponse struct {
	ID               int64                 `json:"id"`
	StudentNo        string                `json:"studentNo"`
	FirstName        string                `json:"firstName"`
	LastName         string                `json:"lastName"`
	FullName         string                `json:"fullName"`
	Program          string                `json:"program"`
	Section          string                `json:"section"`
	Email            string                `json:"email,omitempty"`
	ContactNumber    string                `json:"contactNumber,omitempty"`
	Hired            bool                  `json:"hired"`
	OpenToRelocation bool                  `json:"openToRelocation"`
	PhotoURL         *string               `json:"photoUrl,omitempty"`
	AllApproved      bool                  `json:"allApproved"`
	Requirements     []RequirementResponse `json:"requirements"`
	CreatedAt        time.Time             `json:"createdAt"`
	UpdatedAt        time.Time             `json:"updatedAt"`
}

// DeletedStudentResponse represents an archived student snapshot
type DeletedStudentResponse struct {
	ID        int64     `json:"id"`
	StudentNo string    `json:"studentNo"`
	FullName  string    `json:"fullName"`
	Program   string    `json:"program"`
	Section   string    `json:"section"`
	DeletedAt time.Time `json:"deletedAt"`
}

// StudentListResponse is the paginated roster response
type StudentListResponse struct {
	Students   []StudentResponse `json:"students"`
	Pagination PaginationInfo    `json:"pagination"`
}

// FromStudent converts a student model to its response form.
// requiredDocs drives the allApproved flag.
func FromStudent(student *models.Student, requiredDocs []string, fileMeta func(url string) (category string, previewable bool)) StudentResponse {
	reqs := make([]RequirementResponse, 0, len(student.Requirements))
	for i := range student.Requirements {
		reqs = append(reqs, FromRequirement(&student.Requirements[i], fileMeta))
	}

	return StudentResponse{
		ID:               student.ID,
		StudentNo:        student.StudentNo,
		FirstName:        student.FirstName,
		LastName:         student.LastName,
		FullName:         student.FullName(),
		Program:          student.Program,
		Section:          student.Section,
		Email:            student.Email,
		ContactNumber:    student.ContactNumber,
		Hired:            student.Hired,
		OpenToRelocation: student.OpenToRelocation,
		PhotoURL:         student.PhotoURL,
		AllApproved:      models.AllApproved(student.Requirements, requiredDocs),
		Requirements:     reqs,
		CreatedAt:        student.CreatedAt,
		UpdatedAt:        student.UpdatedAt,
	}
}
