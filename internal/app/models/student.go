package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Student defines the student record model based on the 'students' table.
// Requirements is the primary document field; the requirement_submissions
// table is the fallback store queried when this field is empty.
type Student struct {
	ID               int64         `json:"id" db:"id" example:"1"`
	StudentNo        string        `json:"studentNo" db:"student_no" example:"2021-00451"` // unique student number
	FirstName        string        `json:"firstName" db:"first_name" example:"Juan"`
	LastName         string        `json:"lastName" db:"last_name" example:"Dela Cruz"`
	Program          string        `json:"program" db:"program" example:"BS Information Technology"`
	Section          string        `json:"section" db:"section" example:"IT-4A"`
	Email            string        `json:"email" db:"email" example:"juan.delacruz@school.edu.ph"`
	ContactNumber    string        `json:"contactNumber" db:"contact_number" example:"09171234567"`
	Hired            bool          `json:"hired" db:"hired" example:"false"`
	OpenToRelocation bool          `json:"openToRelocation" db:"open_to_relocation" example:"true"`
	PhotoURL         *string       `json:"photoUrl,omitempty" db:"photo_url"`   // object-storage URL once migrated
	PhotoData        *string       `json:"photoData,omitempty" db:"photo_data"` // legacy inline data URL, cleared by avatar migration
	Requirements     []Requirement `json:"requirements,omitempty" db:"requirements"`
	AccountID        *int64        `json:"accountId,omitempty" db:"account_id"` // linked auth account, cleaned up best-effort on delete
	CreatedAt        time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time     `json:"updatedAt" db:"updated_at"`
}

// FullName returns the display name used for filtering and sorting
func (s *Student) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// DeletedStudent is the audit copy written before a student is removed.
// Snapshot carries the full pre-deletion record.
type DeletedStudent struct {
	ID        int64           `json:"id" db:"id"`
	StudentNo string          `json:"studentNo" db:"student_no"`
	Snapshot  json.RawMessage `json:"snapshot" db:"snapshot"`
	DeletedBy *int64          `json:"deletedBy,omitempty" db:"deleted_by"`
	DeletedAt time.Time       `json:"deletedAt" db:"deleted_at"`
}
