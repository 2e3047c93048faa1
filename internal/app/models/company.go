package models

import "time"

// Company defines the partner-company model based on the 'companies' table.
// Listings are read-only for this service; records are maintained by the
// partnerships office.
type Company struct {
	ID            int64     `json:"id" db:"id" example:"1"`
	Name          string    `json:"name" db:"name" example:"Acme Software Solutions"`
	Industry      string    `json:"industry" db:"industry" example:"Information Technology"`
	Address       string    `json:"address" db:"address" example:"12F One Ayala Tower, Makati"`
	ContactPerson string    `json:"contactPerson" db:"contact_person" example:"R. Villanueva"`
	ContactEmail  string    `json:"contactEmail" db:"contact_email" example:"hr@acme.example"`
	Website       *string   `json:"website,omitempty" db:"website"`
	MOAURL        *string   `json:"moaUrl,omitempty" db:"moa_url"` // signed memorandum of agreement, if on file
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}
