package models

import (
	"time"
)

// RoleType defines the staff roles that partition dashboard visibility
type RoleType string

const (
	// RoleAdmin sees every student record
	RoleAdmin RoleType = "ADMIN"
	// RoleCoordinator sees students in its assigned sections only
	RoleCoordinator RoleType = "COORDINATOR"
	// RoleProgramHead sees students whose program maps to an assigned
	// institutional program code, optionally intersected with sections
	RoleProgramHead RoleType = "PROGRAM_HEAD"
)

// Valid reports whether the role is one of the known roles
func (r RoleType) Valid() bool {
	switch r {
	case RoleAdmin, RoleCoordinator, RoleProgramHead:
		return true
	}
	return false
}

// User defines the staff account model based on the 'users' table
type User struct {
	ID               int64      `json:"id" db:"id" example:"1"`
	Email            string     `json:"email" db:"email" example:"coordinator@school.edu.ph"`
	Password         string     `json:"-" db:"password"`
	FirstName        string     `json:"firstName" db:"first_name" example:"Maria"`
	LastName         string     `json:"lastName" db:"last_name" example:"Santos"`
	RoleType         RoleType   `json:"roleType" db:"role_type" example:"COORDINATOR"`
	AssignedSections []string   `json:"assignedSections,omitempty" db:"assigned_sections"` // section scoping for coordinators / program heads
	AssignedPrograms []string   `json:"assignedPrograms,omitempty" db:"assigned_programs"` // institutional program codes for program heads
	IsActive         bool       `json:"isActive" db:"is_active" example:"true"`
	CreatedAt        time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time  `json:"updatedAt" db:"updated_at"`
	LastLoginAt      *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"`
}
