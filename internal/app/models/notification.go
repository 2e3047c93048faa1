package models

import (
	"fmt"
	"time"
)

// NotificationTargetKind discriminates the three delivery scopes
type NotificationTargetKind string

const (
	// TargetAll delivers to every student
	TargetAll NotificationTargetKind = "ALL"
	// TargetStudents delivers to an explicit list of student IDs
	TargetStudents NotificationTargetKind = "STUDENTS"
	// TargetSection delivers to every student in one section
	TargetSection NotificationTargetKind = "SECTION"
)

// NotificationTarget is the typed target of a notification. Exactly one of
// the payload fields is meaningful depending on Kind.
type NotificationTarget struct {
	Kind       NotificationTargetKind `json:"kind" example:"SECTION"`
	StudentIDs []int64                `json:"studentIds,omitempty"`
	Section    string                 `json:"section,omitempty" example:"IT-4A"`
}

// AllTarget targets every student
func AllTarget() NotificationTarget {
	return NotificationTarget{Kind: TargetAll}
}

// StudentsTarget targets the given student IDs
func StudentsTarget(ids []int64) NotificationTarget {
	return NotificationTarget{Kind: TargetStudents, StudentIDs: ids}
}

// SectionTarget targets one section
func SectionTarget(section string) NotificationTarget {
	return NotificationTarget{Kind: TargetSection, Section: section}
}

// Validate checks that the target kind and its payload agree
func (t NotificationTarget) Validate() error {
	switch t.Kind {
	case TargetAll:
		return nil
	case TargetStudents:
		if len(t.StudentIDs) == 0 {
			return fmt.Errorf("target kind %s requires at least one student ID", t.Kind)
		}
		return nil
	case TargetSection:
		if t.Section == "" {
			return fmt.Errorf("target kind %s requires a section", t.Kind)
		}
		return nil
	default:
		return fmt.Errorf("unknown target kind %q", t.Kind)
	}
}

// Includes reports whether the target covers the given student
func (t NotificationTarget) Includes(s *Student) bool {
	switch t.Kind {
	case TargetAll:
		return true
	case TargetStudents:
		for _, id := range t.StudentIDs {
			if id == s.ID {
				return true
			}
		}
		return false
	case TargetSection:
		return t.Section == s.Section
	}
	return false
}

// Notification defines the notification model based on the 'notifications'
// table. Retention is bounded: inserts prune entries beyond the configured cap.
type Notification struct {
	ID        int64              `json:"id" db:"id" example:"42"`
	Message   string             `json:"message" db:"message" example:"Submit your endorsement letters by Friday."`
	Target    NotificationTarget `json:"target" db:"target"`
	CreatedBy *int64             `json:"createdBy,omitempty" db:"created_by"`
	CreatedAt time.Time          `json:"createdAt" db:"created_at"`
}
