package dto

import (
	"time"

	"github.com/mbaylon/interntrack/internal/app/models"
)

// CreateNotificationRequest composes a new notification
type CreateNotificationRequest struct {
	Message    string  `json:"message" binding:"required"`
	TargetKind string  `json:"targetKind" binding:"required" enums:"ALL,STUDENTS,SECTION"`
	StudentIDs []int64 `json:"studentIds,omitempty"`
	Section    string  `json:"section,omitempty"`
}

// NotificationResponse represents a dispatched notification
type NotificationResponse struct {
	ID         int64     `json:"id"`
	Message    string    `json:"message"`
	TargetKind string    `json:"targetKind" enums:"ALL,STUDENTS,SECTION"`
	StudentIDs []int64   `json:"studentIds,omitempty"`
	Section    string    `json:"section,omitempty"`
	CreatedBy  *int64    `json:"createdBy,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// FromNotification converts a notification model to its response form
func FromNotification(n *models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:         n.ID,
		Message:    n.Message,
		TargetKind: string(n.Target.Kind),
		StudentIDs: n.Target.StudentIDs,
		Section:    n.Target.Section,
		CreatedBy:  n.CreatedBy,
		CreatedAt:  n.CreatedAt,
	}
}
