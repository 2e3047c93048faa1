package models

import (
	"encoding/json"
	"time"
)

// AuditEntry records one mutating action against the system. Writes are
// best-effort; a failed audit write never fails the operation it describes.
type AuditEntry struct {
	ID        int64           `json:"id" db:"id"`
	ActorID   *int64          `json:"actorId,omitempty" db:"actor_id"`
	Action    string          `json:"action" db:"action" example:"student.delete"`
	Entity    string          `json:"entity" db:"entity" example:"student"`
	EntityID  string          `json:"entityId" db:"entity_id" example:"2021-00451"`
	Detail    json.RawMessage `json:"detail,omitempty" db:"detail"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
}
