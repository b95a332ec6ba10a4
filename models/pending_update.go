package models

import (
	"time"

	"github.com/google/uuid"
)

// UpdateStatus is the review state of a proposed wedding profile change.
type UpdateStatus string

const (
	UpdateStatusPending  UpdateStatus = "pending"
	UpdateStatusApproved UpdateStatus = "approved"
	UpdateStatusRejected UpdateStatus = "rejected"
)

// PendingUpdate is a proposed change to one wedding profile field, applied only
// after an owner or partner approves it.
type PendingUpdate struct {
	BaseModel
	WeddingID  uuid.UUID    `gorm:"type:uuid;not null;index" json:"wedding_id"`
	ProposedBy uuid.UUID    `gorm:"type:uuid;not null" json:"proposed_by"`
	FieldName  string       `gorm:"type:varchar(50);not null" json:"field_name"`
	NewValue   string       `gorm:"type:text" json:"new_value"`
	Status     UpdateStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	DecidedBy  *uuid.UUID   `gorm:"type:uuid" json:"decided_by,omitempty"`
	DecidedAt  *time.Time   `json:"decided_at,omitempty"`
}
