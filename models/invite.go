package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Invite is a one-time-use token granting a role in a wedding. Only the token
// digest is persisted; the raw token is handed out once, at issuance.
type Invite struct {
	BaseModel
	TokenDigest string                         `gorm:"type:varchar(64);uniqueIndex;not null" json:"-"`
	WeddingID   uuid.UUID                      `gorm:"type:uuid;not null;index" json:"wedding_id"`
	Role        Role                           `gorm:"type:varchar(20);not null;index" json:"role"`
	CreatedBy   uuid.UUID                      `gorm:"type:uuid;not null;index" json:"created_by"`
	Permissions datatypes.JSONType[Permissions] `gorm:"column:permissions_json" json:"wedding_profile_permissions"`
	Used        bool                           `gorm:"not null;default:false;index" json:"used"`
	UsedBy      *uuid.UUID                     `gorm:"type:uuid" json:"used_by,omitempty"`
	UsedAt      *time.Time                     `json:"used_at,omitempty"`
	ExpiresAt   *time.Time                     `gorm:"index" json:"expires_at,omitempty"`
}

// ExpiredAt reports whether the invite is past its expiry at the given instant.
// Invites without an expiry never expire.
func (i *Invite) ExpiredAt(now time.Time) bool {
	return i.ExpiresAt != nil && !now.Before(*i.ExpiresAt)
}

// PendingAt reports whether the invite can still be redeemed.
func (i *Invite) PendingAt(now time.Time) bool {
	return !i.Used && !i.ExpiredAt(now)
}
