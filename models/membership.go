package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Membership records that a user belongs to a wedding with a role. A user can
// belong to at most one wedding (idx_memberships_user). Per-role cardinality is
// enforced by idx_memberships_role_slot, one bestie per inviter by the partial
// index created in the migration.
type Membership struct {
	BaseModel
	WeddingID   uuid.UUID                      `gorm:"type:uuid;not null;uniqueIndex:idx_memberships_role_slot,priority:1" json:"wedding_id"`
	UserID      uuid.UUID                      `gorm:"type:uuid;not null;uniqueIndex:idx_memberships_user" json:"user_id"`
	Role        Role                           `gorm:"type:varchar(20);not null;uniqueIndex:idx_memberships_role_slot,priority:2" json:"role"`
	Slot        int                            `gorm:"not null;default:1;uniqueIndex:idx_memberships_role_slot,priority:3" json:"-"`
	InvitedBy   *uuid.UUID                     `gorm:"type:uuid;index" json:"invited_by,omitempty"`
	Permissions datatypes.JSONType[Permissions] `gorm:"column:permissions_json" json:"wedding_profile_permissions"`
}
