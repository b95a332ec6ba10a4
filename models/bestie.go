package models

import (
	"time"

	"github.com/google/uuid"
)

// BestiePermission is what an inviter may see/edit of their bestie's private
// planning data. Only the bestie mutates it. Invariant: CanEdit implies CanRead.
type BestiePermission struct {
	BaseModel
	BestieUserID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_bestie_grants_triple,priority:1" json:"bestie_user_id"`
	InviterUserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_bestie_grants_triple,priority:2" json:"inviter_user_id"`
	WeddingID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_bestie_grants_triple,priority:3" json:"wedding_id"`
	CanRead       bool      `gorm:"not null;default:false" json:"can_read"`
	CanEdit       bool      `gorm:"not null;default:false" json:"can_edit"`
}

func (BestiePermission) TableName() string { return "bestie_grants" }

// Grant returns the permission pair.
func (p *BestiePermission) Grant() Permissions {
	return Permissions{CanRead: p.CanRead, CanEdit: p.CanEdit}
}

// DefaultBestieBrief seeds a new bestie's planning space.
const DefaultBestieBrief = "Welcome! Chat with me to start planning your bestie duties and surprises."

// BestieProfile is the bestie's private planning space.
type BestieProfile struct {
	BaseModel
	BestieUserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_bestie_profiles_owner,priority:1" json:"bestie_user_id"`
	WeddingID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_bestie_profiles_owner,priority:2" json:"wedding_id"`
	BestieBrief  string    `gorm:"type:text" json:"bestie_brief"`
}

// BestieKnowledge is one item of the bestie's planning data. Private items are
// never visible to the inviter, whatever the grant says.
type BestieKnowledge struct {
	BaseModel
	BestieUserID uuid.UUID  `gorm:"type:uuid;not null;index:idx_bestie_knowledge_owner,priority:1" json:"bestie_user_id"`
	WeddingID    uuid.UUID  `gorm:"type:uuid;not null;index:idx_bestie_knowledge_owner,priority:2" json:"wedding_id"`
	Category     string     `gorm:"type:varchar(50)" json:"category"`
	Content      string     `gorm:"type:text;not null" json:"content"`
	IsPrivate    bool       `gorm:"not null;default:false" json:"is_private"`
	UpdatedBy    *uuid.UUID `gorm:"type:uuid" json:"updated_by,omitempty"`
	EditedAt     *time.Time `json:"edited_at,omitempty"`
}

func (BestieKnowledge) TableName() string { return "bestie_knowledge" }
