package models

import (
	"time"

	"github.com/google/uuid"
)

// Plan / subscription values set when a wedding is created.
const (
	PlanTrial               = "trial"
	SubscriptionStatusTrial = "trialing"
	TrialPeriod             = 7 * 24 * time.Hour
)

// Wedding is the wedding profile aggregate root. Invites and memberships belong to it.
type Wedding struct {
	BaseModel
	OwnerID            uuid.UUID  `gorm:"type:uuid;not null;index" json:"owner_id"`
	WeddingName        string     `gorm:"type:varchar(255)" json:"wedding_name"`
	Partner1Name       string     `gorm:"type:varchar(150)" json:"partner1_name"`
	Partner2Name       string     `gorm:"type:varchar(150)" json:"partner2_name"`
	WeddingDate        *time.Time `gorm:"type:date" json:"wedding_date"`
	WeddingTime        string     `gorm:"type:varchar(20)" json:"wedding_time"`
	CeremonyLocation   string     `gorm:"type:varchar(255)" json:"ceremony_location"`
	ReceptionLocation  string     `gorm:"type:varchar(255)" json:"reception_location"`
	ExpectedGuestCount *int       `json:"expected_guest_count"`
	TotalBudget        *float64   `json:"total_budget"`
	WeddingStyle       string     `gorm:"type:varchar(100)" json:"wedding_style"`
	ColorSchemePrimary string     `gorm:"type:varchar(50)" json:"color_scheme_primary"`

	PlanType           string     `gorm:"type:varchar(20);not null;default:'trial'" json:"plan_type"`
	SubscriptionStatus string     `gorm:"type:varchar(20);not null;default:'trialing'" json:"subscription_status"`
	TrialEndsAt        *time.Time `json:"trial_ends_at"`
	BestieAddonEnabled bool       `gorm:"not null;default:true" json:"bestie_addon_enabled"`
}

// DisplayName follows the "Partner1 & Partner2" convention, falling back to the
// wedding name.
func (w *Wedding) DisplayName() string {
	if w == nil {
		return "Unknown"
	}
	if w.Partner1Name != "" && w.Partner2Name != "" {
		return w.Partner1Name + " & " + w.Partner2Name
	}
	if w.WeddingName != "" {
		return w.WeddingName
	}
	if w.Partner1Name != "" {
		return w.Partner1Name
	}
	return "Unknown"
}
