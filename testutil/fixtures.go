package testutil

import (
	"testing"

	"bridebuddy.app/models"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SeedWedding creates a wedding and its owner membership.
func SeedWedding(tb testing.TB, db *gorm.DB, ownerID uuid.UUID) *models.Wedding {
	tb.Helper()
	w := &models.Wedding{
		OwnerID:            ownerID,
		Partner1Name:       "Emma",
		Partner2Name:       "Liam",
		PlanType:           models.PlanTrial,
		SubscriptionStatus: models.SubscriptionStatusTrial,
		BestieAddonEnabled: true,
	}
	if err := db.Create(w).Error; err != nil {
		tb.Fatalf("seed wedding: %v", err)
	}
	SeedMember(tb, db, w.ID, ownerID, models.RoleOwner, 1, nil)
	return w
}

// SeedMember inserts a membership row directly, bypassing the ledger.
func SeedMember(tb testing.TB, db *gorm.DB, weddingID, userID uuid.UUID, role models.Role, slot int, invitedBy *uuid.UUID) *models.Membership {
	tb.Helper()
	perms := models.Permissions{CanRead: true, CanEdit: role != models.RoleBestie}
	m := &models.Membership{
		WeddingID:   weddingID,
		UserID:      userID,
		Role:        role,
		Slot:        slot,
		InvitedBy:   invitedBy,
		Permissions: datatypes.NewJSONType(perms),
	}
	if err := db.Create(m).Error; err != nil {
		tb.Fatalf("seed %s member: %v", role, err)
	}
	return m
}

// SeedBestie inserts a bestie membership together with its default grant.
func SeedBestie(tb testing.TB, db *gorm.DB, weddingID, bestieID, inviterID uuid.UUID, slot int) *models.Membership {
	tb.Helper()
	m := SeedMember(tb, db, weddingID, bestieID, models.RoleBestie, slot, &inviterID)
	grant := &models.BestiePermission{BestieUserID: bestieID, InviterUserID: inviterID, WeddingID: weddingID}
	if err := db.Create(grant).Error; err != nil {
		tb.Fatalf("seed bestie grant: %v", err)
	}
	return m
}
