package seeders

import (
	"errors"
	"time"

	"bridebuddy.app/configs/configslog"
	"bridebuddy.app/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SeedDemoWedding creates a trial wedding owned by ownerID for local
// development. It is a no-op when the owner already belongs to a wedding.
func SeedDemoWedding(db *gorm.DB, ownerID uuid.UUID) error {
	var existing models.Membership
	err := db.Where("user_id = ?", ownerID).First(&existing).Error
	if err == nil {
		configslog.SLog.Debugf("Demo owner already belongs to wedding %s, skipping.", existing.WeddingID)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		configslog.Log.Error("Demo owner membership check failed", zap.Error(err))
		return err
	}

	trialEnds := time.Now().UTC().Add(models.TrialPeriod)
	wedding := models.Wedding{
		OwnerID:            ownerID,
		WeddingName:        "Demo Wedding",
		Partner1Name:       "Alex",
		Partner2Name:       "Sam",
		PlanType:           models.PlanTrial,
		SubscriptionStatus: models.SubscriptionStatusTrial,
		TrialEndsAt:        &trialEnds,
		BestieAddonEnabled: true,
	}
	if err := db.Create(&wedding).Error; err != nil {
		configslog.Log.Error("Demo wedding could not be created", zap.Error(err))
		return err
	}

	owner := models.Membership{
		WeddingID:   wedding.ID,
		UserID:      ownerID,
		Role:        models.RoleOwner,
		Slot:        1,
		Permissions: datatypes.NewJSONType(models.Permissions{CanRead: true, CanEdit: true}),
	}
	if err := db.Create(&owner).Error; err != nil {
		configslog.Log.Error("Demo owner membership could not be created", zap.Error(err))
		return err
	}
	configslog.SLog.Infof("Demo wedding %s seeded.", wedding.ID)
	return nil
}
