package migrations

import (
	"bridebuddy.app/configs/configslog"
	"bridebuddy.app/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateBestieTables(db *gorm.DB) error {
	configslog.SLog.Info("Migrating bestie_grants, bestie_profiles & bestie_knowledge tables...")
	err := db.AutoMigrate(&models.BestiePermission{}, &models.BestieProfile{}, &models.BestieKnowledge{})
	if err != nil {
		configslog.Log.Error("Failed to migrate bestie tables", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Bestie tables migrated successfully")
	return nil
}
