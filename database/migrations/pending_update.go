package migrations

import (
	"bridebuddy.app/configs/configslog"
	"bridebuddy.app/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigratePendingUpdatesTable(db *gorm.DB) error {
	configslog.SLog.Info("Migrating pending_updates table...")
	if err := db.AutoMigrate(&models.PendingUpdate{}); err != nil {
		configslog.Log.Error("Failed to migrate pending_updates table", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Pending_updates table migrated successfully")
	return nil
}
