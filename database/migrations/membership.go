package migrations

import (
	"bridebuddy.app/configs/configslog"
	"bridebuddy.app/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// One bestie per inviter. Partial indexes are not expressible in struct tags;
// both Postgres and SQLite accept this statement.
const bestieSponsorIndexSQL = `CREATE UNIQUE INDEX IF NOT EXISTS idx_memberships_bestie_sponsor
	ON memberships (wedding_id, invited_by) WHERE role = 'bestie'`

func MigrateMembershipsTable(db *gorm.DB) error {
	configslog.SLog.Info("Migrating memberships table...")
	if err := db.AutoMigrate(&models.Membership{}); err != nil {
		configslog.Log.Error("Failed to migrate memberships table", zap.Error(err))
		return err
	}
	if err := db.Exec(bestieSponsorIndexSQL).Error; err != nil {
		configslog.Log.Error("Failed to create bestie sponsor index", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Memberships table migrated successfully")
	return nil
}
