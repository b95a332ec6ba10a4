package database

import (
	"errors"

	"bridebuddy.app/configs/configslog"
	"bridebuddy.app/database/migrations"
	"bridebuddy.app/database/seeders"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Options selects the initialisation steps. DemoOwnerID is only read when Seed
// is set.
type Options struct {
	Migrate     bool
	Seed        bool
	DemoOwnerID uuid.UUID
}

// Initialize runs the selected steps in a single transaction.
func Initialize(db *gorm.DB, opts Options) error {
	if !opts.Migrate && !opts.Seed {
		configslog.SLog.Info("Neither migrate nor seed requested, nothing to do.")
		return nil
	}
	if opts.Seed && opts.DemoOwnerID == uuid.Nil {
		return errors.New("seeding requires a demo owner id")
	}

	configslog.SLog.Info("Database initialisation starting...")
	err := db.Transaction(func(tx *gorm.DB) error {
		if opts.Migrate {
			if err := RunMigrationsInOrder(tx); err != nil {
				configslog.Log.Error("Migration failed", zap.Error(err))
				return err
			}
		} else {
			configslog.SLog.Info("Migrate flag not set, skipping migrations.")
		}

		if opts.Seed {
			if err := CheckAndRunSeeders(tx, opts.DemoOwnerID); err != nil {
				configslog.Log.Error("Seeding failed", zap.Error(err))
				return err
			}
		} else {
			configslog.SLog.Info("Seed flag not set, skipping seeders.")
		}
		return nil
	})
	if err != nil {
		configslog.SLog.Warn("Database initialisation rolled back")
		return err
	}
	configslog.SLog.Info("Database initialisation completed successfully")
	return nil
}

// RunMigrationsInOrder creates tables parents first.
func RunMigrationsInOrder(db *gorm.DB) error {
	steps := []struct {
		name string
		run  func(*gorm.DB) error
	}{
		{"weddings", migrations.MigrateWeddingsTable},
		{"invites", migrations.MigrateInvitesTable},
		{"memberships", migrations.MigrateMembershipsTable},
		{"bestie", migrations.MigrateBestieTables},
		{"pending_updates", migrations.MigratePendingUpdatesTable},
	}
	for _, step := range steps {
		configslog.SLog.Infof(" -> Running %s migrations...", step.name)
		if err := step.run(db); err != nil {
			return err
		}
	}
	configslog.SLog.Info("All migrations completed.")
	return nil
}

func CheckAndRunSeeders(db *gorm.DB, demoOwnerID uuid.UUID) error {
	configslog.SLog.Info(" -> Running demo wedding seeder...")
	if err := seeders.SeedDemoWedding(db, demoOwnerID); err != nil {
		return err
	}
	configslog.SLog.Info("All seeders completed.")
	return nil
}
