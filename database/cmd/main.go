package main

import (
	"flag"
	"os"

	"bridebuddy.app/configs/configsdatabase"
	"bridebuddy.app/configs/configsenv"
	"bridebuddy.app/configs/configslog"
	"bridebuddy.app/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	configslog.InitLogger()
	defer configslog.SyncLogger()

	migrateFlag := flag.Bool("migrate", false, "run schema migrations")
	seedFlag := flag.Bool("seed", false, "seed a demo wedding (requires -owner)")
	ownerFlag := flag.String("owner", "", "identity provider user id owning the demo wedding")
	flag.Parse()

	cfg, err := configsenv.Load()
	if err != nil {
		configslog.Log.Fatal("Configuration could not be loaded", zap.Error(err))
	}

	opts := database.Options{Migrate: *migrateFlag, Seed: *seedFlag}
	if *seedFlag {
		opts.DemoOwnerID, err = uuid.Parse(*ownerFlag)
		if err != nil {
			configslog.Log.Fatal("-owner must be a UUID", zap.Error(err))
		}
	}

	db, err := configsdatabase.Open(cfg.DatabaseURL, cfg.IsProduction())
	if err != nil {
		configslog.Log.Fatal("Database connection failed", zap.Error(err))
	}
	defer configsdatabase.Close(db)

	if err := database.Initialize(db, opts); err != nil {
		configslog.Log.Error("Database initialisation failed", zap.Error(err))
		configsdatabase.Close(db)
		configslog.SyncLogger()
		os.Exit(1)
	}
}
