// @title LMS Backend API
// @version 1.0
// @description Course management, graded assessments, assignments and live classes.

// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"flag"
	"lms_backend/internal/app"
	"lms_backend/internal/config"
	"lms_backend/internal/seed"
	"lms_backend/pkg/logger"
	"log"
	"time"

	"go.uber.org/zap"
)

func main() {
	migrateOnly := flag.Bool("migrate-only", false, "run database migrations and exit")
	migrate := flag.Bool("migrate", false, "run database migrations on startup, even in release mode")
	seedFile := flag.String("seed", "", "load demo users and courses from a YAML file and exit")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	cfg.ForceMigrate = *migrate || *migrateOnly || *seedFile != ""
	cfg.MigrateOnly = *migrateOnly

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	if *migrateOnly {
		logger.Log.Info("Migration finished, exiting")
		return
	}

	if *seedFile != "" {
		fixture, err := seed.Load(*seedFile)
		if err != nil {
			logger.Log.Fatal("Failed to read seed file", zap.String("file", *seedFile), zap.Error(err))
		}
		if _, err := seed.Apply(application.DB, fixture, time.Now()); err != nil {
			logger.Log.Fatal("Failed to apply seed data", zap.Error(err))
		}
		return
	}

	application.Run()
}
