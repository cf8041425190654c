// Command migrate runs the schema migration and catalog seed against the
// configured database and exits. Used by deploy jobs that disable
// DB_AUTO_MIGRATE on the api service itself.
package main

import (
	"os"

	"github.com/xterics/xterics/backend/api/internal/config"
	"github.com/xterics/xterics/backend/api/internal/database"
	"github.com/xterics/xterics/backend/api/pkg/logger"
)

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	if cfg.Database.DSN == "" {
		logger.Fatalf("DATABASE_URL is not set")
	}

	db, err := database.ConnectPostgres(cfg.Database.DSN)
	if err != nil {
		logger.Fatalf("failed to connect to Postgres: %v", err)
	}
	defer func() { _ = database.Close(db) }()

	database.Migrate(db)
	database.SeedServices(db)
	logger.Infof("migration complete")
}
