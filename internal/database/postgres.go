package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/xterics/xterics/backend/api/internal/models"
	"github.com/xterics/xterics/backend/api/pkg/logger"
)

// ConnectPostgres opens a GORM handle over the given DSN and verifies the
// connection with a ping. The handle is created once at startup and passed to
// repositories explicitly; Close must be called on shutdown to drain the pool.
func ConnectPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("postgres pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return db, nil
}

// Close drains the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Migrate runs AutoMigrate for each model individually so a failure on one
// table does not block the others.
func Migrate(db *gorm.DB) {
	for _, m := range []interface{}{
		&models.User{},
		&models.Service{},
		&models.Order{},
		&models.CustomOrder{},
		&models.PortfolioProject{},
		&models.PortfolioImage{},
	} {
		if err := db.AutoMigrate(m); err != nil {
			logger.Warnf("migration warning (%T): %v", m, err)
		}
	}
}

// SeedServices inserts a starter catalog when the services table is empty.
func SeedServices(db *gorm.DB) {
	var count int64
	db.Model(&models.Service{}).Count(&count)
	if count > 0 {
		return
	}
	seed := []models.Service{
		{Name: "Logo Design", Description: "Custom logo with three concepts and unlimited revisions", Price: 15000, Category: "logo", Features: `["3 concepts","Vector files","Unlimited revisions"]`, IsActive: true},
		{Name: "Brand Identity", Description: "Full brand kit: logo, palette, typography and guidelines", Price: 45000, Category: "branding", Features: `["Logo","Color palette","Brand guidelines"]`, IsActive: true},
		{Name: "Social Media Pack", Description: "Ten post templates sized for all major platforms", Price: 20000, Category: "social-media", Features: `["10 templates","Editable sources"]`, IsActive: true},
	}
	for _, s := range seed {
		if err := db.Create(&s).Error; err != nil {
			logger.Warnf("seed service %q failed: %v", s.Name, err)
		}
	}
	logger.Infof("seeded %d catalog services", len(seed))
}
