package database

import (
	"fmt"
	"log"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/krishisethu/pos-api/internal/config"
	"github.com/krishisethu/pos-api/internal/domain/entity"
)

// gormConfig is the configuration for every GORM connection. TranslateError
// must stay on: without it the postgres driver surfaces raw *pgconn.PgError
// values and a duplicate-key insert never matches gorm.ErrDuplicatedKey,
// which the offline replay relies on to recognize an already-synced sale.
func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Info),
		TranslateError: true,
	}
}

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		&entity.User{},

		&entity.Category{},
		&entity.Product{},

		&entity.Customer{},

		&entity.Sale{},
		&entity.SaleItem{},

		&entity.IdempotencyKey{},
		&entity.ShopSettings{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultData seeds the database with default data (admin user,
// fertilizer categories, shop settings).
func SeedDefaultData(db *gorm.DB) error {
	log.Println("Seeding default data...")

	// Default fertilizer categories with their GST rates
	defaultRate := func(r float64) *float64 { return &r }
	categories := []entity.Category{
		{Name: "Chemical Fertilizer", Slug: "chemical-fertilizer", DefaultGSTRate: defaultRate(5)},
		{Name: "Organic Fertilizer", Slug: "organic-fertilizer", DefaultGSTRate: defaultRate(5)},
		{Name: "Seeds", Slug: "seeds", DefaultGSTRate: defaultRate(0)},
		{Name: "Pesticide", Slug: "pesticide", DefaultGSTRate: defaultRate(18)},
		{Name: "Tools & Equipment", Slug: "tools-equipment", DefaultGSTRate: defaultRate(12)},
	}

	for i := range categories {
		var existing entity.Category
		if err := db.Where("slug = ?", categories[i].Slug).First(&existing).Error; err != nil {
			if err := db.Create(&categories[i]).Error; err != nil {
				log.Printf("Warning: failed to create category %s: %v", categories[i].Name, err)
			}
		}
	}

	// Create shop settings row if missing
	var settings entity.ShopSettings
	if err := db.First(&settings).Error; err != nil {
		settings = entity.ShopSettings{
			ShopName:          viper.GetString("SHOP_NAME"),
			GSTIN:             viper.GetString("SHOP_GSTIN"),
			StateCode:         viper.GetString("SHOP_STATE_CODE"),
			DefaultGSTRate:    5,
			LowStockThreshold: 10,
		}
		if settings.ShopName == "" {
			settings.ShopName = "KrishiSethu Fertilizers"
		}
		if err := db.Create(&settings).Error; err != nil {
			log.Printf("Warning: failed to create shop settings: %v", err)
		}
	}

	// Create admin user if configured via environment variables
	adminEmail := viper.GetString("ADMIN_EMAIL")
	adminPassword := viper.GetString("ADMIN_PASSWORD")
	adminName := viper.GetString("ADMIN_NAME")

	if adminEmail != "" && adminPassword != "" {
		var existingAdmin entity.User
		if err := db.Where("email = ?", adminEmail).First(&existingAdmin).Error; err != nil {
			hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
			if err != nil {
				log.Printf("Warning: failed to hash admin password: %v", err)
			} else {
				if adminName == "" {
					adminName = "Shop Admin"
				}
				adminUser := entity.User{
					Name:     adminName,
					Email:    adminEmail,
					Password: string(hashedPassword),
					Role:     entity.RoleAdmin,
				}
				if err := db.Create(&adminUser).Error; err != nil {
					log.Printf("Warning: failed to create admin user: %v", err)
				} else {
					log.Printf("Admin user created: %s", adminEmail)
				}
			}
		} else {
			log.Printf("Admin user already exists: %s", adminEmail)
		}
	}

	log.Println("Default data seeding completed")
	return nil
}
