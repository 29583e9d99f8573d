package database

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/propline/backoffice/internal/config"
	"github.com/propline/backoffice/internal/models"
)

var DB *gorm.DB

func Connect(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	DB = db

	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := models.EnsureEnum(db); err != nil {
		log.Fatal("failed to create enum:", err)
	}
	err := db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.UserRoleAssignment{},
		&models.RefreshToken{},
		&models.ContentType{},
		&models.ContentField{},
		&models.ContentEntry{},
		&models.BlogPost{},
		&models.Property{},
		&models.Lead{},
		&models.APIKey{},
		&models.APIKeyUsage{},
		&models.MediaFile{},
		&models.AuditEntry{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database: ", err)
	}
	log.Println("Database migrated successfully!")
	return nil
}
