package database

import (
	"github.com/Rakshi2609/Dr-Help-2/internal/config"
	"github.com/Rakshi2609/Dr-Help-2/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DB holds the database connection.
var DB *gorm.DB

// InitDB initializes the database connection and migrates the schema.
func InitDB(cfg *config.Config) error {
	var err error
	DB, err = gorm.Open(postgres.Open(cfg.PostgresURI), &gorm.Config{})
	if err != nil {
		return err
	}
	return Migrate(DB)
}

// Migrate creates or updates the tables for every model the application owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Account{},
		&models.DoctorProfile{},
		&models.PatientRecord{},
		&models.PainScore{},
		&models.Temperature{},
		&models.VitalsReading{},
		&models.Alert{},
	)
}
