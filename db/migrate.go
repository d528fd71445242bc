package db

import (
	"gorm.io/gorm"

	"github.com/meinhoongagan/home-services/models"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Service{},
		&models.ProviderProfile{},
		&models.Credential{},
		&models.Booking{},
		&models.Payment{},
		&models.Review{},
	)
}
