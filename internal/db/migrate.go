package db

import (
	"etfolio/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}

	return db.Gorm.AutoMigrate(
		&models.User{},
		&models.Etf{},
		&models.EtfTransaction{},
		&models.Asset{},
		&models.PortfolioSnapshot{},
		&models.EtfPrice{},
	)
}
