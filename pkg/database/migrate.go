package database

import (
	"inventory-ledger/internal/model"

	"gorm.io/gorm"
)

// Migrate creates or updates the ledger schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Unit{},
		&model.CustomUnitMapping{},
		&model.Item{},
		&model.InventoryLot{},
		&model.LedgerCommit{},
		&model.LedgerEntry{},
	)
}
