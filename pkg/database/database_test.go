package database

import (
	"testing"

	"inventory-ledger/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestConnectSQLiteAndMigrate(t *testing.T) {
	db, err := Connect(Options{Driver: "sqlite", SQLitePath: "file:database_test?mode=memory&cache=shared"})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	assert.False(t, IsPostgres(db))
	assert.True(t, db.Migrator().HasTable(&model.InventoryLot{}))
	assert.True(t, db.Migrator().HasTable(&model.LedgerEntry{}))
}

func TestIsPostgres(t *testing.T) {
	db := &gorm.DB{Config: &gorm.Config{Dialector: postgres.New(postgres.Config{DSN: "host=localhost"})}}
	assert.True(t, IsPostgres(db))
}
