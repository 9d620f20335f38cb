package testutil

import (
	"fmt"
	"strings"
	"testing"

	"inventory-ledger/pkg/database"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenDB returns a migrated private in-memory SQLite database for t.
func OpenDB(t testing.TB) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Connect(database.Options{
		Driver:     "sqlite",
		SQLitePath: fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", name),
		LogLevel:   logger.Silent,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}
