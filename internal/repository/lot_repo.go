package repository

import (
	"fmt"
	"time"

	"inventory-ledger/internal/model"
	"inventory-ledger/pkg/database"
	"inventory-ledger/pkg/quantity"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LotRepository is the only code path that writes inventory_lots.
type LotRepository interface {
	// ListConsumableLots returns the item's lots in FIFO order (received_at,
	// then id), skipping empty lots and lots expiring at or before cutoff.
	ListConsumableLots(tx *gorm.DB, itemID string, cutoff time.Time) ([]model.InventoryLot, error)
	// LockItemLots is ListConsumableLots under SELECT ... FOR UPDATE.
	LockItemLots(tx *gorm.DB, itemID string, cutoff time.Time) ([]model.InventoryLot, error)
	CreateLot(tx *gorm.DB, lot *model.InventoryLot) error
	// ApplyDeduction decrements a lot whose version is still expectedVersion
	// and returns the updated lot.
	ApplyDeduction(tx *gorm.DB, lotID uint64, amount decimal.Decimal, expectedVersion int64) (*model.InventoryLot, error)
	GetLot(tx *gorm.DB, id uint64) (*model.InventoryLot, error)
	ListLots(itemID string, includeEmpty bool) ([]model.InventoryLot, error)
	// ItemsHoldingUnit returns the ids of items with stock left in unit.
	ItemsHoldingUnit(tx *gorm.DB, unit string) ([]string, error)
}

type lotRepo struct {
	db *gorm.DB
}

func NewLotRepo(db *gorm.DB) LotRepository {
	return &lotRepo{db}
}

func (r *lotRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func consumable(db *gorm.DB, itemID string, cutoff time.Time) *gorm.DB {
	return db.Model(&model.InventoryLot{}).
		Where("item_id = ? AND quantity_remaining > 0", itemID).
		Where("expires_at IS NULL OR expires_at > ?", cutoff.UTC()).
		Order("received_at ASC, id ASC")
}

func (r *lotRepo) ListConsumableLots(tx *gorm.DB, itemID string, cutoff time.Time) ([]model.InventoryLot, error) {
	var lots []model.InventoryLot
	err := consumable(r.conn(tx), itemID, cutoff).Find(&lots).Error
	return lots, err
}

func (r *lotRepo) LockItemLots(tx *gorm.DB, itemID string, cutoff time.Time) ([]model.InventoryLot, error) {
	q := consumable(r.conn(tx), itemID, cutoff)
	// SQLite serializes writers on its own and has no row locks.
	if database.IsPostgres(q) {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var lots []model.InventoryLot
	err := q.Find(&lots).Error
	return lots, err
}

func (r *lotRepo) CreateLot(tx *gorm.DB, lot *model.InventoryLot) error {
	if lot.Version == 0 {
		lot.Version = 1
	}
	lot.ReceivedAt = lot.ReceivedAt.UTC()
	if lot.ExpiresAt != nil {
		exp := lot.ExpiresAt.UTC()
		lot.ExpiresAt = &exp
	}
	return r.conn(tx).Create(lot).Error
}

func (r *lotRepo) ApplyDeduction(tx *gorm.DB, lotID uint64, amount decimal.Decimal, expectedVersion int64) (*model.InventoryLot, error) {
	db := r.conn(tx)
	var lot model.InventoryLot
	if err := db.First(&lot, "id = ?", lotID).Error; err != nil {
		return nil, err
	}
	if lot.Version != expectedVersion {
		return nil, fmt.Errorf("lot %d at version %d, expected %d: %w", lotID, lot.Version, expectedVersion, ErrStaleLot)
	}
	if !quantity.LessOrEqual(amount, lot.QuantityRemaining) {
		return nil, fmt.Errorf("lot %d has %s, asked for %s: %w", lotID, lot.QuantityRemaining, amount, ErrExceedsRemaining)
	}
	remaining := quantity.Snap(lot.QuantityRemaining.Sub(amount))
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	res := db.Model(&model.InventoryLot{}).
		Where("id = ? AND version = ?", lotID, expectedVersion).
		Updates(map[string]interface{}{
			"quantity_remaining": remaining,
			"version":            gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("lot %d changed during update: %w", lotID, ErrStaleLot)
	}

	lot.QuantityRemaining = remaining
	lot.Version = expectedVersion + 1
	return &lot, nil
}

func (r *lotRepo) GetLot(tx *gorm.DB, id uint64) (*model.InventoryLot, error) {
	var lot model.InventoryLot
	err := r.conn(tx).First(&lot, "id = ?", id).Error
	return &lot, err
}

func (r *lotRepo) ListLots(itemID string, includeEmpty bool) ([]model.InventoryLot, error) {
	var lots []model.InventoryLot
	q := r.db.Where("item_id = ?", itemID)
	if !includeEmpty {
		q = q.Where("quantity_remaining > 0")
	}
	err := q.Order("received_at ASC, id ASC").Find(&lots).Error
	return lots, err
}

func (r *lotRepo) ItemsHoldingUnit(tx *gorm.DB, unit string) ([]string, error) {
	var ids []string
	err := r.conn(tx).Model(&model.InventoryLot{}).
		Where("unit = ? AND quantity_remaining > 0", unit).
		Distinct("item_id").
		Order("item_id ASC").
		Pluck("item_id", &ids).Error
	return ids, err
}
