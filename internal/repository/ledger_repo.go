package repository

import (
	"time"

	"inventory-ledger/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LedgerRepository writes commits and entries. Entries are append-only: there
// is no update or delete.
type LedgerRepository interface {
	CreateCommit(tx *gorm.DB, commit *model.LedgerCommit) error
	FindCommitByKey(tx *gorm.DB, key string) (*model.LedgerCommit, error)
	AppendEntries(tx *gorm.DB, entries []model.LedgerEntry) error
	EntriesByCommit(tx *gorm.DB, commitID uuid.UUID) ([]model.LedgerEntry, error)
	ListEntries(filter EntryFilter) ([]model.LedgerEntry, error)
	GetStockMovement(startDate, endDate time.Time) ([]StockMovementData, error)
	GetValuation() ([]ItemValuation, error)
}

type EntryFilter struct {
	ItemID    string
	Reference string
	CommitID  *uuid.UUID
	Limit     int
}

// StockMovementData is one day of ledger movement for an item.
type StockMovementData struct {
	Date     string          `json:"date"`
	ItemID   string          `json:"item_id"`
	Unit     string          `json:"unit"`
	Inbound  decimal.Decimal `json:"inbound"`
	Outbound decimal.Decimal `json:"outbound"`
}

// ItemValuation is the remaining stock value of one item in one lot unit.
type ItemValuation struct {
	ItemID    string          `json:"item_id"`
	Unit      string          `json:"unit"`
	Remaining decimal.Decimal `json:"remaining"`
	Value     decimal.Decimal `json:"value"`
}

type ledgerRepo struct {
	db *gorm.DB
}

func NewLedgerRepo(db *gorm.DB) LedgerRepository {
	return &ledgerRepo{db}
}

func (r *ledgerRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *ledgerRepo) CreateCommit(tx *gorm.DB, commit *model.LedgerCommit) error {
	if commit.ID == uuid.Nil {
		commit.ID = uuid.New()
	}
	return r.conn(tx).Create(commit).Error
}

func (r *ledgerRepo) FindCommitByKey(tx *gorm.DB, key string) (*model.LedgerCommit, error) {
	var commit model.LedgerCommit
	err := r.conn(tx).First(&commit, "idempotency_key = ?", key).Error
	return &commit, err
}

func (r *ledgerRepo) AppendEntries(tx *gorm.DB, entries []model.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.conn(tx).Create(&entries).Error
}

func (r *ledgerRepo) EntriesByCommit(tx *gorm.DB, commitID uuid.UUID) ([]model.LedgerEntry, error) {
	var entries []model.LedgerEntry
	err := r.conn(tx).Where("commit_id = ?", commitID).Order("id ASC").Find(&entries).Error
	return entries, err
}

func (r *ledgerRepo) ListEntries(filter EntryFilter) ([]model.LedgerEntry, error) {
	var entries []model.LedgerEntry
	q := r.db.Model(&model.LedgerEntry{})
	if filter.ItemID != "" {
		q = q.Where("item_id = ?", filter.ItemID)
	}
	if filter.Reference != "" {
		q = q.Where("reference = ?", filter.Reference)
	}
	if filter.CommitID != nil {
		q = q.Where("commit_id = ?", *filter.CommitID)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	err := q.Order("id DESC").Find(&entries).Error
	return entries, err
}

func (r *ledgerRepo) GetStockMovement(startDate, endDate time.Time) ([]StockMovementData, error) {
	var results []StockMovementData

	rows, err := r.db.Model(&model.LedgerEntry{}).
		Select(`
			DATE(created_at) as date,
			item_id,
			unit,
			COALESCE(SUM(CASE WHEN delta > 0 THEN delta ELSE 0 END), 0) as inbound,
			COALESCE(SUM(CASE WHEN delta < 0 THEN -delta ELSE 0 END), 0) as outbound
		`).
		Where("created_at BETWEEN ? AND ?", startDate.UTC(), endDate.UTC()).
		Group("DATE(created_at), item_id, unit").
		Order("date ASC, item_id ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data StockMovementData
		if err := rows.Scan(&data.Date, &data.ItemID, &data.Unit, &data.Inbound, &data.Outbound); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, rows.Err()
}

func (r *ledgerRepo) GetValuation() ([]ItemValuation, error) {
	var results []ItemValuation

	rows, err := r.db.Model(&model.InventoryLot{}).
		Select(`
			item_id,
			unit,
			COALESCE(SUM(quantity_remaining), 0) as remaining,
			COALESCE(SUM(quantity_remaining * unit_cost), 0) as value
		`).
		Where("quantity_remaining > 0").
		Group("item_id, unit").
		Order("item_id ASC, unit ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var v ItemValuation
		if err := rows.Scan(&v.ItemID, &v.Unit, &v.Remaining, &v.Value); err != nil {
			return nil, err
		}
		results = append(results, v)
	}

	return results, rows.Err()
}
