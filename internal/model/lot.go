package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type SourceType string

const (
	SourceRestock          SourceType = "restock"
	SourceProductionOutput SourceType = "production_output"
	SourceAdjustment       SourceType = "manual_adjustment"
)

// InventoryLot is one cost-bearing receipt of stock. Only QuantityRemaining
// and Version change after creation.
type InventoryLot struct {
	ID                uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	ItemID            string          `gorm:"type:varchar(36);not null;index:idx_lot_fifo,priority:1" json:"item_id"`
	QuantityReceived  decimal.Decimal `gorm:"type:numeric(38,18);not null" json:"quantity_received"`
	QuantityRemaining decimal.Decimal `gorm:"type:numeric(38,18);not null" json:"quantity_remaining"`
	Unit              string          `gorm:"type:varchar(50);not null" json:"unit"`
	UnitCost          decimal.Decimal `gorm:"type:numeric(38,18);not null" json:"unit_cost"`
	ReceivedAt        time.Time       `gorm:"not null;index:idx_lot_fifo,priority:2" json:"received_at"`
	ExpiresAt         *time.Time      `json:"expires_at,omitempty"`
	SourceType        SourceType      `gorm:"type:varchar(30);not null" json:"source_type"`
	SourceRef         string          `gorm:"type:varchar(255)" json:"source_ref"`
	Version           int64           `gorm:"not null;default:1" json:"version"`
	CreatedBy         string          `json:"created_by"`
	CreatedAt         time.Time       `json:"created_at"`
}

func (InventoryLot) TableName() string {
	return "inventory_lots"
}
