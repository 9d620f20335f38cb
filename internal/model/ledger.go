package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type LedgerReason string

const (
	ReasonRestock          LedgerReason = "restock"
	ReasonBatchDeduction   LedgerReason = "batch-deduction"
	ReasonSpoilage         LedgerReason = "spoilage"
	ReasonManualAdjustment LedgerReason = "manual-adjustment"
	ReasonBatchOutput      LedgerReason = "batch-output"
)

// Valid reports whether r is a known reason code.
func (r LedgerReason) Valid() bool {
	switch r {
	case ReasonRestock, ReasonBatchDeduction, ReasonSpoilage, ReasonManualAdjustment, ReasonBatchOutput:
		return true
	}
	return false
}

// LedgerCommit groups the entries written by one coordinator commit.
type LedgerCommit struct {
	ID             uuid.UUID    `gorm:"type:uuid;primary_key" json:"id"`
	IdempotencyKey *string      `gorm:"type:varchar(255);uniqueIndex" json:"idempotency_key,omitempty"`
	Reference      string       `gorm:"type:varchar(255);index" json:"reference"`
	Reason         LedgerReason `gorm:"type:varchar(30);not null" json:"reason"`
	State          string       `gorm:"type:varchar(20);not null" json:"state"`
	CreatedBy      string       `json:"created_by"`
	CreatedAt      time.Time    `json:"created_at"`
}

// LedgerEntry is an append-only audit record of one quantity change.
type LedgerEntry struct {
	ID         uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	CommitID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"commit_id"`
	ItemID     string          `gorm:"type:varchar(36);not null;index" json:"item_id"`
	LotID      *uint64         `gorm:"index" json:"lot_id,omitempty"`
	Delta      decimal.Decimal `gorm:"type:numeric(38,18);not null" json:"delta"`
	Unit       string          `gorm:"type:varchar(50);not null" json:"unit"`
	Reason     LedgerReason    `gorm:"type:varchar(30);not null" json:"reason"`
	Reference  string          `gorm:"type:varchar(255);index" json:"reference"`
	CostImpact decimal.Decimal `gorm:"type:numeric(38,18);not null" json:"cost_impact"`
	CreatedBy  string          `json:"created_by"`
	CreatedAt  time.Time       `gorm:"index" json:"created_at"`
}
