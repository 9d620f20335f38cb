package service

import (
	"sync"
	"testing"
	"time"

	"inventory-ledger/internal/config"
	"inventory-ledger/internal/model"
	"inventory-ledger/internal/repository"
	"inventory-ledger/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

type recordedEvent struct {
	Type    string
	Payload interface{}
}

type eventRecorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *eventRecorder) Publish(eventType string, payload interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{Type: eventType, Payload: payload})
}

func (r *eventRecorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type env struct {
	db      *gorm.DB
	units   repository.UnitRepository
	items   repository.ItemRepository
	lots    repository.LotRepository
	ledger  repository.LedgerRepository
	cfg     config.LedgerConfig
	coord   LedgerCoordinator
	checker AvailabilityChecker
	unitSvc UnitService
	itemSvc ItemService
	lotSvc  LotService
	events  *eventRecorder
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.OpenDB(t)
	_, err := repository.SeedUnits(db)
	require.NoError(t, err)

	e := &env{
		db:     db,
		units:  repository.NewUnitRepo(db),
		items:  repository.NewItemRepo(db),
		lots:   repository.NewLotRepo(db),
		ledger: repository.NewLedgerRepo(db),
		cfg: config.LedgerConfig{
			LockTimeout:  time.Second,
			MaxRetries:   2,
			RetryBackoff: time.Millisecond,
		},
		events: &eventRecorder{},
	}
	e.coord = NewLedgerCoordinator(db, e.units, e.items, e.lots, e.ledger, e.cfg, nil, nil, e.events)
	e.checker = NewAvailabilityChecker(db, e.units, e.items, e.lots, e.cfg, nil, nil)
	e.unitSvc = NewUnitService(e.units, e.items, e.lots, nil, nil)
	e.itemSvc = NewItemService(e.items, e.units, nil)
	e.lotSvc = NewLotService(e.lots, e.coord, e.cfg, nil, nil, e.events)
	return e
}

func (e *env) item(t *testing.T, sku string, density *decimal.Decimal) model.Item {
	t.Helper()
	item, err := e.itemSvc.CreateItem(ItemInput{SKU: sku, Name: sku, DefaultUnit: "g", Density: density}, "tester")
	require.NoError(t, err)
	return *item
}

// lot inserts a lot directly, the way a migration or fixture would.
func (e *env) lot(t *testing.T, itemID, qty, unit, cost string, received time.Time) model.InventoryLot {
	t.Helper()
	lot := model.InventoryLot{
		ItemID:            itemID,
		QuantityReceived:  dec(qty),
		QuantityRemaining: dec(qty),
		Unit:              unit,
		UnitCost:          dec(cost),
		ReceivedAt:        received,
		SourceType:        model.SourceRestock,
	}
	require.NoError(t, e.lots.CreateLot(nil, &lot))
	return lot
}

func (e *env) remaining(t *testing.T, lotID uint64) decimal.Decimal {
	t.Helper()
	lot, err := e.lots.GetLot(nil, lotID)
	require.NoError(t, err)
	return lot.QuantityRemaining
}

func (e *env) entryCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&model.LedgerEntry{}).Count(&n).Error)
	return n
}

func (e *env) commitCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&model.LedgerCommit{}).Count(&n).Error)
	return n
}

// standardConverter converts with the seeded catalog and the given mappings.
func standardConverter(t *testing.T, extra []model.Unit, mappings []model.CustomUnitMapping) *Converter {
	t.Helper()
	units, err := repository.StandardUnits()
	require.NoError(t, err)
	return NewConverter(NewCatalog(append(units, extra...), mappings))
}
