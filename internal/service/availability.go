package service

import (
	"context"
	"fmt"
	"time"

	"inventory-ledger/internal/config"
	"inventory-ledger/internal/metrics"
	"inventory-ledger/internal/model"
	"inventory-ledger/internal/repository"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AvailabilityResult answers one request line.
type AvailabilityResult struct {
	ItemID      string          `json:"item_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	Satisfiable bool            `json:"satisfiable"`
	Available   decimal.Decimal `json:"available"`
	Shortfall   decimal.Decimal `json:"shortfall"`
	Cost        decimal.Decimal `json:"cost"`
	ErrorKind   ErrorKind       `json:"error_kind,omitempty"`
	Message     string          `json:"message,omitempty"`
}

type AvailabilityChecker interface {
	// CheckAvailability never writes. Lines for the same item are evaluated
	// cumulatively in request order.
	CheckAvailability(ctx context.Context, reqs []PlanRequest) ([]AvailabilityResult, error)
	// Plan returns the dry-run plans for reqs, usable with CommitPlans.
	Plan(ctx context.Context, reqs []PlanRequest) ([]*DeductionPlan, error)
	Preview(ctx context.Context, req PlanRequest) (*DeductionPlan, error)
}

type availabilityChecker struct {
	db      *gorm.DB
	units   repository.UnitRepository
	items   repository.ItemRepository
	lots    repository.LotRepository
	cfg     config.LedgerConfig
	log     *zap.Logger
	metrics *metrics.Collector
	now     func() time.Time
}

func NewAvailabilityChecker(
	db *gorm.DB,
	units repository.UnitRepository,
	items repository.ItemRepository,
	lots repository.LotRepository,
	cfg config.LedgerConfig,
	log *zap.Logger,
	m *metrics.Collector,
) AvailabilityChecker {
	if log == nil {
		log = zap.NewNop()
	}
	return &availabilityChecker{
		db:      db,
		units:   units,
		items:   items,
		lots:    lots,
		cfg:     cfg,
		log:     log.Named("availability"),
		metrics: m,
		now:     time.Now,
	}
}

func (a *availabilityChecker) Plan(ctx context.Context, reqs []PlanRequest) ([]*DeductionPlan, error) {
	if len(reqs) == 0 {
		return nil, invalid("requests", "at least one request is required")
	}
	reqs = append([]PlanRequest(nil), reqs...)
	for i := range reqs {
		if err := validatePlanRequest(&reqs[i]); err != nil {
			return nil, err
		}
	}

	ctx, span := tracer.Start(ctx, "ledger.Plan", trace.WithAttributes(attribute.Int("ledger.requests", len(reqs))))
	defer span.End()

	var plans []*DeductionPlan
	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := make([]string, 0, len(reqs))
		for _, r := range reqs {
			ids = append(ids, r.ItemID)
		}
		ids = distinctSorted(ids)
		snap, err := loadSnapshot(tx, a.units, a.items, ids)
		if err != nil {
			return err
		}
		for _, r := range reqs {
			if err := snap.requireUnit(r.Unit); err != nil {
				return err
			}
		}
		cutoff := a.now().UTC().Add(a.cfg.ExpiryGrace)
		lotsByItem := make(map[string][]model.InventoryLot, len(ids))
		for _, id := range ids {
			lots, err := a.lots.ListConsumableLots(tx, id, cutoff)
			if err != nil {
				return fmt.Errorf("list lots for item %s: %w", id, err)
			}
			lotsByItem[id] = lots
		}
		overlay := Reservations{}
		plans = make([]*DeductionPlan, 0, len(reqs))
		for _, r := range reqs {
			plans = append(plans, PlanDeduction(r, lotsByItem[r.ItemID], snap.conv, snap.context(r.ItemID), overlay))
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(KindOf(err)))
		return nil, classify(ctx, "plan", err)
	}
	return plans, nil
}

func (a *availabilityChecker) CheckAvailability(ctx context.Context, reqs []PlanRequest) ([]AvailabilityResult, error) {
	plans, err := a.Plan(ctx, reqs)
	if err != nil {
		return nil, err
	}
	results := make([]AvailabilityResult, 0, len(plans))
	for _, p := range plans {
		res := AvailabilityResult{
			ItemID:      p.ItemID,
			Quantity:    p.RequestedQuantity,
			Unit:        p.RequestedUnit,
			Satisfiable: p.Feasible,
			Available:   p.Available,
			Shortfall:   p.Shortfall,
			Cost:        p.TotalCost,
		}
		if err := p.Error(); err != nil {
			res.ErrorKind = KindOf(err)
			res.Message = err.Error()
		}
		a.metrics.ObserveAvailability(res.Satisfiable)
		results = append(results, res)
	}
	a.log.Debug("availability checked", zap.Int("lines", len(results)))
	return results, nil
}

func (a *availabilityChecker) Preview(ctx context.Context, req PlanRequest) (*DeductionPlan, error) {
	plans, err := a.Plan(ctx, []PlanRequest{req})
	if err != nil {
		return nil, err
	}
	return plans[0], nil
}
