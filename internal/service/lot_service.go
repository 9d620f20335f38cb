package service

import (
	"context"

	"inventory-ledger/internal/config"
	"inventory-ledger/internal/metrics"
	"inventory-ledger/internal/model"
	"inventory-ledger/internal/repository"
	"inventory-ledger/internal/ws"
	"inventory-ledger/pkg/quantity"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AdjustRequest removes Amount (in the lot's unit) from a single lot.
type AdjustRequest struct {
	Amount         decimal.Decimal    `json:"amount" validate:"gt=0"`
	Reason         model.LedgerReason `json:"reason" validate:"required,oneof=spoilage manual-adjustment"`
	Reference      string             `json:"reference"`
	IdempotencyKey string             `json:"idempotency_key,omitempty"`
}

type LotService interface {
	// CreateLot records a restock as a one-lot commit.
	CreateLot(ctx context.Context, req RestockRequest, opts CommitOptions) (*CommitResult, error)
	// AdjustLot decrements one lot through a size-one plan.
	AdjustLot(ctx context.Context, lotID uint64, req AdjustRequest, actor string) (*CommitResult, error)
	GetLot(id uint64) (*model.InventoryLot, error)
	ListLots(itemID string, includeEmpty bool) ([]model.InventoryLot, error)
}

type lotService struct {
	lotRepo     repository.LotRepository
	coordinator LedgerCoordinator
	cfg         config.LedgerConfig
	log         *zap.Logger
	metrics     *metrics.Collector
	events      EventPublisher
}

func NewLotService(lotRepo repository.LotRepository, coordinator LedgerCoordinator, cfg config.LedgerConfig, log *zap.Logger, m *metrics.Collector, events EventPublisher) LotService {
	if log == nil {
		log = zap.NewNop()
	}
	return &lotService{
		lotRepo:     lotRepo,
		coordinator: coordinator,
		cfg:         cfg,
		log:         log.Named("lots"),
		metrics:     m,
		events:      events,
	}
}

func (s *lotService) CreateLot(ctx context.Context, req RestockRequest, opts CommitOptions) (*CommitResult, error) {
	if opts.Reason == "" {
		opts.Reason = restockReason(req.SourceType)
	}
	res, err := s.coordinator.Commit(ctx, CommitRequest{CommitOptions: opts, Restocks: []RestockRequest{req}})
	if err != nil {
		return nil, err
	}
	if s.events != nil && !res.Replayed && len(res.Restocks) == 1 {
		s.events.Publish(ws.EventLotCreated, res.Restocks[0])
	}
	return res, nil
}

func (s *lotService) AdjustLot(ctx context.Context, lotID uint64, req AdjustRequest, actor string) (*CommitResult, error) {
	if err := validateInput(req); err != nil {
		return nil, err
	}
	opts := CommitOptions{
		Reason:         req.Reason,
		Reference:      req.Reference,
		IdempotencyKey: req.IdempotencyKey,
		Actor:          actor,
	}

	res, err := retryContention(ctx, s.cfg, s.log, s.metrics, "adjust lot", func() (*CommitResult, error) {
		lot, err := s.lotRepo.GetLot(nil, lotID)
		if repository.IsNotFound(err) {
			return nil, invalid("lot_id", "lot %d not found", lotID)
		}
		if err != nil {
			return nil, err
		}
		amount := quantity.SnapTo(req.Amount, lot.QuantityRemaining)
		plan := &DeductionPlan{
			ItemID:            lot.ItemID,
			RequestedQuantity: req.Amount,
			RequestedUnit:     lot.Unit,
			Feasible:          true,
			Available:         req.Amount,
			Shortfall:         decimal.Zero,
			Lines:             []PlanLine{},
			UsableLots:        []uint64{lot.ID},
		}
		if !quantity.LessOrEqual(amount, lot.QuantityRemaining) {
			// reported by the coordinator unless the key replays an earlier commit
			plan.Feasible = false
			plan.Available = lot.QuantityRemaining
			plan.Shortfall = req.Amount.Sub(lot.QuantityRemaining)
		} else {
			amount = decimal.Min(amount, lot.QuantityRemaining)
			plan.TotalCost = amount.Mul(lot.UnitCost)
			plan.Lines = append(plan.Lines, PlanLine{
				LotID:      lot.ID,
				Amount:     amount,
				Unit:       lot.Unit,
				UnitCost:   lot.UnitCost,
				Cost:       plan.TotalCost,
				ReceivedAt: lot.ReceivedAt,
				LotVersion: lot.Version,
			})
		}
		return s.coordinator.CommitPlans(ctx, []*DeductionPlan{plan}, nil, opts)
	})
	if err != nil {
		return nil, err
	}
	if s.events != nil && !res.Replayed {
		s.events.Publish(ws.EventLotAdjusted, res)
	}
	return res, nil
}

func (s *lotService) GetLot(id uint64) (*model.InventoryLot, error) {
	lot, err := s.lotRepo.GetLot(nil, id)
	if repository.IsNotFound(err) {
		return nil, invalid("id", "lot %d not found", id)
	}
	return lot, err
}

func (s *lotService) ListLots(itemID string, includeEmpty bool) ([]model.InventoryLot, error) {
	return s.lotRepo.ListLots(canonicalID(itemID), includeEmpty)
}
