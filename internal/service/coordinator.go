package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"inventory-ledger/internal/config"
	"inventory-ledger/internal/metrics"
	"inventory-ledger/internal/model"
	"inventory-ledger/internal/repository"
	"inventory-ledger/internal/ws"
	"inventory-ledger/pkg/database"
	"inventory-ledger/pkg/quantity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var tracer = otel.Tracer("inventory-ledger/service")

// CommitState is where a commit attempt stands.
type CommitState string

const (
	StatePlanning   CommitState = "planning"
	StateValidating CommitState = "validating"
	StateApplying   CommitState = "applying"
	StateCommitted  CommitState = "committed"
	StateAborted    CommitState = "aborted"
)

// EventPublisher receives committed ledger changes. *ws.Hub implements it.
type EventPublisher interface {
	Publish(eventType string, payload interface{})
}

// RestockRequest creates one lot.
type RestockRequest struct {
	ItemID     string           `json:"item_id" validate:"uuid_required"`
	Quantity   decimal.Decimal  `json:"quantity" validate:"gt=0"`
	Unit       string           `json:"unit" validate:"required"`
	UnitCost   decimal.Decimal  `json:"unit_cost" validate:"gte=0"`
	ReceivedAt *time.Time       `json:"received_at,omitempty"`
	ExpiresAt  *time.Time       `json:"expires_at,omitempty"`
	SourceType model.SourceType `json:"source_type,omitempty"`
	SourceRef  string           `json:"source_ref,omitempty"`
}

// CommitOptions describe the commit as a whole.
type CommitOptions struct {
	Reason         model.LedgerReason `json:"reason,omitempty"`
	Reference      string             `json:"reference,omitempty"`
	IdempotencyKey string             `json:"idempotency_key,omitempty"`
	Actor          string             `json:"-"`
}

// CommitRequest is planned and applied in one transaction.
type CommitRequest struct {
	CommitOptions
	Deductions []PlanRequest    `json:"deductions"`
	Restocks   []RestockRequest `json:"restocks"`
}

type LotDeduction struct {
	LotID          uint64          `json:"lot_id"`
	Amount         decimal.Decimal `json:"amount"`
	Unit           string          `json:"unit"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	Cost           decimal.Decimal `json:"cost"`
	RemainingAfter decimal.Decimal `json:"remaining_after"`
}

// ItemSummary is what one deduction line consumed.
type ItemSummary struct {
	ItemID   string          `json:"item_id"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit"`
	Lots     []LotDeduction  `json:"lots"`
	Cost     decimal.Decimal `json:"cost"`
}

type RestockSummary struct {
	ItemID   string          `json:"item_id"`
	LotID    uint64          `json:"lot_id"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit"`
	Cost     decimal.Decimal `json:"cost"`
}

type CommitResult struct {
	CommitID  uuid.UUID          `json:"commit_id"`
	State     CommitState        `json:"state"`
	Reason    model.LedgerReason `json:"reason"`
	Reference string             `json:"reference"`
	Items     []ItemSummary      `json:"items"`
	Restocks  []RestockSummary   `json:"restocks"`
	TotalCost decimal.Decimal    `json:"total_cost"`
	Entries   int                `json:"entries"`
	Replayed  bool               `json:"replayed"`
}

type LedgerCoordinator interface {
	// Commit plans every deduction under row locks and applies all of them
	// with the restocks, or nothing. Contention is retried with backoff.
	Commit(ctx context.Context, req CommitRequest) (*CommitResult, error)
	// CommitPlans applies plans computed earlier. A lot that changed since
	// planning fails the whole commit with a ContentionError.
	CommitPlans(ctx context.Context, plans []*DeductionPlan, restocks []RestockRequest, opts CommitOptions) (*CommitResult, error)
}

type ledgerCoordinator struct {
	db      *gorm.DB
	units   repository.UnitRepository
	items   repository.ItemRepository
	lots    repository.LotRepository
	ledger  repository.LedgerRepository
	cfg     config.LedgerConfig
	log     *zap.Logger
	metrics *metrics.Collector
	events  EventPublisher
	now     func() time.Time
}

func NewLedgerCoordinator(
	db *gorm.DB,
	units repository.UnitRepository,
	items repository.ItemRepository,
	lots repository.LotRepository,
	ledger repository.LedgerRepository,
	cfg config.LedgerConfig,
	log *zap.Logger,
	m *metrics.Collector,
	events EventPublisher,
) LedgerCoordinator {
	if log == nil {
		log = zap.NewNop()
	}
	return &ledgerCoordinator{
		db:      db,
		units:   units,
		items:   items,
		lots:    lots,
		ledger:  ledger,
		cfg:     cfg,
		log:     log.Named("ledger"),
		metrics: m,
		events:  events,
		now:     time.Now,
	}
}

func (c *ledgerCoordinator) cutoff() time.Time {
	return c.now().UTC().Add(c.cfg.ExpiryGrace)
}

func (c *ledgerCoordinator) Commit(ctx context.Context, req CommitRequest) (*CommitResult, error) {
	if err := validateCommitRequest(&req); err != nil {
		return nil, err
	}
	ctx, span := tracer.Start(ctx, "ledger.Commit", trace.WithAttributes(
		attribute.String("ledger.reference", req.Reference),
		attribute.String("ledger.reason", string(req.Reason)),
		attribute.Int("ledger.deductions", len(req.Deductions)),
		attribute.Int("ledger.restocks", len(req.Restocks)),
	))
	defer span.End()

	res, err := retryContention(ctx, c.cfg, c.log, c.metrics, "commit", func() (*CommitResult, error) {
		return c.commitOnce(ctx, req)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(KindOf(err)))
		return nil, err
	}
	span.SetAttributes(attribute.String("ledger.commit_id", res.CommitID.String()), attribute.Bool("ledger.replayed", res.Replayed))
	return res, nil
}

func (c *ledgerCoordinator) commitOnce(ctx context.Context, req CommitRequest) (*CommitResult, error) {
	start := time.Now()
	var result *CommitResult
	state := StatePlanning

	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := c.setLockTimeout(tx); err != nil {
			return err
		}
		replay, err := c.replay(tx, req.IdempotencyKey)
		if err != nil || replay != nil {
			result = replay
			return err
		}

		c.log.Debug("commit planning", zap.String("reference", req.Reference))
		itemIDs := make([]string, 0, len(req.Deductions)+len(req.Restocks))
		deductItems := make([]string, 0, len(req.Deductions))
		for _, d := range req.Deductions {
			itemIDs = append(itemIDs, d.ItemID)
			deductItems = append(deductItems, d.ItemID)
		}
		for _, r := range req.Restocks {
			itemIDs = append(itemIDs, r.ItemID)
		}
		snap, err := loadSnapshot(tx, c.units, c.items, distinctSorted(itemIDs))
		if err != nil {
			return err
		}
		for _, d := range req.Deductions {
			if err := snap.requireUnit(d.Unit); err != nil {
				return err
			}
		}
		for _, r := range req.Restocks {
			if err := snap.requireStockUnit(r.ItemID, r.Unit); err != nil {
				return err
			}
		}

		// ascending item id so two multi-item commits cannot deadlock
		cutoff := c.cutoff()
		lotsByItem := make(map[string][]model.InventoryLot)
		for _, id := range distinctSorted(deductItems) {
			lots, err := c.lots.LockItemLots(tx, id, cutoff)
			if err != nil {
				return fmt.Errorf("lock lots for item %s: %w", id, err)
			}
			lotsByItem[id] = lots
		}

		overlay := Reservations{}
		plans := make([]*DeductionPlan, 0, len(req.Deductions))
		for _, d := range req.Deductions {
			plans = append(plans, PlanDeduction(d, lotsByItem[d.ItemID], snap.conv, snap.context(d.ItemID), overlay))
		}

		state = StateValidating
		c.log.Debug("commit validating", zap.Int("plans", len(plans)))
		if err := validatePlans(plans); err != nil {
			return err
		}

		state = StateApplying
		c.log.Debug("commit applying", zap.Int("plans", len(plans)), zap.Int("restocks", len(req.Restocks)))
		result, err = c.apply(tx, plans, req.Restocks, req.CommitOptions)
		return err
	})

	return c.finish(ctx, "commit", state, start, result, err)
}

func (c *ledgerCoordinator) CommitPlans(ctx context.Context, plans []*DeductionPlan, restocks []RestockRequest, opts CommitOptions) (*CommitResult, error) {
	if len(plans) == 0 && len(restocks) == 0 {
		return nil, invalid("plans", "nothing to commit")
	}
	for _, p := range plans {
		if p == nil {
			return nil, invalid("plans", "nil plan")
		}
	}
	if err := normalizeOptions(&opts, len(plans) > 0); err != nil {
		return nil, err
	}
	for i := range restocks {
		if err := validateRestock(&restocks[i]); err != nil {
			return nil, err
		}
	}

	ctx, span := tracer.Start(ctx, "ledger.CommitPlans", trace.WithAttributes(
		attribute.String("ledger.reference", opts.Reference),
		attribute.Int("ledger.plans", len(plans)),
	))
	defer span.End()

	start := time.Now()
	var result *CommitResult
	state := StateValidating
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := c.setLockTimeout(tx); err != nil {
			return err
		}
		replay, err := c.replay(tx, opts.IdempotencyKey)
		if err != nil || replay != nil {
			result = replay
			return err
		}
		if err := validatePlans(plans); err != nil {
			return err
		}
		if len(restocks) > 0 {
			ids := make([]string, 0, len(restocks))
			for _, r := range restocks {
				ids = append(ids, r.ItemID)
			}
			snap, err := loadSnapshot(tx, c.units, c.items, distinctSorted(ids))
			if err != nil {
				return err
			}
			for _, r := range restocks {
				if err := snap.requireStockUnit(r.ItemID, r.Unit); err != nil {
					return err
				}
			}
		}
		state = StateApplying
		result, err = c.apply(tx, plans, restocks, opts)
		return err
	})

	res, err := c.finish(ctx, "commit plans", state, start, result, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(KindOf(err)))
	}
	return res, err
}

// apply writes the commit row, every lot change and one entry per change.
func (c *ledgerCoordinator) apply(tx *gorm.DB, plans []*DeductionPlan, restocks []RestockRequest, opts CommitOptions) (*CommitResult, error) {
	commit := &model.LedgerCommit{
		Reference: opts.Reference,
		Reason:    opts.Reason,
		State:     string(StateCommitted),
		CreatedBy: opts.Actor,
	}
	if opts.IdempotencyKey != "" {
		key := opts.IdempotencyKey
		commit.IdempotencyKey = &key
	}
	if err := c.ledger.CreateCommit(tx, commit); err != nil {
		return nil, fmt.Errorf("create commit: %w", err)
	}

	result := &CommitResult{
		CommitID:  commit.ID,
		State:     StateCommitted,
		Reason:    commit.Reason,
		Reference: commit.Reference,
		Items:     make([]ItemSummary, len(plans)),
		Restocks:  make([]RestockSummary, 0, len(restocks)),
		TotalCost: decimal.Zero,
	}
	entries := make([]model.LedgerEntry, 0)
	deductReason := deductionReason(opts.Reason)

	order := make([]int, len(plans))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return plans[order[a]].ItemID < plans[order[b]].ItemID })

	versions := make(map[uint64]int64)
	for _, i := range order {
		p := plans[i]
		summary := ItemSummary{
			ItemID:   p.ItemID,
			Quantity: p.RequestedQuantity,
			Unit:     p.RequestedUnit,
			Lots:     make([]LotDeduction, 0, len(p.Lines)),
			Cost:     decimal.Zero,
		}
		for _, line := range p.Lines {
			if !quantity.IsPositive(line.Amount) {
				continue
			}
			expected := line.LotVersion
			if v, ok := versions[line.LotID]; ok {
				expected = v
			}
			lot, err := c.lots.ApplyDeduction(tx, line.LotID, line.Amount, expected)
			if err != nil {
				return nil, deductionError(line.LotID, err)
			}
			if lot.ItemID != p.ItemID {
				return nil, invalid("lot_id", "lot %d does not belong to item %s", line.LotID, p.ItemID)
			}
			versions[line.LotID] = lot.Version

			cost := line.Amount.Mul(lot.UnitCost)
			lotID := line.LotID
			entries = append(entries, model.LedgerEntry{
				CommitID:   commit.ID,
				ItemID:     p.ItemID,
				LotID:      &lotID,
				Delta:      line.Amount.Neg(),
				Unit:       lot.Unit,
				Reason:     deductReason,
				Reference:  opts.Reference,
				CostImpact: cost.Neg(),
				CreatedBy:  opts.Actor,
			})
			summary.Lots = append(summary.Lots, LotDeduction{
				LotID:          line.LotID,
				Amount:         line.Amount,
				Unit:           lot.Unit,
				UnitCost:       lot.UnitCost,
				Cost:           cost,
				RemainingAfter: lot.QuantityRemaining,
			})
			summary.Cost = summary.Cost.Add(cost)
		}
		result.Items[i] = summary
		result.TotalCost = result.TotalCost.Add(summary.Cost)
	}

	now := c.now().UTC()
	for _, r := range restocks {
		receivedAt := now
		if r.ReceivedAt != nil {
			receivedAt = r.ReceivedAt.UTC()
		}
		lot := &model.InventoryLot{
			ItemID:            r.ItemID,
			QuantityReceived:  r.Quantity,
			QuantityRemaining: r.Quantity,
			Unit:              r.Unit,
			UnitCost:          r.UnitCost,
			ReceivedAt:        receivedAt,
			ExpiresAt:         r.ExpiresAt,
			SourceType:        r.SourceType,
			SourceRef:         r.SourceRef,
			CreatedBy:         opts.Actor,
		}
		if err := c.lots.CreateLot(tx, lot); err != nil {
			return nil, fmt.Errorf("create lot for item %s: %w", r.ItemID, err)
		}
		cost := r.Quantity.Mul(r.UnitCost)
		lotID := lot.ID
		entries = append(entries, model.LedgerEntry{
			CommitID:   commit.ID,
			ItemID:     r.ItemID,
			LotID:      &lotID,
			Delta:      r.Quantity,
			Unit:       r.Unit,
			Reason:     restockReason(r.SourceType),
			Reference:  opts.Reference,
			CostImpact: cost,
			CreatedBy:  opts.Actor,
		})
		result.Restocks = append(result.Restocks, RestockSummary{
			ItemID:   r.ItemID,
			LotID:    lot.ID,
			Quantity: r.Quantity,
			Unit:     r.Unit,
			Cost:     cost,
		})
	}

	if err := c.ledger.AppendEntries(tx, entries); err != nil {
		return nil, fmt.Errorf("append ledger entries: %w", err)
	}
	result.Entries = len(entries)
	return result, nil
}

// replay returns the stored result for a commit that already used key.
func (c *ledgerCoordinator) replay(tx *gorm.DB, key string) (*CommitResult, error) {
	if key == "" {
		return nil, nil
	}
	commit, err := c.ledger.FindCommitByKey(tx, key)
	if repository.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find commit %q: %w", key, err)
	}
	entries, err := c.ledger.EntriesByCommit(tx, commit.ID)
	if err != nil {
		return nil, fmt.Errorf("load commit entries: %w", err)
	}
	return resultFromEntries(commit, entries), nil
}

func resultFromEntries(commit *model.LedgerCommit, entries []model.LedgerEntry) *CommitResult {
	result := &CommitResult{
		CommitID:  commit.ID,
		State:     CommitState(commit.State),
		Reason:    commit.Reason,
		Reference: commit.Reference,
		Items:     []ItemSummary{},
		Restocks:  []RestockSummary{},
		TotalCost: decimal.Zero,
		Entries:   len(entries),
		Replayed:  true,
	}
	byItem := make(map[string]int)
	for _, e := range entries {
		var lotID uint64
		if e.LotID != nil {
			lotID = *e.LotID
		}
		if e.Delta.IsPositive() {
			result.Restocks = append(result.Restocks, RestockSummary{
				ItemID: e.ItemID, LotID: lotID, Quantity: e.Delta, Unit: e.Unit, Cost: e.CostImpact,
			})
			continue
		}
		idx, ok := byItem[e.ItemID]
		if !ok {
			idx = len(result.Items)
			byItem[e.ItemID] = idx
			result.Items = append(result.Items, ItemSummary{ItemID: e.ItemID, Unit: e.Unit, Quantity: decimal.Zero, Cost: decimal.Zero})
		}
		s := &result.Items[idx]
		amount := e.Delta.Neg()
		cost := e.CostImpact.Neg()
		s.Lots = append(s.Lots, LotDeduction{LotID: lotID, Amount: amount, Unit: e.Unit, Cost: cost})
		if s.Unit == e.Unit {
			s.Quantity = s.Quantity.Add(amount)
		}
		s.Cost = s.Cost.Add(cost)
		result.TotalCost = result.TotalCost.Add(cost)
	}
	return result
}

// finish classifies err, records metrics and logs, and publishes the event.
func (c *ledgerCoordinator) finish(ctx context.Context, op string, state CommitState, start time.Time, result *CommitResult, err error) (*CommitResult, error) {
	err = classify(ctx, op, err)
	elapsed := time.Since(start)
	if err != nil {
		c.metrics.ObserveCommit(string(KindOf(err)), elapsed)
		fields := []zap.Field{zap.String("op", op), zap.String("state", string(state)), zap.String("kind", string(KindOf(err))), zap.Error(err)}
		if KindOf(err) == KindInternal {
			c.log.Error("commit failed", fields...)
		} else {
			c.log.Info("commit aborted", append(fields, zap.String("final_state", string(StateAborted)))...)
		}
		return nil, err
	}
	if result.Replayed {
		c.metrics.ObserveCommit("replayed", elapsed)
		c.log.Info("commit replayed", zap.String("commit_id", result.CommitID.String()), zap.String("reference", result.Reference))
		return result, nil
	}

	c.metrics.ObserveCommit(string(StateCommitted), elapsed)
	c.metrics.AddEntries(string(result.Reason), result.Entries)
	items := make([]string, 0, len(result.Items)+len(result.Restocks))
	for _, s := range result.Items {
		items = append(items, s.ItemID)
	}
	for _, r := range result.Restocks {
		items = append(items, r.ItemID)
	}
	c.log.Info("commit applied",
		zap.String("commit_id", result.CommitID.String()),
		zap.String("reference", result.Reference),
		zap.String("reason", string(result.Reason)),
		zap.Strings("items", distinctSorted(items)),
		zap.Int("entries", result.Entries),
		zap.String("total_cost", result.TotalCost.String()),
		zap.Duration("elapsed", elapsed),
	)
	if c.events != nil {
		c.events.Publish(ws.EventLedgerCommitted, result)
	}
	return result, nil
}

func (c *ledgerCoordinator) setLockTimeout(tx *gorm.DB) error {
	if !database.IsPostgres(tx) || c.cfg.LockTimeout <= 0 {
		return nil
	}
	stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", c.cfg.LockTimeout.Milliseconds())
	if err := tx.Exec(stmt).Error; err != nil {
		return fmt.Errorf("set lock timeout: %w", err)
	}
	return nil
}

// classify maps storage errors onto the domain error kinds.
func classify(ctx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}
	var de DomainError
	if errors.As(err, &de) {
		return err
	}
	if ctx.Err() != nil {
		return fmt.Errorf("%s: outcome unknown, re-read the ledger: %w", op, err)
	}
	if repository.IsContention(err) || repository.IsDuplicate(err) {
		return &ContentionError{Op: op, Err: err}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func deductionError(lotID uint64, err error) error {
	switch {
	case repository.IsNotFound(err):
		return invalid("lot_id", "lot %d not found", lotID)
	case errors.Is(err, repository.ErrExceedsRemaining):
		return invalid("amount", "%v", err)
	case repository.IsContention(err):
		return &ContentionError{Op: fmt.Sprintf("deduct lot %d", lotID), Err: err}
	}
	return fmt.Errorf("deduct lot %d: %w", lotID, err)
}

// validatePlans fails on the first plan with a conversion error, otherwise
// reports every short item at once.
func validatePlans(plans []*DeductionPlan) error {
	var shortages []Shortage
	for _, p := range plans {
		if p.Err != nil {
			return p.Err
		}
		if !p.Feasible {
			shortages = append(shortages, p.Shortage())
		}
	}
	if len(shortages) > 0 {
		return &InsufficientStockError{Shortages: shortages}
	}
	return nil
}

// retryContention runs fn until it succeeds, fails with a non-contention
// error, runs out of retries, or ctx is done.
func retryContention(ctx context.Context, cfg config.LedgerConfig, log *zap.Logger, m *metrics.Collector, op string, fn func() (*CommitResult, error)) (*CommitResult, error) {
	var lastErr error
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			m.IncRetry()
			log.Warn("contention, retrying", zap.String("op", op), zap.Int("attempt", attempt), zap.Error(lastErr))
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%s: outcome unknown, re-read the ledger: %w", op, ctx.Err())
			case <-time.After(cfg.RetryBackoff * time.Duration(attempt)):
			}
		}
		res, err := fn()
		if err == nil || !Retryable(err) {
			return res, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func validateCommitRequest(req *CommitRequest) error {
	if len(req.Deductions) == 0 && len(req.Restocks) == 0 {
		return invalid("deductions", "commit has no deductions or restocks")
	}
	for i := range req.Deductions {
		if err := validatePlanRequest(&req.Deductions[i]); err != nil {
			return err
		}
	}
	for i := range req.Restocks {
		if err := validateRestock(&req.Restocks[i]); err != nil {
			return err
		}
	}
	return normalizeOptions(&req.CommitOptions, len(req.Deductions) > 0)
}

func validatePlanRequest(req *PlanRequest) error {
	if err := validateInput(req); err != nil {
		return err
	}
	if req.Quantity.IsNegative() {
		return invalid("quantity", "must not be negative, got %s", req.Quantity)
	}
	req.ItemID = canonicalID(req.ItemID)
	return nil
}

func validateRestock(r *RestockRequest) error {
	if err := validateInput(r); err != nil {
		return err
	}
	r.ItemID = canonicalID(r.ItemID)
	if r.SourceType == "" {
		r.SourceType = model.SourceRestock
	}
	switch r.SourceType {
	case model.SourceRestock, model.SourceProductionOutput, model.SourceAdjustment:
	default:
		return invalid("source_type", "unknown source type %q", r.SourceType)
	}
	if r.ExpiresAt != nil && r.ReceivedAt != nil && !r.ExpiresAt.After(*r.ReceivedAt) {
		return invalid("expires_at", "must be after received_at")
	}
	return nil
}

func normalizeOptions(opts *CommitOptions, hasDeductions bool) error {
	if opts.Reason == "" {
		if hasDeductions {
			opts.Reason = model.ReasonBatchDeduction
		} else {
			opts.Reason = model.ReasonRestock
		}
	}
	if !opts.Reason.Valid() {
		return invalid("reason", "unknown reason %q", opts.Reason)
	}
	if opts.Actor == "" {
		opts.Actor = "system"
	}
	return nil
}

// canonicalID lower-cases a validated uuid so map lookups and mapping scopes match.
func canonicalID(id string) string {
	if parsed, err := uuid.Parse(id); err == nil {
		return parsed.String()
	}
	return id
}

func deductionReason(r model.LedgerReason) model.LedgerReason {
	switch r {
	case model.ReasonSpoilage, model.ReasonManualAdjustment, model.ReasonBatchDeduction:
		return r
	}
	return model.ReasonBatchDeduction
}

func restockReason(s model.SourceType) model.LedgerReason {
	switch s {
	case model.SourceProductionOutput:
		return model.ReasonBatchOutput
	case model.SourceAdjustment:
		return model.ReasonManualAdjustment
	}
	return model.ReasonRestock
}
