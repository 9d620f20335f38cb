package service

import (
	"time"

	"inventory-ledger/internal/model"
	"inventory-ledger/pkg/quantity"

	"github.com/shopspring/decimal"
)

// PlanRequest asks for a quantity of one item in any unit.
type PlanRequest struct {
	ItemID   string          `json:"item_id" validate:"uuid_required"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit" validate:"required"`
}

// PlanLine takes Amount (in the lot's unit) from one lot.
type PlanLine struct {
	LotID      uint64          `json:"lot_id"`
	Amount     decimal.Decimal `json:"amount"`
	Unit       string          `json:"unit"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	Cost       decimal.Decimal `json:"cost"`
	ReceivedAt time.Time       `json:"received_at"`
	LotVersion int64           `json:"lot_version"`
}

// DeductionPlan is the uncommitted result of planning one PlanRequest.
type DeductionPlan struct {
	ItemID            string          `json:"item_id"`
	RequestedQuantity decimal.Decimal `json:"requested_quantity"`
	RequestedUnit     string          `json:"requested_unit"`
	Lines             []PlanLine      `json:"lines"`
	Feasible          bool            `json:"feasible"`
	// Available and Shortfall are in the requested unit.
	Available  decimal.Decimal `json:"available"`
	Shortfall  decimal.Decimal `json:"shortfall"`
	TotalCost  decimal.Decimal `json:"total_cost"`
	UsableLots []uint64        `json:"usable_lots"`
	// Err is set when a lot could not be converted into.
	Err error `json:"-"`
}

// Error returns the failure that makes the plan unusable, or nil.
func (p *DeductionPlan) Error() error {
	if p.Err != nil {
		return p.Err
	}
	if !p.Feasible {
		return &InsufficientStockError{Shortages: []Shortage{p.Shortage()}}
	}
	return nil
}

func (p *DeductionPlan) Shortage() Shortage {
	return Shortage{
		ItemID:    p.ItemID,
		Requested: p.RequestedQuantity,
		Available: p.Available,
		Shortfall: p.Shortfall,
		Unit:      p.RequestedUnit,
	}
}

// Reservations tracks quantity already planned per lot within one request,
// so repeated items are evaluated cumulatively.
type Reservations map[uint64]decimal.Decimal

func (r Reservations) remaining(lot model.InventoryLot) decimal.Decimal {
	if r == nil {
		return lot.QuantityRemaining
	}
	return quantity.Snap(lot.QuantityRemaining.Sub(r[lot.ID]))
}

func (r Reservations) reserve(lines []PlanLine) {
	if r == nil {
		return
	}
	for _, l := range lines {
		r[l.LotID] = r[l.LotID].Add(l.Amount)
	}
}

// PlanDeduction walks lots (already in FIFO order) and takes from each until
// the request is covered. Nothing is written. Lines are reserved in overlay
// when it is non-nil.
func PlanDeduction(req PlanRequest, lots []model.InventoryLot, conv *Converter, ing *model.IngredientContext, overlay Reservations) *DeductionPlan {
	plan := &DeductionPlan{
		ItemID:            req.ItemID,
		RequestedQuantity: req.Quantity,
		RequestedUnit:     req.Unit,
		Lines:             []PlanLine{},
		UsableLots:        []uint64{},
		Available:         decimal.Zero,
		Shortfall:         decimal.Zero,
		TotalCost:         decimal.Zero,
	}
	if !quantity.IsPositive(req.Quantity) {
		plan.Feasible = true
		return plan
	}

	stillNeeded := req.Quantity
	for _, lot := range lots {
		if !quantity.IsPositive(stillNeeded) {
			break
		}
		remaining := overlay.remaining(lot)
		if !quantity.IsPositive(remaining) {
			continue
		}
		need, err := conv.Convert(stillNeeded, req.Unit, lot.Unit, ing)
		if err != nil {
			if plan.Err == nil {
				plan.Err = err
			}
			continue
		}
		plan.UsableLots = append(plan.UsableLots, lot.ID)

		take := quantity.SnapTo(need.Quantity, remaining)
		exhausts := take.GreaterThanOrEqual(remaining)
		if exhausts {
			take = remaining
		}
		cost := take.Mul(lot.UnitCost)
		plan.Lines = append(plan.Lines, PlanLine{
			LotID:      lot.ID,
			Amount:     take,
			Unit:       lot.Unit,
			UnitCost:   lot.UnitCost,
			Cost:       cost,
			ReceivedAt: lot.ReceivedAt,
			LotVersion: lot.Version,
		})
		plan.TotalCost = plan.TotalCost.Add(cost)

		if !exhausts {
			stillNeeded = decimal.Zero
			break
		}
		back, err := conv.Convert(take, lot.Unit, req.Unit, ing)
		if err != nil {
			// the forward direction worked, so this only fails on a broken catalog
			plan.Err = err
			break
		}
		stillNeeded = quantity.Snap(stillNeeded.Sub(back.Quantity))
		if stillNeeded.IsNegative() {
			stillNeeded = decimal.Zero
		}
	}

	plan.Shortfall = stillNeeded
	plan.Available = req.Quantity.Sub(stillNeeded)
	plan.Feasible = plan.Err == nil && !quantity.IsPositive(stillNeeded)
	if plan.Feasible {
		plan.Shortfall = decimal.Zero
		plan.Available = req.Quantity
	}
	overlay.reserve(plan.Lines)
	return plan
}
