package service

import (
	"context"
	"testing"

	"inventory-ledger/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardValuation(t *testing.T) {
	e := newEnv(t)
	dash := NewDashboardService(e.ledger)

	empty, err := dash.GetValuation()
	require.NoError(t, err)
	assert.Empty(t, empty.Items)
	assert.True(t, empty.Total.IsZero())

	sugar := e.item(t, "SUGAR", nil)
	butter := e.item(t, "BUTTER", nil)
	e.lot(t, sugar.ID.String(), "10", "g", "0.02", day(1))
	e.lot(t, butter.ID.String(), "2", "kg", "8", day(1))

	val, err := dash.GetValuation()
	require.NoError(t, err)
	assert.Len(t, val.Items, 2)
	assert.True(t, val.Total.Round(6).Equal(dec("16.2")), "total %s", val.Total)
}

func TestDashboardHistory(t *testing.T) {
	e := newEnv(t)
	dash := NewDashboardService(e.ledger)
	sugar := e.item(t, "SUGAR", nil)
	id := sugar.ID.String()

	_, err := e.lotSvc.CreateLot(context.Background(), RestockRequest{
		ItemID: id, Quantity: dec("10"), Unit: "g", UnitCost: dec("0.02"),
	}, CommitOptions{Reference: "PO-1"})
	require.NoError(t, err)
	_, err = e.coord.Commit(context.Background(), CommitRequest{
		CommitOptions: CommitOptions{Reference: "batch-1"},
		Deductions:    []PlanRequest{deduct(id, "4", "g")},
	})
	require.NoError(t, err)

	entries, err := dash.GetHistory(id, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, model.ReasonBatchDeduction, entries[0].Reason)
	assert.True(t, entries[0].Delta.Equal(dec("-4")))
	assert.Equal(t, model.ReasonRestock, entries[1].Reason)

	limited, err := dash.GetHistory(id, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	_, err = dash.GetStockMovement(0)
	require.NoError(t, err)
}
