package validator

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type restock struct {
	ItemID   string           `validate:"uuid_required"`
	Quantity decimal.Decimal  `validate:"gt=0"`
	UnitCost decimal.Decimal  `validate:"gte=0"`
	Density  *decimal.Decimal `validate:"omitempty,gt=0"`
}

func TestValidateStructAcceptsValidInput(t *testing.T) {
	density := decimal.RequireFromString("1.03")
	errs := ValidateStruct(&restock{
		ItemID:   uuid.NewString(),
		Quantity: decimal.NewFromInt(10),
		UnitCost: decimal.Zero,
		Density:  &density,
	})
	assert.Empty(t, errs)
}

func TestValidateStructReportsDecimalAndUUIDFailures(t *testing.T) {
	errs := ValidateStruct(&restock{
		ItemID:   "not-a-uuid",
		Quantity: decimal.NewFromInt(-1),
		UnitCost: decimal.NewFromInt(-2),
	})
	require.Len(t, errs, 3)

	tags := map[string]string{}
	for _, e := range errs {
		tags[e.FailedField] = e.Tag
	}
	assert.Equal(t, "uuid_required", tags["restock.ItemID"])
	assert.Equal(t, "gt", tags["restock.Quantity"])
	assert.Equal(t, "gte", tags["restock.UnitCost"])
}
