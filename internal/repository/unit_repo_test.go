package repository

import (
	"testing"

	"inventory-ledger/internal/model"
	"inventory-ledger/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardUnits(t *testing.T) {
	units, err := StandardUnits()
	require.NoError(t, err)
	assert.Len(t, units, 25)

	bases := map[model.UnitType]string{}
	for _, u := range units {
		assert.True(t, u.HasFactor(), u.Name)
		if u.IsBase {
			_, dup := bases[u.Type]
			assert.False(t, dup, "second base unit for %s", u.Type)
			bases[u.Type] = u.Name
		}
	}
	assert.Equal(t, map[model.UnitType]string{
		model.UnitWeight: "g",
		model.UnitVolume: "ml",
		model.UnitCount:  "count",
		model.UnitLength: "cm",
		model.UnitArea:   "sqcm",
	}, bases)
}

func TestSeedUnitsIsIdempotent(t *testing.T) {
	db := testutil.OpenDB(t)

	n, err := SeedUnits(db)
	require.NoError(t, err)
	assert.EqualValues(t, 25, n)

	n, err = SeedUnits(db)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	repo := NewUnitRepo(db)
	kg, err := repo.FindByName(nil, "kg")
	require.NoError(t, err)
	assert.Equal(t, model.UnitWeight, kg.Type)
	assert.True(t, kg.FactorToBase.Equal(decimal.NewFromInt(1000)))
}

func TestFindMappingsScope(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewUnitRepo(db)

	itemA, itemB := "11111111-1111-1111-1111-111111111111", "22222222-2222-2222-2222-222222222222"
	require.NoError(t, repo.CreateMapping(&model.CustomUnitMapping{FromUnit: "scoop", ToUnit: "g", Multiplier: decimal.NewFromInt(10)}))
	require.NoError(t, repo.CreateMapping(&model.CustomUnitMapping{FromUnit: "scoop", ToUnit: "g", Multiplier: decimal.NewFromInt(12), ItemID: &itemA}))
	require.NoError(t, repo.CreateMapping(&model.CustomUnitMapping{FromUnit: "scoop", ToUnit: "g", Multiplier: decimal.NewFromInt(14), ItemID: &itemB}))

	all, err := repo.FindMappings(nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	forA, err := repo.FindMappings(nil, itemA)
	require.NoError(t, err)
	require.Len(t, forA, 2)
	for _, m := range forA {
		if m.Scoped() {
			assert.Equal(t, itemA, *m.ItemID)
		}
	}
}

func TestDeleteMappingNotFound(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewUnitRepo(db)

	m := &model.CustomUnitMapping{FromUnit: "scoop", ToUnit: "g", Multiplier: decimal.NewFromInt(10)}
	require.NoError(t, repo.CreateMapping(m))
	require.NoError(t, repo.DeleteMapping(m.ID))

	err := repo.DeleteMapping(m.ID)
	assert.True(t, IsNotFound(err))
}
