package service

import (
	"testing"

	"inventory-ledger/internal/model"
	"inventory-ledger/internal/repository"
	"inventory-ledger/pkg/quantity"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const flourID = "aaaaaaaa-0000-0000-0000-000000000001"

func scoped(id string) *string { return &id }

func TestConvertDirect(t *testing.T) {
	conv := standardConverter(t, nil, nil)

	tests := []struct {
		qty, from, to, want string
	}{
		{"1", "kg", "g", "1000"},
		{"2", "lb", "oz", "32"},
		{"1", "cup", "tbsp", "16"},
		{"3", "tsp", "tbsp", "1"},
		{"1", "gallon", "quart", "4"},
		{"2", "dozen", "count", "24"},
		{"1", "ft", "inch", "12"},
		{"1", "sqm", "sqcm", "10000"},
		{"7", "g", "g", "7"},
	}
	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			out, err := conv.Convert(dec(tt.qty), tt.from, tt.to, nil)
			require.NoError(t, err)
			assert.Equal(t, ConversionDirect, out.Kind)
			assert.True(t, quantity.Equal(out.Quantity, dec(tt.want)), "got %s", out.Quantity)
		})
	}
}

func TestConvertRoundTrip(t *testing.T) {
	conv := standardConverter(t, nil, nil)
	units, err := repository.StandardUnits()
	require.NoError(t, err)

	x := dec("123.456789")
	for _, a := range units {
		for _, b := range units {
			if a.Type != b.Type {
				continue
			}
			there, err := conv.Convert(x, a.Name, b.Name, nil)
			require.NoError(t, err)
			back, err := conv.Convert(there.Quantity, b.Name, a.Name, nil)
			require.NoError(t, err)
			assert.True(t, quantity.Equal(back.Quantity, x), "%s -> %s -> %s gave %s", a.Name, b.Name, a.Name, back.Quantity)
		}
	}
}

func TestConvertDensityGating(t *testing.T) {
	conv := standardConverter(t, nil, nil)

	_, err := conv.Convert(dec("1"), "cup", "g", &model.IngredientContext{ItemID: flourID})
	var md *MissingDensityError
	require.ErrorAs(t, err, &md)
	assert.Equal(t, flourID, md.ItemID)
	assert.Equal(t, KindMissingDensity, KindOf(err))

	_, err = conv.Convert(dec("1"), "g", "ml", nil)
	assert.Equal(t, KindMissingDensity, KindOf(err))

	ing := &model.IngredientContext{ItemID: flourID, Density: decPtr("0.5")}
	out, err := conv.Convert(dec("1"), "cup", "g", ing)
	require.NoError(t, err)
	assert.Equal(t, ConversionDensity, out.Kind)
	assert.True(t, quantity.Equal(out.Quantity, dec("118.29411825")), "got %s", out.Quantity)

	back, err := conv.Convert(out.Quantity, "g", "cup", ing)
	require.NoError(t, err)
	assert.True(t, quantity.Equal(back.Quantity, dec("1")))

	kg, err := conv.Convert(dec("2"), "l", "kg", &model.IngredientContext{Density: decPtr("1.03")})
	require.NoError(t, err)
	assert.True(t, quantity.Equal(kg.Quantity, dec("2.06")))
}

func TestConvertIncompatibleTypes(t *testing.T) {
	conv := standardConverter(t, nil, nil)
	ing := &model.IngredientContext{Density: decPtr("1")}

	for _, pair := range [][2]string{{"count", "g"}, {"dozen", "ml"}, {"cm", "g"}, {"sqm", "l"}} {
		_, err := conv.Convert(dec("1"), pair[0], pair[1], ing)
		assert.Equal(t, KindUnresolvableConversion, KindOf(err), "%s -> %s", pair[0], pair[1])
	}

	_, err := conv.Convert(dec("1"), "bushel", "g", nil)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestConvertCustomMappings(t *testing.T) {
	scoop := model.Unit{Name: "scoop", Type: model.UnitVolume, IsCustom: true}
	bag := model.Unit{Name: "bag", Type: model.UnitVolume, IsCustom: true}
	pinch := model.Unit{Name: "pinch", Type: model.UnitWeight, IsCustom: true}
	mappings := []model.CustomUnitMapping{
		{FromUnit: "scoop", ToUnit: "g", Multiplier: dec("10")},
		{FromUnit: "scoop", ToUnit: "g", Multiplier: dec("12"), ItemID: scoped(flourID)},
		{FromUnit: "bag", ToUnit: "scoop", Multiplier: dec("5")},
		{FromUnit: "cup", ToUnit: "g", Multiplier: dec("120"), ItemID: scoped(flourID)},
	}
	conv := standardConverter(t, []model.Unit{scoop, bag, pinch}, mappings)
	flour := &model.IngredientContext{ItemID: flourID, Density: decPtr("0.5")}
	other := &model.IngredientContext{ItemID: "bbbbbbbb-0000-0000-0000-000000000002"}

	tests := []struct {
		name     string
		qty      string
		from, to string
		ing      *model.IngredientContext
		want     string
		kind     ConversionKind
	}{
		{"global forward", "3", "scoop", "g", other, "30", ConversionCustom},
		{"scoped wins", "3", "scoop", "g", flour, "36", ConversionCustom},
		{"forward then ratio", "100", "scoop", "kg", nil, "1", ConversionCustom},
		{"reverse", "50", "g", "scoop", nil, "5", ConversionCustom},
		{"ratio then reverse", "0.5", "kg", "scoop", nil, "50", ConversionCustom},
		{"custom to custom chain", "2", "bag", "g", nil, "100", ConversionCustom},
		{"chain reversed", "100", "g", "bag", nil, "2", ConversionCustom},
		{"scoped mapping beats density", "2", "cup", "g", flour, "240", ConversionCustom},
		{"other item falls back to density", "1", "cup", "g", &model.IngredientContext{Density: decPtr("1")}, "236.5882365", ConversionDensity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := conv.Convert(dec(tt.qty), tt.from, tt.to, tt.ing)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, out.Kind)
			assert.True(t, quantity.Equal(out.Quantity, dec(tt.want)), "got %s", out.Quantity)
		})
	}
}

func TestConvertCustomFailures(t *testing.T) {
	scoop := model.Unit{Name: "scoop", Type: model.UnitVolume, IsCustom: true}
	orphan := model.Unit{Name: "handful", Type: model.UnitWeight, IsCustom: true}
	conv := standardConverter(t, []model.Unit{scoop, orphan}, []model.CustomUnitMapping{
		{FromUnit: "scoop", ToUnit: "g", Multiplier: dec("10")},
	})

	_, err := conv.Convert(dec("1"), "handful", "g", nil)
	var mm *MissingCustomMappingError
	require.ErrorAs(t, err, &mm)
	assert.Equal(t, "handful", mm.Unit)

	_, err = conv.Convert(dec("1"), "g", "handful", nil)
	assert.Equal(t, KindMissingCustomMapping, KindOf(err))

	// scoop reaches cup only through grams, which needs a density
	_, err = conv.Convert(dec("1"), "scoop", "cup", &model.IngredientContext{ItemID: flourID})
	assert.Equal(t, KindMissingDensity, KindOf(err))

	out, err := conv.Convert(dec("1"), "scoop", "cup", &model.IngredientContext{ItemID: flourID, Density: decPtr("1")})
	require.NoError(t, err)
	assert.Equal(t, ConversionCustom, out.Kind)
	assert.True(t, quantity.Equal(out.Quantity, decimal.NewFromInt(10).DivRound(dec("236.5882365"), 24)))
}

func TestConvertCustomCountNeverCrossesTypes(t *testing.T) {
	box := model.Unit{Name: "box", Type: model.UnitCount, IsCustom: true}
	conv := standardConverter(t, []model.Unit{box}, []model.CustomUnitMapping{
		{FromUnit: "box", ToUnit: "count", Multiplier: dec("12")},
		// a stale row that predates the creation-time rules
		{FromUnit: "box", ToUnit: "g", Multiplier: dec("500")},
	})
	ing := &model.IngredientContext{ItemID: flourID, Density: decPtr("1")}

	for _, pair := range [][2]string{{"box", "g"}, {"g", "box"}, {"box", "cup"}, {"ml", "box"}} {
		_, err := conv.Convert(dec("1"), pair[0], pair[1], ing)
		var ue *UnresolvableConversionError
		require.ErrorAs(t, err, &ue, "%s -> %s", pair[0], pair[1])
		assert.Equal(t, KindUnresolvableConversion, KindOf(err))
	}

	out, err := conv.Convert(dec("2"), "box", "count", ing)
	require.NoError(t, err)
	assert.Equal(t, ConversionCustom, out.Kind)
	assert.True(t, out.Quantity.Equal(dec("24")))
}

func TestCatalogScopesMappings(t *testing.T) {
	c := NewCatalog(nil, []model.CustomUnitMapping{
		{FromUnit: "a", ToUnit: "g", ItemID: scoped("x")},
		{FromUnit: "b", ToUnit: "g"},
		{FromUnit: "c", ToUnit: "g", ItemID: scoped("y")},
	})
	got := c.applicable("x")
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].FromUnit)
	assert.Equal(t, "b", got[1].FromUnit)
	assert.Len(t, c.applicable(""), 1)
}
