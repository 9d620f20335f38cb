package service

import (
	"inventory-ledger/internal/model"

	"github.com/shopspring/decimal"
)

// ConversionKind tells which rule produced a conversion.
type ConversionKind string

const (
	ConversionDirect  ConversionKind = "direct"
	ConversionCustom  ConversionKind = "custom"
	ConversionDensity ConversionKind = "density"
)

// Conversion is a successful Convert result.
type Conversion struct {
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit"`
	Kind     ConversionKind  `json:"kind"`
}

// maxMappingHops bounds custom-to-custom chains.
const maxMappingHops = 2

// Catalog is an immutable snapshot of units and mappings. Build one per
// request so density and mapping edits are always seen.
type Catalog struct {
	units    map[string]model.Unit
	mappings []model.CustomUnitMapping
}

func NewCatalog(units []model.Unit, mappings []model.CustomUnitMapping) *Catalog {
	c := &Catalog{
		units:    make(map[string]model.Unit, len(units)),
		mappings: mappings,
	}
	for _, u := range units {
		c.units[u.Name] = u
	}
	return c
}

// Unit looks up a unit by name.
func (c *Catalog) Unit(name string) (model.Unit, bool) {
	u, ok := c.units[name]
	return u, ok
}

// base returns the standard base unit of t.
func (c *Catalog) base(t model.UnitType) (model.Unit, bool) {
	for _, u := range c.units {
		if u.Type == t && u.IsBase && !u.IsCustom {
			return u, true
		}
	}
	return model.Unit{}, false
}

// applicable returns the mappings usable for itemID, item-scoped first.
func (c *Catalog) applicable(itemID string) []model.CustomUnitMapping {
	scoped := make([]model.CustomUnitMapping, 0, len(c.mappings))
	var global []model.CustomUnitMapping
	for _, m := range c.mappings {
		switch {
		case !m.Scoped():
			global = append(global, m)
		case itemID != "" && *m.ItemID == itemID:
			scoped = append(scoped, m)
		}
	}
	return append(scoped, global...)
}

// Converter converts quantities against one catalog. It holds no other state.
type Converter struct {
	catalog *Catalog
}

func NewConverter(catalog *Catalog) *Converter {
	return &Converter{catalog: catalog}
}

func (c *Converter) Catalog() *Catalog {
	return c.catalog
}

// Convert converts qty from one unit to another. Rules are tried in order:
// identity, same-type ratio, custom mapping, density. ing may be nil.
func (c *Converter) Convert(qty decimal.Decimal, from, to string, ing *model.IngredientContext) (Conversion, error) {
	if from == to {
		return Conversion{Quantity: qty, Unit: to, Kind: ConversionDirect}, nil
	}
	fu, ok := c.catalog.Unit(from)
	if !ok {
		return Conversion{}, invalid("unit", "unknown unit %q", from)
	}
	tu, ok := c.catalog.Unit(to)
	if !ok {
		return Conversion{}, invalid("unit", "unknown unit %q", to)
	}

	if fu.Type == tu.Type && fu.HasFactor() && tu.HasFactor() {
		return Conversion{Quantity: ratio(qty, fu, tu), Unit: to, Kind: ConversionDirect}, nil
	}

	if (fu.Type == model.UnitCount) != (tu.Type == model.UnitCount) {
		return Conversion{}, &UnresolvableConversionError{
			FromUnit: from,
			ToUnit:   to,
			Reason:   string(fu.Type) + " and " + string(tu.Type) + " are incompatible",
		}
	}

	out, chainErr := c.viaMappings(qty, from, to, ing, maxMappingHops, map[int]bool{})
	if chainErr == nil {
		return Conversion{Quantity: out, Unit: to, Kind: ConversionCustom}, nil
	}

	if !fu.IsCustom && !tu.IsCustom {
		out, kind, err := c.standard(qty, from, to, ing)
		if err != nil {
			return Conversion{}, err
		}
		return Conversion{Quantity: out, Unit: to, Kind: kind}, nil
	}

	if _, ok := chainErr.(*MissingDensityError); ok {
		return Conversion{}, chainErr
	}
	custom := from
	if !fu.IsCustom {
		custom = to
	}
	return Conversion{}, &MissingCustomMappingError{Unit: custom, ItemID: itemIDOf(ing)}
}

// standard converts without custom mappings: identity, same-type ratio or
// density across weight and volume.
func (c *Converter) standard(qty decimal.Decimal, from, to string, ing *model.IngredientContext) (decimal.Decimal, ConversionKind, error) {
	if from == to {
		return qty, ConversionDirect, nil
	}
	fu, fok := c.catalog.Unit(from)
	tu, tok := c.catalog.Unit(to)
	if !fok || !tok || !fu.HasFactor() || !tu.HasFactor() {
		return decimal.Zero, "", &UnresolvableConversionError{FromUnit: from, ToUnit: to, Reason: "no standard factor"}
	}
	if fu.Type == tu.Type {
		return ratio(qty, fu, tu), ConversionDirect, nil
	}
	if !crossesMassVolume(fu.Type, tu.Type) {
		return decimal.Zero, "", &UnresolvableConversionError{
			FromUnit: from,
			ToUnit:   to,
			Reason:   string(fu.Type) + " and " + string(tu.Type) + " are incompatible",
		}
	}
	if ing == nil || ing.Density == nil || !ing.Density.IsPositive() {
		return decimal.Zero, "", &MissingDensityError{ItemID: itemIDOf(ing), FromUnit: from, ToUnit: to}
	}

	// density is g/ml
	base := qty.Mul(*fu.FactorToBase)
	if fu.Type == model.UnitWeight {
		base = div(base, *ing.Density)
	} else {
		base = base.Mul(*ing.Density)
	}
	return div(base, *tu.FactorToBase), ConversionDensity, nil
}

// viaMappings walks at most hops mappings, each optionally preceded and
// followed by a standard conversion. Single-mapping paths are tried before
// longer chains, and each mapping is used once per path.
func (c *Converter) viaMappings(qty decimal.Decimal, from, to string, ing *model.IngredientContext, hops int, used map[int]bool) (decimal.Decimal, error) {
	var firstErr error
	remember := func(err error) {
		if _, density := err.(*MissingDensityError); density {
			if _, already := firstErr.(*MissingDensityError); !already {
				firstErr = err
			}
			return
		}
		if firstErr == nil {
			firstErr = err
		}
	}

	type step struct {
		index int
		mid   decimal.Decimal
		dst   string
	}
	var deeper []step

	mappings := c.catalog.applicable(itemIDOf(ing))
	for i, m := range mappings {
		if used[i] || !m.Multiplier.IsPositive() {
			continue
		}
		for _, e := range []struct {
			src, dst string
			forward  bool
		}{{m.FromUnit, m.ToUnit, true}, {m.ToUnit, m.FromUnit, false}} {
			pre, _, err := c.standard(qty, from, e.src, ing)
			if err != nil {
				remember(err)
				continue
			}
			mid := pre.Mul(m.Multiplier)
			if !e.forward {
				mid = div(pre, m.Multiplier)
			}
			post, _, err := c.standard(mid, e.dst, to, ing)
			if err == nil {
				return post, nil
			}
			remember(err)
			deeper = append(deeper, step{index: i, mid: mid, dst: e.dst})
		}
	}

	if hops > 1 {
		for _, s := range deeper {
			used[s.index] = true
			out, err := c.viaMappings(s.mid, s.dst, to, ing, hops-1, used)
			used[s.index] = false
			if err == nil {
				return out, nil
			}
			remember(err)
		}
	}

	if firstErr == nil {
		firstErr = &UnresolvableConversionError{FromUnit: from, ToUnit: to, Reason: "no applicable mapping"}
	}
	return decimal.Zero, firstErr
}

func ratio(qty decimal.Decimal, from, to model.Unit) decimal.Decimal {
	return div(qty.Mul(*from.FactorToBase), *to.FactorToBase)
}

// divPlaces keeps quotients far below the comparison epsilon.
const divPlaces = 24

func div(a, b decimal.Decimal) decimal.Decimal {
	return a.DivRound(b, divPlaces)
}

func crossesMassVolume(a, b model.UnitType) bool {
	return (a == model.UnitWeight && b == model.UnitVolume) || (a == model.UnitVolume && b == model.UnitWeight)
}

func itemIDOf(ing *model.IngredientContext) string {
	if ing == nil {
		return ""
	}
	return ing.ItemID
}
