package service

import (
	"errors"
	"fmt"
	"sort"

	"inventory-ledger/internal/model"
	"inventory-ledger/internal/repository"
	"inventory-ledger/pkg/validator"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// snapshot is the catalog and item state read once per operation.
type snapshot struct {
	conv  *Converter
	items map[string]model.Item
}

// loadSnapshot reads the units, the mappings relevant to itemIDs, and the
// items themselves. An unknown item id is a ValidationError.
func loadSnapshot(tx *gorm.DB, units repository.UnitRepository, items repository.ItemRepository, itemIDs []string) (*snapshot, error) {
	found, err := items.FindByIDs(tx, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	for _, id := range itemIDs {
		if _, ok := found[id]; !ok {
			return nil, invalid("item_id", "unknown item %s", id)
		}
	}
	conv, err := loadConverter(tx, units, itemIDs)
	if err != nil {
		return nil, err
	}
	return &snapshot{conv: conv, items: found}, nil
}

func loadConverter(tx *gorm.DB, units repository.UnitRepository, itemIDs []string) (*Converter, error) {
	all, err := units.FindAll(tx)
	if err != nil {
		return nil, fmt.Errorf("load units: %w", err)
	}
	var mappings []model.CustomUnitMapping
	if len(itemIDs) > 0 {
		mappings, err = units.FindMappings(tx, itemIDs...)
	} else {
		mappings, err = units.FindMappings(tx, "")
	}
	if err != nil {
		return nil, fmt.Errorf("load unit mappings: %w", err)
	}
	return NewConverter(NewCatalog(all, mappings)), nil
}

func (s *snapshot) context(itemID string) *model.IngredientContext {
	item, ok := s.items[itemID]
	if !ok {
		return &model.IngredientContext{ItemID: itemID}
	}
	return item.Context()
}

func (s *snapshot) requireUnit(name string) error {
	if _, ok := s.conv.Catalog().Unit(name); !ok {
		return invalid("unit", "unknown unit %q", name)
	}
	return nil
}

// requireStockUnit is requireUnit for units that lots are held in.
func (s *snapshot) requireStockUnit(itemID, name string) error {
	return requireMapped(s.conv, name, s.context(itemID))
}

// requireMapped fails with MissingCustomMappingError when unit is custom and
// no mapping reaches the item's default unit. The base unit of the custom
// unit's type stands in when the default unit is custom or on the other
// side of the count boundary.
func requireMapped(conv *Converter, unit string, ing *model.IngredientContext) error {
	u, ok := conv.Catalog().Unit(unit)
	if !ok {
		return invalid("unit", "unknown unit %q", unit)
	}
	if !u.IsCustom {
		return nil
	}
	target := ""
	if ing != nil {
		target = ing.DefaultUnit
	}
	t, ok := conv.Catalog().Unit(target)
	if !ok || t.IsCustom || (t.Type == model.UnitCount) != (u.Type == model.UnitCount) {
		b, ok := conv.Catalog().base(u.Type)
		if !ok {
			return nil
		}
		target = b.Name
	}
	_, err := conv.Convert(decimal.NewFromInt(1), unit, target, ing)
	var missing *MissingCustomMappingError
	if errors.As(err, &missing) {
		return missing
	}
	return nil
}

// distinctSorted returns the unique ids in ascending order, the lock order.
func distinctSorted(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// validateInput turns the first struct validation failure into a ValidationError.
func validateInput(v interface{}) error {
	if errs := validator.ValidateStruct(v); len(errs) > 0 {
		first := errs[0]
		return &ValidationError{Field: first.FailedField, Message: fmt.Sprintf("failed on tag '%s'", first.Tag)}
	}
	return nil
}
