package service

import (
	"context"
	"fmt"

	"inventory-ledger/internal/metrics"
	"inventory-ledger/internal/model"
	"inventory-ledger/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type CustomUnitInput struct {
	Name        string         `json:"name" validate:"required,max=50"`
	DisplayName string         `json:"display_name"`
	Symbol      string         `json:"symbol"`
	Type        model.UnitType `json:"type" validate:"required,oneof=weight volume count length area"`
}

type MappingInput struct {
	FromUnit   string          `json:"from_unit" validate:"required"`
	ToUnit     string          `json:"to_unit" validate:"required"`
	Multiplier decimal.Decimal `json:"multiplier" validate:"gt=0"`
	ItemID     string          `json:"item_id,omitempty"`
}

type ConvertRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
	From     string          `json:"from" validate:"required"`
	To       string          `json:"to" validate:"required"`
	ItemID   string          `json:"item_id,omitempty"`
}

type UnitService interface {
	ListUnits() ([]model.Unit, error)
	CreateCustomUnit(req CustomUnitInput, actor string) (*model.Unit, error)
	CreateMapping(req MappingInput, actor string) (*model.CustomUnitMapping, error)
	ListMappings(itemID string) ([]model.CustomUnitMapping, error)
	DeleteMapping(id uuid.UUID) error
	Convert(ctx context.Context, req ConvertRequest) (*Conversion, error)
}

type unitService struct {
	unitRepo repository.UnitRepository
	itemRepo repository.ItemRepository
	lotRepo  repository.LotRepository
	log      *zap.Logger
	metrics  *metrics.Collector
}

func NewUnitService(unitRepo repository.UnitRepository, itemRepo repository.ItemRepository, lotRepo repository.LotRepository, log *zap.Logger, m *metrics.Collector) UnitService {
	if log == nil {
		log = zap.NewNop()
	}
	return &unitService{unitRepo: unitRepo, itemRepo: itemRepo, lotRepo: lotRepo, log: log.Named("units"), metrics: m}
}

func (s *unitService) ListUnits() ([]model.Unit, error) {
	return s.unitRepo.FindAll(nil)
}

func (s *unitService) CreateCustomUnit(req CustomUnitInput, actor string) (*model.Unit, error) {
	if err := validateInput(req); err != nil {
		return nil, err
	}
	if _, err := s.unitRepo.FindByName(nil, req.Name); err == nil {
		return nil, invalid("name", "unit %q already exists", req.Name)
	} else if !repository.IsNotFound(err) {
		return nil, err
	}

	unit := &model.Unit{
		Name:        req.Name,
		DisplayName: req.DisplayName,
		Symbol:      req.Symbol,
		Type:        req.Type,
		IsCustom:    true,
	}
	if unit.DisplayName == "" {
		unit.DisplayName = req.Name
	}
	unit.CreatedBy = actor
	unit.UpdatedBy = actor
	if err := s.unitRepo.Create(unit); err != nil {
		if repository.IsDuplicate(err) {
			return nil, invalid("name", "unit %q already exists", req.Name)
		}
		return nil, fmt.Errorf("create unit: %w", err)
	}
	s.log.Info("custom unit created", zap.String("unit", unit.Name), zap.String("type", string(unit.Type)))
	return unit, nil
}

// CreateMapping enforces the mapping rules up front so that conversion never
// meets an invalid mapping.
func (s *unitService) CreateMapping(req MappingInput, actor string) (*model.CustomUnitMapping, error) {
	if err := validateInput(req); err != nil {
		return nil, err
	}
	if req.FromUnit == req.ToUnit {
		return nil, invalid("to_unit", "must differ from from_unit")
	}
	from, err := s.knownUnit("from_unit", req.FromUnit)
	if err != nil {
		return nil, err
	}
	to, err := s.knownUnit("to_unit", req.ToUnit)
	if err != nil {
		return nil, err
	}

	if (from.Type == model.UnitCount) != (to.Type == model.UnitCount) {
		return nil, invalid("to_unit", "count units only map to count units (%s is %s, %s is %s)", from.Name, from.Type, to.Name, to.Type)
	}
	if !from.IsCustom && !to.IsCustom {
		switch {
		case from.Type == to.Type:
			return nil, invalid("from_unit", "cannot override the standard conversion between %s and %s", from.Name, to.Name)
		case !crossesMassVolume(from.Type, to.Type):
			return nil, invalid("to_unit", "%s and %s units cannot be mapped", from.Type, to.Type)
		case req.ItemID == "":
			return nil, invalid("item_id", "a %s to %s mapping encodes a density and must be scoped to an item", from.Type, to.Type)
		}
	}

	mapping := &model.CustomUnitMapping{
		FromUnit:   from.Name,
		ToUnit:     to.Name,
		Multiplier: req.Multiplier,
	}
	if req.ItemID != "" {
		id, err := uuid.Parse(req.ItemID)
		if err != nil {
			return nil, invalid("item_id", "must be a uuid")
		}
		if _, err := s.itemRepo.FindByID(nil, id); err != nil {
			if repository.IsNotFound(err) {
				return nil, invalid("item_id", "unknown item %s", id)
			}
			return nil, err
		}
		scope := id.String()
		mapping.ItemID = &scope
	}
	mapping.CreatedBy = actor
	mapping.UpdatedBy = actor

	// the unique index treats NULL scopes as distinct, so globals are checked here
	existing, err := s.unitRepo.FindMappings(nil)
	if err != nil {
		return nil, fmt.Errorf("load mappings: %w", err)
	}
	for _, m := range existing {
		if m.FromUnit == mapping.FromUnit && m.ToUnit == mapping.ToUnit && scopeOf(m) == scopeOf(*mapping) {
			return nil, invalid("from_unit", "mapping %s to %s already exists for this scope", from.Name, to.Name)
		}
	}

	if err := s.unitRepo.CreateMapping(mapping); err != nil {
		if repository.IsDuplicate(err) {
			return nil, invalid("from_unit", "mapping %s to %s already exists for this scope", from.Name, to.Name)
		}
		return nil, fmt.Errorf("create mapping: %w", err)
	}
	s.log.Info("unit mapping created",
		zap.String("from", mapping.FromUnit),
		zap.String("to", mapping.ToUnit),
		zap.String("multiplier", mapping.Multiplier.String()),
		zap.Bool("scoped", mapping.Scoped()),
	)
	return mapping, nil
}

func scopeOf(m model.CustomUnitMapping) string {
	if m.Scoped() {
		return *m.ItemID
	}
	return ""
}

func (s *unitService) knownUnit(field, name string) (*model.Unit, error) {
	u, err := s.unitRepo.FindByName(nil, name)
	if repository.IsNotFound(err) {
		return nil, invalid(field, "unknown unit %q", name)
	}
	return u, err
}

func (s *unitService) ListMappings(itemID string) ([]model.CustomUnitMapping, error) {
	if itemID == "" {
		return s.unitRepo.FindMappings(nil)
	}
	return s.unitRepo.FindMappings(nil, canonicalID(itemID))
}

func (s *unitService) DeleteMapping(id uuid.UUID) error {
	mapping, err := s.unitRepo.FindMappingByID(id)
	if repository.IsNotFound(err) {
		return invalid("id", "mapping %s not found", id)
	}
	if err != nil {
		return err
	}
	if err := s.requireStillMapped(mapping); err != nil {
		return err
	}

	err = s.unitRepo.DeleteMapping(id)
	if repository.IsNotFound(err) {
		return invalid("id", "mapping %s not found", id)
	}
	if err != nil {
		return err
	}
	s.log.Info("unit mapping deleted", zap.String("from", mapping.FromUnit), zap.String("to", mapping.ToUnit))
	return nil
}

// requireStillMapped refuses to drop the last mapping that lets remaining
// lots held in a custom unit convert.
func (s *unitService) requireStillMapped(mapping *model.CustomUnitMapping) error {
	units, err := s.unitRepo.FindAll(nil)
	if err != nil {
		return fmt.Errorf("load units: %w", err)
	}
	all, err := s.unitRepo.FindMappings(nil)
	if err != nil {
		return fmt.Errorf("load mappings: %w", err)
	}
	rest := make([]model.CustomUnitMapping, 0, len(all))
	for _, m := range all {
		if m.ID != mapping.ID {
			rest = append(rest, m)
		}
	}
	conv := NewConverter(NewCatalog(units, rest))

	for _, name := range []string{mapping.FromUnit, mapping.ToUnit} {
		if u, ok := conv.Catalog().Unit(name); !ok || !u.IsCustom {
			continue
		}
		itemIDs, err := s.lotRepo.ItemsHoldingUnit(nil, name)
		if err != nil {
			return fmt.Errorf("find lots in %s: %w", name, err)
		}
		if len(itemIDs) == 0 {
			continue
		}
		items, err := s.itemRepo.FindByIDs(nil, itemIDs)
		if err != nil {
			return fmt.Errorf("load items: %w", err)
		}
		for _, itemID := range itemIDs {
			ing := &model.IngredientContext{ItemID: itemID}
			if item, ok := items[itemID]; ok {
				ing = item.Context()
			}
			if err := requireMapped(conv, name, ing); err != nil {
				return invalid("id", "item %s still holds stock in %s and no other mapping resolves it", itemID, name)
			}
		}
	}
	return nil
}

func (s *unitService) Convert(ctx context.Context, req ConvertRequest) (*Conversion, error) {
	if err := validateInput(req); err != nil {
		return nil, err
	}
	var ing *model.IngredientContext
	var scope []string
	if req.ItemID != "" {
		id, err := uuid.Parse(req.ItemID)
		if err != nil {
			return nil, invalid("item_id", "must be a uuid")
		}
		item, err := s.itemRepo.FindByID(nil, id)
		if repository.IsNotFound(err) {
			return nil, invalid("item_id", "unknown item %s", id)
		}
		if err != nil {
			return nil, err
		}
		ing = item.Context()
		scope = []string{ing.ItemID}
	}
	conv, err := loadConverter(nil, s.unitRepo, scope)
	if err != nil {
		return nil, err
	}
	out, err := conv.Convert(req.Quantity, req.From, req.To, ing)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveConversion(string(out.Kind))
	return &out, nil
}
