package service

import (
	"fmt"

	"inventory-ledger/internal/model"
	"inventory-ledger/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ItemInput is the writable part of an item.
type ItemInput struct {
	SKU         string           `json:"sku" validate:"required,max=50"`
	Name        string           `json:"name" validate:"required,max=255"`
	DefaultUnit string           `json:"default_unit" validate:"required"`
	Density     *decimal.Decimal `json:"density,omitempty"`
}

type ItemService interface {
	CreateItem(req ItemInput, actor string) (*model.Item, error)
	UpdateItem(id uuid.UUID, req ItemInput, actor string) (*model.Item, error)
	GetItem(id uuid.UUID) (*model.Item, error)
	ListItems() ([]model.Item, error)
}

type itemService struct {
	itemRepo repository.ItemRepository
	unitRepo repository.UnitRepository
	log      *zap.Logger
}

func NewItemService(itemRepo repository.ItemRepository, unitRepo repository.UnitRepository, log *zap.Logger) ItemService {
	if log == nil {
		log = zap.NewNop()
	}
	return &itemService{itemRepo: itemRepo, unitRepo: unitRepo, log: log.Named("items")}
}

func (s *itemService) check(req ItemInput) error {
	if err := validateInput(req); err != nil {
		return err
	}
	if req.Density != nil && !req.Density.IsPositive() {
		return invalid("density", "must be greater than zero")
	}
	if _, err := s.unitRepo.FindByName(nil, req.DefaultUnit); err != nil {
		if repository.IsNotFound(err) {
			return invalid("default_unit", "unknown unit %q", req.DefaultUnit)
		}
		return err
	}
	return nil
}

func (s *itemService) CreateItem(req ItemInput, actor string) (*model.Item, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	existing, err := s.itemRepo.FindBySKU(req.SKU)
	if err == nil && existing.ID != uuid.Nil {
		return nil, invalid("sku", "SKU %s already exists", req.SKU)
	}
	if err != nil && !repository.IsNotFound(err) {
		return nil, err
	}

	item := &model.Item{
		SKU:         req.SKU,
		Name:        req.Name,
		DefaultUnit: req.DefaultUnit,
		Density:     req.Density,
	}
	item.CreatedBy = actor
	item.UpdatedBy = actor
	if err := s.itemRepo.Create(item); err != nil {
		if repository.IsDuplicate(err) {
			return nil, invalid("sku", "SKU %s already exists", req.SKU)
		}
		return nil, fmt.Errorf("create item: %w", err)
	}
	s.log.Info("item created", zap.String("item_id", item.ID.String()), zap.String("sku", item.SKU))
	return item, nil
}

// UpdateItem changes name, default unit and density. The SKU is fixed at
// creation. The next conversion
// reads the new density because catalogs are loaded per request.
func (s *itemService) UpdateItem(id uuid.UUID, req ItemInput, actor string) (*model.Item, error) {
	item, err := s.itemRepo.FindByID(nil, id)
	if repository.IsNotFound(err) {
		return nil, invalid("id", "item %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	switch req.SKU {
	case "":
		req.SKU = item.SKU
	case item.SKU:
	default:
		return nil, invalid("sku", "SKU cannot be changed (is %s)", item.SKU)
	}
	if err := s.check(req); err != nil {
		return nil, err
	}

	item.Name = req.Name
	item.DefaultUnit = req.DefaultUnit
	item.Density = req.Density
	item.UpdatedBy = actor
	if err := s.itemRepo.Update(item); err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	s.log.Info("item updated", zap.String("item_id", item.ID.String()), zap.Bool("has_density", item.Density != nil))
	return item, nil
}

func (s *itemService) GetItem(id uuid.UUID) (*model.Item, error) {
	item, err := s.itemRepo.FindByID(nil, id)
	if repository.IsNotFound(err) {
		return nil, invalid("id", "item %s not found", id)
	}
	return item, err
}

func (s *itemService) ListItems() ([]model.Item, error) {
	return s.itemRepo.FindAll()
}
