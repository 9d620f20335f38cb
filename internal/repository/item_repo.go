package repository

import (
	"inventory-ledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ItemRepository interface {
	Create(item *model.Item) error
	FindAll() ([]model.Item, error)
	FindByID(tx *gorm.DB, id uuid.UUID) (*model.Item, error)
	FindBySKU(sku string) (*model.Item, error)
	// FindByIDs loads items keyed by id string. Missing ids are simply absent.
	FindByIDs(tx *gorm.DB, ids []string) (map[string]model.Item, error)
	Update(item *model.Item) error
}

type itemRepo struct {
	db *gorm.DB
}

func NewItemRepo(db *gorm.DB) ItemRepository {
	return &itemRepo{db}
}

func (r *itemRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *itemRepo) Create(item *model.Item) error {
	return r.db.Create(item).Error
}

func (r *itemRepo) FindAll() ([]model.Item, error) {
	var items []model.Item
	err := r.db.Order("name ASC").Find(&items).Error
	return items, err
}

func (r *itemRepo) FindByID(tx *gorm.DB, id uuid.UUID) (*model.Item, error) {
	var item model.Item
	err := r.conn(tx).First(&item, "id = ?", id).Error
	return &item, err
}

func (r *itemRepo) FindBySKU(sku string) (*model.Item, error) {
	var item model.Item
	err := r.db.First(&item, "sku = ?", sku).Error
	return &item, err
}

func (r *itemRepo) FindByIDs(tx *gorm.DB, ids []string) (map[string]model.Item, error) {
	out := make(map[string]model.Item, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	valid := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if parsed, err := uuid.Parse(id); err == nil {
			valid = append(valid, parsed)
		}
	}
	if len(valid) == 0 {
		return out, nil
	}
	var items []model.Item
	if err := r.conn(tx).Where("id IN ?", valid).Find(&items).Error; err != nil {
		return nil, err
	}
	for _, item := range items {
		out[item.ID.String()] = item
	}
	return out, nil
}

func (r *itemRepo) Update(item *model.Item) error {
	return r.db.Model(&model.Item{}).
		Where("id = ?", item.ID).
		Updates(map[string]interface{}{
			"name":         item.Name,
			"default_unit": item.DefaultUnit,
			"density":      item.Density,
			"updated_by":   item.UpdatedBy,
		}).Error
}
