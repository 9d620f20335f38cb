package model

import "github.com/shopspring/decimal"

// Item is a stock-keeping ingredient or product. Density (g/ml) belongs to the
// item, never to a unit.
type Item struct {
	BaseModel
	SKU         string           `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku" validate:"required"`
	Name        string           `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	DefaultUnit string           `gorm:"type:varchar(50);not null" json:"default_unit" validate:"required"`
	Density     *decimal.Decimal `gorm:"type:numeric(38,18)" json:"density,omitempty"`
}

// IngredientContext is the conversion context carried into the engine.
type IngredientContext struct {
	ItemID      string
	Density     *decimal.Decimal
	DefaultUnit string
}

// Context returns the conversion context for this item.
func (i Item) Context() *IngredientContext {
	return &IngredientContext{
		ItemID:      i.ID.String(),
		Density:     i.Density,
		DefaultUnit: i.DefaultUnit,
	}
}
