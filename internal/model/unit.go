package model

import "github.com/shopspring/decimal"

type UnitType string

const (
	UnitWeight UnitType = "weight"
	UnitVolume UnitType = "volume"
	UnitCount  UnitType = "count"
	UnitLength UnitType = "length"
	UnitArea   UnitType = "area"
)

// Valid reports whether t is one of the known unit types.
func (t UnitType) Valid() bool {
	switch t {
	case UnitWeight, UnitVolume, UnitCount, UnitLength, UnitArea:
		return true
	}
	return false
}

// Unit is one entry of the unit catalog. Name is the identifier used by lots,
// recipes and mappings ("g", "cup", "scoop").
type Unit struct {
	BaseModel
	Name         string           `gorm:"type:varchar(50);uniqueIndex;not null" json:"name" validate:"required,max=50"`
	DisplayName  string           `gorm:"type:varchar(100)" json:"display_name"`
	Symbol       string           `gorm:"type:varchar(20)" json:"symbol"`
	Type         UnitType         `gorm:"type:varchar(10);not null" json:"type" validate:"required,oneof=weight volume count length area"`
	IsBase       bool             `gorm:"default:false" json:"is_base"`
	FactorToBase *decimal.Decimal `gorm:"type:numeric(38,18)" json:"factor_to_base,omitempty"`
	IsCustom     bool             `gorm:"default:false" json:"is_custom"`
}

// HasFactor reports whether the unit converts through its type's base unit.
func (u Unit) HasFactor() bool {
	return !u.IsCustom && u.FactorToBase != nil && u.FactorToBase.IsPositive()
}

// CustomUnitMapping bridges a custom unit to a known unit, optionally scoped
// to one item: 1 FromUnit = Multiplier ToUnit.
type CustomUnitMapping struct {
	BaseModel
	FromUnit   string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_mapping_scope" json:"from_unit" validate:"required"`
	ToUnit     string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_mapping_scope" json:"to_unit" validate:"required"`
	Multiplier decimal.Decimal `gorm:"type:numeric(38,18);not null" json:"multiplier" validate:"gt=0"`
	ItemID     *string         `gorm:"type:varchar(36);uniqueIndex:idx_mapping_scope" json:"item_id,omitempty"`
}

// Scoped reports whether the mapping only applies to a single item.
func (m CustomUnitMapping) Scoped() bool {
	return m.ItemID != nil && *m.ItemID != ""
}
