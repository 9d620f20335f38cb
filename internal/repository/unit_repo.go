package repository

import (
	_ "embed"
	"fmt"

	"inventory-ledger/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:embed units.yaml
var unitSeed []byte

type UnitRepository interface {
	FindAll(tx *gorm.DB) ([]model.Unit, error)
	FindByName(tx *gorm.DB, name string) (*model.Unit, error)
	Create(unit *model.Unit) error
	CreateMapping(mapping *model.CustomUnitMapping) error
	FindMappingByID(id uuid.UUID) (*model.CustomUnitMapping, error)
	// FindMappings returns global mappings plus those scoped to any of itemIDs.
	// With no itemIDs every mapping is returned.
	FindMappings(tx *gorm.DB, itemIDs ...string) ([]model.CustomUnitMapping, error)
	DeleteMapping(id uuid.UUID) error
}

type unitRepo struct {
	db *gorm.DB
}

func NewUnitRepo(db *gorm.DB) UnitRepository {
	return &unitRepo{db}
}

func (r *unitRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *unitRepo) FindAll(tx *gorm.DB) ([]model.Unit, error) {
	var units []model.Unit
	err := r.conn(tx).Order("type ASC, is_base DESC, name ASC").Find(&units).Error
	return units, err
}

func (r *unitRepo) FindByName(tx *gorm.DB, name string) (*model.Unit, error) {
	var unit model.Unit
	err := r.conn(tx).First(&unit, "name = ?", name).Error
	return &unit, err
}

func (r *unitRepo) Create(unit *model.Unit) error {
	return r.db.Create(unit).Error
}

func (r *unitRepo) CreateMapping(mapping *model.CustomUnitMapping) error {
	return r.db.Create(mapping).Error
}

func (r *unitRepo) FindMappingByID(id uuid.UUID) (*model.CustomUnitMapping, error) {
	var mapping model.CustomUnitMapping
	err := r.db.First(&mapping, "id = ?", id).Error
	return &mapping, err
}

func (r *unitRepo) FindMappings(tx *gorm.DB, itemIDs ...string) ([]model.CustomUnitMapping, error) {
	var mappings []model.CustomUnitMapping
	q := r.conn(tx).Order("created_at ASC")
	if len(itemIDs) > 0 {
		q = q.Where("item_id IS NULL OR item_id = '' OR item_id IN ?", itemIDs)
	}
	err := q.Find(&mappings).Error
	return mappings, err
}

func (r *unitRepo) DeleteMapping(id uuid.UUID) error {
	res := r.db.Delete(&model.CustomUnitMapping{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

type seedFile struct {
	Types []struct {
		Type  model.UnitType `yaml:"type"`
		Base  string         `yaml:"base"`
		Units []struct {
			Name    string `yaml:"name"`
			Display string `yaml:"display"`
			Symbol  string `yaml:"symbol"`
			Factor  string `yaml:"factor"`
		} `yaml:"units"`
	} `yaml:"types"`
}

// StandardUnits parses the embedded catalog.
func StandardUnits() ([]model.Unit, error) {
	var f seedFile
	if err := yaml.Unmarshal(unitSeed, &f); err != nil {
		return nil, fmt.Errorf("parse unit seed: %w", err)
	}
	var units []model.Unit
	for _, t := range f.Types {
		if !t.Type.Valid() {
			return nil, fmt.Errorf("unit seed: unknown type %q", t.Type)
		}
		bases := 0
		for _, u := range t.Units {
			factor, err := decimal.NewFromString(u.Factor)
			if err != nil || !factor.IsPositive() {
				return nil, fmt.Errorf("unit seed: bad factor %q for %s", u.Factor, u.Name)
			}
			isBase := u.Name == t.Base
			if isBase {
				bases++
				if !factor.Equal(decimal.NewFromInt(1)) {
					return nil, fmt.Errorf("unit seed: base unit %s must have factor 1", u.Name)
				}
			}
			units = append(units, model.Unit{
				Name:         u.Name,
				DisplayName:  u.Display,
				Symbol:       u.Symbol,
				Type:         t.Type,
				IsBase:       isBase,
				FactorToBase: &factor,
			})
		}
		if bases != 1 {
			return nil, fmt.Errorf("unit seed: type %s needs exactly one base unit, found %d", t.Type, bases)
		}
	}
	return units, nil
}

// SeedUnits inserts the standard catalog, leaving existing rows alone.
// It returns the number of units inserted.
func SeedUnits(db *gorm.DB) (int64, error) {
	units, err := StandardUnits()
	if err != nil {
		return 0, err
	}
	var inserted int64
	err = db.Transaction(func(tx *gorm.DB) error {
		for i := range units {
			u := units[i]
			u.CreatedBy = "system"
			u.UpdatedBy = "system"
			res := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "name"}},
				DoNothing: true,
			}).Create(&u)
			if res.Error != nil {
				return fmt.Errorf("seed unit %s: %w", u.Name, res.Error)
			}
			inserted += res.RowsAffected
		}
		return nil
	})
	return inserted, err
}
