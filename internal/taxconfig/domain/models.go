// Package domain contains tax configuration models for a property.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/lodgeops/lodgeops/internal/folio/engine"
)

// TaxSetting is a property-scoped tax policy. Rates are percentages.
// Inclusive flags mark rates already embedded in quoted amounts; the
// applicable category lists gate which charge categories attract each
// rate.
type TaxSetting struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	PropertyID snowflake.ID `gorm:"column:property_id;not null;index" json:"property_id"`

	VATRate                decimal.Decimal `gorm:"column:vat_rate;type:numeric(6,3);not null" json:"vat_rate"`
	ServiceChargeRate      decimal.Decimal `gorm:"column:service_charge_rate;type:numeric(6,3);not null" json:"service_charge_rate"`
	TaxInclusive           bool            `gorm:"column:tax_inclusive;not null;default:false" json:"tax_inclusive"`
	ServiceChargeInclusive bool            `gorm:"column:service_charge_inclusive;not null;default:false" json:"service_charge_inclusive"`

	VATCategories     datatypes.JSONSlice[string] `gorm:"column:vat_categories;type:jsonb;not null;default:'[]'" json:"vat_categories"`
	ServiceCategories datatypes.JSONSlice[string] `gorm:"column:service_categories;type:jsonb;not null;default:'[]'" json:"service_categories"`

	IsEnabled bool `gorm:"column:is_enabled;not null;default:true" json:"is_enabled"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (TaxSetting) TableName() string { return "tax_settings" }

// Validate rejects settings that the engine would have to clamp.
func (t *TaxSetting) Validate() error {
	if t.PropertyID == 0 {
		return ErrInvalidProperty
	}
	if outOfRange(t.VATRate) || outOfRange(t.ServiceChargeRate) {
		return ErrInvalidRate
	}
	for _, cat := range append(append([]string{}, t.VATCategories...), t.ServiceCategories...) {
		if !knownCategory(cat) {
			return ErrInvalidCategory
		}
	}
	return nil
}

// EngineConfig converts the stored setting into the value type the
// folio engine consumes.
func (t *TaxSetting) EngineConfig() engine.TaxConfig {
	return engine.TaxConfig{
		VATRate:                t.VATRate,
		ServiceChargeRate:      t.ServiceChargeRate,
		TaxInclusive:           t.TaxInclusive,
		ServiceChargeInclusive: t.ServiceChargeInclusive,
		VATCategories:          toCategorySet(t.VATCategories),
		ServiceCategories:      toCategorySet(t.ServiceCategories),
	}
}

func toCategorySet(categories []string) map[engine.Category]bool {
	set := make(map[engine.Category]bool, len(categories))
	for _, cat := range categories {
		set[engine.Category(cat)] = true
	}
	return set
}

func outOfRange(rate decimal.Decimal) bool {
	return rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100))
}

func knownCategory(value string) bool {
	for _, cat := range engine.Categories {
		if string(cat) == value {
			return true
		}
	}
	return false
}
