// Package domain contains service charge models.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/lodgeops/lodgeops/internal/folio/engine"
)

// ChargeStatus represents charge lifecycle states.
type ChargeStatus string

const (
	ChargeStatusPending   ChargeStatus = "pending"
	ChargeStatusPaid      ChargeStatus = "paid"
	ChargeStatusCancelled ChargeStatus = "cancelled"
)

// ServiceCharge is one billable line on a booking's folio.
//
// Amount is the full charged amount; BaseAmount, VATAmount and
// ServiceChargeAmount carry its tax split. Charges written before the
// split columns existed have all three at zero; the folio layer treats
// such rows as legacy and takes the whole amount as base. New charges
// always get their split computed at creation time, so an all-zero
// split never means "zero-rate config", it means "pre-migration row".
type ServiceCharge struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	PropertyID snowflake.ID `gorm:"column:property_id;not null;index" json:"property_id"`
	BookingID  snowflake.ID `gorm:"column:booking_id;not null;index" json:"booking_id"`

	Category engine.Category `gorm:"type:text;not null" json:"category"`

	Amount              decimal.Decimal `gorm:"type:numeric(14,4);not null" json:"amount"`
	BaseAmount          decimal.Decimal `gorm:"column:base_amount;type:numeric(14,4);not null;default:0" json:"base_amount"`
	VATAmount           decimal.Decimal `gorm:"column:vat_amount;type:numeric(14,4);not null;default:0" json:"vat_amount"`
	ServiceChargeAmount decimal.Decimal `gorm:"column:service_charge_amount;type:numeric(14,4);not null;default:0" json:"service_charge_amount"`

	Status      ChargeStatus      `gorm:"type:text;not null;default:'pending'" json:"status"`
	StaffName   string            `gorm:"column:staff_name;type:text" json:"staff_name,omitempty"`
	Description string            `gorm:"type:text" json:"description,omitempty"`
	Metadata    datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (ServiceCharge) TableName() string { return "service_charges" }

// IsLegacy reports whether the row predates split columns. Resolved
// here, once, so downstream code never re-runs the all-zero heuristic.
func (c *ServiceCharge) IsLegacy() bool {
	return c.BaseAmount.IsZero() && c.VATAmount.IsZero() && c.ServiceChargeAmount.IsZero()
}

func ValidCategory(cat engine.Category) bool {
	for _, known := range engine.Categories {
		if cat == known {
			return true
		}
	}
	return false
}
