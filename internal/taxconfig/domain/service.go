package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

type Service interface {
	// GetActive returns the enabled tax setting for the property in
	// context. Callers own the fallback policy when none exists; the
	// folio engine itself never substitutes defaults.
	GetActive(ctx context.Context) (*TaxSetting, error)
	List(ctx context.Context, req ListRequest) ([]TaxSetting, error)
	Create(ctx context.Context, req CreateRequest) (*TaxSetting, error)
	Update(ctx context.Context, req UpdateRequest) (*TaxSetting, error)
	Disable(ctx context.Context, id string) (*TaxSetting, error)
}

type ListRequest struct {
	IsEnabled *bool
}

type CreateRequest struct {
	VATRate                decimal.Decimal `json:"vat_rate"`
	ServiceChargeRate      decimal.Decimal `json:"service_charge_rate"`
	TaxInclusive           bool            `json:"tax_inclusive"`
	ServiceChargeInclusive bool            `json:"service_charge_inclusive"`
	VATCategories          []string        `json:"vat_categories"`
	ServiceCategories      []string        `json:"service_categories"`
}

type UpdateRequest struct {
	ID                     string           `json:"id"`
	VATRate                *decimal.Decimal `json:"vat_rate,omitempty"`
	ServiceChargeRate      *decimal.Decimal `json:"service_charge_rate,omitempty"`
	TaxInclusive           *bool            `json:"tax_inclusive,omitempty"`
	ServiceChargeInclusive *bool            `json:"service_charge_inclusive,omitempty"`
	VATCategories          []string         `json:"vat_categories,omitempty"`
	ServiceCategories      []string         `json:"service_categories,omitempty"`
}

var (
	ErrInvalidProperty = errors.New("invalid_property")
	ErrInvalidRate     = errors.New("invalid_rate")
	ErrInvalidCategory = errors.New("invalid_category")
	ErrInvalidID       = errors.New("invalid_id")
	ErrNotFound        = errors.New("not_found")
)
