package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/lodgeops/lodgeops/internal/folio/engine"
)

type CreateChargeRequest struct {
	BookingID string          `json:"booking_id"`
	Category  engine.Category `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	// Taxable and ServiceChargeable default to true; a charge opts out
	// explicitly (e.g. a deposit or a pass-through cost).
	Taxable           *bool  `json:"taxable,omitempty"`
	ServiceChargeable *bool  `json:"service_chargeable,omitempty"`
	StaffName         string `json:"staff_name"`
	Description       string `json:"description"`
}

type ListChargeRequest struct {
	BookingID string
	Category  engine.Category
	Status    ChargeStatus
}

type Service interface {
	Create(context.Context, CreateChargeRequest) (ServiceCharge, error)
	List(context.Context, ListChargeRequest) ([]ServiceCharge, error)
	GetByID(ctx context.Context, id string) (ServiceCharge, error)
	MarkPaid(ctx context.Context, id string) (ServiceCharge, error)
	Cancel(ctx context.Context, id string) (ServiceCharge, error)
}

var (
	ErrInvalidProperty = errors.New("invalid_property")
	ErrInvalidBooking  = errors.New("invalid_booking")
	ErrInvalidCategory = errors.New("invalid_category")
	ErrInvalidAmount   = errors.New("invalid_amount")
	ErrInvalidStatus   = errors.New("invalid_status")
	ErrInvalidID       = errors.New("invalid_id")
	ErrNotFound        = errors.New("not_found")
	ErrAlreadyFinal    = errors.New("charge_already_final")
)
