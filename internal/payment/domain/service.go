package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type CreatePaymentRequest struct {
	BookingID  string          `json:"booking_id"`
	Amount     decimal.Decimal `json:"amount"`
	Method     PaymentMethod   `json:"method"`
	Reference  string          `json:"reference,omitempty"`
	ReceivedAt *time.Time      `json:"received_at,omitempty"`
}

type ListPaymentRequest struct {
	BookingID string
	Status    PaymentStatus
}

type Service interface {
	Create(context.Context, CreatePaymentRequest) (Payment, error)
	List(context.Context, ListPaymentRequest) ([]Payment, error)
	GetByID(ctx context.Context, id string) (Payment, error)
	Void(ctx context.Context, id string) (Payment, error)
}

var (
	ErrInvalidProperty = errors.New("invalid_property")
	ErrInvalidBooking  = errors.New("invalid_booking")
	ErrInvalidAmount   = errors.New("invalid_amount")
	ErrInvalidMethod   = errors.New("invalid_method")
	ErrInvalidStatus   = errors.New("invalid_status")
	ErrInvalidID       = errors.New("invalid_id")
	ErrNotFound        = errors.New("not_found")
	ErrAlreadyVoided   = errors.New("payment_already_voided")
)
