package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"

	chargedomain "github.com/lodgeops/lodgeops/internal/charge/domain"
	"github.com/lodgeops/lodgeops/internal/folio/engine"
	paymentdomain "github.com/lodgeops/lodgeops/internal/payment/domain"
)

// FolioRequest asks for a booking's reconciled folio.
type FolioRequest struct {
	BookingID string
	// ShowZeroRates overrides the deployment default when set.
	ShowZeroRates *bool
}

// GuestBill is the guest-facing folio: the reconciled balance plus the
// breakdown lines as they would appear on a printed bill. Credit is the
// display form of an overpayment: abs(pending_balance) when the status
// is overpaid, zero otherwise.
type GuestBill struct {
	BookingID   snowflake.ID                 `json:"booking_id,string"`
	GuestName   string                       `json:"guest_name"`
	RoomNumber  string                       `json:"room_number"`
	Bill        engine.Bill                  `json:"bill"`
	Credit      decimal.Decimal              `json:"credit"`
	Currency    string                       `json:"currency"`
	Lines       engine.BreakdownItems        `json:"lines"`
	Charges     []chargedomain.ServiceCharge `json:"charges"`
	Payments    []paymentdomain.Payment      `json:"payments"`
	Warnings    []engine.Warning             `json:"warnings,omitempty"`
	GeneratedAt time.Time                    `json:"generated_at"`
}

type Service interface {
	GetFolio(context.Context, FolioRequest) (GuestBill, error)
}

var (
	ErrInvalidProperty = errors.New("invalid_property")
	ErrInvalidID       = errors.New("invalid_id")
	ErrNotFound        = errors.New("not_found")
)
