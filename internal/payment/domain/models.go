package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusVoided    PaymentStatus = "voided"
	PaymentStatusFailed    PaymentStatus = "failed"
)

type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodTransfer PaymentMethod = "transfer"
	PaymentMethodOther    PaymentMethod = "other"
)

type Payment struct {
	ID         snowflake.ID    `gorm:"primaryKey" json:"id,string"`
	PropertyID snowflake.ID    `gorm:"index;not null" json:"property_id,string"`
	BookingID  snowflake.ID    `gorm:"index;not null" json:"booking_id,string"`
	Amount     decimal.Decimal `gorm:"type:numeric(14,4);not null" json:"amount"`
	Method     PaymentMethod   `gorm:"type:varchar(32);not null" json:"method"`
	Status     PaymentStatus   `gorm:"type:varchar(32);not null;default:'completed'" json:"status"`
	Reference  string          `gorm:"type:varchar(128)" json:"reference,omitempty"`
	ReceivedAt time.Time       `json:"received_at"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func (Payment) TableName() string {
	return "payments"
}

func ValidMethod(m PaymentMethod) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodTransfer, PaymentMethodOther:
		return true
	default:
		return false
	}
}
