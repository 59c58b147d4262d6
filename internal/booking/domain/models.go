// Package domain contains guest stay models.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// BookingStatus represents stay lifecycle states.
type BookingStatus string

const (
	BookingStatusReserved   BookingStatus = "reserved"
	BookingStatusCheckedIn  BookingStatus = "checked_in"
	BookingStatusCheckedOut BookingStatus = "checked_out"
	BookingStatusCancelled  BookingStatus = "cancelled"
)

// Booking is a guest stay. Charges and payments hang off it; the folio
// is computed from them on demand and never stored.
type Booking struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	PropertyID snowflake.ID `gorm:"column:property_id;not null;index" json:"property_id"`

	GuestName  string `gorm:"not null" json:"guest_name"`
	GuestEmail string `gorm:"type:text" json:"guest_email,omitempty"`
	RoomNumber string `gorm:"column:room_number;type:text;not null" json:"room_number"`

	CheckIn  time.Time  `gorm:"column:check_in;not null" json:"check_in"`
	CheckOut *time.Time `gorm:"column:check_out" json:"check_out,omitempty"`

	// TaxExempt marks diplomatic/NGO guests whose charges carry no VAT.
	TaxExempt bool `gorm:"column:tax_exempt;not null;default:false" json:"tax_exempt"`

	Status    BookingStatus     `gorm:"type:text;not null;default:'reserved'" json:"status"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Booking) TableName() string { return "bookings" }

func ValidStatus(status BookingStatus) bool {
	switch status {
	case BookingStatusReserved, BookingStatusCheckedIn, BookingStatusCheckedOut, BookingStatusCancelled:
		return true
	default:
		return false
	}
}
