package domain

import (
	"context"
	"errors"
	"time"

	"github.com/lodgeops/lodgeops/pkg/db/pagination"
)

type ListBookingRequest struct {
	PageToken  string
	PageSize   int32
	Status     BookingStatus
	RoomNumber string
	GuestName  string
}

type ListBookingFilter struct {
	Status     BookingStatus
	RoomNumber string
	GuestName  string
}

type ListBookingResponse struct {
	pagination.PageInfo
	Bookings []Booking `json:"bookings"`
}

type CreateBookingRequest struct {
	GuestName  string     `json:"guest_name"`
	GuestEmail string     `json:"guest_email"`
	RoomNumber string     `json:"room_number"`
	CheckIn    time.Time  `json:"check_in"`
	CheckOut   *time.Time `json:"check_out"`
	TaxExempt  bool       `json:"tax_exempt"`
}

type UpdateStatusRequest struct {
	ID     string        `json:"id"`
	Status BookingStatus `json:"status"`
}

type Service interface {
	Create(context.Context, CreateBookingRequest) (Booking, error)
	List(context.Context, ListBookingRequest) (ListBookingResponse, error)
	GetByID(ctx context.Context, id string) (Booking, error)
	UpdateStatus(context.Context, UpdateStatusRequest) (Booking, error)
}

var (
	ErrInvalidProperty = errors.New("invalid_property")
	ErrInvalidGuest    = errors.New("invalid_guest")
	ErrInvalidRoom     = errors.New("invalid_room")
	ErrInvalidStatus   = errors.New("invalid_status")
	ErrInvalidID       = errors.New("invalid_id")
	ErrNotFound        = errors.New("not_found")
)
