package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/lodgeops/lodgeops/pkg/db/pagination"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, booking *Booking) error
	FindByID(ctx context.Context, db *gorm.DB, propertyID, id snowflake.ID) (*Booking, error)
	List(ctx context.Context, db *gorm.DB, propertyID snowflake.ID, filter ListBookingFilter, page pagination.Pagination) ([]*Booking, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, booking *Booking) error
}
