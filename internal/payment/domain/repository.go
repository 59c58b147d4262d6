package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, payment *Payment) error
	FindByID(ctx context.Context, db *gorm.DB, propertyID, id snowflake.ID) (*Payment, error)
	List(ctx context.Context, db *gorm.DB, propertyID snowflake.ID, filter ListPaymentRequest) ([]Payment, error)
	ListByBooking(ctx context.Context, db *gorm.DB, propertyID, bookingID snowflake.ID) ([]Payment, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, payment *Payment) error
}
