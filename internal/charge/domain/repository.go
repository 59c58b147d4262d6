package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, charge *ServiceCharge) error
	FindByID(ctx context.Context, db *gorm.DB, propertyID, id snowflake.ID) (*ServiceCharge, error)
	List(ctx context.Context, db *gorm.DB, propertyID snowflake.ID, filter ListChargeRequest) ([]ServiceCharge, error)
	ListByBooking(ctx context.Context, db *gorm.DB, propertyID, bookingID snowflake.ID) ([]ServiceCharge, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, charge *ServiceCharge) error
}
