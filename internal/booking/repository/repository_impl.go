package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/lodgeops/lodgeops/internal/booking/domain"
	"github.com/lodgeops/lodgeops/pkg/db/option"
	"github.com/lodgeops/lodgeops/pkg/db/pagination"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, booking *domain.Booking) error {
	return db.WithContext(ctx).Create(booking).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, propertyID, id snowflake.ID) (*domain.Booking, error) {
	var booking domain.Booking
	err := db.WithContext(ctx).
		Where("property_id = ? AND id = ?", propertyID, id).
		Limit(1).
		Find(&booking).Error
	if err != nil {
		return nil, err
	}
	if booking.ID == 0 {
		return nil, nil
	}
	return &booking, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, propertyID snowflake.ID, filter domain.ListBookingFilter, page pagination.Pagination) ([]*domain.Booking, error) {
	var bookings []*domain.Booking
	stmt := db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("property_id = ?", propertyID)
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.RoomNumber != "" {
		stmt = stmt.Where("room_number = ?", filter.RoomNumber)
	}
	if filter.GuestName != "" {
		stmt = stmt.Where("guest_name LIKE ?", "%"+filter.GuestName+"%")
	}
	stmt = option.ApplyPagination(page).Apply(stmt)
	err := stmt.
		Order("created_at desc, id desc").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, booking *domain.Booking) error {
	return db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("property_id = ? AND id = ?", booking.PropertyID, booking.ID).
		Updates(map[string]any{
			"status":     booking.Status,
			"check_out":  booking.CheckOut,
			"updated_at": booking.UpdatedAt,
		}).Error
}
