package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/lodgeops/lodgeops/internal/charge/domain"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, charge *domain.ServiceCharge) error {
	return db.WithContext(ctx).Create(charge).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, propertyID, id snowflake.ID) (*domain.ServiceCharge, error) {
	var charge domain.ServiceCharge
	err := db.WithContext(ctx).
		Where("property_id = ? AND id = ?", propertyID, id).
		Limit(1).
		Find(&charge).Error
	if err != nil {
		return nil, err
	}
	if charge.ID == 0 {
		return nil, nil
	}
	return &charge, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, propertyID snowflake.ID, filter domain.ListChargeRequest) ([]domain.ServiceCharge, error) {
	var charges []domain.ServiceCharge
	stmt := db.WithContext(ctx).
		Model(&domain.ServiceCharge{}).
		Where("property_id = ?", propertyID)
	if filter.BookingID != "" {
		stmt = stmt.Where("booking_id = ?", filter.BookingID)
	}
	if filter.Category != "" {
		stmt = stmt.Where("category = ?", filter.Category)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if err := stmt.Order("created_at asc, id asc").Find(&charges).Error; err != nil {
		return nil, err
	}
	return charges, nil
}

func (r *repo) ListByBooking(ctx context.Context, db *gorm.DB, propertyID, bookingID snowflake.ID) ([]domain.ServiceCharge, error) {
	var charges []domain.ServiceCharge
	err := db.WithContext(ctx).
		Model(&domain.ServiceCharge{}).
		Where("property_id = ? AND booking_id = ?", propertyID, bookingID).
		Order("created_at asc, id asc").
		Find(&charges).Error
	if err != nil {
		return nil, err
	}
	return charges, nil
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, charge *domain.ServiceCharge) error {
	return db.WithContext(ctx).
		Model(&domain.ServiceCharge{}).
		Where("property_id = ? AND id = ?", charge.PropertyID, charge.ID).
		Updates(map[string]any{
			"status":     charge.Status,
			"updated_at": charge.UpdatedAt,
		}).Error
}
