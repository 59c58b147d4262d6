package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/lodgeops/lodgeops/internal/taxconfig/domain"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, setting *domain.TaxSetting) error {
	return db.WithContext(ctx).Create(setting).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, propertyID, id snowflake.ID) (*domain.TaxSetting, error) {
	var setting domain.TaxSetting
	err := db.WithContext(ctx).
		Where("property_id = ? AND id = ?", propertyID, id).
		Limit(1).
		Find(&setting).Error
	if err != nil {
		return nil, err
	}
	if setting.ID == 0 {
		return nil, nil
	}
	return &setting, nil
}

func (r *repo) FindActive(ctx context.Context, db *gorm.DB, propertyID snowflake.ID) (*domain.TaxSetting, error) {
	var setting domain.TaxSetting
	err := db.WithContext(ctx).
		Where("property_id = ? AND is_enabled = ?", propertyID, true).
		Order("id ASC").
		Limit(1).
		Find(&setting).Error
	if err != nil {
		return nil, err
	}
	if setting.ID == 0 {
		return nil, nil
	}
	return &setting, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, propertyID snowflake.ID, filter domain.ListRequest) ([]domain.TaxSetting, error) {
	var settings []domain.TaxSetting
	stmt := db.WithContext(ctx).
		Model(&domain.TaxSetting{}).
		Where("property_id = ?", propertyID)
	if filter.IsEnabled != nil {
		stmt = stmt.Where("is_enabled = ?", *filter.IsEnabled)
	}
	if err := stmt.Order("created_at DESC, id DESC").Find(&settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, setting *domain.TaxSetting) error {
	return db.WithContext(ctx).
		Model(&domain.TaxSetting{}).
		Where("property_id = ? AND id = ?", setting.PropertyID, setting.ID).
		Updates(map[string]any{
			"vat_rate":                 setting.VATRate,
			"service_charge_rate":      setting.ServiceChargeRate,
			"tax_inclusive":            setting.TaxInclusive,
			"service_charge_inclusive": setting.ServiceChargeInclusive,
			"vat_categories":           setting.VATCategories,
			"service_categories":       setting.ServiceCategories,
			"is_enabled":               setting.IsEnabled,
			"updated_at":               setting.UpdatedAt,
		}).Error
}
