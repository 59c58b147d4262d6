package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, setting *TaxSetting) error
	FindByID(ctx context.Context, db *gorm.DB, propertyID, id snowflake.ID) (*TaxSetting, error)
	FindActive(ctx context.Context, db *gorm.DB, propertyID snowflake.ID) (*TaxSetting, error)
	List(ctx context.Context, db *gorm.DB, propertyID snowflake.ID, filter ListRequest) ([]TaxSetting, error)
	Update(ctx context.Context, db *gorm.DB, setting *TaxSetting) error
}
