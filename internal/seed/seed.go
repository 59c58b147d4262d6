// Package seed bootstraps the records a fresh install needs before the
// first request arrives.
package seed

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/lodgeops/lodgeops/internal/folio/engine"
	propertydomain "github.com/lodgeops/lodgeops/internal/property/domain"
	taxdomain "github.com/lodgeops/lodgeops/internal/taxconfig/domain"
	pkgdb "github.com/lodgeops/lodgeops/pkg/db"
)

const (
	defaultPropertyName = "Main Property"
	defaultTimezone     = "Africa/Lagos"
	defaultCurrency     = "NGN"
)

// Nigerian statutory VAT plus the customary hospitality service charge.
// Used only when a property has no tax setting of its own yet.
var (
	defaultVATRate           = decimal.NewFromFloat(7.5)
	defaultServiceChargeRate = decimal.NewFromInt(10)
)

// EnsureDefaultProperty creates the default property and an enabled tax
// setting for it when neither exists yet. A zero id lets the database
// pick a generated snowflake instead.
func EnsureDefaultProperty(db *gorm.DB, id int64) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		prop, err := ensurePropertyTx(ctx, tx, node, id)
		if err != nil {
			return err
		}
		return ensureTaxSettingTx(ctx, tx, node, prop.ID)
	})
}

func ensurePropertyTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, id int64) (*propertydomain.Property, error) {
	var existing propertydomain.Property

	q := tx.WithContext(ctx).Model(&propertydomain.Property{})
	if id != 0 {
		q = q.Where("id = ?", id)
	}
	if err := q.Order("id asc").Limit(1).Find(&existing).Error; err != nil {
		return nil, err
	}
	if existing.ID != 0 {
		return &existing, nil
	}

	prop := propertydomain.Property{
		ID:       node.Generate(),
		Name:     defaultPropertyName,
		Timezone: defaultTimezone,
		Currency: defaultCurrency,
		Metadata: datatypes.JSONMap{},
	}
	if id != 0 {
		prop.ID = snowflake.ParseInt64(id)
	}
	// Two instances booting at once may race on the insert.
	if err := tx.WithContext(ctx).Create(&prop).Error; err != nil && !pkgdb.IsDuplicateKeyErr(err) {
		return nil, err
	}
	return &prop, nil
}

func ensureTaxSettingTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, propertyID snowflake.ID) error {
	var existing taxdomain.TaxSetting
	err := tx.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Limit(1).
		Find(&existing).Error
	if err != nil {
		return err
	}
	if existing.ID != 0 {
		return nil
	}

	categories := make(datatypes.JSONSlice[string], 0, len(engine.Categories))
	for _, cat := range engine.Categories {
		categories = append(categories, string(cat))
	}

	setting := taxdomain.TaxSetting{
		ID:                node.Generate(),
		PropertyID:        propertyID,
		VATRate:           defaultVATRate,
		ServiceChargeRate: defaultServiceChargeRate,
		VATCategories:     categories,
		ServiceCategories: categories,
		IsEnabled:         true,
	}
	return tx.WithContext(ctx).Create(&setting).Error
}
