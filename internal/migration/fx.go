package migration

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	bookingdomain "github.com/lodgeops/lodgeops/internal/booking/domain"
	chargedomain "github.com/lodgeops/lodgeops/internal/charge/domain"
	"github.com/lodgeops/lodgeops/internal/config"
	paymentdomain "github.com/lodgeops/lodgeops/internal/payment/domain"
	propertydomain "github.com/lodgeops/lodgeops/internal/property/domain"
	"github.com/lodgeops/lodgeops/internal/seed"
	taxdomain "github.com/lodgeops/lodgeops/internal/taxconfig/domain"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// mysql and sqlite are dev conveniences; versioned
			// migrations only target postgres.
			err := conn.AutoMigrate(
				&propertydomain.Property{},
				&bookingdomain.Booking{},
				&taxdomain.TaxSetting{},
				&chargedomain.ServiceCharge{},
				&paymentdomain.Payment{},
			)
			if err != nil {
				return err
			}
		}

		return seed.EnsureDefaultProperty(conn, cfg.DefaultPropertyID)
	}),
)
