package migration

import (
	"github.com/indowater/tirta/internal/config"
	customerdomain "github.com/indowater/tirta/internal/customer/domain"
	meterdomain "github.com/indowater/tirta/internal/meter/domain"
	pricingdomain "github.com/indowater/tirta/internal/pricing/domain"
	propertydomain "github.com/indowater/tirta/internal/property/domain"
	"github.com/indowater/tirta/internal/seed"
	tariffdomain "github.com/indowater/tirta/internal/tariff/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
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
			// sqlite and mysql are for local runs; let gorm shape the schema.
			err := conn.AutoMigrate(
				&tariffdomain.Tariff{},
				&tariffdomain.TariffTier{},
				&tariffdomain.SeasonalRate{},
				&tariffdomain.BulkDiscountTier{},
				&tariffdomain.DynamicDiscountRule{},
				&customerdomain.Customer{},
				&meterdomain.Meter{},
				&propertydomain.Property{},
				&propertydomain.PropertyTariff{},
				&pricingdomain.AppliedDiscount{},
			)
			if err != nil {
				return err
			}
		}

		if cfg.SeedOnStart {
			return seed.EnsureDemoData(conn)
		}
		return nil
	}),
)
