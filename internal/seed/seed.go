// Package seed bootstraps a fresh database with a demo tariff so local runs
// can price a calculation immediately.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	tariffdomain "github.com/indowater/tirta/internal/tariff/domain"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	demoTariffName   = "Residential Standard"
	demoPropertyType = "residential"
)

// EnsureDemoData seeds a residential tariff with three volume tiers and a
// dry-season surcharge. It is idempotent: an existing tariff with the demo
// name short-circuits the whole seed.
func EnsureDemoData(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing tariffdomain.Tariff
		err := tx.WithContext(ctx).
			Where("name = ?", demoTariffName).
			First(&existing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		now := time.Now().UTC()
		tariff := tariffdomain.Tariff{
			ID:                  node.Generate(),
			ClientID:            node.Generate(),
			PropertyType:        demoPropertyType,
			Name:                demoTariffName,
			Description:         "Default residential tariff with progressive volume tiers.",
			IsActive:            true,
			IsSeasonal:          true,
			HasMinimumCharge:    true,
			MinimumChargeAmount: decimal.NewFromInt(15000),
			CreatedAt:           now,
			UpdatedAt:           now,
		}
		if err := tx.WithContext(ctx).Create(&tariff).Error; err != nil {
			return err
		}

		ten := decimal.NewFromInt(10)
		twenty := decimal.NewFromInt(20)
		tiers := []tariffdomain.TariffTier{
			{
				ID:           node.Generate(),
				TariffID:     tariff.ID,
				MinVolume:    decimal.Zero,
				MaxVolume:    &ten,
				PricePerUnit: decimal.NewFromInt(3000),
				CreatedAt:    now,
				UpdatedAt:    now,
			},
			{
				ID:           node.Generate(),
				TariffID:     tariff.ID,
				MinVolume:    ten,
				MaxVolume:    &twenty,
				PricePerUnit: decimal.NewFromInt(4500),
				CreatedAt:    now,
				UpdatedAt:    now,
			},
			{
				ID:           node.Generate(),
				TariffID:     tariff.ID,
				MinVolume:    twenty,
				PricePerUnit: decimal.NewFromInt(6000),
				CreatedAt:    now,
				UpdatedAt:    now,
			},
		}
		if err := tx.WithContext(ctx).Create(&tiers).Error; err != nil {
			return err
		}

		rate := tariffdomain.SeasonalRate{
			ID:              node.Generate(),
			TariffID:        tariff.ID,
			Name:            "Dry Season Surcharge",
			StartDate:       time.Date(now.Year(), time.June, 1, 0, 0, 0, 0, time.UTC),
			EndDate:         time.Date(now.Year(), time.September, 30, 0, 0, 0, 0, time.UTC),
			AdjustmentType:  tariffdomain.AdjustmentPercentage,
			AdjustmentValue: decimal.NewFromInt(-10),
			IsActive:        true,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		return tx.WithContext(ctx).Create(&rate).Error
	})
}
