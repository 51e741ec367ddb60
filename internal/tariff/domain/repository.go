package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// ListTariffFilter narrows tariff listings.
type ListTariffFilter struct {
	ClientID     snowflake.ID
	PropertyType string
	ActiveOnly   bool
}

// Repository persists tariff configuration. Methods take the *gorm.DB they
// should run on so services can pass a transaction handle.
type Repository interface {
	InsertTariff(ctx context.Context, db *gorm.DB, tariff *Tariff) error
	UpdateTariff(ctx context.Context, db *gorm.DB, tariff *Tariff) error
	SoftDeleteTariff(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	FindTariffByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Tariff, error)
	ListTariffs(ctx context.Context, db *gorm.DB, filter ListTariffFilter) ([]*Tariff, error)

	ReplaceTiers(ctx context.Context, db *gorm.DB, tariffID snowflake.ID, tiers []TariffTier) error
	ListTiers(ctx context.Context, db *gorm.DB, tariffID snowflake.ID) ([]TariffTier, error)

	InsertSeasonalRate(ctx context.Context, db *gorm.DB, rate *SeasonalRate) error
	UpdateSeasonalRate(ctx context.Context, db *gorm.DB, rate *SeasonalRate) error
	FindSeasonalRateByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*SeasonalRate, error)
	ListSeasonalRates(ctx context.Context, db *gorm.DB, tariffID snowflake.ID) ([]SeasonalRate, error)

	InsertBulkDiscount(ctx context.Context, db *gorm.DB, tier *BulkDiscountTier) error
	UpdateBulkDiscount(ctx context.Context, db *gorm.DB, tier *BulkDiscountTier) error
	FindBulkDiscountByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*BulkDiscountTier, error)
	ListBulkDiscounts(ctx context.Context, db *gorm.DB, tariffID snowflake.ID) ([]BulkDiscountTier, error)

	InsertDynamicRule(ctx context.Context, db *gorm.DB, rule *DynamicDiscountRule) error
	UpdateDynamicRule(ctx context.Context, db *gorm.DB, rule *DynamicDiscountRule) error
	FindDynamicRuleByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*DynamicDiscountRule, error)
	ListDynamicRules(ctx context.Context, db *gorm.DB, tariffID snowflake.ID) ([]DynamicDiscountRule, error)

	SetSeasonalFlag(ctx context.Context, db *gorm.DB, tariffID snowflake.ID) error
	SetBulkDiscountFlag(ctx context.Context, db *gorm.DB, tariffID snowflake.ID) error
	SetDynamicDiscountFlag(ctx context.Context, db *gorm.DB, tariffID snowflake.ID) error

	// LoadSnapshot loads the tariff plus the overlay families its flags
	// enable, in selector order.
	LoadSnapshot(ctx context.Context, db *gorm.DB, tariffID snowflake.ID) (*Snapshot, error)
}
