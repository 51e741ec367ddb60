// Package domain contains tariff configuration models: volume tiers,
// seasonal rates, bulk discounts and dynamic discount rules.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AdjustmentType describes how a rate adjustment or discount value is applied.
type AdjustmentType string

const (
	AdjustmentPercentage AdjustmentType = "percentage"
	AdjustmentFixed      AdjustmentType = "fixed"
)

func (t AdjustmentType) Valid() bool {
	return t == AdjustmentPercentage || t == AdjustmentFixed
}

// Tariff is a priced billing policy for a property type. It owns an ordered
// list of volume tiers plus optional discount overlays, gated by the
// is_seasonal / has_* flags.
type Tariff struct {
	ID                  snowflake.ID    `json:"id" gorm:"primaryKey"`
	ClientID            snowflake.ID    `json:"client_id" gorm:"column:client_id;not null;index"`
	PropertyType        string          `json:"property_type" gorm:"type:text;not null"`
	Name                string          `json:"name" gorm:"type:text;not null"`
	Description         string          `json:"description" gorm:"type:text"`
	IsActive            bool            `json:"is_active" gorm:"not null;default:true"`
	IsSeasonal          bool            `json:"is_seasonal" gorm:"not null;default:false"`
	HasMinimumCharge    bool            `json:"has_minimum_charge" gorm:"not null;default:false"`
	MinimumChargeAmount decimal.Decimal `json:"minimum_charge_amount" gorm:"type:numeric;not null;default:0"`
	HasBulkDiscount     bool            `json:"has_bulk_discount" gorm:"not null;default:false"`
	HasDynamicDiscount  bool            `json:"has_dynamic_discount" gorm:"not null;default:false"`
	EffectiveFrom       *time.Time      `json:"effective_from,omitempty"`
	EffectiveTo         *time.Time      `json:"effective_to,omitempty"`
	CreatedAt           time.Time       `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt           time.Time       `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	DeletedAt           gorm.DeletedAt  `json:"-" gorm:"index"`
	Tiers               []TariffTier    `json:"tiers,omitempty" gorm:"foreignKey:TariffID"`
}

func (Tariff) TableName() string { return "tariffs" }

// TariffTier is a contiguous volume band with its own per-unit price.
// A nil MaxVolume means the band is unbounded above.
type TariffTier struct {
	ID           snowflake.ID     `json:"id" gorm:"primaryKey"`
	TariffID     snowflake.ID     `json:"tariff_id" gorm:"not null;index"`
	MinVolume    decimal.Decimal  `json:"min_volume" gorm:"type:numeric;not null"`
	MaxVolume    *decimal.Decimal `json:"max_volume,omitempty" gorm:"type:numeric"`
	PricePerUnit decimal.Decimal  `json:"price_per_unit" gorm:"type:numeric;not null"`
	CreatedAt    time.Time        `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time        `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (TariffTier) TableName() string { return "tariff_tiers" }

// SeasonalRate is a date-windowed price adjustment layered on top of base
// price. Active rates for a tariff may not overlap in time.
type SeasonalRate struct {
	ID              snowflake.ID    `json:"id" gorm:"primaryKey"`
	TariffID        snowflake.ID    `json:"tariff_id" gorm:"not null;index"`
	Name            string          `json:"name" gorm:"type:text;not null"`
	StartDate       time.Time       `json:"start_date" gorm:"not null"`
	EndDate         time.Time       `json:"end_date" gorm:"not null"`
	AdjustmentType  AdjustmentType  `json:"adjustment_type" gorm:"column:rate_adjustment_type;type:text;not null"`
	AdjustmentValue decimal.Decimal `json:"adjustment_value" gorm:"column:rate_adjustment_value;type:numeric;not null"`
	IsActive        bool            `json:"is_active" gorm:"not null;default:true"`
	CreatedAt       time.Time       `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time       `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (SeasonalRate) TableName() string { return "seasonal_rates" }

// BulkDiscountTier is a volume-threshold discount. Active tiers for a tariff
// may not have overlapping volume ranges; a nil MaxVolume is unbounded.
type BulkDiscountTier struct {
	ID            snowflake.ID     `json:"id" gorm:"primaryKey"`
	TariffID      snowflake.ID     `json:"tariff_id" gorm:"not null;index"`
	MinVolume     decimal.Decimal  `json:"min_volume" gorm:"type:numeric;not null"`
	MaxVolume     *decimal.Decimal `json:"max_volume,omitempty" gorm:"type:numeric"`
	DiscountType  AdjustmentType   `json:"discount_type" gorm:"type:text;not null"`
	DiscountValue decimal.Decimal  `json:"discount_value" gorm:"type:numeric;not null"`
	IsActive      bool             `json:"is_active" gorm:"not null;default:true"`
	CreatedAt     time.Time        `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time        `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (BulkDiscountTier) TableName() string { return "bulk_discount_tiers" }

// DynamicDiscountRule is a condition-gated discount. Multiple rules may be
// simultaneously active; priority (higher wins) plus first-match resolves
// conflicts, so no overlap validation is performed on rules.
type DynamicDiscountRule struct {
	ID                snowflake.ID     `json:"id" gorm:"primaryKey"`
	TariffID          snowflake.ID     `json:"tariff_id" gorm:"not null;index"`
	Name              string           `json:"name" gorm:"type:text;not null"`
	RuleType          RuleType         `json:"rule_type" gorm:"type:text;not null"`
	Conditions        datatypes.JSON   `json:"conditions" gorm:"type:jsonb;not null"`
	DiscountType      AdjustmentType   `json:"discount_type" gorm:"type:text;not null"`
	DiscountValue     decimal.Decimal  `json:"discount_value" gorm:"type:numeric;not null"`
	Priority          int              `json:"priority" gorm:"not null;default:0"`
	IsActive          bool             `json:"is_active" gorm:"not null;default:true"`
	StartDate         *time.Time       `json:"start_date,omitempty"`
	EndDate           *time.Time       `json:"end_date,omitempty"`
	MaxDiscountAmount *decimal.Decimal `json:"max_discount_amount,omitempty" gorm:"type:numeric"`
	CreatedAt         time.Time        `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt         time.Time        `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (DynamicDiscountRule) TableName() string { return "dynamic_discount_rules" }

// Snapshot is the read-only configuration slice the pricing engine consumes.
// Slices are loaded in the order the selectors walk them: tiers and bulk
// discounts ascending by min_volume, seasonal rates ascending by start_date,
// rules by priority descending then name ascending.
type Snapshot struct {
	Tariff        Tariff                `json:"tariff"`
	Tiers         []TariffTier          `json:"tiers"`
	SeasonalRates []SeasonalRate        `json:"seasonal_rates,omitempty"`
	BulkDiscounts []BulkDiscountTier    `json:"bulk_discounts,omitempty"`
	DynamicRules  []DynamicDiscountRule `json:"dynamic_rules,omitempty"`
}
