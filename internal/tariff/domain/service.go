package domain

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Service is the administrative write surface for tariff configuration. All
// creates and updates run their range/condition validation inside the same
// transaction as the write so concurrent writers cannot slip overlapping
// windows past the check.
type Service interface {
	CreateTariff(ctx context.Context, req CreateTariffRequest) (*Tariff, error)
	UpdateTariff(ctx context.Context, req UpdateTariffRequest) (*Tariff, error)
	DeleteTariff(ctx context.Context, id string) error
	GetTariff(ctx context.Context, id string) (*Tariff, error)
	GetTariffComplete(ctx context.Context, id string) (*Snapshot, error)
	ListTariffs(ctx context.Context, req ListTariffsRequest) ([]*Tariff, error)

	CreateSeasonalRate(ctx context.Context, req SeasonalRateRequest) (*SeasonalRate, error)
	UpdateSeasonalRate(ctx context.Context, id string, req SeasonalRateRequest) (*SeasonalRate, error)
	ListSeasonalRates(ctx context.Context, tariffID string) ([]SeasonalRate, error)

	CreateBulkDiscount(ctx context.Context, req BulkDiscountRequest) (*BulkDiscountTier, error)
	UpdateBulkDiscount(ctx context.Context, id string, req BulkDiscountRequest) (*BulkDiscountTier, error)
	ListBulkDiscounts(ctx context.Context, tariffID string) ([]BulkDiscountTier, error)

	CreateDynamicRule(ctx context.Context, req DynamicRuleRequest) (*DynamicDiscountRule, error)
	UpdateDynamicRule(ctx context.Context, id string, req DynamicRuleRequest) (*DynamicDiscountRule, error)
	ListDynamicRules(ctx context.Context, tariffID string) ([]DynamicDiscountRule, error)
}

// TierInput is one volume band in a tariff create/update request.
type TierInput struct {
	MinVolume    decimal.Decimal  `json:"min_volume"`
	MaxVolume    *decimal.Decimal `json:"max_volume,omitempty"`
	PricePerUnit decimal.Decimal  `json:"price_per_unit"`
}

type CreateTariffRequest struct {
	ClientID            string          `json:"client_id"`
	PropertyType        string          `json:"property_type"`
	Name                string          `json:"name"`
	Description         string          `json:"description"`
	HasMinimumCharge    bool            `json:"has_minimum_charge"`
	MinimumChargeAmount decimal.Decimal `json:"minimum_charge_amount"`
	EffectiveFrom       string          `json:"effective_from,omitempty"`
	EffectiveTo         string          `json:"effective_to,omitempty"`
	Tiers               []TierInput     `json:"tiers"`
}

type UpdateTariffRequest struct {
	ID                  string          `json:"-"`
	Name                string          `json:"name"`
	Description         string          `json:"description"`
	IsActive            *bool           `json:"is_active,omitempty"`
	HasMinimumCharge    *bool           `json:"has_minimum_charge,omitempty"`
	MinimumChargeAmount decimal.Decimal `json:"minimum_charge_amount"`
	EffectiveFrom       string          `json:"effective_from,omitempty"`
	EffectiveTo         string          `json:"effective_to,omitempty"`
	Tiers               []TierInput     `json:"tiers,omitempty"`
}

type ListTariffsRequest struct {
	ClientID     string `form:"client_id"`
	PropertyType string `form:"property_type"`
	ActiveOnly   bool   `form:"active_only"`
}

// SeasonalRateRequest carries dates as ISO strings (2006-01-02), the format
// the admin API speaks.
type SeasonalRateRequest struct {
	TariffID        string          `json:"tariff_id"`
	Name            string          `json:"name"`
	StartDate       string          `json:"start_date"`
	EndDate         string          `json:"end_date"`
	AdjustmentType  AdjustmentType  `json:"adjustment_type"`
	AdjustmentValue decimal.Decimal `json:"adjustment_value"`
	IsActive        *bool           `json:"is_active,omitempty"`
}

type BulkDiscountRequest struct {
	TariffID      string           `json:"tariff_id"`
	MinVolume     decimal.Decimal  `json:"min_volume"`
	MaxVolume     *decimal.Decimal `json:"max_volume,omitempty"`
	DiscountType  AdjustmentType   `json:"discount_type"`
	DiscountValue decimal.Decimal  `json:"discount_value"`
	IsActive      *bool            `json:"is_active,omitempty"`
}

type DynamicRuleRequest struct {
	TariffID          string           `json:"tariff_id"`
	Name              string           `json:"name"`
	RuleType          RuleType         `json:"rule_type"`
	Conditions        json.RawMessage  `json:"conditions"`
	DiscountType      AdjustmentType   `json:"discount_type"`
	DiscountValue     decimal.Decimal  `json:"discount_value"`
	Priority          int              `json:"priority"`
	IsActive          *bool            `json:"is_active,omitempty"`
	StartDate         string           `json:"start_date,omitempty"`
	EndDate           string           `json:"end_date,omitempty"`
	MaxDiscountAmount *decimal.Decimal `json:"max_discount_amount,omitempty"`
}
