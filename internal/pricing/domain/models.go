// Package domain defines the pricing engine's result types and the
// applied-discount ledger model.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	tariffdomain "github.com/indowater/tirta/internal/tariff/domain"
	"github.com/shopspring/decimal"
)

// DiscountSourceType names the overlay category a discount came from.
type DiscountSourceType string

const (
	SourceSeasonalRate    DiscountSourceType = "seasonal_rate"
	SourceBulkDiscount    DiscountSourceType = "bulk_discount"
	SourceDynamicDiscount DiscountSourceType = "dynamic_discount"
)

// Discount is one deduction in a price breakdown. At most one per category
// is ever present; the three categories stack additively.
type Discount struct {
	Type      DiscountSourceType    `json:"type"`
	SourceID  snowflake.ID          `json:"source_id"`
	Name      string                `json:"name,omitempty"`
	RuleType  tariffdomain.RuleType `json:"rule_type,omitempty"`
	MinVolume *decimal.Decimal      `json:"min_volume,omitempty"`
	MaxVolume *decimal.Decimal      `json:"max_volume,omitempty"`
	Amount    decimal.Decimal       `json:"amount"`
}

// Breakdown is the full result of a price calculation. Identical inputs and
// configuration always produce an identical breakdown.
type Breakdown struct {
	TariffID   snowflake.ID    `json:"tariff_id"`
	TariffName string          `json:"tariff_name"`
	Volume     decimal.Decimal `json:"volume"`
	BasePrice  decimal.Decimal `json:"base_price"`
	Discounts  []Discount      `json:"discounts"`
	FinalPrice decimal.Decimal `json:"final_price"`
}

// AppliedDiscount is the immutable ledger row recording a discount actually
// used in a billed transaction. The (payment, source type, source) tuple is
// unique; re-recording it is a no-op, never a second row.
type AppliedDiscount struct {
	ID                 snowflake.ID       `json:"id" gorm:"primaryKey"`
	CustomerID         snowflake.ID       `json:"customer_id" gorm:"not null;index"`
	MeterID            snowflake.ID       `json:"meter_id" gorm:"not null;index"`
	ReadingID          snowflake.ID       `json:"reading_id" gorm:"not null"`
	PaymentID          snowflake.ID       `json:"payment_id" gorm:"not null;uniqueIndex:ux_applied_discounts_tuple,priority:1"`
	DiscountSourceType DiscountSourceType `json:"discount_source_type" gorm:"type:text;not null;uniqueIndex:ux_applied_discounts_tuple,priority:2"`
	DiscountSourceID   snowflake.ID       `json:"discount_source_id" gorm:"not null;uniqueIndex:ux_applied_discounts_tuple,priority:3"`
	OriginalAmount     decimal.Decimal    `json:"original_amount" gorm:"type:numeric;not null"`
	DiscountAmount     decimal.Decimal    `json:"discount_amount" gorm:"type:numeric;not null"`
	FinalAmount        decimal.Decimal    `json:"final_amount" gorm:"type:numeric;not null"`
	AppliedAt          time.Time          `json:"applied_at" gorm:"not null"`
	CreatedAt          time.Time          `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (AppliedDiscount) TableName() string { return "applied_discounts" }
