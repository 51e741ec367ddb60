// Package engine is the pure price calculation core. It operates on an
// immutable tariff snapshot and an evaluation context and performs no I/O,
// so concurrent calculations never interfere.
package engine

import (
	"time"

	customerdomain "github.com/indowater/tirta/internal/customer/domain"
	meterdomain "github.com/indowater/tirta/internal/meter/domain"
	pricingdomain "github.com/indowater/tirta/internal/pricing/domain"
	tariffdomain "github.com/indowater/tirta/internal/tariff/domain"
	"github.com/shopspring/decimal"
)

// Context bundles everything a calculation may read besides the tariff
// snapshot. Customer and Meter may be nil, in which case dynamic discount
// rules are skipped.
type Context struct {
	Volume   decimal.Decimal
	Customer *customerdomain.Customer
	Meter    *meterdomain.Meter
	Now      time.Time
}

// Calculate prices a volume against a tariff snapshot: tier-walked base
// price, minimum-charge floor, then the seasonal, bulk and dynamic selectors
// in that fixed order. Each selector deducts against the base price, not the
// running total, and the final price is clamped at zero.
func Calculate(snap *tariffdomain.Snapshot, evalCtx Context) pricingdomain.Breakdown {
	base := BaseCharge(snap.Tiers, evalCtx.Volume)
	base = applyMinimumCharge(&snap.Tariff, base)

	final := base
	var discounts []pricingdomain.Discount

	if snap.Tariff.IsSeasonal {
		if d := selectSeasonalRate(snap.SeasonalRates, base, evalCtx.Now); d != nil {
			discounts = append(discounts, *d)
			final = final.Sub(d.Amount)
		}
	}

	if snap.Tariff.HasBulkDiscount {
		if d := selectBulkDiscount(snap.BulkDiscounts, base, evalCtx.Volume); d != nil {
			discounts = append(discounts, *d)
			final = final.Sub(d.Amount)
		}
	}

	if snap.Tariff.HasDynamicDiscount && evalCtx.Customer != nil && evalCtx.Meter != nil {
		if d := selectDynamicDiscount(snap.DynamicRules, base, evalCtx); d != nil {
			discounts = append(discounts, *d)
			final = final.Sub(d.Amount)
		}
	}

	if final.IsNegative() {
		final = decimal.Zero
	}

	return pricingdomain.Breakdown{
		TariffID:   snap.Tariff.ID,
		TariffName: snap.Tariff.Name,
		Volume:     evalCtx.Volume,
		BasePrice:  base,
		Discounts:  discounts,
		FinalPrice: final,
	}
}

// BaseCharge walks the ordered tiers and accumulates the volumetric charge.
// Tiers are assumed ascending, contiguous and non-overlapping; an unbounded
// tier absorbs all remaining volume.
func BaseCharge(tiers []tariffdomain.TariffTier, volume decimal.Decimal) decimal.Decimal {
	base := decimal.Zero
	remaining := volume

	for i := range tiers {
		tier := &tiers[i]
		if remaining.Sign() <= 0 {
			break
		}

		span := remaining
		if tier.MaxVolume != nil {
			capacity := tier.MaxVolume.Sub(tier.MinVolume)
			if capacity.LessThan(span) {
				span = capacity
			}
		}

		if span.Sign() > 0 {
			base = base.Add(span.Mul(tier.PricePerUnit))
			remaining = remaining.Sub(span)
		}
	}

	return base
}

func applyMinimumCharge(tariff *tariffdomain.Tariff, base decimal.Decimal) decimal.Decimal {
	if tariff.HasMinimumCharge && base.LessThan(tariff.MinimumChargeAmount) {
		return tariff.MinimumChargeAmount
	}
	return base
}
