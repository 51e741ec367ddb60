package engine

import (
	"sort"
	"time"

	pricingdomain "github.com/indowater/tirta/internal/pricing/domain"
	tariffdomain "github.com/indowater/tirta/internal/tariff/domain"
	"github.com/shopspring/decimal"
)

var percentBase = decimal.NewFromInt(100)

// adjustmentAmount converts an adjustment into a monetary amount against the
// base price. Percentage adjustments are base*value/100; fixed adjustments
// are the value itself.
func adjustmentAmount(kind tariffdomain.AdjustmentType, value, base decimal.Decimal) decimal.Decimal {
	if kind == tariffdomain.AdjustmentPercentage {
		return base.Mul(value).Div(percentBase)
	}
	return value
}

// selectSeasonalRate returns the first active rate, in ascending start-date
// order, whose window contains the evaluation date. Windows are inclusive at
// both ends; a date equal to either bound matches. At most one rate applies.
func selectSeasonalRate(rates []tariffdomain.SeasonalRate, base decimal.Decimal, now time.Time) *pricingdomain.Discount {
	day := now.Truncate(24 * time.Hour)

	for i := range rates {
		rate := &rates[i]
		if !rate.IsActive {
			continue
		}
		if day.Before(rate.StartDate.Truncate(24*time.Hour)) || day.After(rate.EndDate.Truncate(24*time.Hour)) {
			continue
		}
		return &pricingdomain.Discount{
			Type:     pricingdomain.SourceSeasonalRate,
			SourceID: rate.ID,
			Name:     rate.Name,
			Amount:   adjustmentAmount(rate.AdjustmentType, rate.AdjustmentValue, base),
		}
	}
	return nil
}

// selectBulkDiscount returns the first active tier, in ascending min-volume
// order, whose volume band contains the consumed volume. Bounds are
// inclusive; a nil max is open-ended.
func selectBulkDiscount(tiers []tariffdomain.BulkDiscountTier, base, volume decimal.Decimal) *pricingdomain.Discount {
	for i := range tiers {
		tier := &tiers[i]
		if !tier.IsActive {
			continue
		}
		if volume.LessThan(tier.MinVolume) {
			continue
		}
		if tier.MaxVolume != nil && volume.GreaterThan(*tier.MaxVolume) {
			continue
		}
		return &pricingdomain.Discount{
			Type:      pricingdomain.SourceBulkDiscount,
			SourceID:  tier.ID,
			MinVolume: &tier.MinVolume,
			MaxVolume: tier.MaxVolume,
			Amount:    adjustmentAmount(tier.DiscountType, tier.DiscountValue, base),
		}
	}
	return nil
}

// selectDynamicDiscount evaluates rules in descending priority order and
// returns the first rule that is active, inside its date window, and whose
// conditions hold for the evaluation context. Rules with equal priority tie
// break on name so selection never depends on storage order.
func selectDynamicDiscount(rules []tariffdomain.DynamicDiscountRule, base decimal.Decimal, evalCtx Context) *pricingdomain.Discount {
	ordered := make([]tariffdomain.DynamicDiscountRule, len(rules))
	copy(ordered, rules)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Priority != ordered[j].Priority {
			return ordered[i].Priority > ordered[j].Priority
		}
		return ordered[i].Name < ordered[j].Name
	})

	for i := range ordered {
		rule := &ordered[i]
		if !rule.IsActive {
			continue
		}
		if rule.StartDate != nil && evalCtx.Now.Before(*rule.StartDate) {
			continue
		}
		if rule.EndDate != nil && evalCtx.Now.After(*rule.EndDate) {
			continue
		}
		if !EvaluateConditions(rule, evalCtx) {
			continue
		}

		amount := adjustmentAmount(rule.DiscountType, rule.DiscountValue, base)
		if rule.MaxDiscountAmount != nil && amount.GreaterThan(*rule.MaxDiscountAmount) {
			amount = *rule.MaxDiscountAmount
		}
		return &pricingdomain.Discount{
			Type:     pricingdomain.SourceDynamicDiscount,
			SourceID: rule.ID,
			Name:     rule.Name,
			RuleType: rule.RuleType,
			Amount:   amount,
		}
	}
	return nil
}
