package engine

import (
	"time"

	tariffdomain "github.com/indowater/tirta/internal/tariff/domain"
)

const dateLayout = "2006-01-02"

// EvaluateConditions reports whether a rule's conditions hold for the given
// context. A payload that fails to parse disqualifies the rule rather than
// failing the calculation, so a bad row can never grant a discount.
func EvaluateConditions(rule *tariffdomain.DynamicDiscountRule, evalCtx Context) bool {
	conds, err := tariffdomain.ParseConditions(rule.RuleType, rule.Conditions)
	if err != nil {
		return false
	}

	if conds.Time != nil && !matchTime(conds.Time, evalCtx.Now) {
		return false
	}
	if conds.Volume != nil && !matchVolume(conds.Volume, evalCtx) {
		return false
	}
	if conds.Customer != nil && !matchCustomer(conds.Customer, evalCtx) {
		return false
	}
	if conds.Inventory != nil && !matchInventory(conds.Inventory, evalCtx) {
		return false
	}
	return true
}

func matchTime(c *tariffdomain.TimeConditions, now time.Time) bool {
	if c.TimeRange != nil {
		hour := now.Hour()
		if hour < c.TimeRange.Start || hour >= c.TimeRange.End {
			return false
		}
	}

	if len(c.DaysOfWeek) > 0 {
		today := now.Weekday().String()
		if !containsString(c.DaysOfWeek, today) {
			return false
		}
	}

	if len(c.Months) > 0 {
		month := int(now.Month())
		found := false
		for _, m := range c.Months {
			if m == month {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if len(c.SpecificDates) > 0 {
		if !containsString(c.SpecificDates, now.Format(dateLayout)) {
			return false
		}
	}

	return true
}

func matchVolume(c *tariffdomain.VolumeConditions, evalCtx Context) bool {
	if c.MinVolume != nil && evalCtx.Volume.LessThan(*c.MinVolume) {
		return false
	}
	if c.MaxVolume != nil && evalCtx.Volume.GreaterThan(*c.MaxVolume) {
		return false
	}
	return true
}

func matchCustomer(c *tariffdomain.CustomerConditions, evalCtx Context) bool {
	customer := evalCtx.Customer
	if customer == nil {
		return false
	}

	if c.CustomerSince != "" {
		since, err := time.Parse(dateLayout, c.CustomerSince)
		if err != nil {
			return false
		}
		if customer.CreatedAt.After(since) {
			return false
		}
	}
	if c.City != "" && customer.City != c.City {
		return false
	}
	if c.Province != "" && customer.Province != c.Province {
		return false
	}
	return true
}

func matchInventory(c *tariffdomain.InventoryConditions, evalCtx Context) bool {
	meter := evalCtx.Meter
	if meter == nil {
		return false
	}

	if c.MeterType != "" && meter.MeterType != c.MeterType {
		return false
	}
	if c.MeterModel != "" && meter.MeterModel != c.MeterModel {
		return false
	}
	return true
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
