package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// DateRangesOverlap reports whether two date ranges intersect. Both ends are
// inclusive; a nil end means the range is open above. The predicate is the
// symmetric form of the window check the write paths enforce:
// a overlaps b iff (aEnd == nil || aEnd >= bStart) && (bEnd == nil || bEnd >= aStart).
func DateRangesOverlap(aStart time.Time, aEnd *time.Time, bStart time.Time, bEnd *time.Time) bool {
	if aEnd != nil && aEnd.Before(bStart) {
		return false
	}
	if bEnd != nil && bEnd.Before(aStart) {
		return false
	}
	return true
}

// VolumeRangesOverlap reports whether two volume ranges intersect. Bounds are
// inclusive, so ranges touching at a shared endpoint overlap; nil max is
// unbounded.
func VolumeRangesOverlap(aMin decimal.Decimal, aMax *decimal.Decimal, bMin decimal.Decimal, bMax *decimal.Decimal) bool {
	if aMax != nil && aMax.LessThan(bMin) {
		return false
	}
	if bMax != nil && bMax.LessThan(aMin) {
		return false
	}
	return true
}

// FindOverlappingSeasonalRate returns the first active rate whose date window
// intersects [start, end], skipping excludeID (the record being updated).
func FindOverlappingSeasonalRate(existing []SeasonalRate, start, end time.Time, excludeID snowflake.ID) *SeasonalRate {
	for i := range existing {
		rate := &existing[i]
		if !rate.IsActive || rate.ID == excludeID {
			continue
		}
		endDate := rate.EndDate
		if DateRangesOverlap(start, &end, rate.StartDate, &endDate) {
			return rate
		}
	}
	return nil
}

// FindOverlappingBulkDiscount returns the first active bulk tier whose volume
// range intersects [min, max], skipping excludeID.
func FindOverlappingBulkDiscount(existing []BulkDiscountTier, min decimal.Decimal, max *decimal.Decimal, excludeID snowflake.ID) *BulkDiscountTier {
	for i := range existing {
		tier := &existing[i]
		if !tier.IsActive || tier.ID == excludeID {
			continue
		}
		if VolumeRangesOverlap(min, max, tier.MinVolume, tier.MaxVolume) {
			return tier
		}
	}
	return nil
}

// ValidateTiers checks the engine's assumptions about a tariff's tier list:
// ascending, contiguous, non-overlapping bands with only the last one
// unbounded. The calculator itself does not re-validate.
func ValidateTiers(tiers []TariffTier) error {
	if len(tiers) == 0 {
		return ErrInvalidTiers
	}

	for i := range tiers {
		tier := &tiers[i]
		if tier.MinVolume.IsNegative() || tier.PricePerUnit.IsNegative() {
			return ErrInvalidTiers
		}
		if tier.MaxVolume == nil {
			if i != len(tiers)-1 {
				return ErrInvalidTiers
			}
			continue
		}
		if !tier.MaxVolume.GreaterThan(tier.MinVolume) {
			return ErrInvalidTiers
		}
		if i+1 < len(tiers) && !tiers[i+1].MinVolume.Equal(*tier.MaxVolume) {
			return ErrInvalidTiers
		}
	}

	if !tiers[0].MinVolume.IsZero() {
		return ErrInvalidTiers
	}
	return nil
}
