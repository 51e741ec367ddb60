package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func mustDec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func mustDecPtr(s string) *decimal.Decimal {
	d := mustDec(s)
	return &d
}

func TestDateRangesOverlap(t *testing.T) {
	// Plain intersection.
	assert.True(t, DateRangesOverlap(date(2026, 1, 1), datePtr(2026, 6, 30), date(2026, 6, 1), datePtr(2026, 12, 31)))

	// Disjoint.
	assert.False(t, DateRangesOverlap(date(2026, 1, 1), datePtr(2026, 3, 31), date(2026, 4, 1), datePtr(2026, 6, 30)))

	// Touching at a shared day counts as overlap: bounds are inclusive.
	assert.True(t, DateRangesOverlap(date(2026, 1, 1), datePtr(2026, 3, 31), date(2026, 3, 31), datePtr(2026, 6, 30)))

	// Open-ended ranges overlap everything at or after their start.
	assert.True(t, DateRangesOverlap(date(2026, 1, 1), nil, date(2030, 1, 1), nil))
	assert.False(t, DateRangesOverlap(date(2026, 6, 1), nil, date(2026, 1, 1), datePtr(2026, 5, 31)))

	// Symmetric.
	assert.Equal(t,
		DateRangesOverlap(date(2026, 1, 1), datePtr(2026, 3, 31), date(2026, 2, 1), nil),
		DateRangesOverlap(date(2026, 2, 1), nil, date(2026, 1, 1), datePtr(2026, 3, 31)))
}

func TestVolumeRangesOverlap(t *testing.T) {
	assert.True(t, VolumeRangesOverlap(mustDec("0"), mustDecPtr("100"), mustDec("50"), mustDecPtr("200")))
	assert.False(t, VolumeRangesOverlap(mustDec("0"), mustDecPtr("99"), mustDec("100"), mustDecPtr("200")))

	// [0,100] and [100,200] share the point 100.
	assert.True(t, VolumeRangesOverlap(mustDec("0"), mustDecPtr("100"), mustDec("100"), mustDecPtr("200")))

	// Unbounded above.
	assert.True(t, VolumeRangesOverlap(mustDec("50"), nil, mustDec("1000"), nil))
	assert.False(t, VolumeRangesOverlap(mustDec("50"), nil, mustDec("0"), mustDecPtr("49")))
}

func TestFindOverlappingSeasonalRate(t *testing.T) {
	existing := []SeasonalRate{
		{ID: 1, StartDate: date(2026, 1, 1), EndDate: date(2026, 3, 31), IsActive: true},
		{ID: 2, StartDate: date(2026, 6, 1), EndDate: date(2026, 9, 30), IsActive: false},
	}

	// Hits the active January window.
	hit := FindOverlappingSeasonalRate(existing, date(2026, 3, 1), date(2026, 4, 30), 0)
	require.NotNil(t, hit)
	assert.EqualValues(t, 1, hit.ID)

	// The inactive June window never conflicts.
	assert.Nil(t, FindOverlappingSeasonalRate(existing, date(2026, 7, 1), date(2026, 7, 31), 0))

	// A record never conflicts with itself on update.
	assert.Nil(t, FindOverlappingSeasonalRate(existing, date(2026, 2, 1), date(2026, 2, 28), 1))
}

func TestFindOverlappingBulkDiscount(t *testing.T) {
	existing := []BulkDiscountTier{
		{ID: 1, MinVolume: mustDec("0"), MaxVolume: mustDecPtr("100"), IsActive: true},
		{ID: 2, MinVolume: mustDec("200"), MaxVolume: nil, IsActive: true},
	}

	hit := FindOverlappingBulkDiscount(existing, mustDec("100"), mustDecPtr("150"), 0)
	require.NotNil(t, hit)
	assert.EqualValues(t, 1, hit.ID)

	assert.Nil(t, FindOverlappingBulkDiscount(existing, mustDec("101"), mustDecPtr("199"), 0))

	// Anything open above collides with the open tier.
	hit = FindOverlappingBulkDiscount(existing, mustDec("150"), nil, 0)
	require.NotNil(t, hit)
	assert.EqualValues(t, 2, hit.ID)
}

func TestValidateTiers(t *testing.T) {
	ok := []TariffTier{
		{MinVolume: mustDec("0"), MaxVolume: mustDecPtr("10"), PricePerUnit: mustDec("2")},
		{MinVolume: mustDec("10"), MaxVolume: mustDecPtr("20"), PricePerUnit: mustDec("3")},
		{MinVolume: mustDec("20"), PricePerUnit: mustDec("5")},
	}
	assert.NoError(t, ValidateTiers(ok))

	assert.ErrorIs(t, ValidateTiers(nil), ErrInvalidTiers)

	// First band must start at zero.
	assert.ErrorIs(t, ValidateTiers([]TariffTier{
		{MinVolume: mustDec("5"), PricePerUnit: mustDec("2")},
	}), ErrInvalidTiers)

	// Gap between bands.
	assert.ErrorIs(t, ValidateTiers([]TariffTier{
		{MinVolume: mustDec("0"), MaxVolume: mustDecPtr("10"), PricePerUnit: mustDec("2")},
		{MinVolume: mustDec("15"), PricePerUnit: mustDec("3")},
	}), ErrInvalidTiers)

	// Only the last band may be unbounded.
	assert.ErrorIs(t, ValidateTiers([]TariffTier{
		{MinVolume: mustDec("0"), PricePerUnit: mustDec("2")},
		{MinVolume: mustDec("10"), PricePerUnit: mustDec("3")},
	}), ErrInvalidTiers)

	// Empty band.
	assert.ErrorIs(t, ValidateTiers([]TariffTier{
		{MinVolume: mustDec("0"), MaxVolume: mustDecPtr("0"), PricePerUnit: mustDec("2")},
	}), ErrInvalidTiers)

	// Negative price.
	assert.ErrorIs(t, ValidateTiers([]TariffTier{
		{MinVolume: mustDec("0"), PricePerUnit: mustDec("-1")},
	}), ErrInvalidTiers)
}
