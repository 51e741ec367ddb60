package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/indowater/tirta/internal/clock"
	"github.com/indowater/tirta/internal/tariff/domain"
	"github.com/indowater/tirta/internal/tariff/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (domain.Service, *clock.FakeClock) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&domain.Tariff{},
		&domain.TariffTier{},
		&domain.SeasonalRate{},
		&domain.BulkDiscountTier{},
		&domain.DynamicDiscountRule{},
	)
	require.NoError(t, err)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC))

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: fake,
		Repo:  repository.Provide(),
	})
	return svc, fake
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func createTariff(t *testing.T, svc domain.Service) *domain.Tariff {
	t.Helper()

	tariff, err := svc.CreateTariff(context.Background(), domain.CreateTariffRequest{
		ClientID:     "1001",
		PropertyType: "residential",
		Name:         "Residential Standard",
		Tiers: []domain.TierInput{
			{MinVolume: dec("0"), MaxVolume: decPtr("10"), PricePerUnit: dec("2")},
			{MinVolume: dec("10"), PricePerUnit: dec("3")},
		},
	})
	require.NoError(t, err)
	return tariff
}

func TestCreateTariff(t *testing.T) {
	svc, _ := newTestService(t)

	tariff := createTariff(t, svc)
	assert.True(t, tariff.IsActive)
	assert.False(t, tariff.IsSeasonal)
	assert.Len(t, tariff.Tiers, 2)

	got, err := svc.GetTariff(context.Background(), tariff.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Residential Standard", got.Name)
	require.Len(t, got.Tiers, 2)
	assert.True(t, got.Tiers[0].MinVolume.Equal(dec("0")))
}

func TestCreateTariff_Validation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateTariff(ctx, domain.CreateTariffRequest{
		ClientID: "not-a-number", PropertyType: "residential", Name: "x",
		Tiers: []domain.TierInput{{MinVolume: dec("0"), PricePerUnit: dec("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidClient)

	_, err = svc.CreateTariff(ctx, domain.CreateTariffRequest{
		ClientID: "1001", PropertyType: "spaceport", Name: "x",
		Tiers: []domain.TierInput{{MinVolume: dec("0"), PricePerUnit: dec("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPropertyType)

	// Bands must start at zero and stay contiguous.
	_, err = svc.CreateTariff(ctx, domain.CreateTariffRequest{
		ClientID: "1001", PropertyType: "residential", Name: "x",
		Tiers: []domain.TierInput{
			{MinVolume: dec("0"), MaxVolume: decPtr("10"), PricePerUnit: dec("1")},
			{MinVolume: dec("15"), PricePerUnit: dec("2")},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTiers)
}

func TestSeasonalRate_OverlapRejected(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	tariff := createTariff(t, svc)

	first, err := svc.CreateSeasonalRate(ctx, domain.SeasonalRateRequest{
		TariffID:        tariff.ID.String(),
		Name:            "Dry Season",
		StartDate:       "2026-06-01",
		EndDate:         "2026-09-30",
		AdjustmentType:  domain.AdjustmentPercentage,
		AdjustmentValue: dec("10"),
	})
	require.NoError(t, err)
	require.NotNil(t, first)

	// Admitting the first overlay flips the tariff flag exactly once.
	got, err := svc.GetTariff(ctx, tariff.ID.String())
	require.NoError(t, err)
	assert.True(t, got.IsSeasonal)

	// A window touching the existing end date is still a conflict.
	_, err = svc.CreateSeasonalRate(ctx, domain.SeasonalRateRequest{
		TariffID:        tariff.ID.String(),
		Name:            "Late Season",
		StartDate:       "2026-09-30",
		EndDate:         "2026-12-31",
		AdjustmentType:  domain.AdjustmentPercentage,
		AdjustmentValue: dec("5"),
	})
	assert.ErrorIs(t, err, domain.ErrOverlappingDates)

	// A disjoint window is fine.
	_, err = svc.CreateSeasonalRate(ctx, domain.SeasonalRateRequest{
		TariffID:        tariff.ID.String(),
		Name:            "Late Season",
		StartDate:       "2026-10-01",
		EndDate:         "2026-12-31",
		AdjustmentType:  domain.AdjustmentPercentage,
		AdjustmentValue: dec("5"),
	})
	assert.NoError(t, err)

	// Updating a rate does not conflict with itself.
	_, err = svc.UpdateSeasonalRate(ctx, first.ID.String(), domain.SeasonalRateRequest{
		TariffID:        tariff.ID.String(),
		Name:            "Dry Season Extended",
		StartDate:       "2026-06-01",
		EndDate:         "2026-09-15",
		AdjustmentType:  domain.AdjustmentPercentage,
		AdjustmentValue: dec("12"),
	})
	assert.NoError(t, err)
}

func TestBulkDiscount_OverlapRejected(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	tariff := createTariff(t, svc)

	_, err := svc.CreateBulkDiscount(ctx, domain.BulkDiscountRequest{
		TariffID:      tariff.ID.String(),
		MinVolume:     dec("0"),
		MaxVolume:     decPtr("100"),
		DiscountType:  domain.AdjustmentPercentage,
		DiscountValue: dec("5"),
	})
	require.NoError(t, err)

	got, err := svc.GetTariff(ctx, tariff.ID.String())
	require.NoError(t, err)
	assert.True(t, got.HasBulkDiscount)

	// [100, 200] shares the point 100 with [0, 100].
	_, err = svc.CreateBulkDiscount(ctx, domain.BulkDiscountRequest{
		TariffID:      tariff.ID.String(),
		MinVolume:     dec("100"),
		MaxVolume:     decPtr("200"),
		DiscountType:  domain.AdjustmentPercentage,
		DiscountValue: dec("10"),
	})
	assert.ErrorIs(t, err, domain.ErrOverlappingVolumes)

	_, err = svc.CreateBulkDiscount(ctx, domain.BulkDiscountRequest{
		TariffID:      tariff.ID.String(),
		MinVolume:     dec("101"),
		DiscountType:  domain.AdjustmentPercentage,
		DiscountValue: dec("10"),
	})
	assert.NoError(t, err)
}

func TestDynamicRule_ConditionsValidatedAtAdmission(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	tariff := createTariff(t, svc)

	_, err := svc.CreateDynamicRule(ctx, domain.DynamicRuleRequest{
		TariffID:      tariff.ID.String(),
		Name:          "Night Owl",
		RuleType:      domain.RuleTimeBased,
		Conditions:    []byte(`{"time_range":{"start":25,"end":6}}`),
		DiscountType:  domain.AdjustmentPercentage,
		DiscountValue: dec("10"),
	})
	assert.ErrorIs(t, err, domain.ErrMalformedConditions)

	_, err = svc.CreateDynamicRule(ctx, domain.DynamicRuleRequest{
		TariffID:      tariff.ID.String(),
		Name:          "Night Owl",
		RuleType:      domain.RuleType("loyalty_points"),
		Conditions:    []byte(`{}`),
		DiscountType:  domain.AdjustmentPercentage,
		DiscountValue: dec("10"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidRuleType)

	rule, err := svc.CreateDynamicRule(ctx, domain.DynamicRuleRequest{
		TariffID:      tariff.ID.String(),
		Name:          "Night Owl",
		RuleType:      domain.RuleTimeBased,
		Conditions:    []byte(`{"time_range":{"start":22,"end":6}}`),
		DiscountType:  domain.AdjustmentPercentage,
		DiscountValue: dec("10"),
		Priority:      5,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, rule.Priority)

	got, err := svc.GetTariff(ctx, tariff.ID.String())
	require.NoError(t, err)
	assert.True(t, got.HasDynamicDiscount)
}

func TestDeleteTariff_SoftDelete(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	tariff := createTariff(t, svc)

	require.NoError(t, svc.DeleteTariff(ctx, tariff.ID.String()))

	_, err := svc.GetTariff(ctx, tariff.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetTariffComplete_Snapshot(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	tariff := createTariff(t, svc)

	_, err := svc.CreateSeasonalRate(ctx, domain.SeasonalRateRequest{
		TariffID:        tariff.ID.String(),
		Name:            "Dry Season",
		StartDate:       "2026-06-01",
		EndDate:         "2026-09-30",
		AdjustmentType:  domain.AdjustmentFixed,
		AdjustmentValue: dec("500"),
	})
	require.NoError(t, err)

	snap, err := svc.GetTariffComplete(ctx, tariff.ID.String())
	require.NoError(t, err)
	assert.Len(t, snap.Tiers, 2)
	require.Len(t, snap.SeasonalRates, 1)
	assert.Equal(t, "Dry Season", snap.SeasonalRates[0].Name)
	assert.Empty(t, snap.BulkDiscounts)
	assert.Empty(t, snap.DynamicRules)
}
