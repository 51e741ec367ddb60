package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/indowater/tirta/internal/clock"
	customerdomain "github.com/indowater/tirta/internal/customer/domain"
	customerrepo "github.com/indowater/tirta/internal/customer/repository"
	meterdomain "github.com/indowater/tirta/internal/meter/domain"
	meterrepo "github.com/indowater/tirta/internal/meter/repository"
	"github.com/indowater/tirta/internal/metrics"
	"github.com/indowater/tirta/internal/pricing/domain"
	tariffdomain "github.com/indowater/tirta/internal/tariff/domain"
	tariffrepo "github.com/indowater/tirta/internal/tariff/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type fixture struct {
	svc      domain.Service
	db       *gorm.DB
	node     *snowflake.Node
	clock    *clock.FakeClock
	tariff   tariffdomain.Tariff
	customer customerdomain.Customer
	meter    meterdomain.Meter
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

var testMetrics = metrics.New()

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&tariffdomain.Tariff{},
		&tariffdomain.TariffTier{},
		&tariffdomain.SeasonalRate{},
		&tariffdomain.BulkDiscountTier{},
		&tariffdomain.DynamicDiscountRule{},
		&customerdomain.Customer{},
		&meterdomain.Meter{},
		&domain.AppliedDiscount{},
	)
	require.NoError(t, err)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2026, time.July, 15, 10, 0, 0, 0, time.UTC))

	f := &fixture{
		db:    db,
		node:  node,
		clock: fake,
	}

	f.svc = New(Params{
		DB:        db,
		Log:       zap.NewNop(),
		GenID:     node,
		Clock:     fake,
		Metrics:   testMetrics,
		Tariffs:   tariffrepo.Provide(),
		Customers: customerrepo.Provide(),
		Meters:    meterrepo.Provide(),
	})

	// Progressive tiers: 0-10 at 2000, above 10 at 3000.
	f.tariff = tariffdomain.Tariff{
		ID:           node.Generate(),
		ClientID:     node.Generate(),
		PropertyType: "residential",
		Name:         "Residential Standard",
		IsActive:     true,
	}
	require.NoError(t, db.Create(&f.tariff).Error)
	ten := dec("10")
	require.NoError(t, db.Create(&[]tariffdomain.TariffTier{
		{ID: node.Generate(), TariffID: f.tariff.ID, MinVolume: dec("0"), MaxVolume: &ten, PricePerUnit: dec("2000")},
		{ID: node.Generate(), TariffID: f.tariff.ID, MinVolume: ten, PricePerUnit: dec("3000")},
	}).Error)

	f.customer = customerdomain.Customer{
		ID:       node.Generate(),
		ClientID: f.tariff.ClientID,
		Name:     "Ibu Sari",
		Email:    "sari@example.com",
		City:     "Bandung",
		Province: "Jawa Barat",
	}
	require.NoError(t, db.Create(&f.customer).Error)

	f.meter = meterdomain.Meter{
		ID:           node.Generate(),
		CustomerID:   f.customer.ID,
		SerialNumber: "MTR-0001",
		MeterType:    "smart",
		MeterModel:   "AX-100",
		Status:       "active",
	}
	require.NoError(t, db.Create(&f.meter).Error)

	return f
}

func TestCalculatePrice_Base(t *testing.T) {
	f := newFixture(t)

	got, err := f.svc.CalculatePrice(context.Background(), domain.CalculateRequest{
		TariffID: f.tariff.ID.String(),
		Volume:   dec("15"),
	})
	require.NoError(t, err)

	// 10*2000 + 5*3000
	assert.True(t, got.BasePrice.Equal(dec("35000")))
	assert.True(t, got.FinalPrice.Equal(dec("35000")))
	assert.Empty(t, got.Discounts)
}

func TestCalculatePrice_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CalculatePrice(ctx, domain.CalculateRequest{
		TariffID: f.tariff.ID.String(),
		Volume:   dec("-1"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidVolume)

	_, err = f.svc.CalculatePrice(ctx, domain.CalculateRequest{
		TariffID: f.node.Generate().String(),
		Volume:   dec("10"),
	})
	assert.ErrorIs(t, err, domain.ErrTariffNotFound)

	_, err = f.svc.CalculatePrice(ctx, domain.CalculateRequest{
		TariffID:   f.tariff.ID.String(),
		Volume:     dec("10"),
		CustomerID: f.node.Generate().String(),
		MeterID:    f.meter.ID.String(),
	})
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)

	_, err = f.svc.CalculatePrice(ctx, domain.CalculateRequest{
		TariffID:   f.tariff.ID.String(),
		Volume:     dec("10"),
		CustomerID: f.customer.ID.String(),
		MeterID:    f.node.Generate().String(),
	})
	assert.ErrorIs(t, err, domain.ErrMeterNotFound)
}

func TestCalculatePrice_DynamicDiscountWithIdentity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.db.Model(&tariffdomain.Tariff{}).
		Where("id = ?", f.tariff.ID).
		Update("has_dynamic_discount", true).Error)
	require.NoError(t, f.db.Create(&tariffdomain.DynamicDiscountRule{
		ID:            f.node.Generate(),
		TariffID:      f.tariff.ID,
		Name:          "Bandung Smart Meter",
		RuleType:      tariffdomain.RuleCombined,
		Conditions:    datatypes.JSON([]byte(`{"customer_based":{"city":"Bandung"},"inventory_based":{"meter_type":"smart"}}`)),
		DiscountType:  tariffdomain.AdjustmentPercentage,
		DiscountValue: dec("10"),
		Priority:      1,
		IsActive:      true,
	}).Error)

	// Without identity the rule is skipped.
	anon, err := f.svc.CalculatePrice(ctx, domain.CalculateRequest{
		TariffID: f.tariff.ID.String(),
		Volume:   dec("15"),
	})
	require.NoError(t, err)
	assert.Empty(t, anon.Discounts)

	got, err := f.svc.CalculatePrice(ctx, domain.CalculateRequest{
		TariffID:   f.tariff.ID.String(),
		Volume:     dec("15"),
		CustomerID: f.customer.ID.String(),
		MeterID:    f.meter.ID.String(),
	})
	require.NoError(t, err)
	require.Len(t, got.Discounts, 1)
	assert.True(t, got.Discounts[0].Amount.Equal(dec("3500")))
	assert.True(t, got.FinalPrice.Equal(dec("31500")))
}

func TestRecordAppliedDiscounts_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sourceID := f.node.Generate()
	breakdown := domain.Breakdown{
		TariffID:   f.tariff.ID,
		TariffName: f.tariff.Name,
		Volume:     dec("15"),
		BasePrice:  dec("35000"),
		Discounts: []domain.Discount{{
			Type:     domain.SourceSeasonalRate,
			SourceID: sourceID,
			Name:     "Dry Season",
			Amount:   dec("3500"),
		}},
		FinalPrice: dec("31500"),
	}

	req := domain.RecordRequest{
		CustomerID: f.customer.ID.String(),
		MeterID:    f.meter.ID.String(),
		ReadingID:  f.node.Generate().String(),
		PaymentID:  f.node.Generate().String(),
		Breakdown:  breakdown,
	}

	rows, err := f.svc.RecordAppliedDiscounts(ctx, req)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].DiscountAmount.Equal(dec("3500")))

	// Replaying the same payment inserts nothing new.
	_, err = f.svc.RecordAppliedDiscounts(ctx, req)
	require.NoError(t, err)

	var count int64
	require.NoError(t, f.db.Model(&domain.AppliedDiscount{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRecordAppliedDiscounts_BadReference(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.RecordAppliedDiscounts(context.Background(), domain.RecordRequest{
		CustomerID: "nope",
		MeterID:    f.meter.ID.String(),
		ReadingID:  f.node.Generate().String(),
		PaymentID:  f.node.Generate().String(),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidReference)
}
