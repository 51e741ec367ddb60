package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/indowater/tirta/internal/clock"
	"github.com/indowater/tirta/internal/property/domain"
	"github.com/indowater/tirta/internal/property/repository"
	tariffdomain "github.com/indowater/tirta/internal/tariff/domain"
	tariffrepo "github.com/indowater/tirta/internal/tariff/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (domain.Service, *gorm.DB, *snowflake.Node, *clock.FakeClock) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&domain.Property{},
		&domain.PropertyTariff{},
		&tariffdomain.Tariff{},
	)
	require.NoError(t, err)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2026, time.July, 15, 10, 0, 0, 0, time.UTC))

	svc := New(Params{
		DB:      db,
		Log:     zap.NewNop(),
		GenID:   node,
		Clock:   fake,
		Repo:    repository.Provide(),
		Tariffs: tariffrepo.Provide(),
	})
	return svc, db, node, fake
}

func seedTariff(t *testing.T, db *gorm.DB, node *snowflake.Node, propertyType string) tariffdomain.Tariff {
	t.Helper()

	tariff := tariffdomain.Tariff{
		ID:           node.Generate(),
		ClientID:     node.Generate(),
		PropertyType: propertyType,
		Name:         propertyType + " tariff",
		IsActive:     true,
	}
	require.NoError(t, db.Create(&tariff).Error)
	return tariff
}

func createProperty(t *testing.T, svc domain.Service, node *snowflake.Node) *domain.Property {
	t.Helper()

	property, err := svc.Create(context.Background(), domain.CreatePropertyRequest{
		ClientID:     node.Generate().String(),
		CustomerID:   node.Generate().String(),
		Name:         "Rumah Pak Budi",
		City:         "Bandung",
		PropertyType: "residential",
	})
	require.NoError(t, err)
	return property
}

func TestAssignTariff(t *testing.T) {
	svc, db, node, _ := newTestService(t)
	ctx := context.Background()

	property := createProperty(t, svc, node)
	tariff := seedTariff(t, db, node, "residential")

	assignment, err := svc.AssignTariff(ctx, domain.AssignTariffRequest{
		PropertyID:    property.ID.String(),
		TariffID:      tariff.ID.String(),
		EffectiveFrom: "2026-01-01",
		EffectiveTo:   "2026-12-31",
	})
	require.NoError(t, err)
	assert.Equal(t, tariff.ID, assignment.TariffID)
}

func TestAssignTariff_PropertyTypeMismatch(t *testing.T) {
	svc, db, node, _ := newTestService(t)

	property := createProperty(t, svc, node)
	tariff := seedTariff(t, db, node, "industrial")

	_, err := svc.AssignTariff(context.Background(), domain.AssignTariffRequest{
		PropertyID:    property.ID.String(),
		TariffID:      tariff.ID.String(),
		EffectiveFrom: "2026-01-01",
	})
	assert.ErrorIs(t, err, domain.ErrPropertyTypeMismatch)
}

func TestAssignTariff_OverlapRejected(t *testing.T) {
	svc, db, node, _ := newTestService(t)
	ctx := context.Background()

	property := createProperty(t, svc, node)
	tariff := seedTariff(t, db, node, "residential")

	_, err := svc.AssignTariff(ctx, domain.AssignTariffRequest{
		PropertyID:    property.ID.String(),
		TariffID:      tariff.ID.String(),
		EffectiveFrom: "2026-01-01",
		EffectiveTo:   "2026-06-30",
	})
	require.NoError(t, err)

	// Same day on both sides of the boundary is a conflict.
	_, err = svc.AssignTariff(ctx, domain.AssignTariffRequest{
		PropertyID:    property.ID.String(),
		TariffID:      tariff.ID.String(),
		EffectiveFrom: "2026-06-30",
	})
	assert.ErrorIs(t, err, domain.ErrOverlappingWindows)

	// An open-ended window starting after the closed one is fine.
	_, err = svc.AssignTariff(ctx, domain.AssignTariffRequest{
		PropertyID:    property.ID.String(),
		TariffID:      tariff.ID.String(),
		EffectiveFrom: "2026-07-01",
	})
	assert.NoError(t, err)
}

func TestTariffForProperty(t *testing.T) {
	svc, db, node, fake := newTestService(t)
	ctx := context.Background()

	property := createProperty(t, svc, node)
	oldTariff := seedTariff(t, db, node, "residential")
	newTariff := seedTariff(t, db, node, "residential")

	_, err := svc.AssignTariff(ctx, domain.AssignTariffRequest{
		PropertyID:    property.ID.String(),
		TariffID:      oldTariff.ID.String(),
		EffectiveFrom: "2026-01-01",
		EffectiveTo:   "2026-06-30",
	})
	require.NoError(t, err)
	_, err = svc.AssignTariff(ctx, domain.AssignTariffRequest{
		PropertyID:    property.ID.String(),
		TariffID:      newTariff.ID.String(),
		EffectiveFrom: "2026-07-01",
	})
	require.NoError(t, err)

	// Mid July: the open-ended assignment governs.
	current, err := svc.TariffForProperty(ctx, property.ID.String())
	require.NoError(t, err)
	assert.Equal(t, newTariff.ID, current.TariffID)

	// Before any window there is no governing tariff.
	fake.Advance(-200 * 24 * time.Hour)
	_, err = svc.TariffForProperty(ctx, property.ID.String())
	assert.ErrorIs(t, err, domain.ErrNoActiveAssignment)
}

func TestCreateProperty_Validation(t *testing.T) {
	svc, _, node, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreatePropertyRequest{
		ClientID:     "abc",
		CustomerID:   node.Generate().String(),
		Name:         "x",
		PropertyType: "residential",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidClient)

	_, err = svc.Create(ctx, domain.CreatePropertyRequest{
		ClientID:     node.Generate().String(),
		CustomerID:   node.Generate().String(),
		Name:         "x",
		PropertyType: "castle",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPropertyType)
}
