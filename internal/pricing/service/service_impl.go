package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/indowater/tirta/internal/clock"
	customerdomain "github.com/indowater/tirta/internal/customer/domain"
	meterdomain "github.com/indowater/tirta/internal/meter/domain"
	"github.com/indowater/tirta/internal/metrics"
	"github.com/indowater/tirta/internal/pricing/domain"
	"github.com/indowater/tirta/internal/pricing/engine"
	tariffdomain "github.com/indowater/tirta/internal/tariff/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Metrics   *metrics.Metrics
	Tariffs   tariffdomain.Repository
	Customers customerdomain.Repository
	Meters    meterdomain.Repository
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	metrics   *metrics.Metrics
	tariffs   tariffdomain.Repository
	customers customerdomain.Repository
	meters    meterdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("pricing.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		metrics:   p.Metrics,
		tariffs:   p.Tariffs,
		customers: p.Customers,
		meters:    p.Meters,
	}
}

func (s *Service) CalculatePrice(ctx context.Context, req domain.CalculateRequest) (*domain.Breakdown, error) {
	timer := s.clock.Now()

	if req.Volume.IsNegative() {
		s.metrics.Calculations.WithLabelValues("invalid").Inc()
		return nil, domain.ErrInvalidVolume
	}

	tariffID, err := snowflake.ParseString(req.TariffID)
	if err != nil {
		s.metrics.Calculations.WithLabelValues("invalid").Inc()
		return nil, domain.ErrTariffNotFound
	}

	snap, err := s.tariffs.LoadSnapshot(ctx, s.db, tariffID)
	if err != nil {
		s.metrics.Calculations.WithLabelValues("error").Inc()
		return nil, err
	}
	if snap == nil {
		s.metrics.Calculations.WithLabelValues("not_found").Inc()
		return nil, domain.ErrTariffNotFound
	}

	evalCtx := engine.Context{
		Volume: req.Volume,
		Now:    s.clock.Now(),
	}

	if req.CustomerID != "" && req.MeterID != "" {
		customerID, err := snowflake.ParseString(req.CustomerID)
		if err != nil {
			return nil, domain.ErrCustomerNotFound
		}
		meterID, err := snowflake.ParseString(req.MeterID)
		if err != nil {
			return nil, domain.ErrMeterNotFound
		}

		customer, err := s.customers.FindByID(ctx, s.db, customerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, domain.ErrCustomerNotFound
		}
		meter, err := s.meters.FindByID(ctx, s.db, meterID)
		if err != nil {
			return nil, err
		}
		if meter == nil {
			return nil, domain.ErrMeterNotFound
		}

		evalCtx.Customer = customer
		evalCtx.Meter = meter
	}

	breakdown := engine.Calculate(snap, evalCtx)

	s.metrics.Calculations.WithLabelValues("ok").Inc()
	for _, d := range breakdown.Discounts {
		s.metrics.DiscountsApplied.WithLabelValues(string(d.Type)).Inc()
	}
	s.metrics.CalcDuration.Observe(s.clock.Now().Sub(timer).Seconds())

	s.log.Debug("price calculated",
		zap.String("tariff_id", breakdown.TariffID.String()),
		zap.String("volume", breakdown.Volume.String()),
		zap.String("base_price", breakdown.BasePrice.String()),
		zap.String("final_price", breakdown.FinalPrice.String()),
		zap.Int("discounts", len(breakdown.Discounts)),
	)

	return &breakdown, nil
}

func (s *Service) RecordAppliedDiscounts(ctx context.Context, req domain.RecordRequest) ([]domain.AppliedDiscount, error) {
	customerID, err := snowflake.ParseString(req.CustomerID)
	if err != nil {
		return nil, domain.ErrInvalidReference
	}
	meterID, err := snowflake.ParseString(req.MeterID)
	if err != nil {
		return nil, domain.ErrInvalidReference
	}
	readingID, err := snowflake.ParseString(req.ReadingID)
	if err != nil {
		return nil, domain.ErrInvalidReference
	}
	paymentID, err := snowflake.ParseString(req.PaymentID)
	if err != nil {
		return nil, domain.ErrInvalidReference
	}

	now := s.clock.Now()
	rows := make([]domain.AppliedDiscount, 0, len(req.Breakdown.Discounts))
	for _, d := range req.Breakdown.Discounts {
		rows = append(rows, domain.AppliedDiscount{
			ID:                 s.genID.Generate(),
			CustomerID:         customerID,
			MeterID:            meterID,
			ReadingID:          readingID,
			PaymentID:          paymentID,
			DiscountSourceType: d.Type,
			DiscountSourceID:   d.SourceID,
			OriginalAmount:     req.Breakdown.BasePrice,
			DiscountAmount:     d.Amount,
			FinalAmount:        req.Breakdown.FinalPrice,
			AppliedAt:          now,
		})
	}
	if len(rows) == 0 {
		return rows, nil
	}

	// Replays of the same payment hit the ledger's unique tuple and insert
	// nothing, keeping the write idempotent.
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
	if err != nil {
		return nil, err
	}

	s.log.Info("applied discounts recorded",
		zap.String("payment_id", paymentID.String()),
		zap.Int("rows", len(rows)),
	)
	return rows, nil
}
