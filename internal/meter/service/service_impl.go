package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/indowater/tirta/internal/clock"
	"github.com/indowater/tirta/internal/meter/domain"
	"github.com/indowater/tirta/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("meter.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateMeterRequest) (*domain.Meter, error) {
	customerID, err := snowflake.ParseString(strings.TrimSpace(req.CustomerID))
	if err != nil {
		return nil, domain.ErrInvalidCustomer
	}

	serial := strings.TrimSpace(req.SerialNumber)
	if serial == "" {
		return nil, domain.ErrInvalidSerial
	}
	meterType := strings.TrimSpace(req.MeterType)
	if meterType == "" {
		return nil, domain.ErrInvalidType
	}

	var propertyID snowflake.ID
	if strings.TrimSpace(req.PropertyID) != "" {
		propertyID, err = snowflake.ParseString(strings.TrimSpace(req.PropertyID))
		if err != nil {
			return nil, domain.ErrInvalidCustomer
		}
	}

	var installedAt *time.Time
	if strings.TrimSpace(req.InstalledAt) != "" {
		parsed, err := time.Parse("2006-01-02", req.InstalledAt)
		if err != nil {
			return nil, domain.ErrInvalidType
		}
		installedAt = &parsed
	}

	now := s.clock.Now()
	meter := domain.Meter{
		ID:           s.genID.Generate(),
		CustomerID:   customerID,
		PropertyID:   propertyID,
		SerialNumber: serial,
		MeterType:    meterType,
		MeterModel:   strings.TrimSpace(req.MeterModel),
		Status:       "active",
		InstalledAt:  installedAt,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Insert(ctx, s.db, &meter); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrDuplicateSerial
		}
		return nil, err
	}
	return &meter, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Meter, error) {
	meterID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrNotFound
	}
	meter, err := s.repo.FindByID(ctx, s.db, meterID)
	if err != nil {
		return nil, err
	}
	if meter == nil {
		return nil, domain.ErrNotFound
	}
	return meter, nil
}

func (s *Service) List(ctx context.Context, req domain.ListMetersRequest) ([]*domain.Meter, error) {
	filter := domain.ListMeterFilter{
		MeterType: strings.TrimSpace(req.MeterType),
		Status:    strings.TrimSpace(req.Status),
	}
	if req.CustomerID != "" {
		customerID, err := snowflake.ParseString(strings.TrimSpace(req.CustomerID))
		if err != nil {
			return nil, domain.ErrInvalidCustomer
		}
		filter.CustomerID = customerID
	}
	return s.repo.List(ctx, s.db, filter)
}
