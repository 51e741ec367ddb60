package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/indowater/tirta/internal/clock"
	"github.com/indowater/tirta/internal/property/domain"
	tariffdomain "github.com/indowater/tirta/internal/tariff/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Repo    domain.Repository
	Tariffs tariffdomain.Repository
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	repo    domain.Repository
	tariffs tariffdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("property.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		repo:    p.Repo,
		tariffs: p.Tariffs,
	}
}

var propertyTypes = map[string]bool{
	"residential": true,
	"commercial":  true,
	"industrial":  true,
	"social":      true,
	"government":  true,
}

const dateLayout = "2006-01-02"

func (s *Service) Create(ctx context.Context, req domain.CreatePropertyRequest) (*domain.Property, error) {
	clientID, err := snowflake.ParseString(strings.TrimSpace(req.ClientID))
	if err != nil {
		return nil, domain.ErrInvalidClient
	}
	customerID, err := snowflake.ParseString(strings.TrimSpace(req.CustomerID))
	if err != nil {
		return nil, domain.ErrInvalidCustomer
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	if !propertyTypes[req.PropertyType] {
		return nil, domain.ErrInvalidPropertyType
	}

	now := s.clock.Now()
	property := domain.Property{
		ID:           s.genID.Generate(),
		ClientID:     clientID,
		CustomerID:   customerID,
		Name:         name,
		Address:      strings.TrimSpace(req.Address),
		City:         strings.TrimSpace(req.City),
		Province:     strings.TrimSpace(req.Province),
		PropertyType: req.PropertyType,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Insert(ctx, s.db, &property); err != nil {
		return nil, err
	}
	return &property, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Property, error) {
	propertyID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrNotFound
	}
	property, err := s.repo.FindByID(ctx, s.db, propertyID)
	if err != nil {
		return nil, err
	}
	if property == nil {
		return nil, domain.ErrNotFound
	}
	return property, nil
}

func (s *Service) List(ctx context.Context, req domain.ListPropertiesRequest) ([]*domain.Property, error) {
	filter := domain.ListPropertyFilter{
		PropertyType: strings.TrimSpace(req.PropertyType),
	}
	if req.ClientID != "" {
		clientID, err := snowflake.ParseString(strings.TrimSpace(req.ClientID))
		if err != nil {
			return nil, domain.ErrInvalidClient
		}
		filter.ClientID = clientID
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

func (s *Service) AssignTariff(ctx context.Context, req domain.AssignTariffRequest) (*domain.PropertyTariff, error) {
	propertyID, err := snowflake.ParseString(strings.TrimSpace(req.PropertyID))
	if err != nil {
		return nil, domain.ErrNotFound
	}
	tariffID, err := snowflake.ParseString(strings.TrimSpace(req.TariffID))
	if err != nil {
		return nil, domain.ErrTariffNotFound
	}

	from, err := time.Parse(dateLayout, req.EffectiveFrom)
	if err != nil {
		return nil, domain.ErrInvalidDateRange
	}
	var to *time.Time
	if req.EffectiveTo != "" {
		parsed, err := time.Parse(dateLayout, req.EffectiveTo)
		if err != nil {
			return nil, domain.ErrInvalidDateRange
		}
		if parsed.Before(from) {
			return nil, domain.ErrInvalidDateRange
		}
		to = &parsed
	}

	assignment := domain.PropertyTariff{
		ID:            s.genID.Generate(),
		PropertyID:    propertyID,
		TariffID:      tariffID,
		EffectiveFrom: from,
		EffectiveTo:   to,
		CreatedAt:     s.clock.Now(),
		UpdatedAt:     s.clock.Now(),
	}

	// The overlap check and the insert share one transaction so two
	// concurrent assignments cannot both pass validation.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		property, err := s.repo.FindByID(ctx, tx, propertyID)
		if err != nil {
			return err
		}
		if property == nil {
			return domain.ErrNotFound
		}

		tariff, err := s.tariffs.FindTariffByID(ctx, tx, tariffID)
		if err != nil {
			return err
		}
		if tariff == nil {
			return domain.ErrTariffNotFound
		}
		if tariff.PropertyType != property.PropertyType {
			return domain.ErrPropertyTypeMismatch
		}

		existing, err := s.repo.ListAssignments(ctx, tx, propertyID)
		if err != nil {
			return err
		}
		for i := range existing {
			other := &existing[i]
			if tariffdomain.DateRangesOverlap(assignment.EffectiveFrom, assignment.EffectiveTo, other.EffectiveFrom, other.EffectiveTo) {
				s.log.Warn("rejected overlapping tariff assignment",
					zap.String("property_id", propertyID.String()),
					zap.String("conflicting_assignment_id", other.ID.String()),
				)
				return domain.ErrOverlappingWindows
			}
		}

		return s.repo.InsertAssignment(ctx, tx, &assignment)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("tariff assigned",
		zap.String("property_id", propertyID.String()),
		zap.String("tariff_id", tariffID.String()),
	)
	return &assignment, nil
}

func (s *Service) TariffForProperty(ctx context.Context, propertyID string) (*domain.PropertyTariff, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(propertyID))
	if err != nil {
		return nil, domain.ErrNotFound
	}

	property, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if property == nil {
		return nil, domain.ErrNotFound
	}

	assignments, err := s.repo.ListAssignments(ctx, s.db, id)
	if err != nil {
		return nil, err
	}

	today := s.clock.Now().Truncate(24 * time.Hour)
	var current *domain.PropertyTariff
	for i := range assignments {
		a := &assignments[i]
		if today.Before(a.EffectiveFrom.Truncate(24 * time.Hour)) {
			continue
		}
		if a.EffectiveTo != nil && today.After(a.EffectiveTo.Truncate(24*time.Hour)) {
			continue
		}
		if current == nil || a.EffectiveFrom.After(current.EffectiveFrom) {
			current = a
		}
	}
	if current == nil {
		return nil, domain.ErrNoActiveAssignment
	}
	return current, nil
}
