package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/indowater/tirta/internal/clock"
	"github.com/indowater/tirta/internal/tariff/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
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
		log:   p.Log.Named("tariff.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
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

func (s *Service) CreateTariff(ctx context.Context, req domain.CreateTariffRequest) (*domain.Tariff, error) {
	clientID, err := parseID(req.ClientID)
	if err != nil {
		return nil, domain.ErrInvalidClient
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	if !propertyTypes[req.PropertyType] {
		return nil, domain.ErrInvalidPropertyType
	}
	if req.HasMinimumCharge && req.MinimumChargeAmount.IsNegative() {
		return nil, domain.ErrInvalidMinimumCharge
	}

	effectiveFrom, err := parseOptionalDate(req.EffectiveFrom)
	if err != nil {
		return nil, domain.ErrInvalidDateRange
	}
	effectiveTo, err := parseOptionalDate(req.EffectiveTo)
	if err != nil {
		return nil, domain.ErrInvalidDateRange
	}
	if effectiveFrom != nil && effectiveTo != nil && effectiveTo.Before(*effectiveFrom) {
		return nil, domain.ErrInvalidDateRange
	}

	now := s.clock.Now()
	tariff := domain.Tariff{
		ID:                  s.genID.Generate(),
		ClientID:            clientID,
		PropertyType:        req.PropertyType,
		Name:                name,
		Description:         strings.TrimSpace(req.Description),
		IsActive:            true,
		HasMinimumCharge:    req.HasMinimumCharge,
		MinimumChargeAmount: req.MinimumChargeAmount,
		EffectiveFrom:       effectiveFrom,
		EffectiveTo:         effectiveTo,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	tiers, err := s.buildTiers(tariff.ID, req.Tiers, now)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.InsertTariff(ctx, tx, &tariff); err != nil {
			return err
		}
		return s.repo.ReplaceTiers(ctx, tx, tariff.ID, tiers)
	})
	if err != nil {
		return nil, err
	}

	tariff.Tiers = tiers
	s.log.Info("tariff created",
		zap.String("tariff_id", tariff.ID.String()),
		zap.String("property_type", tariff.PropertyType),
		zap.Int("tiers", len(tiers)))
	return &tariff, nil
}

func (s *Service) UpdateTariff(ctx context.Context, req domain.UpdateTariffRequest) (*domain.Tariff, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	tariff, err := s.repo.FindTariffByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if tariff == nil {
		return nil, domain.ErrNotFound
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		tariff.Name = name
	}
	if req.Description != "" {
		tariff.Description = strings.TrimSpace(req.Description)
	}
	if req.IsActive != nil {
		tariff.IsActive = *req.IsActive
	}
	if req.HasMinimumCharge != nil {
		tariff.HasMinimumCharge = *req.HasMinimumCharge
	}
	if !req.MinimumChargeAmount.IsZero() {
		if req.MinimumChargeAmount.IsNegative() {
			return nil, domain.ErrInvalidMinimumCharge
		}
		tariff.MinimumChargeAmount = req.MinimumChargeAmount
	}
	if req.EffectiveFrom != "" {
		from, err := parseOptionalDate(req.EffectiveFrom)
		if err != nil {
			return nil, domain.ErrInvalidDateRange
		}
		tariff.EffectiveFrom = from
	}
	if req.EffectiveTo != "" {
		to, err := parseOptionalDate(req.EffectiveTo)
		if err != nil {
			return nil, domain.ErrInvalidDateRange
		}
		tariff.EffectiveTo = to
	}

	now := s.clock.Now()
	tariff.UpdatedAt = now

	var tiers []domain.TariffTier
	if len(req.Tiers) > 0 {
		tiers, err = s.buildTiers(tariff.ID, req.Tiers, now)
		if err != nil {
			return nil, err
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.UpdateTariff(ctx, tx, tariff); err != nil {
			return err
		}
		if len(tiers) > 0 {
			return s.repo.ReplaceTiers(ctx, tx, tariff.ID, tiers)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	tariff.Tiers, err = s.repo.ListTiers(ctx, s.db, tariff.ID)
	if err != nil {
		return nil, err
	}
	return tariff, nil
}

func (s *Service) DeleteTariff(ctx context.Context, id string) error {
	tariffID, err := parseID(id)
	if err != nil {
		return domain.ErrNotFound
	}
	tariff, err := s.repo.FindTariffByID(ctx, s.db, tariffID)
	if err != nil {
		return err
	}
	if tariff == nil {
		return domain.ErrNotFound
	}
	return s.repo.SoftDeleteTariff(ctx, s.db, tariffID)
}

func (s *Service) GetTariff(ctx context.Context, id string) (*domain.Tariff, error) {
	tariffID, err := parseID(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	tariff, err := s.repo.FindTariffByID(ctx, s.db, tariffID)
	if err != nil {
		return nil, err
	}
	if tariff == nil {
		return nil, domain.ErrNotFound
	}
	tariff.Tiers, err = s.repo.ListTiers(ctx, s.db, tariffID)
	if err != nil {
		return nil, err
	}
	return tariff, nil
}

func (s *Service) GetTariffComplete(ctx context.Context, id string) (*domain.Snapshot, error) {
	tariffID, err := parseID(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	snap, err := s.repo.LoadSnapshot(ctx, s.db, tariffID)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, domain.ErrNotFound
	}
	return snap, nil
}

func (s *Service) ListTariffs(ctx context.Context, req domain.ListTariffsRequest) ([]*domain.Tariff, error) {
	filter := domain.ListTariffFilter{
		PropertyType: strings.TrimSpace(req.PropertyType),
		ActiveOnly:   req.ActiveOnly,
	}
	if req.ClientID != "" {
		clientID, err := parseID(req.ClientID)
		if err != nil {
			return nil, domain.ErrInvalidClient
		}
		filter.ClientID = clientID
	}
	return s.repo.ListTariffs(ctx, s.db, filter)
}

func (s *Service) CreateSeasonalRate(ctx context.Context, req domain.SeasonalRateRequest) (*domain.SeasonalRate, error) {
	rate, err := s.buildSeasonalRate(req)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tariff, err := s.repo.FindTariffByID(ctx, tx, rate.TariffID)
		if err != nil {
			return err
		}
		if tariff == nil {
			return domain.ErrNotFound
		}

		existing, err := s.repo.ListSeasonalRates(ctx, tx, rate.TariffID)
		if err != nil {
			return err
		}
		if conflict := domain.FindOverlappingSeasonalRate(existing, rate.StartDate, rate.EndDate, 0); conflict != nil {
			s.log.Warn("seasonal rate rejected: overlapping window",
				zap.String("tariff_id", rate.TariffID.String()),
				zap.String("conflicts_with", conflict.ID.String()))
			return domain.ErrOverlappingDates
		}

		if err := s.repo.InsertSeasonalRate(ctx, tx, rate); err != nil {
			return err
		}
		return s.repo.SetSeasonalFlag(ctx, tx, rate.TariffID)
	})
	if err != nil {
		return nil, err
	}
	return rate, nil
}

func (s *Service) UpdateSeasonalRate(ctx context.Context, id string, req domain.SeasonalRateRequest) (*domain.SeasonalRate, error) {
	rateID, err := parseID(id)
	if err != nil {
		return nil, domain.ErrRateNotFound
	}

	updated, err := s.buildSeasonalRate(req)
	if err != nil {
		return nil, err
	}

	var rate *domain.SeasonalRate
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rate, err = s.repo.FindSeasonalRateByID(ctx, tx, rateID)
		if err != nil {
			return err
		}
		if rate == nil {
			return domain.ErrRateNotFound
		}

		existing, err := s.repo.ListSeasonalRates(ctx, tx, rate.TariffID)
		if err != nil {
			return err
		}
		if conflict := domain.FindOverlappingSeasonalRate(existing, updated.StartDate, updated.EndDate, rateID); conflict != nil {
			return domain.ErrOverlappingDates
		}

		rate.Name = updated.Name
		rate.StartDate = updated.StartDate
		rate.EndDate = updated.EndDate
		rate.AdjustmentType = updated.AdjustmentType
		rate.AdjustmentValue = updated.AdjustmentValue
		rate.IsActive = updated.IsActive
		rate.UpdatedAt = s.clock.Now()
		return s.repo.UpdateSeasonalRate(ctx, tx, rate)
	})
	if err != nil {
		return nil, err
	}
	return rate, nil
}

func (s *Service) ListSeasonalRates(ctx context.Context, tariffID string) ([]domain.SeasonalRate, error) {
	id, err := parseID(tariffID)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	return s.repo.ListSeasonalRates(ctx, s.db, id)
}

func (s *Service) CreateBulkDiscount(ctx context.Context, req domain.BulkDiscountRequest) (*domain.BulkDiscountTier, error) {
	tier, err := s.buildBulkDiscount(req)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tariff, err := s.repo.FindTariffByID(ctx, tx, tier.TariffID)
		if err != nil {
			return err
		}
		if tariff == nil {
			return domain.ErrNotFound
		}

		existing, err := s.repo.ListBulkDiscounts(ctx, tx, tier.TariffID)
		if err != nil {
			return err
		}
		if conflict := domain.FindOverlappingBulkDiscount(existing, tier.MinVolume, tier.MaxVolume, 0); conflict != nil {
			s.log.Warn("bulk discount rejected: overlapping volume range",
				zap.String("tariff_id", tier.TariffID.String()),
				zap.String("conflicts_with", conflict.ID.String()))
			return domain.ErrOverlappingVolumes
		}

		if err := s.repo.InsertBulkDiscount(ctx, tx, tier); err != nil {
			return err
		}
		return s.repo.SetBulkDiscountFlag(ctx, tx, tier.TariffID)
	})
	if err != nil {
		return nil, err
	}
	return tier, nil
}

func (s *Service) UpdateBulkDiscount(ctx context.Context, id string, req domain.BulkDiscountRequest) (*domain.BulkDiscountTier, error) {
	tierID, err := parseID(id)
	if err != nil {
		return nil, domain.ErrBulkTierNotFound
	}

	updated, err := s.buildBulkDiscount(req)
	if err != nil {
		return nil, err
	}

	var tier *domain.BulkDiscountTier
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tier, err = s.repo.FindBulkDiscountByID(ctx, tx, tierID)
		if err != nil {
			return err
		}
		if tier == nil {
			return domain.ErrBulkTierNotFound
		}

		existing, err := s.repo.ListBulkDiscounts(ctx, tx, tier.TariffID)
		if err != nil {
			return err
		}
		if conflict := domain.FindOverlappingBulkDiscount(existing, updated.MinVolume, updated.MaxVolume, tierID); conflict != nil {
			return domain.ErrOverlappingVolumes
		}

		tier.MinVolume = updated.MinVolume
		tier.MaxVolume = updated.MaxVolume
		tier.DiscountType = updated.DiscountType
		tier.DiscountValue = updated.DiscountValue
		tier.IsActive = updated.IsActive
		tier.UpdatedAt = s.clock.Now()
		return s.repo.UpdateBulkDiscount(ctx, tx, tier)
	})
	if err != nil {
		return nil, err
	}
	return tier, nil
}

func (s *Service) ListBulkDiscounts(ctx context.Context, tariffID string) ([]domain.BulkDiscountTier, error) {
	id, err := parseID(tariffID)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	return s.repo.ListBulkDiscounts(ctx, s.db, id)
}

func (s *Service) CreateDynamicRule(ctx context.Context, req domain.DynamicRuleRequest) (*domain.DynamicDiscountRule, error) {
	rule, err := s.buildDynamicRule(req)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tariff, err := s.repo.FindTariffByID(ctx, tx, rule.TariffID)
		if err != nil {
			return err
		}
		if tariff == nil {
			return domain.ErrNotFound
		}
		if err := s.repo.InsertDynamicRule(ctx, tx, rule); err != nil {
			return err
		}
		return s.repo.SetDynamicDiscountFlag(ctx, tx, rule.TariffID)
	})
	if err != nil {
		return nil, err
	}
	return rule, nil
}

func (s *Service) UpdateDynamicRule(ctx context.Context, id string, req domain.DynamicRuleRequest) (*domain.DynamicDiscountRule, error) {
	ruleID, err := parseID(id)
	if err != nil {
		return nil, domain.ErrRuleNotFound
	}

	updated, err := s.buildDynamicRule(req)
	if err != nil {
		return nil, err
	}

	var rule *domain.DynamicDiscountRule
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rule, err = s.repo.FindDynamicRuleByID(ctx, tx, ruleID)
		if err != nil {
			return err
		}
		if rule == nil {
			return domain.ErrRuleNotFound
		}

		rule.Name = updated.Name
		rule.RuleType = updated.RuleType
		rule.Conditions = updated.Conditions
		rule.DiscountType = updated.DiscountType
		rule.DiscountValue = updated.DiscountValue
		rule.Priority = updated.Priority
		rule.IsActive = updated.IsActive
		rule.StartDate = updated.StartDate
		rule.EndDate = updated.EndDate
		rule.MaxDiscountAmount = updated.MaxDiscountAmount
		rule.UpdatedAt = s.clock.Now()
		return s.repo.UpdateDynamicRule(ctx, tx, rule)
	})
	if err != nil {
		return nil, err
	}
	return rule, nil
}

func (s *Service) ListDynamicRules(ctx context.Context, tariffID string) ([]domain.DynamicDiscountRule, error) {
	id, err := parseID(tariffID)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	return s.repo.ListDynamicRules(ctx, s.db, id)
}

func (s *Service) buildTiers(tariffID snowflake.ID, inputs []domain.TierInput, now time.Time) ([]domain.TariffTier, error) {
	tiers := make([]domain.TariffTier, 0, len(inputs))
	for _, input := range inputs {
		tiers = append(tiers, domain.TariffTier{
			ID:           s.genID.Generate(),
			TariffID:     tariffID,
			MinVolume:    input.MinVolume,
			MaxVolume:    input.MaxVolume,
			PricePerUnit: input.PricePerUnit,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}
	if err := domain.ValidateTiers(tiers); err != nil {
		return nil, err
	}
	return tiers, nil
}

func (s *Service) buildSeasonalRate(req domain.SeasonalRateRequest) (*domain.SeasonalRate, error) {
	tariffID, err := parseID(req.TariffID)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	if !req.AdjustmentType.Valid() || req.AdjustmentValue.IsNegative() {
		return nil, domain.ErrInvalidAdjustment
	}

	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, domain.ErrInvalidDateRange
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return nil, domain.ErrInvalidDateRange
	}
	if end.Before(start) {
		return nil, domain.ErrInvalidDateRange
	}

	now := s.clock.Now()
	return &domain.SeasonalRate{
		ID:              s.genID.Generate(),
		TariffID:        tariffID,
		Name:            name,
		StartDate:       start,
		EndDate:         end,
		AdjustmentType:  req.AdjustmentType,
		AdjustmentValue: req.AdjustmentValue,
		IsActive:        boolOrTrue(req.IsActive),
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

func (s *Service) buildBulkDiscount(req domain.BulkDiscountRequest) (*domain.BulkDiscountTier, error) {
	tariffID, err := parseID(req.TariffID)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	if req.MinVolume.IsNegative() {
		return nil, domain.ErrInvalidVolumeRange
	}
	if req.MaxVolume != nil && req.MaxVolume.LessThan(req.MinVolume) {
		return nil, domain.ErrInvalidVolumeRange
	}
	if !req.DiscountType.Valid() || req.DiscountValue.IsNegative() {
		return nil, domain.ErrInvalidAdjustment
	}

	now := s.clock.Now()
	return &domain.BulkDiscountTier{
		ID:            s.genID.Generate(),
		TariffID:      tariffID,
		MinVolume:     req.MinVolume,
		MaxVolume:     req.MaxVolume,
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
		IsActive:      boolOrTrue(req.IsActive),
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

func (s *Service) buildDynamicRule(req domain.DynamicRuleRequest) (*domain.DynamicDiscountRule, error) {
	tariffID, err := parseID(req.TariffID)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	if !req.RuleType.Valid() {
		return nil, domain.ErrInvalidRuleType
	}
	if _, err := domain.ParseConditions(req.RuleType, req.Conditions); err != nil {
		return nil, err
	}
	if !req.DiscountType.Valid() || req.DiscountValue.IsNegative() {
		return nil, domain.ErrInvalidAdjustment
	}
	if req.MaxDiscountAmount != nil && req.MaxDiscountAmount.IsNegative() {
		return nil, domain.ErrInvalidAdjustment
	}

	startDate, err := parseOptionalDate(req.StartDate)
	if err != nil {
		return nil, domain.ErrInvalidDateRange
	}
	endDate, err := parseOptionalDate(req.EndDate)
	if err != nil {
		return nil, domain.ErrInvalidDateRange
	}
	if startDate != nil && endDate != nil && endDate.Before(*startDate) {
		return nil, domain.ErrInvalidDateRange
	}

	now := s.clock.Now()
	return &domain.DynamicDiscountRule{
		ID:                s.genID.Generate(),
		TariffID:          tariffID,
		Name:              name,
		RuleType:          req.RuleType,
		Conditions:        datatypes.JSON(req.Conditions),
		DiscountType:      req.DiscountType,
		DiscountValue:     req.DiscountValue,
		Priority:          req.Priority,
		IsActive:          boolOrTrue(req.IsActive),
		StartDate:         startDate,
		EndDate:           endDate,
		MaxDiscountAmount: req.MaxDiscountAmount,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

func parseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(value))
}

func parseOptionalDate(value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func boolOrTrue(v *bool) bool {
	if v == nil {
		return true
	}
	return *v
}
