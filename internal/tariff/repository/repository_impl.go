package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/indowater/tirta/internal/tariff/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertTariff(ctx context.Context, db *gorm.DB, tariff *domain.Tariff) error {
	return db.WithContext(ctx).Create(tariff).Error
}

func (r *repo) UpdateTariff(ctx context.Context, db *gorm.DB, tariff *domain.Tariff) error {
	return db.WithContext(ctx).
		Model(&domain.Tariff{}).
		Where("id = ?", tariff.ID).
		Select("name", "description", "is_active", "has_minimum_charge",
			"minimum_charge_amount", "effective_from", "effective_to", "updated_at").
		Updates(tariff).Error
}

func (r *repo) SoftDeleteTariff(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Tariff{}).Error
}

func (r *repo) FindTariffByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Tariff, error) {
	var tariff domain.Tariff
	err := db.WithContext(ctx).Where("id = ?", id).First(&tariff).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tariff, nil
}

func (r *repo) ListTariffs(ctx context.Context, db *gorm.DB, filter domain.ListTariffFilter) ([]*domain.Tariff, error) {
	var tariffs []*domain.Tariff
	stmt := db.WithContext(ctx).Model(&domain.Tariff{})
	if filter.ClientID != 0 {
		stmt = stmt.Where("client_id = ?", filter.ClientID)
	}
	if filter.PropertyType != "" {
		stmt = stmt.Where("property_type = ?", filter.PropertyType)
	}
	if filter.ActiveOnly {
		stmt = stmt.Where("is_active = ?", true)
	}
	err := stmt.Order("name asc").Find(&tariffs).Error
	if err != nil {
		return nil, err
	}
	return tariffs, nil
}

func (r *repo) ReplaceTiers(ctx context.Context, db *gorm.DB, tariffID snowflake.ID, tiers []domain.TariffTier) error {
	if err := db.WithContext(ctx).Where("tariff_id = ?", tariffID).Delete(&domain.TariffTier{}).Error; err != nil {
		return err
	}
	if len(tiers) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&tiers).Error
}

func (r *repo) ListTiers(ctx context.Context, db *gorm.DB, tariffID snowflake.ID) ([]domain.TariffTier, error) {
	var tiers []domain.TariffTier
	err := db.WithContext(ctx).
		Where("tariff_id = ?", tariffID).
		Order("min_volume asc").
		Find(&tiers).Error
	return tiers, err
}

func (r *repo) InsertSeasonalRate(ctx context.Context, db *gorm.DB, rate *domain.SeasonalRate) error {
	return db.WithContext(ctx).Create(rate).Error
}

func (r *repo) UpdateSeasonalRate(ctx context.Context, db *gorm.DB, rate *domain.SeasonalRate) error {
	return db.WithContext(ctx).Save(rate).Error
}

func (r *repo) FindSeasonalRateByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.SeasonalRate, error) {
	var rate domain.SeasonalRate
	err := db.WithContext(ctx).Where("id = ?", id).First(&rate).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rate, nil
}

func (r *repo) ListSeasonalRates(ctx context.Context, db *gorm.DB, tariffID snowflake.ID) ([]domain.SeasonalRate, error) {
	var rates []domain.SeasonalRate
	err := db.WithContext(ctx).
		Where("tariff_id = ?", tariffID).
		Order("start_date asc").
		Find(&rates).Error
	return rates, err
}

func (r *repo) InsertBulkDiscount(ctx context.Context, db *gorm.DB, tier *domain.BulkDiscountTier) error {
	return db.WithContext(ctx).Create(tier).Error
}

func (r *repo) UpdateBulkDiscount(ctx context.Context, db *gorm.DB, tier *domain.BulkDiscountTier) error {
	return db.WithContext(ctx).Save(tier).Error
}

func (r *repo) FindBulkDiscountByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.BulkDiscountTier, error) {
	var tier domain.BulkDiscountTier
	err := db.WithContext(ctx).Where("id = ?", id).First(&tier).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tier, nil
}

func (r *repo) ListBulkDiscounts(ctx context.Context, db *gorm.DB, tariffID snowflake.ID) ([]domain.BulkDiscountTier, error) {
	var tiers []domain.BulkDiscountTier
	err := db.WithContext(ctx).
		Where("tariff_id = ?", tariffID).
		Order("min_volume asc").
		Find(&tiers).Error
	return tiers, err
}

func (r *repo) InsertDynamicRule(ctx context.Context, db *gorm.DB, rule *domain.DynamicDiscountRule) error {
	return db.WithContext(ctx).Create(rule).Error
}

func (r *repo) UpdateDynamicRule(ctx context.Context, db *gorm.DB, rule *domain.DynamicDiscountRule) error {
	return db.WithContext(ctx).Save(rule).Error
}

func (r *repo) FindDynamicRuleByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.DynamicDiscountRule, error) {
	var rule domain.DynamicDiscountRule
	err := db.WithContext(ctx).Where("id = ?", id).First(&rule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rule, nil
}

func (r *repo) ListDynamicRules(ctx context.Context, db *gorm.DB, tariffID snowflake.ID) ([]domain.DynamicDiscountRule, error) {
	var rules []domain.DynamicDiscountRule
	err := db.WithContext(ctx).
		Where("tariff_id = ?", tariffID).
		Order("priority desc, name asc").
		Find(&rules).Error
	return rules, err
}

func (r *repo) SetSeasonalFlag(ctx context.Context, db *gorm.DB, tariffID snowflake.ID) error {
	return db.WithContext(ctx).
		Model(&domain.Tariff{}).
		Where("id = ? AND is_seasonal = ?", tariffID, false).
		Update("is_seasonal", true).Error
}

func (r *repo) SetBulkDiscountFlag(ctx context.Context, db *gorm.DB, tariffID snowflake.ID) error {
	return db.WithContext(ctx).
		Model(&domain.Tariff{}).
		Where("id = ? AND has_bulk_discount = ?", tariffID, false).
		Update("has_bulk_discount", true).Error
}

func (r *repo) SetDynamicDiscountFlag(ctx context.Context, db *gorm.DB, tariffID snowflake.ID) error {
	return db.WithContext(ctx).
		Model(&domain.Tariff{}).
		Where("id = ? AND has_dynamic_discount = ?", tariffID, false).
		Update("has_dynamic_discount", true).Error
}

func (r *repo) LoadSnapshot(ctx context.Context, db *gorm.DB, tariffID snowflake.ID) (*domain.Snapshot, error) {
	tariff, err := r.FindTariffByID(ctx, db, tariffID)
	if err != nil {
		return nil, err
	}
	if tariff == nil {
		return nil, nil
	}

	snap := &domain.Snapshot{Tariff: *tariff}

	snap.Tiers, err = r.ListTiers(ctx, db, tariffID)
	if err != nil {
		return nil, err
	}

	if tariff.IsSeasonal {
		snap.SeasonalRates, err = r.ListSeasonalRates(ctx, db, tariffID)
		if err != nil {
			return nil, err
		}
	}
	if tariff.HasBulkDiscount {
		snap.BulkDiscounts, err = r.ListBulkDiscounts(ctx, db, tariffID)
		if err != nil {
			return nil, err
		}
	}
	if tariff.HasDynamicDiscount {
		snap.DynamicRules, err = r.ListDynamicRules(ctx, db, tariffID)
		if err != nil {
			return nil, err
		}
	}

	return snap, nil
}
