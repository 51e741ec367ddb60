package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/indowater/tirta/internal/meter/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, meter *domain.Meter) error {
	return db.WithContext(ctx).Create(meter).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Meter, error) {
	var meter domain.Meter
	err := db.WithContext(ctx).Where("id = ?", id).First(&meter).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &meter, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListMeterFilter) ([]*domain.Meter, error) {
	var meters []*domain.Meter
	stmt := db.WithContext(ctx).Model(&domain.Meter{})
	if filter.CustomerID != 0 {
		stmt = stmt.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.MeterType != "" {
		stmt = stmt.Where("meter_type = ?", filter.MeterType)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	err := stmt.Order("created_at desc, id desc").Find(&meters).Error
	if err != nil {
		return nil, err
	}
	return meters, nil
}
