package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/indowater/tirta/internal/property/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, property *domain.Property) error {
	return db.WithContext(ctx).Create(property).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Property, error) {
	var property domain.Property
	err := db.WithContext(ctx).Where("id = ?", id).First(&property).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &property, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListPropertyFilter) ([]*domain.Property, error) {
	var properties []*domain.Property
	stmt := db.WithContext(ctx).Model(&domain.Property{})
	if filter.ClientID != 0 {
		stmt = stmt.Where("client_id = ?", filter.ClientID)
	}
	if filter.CustomerID != 0 {
		stmt = stmt.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.PropertyType != "" {
		stmt = stmt.Where("property_type = ?", filter.PropertyType)
	}
	err := stmt.Order("created_at desc, id desc").Find(&properties).Error
	if err != nil {
		return nil, err
	}
	return properties, nil
}

func (r *repo) InsertAssignment(ctx context.Context, db *gorm.DB, assignment *domain.PropertyTariff) error {
	return db.WithContext(ctx).Create(assignment).Error
}

func (r *repo) ListAssignments(ctx context.Context, db *gorm.DB, propertyID snowflake.ID) ([]domain.PropertyTariff, error) {
	var assignments []domain.PropertyTariff
	err := db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("effective_from asc").
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}
