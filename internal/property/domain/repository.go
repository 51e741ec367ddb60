package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListPropertyFilter struct {
	ClientID     snowflake.ID
	CustomerID   snowflake.ID
	PropertyType string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, property *Property) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Property, error)
	List(ctx context.Context, db *gorm.DB, filter ListPropertyFilter) ([]*Property, error)

	InsertAssignment(ctx context.Context, db *gorm.DB, assignment *PropertyTariff) error
	// ListAssignments returns a property's assignments ordered by
	// effective_from ascending.
	ListAssignments(ctx context.Context, db *gorm.DB, propertyID snowflake.ID) ([]PropertyTariff, error)
}
