package domain

import (
	"context"
	"errors"
)

type Service interface {
	Create(ctx context.Context, req CreatePropertyRequest) (*Property, error)
	Get(ctx context.Context, id string) (*Property, error)
	List(ctx context.Context, req ListPropertiesRequest) ([]*Property, error)

	// AssignTariff binds a tariff to a property for a date window. The
	// window must not overlap an existing assignment of the property, and
	// the tariff's property type must match the property's.
	AssignTariff(ctx context.Context, req AssignTariffRequest) (*PropertyTariff, error)

	// TariffForProperty resolves the tariff governing the property on the
	// current date. When several windows contain today, the one with the
	// latest effective_from wins.
	TariffForProperty(ctx context.Context, propertyID string) (*PropertyTariff, error)
}

type CreatePropertyRequest struct {
	ClientID     string `json:"client_id"`
	CustomerID   string `json:"customer_id"`
	Name         string `json:"name"`
	Address      string `json:"address"`
	City         string `json:"city"`
	Province     string `json:"province"`
	PropertyType string `json:"property_type"`
}

type ListPropertiesRequest struct {
	ClientID     string `form:"client_id"`
	CustomerID   string `form:"customer_id"`
	PropertyType string `form:"property_type"`
}

type AssignTariffRequest struct {
	PropertyID    string `json:"property_id"`
	TariffID      string `json:"tariff_id"`
	EffectiveFrom string `json:"effective_from"`
	EffectiveTo   string `json:"effective_to,omitempty"`
}

var (
	ErrNotFound             = errors.New("property_not_found")
	ErrInvalidClient        = errors.New("invalid_client")
	ErrInvalidCustomer      = errors.New("invalid_customer")
	ErrInvalidName          = errors.New("invalid_name")
	ErrInvalidPropertyType  = errors.New("invalid_property_type")
	ErrInvalidDateRange     = errors.New("invalid_date_range")
	ErrTariffNotFound       = errors.New("tariff_not_found")
	ErrPropertyTypeMismatch = errors.New("property_type_mismatch")
	ErrOverlappingWindows   = errors.New("overlapping_assignment_windows")
	ErrNoActiveAssignment   = errors.New("no_active_assignment")
)
