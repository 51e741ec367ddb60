package domain

import (
	"context"
	"errors"
)

type Service interface {
	Create(ctx context.Context, req CreateMeterRequest) (*Meter, error)
	Get(ctx context.Context, id string) (*Meter, error)
	List(ctx context.Context, req ListMetersRequest) ([]*Meter, error)
}

type CreateMeterRequest struct {
	CustomerID   string `json:"customer_id"`
	PropertyID   string `json:"property_id,omitempty"`
	SerialNumber string `json:"serial_number"`
	MeterType    string `json:"meter_type"`
	MeterModel   string `json:"meter_model"`
	InstalledAt  string `json:"installed_at,omitempty"`
}

type ListMetersRequest struct {
	CustomerID string `form:"customer_id"`
	MeterType  string `form:"meter_type"`
	Status     string `form:"status"`
}

var (
	ErrNotFound        = errors.New("meter_not_found")
	ErrInvalidCustomer = errors.New("invalid_customer")
	ErrInvalidSerial   = errors.New("invalid_serial_number")
	ErrInvalidType     = errors.New("invalid_meter_type")
	ErrDuplicateSerial = errors.New("duplicate_serial_number")
)
