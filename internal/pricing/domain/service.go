package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

type Service interface {
	// CalculatePrice prices a consumption volume against a tariff snapshot.
	// Customer and meter are optional; dynamic discounts are only evaluated
	// when both are supplied and resolvable.
	CalculatePrice(ctx context.Context, req CalculateRequest) (*Breakdown, error)

	// RecordAppliedDiscounts writes one ledger row per discount in the
	// breakdown. Rows whose (payment, source type, source) tuple already
	// exists are skipped.
	RecordAppliedDiscounts(ctx context.Context, req RecordRequest) ([]AppliedDiscount, error)
}

type CalculateRequest struct {
	TariffID   string          `json:"tariff_id"`
	Volume     decimal.Decimal `json:"volume"`
	CustomerID string          `json:"customer_id,omitempty"`
	MeterID    string          `json:"meter_id,omitempty"`
}

type RecordRequest struct {
	CustomerID string    `json:"customer_id"`
	MeterID    string    `json:"meter_id"`
	ReadingID  string    `json:"reading_id"`
	PaymentID  string    `json:"payment_id"`
	Breakdown  Breakdown `json:"breakdown"`
}

var (
	ErrTariffNotFound   = errors.New("tariff_not_found")
	ErrInvalidVolume    = errors.New("invalid_volume")
	ErrCustomerNotFound = errors.New("customer_not_found")
	ErrMeterNotFound    = errors.New("meter_not_found")
	ErrInvalidReference = errors.New("invalid_reference")
)
