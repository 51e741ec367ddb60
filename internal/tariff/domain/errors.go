package domain

import "errors"

var (
	ErrNotFound             = errors.New("tariff_not_found")
	ErrRateNotFound         = errors.New("seasonal_rate_not_found")
	ErrBulkTierNotFound     = errors.New("bulk_discount_not_found")
	ErrRuleNotFound         = errors.New("dynamic_rule_not_found")
	ErrInvalidClient        = errors.New("invalid_client")
	ErrInvalidName          = errors.New("invalid_name")
	ErrInvalidPropertyType  = errors.New("invalid_property_type")
	ErrInvalidTiers         = errors.New("invalid_tiers")
	ErrInvalidAdjustment    = errors.New("invalid_adjustment")
	ErrInvalidDateRange     = errors.New("invalid_date_range")
	ErrInvalidVolumeRange   = errors.New("invalid_volume_range")
	ErrInvalidRuleType      = errors.New("invalid_rule_type")
	ErrMalformedConditions  = errors.New("malformed_conditions")
	ErrOverlappingDates     = errors.New("overlapping_date_range")
	ErrOverlappingVolumes   = errors.New("overlapping_volume_range")
	ErrInvalidMinimumCharge = errors.New("invalid_minimum_charge")
)
