package domain

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// RuleType selects which condition payload a dynamic discount rule carries.
type RuleType string

const (
	RuleTimeBased      RuleType = "time_based"
	RuleVolumeBased    RuleType = "volume_based"
	RuleCustomerBased  RuleType = "customer_based"
	RuleInventoryBased RuleType = "inventory_based"
	RuleCombined       RuleType = "combined"
)

func (t RuleType) Valid() bool {
	switch t {
	case RuleTimeBased, RuleVolumeBased, RuleCustomerBased, RuleInventoryBased, RuleCombined:
		return true
	default:
		return false
	}
}

// HourRange is an hour-of-day window, start inclusive, end exclusive.
type HourRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// TimeConditions gate a rule on the evaluation time. Absent fields are
// vacuously true; present fields are AND-ed.
type TimeConditions struct {
	TimeRange     *HourRange `json:"time_range,omitempty"`
	DaysOfWeek    []string   `json:"days_of_week,omitempty"`
	Months        []int      `json:"months,omitempty"`
	SpecificDates []string   `json:"specific_dates,omitempty"`
}

// VolumeConditions gate a rule on the billed volume, both bounds inclusive.
type VolumeConditions struct {
	MinVolume *decimal.Decimal `json:"min_volume,omitempty"`
	MaxVolume *decimal.Decimal `json:"max_volume,omitempty"`
}

// CustomerConditions gate a rule on customer attributes. CustomerSince
// requires the customer record to exist at or before the given date.
type CustomerConditions struct {
	CustomerSince string `json:"customer_since,omitempty"`
	City          string `json:"city,omitempty"`
	Province      string `json:"province,omitempty"`
}

// InventoryConditions gate a rule on meter attributes.
type InventoryConditions struct {
	MeterType  string `json:"meter_type,omitempty"`
	MeterModel string `json:"meter_model,omitempty"`
}

// Conditions is the parsed form of a rule's conditions payload. Exactly one
// field is set for the four simple rule types; Combined rules may set any of
// the four, all of which must hold.
type Conditions struct {
	Time      *TimeConditions
	Volume    *VolumeConditions
	Customer  *CustomerConditions
	Inventory *InventoryConditions
}

type combinedPayload struct {
	TimeBased      *TimeConditions      `json:"time_based,omitempty"`
	VolumeBased    *VolumeConditions    `json:"volume_based,omitempty"`
	CustomerBased  *CustomerConditions  `json:"customer_based,omitempty"`
	InventoryBased *InventoryConditions `json:"inventory_based,omitempty"`
}

const dateLayout = "2006-01-02"

var weekdayNames = map[string]bool{
	"Monday": true, "Tuesday": true, "Wednesday": true, "Thursday": true,
	"Friday": true, "Saturday": true, "Sunday": true,
}

// ParseConditions interprets raw as the payload shape declared by ruleType.
// Malformed payloads are rejected here, at the write boundary, so the
// evaluator only ever sees validated values.
func ParseConditions(ruleType RuleType, raw []byte) (*Conditions, error) {
	if len(raw) == 0 {
		return nil, ErrMalformedConditions
	}

	switch ruleType {
	case RuleTimeBased:
		var c TimeConditions
		if err := strictUnmarshal(raw, &c); err != nil {
			return nil, ErrMalformedConditions
		}
		if err := validateTimeConditions(&c); err != nil {
			return nil, err
		}
		return &Conditions{Time: &c}, nil

	case RuleVolumeBased:
		var c VolumeConditions
		if err := strictUnmarshal(raw, &c); err != nil {
			return nil, ErrMalformedConditions
		}
		if err := validateVolumeConditions(&c); err != nil {
			return nil, err
		}
		return &Conditions{Volume: &c}, nil

	case RuleCustomerBased:
		var c CustomerConditions
		if err := strictUnmarshal(raw, &c); err != nil {
			return nil, ErrMalformedConditions
		}
		if err := validateCustomerConditions(&c); err != nil {
			return nil, err
		}
		return &Conditions{Customer: &c}, nil

	case RuleInventoryBased:
		var c InventoryConditions
		if err := strictUnmarshal(raw, &c); err != nil {
			return nil, ErrMalformedConditions
		}
		return &Conditions{Inventory: &c}, nil

	case RuleCombined:
		var payload combinedPayload
		if err := strictUnmarshal(raw, &payload); err != nil {
			return nil, ErrMalformedConditions
		}
		parsed := &Conditions{
			Time:      payload.TimeBased,
			Volume:    payload.VolumeBased,
			Customer:  payload.CustomerBased,
			Inventory: payload.InventoryBased,
		}
		if parsed.Time != nil {
			if err := validateTimeConditions(parsed.Time); err != nil {
				return nil, err
			}
		}
		if parsed.Volume != nil {
			if err := validateVolumeConditions(parsed.Volume); err != nil {
				return nil, err
			}
		}
		if parsed.Customer != nil {
			if err := validateCustomerConditions(parsed.Customer); err != nil {
				return nil, err
			}
		}
		return parsed, nil

	default:
		return nil, ErrInvalidRuleType
	}
}

func strictUnmarshal(raw []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func validateTimeConditions(c *TimeConditions) error {
	if c.TimeRange != nil {
		if c.TimeRange.Start < 0 || c.TimeRange.Start > 23 ||
			c.TimeRange.End < 0 || c.TimeRange.End > 24 {
			return ErrMalformedConditions
		}
	}
	for _, day := range c.DaysOfWeek {
		if !weekdayNames[day] {
			return ErrMalformedConditions
		}
	}
	for _, month := range c.Months {
		if month < 1 || month > 12 {
			return ErrMalformedConditions
		}
	}
	for _, date := range c.SpecificDates {
		if _, err := time.Parse(dateLayout, date); err != nil {
			return ErrMalformedConditions
		}
	}
	return nil
}

func validateVolumeConditions(c *VolumeConditions) error {
	if c.MinVolume != nil && c.MinVolume.IsNegative() {
		return ErrMalformedConditions
	}
	if c.MaxVolume != nil && c.MaxVolume.IsNegative() {
		return ErrMalformedConditions
	}
	if c.MinVolume != nil && c.MaxVolume != nil && c.MaxVolume.LessThan(*c.MinVolume) {
		return ErrMalformedConditions
	}
	return nil
}

func validateCustomerConditions(c *CustomerConditions) error {
	if c.CustomerSince != "" {
		if _, err := time.Parse(dateLayout, c.CustomerSince); err != nil {
			return ErrMalformedConditions
		}
	}
	return nil
}
