package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Meter is an installed water meter. inventory_based discount rules match on
// MeterType and MeterModel.
type Meter struct {
	ID           snowflake.ID   `json:"id" gorm:"primaryKey"`
	CustomerID   snowflake.ID   `json:"customer_id" gorm:"not null;index"`
	PropertyID   snowflake.ID   `json:"property_id" gorm:"index"`
	SerialNumber string         `json:"serial_number" gorm:"type:text;not null;uniqueIndex"`
	MeterType    string         `json:"meter_type" gorm:"type:text;not null"`
	MeterModel   string         `json:"meter_model" gorm:"type:text;not null"`
	Status       string         `json:"status" gorm:"type:text;not null;default:'active'"`
	InstalledAt  *time.Time     `json:"installed_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time      `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Meter) TableName() string { return "meters" }
