package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Property is a billed premise. Its type must match the property type of any
// tariff assigned to it.
type Property struct {
	ID           snowflake.ID   `json:"id" gorm:"primaryKey"`
	ClientID     snowflake.ID   `json:"client_id" gorm:"not null;index"`
	CustomerID   snowflake.ID   `json:"customer_id" gorm:"not null;index"`
	Name         string         `json:"name" gorm:"type:text;not null"`
	Address      string         `json:"address" gorm:"type:text"`
	City         string         `json:"city" gorm:"type:text"`
	Province     string         `json:"province" gorm:"type:text"`
	PropertyType string         `json:"property_type" gorm:"type:text;not null"`
	CreatedAt    time.Time      `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time      `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Property) TableName() string { return "properties" }

// PropertyTariff assigns a tariff to a property for a date window. Windows
// for one property never overlap; a nil EffectiveTo is open-ended.
type PropertyTariff struct {
	ID            snowflake.ID `json:"id" gorm:"primaryKey"`
	PropertyID    snowflake.ID `json:"property_id" gorm:"not null;index"`
	TariffID      snowflake.ID `json:"tariff_id" gorm:"not null;index"`
	EffectiveFrom time.Time    `json:"effective_from" gorm:"not null"`
	EffectiveTo   *time.Time   `json:"effective_to"`
	CreatedAt     time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (PropertyTariff) TableName() string { return "property_tariffs" }
