package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Customer holds the attributes customer_based discount rules read:
// city, province and the account creation time.
type Customer struct {
	ID        snowflake.ID   `json:"id" gorm:"primaryKey"`
	ClientID  snowflake.ID   `json:"client_id" gorm:"not null;index"`
	Name      string         `json:"name" gorm:"type:text;not null"`
	Email     string         `json:"email" gorm:"type:text;not null"`
	Phone     string         `json:"phone" gorm:"type:text"`
	Address   string         `json:"address" gorm:"type:text"`
	City      string         `json:"city" gorm:"type:text"`
	Province  string         `json:"province" gorm:"type:text"`
	CreatedAt time.Time      `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Customer) TableName() string { return "customers" }
