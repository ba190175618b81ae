package model

import (
	"time"

	"gorm.io/gorm"
)

// Supplier represents a vendor the organization buys from
type Supplier struct {
	ID             uint   `json:"id" gorm:"primaryKey"`
	OrganizationID *uint  `json:"organization_id" gorm:"index"`
	Name           string `json:"name" gorm:"type:varchar(100);not null"`
	ContactName    string `json:"contact_name" gorm:"type:varchar(100)"`
	Email          string `json:"email" gorm:"type:varchar(100)"`
	Phone          string `json:"phone" gorm:"type:varchar(20)"`
	Address        string `json:"address" gorm:"type:text"`
	RNC            string `json:"rnc" gorm:"type:varchar(30)"`
	PaymentTerms   string `json:"payment_terms" gorm:"type:varchar(100)"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
