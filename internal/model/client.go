package model

import (
	"time"

	"gorm.io/gorm"
)

// Client represents a customer of an organization
type Client struct {
	ID             uint   `json:"id" gorm:"primaryKey"`
	OrganizationID *uint  `json:"organization_id" gorm:"index"`
	Name           string `json:"name" gorm:"type:varchar(100);not null"`
	ClientType     string `json:"client_type" gorm:"type:varchar(30);default:'company'"`
	Status         string `json:"status" gorm:"type:varchar(20);default:'active'"`
	RNC            string `json:"rnc" gorm:"type:varchar(30)"`
	Email          string `json:"email" gorm:"type:varchar(100)"`
	Phone          string `json:"phone" gorm:"type:varchar(20)"`
	Mobile         string `json:"mobile" gorm:"type:varchar(20)"`
	Address        string `json:"address" gorm:"type:text"`
	City           string `json:"city" gorm:"type:varchar(50)"`
	ContactPerson  string `json:"contact_person" gorm:"type:varchar(100)"`
	CreditLimit    float64 `json:"credit_limit" gorm:"default:0"`
	CreditDays     int     `json:"credit_days" gorm:"default:0"`
	IsRecurrent    bool    `json:"is_recurrent" gorm:"default:false"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
