package model

import (
	"time"

	"gorm.io/gorm"
)

// Rental represents an equipment rental with its items and payments
type Rental struct {
	ID             uint       `json:"id" gorm:"primaryKey"`
	OrganizationID *uint      `json:"organization_id" gorm:"index"`
	ClientID       *uint      `json:"client_id,omitempty" gorm:"index"`
	UserID         *uint      `json:"user_id,omitempty"`
	ContractNumber string     `json:"contract_number" gorm:"type:varchar(50)"`
	Status         string     `json:"status" gorm:"type:varchar(20);default:'active'"`
	StartDate      *time.Time `json:"start_date,omitempty"`
	EndDate        *time.Time `json:"end_date,omitempty"`
	Deposit        float64    `json:"deposit" gorm:"default:0"`
	Total          float64    `json:"total" gorm:"default:0"`
	Notes          string     `json:"notes" gorm:"type:text"`

	Items    []RentalItem    `json:"items,omitempty" gorm:"foreignKey:RentalID"`
	Payments []RentalPayment `json:"payments,omitempty" gorm:"foreignKey:RentalID"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// RentalItem is a single product line within a rental
type RentalItem struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	RentalID  uint    `json:"rental_id" gorm:"index;not null"`
	ProductID uint    `json:"product_id" gorm:"index;not null"`
	Quantity  int     `json:"quantity" gorm:"not null"`
	// RatePeriod is "daily", "weekly" or "monthly"
	RatePeriod string  `json:"rate_period" gorm:"type:varchar(10);default:'daily'"`
	Rate       float64 `json:"rate" gorm:"not null"`
	Total      float64 `json:"total" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RentalPayment records a payment received against a rental
type RentalPayment struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	RentalID      uint      `json:"rental_id" gorm:"index;not null"`
	Amount        float64   `json:"amount" gorm:"not null"`
	PaymentMethod string    `json:"payment_method" gorm:"type:varchar(30)"`
	PaidAt        time.Time `json:"paid_at"`
	Notes         string    `json:"notes" gorm:"type:varchar(255)"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
