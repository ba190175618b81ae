package model

import (
	"time"

	"gorm.io/gorm"
)

// Quotation represents a price quote issued to a client
type Quotation struct {
	ID             uint       `json:"id" gorm:"primaryKey"`
	OrganizationID *uint      `json:"organization_id" gorm:"index"`
	ClientID       *uint      `json:"client_id,omitempty" gorm:"index"`
	UserID         *uint      `json:"user_id,omitempty"`
	QuoteNumber    string     `json:"quote_number" gorm:"type:varchar(50)"`
	Status         string     `json:"status" gorm:"type:varchar(20);default:'pending'"`
	ValidUntil     *time.Time `json:"valid_until,omitempty"`
	Subtotal       float64    `json:"subtotal" gorm:"default:0"`
	Tax            float64    `json:"tax" gorm:"default:0"`
	Total          float64    `json:"total" gorm:"default:0"`
	Notes          string     `json:"notes" gorm:"type:text"`

	Items []QuotationItem `json:"items,omitempty" gorm:"foreignKey:QuotationID"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// QuotationItem is a single product line within a quotation
type QuotationItem struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	QuotationID uint    `json:"quotation_id" gorm:"index;not null"`
	ProductID   uint    `json:"product_id" gorm:"index;not null"`
	Quantity    int     `json:"quantity" gorm:"not null"`
	UnitPrice   float64 `json:"unit_price" gorm:"not null"`
	Total       float64 `json:"total" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
