package model

import (
	"time"

	"gorm.io/gorm"
)

// Sale represents a completed sale with its line items
type Sale struct {
	ID             uint    `json:"id" gorm:"primaryKey"`
	OrganizationID *uint   `json:"organization_id" gorm:"index"`
	ClientID       *uint   `json:"client_id,omitempty" gorm:"index"`
	UserID         *uint   `json:"user_id,omitempty"`
	InvoiceNumber  string  `json:"invoice_number" gorm:"type:varchar(50)"`
	Status         string  `json:"status" gorm:"type:varchar(20);default:'completed'"`
	PaymentMethod  string  `json:"payment_method" gorm:"type:varchar(30)"`
	Subtotal       float64 `json:"subtotal" gorm:"default:0"`
	Tax            float64 `json:"tax" gorm:"default:0"`
	Discount       float64 `json:"discount" gorm:"default:0"`
	Total          float64 `json:"total" gorm:"default:0"`
	Notes          string  `json:"notes" gorm:"type:text"`

	Items []SaleItem `json:"items,omitempty" gorm:"foreignKey:SaleID"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// SaleItem is a single product line within a sale
type SaleItem struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	SaleID    uint    `json:"sale_id" gorm:"index;not null"`
	ProductID uint    `json:"product_id" gorm:"index;not null"`
	Quantity  int     `json:"quantity" gorm:"not null"`
	UnitPrice float64 `json:"unit_price" gorm:"not null"`
	Total     float64 `json:"total" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
