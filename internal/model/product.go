package model

import (
	"time"

	"gorm.io/gorm"
)

// Product represents an item the organization sells or rents out
type Product struct {
	ID             uint   `json:"id" gorm:"primaryKey"`
	OrganizationID *uint  `json:"organization_id" gorm:"index"`
	SKU            string `json:"sku" gorm:"type:varchar(50);index"`
	Name           string `json:"name" gorm:"type:varchar(255);not null"`
	Description    string `json:"description" gorm:"type:text"`
	// ProductType is one of "sale", "rental" or "both"
	ProductType string `json:"product_type" gorm:"type:varchar(20);default:'sale'"`
	CategoryID  *uint  `json:"category_id,omitempty" gorm:"index"`
	SupplierID  *uint  `json:"supplier_id,omitempty" gorm:"index"`

	Price              float64 `json:"price" gorm:"default:0"`
	Cost               float64 `json:"cost" gorm:"default:0"`
	RentalPriceDaily   float64 `json:"rental_price_daily" gorm:"default:0"`
	RentalPriceWeekly  float64 `json:"rental_price_weekly" gorm:"default:0"`
	RentalPriceMonthly float64 `json:"rental_price_monthly" gorm:"default:0"`

	Stock          int    `json:"stock" gorm:"default:0"`
	StockAvailable int    `json:"stock_available" gorm:"default:0"`
	MinStock       int    `json:"min_stock" gorm:"default:0"`
	Location       string `json:"location" gorm:"type:varchar(100)"`
	WarrantyMonths int    `json:"warranty_months" gorm:"default:0"`
	IsActive       bool   `json:"is_active" gorm:"default:true"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// InventoryMovement is the audit trail of stock changes for a product
type InventoryMovement struct {
	ID             uint   `json:"id" gorm:"primaryKey"`
	OrganizationID *uint  `json:"organization_id" gorm:"index"`
	ProductID      uint   `json:"product_id" gorm:"index;not null"`
	// MovementType is "in", "out" or "adjustment"
	MovementType string `json:"movement_type" gorm:"type:varchar(20);not null"`
	Quantity     int    `json:"quantity" gorm:"not null"`
	Reason       string `json:"reason" gorm:"type:varchar(255)"`
	UserID       *uint  `json:"user_id,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
