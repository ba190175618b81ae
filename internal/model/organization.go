package model

import (
	"time"

	"gorm.io/gorm"
)

// OrganizationStatus is the lifecycle state of a tenant.
type OrganizationStatus string

const (
	OrgStatusPending   OrganizationStatus = "pending"
	OrgStatusActive    OrganizationStatus = "active"
	OrgStatusSuspended OrganizationStatus = "suspended"
	OrgStatusCancelled OrganizationStatus = "cancelled"
)

// Valid reports whether s is a known organization status.
func (s OrganizationStatus) Valid() bool {
	switch s {
	case OrgStatusPending, OrgStatusActive, OrgStatusSuspended, OrgStatusCancelled:
		return true
	}
	return false
}

// SubscriptionPlan is the billing tier of a tenant, driving its resource
// limits.
type SubscriptionPlan string

const (
	PlanFree       SubscriptionPlan = "free"
	PlanBasic      SubscriptionPlan = "basic"
	PlanPremium    SubscriptionPlan = "premium"
	PlanEnterprise SubscriptionPlan = "enterprise"
)

// Valid reports whether p is a known subscription plan.
func (p SubscriptionPlan) Valid() bool {
	switch p {
	case PlanFree, PlanBasic, PlanPremium, PlanEnterprise:
		return true
	}
	return false
}

// Unlimited is the sentinel value for a resource limit with no cap.
const Unlimited = -1

// Organization represents a tenant. Every business entity carries its ID and
// the cascade eraser is the only thing allowed to remove one.
type Organization struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"type:varchar(100);not null"`
	// Slug is globally unique and immutable once assigned.
	Slug  string `json:"slug" gorm:"type:varchar(60);uniqueIndex;not null"`
	Email string `json:"email" gorm:"type:varchar(100);uniqueIndex"`
	Phone string `json:"phone" gorm:"type:varchar(20)"`

	// Branding
	LogoURL        string    `json:"logo_url" gorm:"type:varchar(255)"`
	StampURL       string    `json:"stamp_url" gorm:"type:varchar(255)"`
	PrimaryColor   string    `json:"primary_color" gorm:"type:varchar(20)"`
	SecondaryColor string    `json:"secondary_color" gorm:"type:varchar(20)"`
	ModuleColors   StringMap `json:"module_colors,omitempty"`

	// Invoicing contact data
	RNC           string `json:"rnc" gorm:"type:varchar(30)"`
	Address       string `json:"address" gorm:"type:text"`
	City          string `json:"city" gorm:"type:varchar(50)"`
	AddressNumber string `json:"address_number" gorm:"type:varchar(20)"`
	Website       string `json:"website" gorm:"type:varchar(100)"`
	InvoiceEmail  string `json:"invoice_email" gorm:"type:varchar(100)"`
	Currency      string `json:"currency" gorm:"type:varchar(3);default:'USD'"`

	Status           OrganizationStatus `json:"status" gorm:"type:varchar(20);index;default:'pending'"`
	SubscriptionPlan SubscriptionPlan   `json:"subscription_plan" gorm:"type:varchar(20);default:'free'"`
	ModulesEnabled   ModulesMap         `json:"modules_enabled"`

	// Resource limits; -1 means unlimited
	MaxUsers     int `json:"max_users" gorm:"default:3"`
	MaxProducts  int `json:"max_products" gorm:"default:100"`
	MaxStorageMB int `json:"max_storage_mb" gorm:"default:512"`

	// Dashboard goals, zeroed on data reset
	MonthlySalesGoal     float64 `json:"monthly_sales_goal" gorm:"default:0"`
	MonthlyGrowthTarget  float64 `json:"monthly_growth_target" gorm:"default:0"`
	ConversionRateTarget float64 `json:"conversion_rate_target" gorm:"default:0"`

	Notes      string     `json:"notes" gorm:"type:text"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`
	ApprovedBy *uint      `json:"approved_by,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
