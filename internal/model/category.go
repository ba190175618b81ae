package model

import (
	"time"

	"gorm.io/gorm"
)

// Category groups products within an organization
type Category struct {
	ID             uint   `json:"id" gorm:"primaryKey"`
	OrganizationID *uint  `json:"organization_id" gorm:"index"`
	Name           string `json:"name" gorm:"type:varchar(100);not null"`
	Description    string `json:"description" gorm:"type:text"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
