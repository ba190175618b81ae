package model

import (
	"time"

	"gorm.io/gorm"
)

// Role is the closed set of user roles. Access checks match on these
// constants only; unknown strings are rejected at the boundary.
type Role string

const (
	RoleEmployee   Role = "employee"
	RoleSeller     Role = "seller"
	RoleWarehouse  Role = "warehouse"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleEmployee, RoleSeller, RoleWarehouse, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// IsAdmin reports whether the role carries organization-admin privileges.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// User represents a member of an organization. OrganizationID is nil only
// for the distinguished super admin, whose scope is system wide.
type User struct {
	ID             uint   `json:"id" gorm:"primaryKey"`
	Username       string `json:"username" gorm:"type:varchar(50);uniqueIndex;not null"`
	Email          string `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	FullName       string `json:"full_name" gorm:"type:varchar(100)"`
	HashedPassword string `json:"-" gorm:"type:varchar(255);not null"`
	Role           Role   `json:"role" gorm:"type:varchar(20);not null;default:'employee'"`
	OrganizationID *uint  `json:"organization_id,omitempty" gorm:"index"`
	// IsActive follows the owning organization's status: members of a
	// pending or suspended organization cannot log in.
	IsActive  bool       `json:"is_active" gorm:"default:true"`
	Avatar    string     `json:"avatar" gorm:"type:varchar(255)"`
	Phone     string     `json:"phone" gorm:"type:varchar(20)"`
	LastLogin *time.Time `json:"last_login,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// IsSuperAdmin reports whether the user is the system-wide operator: the
// super_admin role with no tenant affiliation.
func (u *User) IsSuperAdmin() bool {
	return u.Role == RoleSuperAdmin && u.OrganizationID == nil
}
