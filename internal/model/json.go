package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// ModulesMap maps a feature-flag name to whether the module is enabled for an
// organization. Stored as jsonb on Postgres and serialized text elsewhere.
type ModulesMap map[string]bool

// DefaultModules returns the module flags assigned to a newly registered
// organization.
func DefaultModules() ModulesMap {
	return ModulesMap{
		"sales":      true,
		"rentals":    true,
		"quotations": true,
		"clients":    true,
		"inventory":  true,
		"categories": true,
		"suppliers":  true,
		"dashboard":  true,
	}
}

func (m ModulesMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *ModulesMap) Scan(value interface{}) error {
	return scanJSON(value, m)
}

func (ModulesMap) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "jsonb"
	}
	return "text"
}

// StringMap is a generic string-to-string JSON column, used for the
// per-module branding colors.
type StringMap map[string]string

func (m StringMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *StringMap) Scan(value interface{}) error {
	return scanJSON(value, m)
}

func (StringMap) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "jsonb"
	}
	return "text"
}

func scanJSON(value interface{}, dest interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("unsupported column type %T for JSON scan", value)
	}
}
