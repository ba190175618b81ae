package org

import (
	"fmt"
	"time"

	"github.com/Jefrey05/sistema-gestion/internal/model"
	"gorm.io/gorm"
)

// childSpec is a line-item table referencing its parent entity by foreign
// key. Children never carry an organization id of their own; they are
// reached through the parent.
type childSpec struct {
	name     string
	model    interface{}
	fkColumn string
}

// entitySpec is a tenant-owned entity (organization_id column) together
// with its dependent child tables.
type entitySpec struct {
	name     string
	model    interface{}
	children []childSpec
}

// cascadeGraph declares every business entity the eraser owns, ordered so
// that referencing entities come before referenced ones (movements before
// products, rentals/sales/quotations before products and clients). The
// eraser deletes all children of all entities first, then the entities in
// this order, so foreign keys are never violated and new entity types only
// need a new entry here.
var cascadeGraph = []entitySpec{
	{
		name:  "rentals",
		model: &model.Rental{},
		children: []childSpec{
			{name: "rental_items", model: &model.RentalItem{}, fkColumn: "rental_id"},
			{name: "rental_payments", model: &model.RentalPayment{}, fkColumn: "rental_id"},
		},
	},
	{
		name:  "sales",
		model: &model.Sale{},
		children: []childSpec{
			{name: "sale_items", model: &model.SaleItem{}, fkColumn: "sale_id"},
		},
	},
	{
		name:  "quotations",
		model: &model.Quotation{},
		children: []childSpec{
			{name: "quotation_items", model: &model.QuotationItem{}, fkColumn: "quotation_id"},
		},
	},
	{name: "movements", model: &model.InventoryMovement{}},
	{name: "products", model: &model.Product{}},
	{name: "categories", model: &model.Category{}},
	{name: "suppliers", model: &model.Supplier{}},
	{name: "clients", model: &model.Client{}},
}

// scopeByOrg filters a query to one organization, or to orphan rows when
// organizationID is nil.
func scopeByOrg(q *gorm.DB, organizationID *uint) *gorm.DB {
	if organizationID == nil {
		return q.Where("organization_id IS NULL")
	}
	return q.Where("organization_id = ?", *organizationID)
}

// sweep permanently deletes every entity in the cascade graph within the
// given scope and returns per-entity deleted counts.
func sweep(tx *gorm.DB, organizationID *uint) (map[string]int64, error) {
	counts := make(map[string]int64)

	// Children first, across the whole graph
	for _, entity := range cascadeGraph {
		for _, child := range entity.children {
			sub := scopeByOrg(
				tx.Session(&gorm.Session{NewDB: true}).Unscoped().Model(entity.model).Select("id"),
				organizationID,
			)
			result := tx.Unscoped().
				Where(fmt.Sprintf("%s IN (?)", child.fkColumn), sub).
				Delete(child.model)
			if result.Error != nil {
				return nil, fmt.Errorf("deleting %s: %w", child.name, result.Error)
			}
			counts[child.name] += result.RowsAffected
		}
	}

	// Then the entities themselves, in dependency order
	for _, entity := range cascadeGraph {
		result := scopeByOrg(tx.Unscoped(), organizationID).Delete(entity.model)
		if result.Error != nil {
			return nil, fmt.Errorf("deleting %s: %w", entity.name, result.Error)
		}
		counts[entity.name] += result.RowsAffected
	}

	return counts, nil
}

// Delete permanently removes an organization and every record that belongs
// to it: all business entities and their line items, then the member users,
// then the organization row itself. The whole cascade runs in one
// transaction; any failure rolls everything back.
func Delete(db *gorm.DB, organizationID uint) error {
	if _, err := GetByID(db, organizationID); err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if _, err := sweep(tx, &organizationID); err != nil {
			return err
		}

		if err := tx.Unscoped().Where("organization_id = ?", organizationID).Delete(&model.User{}).Error; err != nil {
			return fmt.Errorf("deleting users: %w", err)
		}

		if err := tx.Unscoped().Delete(&model.Organization{}, organizationID).Error; err != nil {
			return fmt.Errorf("deleting organization %d: %w", organizationID, err)
		}
		return nil
	})
}

// ResetResult reports what a data reset removed: counts for the tenant's
// own rows and for the orphan sweep of rows with no organization reference.
type ResetResult struct {
	OrganizationID uint             `json:"organization_id"`
	ResetAt        time.Time        `json:"reset_at"`
	Deleted        map[string]int64 `json:"deleted_counts"`
	Orphans        map[string]int64 `json:"orphan_counts"`
}

// Reset wipes every business entity of the organization while preserving
// the organization row and its users. Orphan rows of the same entity types
// (no organization reference, predating multi-tenancy) are swept as well,
// and the dashboard goals are zeroed. All of it runs in one transaction.
func Reset(db *gorm.DB, organizationID uint) (*ResetResult, error) {
	if _, err := GetByID(db, organizationID); err != nil {
		return nil, err
	}

	result := &ResetResult{
		OrganizationID: organizationID,
		ResetAt:        time.Now().UTC(),
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		deleted, err := sweep(tx, &organizationID)
		if err != nil {
			return err
		}
		result.Deleted = deleted

		orphans, err := sweep(tx, nil)
		if err != nil {
			return err
		}
		result.Orphans = orphans

		updates := map[string]interface{}{
			"monthly_sales_goal":     0,
			"monthly_growth_target":  0,
			"conversion_rate_target": 0,
		}
		if err := tx.Model(&model.Organization{}).Where("id = ?", organizationID).Updates(updates).Error; err != nil {
			return fmt.Errorf("resetting dashboard goals: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
