package org

import (
	"fmt"
	"testing"

	"github.com/Jefrey05/sistema-gestion/internal/model"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&model.Organization{},
		&model.User{},
		&model.Client{},
		&model.Category{},
		&model.Supplier{},
		&model.Product{},
		&model.InventoryMovement{},
		&model.Sale{},
		&model.SaleItem{},
		&model.Rental{},
		&model.RentalItem{},
		&model.RentalPayment{},
		&model.Quotation{},
		&model.QuotationItem{},
	)
	require.NoError(t, err)

	return db
}

var testOrgSeq int

func createTestOrg(t *testing.T, db *gorm.DB, name string) *model.Organization {
	t.Helper()

	testOrgSeq++
	o, err := Create(db, CreateParams{
		Name:  name,
		Email: fmt.Sprintf("org%d@example.com", testOrgSeq),
	})
	require.NoError(t, err)
	return o
}

func createTestUser(t *testing.T, db *gorm.DB, username string, orgID *uint, role model.Role, active bool) *model.User {
	t.Helper()

	user := &model.User{
		Username:       username,
		Email:          username + "@example.com",
		HashedPassword: "x",
		Role:           role,
		OrganizationID: orgID,
		IsActive:       active,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}
