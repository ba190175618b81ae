package org

import (
	"testing"

	"github.com/Jefrey05/sistema-gestion/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// seedBusinessData fills an organization with one of everything the
// cascade graph covers, including line items.
func seedBusinessData(t *testing.T, db *gorm.DB, orgID uint) {
	t.Helper()

	product := model.Product{OrganizationID: &orgID, Name: "drill", Stock: 10, StockAvailable: 10}
	require.NoError(t, db.Create(&product).Error)
	require.NoError(t, db.Create(&model.Category{OrganizationID: &orgID, Name: "tools"}).Error)
	require.NoError(t, db.Create(&model.Supplier{OrganizationID: &orgID, Name: "acme supply"}).Error)
	require.NoError(t, db.Create(&model.Client{OrganizationID: &orgID, Name: "builder"}).Error)
	require.NoError(t, db.Create(&model.InventoryMovement{
		OrganizationID: &orgID, ProductID: product.ID, MovementType: "in", Quantity: 10,
	}).Error)

	sale := model.Sale{
		OrganizationID: &orgID,
		Total:          100,
		Items: []model.SaleItem{
			{ProductID: product.ID, Quantity: 1, UnitPrice: 100, Total: 100},
		},
	}
	require.NoError(t, db.Create(&sale).Error)

	rental := model.Rental{
		OrganizationID: &orgID,
		Total:          50,
		Items: []model.RentalItem{
			{ProductID: product.ID, Quantity: 1, RatePeriod: "daily", Rate: 50, Total: 50},
		},
		Payments: []model.RentalPayment{
			{Amount: 25},
		},
	}
	require.NoError(t, db.Create(&rental).Error)

	quotation := model.Quotation{
		OrganizationID: &orgID,
		Total:          75,
		Items: []model.QuotationItem{
			{ProductID: product.ID, Quantity: 1, UnitPrice: 75, Total: 75},
		},
	}
	require.NoError(t, db.Create(&quotation).Error)
}

func countRows(t *testing.T, db *gorm.DB, entity interface{}) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Unscoped().Model(entity).Count(&count).Error)
	return count
}

func TestDeleteRemovesEverything(t *testing.T) {
	db := setupTestDB(t)

	o := createTestOrg(t, db, "Doomed")
	createTestUser(t, db, "doomeduser", &o.ID, model.RoleAdmin, true)
	seedBusinessData(t, db, o.ID)

	require.NoError(t, Delete(db, o.ID))

	for _, entity := range []interface{}{
		&model.Organization{}, &model.User{},
		&model.Client{}, &model.Category{}, &model.Supplier{},
		&model.Product{}, &model.InventoryMovement{},
		&model.Sale{}, &model.SaleItem{},
		&model.Rental{}, &model.RentalItem{}, &model.RentalPayment{},
		&model.Quotation{}, &model.QuotationItem{},
	} {
		assert.Zero(t, countRows(t, db, entity))
	}

	_, err := GetByID(db, o.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteIsScopedToOneTenant(t *testing.T) {
	db := setupTestDB(t)

	doomed := createTestOrg(t, db, "Doomed Tenant")
	survivor := createTestOrg(t, db, "Survivor Tenant")
	seedBusinessData(t, db, doomed.ID)
	seedBusinessData(t, db, survivor.ID)
	createTestUser(t, db, "survivoruser", &survivor.ID, model.RoleAdmin, true)

	require.NoError(t, Delete(db, doomed.ID))

	_, err := GetByID(db, survivor.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(1), countRows(t, db, &model.Sale{}))
	assert.Equal(t, int64(1), countRows(t, db, &model.SaleItem{}))
	assert.Equal(t, int64(1), countRows(t, db, &model.Rental{}))
	assert.Equal(t, int64(1), countRows(t, db, &model.RentalPayment{}))
	assert.Equal(t, int64(1), countRows(t, db, &model.User{}))
}

func TestDeleteFreesSlugForReuse(t *testing.T) {
	db := setupTestDB(t)

	o := createTestOrg(t, db, "Recycled Name")
	require.NoError(t, Delete(db, o.ID))

	again := createTestOrg(t, db, "Recycled Name")
	assert.Equal(t, "recycled-name", again.Slug)
}

func TestDeleteNotFound(t *testing.T) {
	db := setupTestDB(t)
	assert.ErrorIs(t, Delete(db, 9999), ErrNotFound)
}

func TestDeleteRollsBackOnFailure(t *testing.T) {
	db := setupTestDB(t)

	o := createTestOrg(t, db, "Sturdy")
	createTestUser(t, db, "sturdyuser", &o.ID, model.RoleAdmin, true)
	seedBusinessData(t, db, o.ID)

	// Losing the quotations table makes the sweep fail after the rental
	// and sale line items were already deleted inside the transaction.
	require.NoError(t, db.Migrator().DropTable(&model.Quotation{}))

	require.Error(t, Delete(db, o.ID))

	// Everything deleted before the failure is back
	assert.EqualValues(t, 1, countRows(t, db, &model.Rental{}))
	assert.EqualValues(t, 1, countRows(t, db, &model.RentalItem{}))
	assert.EqualValues(t, 1, countRows(t, db, &model.RentalPayment{}))
	assert.EqualValues(t, 1, countRows(t, db, &model.Sale{}))
	assert.EqualValues(t, 1, countRows(t, db, &model.SaleItem{}))
	assert.EqualValues(t, 1, countRows(t, db, &model.Client{}))
	assert.EqualValues(t, 1, countRows(t, db, &model.User{}))

	_, err := GetByID(db, o.ID)
	require.NoError(t, err)
}

func TestResetRollsBackOnFailure(t *testing.T) {
	db := setupTestDB(t)

	o := createTestOrg(t, db, "Resilient")
	seedBusinessData(t, db, o.ID)

	require.NoError(t, db.Model(o).Update("monthly_sales_goal", 5000.0).Error)

	require.NoError(t, db.Migrator().DropTable(&model.SaleItem{}))

	_, err := Reset(db, o.ID)
	require.Error(t, err)

	assert.EqualValues(t, 1, countRows(t, db, &model.Rental{}))
	assert.EqualValues(t, 1, countRows(t, db, &model.RentalItem{}))
	assert.EqualValues(t, 1, countRows(t, db, &model.RentalPayment{}))
	assert.EqualValues(t, 1, countRows(t, db, &model.Client{}))

	got, err := GetByID(db, o.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 5000, got.MonthlySalesGoal)
}

func TestResetPreservesOrgAndUsers(t *testing.T) {
	db := setupTestDB(t)

	o := createTestOrg(t, db, "Resettable")
	user := createTestUser(t, db, "resetuser", &o.ID, model.RoleAdmin, true)
	seedBusinessData(t, db, o.ID)

	require.NoError(t, db.Model(o).Updates(map[string]interface{}{
		"monthly_sales_goal":    5000.0,
		"monthly_growth_target": 10.0,
	}).Error)

	result, err := Reset(db, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.ID, result.OrganizationID)

	// The organization and its users survive
	reloaded, err := GetByID(db, o.ID)
	require.NoError(t, err)
	var reloadedUser model.User
	require.NoError(t, db.First(&reloadedUser, user.ID).Error)

	// All business data is gone
	for _, entity := range []interface{}{
		&model.Client{}, &model.Category{}, &model.Supplier{},
		&model.Product{}, &model.InventoryMovement{},
		&model.Sale{}, &model.SaleItem{},
		&model.Rental{}, &model.RentalItem{}, &model.RentalPayment{},
		&model.Quotation{}, &model.QuotationItem{},
	} {
		assert.Zero(t, countRows(t, db, entity))
	}

	// Dashboard goals are zeroed
	assert.Zero(t, reloaded.MonthlySalesGoal)
	assert.Zero(t, reloaded.MonthlyGrowthTarget)

	// The result reports what was deleted
	assert.Equal(t, int64(1), result.Deleted["sales"])
	assert.Equal(t, int64(1), result.Deleted["sale_items"])
	assert.Equal(t, int64(1), result.Deleted["rentals"])
	assert.Equal(t, int64(1), result.Deleted["rental_payments"])
	assert.Equal(t, int64(1), result.Deleted["products"])
}

func TestResetSweepsOrphans(t *testing.T) {
	db := setupTestDB(t)

	o := createTestOrg(t, db, "Orphan Sweeper")

	// Rows with no organization reference, left over from before tenancy
	require.NoError(t, db.Create(&model.Client{Name: "orphan client"}).Error)
	require.NoError(t, db.Create(&model.Product{Name: "orphan product"}).Error)

	result, err := Reset(db, o.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(1), result.Orphans["clients"])
	assert.Equal(t, int64(1), result.Orphans["products"])
	assert.Zero(t, countRows(t, db, &model.Client{}))
	assert.Zero(t, countRows(t, db, &model.Product{}))
}

func TestResetDoesNotTouchOtherTenants(t *testing.T) {
	db := setupTestDB(t)

	target := createTestOrg(t, db, "Reset Target")
	other := createTestOrg(t, db, "Untouched")
	seedBusinessData(t, db, target.ID)
	seedBusinessData(t, db, other.ID)

	_, err := Reset(db, target.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(1), countRows(t, db, &model.Sale{}))
	assert.Equal(t, int64(1), countRows(t, db, &model.Product{}))
	assert.Equal(t, int64(1), countRows(t, db, &model.QuotationItem{}))
}

func TestResetNotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := Reset(db, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}
