package org

import (
	"testing"

	"github.com/Jefrey05/sistema-gestion/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateUniqueSlug(t *testing.T) {
	db := setupTestDB(t)

	first := createTestOrg(t, db, "Acme Corp")
	assert.Equal(t, "acme-corp", first.Slug)

	second := createTestOrg(t, db, "Acme Corp")
	assert.Equal(t, "acme-corp-1", second.Slug)

	third := createTestOrg(t, db, "Acme Corp")
	assert.Equal(t, "acme-corp-2", third.Slug)
}

func TestGenerateUniqueSlugEmptyName(t *testing.T) {
	db := setupTestDB(t)

	_, err := GenerateUniqueSlug(db, "!!!")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateDefaults(t *testing.T) {
	db := setupTestDB(t)

	o := createTestOrg(t, db, "Fresh Tenant")

	assert.Equal(t, model.OrgStatusPending, o.Status)
	assert.Equal(t, model.PlanFree, o.SubscriptionPlan)
	assert.Equal(t, "USD", o.Currency)
	assert.True(t, o.ModulesEnabled["dashboard"])

	limits := LimitsFor(model.PlanFree)
	assert.Equal(t, limits.Users, o.MaxUsers)
	assert.Equal(t, limits.Products, o.MaxProducts)
	assert.Equal(t, limits.StorageMB, o.MaxStorageMB)
}

func TestCreateRejectsUnknownPlan(t *testing.T) {
	db := setupTestDB(t)

	_, err := Create(db, CreateParams{Name: "Bad Plan", Plan: "platinum"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGetByID(t *testing.T) {
	db := setupTestDB(t)

	o := createTestOrg(t, db, "Lookup")

	got, err := GetByID(db, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.Slug, got.Slug)

	_, err = GetByID(db, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetBySlug(t *testing.T) {
	db := setupTestDB(t)

	o := createTestOrg(t, db, "Slug Lookup")

	got, err := GetBySlug(db, o.Slug)
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)

	_, err = GetBySlug(db, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListFiltersByStatus(t *testing.T) {
	db := setupTestDB(t)

	createTestOrg(t, db, "Pending One")
	active := createTestOrg(t, db, "Active One")
	require.NoError(t, db.Model(active).Update("status", model.OrgStatusActive).Error)

	all, err := List(db, ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	actives, err := List(db, ListFilter{Status: model.OrgStatusActive})
	require.NoError(t, err)
	require.Len(t, actives, 1)
	assert.Equal(t, active.ID, actives[0].ID)
}

func TestUpdateAppliesOnlySetFields(t *testing.T) {
	db := setupTestDB(t)

	o := createTestOrg(t, db, "Patchable")
	originalSlug := o.Slug
	originalEmail := o.Email

	name := "Renamed"
	phone := "555-0100"
	updated, err := Update(db, o.ID, UpdateParams{Name: &name, Phone: &phone})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "555-0100", updated.Phone)
	assert.Equal(t, originalSlug, updated.Slug)
	assert.Equal(t, originalEmail, updated.Email)
}

func TestSetLogoAndStamp(t *testing.T) {
	db := setupTestDB(t)

	o := createTestOrg(t, db, "Branded")

	withLogo, err := SetLogo(db, o.ID, "https://cdn.example.com/logo.png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/logo.png", withLogo.LogoURL)

	withStamp, err := SetStamp(db, o.ID, "https://cdn.example.com/stamp.png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/stamp.png", withStamp.StampURL)
}

func TestRegisterCreatesPendingOrgWithInactiveAdmin(t *testing.T) {
	db := setupTestDB(t)

	o, err := Register(db, RegisterParams{
		Name:          "New Shop",
		Email:         "shop@example.com",
		AdminUsername: "shopadmin",
		AdminEmail:    "admin@example.com",
		AdminPassword: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, model.OrgStatusPending, o.Status)

	var admin model.User
	require.NoError(t, db.Where("username = ?", "shopadmin").First(&admin).Error)
	assert.Equal(t, model.RoleAdmin, admin.Role)
	assert.False(t, admin.IsActive)
	require.NotNil(t, admin.OrganizationID)
	assert.Equal(t, o.ID, *admin.OrganizationID)
	assert.NotEqual(t, "secret123", admin.HashedPassword)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)

	params := RegisterParams{
		Name:          "First",
		Email:         "dup@example.com",
		AdminUsername: "first",
		AdminEmail:    "first@example.com",
		AdminPassword: "secret123",
	}
	_, err := Register(db, params)
	require.NoError(t, err)

	params.Name = "Second"
	params.AdminUsername = "second"
	params.AdminEmail = "second@example.com"
	_, err = Register(db, params)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRegisterRejectsTakenUsername(t *testing.T) {
	db := setupTestDB(t)

	createTestUser(t, db, "taken", nil, model.RoleEmployee, true)

	_, err := Register(db, RegisterParams{
		Name:          "Shop",
		Email:         "shop2@example.com",
		AdminUsername: "taken",
		AdminEmail:    "taken2@example.com",
		AdminPassword: "secret123",
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateWithAdmin(t *testing.T) {
	db := setupTestDB(t)

	o, err := CreateWithAdmin(db, CreateWithAdminParams{
		OrganizationName: "Provisioned",
		AdminEmail:       "owner@example.com",
		AdminPassword:    "secret123",
		AdminFullName:    "Owner Person",
		Plan:             model.PlanPremium,
	})
	require.NoError(t, err)

	assert.Equal(t, model.OrgStatusActive, o.Status)
	assert.Equal(t, model.PlanPremium, o.SubscriptionPlan)
	assert.Equal(t, LimitsFor(model.PlanPremium).Users, o.MaxUsers)

	var admin model.User
	require.NoError(t, db.Where("email = ?", "owner@example.com").First(&admin).Error)
	assert.Equal(t, "owner", admin.Username)
	assert.True(t, admin.IsActive)
	assert.Equal(t, model.RoleAdmin, admin.Role)
}

func TestCreateWithAdminRejectsTakenDerivedUsername(t *testing.T) {
	db := setupTestDB(t)

	o := createTestOrg(t, db, "Existing")
	createTestUser(t, db, "owner", &o.ID, model.RoleAdmin, true)

	// The derived username "owner" collides with the existing user even
	// though the emails differ
	_, err := CreateWithAdmin(db, CreateWithAdminParams{
		OrganizationName: "Newcomer",
		AdminEmail:       "owner@newcomer.com",
		AdminPassword:    "secret123",
		AdminFullName:    "Other Owner",
	})
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "username already taken")
}

func TestGetStats(t *testing.T) {
	db := setupTestDB(t)

	o := createTestOrg(t, db, "Counted")
	createTestUser(t, db, "member1", &o.ID, model.RoleEmployee, true)
	createTestUser(t, db, "member2", &o.ID, model.RoleSeller, true)
	require.NoError(t, db.Create(&model.Client{OrganizationID: &o.ID, Name: "c1"}).Error)
	require.NoError(t, db.Create(&model.Product{OrganizationID: &o.ID, Name: "p1"}).Error)

	stats, err := GetStats(db, o.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.TotalClients)
	assert.Equal(t, int64(1), stats.TotalProducts)
	assert.Equal(t, int64(0), stats.TotalSales)
}
