package org

import (
	"fmt"
	"testing"

	"github.com/Jefrey05/sistema-gestion/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApproveActivatesOrgAndUsers(t *testing.T) {
	db := setupTestDB(t)

	o := createTestOrg(t, db, "Applicant")
	admin := createTestUser(t, db, "applicantadmin", &o.ID, model.RoleAdmin, false)

	approved, err := Approve(db, o.ID, 1, ApprovalParams{Approved: true})
	require.NoError(t, err)

	assert.Equal(t, model.OrgStatusActive, approved.Status)
	require.NotNil(t, approved.ApprovedAt)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, uint(1), *approved.ApprovedBy)

	var reloaded model.User
	require.NoError(t, db.First(&reloaded, admin.ID).Error)
	assert.True(t, reloaded.IsActive)
}

func TestApproveWithPlanOverwriteRecomputesLimits(t *testing.T) {
	db := setupTestDB(t)

	o := createTestOrg(t, db, "Upgrader")

	approved, err := Approve(db, o.ID, 1, ApprovalParams{
		Approved: true,
		Plan:     model.PlanPremium,
		ModulesEnabled: model.ModulesMap{
			"dashboard": true,
			"sales":     true,
			"rentals":   false,
		},
	})
	require.NoError(t, err)

	limits := LimitsFor(model.PlanPremium)
	assert.Equal(t, model.PlanPremium, approved.SubscriptionPlan)
	assert.Equal(t, limits.Users, approved.MaxUsers)
	assert.Equal(t, limits.Products, approved.MaxProducts)
	assert.False(t, approved.ModulesEnabled["rentals"])
}

func TestApproveRejectsUnknownPlan(t *testing.T) {
	db := setupTestDB(t)

	o := createTestOrg(t, db, "Bad Upgrade")

	_, err := Approve(db, o.ID, 1, ApprovalParams{Approved: true, Plan: "platinum"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRejectCancelsWithoutTouchingUsers(t *testing.T) {
	db := setupTestDB(t)

	o := createTestOrg(t, db, "Rejected")
	admin := createTestUser(t, db, "rejectedadmin", &o.ID, model.RoleAdmin, false)

	rejected, err := Approve(db, o.ID, 1, ApprovalParams{Approved: false, Notes: "incomplete data"})
	require.NoError(t, err)

	assert.Equal(t, model.OrgStatusCancelled, rejected.Status)
	assert.Nil(t, rejected.ApprovedAt)
	assert.Equal(t, "incomplete data", rejected.Notes)

	var reloaded model.User
	require.NoError(t, db.First(&reloaded, admin.ID).Error)
	assert.False(t, reloaded.IsActive)
}

func TestSuspendDeactivatesUsers(t *testing.T) {
	db := setupTestDB(t)

	o := createTestOrg(t, db, "Suspended Co")
	u1 := createTestUser(t, db, "suspended1", &o.ID, model.RoleAdmin, true)
	u2 := createTestUser(t, db, "suspended2", &o.ID, model.RoleEmployee, true)

	suspended, err := Suspend(db, o.ID, "non-payment")
	require.NoError(t, err)
	assert.Equal(t, model.OrgStatusSuspended, suspended.Status)
	assert.Equal(t, "non-payment", suspended.Notes)

	for _, id := range []uint{u1.ID, u2.ID} {
		var reloaded model.User
		require.NoError(t, db.First(&reloaded, id).Error)
		assert.False(t, reloaded.IsActive)
	}
}

func TestReactivateRestoresUsers(t *testing.T) {
	db := setupTestDB(t)

	o := createTestOrg(t, db, "Comeback")
	u := createTestUser(t, db, "comebackuser", &o.ID, model.RoleEmployee, true)

	_, err := Suspend(db, o.ID, "")
	require.NoError(t, err)

	reactivated, err := Reactivate(db, o.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrgStatusActive, reactivated.Status)

	var reloaded model.User
	require.NoError(t, db.First(&reloaded, u.ID).Error)
	assert.True(t, reloaded.IsActive)
}

func TestLifecycleNotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := Approve(db, 9999, 1, ApprovalParams{Approved: true})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = Suspend(db, 9999, "")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = Reactivate(db, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSuspensionDoesNotTouchOtherTenants(t *testing.T) {
	db := setupTestDB(t)

	a := createTestOrg(t, db, "Tenant A")
	b := createTestOrg(t, db, "Tenant B")
	userA := createTestUser(t, db, "tenant-a-user", &a.ID, model.RoleEmployee, true)
	userB := createTestUser(t, db, "tenant-b-user", &b.ID, model.RoleEmployee, true)

	_, err := Suspend(db, a.ID, "")
	require.NoError(t, err)

	var reloadedA, reloadedB model.User
	require.NoError(t, db.First(&reloadedA, userA.ID).Error)
	require.NoError(t, db.First(&reloadedB, userB.ID).Error)
	assert.False(t, reloadedA.IsActive)
	assert.True(t, reloadedB.IsActive)
}

func TestChangePlan(t *testing.T) {
	db := setupTestDB(t)

	o := createTestOrg(t, db, "Plan Change")

	changed, err := ChangePlan(db, o.ID, model.PlanEnterprise)
	require.NoError(t, err)
	assert.Equal(t, model.PlanEnterprise, changed.SubscriptionPlan)
	assert.Equal(t, model.Unlimited, changed.MaxUsers)
	assert.Equal(t, model.Unlimited, changed.MaxProducts)
	assert.Equal(t, model.Unlimited, changed.MaxStorageMB)

	_, err = ChangePlan(db, o.ID, "platinum")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCanAddUserRespectsPlanLimit(t *testing.T) {
	db := setupTestDB(t)

	o := createTestOrg(t, db, "Limited") // free plan: 3 users

	for i := 0; i < 3; i++ {
		createTestUser(t, db, fmt.Sprintf("limited%d", i), &o.ID, model.RoleEmployee, true)
	}

	allowed, err := CanAddUser(db, o.ID)
	require.NoError(t, err)
	assert.False(t, allowed)

	_, err = ChangePlan(db, o.ID, model.PlanEnterprise)
	require.NoError(t, err)

	allowed, err = CanAddUser(db, o.ID)
	require.NoError(t, err)
	assert.True(t, allowed)
}
