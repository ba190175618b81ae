package org

import (
	"fmt"

	"github.com/Jefrey05/sistema-gestion/internal/model"
	"gorm.io/gorm"
)

// PlanLimits are the per-tier resource caps. model.Unlimited disables a cap.
type PlanLimits struct {
	Users     int
	Products  int
	StorageMB int
}

var planLimits = map[model.SubscriptionPlan]PlanLimits{
	model.PlanFree:       {Users: 3, Products: 100, StorageMB: 512},
	model.PlanBasic:      {Users: 10, Products: 1000, StorageMB: 2048},
	model.PlanPremium:    {Users: 50, Products: 10000, StorageMB: 10240},
	model.PlanEnterprise: {Users: model.Unlimited, Products: model.Unlimited, StorageMB: model.Unlimited},
}

// LimitsFor returns the resource limits for a subscription plan. Unknown
// plans fall back to the free tier.
func LimitsFor(plan model.SubscriptionPlan) PlanLimits {
	if limits, ok := planLimits[plan]; ok {
		return limits
	}
	return planLimits[model.PlanFree]
}

// applyPlan overwrites the organization's limits with the plan's values.
func applyPlan(o *model.Organization, plan model.SubscriptionPlan) {
	limits := LimitsFor(plan)
	o.SubscriptionPlan = plan
	o.MaxUsers = limits.Users
	o.MaxProducts = limits.Products
	o.MaxStorageMB = limits.StorageMB
}

// ChangePlan moves the organization to a new plan and recomputes its
// resource limits from the plan table.
func ChangePlan(db *gorm.DB, organizationID uint, plan model.SubscriptionPlan) (*model.Organization, error) {
	if !plan.Valid() {
		return nil, fmt.Errorf("%w: unknown subscription plan %q", ErrValidation, plan)
	}

	o, err := GetByID(db, organizationID)
	if err != nil {
		return nil, err
	}

	applyPlan(o, plan)
	if err := db.Save(o).Error; err != nil {
		return nil, fmt.Errorf("changing plan for organization %d: %w", organizationID, err)
	}
	return o, nil
}

// CanAddUser reports whether the organization is below its user limit.
// Limits are read fresh from the store on every call.
func CanAddUser(db *gorm.DB, organizationID uint) (bool, error) {
	return underLimit(db, organizationID, &model.User{}, func(o *model.Organization) int { return o.MaxUsers })
}

// CanAddProduct reports whether the organization is below its product limit.
func CanAddProduct(db *gorm.DB, organizationID uint) (bool, error) {
	return underLimit(db, organizationID, &model.Product{}, func(o *model.Organization) int { return o.MaxProducts })
}

func underLimit(db *gorm.DB, organizationID uint, entity interface{}, limit func(*model.Organization) int) (bool, error) {
	o, err := GetByID(db, organizationID)
	if err != nil {
		return false, err
	}

	max := limit(o)
	if max == model.Unlimited {
		return true, nil
	}

	var current int64
	if err := db.Model(entity).Where("organization_id = ?", organizationID).Count(&current).Error; err != nil {
		return false, fmt.Errorf("counting organization resources: %w", err)
	}

	return current < int64(max), nil
}
