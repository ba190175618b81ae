package org

import (
	"fmt"
	"time"

	"github.com/Jefrey05/sistema-gestion/internal/model"
	"gorm.io/gorm"
)

// ApprovalParams carries the super admin's decision on a pending
// organization. Modules and Plan, when set, overwrite the requested values;
// a plan change recomputes the resource limits.
type ApprovalParams struct {
	Approved       bool
	ModulesEnabled model.ModulesMap
	Plan           model.SubscriptionPlan
	Notes          string
}

// Approve resolves a pending organization. Approval activates it together
// with every member user; rejection moves it to cancelled with no user side
// effects. Re-approving an already active organization simply reapplies the
// target state.
func Approve(db *gorm.DB, organizationID, approvedBy uint, params ApprovalParams) (*model.Organization, error) {
	var approved *model.Organization
	err := db.Transaction(func(tx *gorm.DB) error {
		o, err := GetByID(tx, organizationID)
		if err != nil {
			return err
		}

		if params.Approved {
			now := time.Now().UTC()
			o.Status = model.OrgStatusActive
			o.ApprovedAt = &now
			o.ApprovedBy = &approvedBy

			if params.ModulesEnabled != nil {
				o.ModulesEnabled = params.ModulesEnabled
			}
			if params.Plan != "" {
				if !params.Plan.Valid() {
					return fmt.Errorf("%w: unknown subscription plan %q", ErrValidation, params.Plan)
				}
				applyPlan(o, params.Plan)
			}

			if err := setMemberActivation(tx, organizationID, true); err != nil {
				return err
			}
		} else {
			o.Status = model.OrgStatusCancelled
		}

		if params.Notes != "" {
			o.Notes = params.Notes
		}

		if err := tx.Save(o).Error; err != nil {
			return fmt.Errorf("saving organization %d: %w", organizationID, err)
		}
		approved = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return approved, nil
}

// Suspend moves the organization to suspended and deactivates every member
// user. Plan and limits are untouched.
func Suspend(db *gorm.DB, organizationID uint, notes string) (*model.Organization, error) {
	var suspended *model.Organization
	err := db.Transaction(func(tx *gorm.DB) error {
		o, err := GetByID(tx, organizationID)
		if err != nil {
			return err
		}

		o.Status = model.OrgStatusSuspended
		if notes != "" {
			o.Notes = notes
		}

		if err := setMemberActivation(tx, organizationID, false); err != nil {
			return err
		}

		if err := tx.Save(o).Error; err != nil {
			return fmt.Errorf("saving organization %d: %w", organizationID, err)
		}
		suspended = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return suspended, nil
}

// Reactivate moves a suspended organization back to active and reactivates
// every member user.
func Reactivate(db *gorm.DB, organizationID uint) (*model.Organization, error) {
	var reactivated *model.Organization
	err := db.Transaction(func(tx *gorm.DB) error {
		o, err := GetByID(tx, organizationID)
		if err != nil {
			return err
		}

		o.Status = model.OrgStatusActive

		if err := setMemberActivation(tx, organizationID, true); err != nil {
			return err
		}

		if err := tx.Save(o).Error; err != nil {
			return fmt.Errorf("saving organization %d: %w", organizationID, err)
		}
		reactivated = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reactivated, nil
}

func setMemberActivation(tx *gorm.DB, organizationID uint, active bool) error {
	result := tx.Model(&model.User{}).
		Where("organization_id = ?", organizationID).
		Update("is_active", active)
	if result.Error != nil {
		return fmt.Errorf("updating member activation: %w", result.Error)
	}
	return nil
}
