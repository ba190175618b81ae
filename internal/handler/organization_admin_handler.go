package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Jefrey05/sistema-gestion/internal/middleware"
	"github.com/Jefrey05/sistema-gestion/internal/model"
	"github.com/Jefrey05/sistema-gestion/internal/org"
	"github.com/Jefrey05/sistema-gestion/pkg/database"
	"github.com/Jefrey05/sistema-gestion/pkg/logger"
	"github.com/Jefrey05/sistema-gestion/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// pathOrgID parses the organization id from the route parameter.
func pathOrgID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid organization id")
	}
	return uint(id), nil
}

// CreateOrganizationWithAdmin provisions an active organization together
// with its active admin user. Super admin only.
func CreateOrganizationWithAdmin(c echo.Context) error {
	log := logger.FromEcho(c)

	var req struct {
		OrganizationName string `json:"organization_name"`
		AdminEmail       string `json:"admin_email"`
		AdminPassword    string `json:"admin_password"`
		AdminFullName    string `json:"admin_full_name"`
		Phone            string `json:"phone"`
		Address          string `json:"address"`
		Plan             string `json:"subscription_plan"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	plan := model.SubscriptionPlan(req.Plan)
	if req.Plan != "" && !plan.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown subscription plan"})
	}

	defer prometheus.TrackDBOperation("create_organization")(time.Now())
	created, err := org.CreateWithAdmin(database.GetDB(), org.CreateWithAdminParams{
		OrganizationName: req.OrganizationName,
		AdminEmail:       req.AdminEmail,
		AdminPassword:    req.AdminPassword,
		AdminFullName:    req.AdminFullName,
		Phone:            req.Phone,
		Address:          req.Address,
		Plan:             plan,
	})
	if err != nil {
		return orgError(c, log, err)
	}

	prometheus.RecordOrgOperation("create_with_admin")
	log.Info("Organization provisioned",
		zap.Uint("organization_id", created.ID),
		zap.String("slug", created.Slug))

	return c.JSON(http.StatusCreated, created)
}

// organizationSummary is an organization with its member count, as shown
// in the operator's listing.
type organizationSummary struct {
	model.Organization
	UserCount int64 `json:"user_count"`
}

// ListAllOrganizations returns every organization, optionally filtered by
// status, with per-organization user counts. Super admin only.
func ListAllOrganizations(c echo.Context) error {
	log := logger.FromEcho(c)

	filter := org.ListFilter{}
	if status := c.QueryParam("status"); status != "" {
		s := model.OrganizationStatus(status)
		if !s.Valid() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
		}
		filter.Status = s
	}
	if offset, err := strconv.Atoi(c.QueryParam("offset")); err == nil && offset > 0 {
		filter.Offset = offset
	}
	if limit, err := strconv.Atoi(c.QueryParam("limit")); err == nil && limit > 0 {
		filter.Limit = limit
	}

	db := database.GetDB()
	orgs, err := org.List(db, filter)
	if err != nil {
		return orgError(c, log, err)
	}

	summaries := make([]organizationSummary, 0, len(orgs))
	for _, o := range orgs {
		var count int64
		if err := db.Model(&model.User{}).Where("organization_id = ?", o.ID).Count(&count).Error; err != nil {
			log.Error("Failed to count organization users", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
		}
		summaries = append(summaries, organizationSummary{Organization: o, UserCount: count})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"organizations": summaries,
		"count":         len(summaries),
	})
}

// ListAllUsers returns every user in the system. Super admin only.
func ListAllUsers(c echo.Context) error {
	log := logger.FromEcho(c)

	var users []model.User
	query := database.GetDB().Order("created_at ASC")
	if orgParam := c.QueryParam("organization_id"); orgParam != "" {
		id, err := strconv.ParseUint(orgParam, 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid organization id"})
		}
		query = query.Where("organization_id = ?", id)
	}
	if err := query.Find(&users).Error; err != nil {
		log.Error("Failed to list users", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, users)
}

// GetOrganization returns one organization by id. Super admin only.
func GetOrganization(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := pathOrgID(c)
	if err != nil {
		return err
	}

	o, err := org.GetByID(database.GetDB(), id)
	if err != nil {
		return orgError(c, log, err)
	}
	return c.JSON(http.StatusOK, o)
}

// ApproveOrganization decides a pending registration: approval activates
// the organization and its users, rejection cancels it. Super admin only.
func ApproveOrganization(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := pathOrgID(c)
	if err != nil {
		return err
	}

	approver := middleware.CurrentUser(c)
	if approver == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req struct {
		Approved       bool             `json:"approved"`
		ModulesEnabled model.ModulesMap `json:"modules_enabled"`
		Plan           string           `json:"subscription_plan"`
		Notes          string           `json:"notes"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	params := org.ApprovalParams{
		Approved:       req.Approved,
		ModulesEnabled: req.ModulesEnabled,
		Plan:           model.SubscriptionPlan(req.Plan),
		Notes:          req.Notes,
	}
	if req.Plan != "" && !params.Plan.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown subscription plan"})
	}

	defer prometheus.TrackDBOperation("approve_organization")(time.Now())
	o, err := org.Approve(database.GetDB(), id, approver.ID, params)
	if err != nil {
		return orgError(c, log, err)
	}

	operation := "approve"
	if !req.Approved {
		operation = "reject"
	}
	prometheus.RecordOrgOperation(operation)
	log.Info("Organization approval decided",
		zap.Uint("organization_id", o.ID),
		zap.String("status", string(o.Status)),
		zap.Uint("approved_by", approver.ID))

	return c.JSON(http.StatusOK, o)
}

// SuspendOrganization suspends an organization and deactivates its users.
// Super admin only.
func SuspendOrganization(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := pathOrgID(c)
	if err != nil {
		return err
	}

	var req struct {
		Notes string `json:"notes"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("suspend_organization")(time.Now())
	o, err := org.Suspend(database.GetDB(), id, req.Notes)
	if err != nil {
		return orgError(c, log, err)
	}

	prometheus.RecordOrgOperation("suspend")
	log.Info("Organization suspended", zap.Uint("organization_id", o.ID))
	return c.JSON(http.StatusOK, o)
}

// ReactivateOrganization reactivates a suspended organization and its
// users. Super admin only.
func ReactivateOrganization(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := pathOrgID(c)
	if err != nil {
		return err
	}

	defer prometheus.TrackDBOperation("reactivate_organization")(time.Now())
	o, err := org.Reactivate(database.GetDB(), id)
	if err != nil {
		return orgError(c, log, err)
	}

	prometheus.RecordOrgOperation("reactivate")
	log.Info("Organization reactivated", zap.Uint("organization_id", o.ID))
	return c.JSON(http.StatusOK, o)
}

// UpdateOrganization applies a settings patch to any organization, with an
// optional plan change that recomputes the resource limits. Super admin
// only.
func UpdateOrganization(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := pathOrgID(c)
	if err != nil {
		return err
	}

	var req struct {
		settingsRequest
		Plan           *string           `json:"subscription_plan"`
		ModulesEnabled *model.ModulesMap `json:"modules_enabled"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	db := database.GetDB()
	patch := org.UpdateParams{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		PrimaryColor:   req.PrimaryColor,
		SecondaryColor: req.SecondaryColor,
		ModuleColors:   req.ModuleColors,
		RNC:            req.RNC,
		Address:        req.Address,
		City:           req.City,
		AddressNumber:  req.AddressNumber,
		Website:        req.Website,
		InvoiceEmail:   req.InvoiceEmail,
		Currency:       req.Currency,
		Notes:          req.Notes,
		ModulesEnabled: req.ModulesEnabled,
	}

	o, err := org.Update(db, id, patch)
	if err != nil {
		return orgError(c, log, err)
	}

	if req.Plan != nil {
		plan := model.SubscriptionPlan(*req.Plan)
		if !plan.Valid() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown subscription plan"})
		}
		o, err = org.ChangePlan(db, id, plan)
		if err != nil {
			return orgError(c, log, err)
		}
	}

	prometheus.RecordOrgOperation("update")
	return c.JSON(http.StatusOK, o)
}

// DeleteOrganization permanently removes an organization and everything
// that belongs to it. Super admin only.
func DeleteOrganization(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := pathOrgID(c)
	if err != nil {
		return err
	}

	defer prometheus.TrackDBOperation("delete_organization")(time.Now())
	if err := org.Delete(database.GetDB(), id); err != nil {
		return orgError(c, log, err)
	}

	prometheus.RecordCascadeDeletion("delete")
	prometheus.RecordOrgOperation("delete")
	log.Info("Organization deleted", zap.Uint("organization_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "organization deleted"})
}
