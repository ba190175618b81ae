package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
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

// currencySymbols maps the supported ISO currency codes to their display
// symbols.
var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"DOP": "RD$",
}

// orgError maps the org package's error taxonomy to an HTTP response.
func orgError(c echo.Context, log *zap.Logger, err error) error {
	switch {
	case errors.Is(err, org.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "organization not found"})
	case errors.Is(err, org.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
	case errors.Is(err, org.ErrValidation):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, org.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	default:
		log.Error("Organization operation failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}

// requireOrganization returns the authenticated user and its organization
// id, or writes the error response and returns ok=false. The super admin
// has no organization and is rejected here.
func requireOrganization(c echo.Context) (*model.User, uint, bool) {
	user := middleware.CurrentUser(c)
	if user == nil {
		_ = c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
		return nil, 0, false
	}
	if user.OrganizationID == nil {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "user does not belong to an organization"})
		return nil, 0, false
	}
	return user, *user.OrganizationID, true
}

// RegisterOrganization is the public self-registration endpoint: a new
// pending organization with its inactive admin user.
func RegisterOrganization(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RegisterCounter.Inc()

	var req struct {
		Name             string           `json:"name"`
		Email            string           `json:"email"`
		Phone            string           `json:"phone"`
		PrimaryColor     string           `json:"primary_color"`
		SecondaryColor   string           `json:"secondary_color"`
		ModulesRequested model.ModulesMap `json:"modules_requested"`
		AdminUsername    string           `json:"admin_username"`
		AdminEmail       string           `json:"admin_email"`
		AdminPassword    string           `json:"admin_password"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse registration request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("register_organization")(time.Now())
	created, err := org.Register(database.GetDB(), org.RegisterParams{
		Name:             req.Name,
		Email:            req.Email,
		Phone:            req.Phone,
		PrimaryColor:     req.PrimaryColor,
		SecondaryColor:   req.SecondaryColor,
		ModulesRequested: req.ModulesRequested,
		AdminUsername:    req.AdminUsername,
		AdminEmail:       req.AdminEmail,
		AdminPassword:    req.AdminPassword,
	})
	if err != nil {
		return orgError(c, log, err)
	}

	prometheus.RecordOrgOperation("register")
	log.Info("Organization registered",
		zap.Uint("organization_id", created.ID),
		zap.String("slug", created.Slug))

	return c.JSON(http.StatusCreated, echo.Map{
		"message":      "organization registered, pending approval",
		"organization": created,
	})
}

// GetMyOrganization returns the authenticated user's organization.
func GetMyOrganization(c echo.Context) error {
	log := logger.FromEcho(c)

	_, orgID, ok := requireOrganization(c)
	if !ok {
		return nil
	}

	o, err := org.GetByID(database.GetDB(), orgID)
	if err != nil {
		return orgError(c, log, err)
	}
	return c.JSON(http.StatusOK, o)
}

// settingsRequest is the typed settings patch: only fields present in the
// JSON body are applied.
type settingsRequest struct {
	Name           *string          `json:"name"`
	Email          *string          `json:"email"`
	Phone          *string          `json:"phone"`
	PrimaryColor   *string          `json:"primary_color"`
	SecondaryColor *string          `json:"secondary_color"`
	ModuleColors   *model.StringMap `json:"module_colors"`
	RNC            *string          `json:"rnc"`
	Address        *string          `json:"address"`
	City           *string          `json:"city"`
	AddressNumber  *string          `json:"address_number"`
	Website        *string          `json:"website"`
	InvoiceEmail   *string          `json:"invoice_email"`
	Currency       *string          `json:"currency"`
	Notes          *string          `json:"notes"`
}

// UpdateMySettings applies a partial settings update to the caller's
// organization. Admin only; the slug is immutable and not accepted here.
func UpdateMySettings(c echo.Context) error {
	log := logger.FromEcho(c)

	_, orgID, ok := requireOrganization(c)
	if !ok {
		return nil
	}

	var req settingsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Currency != nil {
		if _, supported := currencySymbols[*req.Currency]; !supported {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unsupported currency"})
		}
	}

	defer prometheus.TrackDBOperation("update_settings")(time.Now())
	o, err := org.Update(database.GetDB(), orgID, org.UpdateParams{
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
	})
	if err != nil {
		return orgError(c, log, err)
	}

	prometheus.RecordOrgOperation("update_settings")
	return c.JSON(http.StatusOK, o)
}

// uploadAsset reads the multipart file and stores it under the given
// folder, returning the public URL. The organization row is only touched
// after a successful upload.
func uploadAsset(c echo.Context, orgID uint, kind string) (string, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return "", fmt.Errorf("%w: file is required", org.ErrValidation)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("opening upload: %w", err)
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		return "", fmt.Errorf("reading upload: %w", err)
	}

	publicID := fmt.Sprintf("org_%d_%s", orgID, kind)
	return assetStore.Upload(c.Request().Context(), content, "organizations", publicID)
}

// UploadLogo stores the organization's logo in the asset store and records
// its URL.
func UploadLogo(c echo.Context) error {
	log := logger.FromEcho(c)

	_, orgID, ok := requireOrganization(c)
	if !ok {
		return nil
	}

	url, err := uploadAsset(c, orgID, "logo")
	if err != nil {
		return orgError(c, log, err)
	}

	o, err := org.SetLogo(database.GetDB(), orgID, url)
	if err != nil {
		return orgError(c, log, err)
	}

	prometheus.RecordOrgOperation("upload_logo")
	log.Info("Logo uploaded", zap.Uint("organization_id", orgID))
	return c.JSON(http.StatusOK, echo.Map{"logo_url": o.LogoURL})
}

// DeleteLogo removes the logo from the asset store and clears its URL.
func DeleteLogo(c echo.Context) error {
	log := logger.FromEcho(c)

	_, orgID, ok := requireOrganization(c)
	if !ok {
		return nil
	}

	publicID := fmt.Sprintf("org_%d_logo", orgID)
	if _, err := assetStore.Delete(c.Request().Context(), publicID); err != nil {
		log.Warn("Asset store delete failed", zap.Error(err))
	}

	if _, err := org.SetLogo(database.GetDB(), orgID, ""); err != nil {
		return orgError(c, log, err)
	}

	prometheus.RecordOrgOperation("delete_logo")
	return c.JSON(http.StatusOK, echo.Map{"message": "logo removed"})
}

// UploadStamp stores the invoice stamp image and records its URL.
func UploadStamp(c echo.Context) error {
	log := logger.FromEcho(c)

	_, orgID, ok := requireOrganization(c)
	if !ok {
		return nil
	}

	url, err := uploadAsset(c, orgID, "stamp")
	if err != nil {
		return orgError(c, log, err)
	}

	o, err := org.SetStamp(database.GetDB(), orgID, url)
	if err != nil {
		return orgError(c, log, err)
	}

	prometheus.RecordOrgOperation("upload_stamp")
	return c.JSON(http.StatusOK, echo.Map{"stamp_url": o.StampURL})
}

// DeleteStamp removes the invoice stamp from the asset store and clears
// its URL.
func DeleteStamp(c echo.Context) error {
	log := logger.FromEcho(c)

	_, orgID, ok := requireOrganization(c)
	if !ok {
		return nil
	}

	publicID := fmt.Sprintf("org_%d_stamp", orgID)
	if _, err := assetStore.Delete(c.Request().Context(), publicID); err != nil {
		log.Warn("Asset store delete failed", zap.Error(err))
	}

	if _, err := org.SetStamp(database.GetDB(), orgID, ""); err != nil {
		return orgError(c, log, err)
	}

	prometheus.RecordOrgOperation("delete_stamp")
	return c.JSON(http.StatusOK, echo.Map{"message": "stamp removed"})
}

// GetMyLimits returns the organization's plan limits alongside its current
// usage counts.
func GetMyLimits(c echo.Context) error {
	log := logger.FromEcho(c)

	_, orgID, ok := requireOrganization(c)
	if !ok {
		return nil
	}

	db := database.GetDB()
	o, err := org.GetByID(db, orgID)
	if err != nil {
		return orgError(c, log, err)
	}

	stats, err := org.GetStats(db, orgID)
	if err != nil {
		return orgError(c, log, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"subscription_plan": o.SubscriptionPlan,
		"limits": echo.Map{
			"max_users":      o.MaxUsers,
			"max_products":   o.MaxProducts,
			"max_storage_mb": o.MaxStorageMB,
		},
		"usage": echo.Map{
			"users":      stats.TotalUsers,
			"products":   stats.TotalProducts,
			"storage_mb": stats.StorageUsedMB,
		},
	})
}

// GetDashboardSettings returns the organization's dashboard goals.
func GetDashboardSettings(c echo.Context) error {
	log := logger.FromEcho(c)

	_, orgID, ok := requireOrganization(c)
	if !ok {
		return nil
	}

	o, err := org.GetByID(database.GetDB(), orgID)
	if err != nil {
		return orgError(c, log, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"monthly_sales_goal":     o.MonthlySalesGoal,
		"monthly_growth_target":  o.MonthlyGrowthTarget,
		"conversion_rate_target": o.ConversionRateTarget,
	})
}

// UpdateDashboardSettings updates the organization's dashboard goals.
func UpdateDashboardSettings(c echo.Context) error {
	log := logger.FromEcho(c)

	_, orgID, ok := requireOrganization(c)
	if !ok {
		return nil
	}

	var req struct {
		MonthlySalesGoal     *float64 `json:"monthly_sales_goal"`
		MonthlyGrowthTarget  *float64 `json:"monthly_growth_target"`
		ConversionRateTarget *float64 `json:"conversion_rate_target"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	updates := map[string]interface{}{}
	if req.MonthlySalesGoal != nil {
		updates["monthly_sales_goal"] = *req.MonthlySalesGoal
	}
	if req.MonthlyGrowthTarget != nil {
		updates["monthly_growth_target"] = *req.MonthlyGrowthTarget
	}
	if req.ConversionRateTarget != nil {
		updates["conversion_rate_target"] = *req.ConversionRateTarget
	}
	if len(updates) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no settings provided"})
	}

	defer prometheus.TrackDBOperation("update_dashboard_settings")(time.Now())
	db := database.GetDB()
	if err := db.Model(&model.Organization{}).Where("id = ?", orgID).Updates(updates).Error; err != nil {
		log.Error("Failed to update dashboard settings", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	o, err := org.GetByID(db, orgID)
	if err != nil {
		return orgError(c, log, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"monthly_sales_goal":     o.MonthlySalesGoal,
		"monthly_growth_target":  o.MonthlyGrowthTarget,
		"conversion_rate_target": o.ConversionRateTarget,
	})
}

// GetCurrency returns the organization's currency code and symbol.
func GetCurrency(c echo.Context) error {
	log := logger.FromEcho(c)

	_, orgID, ok := requireOrganization(c)
	if !ok {
		return nil
	}

	o, err := org.GetByID(database.GetDB(), orgID)
	if err != nil {
		return orgError(c, log, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"currency": o.Currency,
		"symbol":   currencySymbols[o.Currency],
	})
}

// UpdateCurrency changes the organization's currency. Only USD, EUR and
// DOP are supported.
func UpdateCurrency(c echo.Context) error {
	log := logger.FromEcho(c)

	_, orgID, ok := requireOrganization(c)
	if !ok {
		return nil
	}

	var req struct {
		Currency string `json:"currency"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	symbol, supported := currencySymbols[req.Currency]
	if !supported {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unsupported currency, expected USD, EUR or DOP"})
	}

	o, err := org.Update(database.GetDB(), orgID, org.UpdateParams{Currency: &req.Currency})
	if err != nil {
		return orgError(c, log, err)
	}

	prometheus.RecordOrgOperation("update_currency")
	return c.JSON(http.StatusOK, echo.Map{
		"currency": o.Currency,
		"symbol":   symbol,
	})
}

// UpdateModules replaces the organization's enabled modules map. The
// dashboard module can never be disabled.
func UpdateModules(c echo.Context) error {
	log := logger.FromEcho(c)

	_, orgID, ok := requireOrganization(c)
	if !ok {
		return nil
	}

	var req struct {
		ModulesEnabled model.ModulesMap `json:"modules_enabled"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.ModulesEnabled == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "modules_enabled is required"})
	}

	// The dashboard is always available
	req.ModulesEnabled["dashboard"] = true

	o, err := org.Update(database.GetDB(), orgID, org.UpdateParams{ModulesEnabled: &req.ModulesEnabled})
	if err != nil {
		return orgError(c, log, err)
	}

	prometheus.RecordOrgOperation("update_modules")
	return c.JSON(http.StatusOK, echo.Map{"modules_enabled": o.ModulesEnabled})
}

// GetOrganizationStats returns the organization's usage counters.
func GetOrganizationStats(c echo.Context) error {
	log := logger.FromEcho(c)

	_, orgID, ok := requireOrganization(c)
	if !ok {
		return nil
	}

	stats, err := org.GetStats(database.GetDB(), orgID)
	if err != nil {
		return orgError(c, log, err)
	}
	return c.JSON(http.StatusOK, stats)
}

// ResetMyData wipes every business entity of the caller's organization
// while keeping the organization and its users. Admin only.
func ResetMyData(c echo.Context) error {
	log := logger.FromEcho(c)

	user, orgID, ok := requireOrganization(c)
	if !ok {
		return nil
	}

	defer prometheus.TrackDBOperation("reset_data")(time.Now())
	result, err := org.Reset(database.GetDB(), orgID)
	if err != nil {
		return orgError(c, log, err)
	}

	prometheus.RecordCascadeDeletion("reset")
	log.Info("Organization data reset",
		zap.Uint("organization_id", orgID),
		zap.Uint("requested_by", user.ID))

	return c.JSON(http.StatusOK, result)
}
