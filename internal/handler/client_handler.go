package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Jefrey05/sistema-gestion/internal/model"
	"github.com/Jefrey05/sistema-gestion/pkg/database"
	"github.com/Jefrey05/sistema-gestion/pkg/logger"
	"github.com/Jefrey05/sistema-gestion/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ListClients returns the organization's clients, newest first.
func ListClients(c echo.Context) error {
	log := logger.FromEcho(c)

	_, orgID, ok := requireOrganization(c)
	if !ok {
		return nil
	}

	var clients []model.Client
	query := database.GetDB().Where("organization_id = ?", orgID)
	if status := c.QueryParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Order("created_at DESC").Find(&clients).Error; err != nil {
		log.Error("Failed to list clients", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, clients)
}

// CreateClient adds a client to the organization.
func CreateClient(c echo.Context) error {
	log := logger.FromEcho(c)

	_, orgID, ok := requireOrganization(c)
	if !ok {
		return nil
	}

	var client model.Client
	if err := c.Bind(&client); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if client.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	client.ID = 0
	client.OrganizationID = &orgID

	defer prometheus.TrackDBOperation("create_client")(time.Now())
	if err := database.GetDB().Create(&client).Error; err != nil {
		log.Error("Failed to create client", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	return c.JSON(http.StatusCreated, client)
}

// GetClient returns one client of the organization.
func GetClient(c echo.Context) error {
	_, orgID, ok := requireOrganization(c)
	if !ok {
		return nil
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid client id"})
	}

	var client model.Client
	if err := database.GetDB().
		Where("id = ? AND organization_id = ?", id, orgID).
		First(&client).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "client not found"})
	}

	return c.JSON(http.StatusOK, client)
}

// UpdateClient applies a partial update to one client of the organization.
func UpdateClient(c echo.Context) error {
	log := logger.FromEcho(c)

	_, orgID, ok := requireOrganization(c)
	if !ok {
		return nil
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid client id"})
	}

	db := database.GetDB()
	var client model.Client
	if err := db.Where("id = ? AND organization_id = ?", id, orgID).First(&client).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "client not found"})
	}

	// Typed patch: identity and tenancy are not listed, so they cannot
	// be touched
	var req struct {
		Name          *string  `json:"name"`
		ClientType    *string  `json:"client_type"`
		Status        *string  `json:"status"`
		RNC           *string  `json:"rnc"`
		Email         *string  `json:"email"`
		Phone         *string  `json:"phone"`
		Mobile        *string  `json:"mobile"`
		Address       *string  `json:"address"`
		City          *string  `json:"city"`
		ContactPerson *string  `json:"contact_person"`
		CreditLimit   *float64 `json:"credit_limit"`
		CreditDays    *int     `json:"credit_days"`
		IsRecurrent   *bool    `json:"is_recurrent"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Name != nil {
		client.Name = *req.Name
	}
	if req.ClientType != nil {
		client.ClientType = *req.ClientType
	}
	if req.Status != nil {
		client.Status = *req.Status
	}
	if req.RNC != nil {
		client.RNC = *req.RNC
	}
	if req.Email != nil {
		client.Email = *req.Email
	}
	if req.Phone != nil {
		client.Phone = *req.Phone
	}
	if req.Mobile != nil {
		client.Mobile = *req.Mobile
	}
	if req.Address != nil {
		client.Address = *req.Address
	}
	if req.City != nil {
		client.City = *req.City
	}
	if req.ContactPerson != nil {
		client.ContactPerson = *req.ContactPerson
	}
	if req.CreditLimit != nil {
		client.CreditLimit = *req.CreditLimit
	}
	if req.CreditDays != nil {
		client.CreditDays = *req.CreditDays
	}
	if req.IsRecurrent != nil {
		client.IsRecurrent = *req.IsRecurrent
	}

	if err := db.Save(&client).Error; err != nil {
		log.Error("Failed to update client", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, client)
}

// DeleteClient removes one client of the organization.
func DeleteClient(c echo.Context) error {
	log := logger.FromEcho(c)

	_, orgID, ok := requireOrganization(c)
	if !ok {
		return nil
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid client id"})
	}

	db := database.GetDB()
	var client model.Client
	if err := db.Where("id = ? AND organization_id = ?", id, orgID).First(&client).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "client not found"})
	}

	if err := db.Delete(&client).Error; err != nil {
		log.Error("Failed to delete client", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "client deleted"})
}
