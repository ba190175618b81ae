package handler

import (
	"net/http"
	"strconv"

	"github.com/Jefrey05/sistema-gestion/internal/model"
	"github.com/Jefrey05/sistema-gestion/pkg/database"
	"github.com/Jefrey05/sistema-gestion/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ListSuppliers returns the organization's suppliers.
func ListSuppliers(c echo.Context) error {
	log := logger.FromEcho(c)

	_, orgID, ok := requireOrganization(c)
	if !ok {
		return nil
	}

	var suppliers []model.Supplier
	if err := database.GetDB().
		Where("organization_id = ?", orgID).
		Order("name ASC").
		Find(&suppliers).Error; err != nil {
		log.Error("Failed to list suppliers", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, suppliers)
}

// CreateSupplier adds a supplier to the organization.
func CreateSupplier(c echo.Context) error {
	log := logger.FromEcho(c)

	_, orgID, ok := requireOrganization(c)
	if !ok {
		return nil
	}

	var supplier model.Supplier
	if err := c.Bind(&supplier); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if supplier.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	supplier.ID = 0
	supplier.OrganizationID = &orgID
	if err := database.GetDB().Create(&supplier).Error; err != nil {
		log.Error("Failed to create supplier", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	return c.JSON(http.StatusCreated, supplier)
}

// GetSupplier returns one supplier of the organization.
func GetSupplier(c echo.Context) error {
	_, orgID, ok := requireOrganization(c)
	if !ok {
		return nil
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid supplier id"})
	}

	var supplier model.Supplier
	if err := database.GetDB().
		Where("id = ? AND organization_id = ?", id, orgID).
		First(&supplier).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "supplier not found"})
	}

	return c.JSON(http.StatusOK, supplier)
}

// UpdateSupplier applies a partial update to one supplier.
func UpdateSupplier(c echo.Context) error {
	log := logger.FromEcho(c)

	_, orgID, ok := requireOrganization(c)
	if !ok {
		return nil
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid supplier id"})
	}

	db := database.GetDB()
	var supplier model.Supplier
	if err := db.Where("id = ? AND organization_id = ?", id, orgID).First(&supplier).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "supplier not found"})
	}

	var req struct {
		Name         *string `json:"name"`
		ContactName  *string `json:"contact_name"`
		Email        *string `json:"email"`
		Phone        *string `json:"phone"`
		Address      *string `json:"address"`
		RNC          *string `json:"rnc"`
		PaymentTerms *string `json:"payment_terms"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Name != nil {
		supplier.Name = *req.Name
	}
	if req.ContactName != nil {
		supplier.ContactName = *req.ContactName
	}
	if req.Email != nil {
		supplier.Email = *req.Email
	}
	if req.Phone != nil {
		supplier.Phone = *req.Phone
	}
	if req.Address != nil {
		supplier.Address = *req.Address
	}
	if req.RNC != nil {
		supplier.RNC = *req.RNC
	}
	if req.PaymentTerms != nil {
		supplier.PaymentTerms = *req.PaymentTerms
	}

	if err := db.Save(&supplier).Error; err != nil {
		log.Error("Failed to update supplier", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, supplier)
}

// DeleteSupplier removes one supplier of the organization.
func DeleteSupplier(c echo.Context) error {
	log := logger.FromEcho(c)

	_, orgID, ok := requireOrganization(c)
	if !ok {
		return nil
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid supplier id"})
	}

	db := database.GetDB()
	var supplier model.Supplier
	if err := db.Where("id = ? AND organization_id = ?", id, orgID).First(&supplier).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "supplier not found"})
	}

	if err := db.Delete(&supplier).Error; err != nil {
		log.Error("Failed to delete supplier", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "supplier deleted"})
}
