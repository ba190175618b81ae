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

// ListCategories returns the organization's product categories.
func ListCategories(c echo.Context) error {
	log := logger.FromEcho(c)

	_, orgID, ok := requireOrganization(c)
	if !ok {
		return nil
	}

	var categories []model.Category
	if err := database.GetDB().
		Where("organization_id = ?", orgID).
		Order("name ASC").
		Find(&categories).Error; err != nil {
		log.Error("Failed to list categories", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, categories)
}

// CreateCategory adds a product category to the organization.
func CreateCategory(c echo.Context) error {
	log := logger.FromEcho(c)

	_, orgID, ok := requireOrganization(c)
	if !ok {
		return nil
	}

	var category model.Category
	if err := c.Bind(&category); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if category.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	category.ID = 0
	category.OrganizationID = &orgID
	if err := database.GetDB().Create(&category).Error; err != nil {
		log.Error("Failed to create category", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	return c.JSON(http.StatusCreated, category)
}

// UpdateCategory renames or re-describes a category of the organization.
func UpdateCategory(c echo.Context) error {
	log := logger.FromEcho(c)

	_, orgID, ok := requireOrganization(c)
	if !ok {
		return nil
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category id"})
	}

	db := database.GetDB()
	var category model.Category
	if err := db.Where("id = ? AND organization_id = ?", id, orgID).First(&category).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.Description != nil {
		category.Description = *req.Description
	}

	if err := db.Save(&category).Error; err != nil {
		log.Error("Failed to update category", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, category)
}

// DeleteCategory removes a category of the organization.
func DeleteCategory(c echo.Context) error {
	log := logger.FromEcho(c)

	_, orgID, ok := requireOrganization(c)
	if !ok {
		return nil
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category id"})
	}

	db := database.GetDB()
	var category model.Category
	if err := db.Where("id = ? AND organization_id = ?", id, orgID).First(&category).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
	}

	if err := db.Delete(&category).Error; err != nil {
		log.Error("Failed to delete category", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "category deleted"})
}
