package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Jefrey05/sistema-gestion/internal/model"
	"github.com/Jefrey05/sistema-gestion/internal/org"
	"github.com/Jefrey05/sistema-gestion/pkg/database"
	"github.com/Jefrey05/sistema-gestion/pkg/logger"
	"github.com/Jefrey05/sistema-gestion/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ListProducts returns the organization's products, optionally filtered by
// category, type or active flag.
func ListProducts(c echo.Context) error {
	log := logger.FromEcho(c)

	_, orgID, ok := requireOrganization(c)
	if !ok {
		return nil
	}

	query := database.GetDB().Where("organization_id = ?", orgID)
	if categoryID := c.QueryParam("category_id"); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}
	if productType := c.QueryParam("product_type"); productType != "" {
		query = query.Where("product_type = ?", productType)
	}
	if active := c.QueryParam("active"); active != "" {
		query = query.Where("is_active = ?", active == "true")
	}

	var products []model.Product
	if err := query.Order("name ASC").Find(&products).Error; err != nil {
		log.Error("Failed to list products", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, products)
}

// CreateProduct adds a product to the organization, enforcing the plan's
// product limit and recording the opening stock as an inventory movement.
func CreateProduct(c echo.Context) error {
	log := logger.FromEcho(c)

	user, orgID, ok := requireOrganization(c)
	if !ok {
		return nil
	}

	var product model.Product
	if err := c.Bind(&product); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if product.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	db := database.GetDB()
	allowed, err := org.CanAddProduct(db, orgID)
	if err != nil {
		return orgError(c, log, err)
	}
	if !allowed {
		prometheus.RecordOrgError(orgID, "product_limit_reached")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "product limit reached for the current plan"})
	}

	product.ID = 0
	product.OrganizationID = &orgID
	product.StockAvailable = product.Stock
	product.IsActive = true

	defer prometheus.TrackDBOperation("create_product")(time.Now())
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&product).Error; err != nil {
			return err
		}
		if product.Stock > 0 {
			movement := model.InventoryMovement{
				OrganizationID: &orgID,
				ProductID:      product.ID,
				MovementType:   "in",
				Quantity:       product.Stock,
				Reason:         "initial stock",
				UserID:         &user.ID,
			}
			if err := tx.Create(&movement).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Error("Failed to create product", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	return c.JSON(http.StatusCreated, product)
}

// GetProduct returns one product of the organization.
func GetProduct(c echo.Context) error {
	_, orgID, ok := requireOrganization(c)
	if !ok {
		return nil
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}

	var product model.Product
	if err := database.GetDB().
		Where("id = ? AND organization_id = ?", id, orgID).
		First(&product).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
	}

	return c.JSON(http.StatusOK, product)
}

// UpdateProduct applies a partial update to one product. Stock changes go
// through AdjustStock, not here.
func UpdateProduct(c echo.Context) error {
	log := logger.FromEcho(c)

	_, orgID, ok := requireOrganization(c)
	if !ok {
		return nil
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}

	db := database.GetDB()
	var product model.Product
	if err := db.Where("id = ? AND organization_id = ?", id, orgID).First(&product).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
	}

	// Stock counters are deliberately absent from the patch struct
	var req struct {
		SKU                *string  `json:"sku"`
		Name               *string  `json:"name"`
		Description        *string  `json:"description"`
		ProductType        *string  `json:"product_type"`
		CategoryID         *uint    `json:"category_id"`
		SupplierID         *uint    `json:"supplier_id"`
		Price              *float64 `json:"price"`
		Cost               *float64 `json:"cost"`
		RentalPriceDaily   *float64 `json:"rental_price_daily"`
		RentalPriceWeekly  *float64 `json:"rental_price_weekly"`
		RentalPriceMonthly *float64 `json:"rental_price_monthly"`
		MinStock           *int     `json:"min_stock"`
		Location           *string  `json:"location"`
		WarrantyMonths     *int     `json:"warranty_months"`
		IsActive           *bool    `json:"is_active"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.SKU != nil {
		product.SKU = *req.SKU
	}
	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.ProductType != nil {
		product.ProductType = *req.ProductType
	}
	if req.CategoryID != nil {
		product.CategoryID = req.CategoryID
	}
	if req.SupplierID != nil {
		product.SupplierID = req.SupplierID
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Cost != nil {
		product.Cost = *req.Cost
	}
	if req.RentalPriceDaily != nil {
		product.RentalPriceDaily = *req.RentalPriceDaily
	}
	if req.RentalPriceWeekly != nil {
		product.RentalPriceWeekly = *req.RentalPriceWeekly
	}
	if req.RentalPriceMonthly != nil {
		product.RentalPriceMonthly = *req.RentalPriceMonthly
	}
	if req.MinStock != nil {
		product.MinStock = *req.MinStock
	}
	if req.Location != nil {
		product.Location = *req.Location
	}
	if req.WarrantyMonths != nil {
		product.WarrantyMonths = *req.WarrantyMonths
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := db.Save(&product).Error; err != nil {
		log.Error("Failed to update product", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, product)
}

// AdjustStock records an inventory movement and updates the product's
// stock counters in one transaction.
func AdjustStock(c echo.Context) error {
	log := logger.FromEcho(c)

	user, orgID, ok := requireOrganization(c)
	if !ok {
		return nil
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}

	var req struct {
		MovementType string `json:"movement_type"`
		Quantity     int    `json:"quantity"`
		Reason       string `json:"reason"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.MovementType != "in" && req.MovementType != "out" && req.MovementType != "adjustment" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "movement_type must be in, out or adjustment"})
	}
	if req.Quantity <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "quantity must be positive"})
	}

	db := database.GetDB()
	var product model.Product
	if err := db.Where("id = ? AND organization_id = ?", id, orgID).First(&product).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
	}

	delta := req.Quantity
	if req.MovementType == "out" {
		delta = -req.Quantity
		if product.StockAvailable < req.Quantity {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "insufficient stock"})
		}
	}

	defer prometheus.TrackDBOperation("adjust_stock")(time.Now())
	err = db.Transaction(func(tx *gorm.DB) error {
		product.Stock += delta
		product.StockAvailable += delta
		if err := tx.Save(&product).Error; err != nil {
			return err
		}

		movement := model.InventoryMovement{
			OrganizationID: &orgID,
			ProductID:      product.ID,
			MovementType:   req.MovementType,
			Quantity:       req.Quantity,
			Reason:         req.Reason,
			UserID:         &user.ID,
		}
		return tx.Create(&movement).Error
	})
	if err != nil {
		log.Error("Failed to adjust stock", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, product)
}

// ListMovements returns the organization's inventory movements, newest
// first, optionally filtered by product.
func ListMovements(c echo.Context) error {
	log := logger.FromEcho(c)

	_, orgID, ok := requireOrganization(c)
	if !ok {
		return nil
	}

	query := database.GetDB().Where("organization_id = ?", orgID)
	if productID := c.QueryParam("product_id"); productID != "" {
		query = query.Where("product_id = ?", productID)
	}

	var movements []model.InventoryMovement
	if err := query.Order("created_at DESC").Limit(200).Find(&movements).Error; err != nil {
		log.Error("Failed to list inventory movements", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, movements)
}

// DeleteProduct removes one product of the organization.
func DeleteProduct(c echo.Context) error {
	log := logger.FromEcho(c)

	_, orgID, ok := requireOrganization(c)
	if !ok {
		return nil
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}

	db := database.GetDB()
	var product model.Product
	if err := db.Where("id = ? AND organization_id = ?", id, orgID).First(&product).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
	}

	if err := db.Delete(&product).Error; err != nil {
		log.Error("Failed to delete product", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "product deleted"})
}
