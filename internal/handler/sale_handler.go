package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Jefrey05/sistema-gestion/internal/model"
	"github.com/Jefrey05/sistema-gestion/pkg/database"
	"github.com/Jefrey05/sistema-gestion/pkg/logger"
	"github.com/Jefrey05/sistema-gestion/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type saleItemRequest struct {
	ProductID uint    `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// CreateSale records a sale with its line items, decrements stock and
// writes the matching inventory movements, all in one transaction.
func CreateSale(c echo.Context) error {
	log := logger.FromEcho(c)

	user, orgID, ok := requireOrganization(c)
	if !ok {
		return nil
	}

	var req struct {
		ClientID      *uint             `json:"client_id"`
		InvoiceNumber string            `json:"invoice_number"`
		PaymentMethod string            `json:"payment_method"`
		Tax           float64           `json:"tax"`
		Discount      float64           `json:"discount"`
		Notes         string            `json:"notes"`
		Items         []saleItemRequest `json:"items"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if len(req.Items) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "at least one item is required"})
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "item quantities must be positive"})
		}
	}

	db := database.GetDB()

	if req.ClientID != nil {
		var count int64
		if err := db.Model(&model.Client{}).
			Where("id = ? AND organization_id = ?", *req.ClientID, orgID).
			Count(&count).Error; err != nil || count == 0 {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "client not found"})
		}
	}

	sale := model.Sale{
		OrganizationID: &orgID,
		ClientID:       req.ClientID,
		UserID:         &user.ID,
		InvoiceNumber:  req.InvoiceNumber,
		Status:         "completed",
		PaymentMethod:  req.PaymentMethod,
		Tax:            req.Tax,
		Discount:       req.Discount,
		Notes:          req.Notes,
	}

	defer prometheus.TrackDBOperation("create_sale")(time.Now())
	err := db.Transaction(func(tx *gorm.DB) error {
		var subtotal float64
		items := make([]model.SaleItem, 0, len(req.Items))

		for _, item := range req.Items {
			var product model.Product
			if err := tx.Where("id = ? AND organization_id = ?", item.ProductID, orgID).
				First(&product).Error; err != nil {
				return fmt.Errorf("product %d not found", item.ProductID)
			}
			if product.StockAvailable < item.Quantity {
				return fmt.Errorf("insufficient stock for product %q", product.Name)
			}

			unitPrice := item.UnitPrice
			if unitPrice == 0 {
				unitPrice = product.Price
			}
			total := unitPrice * float64(item.Quantity)
			subtotal += total
			items = append(items, model.SaleItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: unitPrice,
				Total:     total,
			})

			product.Stock -= item.Quantity
			product.StockAvailable -= item.Quantity
			if err := tx.Save(&product).Error; err != nil {
				return err
			}

			movement := model.InventoryMovement{
				OrganizationID: &orgID,
				ProductID:      product.ID,
				MovementType:   "out",
				Quantity:       item.Quantity,
				Reason:         "sale",
				UserID:         &user.ID,
			}
			if err := tx.Create(&movement).Error; err != nil {
				return err
			}
		}

		sale.Subtotal = subtotal
		sale.Total = subtotal + sale.Tax - sale.Discount
		sale.Items = items
		return tx.Create(&sale).Error
	})
	if err != nil {
		log.Warn("Sale rejected", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	log.Info("Sale recorded",
		zap.Uint("sale_id", sale.ID),
		zap.Uint("organization_id", orgID),
		zap.Float64("total", sale.Total))

	return c.JSON(http.StatusCreated, sale)
}

// ListSales returns the organization's sales, newest first.
func ListSales(c echo.Context) error {
	log := logger.FromEcho(c)

	_, orgID, ok := requireOrganization(c)
	if !ok {
		return nil
	}

	var sales []model.Sale
	if err := database.GetDB().
		Where("organization_id = ?", orgID).
		Preload("Items").
		Order("created_at DESC").
		Limit(200).
		Find(&sales).Error; err != nil {
		log.Error("Failed to list sales", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, sales)
}

// GetSale returns one sale of the organization with its line items.
func GetSale(c echo.Context) error {
	_, orgID, ok := requireOrganization(c)
	if !ok {
		return nil
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid sale id"})
	}

	var sale model.Sale
	if err := database.GetDB().
		Where("id = ? AND organization_id = ?", id, orgID).
		Preload("Items").
		First(&sale).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "sale not found"})
	}

	return c.JSON(http.StatusOK, sale)
}
