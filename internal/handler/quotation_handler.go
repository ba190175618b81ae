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

// CreateQuotation issues a quotation with its line items. Quotations never
// touch stock.
func CreateQuotation(c echo.Context) error {
	log := logger.FromEcho(c)

	user, orgID, ok := requireOrganization(c)
	if !ok {
		return nil
	}

	var req struct {
		ClientID    *uint             `json:"client_id"`
		QuoteNumber string            `json:"quote_number"`
		ValidUntil  *time.Time        `json:"valid_until"`
		Tax         float64           `json:"tax"`
		Notes       string            `json:"notes"`
		Items       []saleItemRequest `json:"items"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if len(req.Items) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "at least one item is required"})
	}

	db := database.GetDB()
	quotation := model.Quotation{
		OrganizationID: &orgID,
		ClientID:       req.ClientID,
		UserID:         &user.ID,
		QuoteNumber:    req.QuoteNumber,
		Status:         "pending",
		ValidUntil:     req.ValidUntil,
		Tax:            req.Tax,
		Notes:          req.Notes,
	}

	defer prometheus.TrackDBOperation("create_quotation")(time.Now())
	err := db.Transaction(func(tx *gorm.DB) error {
		var subtotal float64
		items := make([]model.QuotationItem, 0, len(req.Items))

		for _, item := range req.Items {
			if item.Quantity <= 0 {
				return fmt.Errorf("item quantities must be positive")
			}

			var product model.Product
			if err := tx.Where("id = ? AND organization_id = ?", item.ProductID, orgID).
				First(&product).Error; err != nil {
				return fmt.Errorf("product %d not found", item.ProductID)
			}

			unitPrice := item.UnitPrice
			if unitPrice == 0 {
				unitPrice = product.Price
			}
			total := unitPrice * float64(item.Quantity)
			subtotal += total
			items = append(items, model.QuotationItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: unitPrice,
				Total:     total,
			})
		}

		quotation.Subtotal = subtotal
		quotation.Total = subtotal + quotation.Tax
		quotation.Items = items
		return tx.Create(&quotation).Error
	})
	if err != nil {
		log.Warn("Quotation rejected", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	return c.JSON(http.StatusCreated, quotation)
}

// ListQuotations returns the organization's quotations, newest first.
func ListQuotations(c echo.Context) error {
	log := logger.FromEcho(c)

	_, orgID, ok := requireOrganization(c)
	if !ok {
		return nil
	}

	query := database.GetDB().Where("organization_id = ?", orgID)
	if status := c.QueryParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var quotations []model.Quotation
	if err := query.
		Preload("Items").
		Order("created_at DESC").
		Limit(200).
		Find(&quotations).Error; err != nil {
		log.Error("Failed to list quotations", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, quotations)
}

// GetQuotation returns one quotation of the organization with its items.
func GetQuotation(c echo.Context) error {
	_, orgID, ok := requireOrganization(c)
	if !ok {
		return nil
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid quotation id"})
	}

	var quotation model.Quotation
	if err := database.GetDB().
		Where("id = ? AND organization_id = ?", id, orgID).
		Preload("Items").
		First(&quotation).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "quotation not found"})
	}

	return c.JSON(http.StatusOK, quotation)
}

// UpdateQuotationStatus moves a quotation between pending, accepted,
// rejected and expired.
func UpdateQuotationStatus(c echo.Context) error {
	log := logger.FromEcho(c)

	_, orgID, ok := requireOrganization(c)
	if !ok {
		return nil
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid quotation id"})
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	switch req.Status {
	case "pending", "accepted", "rejected", "expired":
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown quotation status"})
	}

	db := database.GetDB()
	var quotation model.Quotation
	if err := db.Where("id = ? AND organization_id = ?", id, orgID).First(&quotation).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "quotation not found"})
	}

	if err := db.Model(&quotation).Update("status", req.Status).Error; err != nil {
		log.Error("Failed to update quotation status", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, quotation)
}
