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

type rentalItemRequest struct {
	ProductID  uint    `json:"product_id"`
	Quantity   int     `json:"quantity"`
	RatePeriod string  `json:"rate_period"`
	Rate       float64 `json:"rate"`
	Periods    int     `json:"periods"`
}

// rateFor picks the product's rental rate for the requested period.
func rateFor(product *model.Product, period string) float64 {
	switch period {
	case "weekly":
		return product.RentalPriceWeekly
	case "monthly":
		return product.RentalPriceMonthly
	default:
		return product.RentalPriceDaily
	}
}

// CreateRental opens a rental contract with its line items, reserving the
// rented stock, in one transaction.
func CreateRental(c echo.Context) error {
	log := logger.FromEcho(c)

	user, orgID, ok := requireOrganization(c)
	if !ok {
		return nil
	}

	var req struct {
		ClientID       *uint               `json:"client_id"`
		ContractNumber string              `json:"contract_number"`
		StartDate      *time.Time          `json:"start_date"`
		EndDate        *time.Time          `json:"end_date"`
		Deposit        float64             `json:"deposit"`
		Notes          string              `json:"notes"`
		Items          []rentalItemRequest `json:"items"`
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
		switch item.RatePeriod {
		case "", "daily", "weekly", "monthly":
		default:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "rate_period must be daily, weekly or monthly"})
		}
	}

	db := database.GetDB()
	rental := model.Rental{
		OrganizationID: &orgID,
		ClientID:       req.ClientID,
		UserID:         &user.ID,
		ContractNumber: req.ContractNumber,
		Status:         "active",
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		Deposit:        req.Deposit,
		Notes:          req.Notes,
	}

	defer prometheus.TrackDBOperation("create_rental")(time.Now())
	err := db.Transaction(func(tx *gorm.DB) error {
		var total float64
		items := make([]model.RentalItem, 0, len(req.Items))

		for _, item := range req.Items {
			var product model.Product
			if err := tx.Where("id = ? AND organization_id = ?", item.ProductID, orgID).
				First(&product).Error; err != nil {
				return fmt.Errorf("product %d not found", item.ProductID)
			}
			if product.StockAvailable < item.Quantity {
				return fmt.Errorf("insufficient stock for product %q", product.Name)
			}

			period := item.RatePeriod
			if period == "" {
				period = "daily"
			}
			rate := item.Rate
			if rate == 0 {
				rate = rateFor(&product, period)
			}
			periods := item.Periods
			if periods <= 0 {
				periods = 1
			}

			lineTotal := rate * float64(item.Quantity) * float64(periods)
			total += lineTotal
			items = append(items, model.RentalItem{
				ProductID:  item.ProductID,
				Quantity:   item.Quantity,
				RatePeriod: period,
				Rate:       rate,
				Total:      lineTotal,
			})

			// Rented units stay in stock but are not available
			product.StockAvailable -= item.Quantity
			if err := tx.Save(&product).Error; err != nil {
				return err
			}
		}

		rental.Total = total
		rental.Items = items
		return tx.Create(&rental).Error
	})
	if err != nil {
		log.Warn("Rental rejected", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	log.Info("Rental opened",
		zap.Uint("rental_id", rental.ID),
		zap.Uint("organization_id", orgID))

	return c.JSON(http.StatusCreated, rental)
}

// ListRentals returns the organization's rentals, newest first.
func ListRentals(c echo.Context) error {
	log := logger.FromEcho(c)

	_, orgID, ok := requireOrganization(c)
	if !ok {
		return nil
	}

	query := database.GetDB().Where("organization_id = ?", orgID)
	if status := c.QueryParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var rentals []model.Rental
	if err := query.
		Preload("Items").
		Preload("Payments").
		Order("created_at DESC").
		Limit(200).
		Find(&rentals).Error; err != nil {
		log.Error("Failed to list rentals", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, rentals)
}

// GetRental returns one rental of the organization with items and
// payments.
func GetRental(c echo.Context) error {
	_, orgID, ok := requireOrganization(c)
	if !ok {
		return nil
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid rental id"})
	}

	var rental model.Rental
	if err := database.GetDB().
		Where("id = ? AND organization_id = ?", id, orgID).
		Preload("Items").
		Preload("Payments").
		First(&rental).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "rental not found"})
	}

	return c.JSON(http.StatusOK, rental)
}

// AddRentalPayment records a payment against an active rental.
func AddRentalPayment(c echo.Context) error {
	log := logger.FromEcho(c)

	_, orgID, ok := requireOrganization(c)
	if !ok {
		return nil
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid rental id"})
	}

	db := database.GetDB()
	var rental model.Rental
	if err := db.Where("id = ? AND organization_id = ?", id, orgID).First(&rental).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "rental not found"})
	}

	var req struct {
		Amount        float64 `json:"amount"`
		PaymentMethod string  `json:"payment_method"`
		Notes         string  `json:"notes"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Amount <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount must be positive"})
	}

	payment := model.RentalPayment{
		RentalID:      rental.ID,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		PaidAt:        time.Now().UTC(),
		Notes:         req.Notes,
	}
	if err := db.Create(&payment).Error; err != nil {
		log.Error("Failed to record rental payment", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	return c.JSON(http.StatusCreated, payment)
}

// CloseRental finishes a rental and returns its units to availability.
func CloseRental(c echo.Context) error {
	log := logger.FromEcho(c)

	_, orgID, ok := requireOrganization(c)
	if !ok {
		return nil
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid rental id"})
	}

	db := database.GetDB()
	var rental model.Rental
	if err := db.Where("id = ? AND organization_id = ?", id, orgID).
		Preload("Items").
		First(&rental).Error; err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "rental not found"})
	}
	if rental.Status != "active" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rental is not active"})
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		for _, item := range rental.Items {
			if err := tx.Model(&model.Product{}).
				Where("id = ?", item.ProductID).
				Update("stock_available", gorm.Expr("stock_available + ?", item.Quantity)).Error; err != nil {
				return err
			}
		}
		return tx.Model(&rental).Update("status", "completed").Error
	})
	if err != nil {
		log.Error("Failed to close rental", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "rental completed"})
}
