package main

import (
	"github.com/Jefrey05/sistema-gestion/internal/handler"
	"github.com/Jefrey05/sistema-gestion/internal/middleware"
	"github.com/Jefrey05/sistema-gestion/internal/model"
	"github.com/Jefrey05/sistema-gestion/pkg/assets"
	"github.com/Jefrey05/sistema-gestion/pkg/config"
	"github.com/Jefrey05/sistema-gestion/pkg/database"
	"github.com/Jefrey05/sistema-gestion/pkg/jwtutil"
	"github.com/Jefrey05/sistema-gestion/pkg/logger"
	"github.com/Jefrey05/sistema-gestion/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load("sistema-gestion")
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	if err := logger.InitLogger(&logger.LogConfig{
		Level:       cfg.Log.Level,
		Environment: cfg.Server.Env,
		ServiceName: cfg.ServiceName,
	}); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	log.Info("Starting sistema-gestion...", zap.String("environment", cfg.Server.Env))

	// Initialize database
	if _, err := database.InitDB(&cfg.DB); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	if err := database.MigrateModels(
		&model.Organization{},
		&model.User{},
		&model.Client{},
		&model.Category{},
		&model.Supplier{},
		&model.Product{},
		&model.InventoryMovement{},
		&model.Sale{},
		&model.SaleItem{},
		&model.Rental{},
		&model.RentalItem{},
		&model.RentalPayment{},
		&model.Quotation{},
		&model.QuotationItem{},
	); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database migrations completed")

	// Initialize JWT utility and handler dependencies
	jwtUtil := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{
		SigningKey:      cfg.JWT.SigningKey,
		ExpirationHours: cfg.JWT.ExpirationHours,
	})
	handler.Init(cfg, jwtUtil, assets.NewCloudinaryClient(&cfg.Cloudinary))

	// Initialize Echo framework
	e := echo.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware())
	e.Use(logger.Middleware())
	e.Use(prometheus.MetricsMiddleware())

	// Public routes - no authentication required
	e.GET("/metrics", echo.WrapHandler(prometheus.GetPrometheusHandler()))
	e.GET("/api/auth/health", handler.HealthCheck)
	e.POST("/api/auth/login", handler.Login)
	e.POST("/api/auth/register", handler.RegisterOrganization)
	e.GET("/api/auth/setup-super-admin", handler.SetupSuperAdmin)

	// Authenticated routes
	api := e.Group("/api")
	api.Use(middleware.JWTAuthMiddleware(jwtUtil))

	api.GET("/auth/me", handler.Me)
	api.PUT("/auth/change-password", handler.ChangePassword)

	// Organization self-service
	orgs := api.Group("/organizations")
	orgs.GET("/me", handler.GetMyOrganization)
	orgs.GET("/me/limits", handler.GetMyLimits)
	orgs.GET("/stats", handler.GetOrganizationStats)
	orgs.GET("/currency", handler.GetCurrency)
	orgs.GET("/dashboard-settings", handler.GetDashboardSettings)
	orgs.DELETE("/me/reset-data", handler.ResetMyData)

	// Organization administration within the tenant
	orgAdmin := api.Group("/organizations", middleware.RequireAdmin())
	orgAdmin.PUT("/me/settings", handler.UpdateMySettings)
	orgAdmin.POST("/me/logo", handler.UploadLogo)
	orgAdmin.DELETE("/me/logo", handler.DeleteLogo)
	orgAdmin.POST("/me/stamp", handler.UploadStamp)
	orgAdmin.DELETE("/me/stamp", handler.DeleteStamp)
	orgAdmin.PUT("/dashboard-settings", handler.UpdateDashboardSettings)
	orgAdmin.PUT("/currency", handler.UpdateCurrency)
	orgAdmin.PUT("/modules", handler.UpdateModules)

	// Member management, admin only
	users := api.Group("/users", middleware.RequireAdmin())
	users.GET("", handler.ListUsers)
	users.POST("", handler.CreateUser)
	users.PUT("/:id", handler.UpdateUser)
	users.DELETE("/:id", handler.DeleteUser)
	users.PUT("/:id/reset-password", handler.ResetUserPassword)

	// Business entities, tenant scoped
	clients := api.Group("/clients")
	clients.GET("", handler.ListClients)
	clients.POST("", handler.CreateClient)
	clients.GET("/:id", handler.GetClient)
	clients.PUT("/:id", handler.UpdateClient)
	clients.DELETE("/:id", handler.DeleteClient)

	categories := api.Group("/categories")
	categories.GET("", handler.ListCategories)
	categories.POST("", handler.CreateCategory)
	categories.PUT("/:id", handler.UpdateCategory)
	categories.DELETE("/:id", handler.DeleteCategory)

	suppliers := api.Group("/suppliers")
	suppliers.GET("", handler.ListSuppliers)
	suppliers.POST("", handler.CreateSupplier)
	suppliers.GET("/:id", handler.GetSupplier)
	suppliers.PUT("/:id", handler.UpdateSupplier)
	suppliers.DELETE("/:id", handler.DeleteSupplier)

	products := api.Group("/products")
	products.GET("", handler.ListProducts)
	products.POST("", handler.CreateProduct)
	products.GET("/movements", handler.ListMovements)
	products.GET("/:id", handler.GetProduct)
	products.PUT("/:id", handler.UpdateProduct)
	products.POST("/:id/stock", handler.AdjustStock)
	products.DELETE("/:id", handler.DeleteProduct)

	sales := api.Group("/sales")
	sales.GET("", handler.ListSales)
	sales.POST("", handler.CreateSale)
	sales.GET("/:id", handler.GetSale)

	rentals := api.Group("/rentals")
	rentals.GET("", handler.ListRentals)
	rentals.POST("", handler.CreateRental)
	rentals.GET("/:id", handler.GetRental)
	rentals.POST("/:id/payments", handler.AddRentalPayment)
	rentals.PUT("/:id/close", handler.CloseRental)

	quotations := api.Group("/quotations")
	quotations.GET("", handler.ListQuotations)
	quotations.POST("", handler.CreateQuotation)
	quotations.GET("/:id", handler.GetQuotation)
	quotations.PUT("/:id/status", handler.UpdateQuotationStatus)

	// System operator routes
	admin := api.Group("/organizations/admin", middleware.RequireSuperAdmin())
	admin.POST("/create", handler.CreateOrganizationWithAdmin)
	admin.GET("/all", handler.ListAllOrganizations)
	admin.GET("/users", handler.ListAllUsers)
	admin.GET("/:id", handler.GetOrganization)
	admin.PUT("/:id/approve", handler.ApproveOrganization)
	admin.PUT("/:id/suspend", handler.SuspendOrganization)
	admin.PUT("/:id/reactivate", handler.ReactivateOrganization)
	admin.PUT("/:id", handler.UpdateOrganization)
	admin.DELETE("/:id", handler.DeleteOrganization)

	// Start server
	log.Info("Starting server", zap.String("port", cfg.Server.Port))
	if err := e.Start(":" + cfg.Server.Port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
