package router

import (
	"database/sql"

	"hydrohub_backend/internal/handlers"
	"hydrohub_backend/internal/middleware"
	"hydrohub_backend/internal/repositories"
	"hydrohub_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, db *sql.DB) {
	// Initialize Repositories
	accountRepo := repositories.NewAccountRepository(db)
	staffRepo := repositories.NewStaffRepository(db)
	customerRepo := repositories.NewCustomerRepository(db)
	stationRepo := repositories.NewStationRepository(db)
	productRepo := repositories.NewProductRepository(db)
	saleRepo := repositories.NewSaleRepository(db)
	stockRepo := repositories.NewStockRepository(db)

	// Initialize Services
	authService := services.NewAuthService(accountRepo, staffRepo)
	accountService := services.NewAccountService(accountRepo, staffRepo, stationRepo, db)
	customerService := services.NewCustomerService(customerRepo, db)
	stationService := services.NewStationService(stationRepo, db)
	productService := services.NewProductService(productRepo, stationRepo, db)
	saleService := services.NewSaleService(saleRepo, stockRepo, staffRepo, productRepo, db)
	stockService := services.NewStockService(stockRepo, staffRepo, productRepo, db)

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(authService)
	accountHandler := handlers.NewAccountHandler(accountService)
	customerHandler := handlers.NewCustomerHandler(customerService)
	stationHandler := handlers.NewStationHandler(stationService)
	productHandler := handlers.NewProductHandler(productService)
	saleHandler := handlers.NewSaleHandler(saleService)
	stockHandler := handlers.NewStockHandler(stockService)

	apiV1 := engine.Group("/api/v1")

	// Public routes: staff-side login and customer registration/login.
	apiV1.POST("/login", authHandler.Login)
	apiV1.POST("/customers/register", customerHandler.Register)
	apiV1.POST("/customers/login", customerHandler.Login)
	apiV1.GET("/stations", stationHandler.ListStations)

	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware())
	{
		SetupAccountRoutes(authenticated, accountHandler)
		SetupCustomerRoutes(authenticated, customerHandler)
		SetupStationRoutes(authenticated, stationHandler)
		SetupProductRoutes(authenticated, productHandler)
		SetupSaleRoutes(authenticated, saleHandler)
		SetupStockRoutes(authenticated, stockHandler)
	}
}
