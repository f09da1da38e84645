package router

import (
	"hydrohub_backend/internal/handlers"
	"hydrohub_backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupAccountRoutes sets up administrator, owner and staff account routes.
func SetupAccountRoutes(authenticatedGroup *gin.RouterGroup, accountHandler *handlers.AccountHandler) {
	adminRoutes := authenticatedGroup.Group("/admins")
	adminRoutes.Use(middleware.RoleAuthMiddleware("admin"))
	{
		adminRoutes.POST("", accountHandler.CreateAdmin)
		adminRoutes.GET("/:id", accountHandler.GetAdmin)
		adminRoutes.PUT("/:id", accountHandler.UpdateAdmin)
	}

	ownerRoutes := authenticatedGroup.Group("/owners")
	{
		ownerRoutes.POST("", middleware.RoleAuthMiddleware("admin"), accountHandler.CreateOwner)
		ownerRoutes.GET("/:id", middleware.RoleAuthMiddleware("admin", "owner"), accountHandler.GetOwner)
		ownerRoutes.PUT("/:id", middleware.RoleAuthMiddleware("admin", "owner"), accountHandler.UpdateOwner)
	}

	staffRoutes := authenticatedGroup.Group("/staff")
	{
		staffRoutes.POST("", middleware.RoleAuthMiddleware("owner"), accountHandler.CreateStaff)
		staffRoutes.GET("", middleware.RoleAuthMiddleware("admin", "owner"), accountHandler.ListStaff)
		staffRoutes.GET("/:id", middleware.RoleAuthMiddleware("admin", "owner", "onsite", "delivery"), accountHandler.GetStaff)
		staffRoutes.PUT("/:id", middleware.RoleAuthMiddleware("owner", "onsite", "delivery"), accountHandler.UpdateStaff)
		staffRoutes.PATCH("/:id/status", middleware.RoleAuthMiddleware("owner"), accountHandler.ToggleStaffStatus)
	}
}

// SetupCustomerRoutes sets up customer profile and address book routes.
// Registration and login stay on the public group.
func SetupCustomerRoutes(authenticatedGroup *gin.RouterGroup, customerHandler *handlers.CustomerHandler) {
	customerRoutes := authenticatedGroup.Group("/customers")
	customerRoutes.Use(middleware.RoleAuthMiddleware("customer", "admin"))
	{
		customerRoutes.GET("/:id", customerHandler.GetProfile)
		customerRoutes.PUT("/:id", customerHandler.UpdateProfile)

		customerRoutes.GET("/:id/addresses", customerHandler.ListAddresses)
		customerRoutes.POST("/:id/addresses", customerHandler.AddAddress)
		customerRoutes.PUT("/:id/addresses/:address_id", customerHandler.UpdateAddress)
		customerRoutes.DELETE("/:id/addresses/:address_id", customerHandler.DeleteAddress)
		customerRoutes.PATCH("/:id/addresses/:address_id/default", customerHandler.SetDefaultAddress)
	}
}

// SetupStationRoutes sets up station profile routes. The public listing stays
// on the public group.
func SetupStationRoutes(authenticatedGroup *gin.RouterGroup, stationHandler *handlers.StationHandler) {
	stationRoutes := authenticatedGroup.Group("/stations")
	{
		stationRoutes.GET("/:id", stationHandler.GetStation)
		stationRoutes.PUT("/:id", middleware.RoleAuthMiddleware("owner", "admin"), stationHandler.UpdateStation)
	}
}

// SetupProductRoutes sets up product catalog routes.
func SetupProductRoutes(authenticatedGroup *gin.RouterGroup, productHandler *handlers.ProductHandler) {
	productRoutes := authenticatedGroup.Group("/products")
	{
		productRoutes.POST("", middleware.RoleAuthMiddleware("owner"), productHandler.CreateProduct)
		productRoutes.GET("", middleware.RoleAuthMiddleware("admin"), productHandler.ListProducts)
		productRoutes.GET("/:id", productHandler.GetProduct)
		productRoutes.GET("/station/:station_id", productHandler.ListStationProducts)
		productRoutes.PUT("/:id", middleware.RoleAuthMiddleware("owner"), productHandler.UpdateProduct)
		productRoutes.PATCH("/:id/archive", middleware.RoleAuthMiddleware("owner"), productHandler.ToggleArchive)
		productRoutes.DELETE("/:id", middleware.RoleAuthMiddleware("admin"), productHandler.DeleteProduct)
	}
}

// SetupSaleRoutes sets up sale recording routes.
func SetupSaleRoutes(authenticatedGroup *gin.RouterGroup, saleHandler *handlers.SaleHandler) {
	saleRoutes := authenticatedGroup.Group("/sales")
	{
		saleRoutes.POST("", middleware.RoleAuthMiddleware("onsite", "delivery", "owner"), saleHandler.CreateSale)
		saleRoutes.GET("", middleware.RoleAuthMiddleware("admin", "owner"), saleHandler.ListSales)
		saleRoutes.GET("/:id", middleware.RoleAuthMiddleware("admin", "owner", "onsite", "delivery"), saleHandler.GetSale)
		saleRoutes.PUT("/:id", middleware.RoleAuthMiddleware("owner", "onsite", "delivery"), saleHandler.UpdateSale)
	}
}

// SetupStockRoutes sets up the stock ledger routes. Each listing route is
// shaped for one consumer role.
func SetupStockRoutes(authenticatedGroup *gin.RouterGroup, stockHandler *handlers.StockHandler) {
	stockRoutes := authenticatedGroup.Group("/stocks")
	{
		stockRoutes.POST("", middleware.RoleAuthMiddleware("owner", "onsite", "delivery"), stockHandler.RecordMovement)
		stockRoutes.PUT("/:id", middleware.RoleAuthMiddleware("owner", "onsite"), stockHandler.UpdateMovement)
		stockRoutes.POST("/available", middleware.RoleAuthMiddleware("owner", "onsite", "delivery"), stockHandler.Available)

		stockRoutes.GET("/admin", middleware.RoleAuthMiddleware("admin"), stockHandler.ListAll)
		stockRoutes.GET("/owner/:station_id", middleware.RoleAuthMiddleware("owner"), stockHandler.ListForStation)
		stockRoutes.GET("/onsite/:staff_id", middleware.RoleAuthMiddleware("onsite"), stockHandler.ListForStaff)
		stockRoutes.GET("/delivery/:staff_id", middleware.RoleAuthMiddleware("delivery"), stockHandler.ListDeliveryForStaff)

		stockRoutes.GET("/type/:station_id/:stock_type", middleware.RoleAuthMiddleware("owner", "onsite"), stockHandler.MovementsByKind)
		stockRoutes.GET("/summary/:station_id", middleware.RoleAuthMiddleware("owner", "onsite", "admin"), stockHandler.Summary)
	}
}
