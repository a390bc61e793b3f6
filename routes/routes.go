package routes

import (
	"restaurant/controllers"
	"restaurant/dataservice"
	"restaurant/middleware"
	"restaurant/utils"

	"github.com/gin-gonic/gin"
)

func InitializeRoutes(router *gin.Engine, ctl *controllers.Controller, tokens *utils.Tokens) {
	router.POST("/login", ctl.Login)

	api := router.Group("/api")
	{
		api.GET("/menu", ctl.GetMenu)
		api.GET("/offers", ctl.ListOffers)
		api.GET("/specials", ctl.ListSpecials)
		api.GET("/combos", ctl.ListCombos)
		api.POST("/orders", ctl.CreateOrder)
		api.GET("/orders/:id", ctl.GetOrderByID)
	}

	// floor staff: orders, stock counts and tasks
	staff := router.Group("/staff")
	staff.Use(middleware.AuthMiddleware(tokens, dataservice.RoleStaff, dataservice.RoleManager, dataservice.RoleAdmin))
	{
		staff.GET("/orders", ctl.ListOrders)
		staff.POST("/orders", ctl.CreateOrder)
		staff.PUT("/orders/:id/status", ctl.UpdateOrderStatus)
		staff.GET("/inventory", ctl.ListInventory)
		staff.POST("/inventory/adjust", ctl.AdjustStock)
		staff.GET("/tasks", ctl.ListTasks)
		staff.PUT("/tasks/:id", ctl.UpdateTask)
	}

	admin := router.Group("/admin")
	admin.Use(middleware.AuthMiddleware(tokens, dataservice.RoleManager, dataservice.RoleAdmin))
	{
		admin.GET("/menu", ctl.ListMenu)
		admin.POST("/menu", ctl.AddMenuItem)
		admin.PUT("/menu/:id", ctl.UpdateMenuItem)
		admin.DELETE("/menu/:id", ctl.DeleteMenuItem)
		admin.PUT("/menu-prices", ctl.UpdateMenuPrices)
		admin.GET("/availability", ctl.GetAvailability)
		admin.PUT("/availability", ctl.SetAvailability)

		admin.POST("/inventory", ctl.AddInventoryItem)
		admin.PUT("/inventory/:id", ctl.UpdateInventoryItem)
		admin.DELETE("/inventory/:id", ctl.DeleteInventoryItem)

		admin.DELETE("/orders/:id", ctl.DeleteOrder)

		admin.POST("/combos", ctl.AddCombo)
		admin.PUT("/combos/:id", ctl.UpdateCombo)
		admin.DELETE("/combos/:id", ctl.DeleteCombo)
		admin.POST("/offers", ctl.AddOffer)
		admin.PUT("/offers/:id", ctl.UpdateOffer)
		admin.DELETE("/offers/:id", ctl.DeleteOffer)
		admin.POST("/specials", ctl.AddSpecial)
		admin.PUT("/specials/:id", ctl.UpdateSpecial)
		admin.DELETE("/specials/:id", ctl.DeleteSpecial)

		admin.POST("/tasks", ctl.AddTask)
		admin.DELETE("/tasks/:id", ctl.DeleteTask)

		admin.GET("/customers", ctl.ListCustomers)
		admin.GET("/customers/:id", ctl.GetCustomer)
		admin.POST("/customers", ctl.AddCustomer)

		admin.GET("/analytics", ctl.GetAnalytics)
		admin.POST("/analytics/recompute", ctl.RecomputeAnalytics)
	}

	root := router.Group("/root")
	root.Use(middleware.AuthMiddleware(tokens, dataservice.RoleAdmin))
	{
		root.GET("/staff", ctl.ListStaff)
		root.POST("/staff", ctl.AddStaff)
		root.DELETE("/staff/:id", ctl.DeleteStaff)
		root.GET("/collections/:name", ctl.ReadCollection)
		root.GET("/cache", ctl.CacheInfo)
		root.GET("/migration/report", ctl.MigrationReport)
		root.POST("/migration/run", ctl.RunMigration)
	}
}
