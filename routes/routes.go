package routes

import (
	"net/http"

	"inventory-order-service/controllers"
	"inventory-order-service/middleware"

	"github.com/gin-gonic/gin"
)

// Controllers groups the handlers mounted under /api/v1.
type Controllers struct {
	Categories *controllers.CategoryController
	Suppliers  *controllers.SupplierController
	Products   *controllers.ProductController
	Orders     *controllers.OrderController
	Alerts     *controllers.AlertController
}

// RegisterRoutes mounts the health check and the authenticated API.
func RegisterRoutes(r *gin.Engine, h Controllers, jwtSecret string) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(jwtSecret))
	admin := middleware.AdminOnly()

	categories := api.Group("/categories")
	categories.GET("", h.Categories.ListCategories)
	categories.GET("/:id", h.Categories.GetCategory)
	categories.POST("", admin, h.Categories.CreateCategory)
	categories.PUT("/:id", admin, h.Categories.UpdateCategory)
	categories.DELETE("/:id", admin, h.Categories.DeleteCategory)

	suppliers := api.Group("/suppliers")
	suppliers.GET("", h.Suppliers.ListSuppliers)
	suppliers.GET("/:id", h.Suppliers.GetSupplier)
	suppliers.POST("", admin, h.Suppliers.CreateSupplier)
	suppliers.PUT("/:id", admin, h.Suppliers.UpdateSupplier)
	suppliers.DELETE("/:id", admin, h.Suppliers.DeleteSupplier)

	products := api.Group("/products")
	products.GET("", h.Products.ListProducts)
	products.GET("/:id", h.Products.GetProduct)
	products.POST("", admin, h.Products.CreateProduct)
	products.PUT("/:id", admin, h.Products.UpdateProduct)
	products.DELETE("/:id", admin, h.Products.DeleteProduct)
	products.PATCH("/:id/stock", admin, h.Products.UpdateProductStock)
	products.PUT("/:id/stock", admin, h.Products.UpdateProductStock)
	products.GET("/:id/movements", admin, h.Products.ListMovements)

	orders := api.Group("/orders")
	orders.GET("", h.Orders.ListOrders)
	orders.GET("/:id", h.Orders.GetOrder)
	orders.POST("", h.Orders.CreateOrder)
	orders.POST("/:id/items", h.Orders.AddOrderItem)
	orders.POST("/:id/items/batch", h.Orders.AddOrderItems)
	orders.POST("/:id/cancel", h.Orders.CancelOrder)
	orders.POST("/:id/complete", h.Orders.CompleteOrder)
	orders.DELETE("/:id", admin, h.Orders.DeleteOrder)

	api.GET("/order-items", h.Orders.ListOrderItems)
	api.GET("/alerts", admin, h.Alerts.ListAlerts)
}
