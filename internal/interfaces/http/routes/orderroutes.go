package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/dll-community/billing/internal/interfaces/http/handlers"
	"github.com/dll-community/billing/internal/interfaces/http/middleware"
)

// OrderRouteConfig holds dependencies for order routes.
type OrderRouteConfig struct {
	OrderHandler *handlers.OrderHandler
}

// SetupOrderRoutes configures order routes.
func SetupOrderRoutes(api *gin.RouterGroup, cfg *OrderRouteConfig) {
	orders := api.Group("/orders")
	orders.Use(middleware.RequireUser())
	{
		orders.POST("", cfg.OrderHandler.CreateOrder)
		orders.GET("", cfg.OrderHandler.ListOrders)
		orders.GET("/:id", cfg.OrderHandler.GetOrder)
		orders.POST("/:id/cancel", cfg.OrderHandler.CancelOrder)
	}
}
