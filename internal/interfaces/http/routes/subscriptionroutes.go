package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/dll-community/billing/internal/interfaces/http/handlers"
	"github.com/dll-community/billing/internal/interfaces/http/middleware"
)

// SubscriptionRouteConfig holds dependencies for subscription routes.
type SubscriptionRouteConfig struct {
	SubscriptionHandler *handlers.SubscriptionHandler
}

// SetupSubscriptionRoutes configures subscription routes.
func SetupSubscriptionRoutes(api *gin.RouterGroup, cfg *SubscriptionRouteConfig) {
	subscriptions := api.Group("/subscriptions")
	subscriptions.Use(middleware.RequireUser())
	{
		subscriptions.GET("/current", cfg.SubscriptionHandler.GetCurrent)
		subscriptions.GET("", cfg.SubscriptionHandler.ListHistory)
		subscriptions.POST("/:id/cancel-auto-renew", cfg.SubscriptionHandler.CancelAutoRenew)
	}
}
