package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/dll-community/billing/internal/interfaces/http/handlers"
	"github.com/dll-community/billing/internal/interfaces/http/middleware"
)

// PaymentRouteConfig holds dependencies for payment routes.
type PaymentRouteConfig struct {
	PaymentHandler *handlers.PaymentHandler
}

// SetupPaymentRoutes configures payment routes. Callback and return
// endpoints are unauthenticated; the gateways authenticate through
// their payload signatures instead.
func SetupPaymentRoutes(api *gin.RouterGroup, cfg *PaymentRouteConfig) {
	payments := api.Group("/payments")
	{
		payments.POST("/callback/wayforpay", cfg.PaymentHandler.HandleWayForPayCallback)
		payments.POST("/callback/fondy", cfg.PaymentHandler.HandleFondyCallback)
		payments.POST("/return/:provider", cfg.PaymentHandler.PaymentReturn)
		payments.GET("/return/:provider", cfg.PaymentHandler.PaymentReturn)

		paymentsProtected := payments.Group("")
		paymentsProtected.Use(middleware.RequireUser())
		{
			paymentsProtected.POST("", cfg.PaymentHandler.CreatePayment)
		}
	}
}
