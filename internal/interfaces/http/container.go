package http

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	orderUsecases "github.com/dll-community/billing/internal/application/order/usecases"
	"github.com/dll-community/billing/internal/application/payment/paymentgateway"
	paymentUsecases "github.com/dll-community/billing/internal/application/payment/usecases"
	subscriptionUsecases "github.com/dll-community/billing/internal/application/subscription/usecases"
	ordervo "github.com/dll-community/billing/internal/domain/order/valueobjects"
	"github.com/dll-community/billing/internal/infrastructure/cache"
	"github.com/dll-community/billing/internal/infrastructure/config"
	"github.com/dll-community/billing/internal/infrastructure/email"
	"github.com/dll-community/billing/internal/infrastructure/gateway"
	"github.com/dll-community/billing/internal/infrastructure/repository"
	"github.com/dll-community/billing/internal/infrastructure/scheduler"
	"github.com/dll-community/billing/internal/interfaces/http/handlers"
	"github.com/dll-community/billing/internal/interfaces/http/middleware"
	"github.com/dll-community/billing/internal/interfaces/http/routes"
	sharedDB "github.com/dll-community/billing/internal/shared/db"
	"github.com/dll-community/billing/internal/shared/logger"
	"github.com/dll-community/billing/internal/shared/services/markdown"
)

// Container wires repositories, use cases, handlers, and background
// services, and owns their lifecycle.
type Container struct {
	engine *gin.Engine
	db     *gorm.DB
	redis  *redis.Client
	cfg    *config.Config
	log    logger.Interface

	subscriptionScheduler *scheduler.SubscriptionScheduler
}

// NewContainer builds the full dependency graph. The redis client is
// optional; without it the plan catalog is served straight from the
// database.
func NewContainer(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface) (*Container, error) {
	engine := gin.New()
	registerValidations()
	engine.Use(middleware.Recovery())
	engine.Use(middleware.Logger(log))
	engine.Use(middleware.CORS(cfg.Server.AllowedOrigins))

	// Repositories
	orderRepo := repository.NewOrderRepository(db, log)
	subscriptionRepo := repository.NewSubscriptionRepository(db, log)
	planRepo := repository.NewPlanRepository(db, log)
	userContactRepo := repository.NewUserContactRepository(db, log)
	if redisClient != nil {
		planRepo = cache.NewCachedPlanRepository(planRepo, redisClient, log)
	}

	txManager := sharedDB.NewTransactionManager(db)
	markdownSvc := markdown.NewService()

	// Payment gateways
	registry := paymentgateway.NewRegistry()
	if cfg.Payment.WayForPay.MerchantAccount != "" {
		registry.Register(gateway.NewWayForPayGateway(cfg.Payment.WayForPay, log))
	}
	if cfg.Payment.Fondy.MerchantID != "" {
		registry.Register(gateway.NewFondyGateway(cfg.Payment.Fondy, log))
	}
	if len(registry.Names()) == 0 {
		return nil, fmt.Errorf("no payment gateway configured")
	}

	reminderSender := email.NewSMTPReminderSender(cfg.Email, log)

	// Use cases
	createOrExtendUC := subscriptionUsecases.NewCreateOrExtendSubscriptionUseCase(subscriptionRepo, log)
	cancelAutoRenewUC := subscriptionUsecases.NewCancelAutoRenewUseCase(subscriptionRepo, log)
	expireSubscriptionsUC := subscriptionUsecases.NewExpireSubscriptionsUseCase(
		subscriptionRepo, cfg.Subscription.GracePeriodDays, log)
	remindExpiringUC := subscriptionUsecases.NewRemindExpiringSubscriptionsUseCase(
		subscriptionRepo, planRepo, userContactRepo, reminderSender, cfg.Subscription.ReminderDays, log)
	listPlansUC := subscriptionUsecases.NewListPlansUseCase(planRepo, markdownSvc, log)
	getSubscriptionUC := subscriptionUsecases.NewGetUserSubscriptionUseCase(subscriptionRepo, log)
	listSubscriptionsUC := subscriptionUsecases.NewListUserSubscriptionsUseCase(subscriptionRepo, log)

	createOrderUC := orderUsecases.NewCreateSubscriptionOrderUseCase(orderRepo, planRepo, log)
	completeOrderUC := orderUsecases.NewCompleteOrderUseCase(orderRepo, planRepo, createOrExtendUC, txManager, log)
	cancelOrderUC := orderUsecases.NewCancelOrderUseCase(orderRepo, log)
	listOrdersUC := orderUsecases.NewListUserOrdersUseCase(orderRepo, log)
	getOrderUC := orderUsecases.NewGetOrderUseCase(orderRepo, log)

	createPaymentUC := paymentUsecases.NewCreatePaymentUseCase(
		orderRepo, planRepo, registry, userContactRepo,
		cfg.Payment.DefaultProvider, cfg.Server.BaseURL, log)
	handleCallbackUC := paymentUsecases.NewHandleCallbackUseCase(registry, orderRepo, completeOrderUC, log)

	// Handlers and routes
	planHandler := handlers.NewPlanHandler(listPlansUC, log)
	orderHandler := handlers.NewOrderHandler(createOrderUC, listOrdersUC, getOrderUC, cancelOrderUC, log)
	paymentHandler := handlers.NewPaymentHandler(createPaymentUC, handleCallbackUC, log)
	subscriptionHandler := handlers.NewSubscriptionHandler(getSubscriptionUC, listSubscriptionsUC, cancelAutoRenewUC, log)

	api := engine.Group("/api/v1")
	routes.SetupPlanRoutes(api, &routes.PlanRouteConfig{PlanHandler: planHandler})
	routes.SetupOrderRoutes(api, &routes.OrderRouteConfig{OrderHandler: orderHandler})
	routes.SetupPaymentRoutes(api, &routes.PaymentRouteConfig{PaymentHandler: paymentHandler})
	routes.SetupSubscriptionRoutes(api, &routes.SubscriptionRouteConfig{SubscriptionHandler: subscriptionHandler})

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	subscriptionScheduler := scheduler.NewSubscriptionScheduler(
		expireSubscriptionsUC, remindExpiringUC, cfg.Subscription.ExpireIntervalHours, log)

	return &Container{
		engine:                engine,
		db:                    db,
		redis:                 redisClient,
		cfg:                   cfg,
		log:                   log,
		subscriptionScheduler: subscriptionScheduler,
	}, nil
}

// registerValidations adds the platform-currency rule to gin's
// validator.
func registerValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("supported_currency", func(fl validator.FieldLevel) bool {
			_, ok := ordervo.ParseCurrency(fl.Field().String())
			return ok
		})
	}
}

// Engine returns the configured gin engine.
func (c *Container) Engine() *gin.Engine {
	return c.engine
}

// Start launches background services.
func (c *Container) Start(ctx context.Context) {
	c.subscriptionScheduler.Start(ctx)
}

// Shutdown stops background services gracefully.
func (c *Container) Shutdown() {
	c.subscriptionScheduler.Stop()

	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.log.Errorw("failed to close redis client", "error", err)
		}
	}
}
