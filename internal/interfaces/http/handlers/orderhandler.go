package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	orderUsecases "github.com/dll-community/billing/internal/application/order/usecases"
	"github.com/dll-community/billing/internal/interfaces/http/middleware"
	"github.com/dll-community/billing/internal/shared/logger"
	"github.com/dll-community/billing/internal/shared/utils"
)

type OrderHandler struct {
	createOrderUC *orderUsecases.CreateSubscriptionOrderUseCase
	listOrdersUC  *orderUsecases.ListUserOrdersUseCase
	getOrderUC    *orderUsecases.GetOrderUseCase
	cancelOrderUC *orderUsecases.CancelOrderUseCase
	logger        logger.Interface
}

func NewOrderHandler(
	createOrderUC *orderUsecases.CreateSubscriptionOrderUseCase,
	listOrdersUC *orderUsecases.ListUserOrdersUseCase,
	getOrderUC *orderUsecases.GetOrderUseCase,
	cancelOrderUC *orderUsecases.CancelOrderUseCase,
	logger logger.Interface,
) *OrderHandler {
	return &OrderHandler{
		createOrderUC: createOrderUC,
		listOrdersUC:  listOrdersUC,
		getOrderUC:    getOrderUC,
		cancelOrderUC: cancelOrderUC,
		logger:        logger,
	}
}

type CreateOrderRequest struct {
	PlanID   uint   `json:"plan_id" binding:"required"`
	Currency string `json:"currency" binding:"required,iso4217,supported_currency"`
}

// CreateOrder creates a PENDING subscription-purchase order. Payment is
// initiated separately so retries never duplicate orders.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	created, err := h.createOrderUC.Execute(c.Request.Context(), userID, req.PlanID, req.Currency)
	if err != nil {
		h.logger.Warnw("failed to create order", "user_id", userID, "plan_id", req.PlanID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, orderUsecases.ToOrderDTO(created), "order created")
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	orders, err := h.listOrdersUC.Execute(c.Request.Context(), userID)
	if err != nil {
		h.logger.Errorw("failed to list orders", "user_id", userID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", orders)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	orderID, err := parseIDParam(c, "id")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid order id")
		return
	}

	dto, err := h.getOrderUC.Execute(c.Request.Context(), orderID, userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", dto)
}

// CancelOrder cancels a PENDING order. Completed or failed orders are
// immutable.
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	orderID, err := parseIDParam(c, "id")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid order id")
		return
	}

	if err := h.cancelOrderUC.Execute(c.Request.Context(), orderID, userID); err != nil {
		h.logger.Warnw("failed to cancel order", "order_id", orderID, "user_id", userID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "order cancelled", nil)
}

func parseIDParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, strconv.ErrSyntax
	}
	return uint(id), nil
}
