package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	subscriptionUsecases "github.com/dll-community/billing/internal/application/subscription/usecases"
	"github.com/dll-community/billing/internal/domain/subscription"
	"github.com/dll-community/billing/internal/interfaces/http/middleware"
	"github.com/dll-community/billing/internal/shared/logger"
	"github.com/dll-community/billing/internal/shared/utils"
)

type SubscriptionHandler struct {
	getSubscriptionUC   *subscriptionUsecases.GetUserSubscriptionUseCase
	listSubscriptionsUC *subscriptionUsecases.ListUserSubscriptionsUseCase
	cancelAutoRenewUC   *subscriptionUsecases.CancelAutoRenewUseCase
	logger              logger.Interface
}

func NewSubscriptionHandler(
	getSubscriptionUC *subscriptionUsecases.GetUserSubscriptionUseCase,
	listSubscriptionsUC *subscriptionUsecases.ListUserSubscriptionsUseCase,
	cancelAutoRenewUC *subscriptionUsecases.CancelAutoRenewUseCase,
	logger logger.Interface,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		getSubscriptionUC:   getSubscriptionUC,
		listSubscriptionsUC: listSubscriptionsUC,
		cancelAutoRenewUC:   cancelAutoRenewUC,
		logger:              logger,
	}
}

// GetCurrent returns the user's active subscription, 404 when none.
func (h *SubscriptionHandler) GetCurrent(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	dto, err := h.getSubscriptionUC.Execute(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, subscription.ErrSubscriptionNotFound) {
			utils.ErrorResponse(c, http.StatusNotFound, "no active subscription")
			return
		}
		h.logger.Errorw("failed to get subscription", "user_id", userID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", dto)
}

// ListHistory returns the user's subscription history, newest first.
func (h *SubscriptionHandler) ListHistory(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	subs, err := h.listSubscriptionsUC.Execute(c.Request.Context(), userID)
	if err != nil {
		h.logger.Errorw("failed to list subscriptions", "user_id", userID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", subs)
}

// CancelAutoRenew turns off renewal. Paid time is kept until the end
// date.
func (h *SubscriptionHandler) CancelAutoRenew(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	subscriptionID, err := parseIDParam(c, "id")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid subscription id")
		return
	}

	if err := h.cancelAutoRenewUC.Execute(c.Request.Context(), subscriptionID, userID); err != nil {
		h.logger.Warnw("failed to cancel auto-renew", "subscription_id", subscriptionID, "user_id", userID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "auto-renew disabled", nil)
}
