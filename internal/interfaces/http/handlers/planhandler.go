package handlers

import (
	"github.com/gin-gonic/gin"

	subscriptionUsecases "github.com/dll-community/billing/internal/application/subscription/usecases"
	"github.com/dll-community/billing/internal/shared/logger"
	"github.com/dll-community/billing/internal/shared/utils"
)

type PlanHandler struct {
	listPlansUC *subscriptionUsecases.ListPlansUseCase
	logger      logger.Interface
}

func NewPlanHandler(listPlansUC *subscriptionUsecases.ListPlansUseCase, logger logger.Interface) *PlanHandler {
	return &PlanHandler{
		listPlansUC: listPlansUC,
		logger:      logger,
	}
}

// ListPlans returns the active plan catalog localized to the lang query
// parameter.
func (h *PlanHandler) ListPlans(c *gin.Context) {
	lang := c.DefaultQuery("lang", "uk")

	plans, err := h.listPlansUC.Execute(c.Request.Context(), lang)
	if err != nil {
		h.logger.Errorw("failed to list plans", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, 200, "", plans)
}
