package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	paymentUsecases "github.com/dll-community/billing/internal/application/payment/usecases"
	"github.com/dll-community/billing/internal/infrastructure/gateway"
	"github.com/dll-community/billing/internal/interfaces/http/middleware"
	"github.com/dll-community/billing/internal/shared/biztime"
	"github.com/dll-community/billing/internal/shared/logger"
	"github.com/dll-community/billing/internal/shared/utils"
)

type PaymentHandler struct {
	createPaymentUC  *paymentUsecases.CreatePaymentUseCase
	handleCallbackUC *paymentUsecases.HandleCallbackUseCase
	logger           logger.Interface
}

func NewPaymentHandler(
	createPaymentUC *paymentUsecases.CreatePaymentUseCase,
	handleCallbackUC *paymentUsecases.HandleCallbackUseCase,
	logger logger.Interface,
) *PaymentHandler {
	return &PaymentHandler{
		createPaymentUC:  createPaymentUC,
		handleCallbackUC: handleCallbackUC,
		logger:           logger,
	}
}

type CreatePaymentRequest struct {
	OrderID  uint   `json:"order_id" binding:"required"`
	Provider string `json:"provider" binding:"omitempty,oneof=wayforpay fondy"`
	Language string `json:"language"`
}

type CreatePaymentResponse struct {
	PaymentURL       string            `json:"payment_url"`
	GatewayReference string            `json:"gateway_reference"`
	FormFields       map[string]string `json:"form_fields,omitempty"`
}

// CreatePayment dispatches an order to a payment gateway and returns
// the redirect form the browser submits to the gateway's checkout page.
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	result, err := h.createPaymentUC.Execute(c.Request.Context(), req.OrderID, userID, req.Provider, req.Language)
	if err != nil {
		h.logger.Warnw("failed to create payment", "order_id", req.OrderID, "user_id", userID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}
	if !result.Success {
		utils.ErrorResponse(c, http.StatusUnprocessableEntity, result.ErrorMessage)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", CreatePaymentResponse{
		PaymentURL:       result.PaymentURL,
		GatewayReference: result.GatewayReference,
		FormFields:       result.FormFields,
	})
}

// HandleWayForPayCallback processes the server-to-server webhook.
// WayForPay posts a JSON body and expects an accept/decline
// acknowledgment; anything else is retried.
func (h *PaymentHandler) HandleWayForPayCallback(c *gin.Context) {
	fields, err := decodeJSONFields(c)
	if err != nil {
		h.logger.Warnw("malformed wayforpay callback", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"status": "decline"})
		return
	}

	reference := fields["orderReference"]
	_, err = h.handleCallbackUC.Execute(c.Request.Context(), gateway.WayForPayName, fields, fields["merchantSignature"])
	if err != nil {
		h.logger.Warnw("wayforpay callback rejected", "order_reference", reference, "error", err)
		c.JSON(http.StatusOK, wayforpayAck(reference, "decline"))
		return
	}

	c.JSON(http.StatusOK, wayforpayAck(reference, "accept"))
}

// HandleFondyCallback processes Fondy's server callback. Fondy posts
// form-encoded or JSON fields and treats any 200 as delivered.
func (h *PaymentHandler) HandleFondyCallback(c *gin.Context) {
	fields, err := decodeCallbackFields(c)
	if err != nil {
		h.logger.Warnw("malformed fondy callback", "error", err)
		c.String(http.StatusBadRequest, "bad request")
		return
	}

	_, err = h.handleCallbackUC.Execute(c.Request.Context(), gateway.FondyName, fields, fields["signature"])
	if err != nil {
		h.logger.Warnw("fondy callback rejected", "order_id", fields["order_id"], "error", err)
		c.String(http.StatusForbidden, "rejected")
		return
	}

	c.String(http.StatusOK, "OK")
}

// PaymentReturn lands the customer's browser after checkout. Gateways
// post the same signed payload here, so it doubles as a fallback
// completion path when the webhook is delayed.
func (h *PaymentHandler) PaymentReturn(c *gin.Context) {
	provider := c.Param("provider")

	fields, err := decodeCallbackFields(c)
	if err != nil || len(fields) == 0 {
		utils.SuccessResponse(c, http.StatusOK, "payment processed", nil)
		return
	}

	signature := fields["merchantSignature"]
	if signature == "" {
		signature = fields["signature"]
	}

	data, err := h.handleCallbackUC.Execute(c.Request.Context(), provider, fields, signature)
	if err != nil {
		h.logger.Warnw("return payload rejected", "provider", provider, "error", err)
		utils.SuccessResponse(c, http.StatusOK, "payment processed", nil)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{
		"order_reference": data.OrderReference,
		"status":          data.Status,
	})
}

func wayforpayAck(reference, status string) gin.H {
	return gin.H{
		"orderReference": reference,
		"status":         status,
		"time":           biztime.NowUTC().Unix(),
	}
}

// decodeJSONFields flattens a JSON object body into string fields.
// Numbers keep their literal form so signature checks see the exact
// bytes the gateway signed.
func decodeJSONFields(c *gin.Context) (map[string]string, error) {
	decoder := json.NewDecoder(c.Request.Body)
	decoder.UseNumber()

	var raw map[string]interface{}
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode callback body: %w", err)
	}
	return flattenFields(raw), nil
}

// decodeCallbackFields accepts either a form or a JSON body.
func decodeCallbackFields(c *gin.Context) (map[string]string, error) {
	if c.ContentType() == "application/json" {
		return decodeJSONFields(c)
	}

	if err := c.Request.ParseForm(); err != nil {
		return nil, fmt.Errorf("failed to parse callback form: %w", err)
	}
	fields := make(map[string]string, len(c.Request.Form))
	for key, values := range c.Request.Form {
		if len(values) > 0 {
			fields[key] = values[0]
		}
	}
	return fields, nil
}

func flattenFields(raw map[string]interface{}) map[string]string {
	fields := make(map[string]string, len(raw))
	for key, value := range raw {
		switch v := value.(type) {
		case string:
			fields[key] = v
		case json.Number:
			fields[key] = v.String()
		case bool:
			fields[key] = fmt.Sprintf("%t", v)
		case nil:
			fields[key] = ""
		default:
			// nested arrays/objects are not part of any signature
		}
	}
	return fields
}
