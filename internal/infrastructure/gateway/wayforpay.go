package gateway

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dll-community/billing/internal/application/payment/paymentgateway"
	"github.com/dll-community/billing/internal/shared/biztime"
	"github.com/dll-community/billing/internal/shared/config"
	apperrors "github.com/dll-community/billing/internal/shared/errors"
	"github.com/dll-community/billing/internal/shared/logger"
)

const WayForPayName = "wayforpay"

// wayforpayReferencePrefix prefixes every order reference sent to
// WayForPay: DLL_<orderID>_<unix>.
const wayforpayReferencePrefix = "DLL"

// WayForPayGateway implements the WayForPay hosted-checkout flow. The
// payment is dispatched as a signed form POST to the checkout URL;
// callbacks arrive as server-to-server webhooks signed with the same
// merchant secret.
type WayForPayGateway struct {
	cfg    config.WayForPayConfig
	logger logger.Interface
	now    func() time.Time
}

func NewWayForPayGateway(cfg config.WayForPayConfig, log logger.Interface) *WayForPayGateway {
	return &WayForPayGateway{
		cfg:    cfg,
		logger: log.Named("wayforpay"),
		now:    biztime.NowUTC,
	}
}

func (g *WayForPayGateway) Name() string {
	return WayForPayName
}

func (g *WayForPayGateway) CreatePayment(ctx context.Context, req paymentgateway.CreatePaymentRequest) (*paymentgateway.CreatePaymentResponse, error) {
	if req.CustomerEmail == "" {
		return &paymentgateway.CreatePaymentResponse{
			Success:      false,
			ErrorMessage: "customer email is required",
		}, nil
	}

	ts := g.now().Unix()
	orderReference := fmt.Sprintf("%s_%d_%d", wayforpayReferencePrefix, req.OrderID, ts)
	orderDate := strconv.FormatInt(ts, 10)
	amount := formatMinorAmount(req.Amount)

	// field order is fixed by the provider
	signature := SignHMACMD5(g.cfg.SecretKey, []string{
		g.cfg.MerchantAccount,
		g.cfg.MerchantDomain,
		orderReference,
		orderDate,
		amount,
		req.Currency,
		req.Description,
		"1",
		amount,
	})

	form := map[string]string{
		"merchantAccount":    g.cfg.MerchantAccount,
		"merchantDomainName": g.cfg.MerchantDomain,
		"orderReference":     orderReference,
		"orderDate":          orderDate,
		"amount":             amount,
		"currency":           req.Currency,
		"productName[]":      req.Description,
		"productCount[]":     "1",
		"productPrice[]":     amount,
		"clientEmail":        req.CustomerEmail,
		"language":           wayforpayLanguage(req.Language),
		"merchantSignature":  signature,
	}
	if req.CustomerName != "" {
		form["clientFirstName"] = req.CustomerName
	}
	if req.ReturnURL != "" {
		form["returnUrl"] = req.ReturnURL
	}
	if req.CallbackURL != "" {
		form["serviceUrl"] = req.CallbackURL
	}

	g.logger.Infow("payment form prepared",
		"order_id", req.OrderID,
		"order_reference", orderReference,
		"amount", amount,
		"currency", req.Currency,
	)

	return &paymentgateway.CreatePaymentResponse{
		Success:          true,
		PaymentURL:       g.cfg.APIURL,
		GatewayReference: orderReference,
		FormFields:       form,
	}, nil
}

func (g *WayForPayGateway) VerifyCallback(fields map[string]string, signature string) (*paymentgateway.CallbackData, error) {
	if signature == "" {
		signature = fields["merchantSignature"]
	}

	orderReference := fields["orderReference"]
	amount := fields["amount"]
	currency := fields["currency"]
	authCode := fields["authCode"]
	cardPan := fields["cardPan"]
	transactionStatus := fields["transactionStatus"]
	reasonCode := fields["reasonCode"]

	expected := SignHMACMD5(g.cfg.SecretKey, []string{
		g.cfg.MerchantAccount,
		orderReference,
		amount,
		currency,
		authCode,
		cardPan,
		transactionStatus,
		reasonCode,
	})
	if !SignaturesEqual(signature, expected) {
		g.logger.Warnw("webhook signature mismatch", "order_reference", orderReference)
		return nil, apperrors.NewInvalidSignatureError(WayForPayName)
	}

	orderID, err := OrderIDFromReference(orderReference)
	if err != nil {
		return nil, fmt.Errorf("failed to parse order reference %q: %w", orderReference, err)
	}

	amountMinor, err := parseMinorAmount(amount)
	if err != nil {
		return nil, fmt.Errorf("failed to parse callback amount %q: %w", amount, err)
	}

	return &paymentgateway.CallbackData{
		OrderID:        orderID,
		OrderReference: orderReference,
		TransactionID:  authCode,
		Amount:         amountMinor,
		Currency:       currency,
		Status:         wayforpayStatus(transactionStatus),
		ReasonCode:     reasonCode,
		RawData:        fields,
	}, nil
}

func wayforpayStatus(transactionStatus string) paymentgateway.PaymentStatus {
	switch strings.ToLower(transactionStatus) {
	case "approved":
		return paymentgateway.StatusSuccess
	case "declined", "expired":
		return paymentgateway.StatusFailed
	case "refunded":
		return paymentgateway.StatusRefunded
	default:
		return paymentgateway.StatusPending
	}
}

// wayforpayLanguage maps app language codes onto the checkout page
// languages WayForPay supports (ua, ru, en). German is not supported
// by the provider, so it falls back to ru.
func wayforpayLanguage(lang string) string {
	switch strings.ToLower(lang) {
	case "uk", "ua":
		return "ua"
	case "en":
		return "en"
	case "de", "ru":
		return "ru"
	default:
		return "ua"
	}
}

// formatMinorAmount renders minor units as the provider's decimal
// string, e.g. 29900 -> "299.00".
func formatMinorAmount(minor int64) string {
	return strconv.FormatFloat(float64(minor)/100, 'f', 2, 64)
}

func parseMinorAmount(s string) (int64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int64(math.Round(f * 100)), nil
}

// OrderIDFromReference extracts the local order ID from a gateway
// order reference such as DLL_42_1700000000 or ORDER_42.
func OrderIDFromReference(reference string) (uint, error) {
	parts := strings.Split(reference, "_")
	if len(parts) < 2 {
		return 0, fmt.Errorf("unexpected reference format: %s", reference)
	}
	id, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("unexpected reference format: %s", reference)
	}
	return uint(id), nil
}
