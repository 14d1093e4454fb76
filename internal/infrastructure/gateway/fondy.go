package gateway

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dll-community/billing/internal/application/payment/paymentgateway"
	"github.com/dll-community/billing/internal/shared/config"
	apperrors "github.com/dll-community/billing/internal/shared/errors"
	"github.com/dll-community/billing/internal/shared/logger"
)

const FondyName = "fondy"

const fondyReferencePrefix = "ORDER"

// FondyGateway implements the Fondy hosted checkout. Requests and
// callbacks are signed with SHA-1 over pipe-joined values; callback
// values are taken in alphabetical parameter order per the provider's
// protocol, with empty values and the signature itself excluded.
type FondyGateway struct {
	cfg    config.FondyConfig
	logger logger.Interface
}

func NewFondyGateway(cfg config.FondyConfig, log logger.Interface) *FondyGateway {
	return &FondyGateway{
		cfg:    cfg,
		logger: log.Named("fondy"),
	}
}

func (g *FondyGateway) Name() string {
	return FondyName
}

func (g *FondyGateway) CreatePayment(ctx context.Context, req paymentgateway.CreatePaymentRequest) (*paymentgateway.CreatePaymentResponse, error) {
	orderID := fmt.Sprintf("%s_%d", fondyReferencePrefix, req.OrderID)
	amount := strconv.FormatInt(req.Amount, 10)

	// field order is fixed by the provider
	signature := SignSHA1(g.cfg.SecretKey, []string{
		g.cfg.MerchantID,
		orderID,
		amount,
		req.Currency,
	})

	form := map[string]string{
		"merchant_id": g.cfg.MerchantID,
		"order_id":    orderID,
		"order_desc":  req.Description,
		"amount":      amount,
		"currency":    req.Currency,
		"signature":   signature,
	}
	if req.ReturnURL != "" {
		form["response_url"] = req.ReturnURL
	}
	if req.CallbackURL != "" {
		form["server_callback_url"] = req.CallbackURL
	}
	if req.CustomerEmail != "" {
		form["sender_email"] = req.CustomerEmail
	}
	if req.Language != "" {
		form["lang"] = strings.ToLower(req.Language)
	}

	g.logger.Infow("payment form prepared",
		"order_id", req.OrderID,
		"order_reference", orderID,
		"amount", amount,
		"currency", req.Currency,
	)

	return &paymentgateway.CreatePaymentResponse{
		Success:          true,
		PaymentURL:       g.cfg.APIURL,
		GatewayReference: orderID,
		FormFields:       form,
	}, nil
}

func (g *FondyGateway) VerifyCallback(fields map[string]string, signature string) (*paymentgateway.CallbackData, error) {
	if signature == "" {
		signature = fields["signature"]
	}

	expected := SignSHA1(g.cfg.SecretKey, fondySignatureValues(fields))
	if !SignaturesEqual(signature, expected) {
		g.logger.Warnw("callback signature mismatch", "order_reference", fields["order_id"])
		return nil, apperrors.NewInvalidSignatureError(FondyName)
	}

	orderReference := fields["order_id"]
	orderID, err := OrderIDFromReference(orderReference)
	if err != nil {
		return nil, fmt.Errorf("failed to parse order reference %q: %w", orderReference, err)
	}

	// Fondy reports amounts in minor units already
	amountMinor, err := strconv.ParseInt(fields["amount"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse callback amount %q: %w", fields["amount"], err)
	}

	return &paymentgateway.CallbackData{
		OrderID:        orderID,
		OrderReference: orderReference,
		TransactionID:  fields["payment_id"],
		Amount:         amountMinor,
		Currency:       fields["currency"],
		Status:         fondyStatus(fields["order_status"]),
		ReasonCode:     fields["response_code"],
		RawData:        fields,
	}, nil
}

// fondySignatureValues returns the callback values in alphabetical
// parameter order, skipping empty values and signature parameters.
func fondySignatureValues(fields map[string]string) []string {
	keys := make([]string, 0, len(fields))
	for k, v := range fields {
		if k == "signature" || k == "response_signature_string" || v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := make([]string, 0, len(keys))
	for _, k := range keys {
		values = append(values, fields[k])
	}
	return values
}

func fondyStatus(orderStatus string) paymentgateway.PaymentStatus {
	switch strings.ToLower(orderStatus) {
	case "approved":
		return paymentgateway.StatusSuccess
	case "declined", "expired":
		return paymentgateway.StatusFailed
	case "reversed":
		return paymentgateway.StatusRefunded
	default:
		return paymentgateway.StatusPending
	}
}
