package gateway

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dll-community/billing/internal/application/payment/paymentgateway"
	"github.com/dll-community/billing/internal/shared/config"
	apperrors "github.com/dll-community/billing/internal/shared/errors"
	"github.com/dll-community/billing/internal/shared/logger"
)

func testWayForPay() *WayForPayGateway {
	g := NewWayForPayGateway(config.WayForPayConfig{
		MerchantAccount: "merchant_acc",
		MerchantDomain:  "dll.example.com",
		SecretKey:       "test_secret",
		APIURL:          "https://secure.wayforpay.com/pay",
	}, logger.NewLogger())
	g.now = func() time.Time { return time.Unix(1700000000, 0).UTC() }
	return g
}

func wayforpayCallbackFields() map[string]string {
	return map[string]string{
		"orderReference":    "DLL_42_1700000000",
		"amount":            "299.00",
		"currency":          "UAH",
		"authCode":          "541963",
		"cardPan":           "444455XXXXXX1111",
		"transactionStatus": "Approved",
		"reasonCode":        "1100",
	}
}

func signWayForPayCallback(g *WayForPayGateway, fields map[string]string) string {
	return SignHMACMD5(g.cfg.SecretKey, []string{
		g.cfg.MerchantAccount,
		fields["orderReference"],
		fields["amount"],
		fields["currency"],
		fields["authCode"],
		fields["cardPan"],
		fields["transactionStatus"],
		fields["reasonCode"],
	})
}

func TestWayForPay_CreatePayment(t *testing.T) {
	g := testWayForPay()

	resp, err := g.CreatePayment(context.Background(), paymentgateway.CreatePaymentRequest{
		OrderID:       42,
		Amount:        29900,
		Currency:      "UAH",
		CustomerEmail: "student@example.com",
		CustomerName:  "Olena",
		Description:   "Monthly subscription",
		ReturnURL:     "https://dll.example.com/payments/return",
		CallbackURL:   "https://dll.example.com/payments/callback/wayforpay",
		Language:      "uk",
	})

	require.NoError(t, err)
	require.True(t, resp.Success)
	assert.Equal(t, "https://secure.wayforpay.com/pay", resp.PaymentURL)
	assert.Equal(t, "DLL_42_1700000000", resp.GatewayReference)

	form := resp.FormFields
	assert.Equal(t, "merchant_acc", form["merchantAccount"])
	assert.Equal(t, "dll.example.com", form["merchantDomainName"])
	assert.Equal(t, "DLL_42_1700000000", form["orderReference"])
	assert.Equal(t, "1700000000", form["orderDate"])
	assert.Equal(t, "299.00", form["amount"])
	assert.Equal(t, "UAH", form["currency"])
	assert.Equal(t, "Monthly subscription", form["productName[]"])
	assert.Equal(t, "1", form["productCount[]"])
	assert.Equal(t, "299.00", form["productPrice[]"])
	assert.Equal(t, "student@example.com", form["clientEmail"])
	assert.Equal(t, "Olena", form["clientFirstName"])
	assert.Equal(t, "ua", form["language"])
	assert.Equal(t, "https://dll.example.com/payments/return", form["returnUrl"])
	assert.Equal(t, "https://dll.example.com/payments/callback/wayforpay", form["serviceUrl"])

	wantSig := SignHMACMD5("test_secret", []string{
		"merchant_acc", "dll.example.com", "DLL_42_1700000000", "1700000000",
		"299.00", "UAH", "Monthly subscription", "1", "299.00",
	})
	assert.Equal(t, wantSig, form["merchantSignature"])
}

func TestWayForPay_CreatePayment_MissingEmail(t *testing.T) {
	g := testWayForPay()

	resp, err := g.CreatePayment(context.Background(), paymentgateway.CreatePaymentRequest{
		OrderID:  42,
		Amount:   29900,
		Currency: "UAH",
	})

	require.NoError(t, err, "a rejected request is a structured failure, not an error")
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.ErrorMessage)
}

func TestWayForPay_LanguageMapping(t *testing.T) {
	cases := map[string]string{
		"uk": "ua", "ua": "ua", "UK": "ua",
		"en": "en",
		"de": "ru", "ru": "ru",
		"":   "ua",
		"fr": "ua",
	}
	for in, want := range cases {
		assert.Equal(t, want, wayforpayLanguage(in), "language %q", in)
	}
}

func TestWayForPay_VerifyCallback_Valid(t *testing.T) {
	g := testWayForPay()
	fields := wayforpayCallbackFields()
	sig := signWayForPayCallback(g, fields)

	data, err := g.VerifyCallback(fields, sig)

	require.NoError(t, err)
	assert.Equal(t, uint(42), data.OrderID)
	assert.Equal(t, "DLL_42_1700000000", data.OrderReference)
	assert.Equal(t, "541963", data.TransactionID)
	assert.Equal(t, int64(29900), data.Amount)
	assert.Equal(t, "UAH", data.Currency)
	assert.Equal(t, paymentgateway.StatusSuccess, data.Status)
	assert.Equal(t, "1100", data.ReasonCode)
}

func TestWayForPay_VerifyCallback_UppercaseHexAccepted(t *testing.T) {
	g := testWayForPay()
	fields := wayforpayCallbackFields()
	sig := signWayForPayCallback(g, fields)

	_, err := g.VerifyCallback(fields, strings.ToUpper(sig))
	assert.NoError(t, err)
}

func TestWayForPay_VerifyCallback_TamperedFieldRejected(t *testing.T) {
	g := testWayForPay()
	fields := wayforpayCallbackFields()
	sig := signWayForPayCallback(g, fields)

	fields["amount"] = "1.00"

	data, err := g.VerifyCallback(fields, sig)
	assert.Nil(t, data)
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidSignatureError(err))
}

func TestWayForPay_VerifyCallback_SignatureFromFields(t *testing.T) {
	g := testWayForPay()
	fields := wayforpayCallbackFields()
	fields["merchantSignature"] = signWayForPayCallback(g, fields)

	_, err := g.VerifyCallback(fields, "")
	assert.NoError(t, err)
}

func TestWayForPay_StatusMapping(t *testing.T) {
	cases := map[string]paymentgateway.PaymentStatus{
		"Approved":     paymentgateway.StatusSuccess,
		"approved":     paymentgateway.StatusSuccess,
		"Declined":     paymentgateway.StatusFailed,
		"Expired":      paymentgateway.StatusFailed,
		"Refunded":     paymentgateway.StatusRefunded,
		"Pending":      paymentgateway.StatusPending,
		"InProcessing": paymentgateway.StatusPending,
	}
	for in, want := range cases {
		assert.Equal(t, want, wayforpayStatus(in), "status %q", in)
	}
}

func TestWayForPay_VerifyCallback_FailedStatus(t *testing.T) {
	g := testWayForPay()
	fields := wayforpayCallbackFields()
	fields["transactionStatus"] = "Declined"
	fields["reasonCode"] = "1105"
	sig := signWayForPayCallback(g, fields)

	data, err := g.VerifyCallback(fields, sig)
	require.NoError(t, err)
	assert.Equal(t, paymentgateway.StatusFailed, data.Status)
	assert.Equal(t, "1105", data.ReasonCode)
}
