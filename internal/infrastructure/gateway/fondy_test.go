package gateway

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dll-community/billing/internal/application/payment/paymentgateway"
	"github.com/dll-community/billing/internal/shared/config"
	apperrors "github.com/dll-community/billing/internal/shared/errors"
	"github.com/dll-community/billing/internal/shared/logger"
)

func testFondy() *FondyGateway {
	return NewFondyGateway(config.FondyConfig{
		MerchantID: "1396424",
		SecretKey:  "test",
		APIURL:     "https://pay.fondy.eu/api/checkout/url/",
	}, logger.NewLogger())
}

func fondyCallbackFields() map[string]string {
	return map[string]string{
		"merchant_id":  "1396424",
		"order_id":     "ORDER_42",
		"amount":       "29900",
		"currency":     "UAH",
		"order_status": "approved",
		"payment_id":   "805243",
	}
}

func signFondyCallback(g *FondyGateway, fields map[string]string) string {
	return SignSHA1(g.cfg.SecretKey, fondySignatureValues(fields))
}

func TestFondy_CreatePayment(t *testing.T) {
	g := testFondy()

	resp, err := g.CreatePayment(context.Background(), paymentgateway.CreatePaymentRequest{
		OrderID:       42,
		Amount:        29900,
		Currency:      "UAH",
		CustomerEmail: "student@example.com",
		Description:   "Monthly subscription",
		ReturnURL:     "https://dll.example.com/payments/return",
		CallbackURL:   "https://dll.example.com/payments/callback/fondy",
		Language:      "uk",
	})

	require.NoError(t, err)
	require.True(t, resp.Success)
	assert.Equal(t, "https://pay.fondy.eu/api/checkout/url/", resp.PaymentURL)
	assert.Equal(t, "ORDER_42", resp.GatewayReference)

	form := resp.FormFields
	assert.Equal(t, "1396424", form["merchant_id"])
	assert.Equal(t, "ORDER_42", form["order_id"])
	assert.Equal(t, "29900", form["amount"], "amount stays in minor units")
	assert.Equal(t, "UAH", form["currency"])
	assert.Equal(t, "student@example.com", form["sender_email"])
	assert.Equal(t, "uk", form["lang"])
	assert.Equal(t, "https://dll.example.com/payments/return", form["response_url"])
	assert.Equal(t, "https://dll.example.com/payments/callback/fondy", form["server_callback_url"])

	// pinned vector for SHA-1(secret|merchant_id|order_id|amount|currency)
	assert.Equal(t, "35ac5a00fef5fe57409a54afec3d510fbf35aeac", form["signature"])
}

func TestFondy_VerifyCallback_Valid(t *testing.T) {
	g := testFondy()
	fields := fondyCallbackFields()
	sig := signFondyCallback(g, fields)

	// pinned vector over the alphabetically ordered values
	assert.Equal(t, "19b2181ede68e0418e62730c3eef5f578d152ea6", sig)

	data, err := g.VerifyCallback(fields, sig)

	require.NoError(t, err)
	assert.Equal(t, uint(42), data.OrderID)
	assert.Equal(t, "ORDER_42", data.OrderReference)
	assert.Equal(t, "805243", data.TransactionID)
	assert.Equal(t, int64(29900), data.Amount)
	assert.Equal(t, "UAH", data.Currency)
	assert.Equal(t, paymentgateway.StatusSuccess, data.Status)
}

func TestFondy_VerifyCallback_TamperedFieldRejected(t *testing.T) {
	g := testFondy()
	fields := fondyCallbackFields()
	sig := signFondyCallback(g, fields)

	fields["amount"] = "100"

	data, err := g.VerifyCallback(fields, sig)
	assert.Nil(t, data)
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidSignatureError(err))
}

func TestFondy_VerifyCallback_EmptyValuesExcludedFromSignature(t *testing.T) {
	g := testFondy()
	fields := fondyCallbackFields()
	sig := signFondyCallback(g, fields)

	// an empty parameter must not change the signature base
	fields["sender_email"] = ""

	_, err := g.VerifyCallback(fields, sig)
	assert.NoError(t, err)
}

func TestFondy_VerifyCallback_SignatureFromFields(t *testing.T) {
	g := testFondy()
	fields := fondyCallbackFields()
	fields["signature"] = signFondyCallback(g, fondyCallbackFields())

	_, err := g.VerifyCallback(fields, "")
	assert.NoError(t, err)
}

func TestFondy_StatusMapping(t *testing.T) {
	cases := map[string]paymentgateway.PaymentStatus{
		"approved":   paymentgateway.StatusSuccess,
		"declined":   paymentgateway.StatusFailed,
		"expired":    paymentgateway.StatusFailed,
		"reversed":   paymentgateway.StatusRefunded,
		"processing": paymentgateway.StatusPending,
		"created":    paymentgateway.StatusPending,
	}
	for in, want := range cases {
		assert.Equal(t, want, fondyStatus(in), "status %q", in)
	}
}
