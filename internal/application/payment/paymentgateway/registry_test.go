package paymentgateway

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/dll-community/billing/internal/shared/errors"
)

type stubGateway struct {
	name string
}

func (g *stubGateway) Name() string { return g.name }

func (g *stubGateway) CreatePayment(ctx context.Context, req CreatePaymentRequest) (*CreatePaymentResponse, error) {
	return &CreatePaymentResponse{Success: true}, nil
}

func (g *stubGateway) VerifyCallback(fields map[string]string, signature string) (*CallbackData, error) {
	return &CallbackData{Status: StatusSuccess}, nil
}

func TestRegistry_GetRegistered(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&stubGateway{name: "wayforpay"})
	reg.Register(&stubGateway{name: "fondy"})

	gw, err := reg.Get("wayforpay")
	require.NoError(t, err)
	assert.Equal(t, "wayforpay", gw.Name())

	assert.True(t, reg.Has("fondy"))
	assert.Equal(t, []string{"fondy", "wayforpay"}, reg.Names())
}

func TestRegistry_UnknownProvider(t *testing.T) {
	reg := NewRegistry()

	gw, err := reg.Get("liqpay")

	assert.Nil(t, gw)
	require.Error(t, err)
	assert.True(t, apperrors.IsUnsupportedProviderError(err))
	assert.False(t, reg.Has("liqpay"))
}
