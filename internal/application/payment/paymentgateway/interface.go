package paymentgateway

import (
	"context"
)

// PaymentStatus is the provider-independent outcome of a payment,
// decoded from each gateway's own status vocabulary.
type PaymentStatus string

const (
	StatusSuccess  PaymentStatus = "success"
	StatusFailed   PaymentStatus = "failed"
	StatusRefunded PaymentStatus = "refunded"
	StatusPending  PaymentStatus = "pending"
)

// PaymentGateway is implemented once per provider. Implementations
// translate between the engine's normalized request/callback shapes
// and the provider's wire format, including signing.
type PaymentGateway interface {
	// Name is the registry key, e.g. "wayforpay".
	Name() string

	// CreatePayment builds the payment dispatch for an order. It never
	// returns an error for a gateway-side rejection; those come back as
	// a CreatePaymentResponse with Success=false.
	CreatePayment(ctx context.Context, req CreatePaymentRequest) (*CreatePaymentResponse, error)

	// VerifyCallback recomputes the provider signature over the callback
	// fields and compares it to the supplied one. On mismatch it returns
	// ErrInvalidSignature and the caller must take no state-changing
	// action. The returned CallbackData.Amount is in the smallest
	// currency unit.
	VerifyCallback(fields map[string]string, signature string) (*CallbackData, error)
}

// CreatePaymentRequest contains the data needed to create a payment.
type CreatePaymentRequest struct {
	OrderID       uint
	Amount        int64 // smallest currency unit
	Currency      string
	CustomerEmail string
	CustomerName  string
	Description   string
	ReturnURL     string
	CallbackURL   string
	Language      string
}

// CreatePaymentResponse is either a redirect target or, for gateways
// that require a signed form POST, a form-field map the caller must
// submit to PaymentURL.
type CreatePaymentResponse struct {
	Success          bool
	PaymentURL       string
	GatewayReference string
	FormFields       map[string]string
	ErrorMessage     string
}

// CallbackData is the parsed, signature-verified payment callback.
// OrderID is the local order identity the adapter decoded from its own
// reference format.
type CallbackData struct {
	OrderID        uint
	OrderReference string
	TransactionID  string
	Amount         int64 // smallest currency unit
	Currency       string
	Status         PaymentStatus
	ReasonCode     string
	RawData        map[string]string
}
