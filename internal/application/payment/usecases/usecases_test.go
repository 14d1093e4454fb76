package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderUsecases "github.com/dll-community/billing/internal/application/order/usecases"
	"github.com/dll-community/billing/internal/application/payment/paymentgateway"
	subscriptionUsecases "github.com/dll-community/billing/internal/application/subscription/usecases"
	"github.com/dll-community/billing/internal/domain/order"
	ordervo "github.com/dll-community/billing/internal/domain/order/valueobjects"
	"github.com/dll-community/billing/internal/domain/subscription"
	"github.com/dll-community/billing/internal/infrastructure/gateway"
	"github.com/dll-community/billing/internal/shared/config"
	apperrors "github.com/dll-community/billing/internal/shared/errors"
	"github.com/dll-community/billing/internal/shared/logger"
)

// --- fakes ---

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeOrderRepo struct {
	orders map[uint]*order.Order
	nextID uint
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uint]*order.Order), nextID: 1}
}

func (r *fakeOrderRepo) Create(ctx context.Context, o *order.Order) error {
	if err := o.SetID(r.nextID); err != nil {
		return err
	}
	r.orders[r.nextID] = o
	r.nextID++
	return nil
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, orderID uint) (*order.Order, error) {
	o, ok := r.orders[orderID]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	return o, nil
}

func (r *fakeOrderRepo) GetByIDForUpdate(ctx context.Context, orderID uint) (*order.Order, error) {
	return r.GetByID(ctx, orderID)
}

func (r *fakeOrderRepo) GetByReference(ctx context.Context, reference string) (*order.Order, error) {
	for _, o := range r.orders {
		if o.Reference() == reference {
			return o, nil
		}
	}
	return nil, order.ErrOrderNotFound
}

func (r *fakeOrderRepo) Update(ctx context.Context, o *order.Order) error {
	r.orders[o.ID()] = o
	return nil
}

func (r *fakeOrderRepo) ListByUserID(ctx context.Context, userID uint) ([]*order.Order, error) {
	return nil, nil
}

type fakePlanRepo struct {
	plans map[uint]*subscription.Plan
}

func (r *fakePlanRepo) Create(ctx context.Context, plan *subscription.Plan) error { return nil }
func (r *fakePlanRepo) Update(ctx context.Context, plan *subscription.Plan) error { return nil }

func (r *fakePlanRepo) GetByID(ctx context.Context, id uint) (*subscription.Plan, error) {
	plan, ok := r.plans[id]
	if !ok {
		return nil, subscription.ErrPlanNotFound
	}
	return plan, nil
}

func (r *fakePlanRepo) GetByKey(ctx context.Context, key string) (*subscription.Plan, error) {
	return nil, subscription.ErrPlanNotFound
}

func (r *fakePlanRepo) ListActive(ctx context.Context) ([]*subscription.Plan, error) {
	return nil, nil
}

type fakeSubscriptionRepo struct {
	subs   map[uint]*subscription.Subscription
	nextID uint
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{subs: make(map[uint]*subscription.Subscription), nextID: 1}
}

func (r *fakeSubscriptionRepo) Create(ctx context.Context, sub *subscription.Subscription) error {
	if err := sub.SetID(r.nextID); err != nil {
		return err
	}
	r.subs[r.nextID] = sub
	r.nextID++
	return nil
}

func (r *fakeSubscriptionRepo) GetByID(ctx context.Context, id uint) (*subscription.Subscription, error) {
	sub, ok := r.subs[id]
	if !ok {
		return nil, subscription.ErrSubscriptionNotFound
	}
	return sub, nil
}

func (r *fakeSubscriptionRepo) GetActiveByUserID(ctx context.Context, userID uint, now time.Time) (*subscription.Subscription, error) {
	for _, sub := range r.subs {
		if sub.UserID() == userID && sub.IsActive(now) {
			return sub, nil
		}
	}
	return nil, subscription.ErrSubscriptionNotFound
}

func (r *fakeSubscriptionRepo) Update(ctx context.Context, sub *subscription.Subscription) error {
	r.subs[sub.ID()] = sub
	return nil
}

func (r *fakeSubscriptionRepo) ListByUserID(ctx context.Context, userID uint) ([]*subscription.Subscription, error) {
	return nil, nil
}

func (r *fakeSubscriptionRepo) FindExpired(ctx context.Context, now time.Time, gracePeriodDays int) ([]*subscription.Subscription, error) {
	return nil, nil
}

func (r *fakeSubscriptionRepo) FindExpiringBetween(ctx context.Context, from, to time.Time) ([]*subscription.Subscription, error) {
	return nil, nil
}

type staticEmailResolver struct{}

func (staticEmailResolver) ResolveEmail(ctx context.Context, userID uint) (string, string, error) {
	return "student@example.com", "Olena", nil
}

// --- setup ---

const wayforpaySecret = "test_secret"

type testEnv struct {
	orderRepo *fakeOrderRepo
	subRepo   *fakeSubscriptionRepo
	registry  *paymentgateway.Registry
	wfp       *gateway.WayForPayGateway
	createPay *CreatePaymentUseCase
	callback  *HandleCallbackUseCase
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := logger.NewLogger()

	plan, err := subscription.ReconstructPlan(
		100, "monthly", 30, true, 1,
		[]subscription.PlanTranslation{{Language: "uk", Name: "Місячний"}},
		[]subscription.PlanPrice{{Currency: "UAH", AmountMinor: 29900}},
		time.Now().UTC(), time.Now().UTC(),
	)
	require.NoError(t, err)

	orderRepo := newFakeOrderRepo()
	planRepo := &fakePlanRepo{plans: map[uint]*subscription.Plan{100: plan}}
	subRepo := newFakeSubscriptionRepo()

	wfp := gateway.NewWayForPayGateway(config.WayForPayConfig{
		MerchantAccount: "merchant_acc",
		MerchantDomain:  "dll.example.com",
		SecretKey:       wayforpaySecret,
		APIURL:          "https://secure.wayforpay.com/pay",
	}, log)

	registry := paymentgateway.NewRegistry()
	registry.Register(wfp)

	createOrExtend := subscriptionUsecases.NewCreateOrExtendSubscriptionUseCase(subRepo, log)
	completeOrder := orderUsecases.NewCompleteOrderUseCase(orderRepo, planRepo, createOrExtend, passthroughTx{}, log)

	return &testEnv{
		orderRepo: orderRepo,
		subRepo:   subRepo,
		registry:  registry,
		wfp:       wfp,
		createPay: NewCreatePaymentUseCase(orderRepo, planRepo, registry, staticEmailResolver{},
			gateway.WayForPayName, "https://dll.example.com", log),
		callback: NewHandleCallbackUseCase(registry, orderRepo, completeOrder, log),
	}
}

func (env *testEnv) newOrder(t *testing.T, userID uint) *order.Order {
	t.Helper()
	item, err := order.NewPlanItem(100, ordervo.NewMoney(29900, ordervo.CurrencyUAH))
	require.NoError(t, err)
	o, err := order.NewOrder(userID, ordervo.TypeSubscriptionPurchase, []order.OrderItem{item})
	require.NoError(t, err)
	require.NoError(t, env.orderRepo.Create(context.Background(), o))
	return o
}

func signedCallback(orderID uint, status string) (map[string]string, string) {
	fields := map[string]string{
		"orderReference":    "DLL_1_1700000000",
		"amount":            "299.00",
		"currency":          "UAH",
		"authCode":          "541963",
		"cardPan":           "444455XXXXXX1111",
		"transactionStatus": status,
		"reasonCode":        "1100",
	}
	if orderID != 1 {
		fields["orderReference"] = "DLL_2_1700000000"
	}
	sig := gateway.SignHMACMD5(wayforpaySecret, []string{
		"merchant_acc",
		fields["orderReference"],
		fields["amount"],
		fields["currency"],
		fields["authCode"],
		fields["cardPan"],
		fields["transactionStatus"],
		fields["reasonCode"],
	})
	return fields, sig
}

// --- tests ---

func TestCreatePayment(t *testing.T) {
	env := newTestEnv(t)
	o := env.newOrder(t, 10)

	resp, err := env.createPay.Execute(context.Background(), o.ID(), 10, "", "uk")

	require.NoError(t, err)
	require.True(t, resp.Success)
	assert.Equal(t, "https://secure.wayforpay.com/pay", resp.PaymentURL)
	assert.Equal(t, "299.00", resp.FormFields["amount"])
	assert.Equal(t, "student@example.com", resp.FormFields["clientEmail"])
	assert.Equal(t, "Місячний", resp.FormFields["productName[]"], "checkout shows the localized plan name")
	assert.Equal(t, "https://dll.example.com/api/v1/payments/return/wayforpay", resp.FormFields["returnUrl"])
	assert.Equal(t, "https://dll.example.com/api/v1/payments/callback/wayforpay", resp.FormFields["serviceUrl"])
	assert.Equal(t, ordervo.StatusProcessing, o.Status())
}

func TestCreatePayment_UnknownProvider(t *testing.T) {
	env := newTestEnv(t)
	o := env.newOrder(t, 10)

	_, err := env.createPay.Execute(context.Background(), o.ID(), 10, "liqpay", "uk")
	assert.True(t, apperrors.IsUnsupportedProviderError(err))
}

func TestCreatePayment_WrongOwner(t *testing.T) {
	env := newTestEnv(t)
	o := env.newOrder(t, 10)

	_, err := env.createPay.Execute(context.Background(), o.ID(), 99, "", "uk")
	assert.True(t, apperrors.IsNotFoundError(err))
}

func TestCreatePayment_TerminalOrderRejected(t *testing.T) {
	env := newTestEnv(t)
	o := env.newOrder(t, 10)
	require.NoError(t, o.Cancel())

	_, err := env.createPay.Execute(context.Background(), o.ID(), 10, "", "uk")
	require.Error(t, err)
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrorTypeConflict, appErr.Type)
}

func TestHandleCallback_ApprovedCompletesOrder(t *testing.T) {
	env := newTestEnv(t)
	o := env.newOrder(t, 10)
	fields, sig := signedCallback(o.ID(), "Approved")

	data, err := env.callback.Execute(context.Background(), "wayforpay", fields, sig)

	require.NoError(t, err)
	assert.Equal(t, paymentgateway.StatusSuccess, data.Status)
	assert.Equal(t, ordervo.StatusCompleted, o.Status())
	assert.Len(t, env.subRepo.subs, 1)
}

func TestHandleCallback_DuplicateDeliveryIsNoOp(t *testing.T) {
	env := newTestEnv(t)
	o := env.newOrder(t, 10)
	fields, sig := signedCallback(o.ID(), "Approved")

	_, err := env.callback.Execute(context.Background(), "wayforpay", fields, sig)
	require.NoError(t, err)
	_, err = env.callback.Execute(context.Background(), "wayforpay", fields, sig)
	require.NoError(t, err)

	assert.Equal(t, ordervo.StatusCompleted, o.Status())
	assert.Len(t, env.subRepo.subs, 1, "redelivered webhook must not create another subscription")
}

func TestHandleCallback_InvalidSignatureChangesNothing(t *testing.T) {
	env := newTestEnv(t)
	o := env.newOrder(t, 10)
	fields, sig := signedCallback(o.ID(), "Approved")
	fields["amount"] = "1.00"

	data, err := env.callback.Execute(context.Background(), "wayforpay", fields, sig)

	assert.Nil(t, data)
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidSignatureError(err))
	assert.Equal(t, ordervo.StatusPending, o.Status())
	assert.Len(t, env.subRepo.subs, 0)
}

func TestHandleCallback_DeclinedMarksFailed(t *testing.T) {
	env := newTestEnv(t)
	o := env.newOrder(t, 10)
	fields, sig := signedCallback(o.ID(), "Declined")

	data, err := env.callback.Execute(context.Background(), "wayforpay", fields, sig)

	require.NoError(t, err)
	assert.Equal(t, paymentgateway.StatusFailed, data.Status)
	assert.Equal(t, ordervo.StatusFailed, o.Status())
	assert.Len(t, env.subRepo.subs, 0)
}

func TestHandleCallback_RefundedMarksRefunded(t *testing.T) {
	env := newTestEnv(t)
	o := env.newOrder(t, 10)

	fields, sig := signedCallback(o.ID(), "Approved")
	_, err := env.callback.Execute(context.Background(), "wayforpay", fields, sig)
	require.NoError(t, err)

	fields, sig = signedCallback(o.ID(), "Refunded")
	data, err := env.callback.Execute(context.Background(), "wayforpay", fields, sig)

	require.NoError(t, err)
	assert.Equal(t, paymentgateway.StatusRefunded, data.Status)
	assert.Equal(t, ordervo.StatusRefunded, o.Status())
}

func TestHandleCallback_DeclinedForTerminalOrderIsAccepted(t *testing.T) {
	env := newTestEnv(t)
	o := env.newOrder(t, 10)
	require.NoError(t, o.Cancel())
	fields, sig := signedCallback(o.ID(), "Declined")

	data, err := env.callback.Execute(context.Background(), "wayforpay", fields, sig)

	require.NoError(t, err, "a late decline for a terminal order must be acknowledged, not retried")
	assert.Equal(t, paymentgateway.StatusFailed, data.Status)
	assert.Equal(t, ordervo.StatusCancelled, o.Status(), "terminal state is kept")
}

func TestHandleCallback_UnknownProvider(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.callback.Execute(context.Background(), "liqpay", map[string]string{}, "")
	assert.True(t, apperrors.IsUnsupportedProviderError(err))
}
