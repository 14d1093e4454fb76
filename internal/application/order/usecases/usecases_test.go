package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	subscriptionUsecases "github.com/dll-community/billing/internal/application/subscription/usecases"
	"github.com/dll-community/billing/internal/domain/order"
	ordervo "github.com/dll-community/billing/internal/domain/order/valueobjects"
	"github.com/dll-community/billing/internal/domain/subscription"
	subvo "github.com/dll-community/billing/internal/domain/subscription/valueobjects"
	apperrors "github.com/dll-community/billing/internal/shared/errors"
	"github.com/dll-community/billing/internal/shared/logger"
)

// --- fakes ---

type fakeTxManager struct {
	calls int
}

func (m *fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
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
	var out []*order.Order
	for _, o := range r.orders {
		if o.UserID() == userID {
			out = append(out, o)
		}
	}
	return out, nil
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
	for _, plan := range r.plans {
		if plan.Key() == key {
			return plan, nil
		}
	}
	return nil, subscription.ErrPlanNotFound
}

func (r *fakePlanRepo) ListActive(ctx context.Context) ([]*subscription.Plan, error) {
	var out []*subscription.Plan
	for _, plan := range r.plans {
		if plan.IsActive() {
			out = append(out, plan)
		}
	}
	return out, nil
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

// --- helpers ---

func monthlyPlan(t *testing.T) *subscription.Plan {
	t.Helper()
	plan, err := subscription.ReconstructPlan(
		100, "monthly", 30, true, 1,
		[]subscription.PlanTranslation{{Language: "uk", Name: "Місячний"}},
		[]subscription.PlanPrice{{Currency: "UAH", AmountMinor: 29900}},
		time.Now().UTC(), time.Now().UTC(),
	)
	require.NoError(t, err)
	return plan
}

type testEnv struct {
	orderRepo *fakeOrderRepo
	planRepo  *fakePlanRepo
	subRepo   *fakeSubscriptionRepo
	txMgr     *fakeTxManager
	createUC  *CreateSubscriptionOrderUseCase
	complete  *CompleteOrderUseCase
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := logger.NewLogger()
	orderRepo := newFakeOrderRepo()
	planRepo := &fakePlanRepo{plans: map[uint]*subscription.Plan{100: monthlyPlan(t)}}
	subRepo := newFakeSubscriptionRepo()
	txMgr := &fakeTxManager{}
	createOrExtend := subscriptionUsecases.NewCreateOrExtendSubscriptionUseCase(subRepo, log)
	return &testEnv{
		orderRepo: orderRepo,
		planRepo:  planRepo,
		subRepo:   subRepo,
		txMgr:     txMgr,
		createUC:  NewCreateSubscriptionOrderUseCase(orderRepo, planRepo, log),
		complete:  NewCompleteOrderUseCase(orderRepo, planRepo, createOrExtend, txMgr, log),
	}
}

// --- tests ---

func TestCreateSubscriptionOrder(t *testing.T) {
	env := newTestEnv(t)

	o, err := env.createUC.Execute(context.Background(), 10, 100, "UAH")

	require.NoError(t, err)
	assert.Equal(t, ordervo.StatusPending, o.Status())
	assert.Equal(t, int64(29900), o.Total().AmountMinor())
	assert.Equal(t, "UAH", o.Currency().String())
	require.NotNil(t, o.PlanItem())
	assert.Equal(t, uint(100), *o.PlanItem().PlanID())
	assert.NotZero(t, o.ID())
	assert.Len(t, env.subRepo.subs, 0, "order creation must not touch subscriptions")
}

func TestCreateSubscriptionOrder_PriceNotFound(t *testing.T) {
	env := newTestEnv(t)

	o, err := env.createUC.Execute(context.Background(), 10, 100, "EUR")

	assert.Nil(t, o)
	require.Error(t, err)
	assert.True(t, apperrors.IsPriceNotFoundError(err))
}

func TestCreateSubscriptionOrder_UnknownPlan(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.createUC.Execute(context.Background(), 10, 999, "UAH")
	assert.True(t, apperrors.IsNotFoundError(err))
}

func TestCreateSubscriptionOrder_InvalidCurrency(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.createUC.Execute(context.Background(), 10, 100, "BTC")
	assert.True(t, apperrors.IsValidationError(err))
}

func TestCreateSubscriptionOrder_InactivePlan(t *testing.T) {
	env := newTestEnv(t)
	env.planRepo.plans[100].Deactivate()

	_, err := env.createUC.Execute(context.Background(), 10, 100, "UAH")
	assert.True(t, apperrors.IsValidationError(err))
}

func TestCompleteOrder_CreatesSubscription(t *testing.T) {
	env := newTestEnv(t)
	o, err := env.createUC.Execute(context.Background(), 10, 100, "UAH")
	require.NoError(t, err)

	require.NoError(t, env.complete.Execute(context.Background(), o.ID(), "wayforpay", "541963"))

	assert.Equal(t, ordervo.StatusCompleted, o.Status())
	require.NotNil(t, o.PaymentGateway())
	assert.Equal(t, "wayforpay", *o.PaymentGateway())
	require.NotNil(t, o.CompletedAt())
	assert.Equal(t, 1, env.txMgr.calls)

	require.Len(t, env.subRepo.subs, 1)
	sub := env.subRepo.subs[1]
	assert.Equal(t, uint(10), sub.UserID())
	assert.Equal(t, uint(100), sub.PlanID())
	assert.Equal(t, subvo.StatusActive, sub.Status())
	require.NotNil(t, sub.OrderID())
	assert.Equal(t, o.ID(), *sub.OrderID())
	assert.WithinDuration(t, time.Now().UTC().AddDate(0, 0, 30), sub.EndDate(), time.Minute)
}

func TestCompleteOrder_SecondCallIsNoOp(t *testing.T) {
	env := newTestEnv(t)
	o, err := env.createUC.Execute(context.Background(), 10, 100, "UAH")
	require.NoError(t, err)

	require.NoError(t, env.complete.Execute(context.Background(), o.ID(), "wayforpay", "541963"))
	require.NoError(t, env.complete.Execute(context.Background(), o.ID(), "fondy", "805243"))

	assert.Len(t, env.subRepo.subs, 1, "duplicate webhook must not create a second subscription")
	sub := env.subRepo.subs[1]
	assert.WithinDuration(t, time.Now().UTC().AddDate(0, 0, 30), sub.EndDate(), time.Minute,
		"duplicate webhook must not extend the subscription either")
	assert.Equal(t, "wayforpay", *o.PaymentGateway(), "first completion wins")
}

func TestCompleteOrder_ExtendsExistingSubscription(t *testing.T) {
	env := newTestEnv(t)

	first, err := env.createUC.Execute(context.Background(), 10, 100, "UAH")
	require.NoError(t, err)
	require.NoError(t, env.complete.Execute(context.Background(), first.ID(), "wayforpay", "a"))

	second, err := env.createUC.Execute(context.Background(), 10, 100, "UAH")
	require.NoError(t, err)
	require.NoError(t, env.complete.Execute(context.Background(), second.ID(), "wayforpay", "b"))

	require.Len(t, env.subRepo.subs, 1, "a repeat purchase extends the same row")
	sub := env.subRepo.subs[1]
	assert.WithinDuration(t, time.Now().UTC().AddDate(0, 0, 60), sub.EndDate(), time.Minute)
}

func TestCompleteOrder_CancelledOrderRejected(t *testing.T) {
	env := newTestEnv(t)
	o, err := env.createUC.Execute(context.Background(), 10, 100, "UAH")
	require.NoError(t, err)
	require.NoError(t, o.Cancel())

	err = env.complete.Execute(context.Background(), o.ID(), "wayforpay", "x")

	require.Error(t, err)
	assert.ErrorIs(t, err, order.ErrInvalidStatusTransition)
	assert.Len(t, env.subRepo.subs, 0)
}

func TestCompleteOrder_UnknownOrder(t *testing.T) {
	env := newTestEnv(t)
	err := env.complete.Execute(context.Background(), 999, "wayforpay", "x")
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
}

func TestCancelOrder(t *testing.T) {
	env := newTestEnv(t)
	log := logger.NewLogger()
	cancelUC := NewCancelOrderUseCase(env.orderRepo, log)

	o, err := env.createUC.Execute(context.Background(), 10, 100, "UAH")
	require.NoError(t, err)

	// wrong owner
	err = cancelUC.Execute(context.Background(), o.ID(), 99)
	assert.True(t, apperrors.IsNotFoundError(err))
	assert.Equal(t, ordervo.StatusPending, o.Status())

	require.NoError(t, cancelUC.Execute(context.Background(), o.ID(), 10))
	assert.Equal(t, ordervo.StatusCancelled, o.Status())
}

func TestCancelOrder_CompletedOrderRejected(t *testing.T) {
	env := newTestEnv(t)
	cancelUC := NewCancelOrderUseCase(env.orderRepo, logger.NewLogger())

	o, err := env.createUC.Execute(context.Background(), 10, 100, "UAH")
	require.NoError(t, err)
	require.NoError(t, env.complete.Execute(context.Background(), o.ID(), "wayforpay", "x"))

	err = cancelUC.Execute(context.Background(), o.ID(), 10)
	require.Error(t, err)
	assert.Equal(t, ordervo.StatusCompleted, o.Status())
}
