package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/dll-community/billing/internal/domain/order/valueobjects"
)

// --- helpers ---

func newPlanItem(t *testing.T, planID uint, amount int64, currency vo.Currency) OrderItem {
	t.Helper()
	item, err := NewPlanItem(planID, vo.NewMoney(amount, currency))
	require.NoError(t, err)
	return item
}

func newSubscriptionOrder(t *testing.T) *Order {
	t.Helper()
	item := newPlanItem(t, 100, 29900, vo.CurrencyUAH)
	o, err := NewOrder(1, vo.TypeSubscriptionPurchase, []OrderItem{item})
	require.NoError(t, err)
	require.NotNil(t, o)
	return o
}

func reconstructOrder(t *testing.T, status vo.OrderStatus) *Order {
	t.Helper()
	item := ReconstructOrderItem(1, nil, uintPtr(100), vo.NewMoney(29900, vo.CurrencyUAH))
	now := time.Now().UTC()
	o, err := ReconstructOrder(
		1, "ord_test12345678", 10,
		status, vo.TypeSubscriptionPurchase,
		vo.NewMoney(29900, vo.CurrencyUAH),
		nil, nil,
		[]OrderItem{item},
		now, nil, now,
	)
	require.NoError(t, err)
	return o
}

func uintPtr(v uint) *uint { return &v }

func TestNewOrder_ValidSubscriptionPurchase(t *testing.T) {
	o := newSubscriptionOrder(t)

	assert.Equal(t, vo.StatusPending, o.Status())
	assert.Equal(t, vo.TypeSubscriptionPurchase, o.OrderType())
	assert.Equal(t, int64(29900), o.Total().AmountMinor())
	assert.Equal(t, vo.CurrencyUAH, o.Currency())
	assert.NotEmpty(t, o.Reference())
	assert.True(t, o.Reference()[:4] == "ord_")
	assert.Len(t, o.Items(), 1)
	assert.Nil(t, o.CompletedAt())
	assert.Nil(t, o.PaymentGateway())

	planItem := o.PlanItem()
	require.NotNil(t, planItem)
	assert.Equal(t, uint(100), *planItem.PlanID())
}

func TestNewOrder_TotalEqualsSumOfItems(t *testing.T) {
	lesson1, err := NewLessonItem(1, vo.NewMoney(5000, vo.CurrencyUSD))
	require.NoError(t, err)
	lesson2, err := NewLessonItem(2, vo.NewMoney(7500, vo.CurrencyUSD))
	require.NoError(t, err)

	o, err := NewOrder(1, vo.TypeLessonPurchase, []OrderItem{lesson1, lesson2})

	require.NoError(t, err)
	assert.Equal(t, int64(12500), o.Total().AmountMinor())
	assert.Equal(t, vo.CurrencyUSD, o.Currency())
}

func TestNewOrder_MixedCurrenciesRejected(t *testing.T) {
	lessonUAH, err := NewLessonItem(1, vo.NewMoney(5000, vo.CurrencyUAH))
	require.NoError(t, err)
	lessonUSD, err := NewLessonItem(2, vo.NewMoney(5000, vo.CurrencyUSD))
	require.NoError(t, err)

	o, err := NewOrder(1, vo.TypeLessonPurchase, []OrderItem{lessonUAH, lessonUSD})

	assert.Error(t, err)
	assert.Nil(t, o)
	assert.Contains(t, err.Error(), "currency")
}

func TestNewOrder_SubscriptionPurchaseRequiresExactlyOnePlanItem(t *testing.T) {
	lesson, err := NewLessonItem(1, vo.NewMoney(5000, vo.CurrencyUAH))
	require.NoError(t, err)

	o, err := NewOrder(1, vo.TypeSubscriptionPurchase, []OrderItem{lesson})
	assert.Error(t, err)
	assert.Nil(t, o)

	plan1 := newPlanItem(t, 100, 29900, vo.CurrencyUAH)
	plan2 := newPlanItem(t, 101, 49900, vo.CurrencyUAH)
	o, err = NewOrder(1, vo.TypeSubscriptionPurchase, []OrderItem{plan1, plan2})
	assert.Error(t, err)
	assert.Nil(t, o)
}

func TestNewOrder_RequiresItems(t *testing.T) {
	o, err := NewOrder(1, vo.TypeSubscriptionPurchase, nil)
	assert.Error(t, err)
	assert.Nil(t, o)
}

func TestNewOrder_RequiresUserID(t *testing.T) {
	item := newPlanItem(t, 100, 29900, vo.CurrencyUAH)
	o, err := NewOrder(0, vo.TypeSubscriptionPurchase, []OrderItem{item})
	assert.Error(t, err)
	assert.Nil(t, o)
}

func TestComplete_FromPending(t *testing.T) {
	o := reconstructOrder(t, vo.StatusPending)

	require.NoError(t, o.Complete("wayforpay"))

	assert.Equal(t, vo.StatusCompleted, o.Status())
	require.NotNil(t, o.PaymentGateway())
	assert.Equal(t, "wayforpay", *o.PaymentGateway())
	require.NotNil(t, o.CompletedAt())
}

func TestComplete_FromProcessing(t *testing.T) {
	o := reconstructOrder(t, vo.StatusProcessing)
	require.NoError(t, o.Complete("fondy"))
	assert.Equal(t, vo.StatusCompleted, o.Status())
}

func TestComplete_AlreadyCompletedIsNoOp(t *testing.T) {
	o := reconstructOrder(t, vo.StatusPending)
	require.NoError(t, o.Complete("wayforpay"))
	firstCompletedAt := *o.CompletedAt()

	require.NoError(t, o.Complete("fondy"))

	assert.Equal(t, vo.StatusCompleted, o.Status())
	assert.Equal(t, "wayforpay", *o.PaymentGateway(), "no-op must not overwrite the gateway")
	assert.Equal(t, firstCompletedAt, *o.CompletedAt())
}

func TestComplete_FromTerminalStatusFails(t *testing.T) {
	for _, status := range []vo.OrderStatus{vo.StatusCancelled, vo.StatusFailed, vo.StatusRefunded} {
		o := reconstructOrder(t, status)
		err := o.Complete("wayforpay")
		assert.ErrorIs(t, err, ErrInvalidStatusTransition, "status %s", status)
	}
}

func TestCancel_OnlyFromPending(t *testing.T) {
	o := reconstructOrder(t, vo.StatusPending)
	require.NoError(t, o.Cancel())
	assert.Equal(t, vo.StatusCancelled, o.Status())

	completed := reconstructOrder(t, vo.StatusCompleted)
	assert.ErrorIs(t, completed.Cancel(), ErrInvalidStatusTransition)

	processing := reconstructOrder(t, vo.StatusProcessing)
	assert.ErrorIs(t, processing.Cancel(), ErrInvalidStatusTransition)
}

func TestMarkProcessing_Advisory(t *testing.T) {
	o := reconstructOrder(t, vo.StatusPending)
	require.NoError(t, o.MarkProcessing())
	assert.Equal(t, vo.StatusProcessing, o.Status())

	// calling again is a no-op
	require.NoError(t, o.MarkProcessing())
	assert.Equal(t, vo.StatusProcessing, o.Status())
}

func TestMarkRefunded_OnlyFromCompleted(t *testing.T) {
	o := reconstructOrder(t, vo.StatusCompleted)
	require.NoError(t, o.MarkRefunded())
	assert.Equal(t, vo.StatusRefunded, o.Status())

	pending := reconstructOrder(t, vo.StatusPending)
	assert.ErrorIs(t, pending.MarkRefunded(), ErrInvalidStatusTransition)
}
