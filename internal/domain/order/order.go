package order

import (
	"fmt"
	"time"

	vo "github.com/dll-community/billing/internal/domain/order/valueobjects"
	"github.com/dll-community/billing/internal/shared/biztime"
	"github.com/dll-community/billing/internal/shared/id"
)

// Order is the purchase-attempt aggregate root. It owns its line items and
// moves through a fixed status lifecycle; terminal states are never left.
type Order struct {
	orderID        uint
	reference      string
	userID         uint
	status         vo.OrderStatus
	orderType      vo.OrderType
	total          vo.Money
	paymentGateway *string
	promoCodeID    *uint
	items          []OrderItem
	createdAt      time.Time
	completedAt    *time.Time
	updatedAt      time.Time
}

// NewOrder creates a PENDING order from its items.
//
// Invariants enforced here:
//   - at least one item; every item carries the same currency
//   - the order total equals the sum of item amounts
//   - a subscription purchase carries exactly one plan item
func NewOrder(userID uint, orderType vo.OrderType, items []OrderItem) (*Order, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if !vo.ValidOrderTypes[orderType] {
		return nil, fmt.Errorf("invalid order type: %s", orderType)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("order requires at least one item")
	}

	total := items[0].Amount()
	planItems := 0
	if items[0].IsPlanItem() {
		planItems++
	}
	for _, item := range items[1:] {
		var err error
		total, err = total.Add(item.Amount())
		if err != nil {
			return nil, fmt.Errorf("order items must share one currency: %w", err)
		}
		if item.IsPlanItem() {
			planItems++
		}
	}

	if orderType == vo.TypeSubscriptionPurchase && planItems != 1 {
		return nil, fmt.Errorf("subscription purchase requires exactly one plan item, got %d", planItems)
	}

	reference, err := id.GenerateWithPrefix(id.PrefixOrder, id.DefaultLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate order reference: %w", err)
	}

	now := biztime.NowUTC()
	return &Order{
		reference: reference,
		userID:    userID,
		status:    vo.StatusPending,
		orderType: orderType,
		total:     total,
		items:     items,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructOrder rebuilds an order from persistence.
func ReconstructOrder(
	orderID uint,
	reference string,
	userID uint,
	status vo.OrderStatus,
	orderType vo.OrderType,
	total vo.Money,
	paymentGateway *string,
	promoCodeID *uint,
	items []OrderItem,
	createdAt time.Time,
	completedAt *time.Time,
	updatedAt time.Time,
) (*Order, error) {
	if orderID == 0 {
		return nil, fmt.Errorf("order ID cannot be zero")
	}
	if !vo.ValidStatuses[status] {
		return nil, fmt.Errorf("invalid order status: %s", status)
	}
	if !vo.ValidOrderTypes[orderType] {
		return nil, fmt.Errorf("invalid order type: %s", orderType)
	}

	return &Order{
		orderID:        orderID,
		reference:      reference,
		userID:         userID,
		status:         status,
		orderType:      orderType,
		total:          total,
		paymentGateway: paymentGateway,
		promoCodeID:    promoCodeID,
		items:          items,
		createdAt:      createdAt,
		completedAt:    completedAt,
		updatedAt:      updatedAt,
	}, nil
}

func (o *Order) ID() uint {
	return o.orderID
}

// Reference is the public Stripe-style identifier (ord_xxx) used in API paths.
func (o *Order) Reference() string {
	return o.reference
}

func (o *Order) UserID() uint {
	return o.userID
}

func (o *Order) Status() vo.OrderStatus {
	return o.status
}

func (o *Order) OrderType() vo.OrderType {
	return o.orderType
}

func (o *Order) Total() vo.Money {
	return o.total
}

func (o *Order) Currency() vo.Currency {
	return o.total.Currency()
}

func (o *Order) PaymentGateway() *string {
	return o.paymentGateway
}

func (o *Order) PromoCodeID() *uint {
	return o.promoCodeID
}

// Items returns a copy of the order's line items.
func (o *Order) Items() []OrderItem {
	items := make([]OrderItem, len(o.items))
	copy(items, o.items)
	return items
}

// PlanItem returns the single subscription-plan item of a subscription
// purchase order, or nil when the order has none.
func (o *Order) PlanItem() *OrderItem {
	for i := range o.items {
		if o.items[i].IsPlanItem() {
			item := o.items[i]
			return &item
		}
	}
	return nil
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) CompletedAt() *time.Time {
	return o.completedAt
}

func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

func (o *Order) IsCompleted() bool {
	return o.status == vo.StatusCompleted
}

// SetID sets the order ID after persistence (used by repository after Create).
func (o *Order) SetID(orderID uint) error {
	if o.orderID != 0 {
		return fmt.Errorf("order ID is already set")
	}
	if orderID == 0 {
		return fmt.Errorf("order ID cannot be zero")
	}
	o.orderID = orderID
	return nil
}

// SetItemIDs assigns persisted IDs to line items in order (repository use).
func (o *Order) SetItemIDs(ids []uint) error {
	if len(ids) != len(o.items) {
		return fmt.Errorf("item ID count mismatch: %d ids for %d items", len(ids), len(o.items))
	}
	for i := range o.items {
		o.items[i].id = ids[i]
	}
	return nil
}

// MarkProcessing records that a payment request was dispatched to a gateway.
// The transition is advisory: callbacks may still arrive while PENDING.
func (o *Order) MarkProcessing() error {
	if o.status == vo.StatusProcessing {
		return nil
	}
	if !o.status.CanTransitionTo(vo.StatusProcessing) {
		return ErrInvalidTransition(o.status.String(), vo.StatusProcessing.String())
	}
	o.status = vo.StatusProcessing
	o.updatedAt = biztime.NowUTC()
	return nil
}

// Complete marks the order paid. Completing an already-COMPLETED order is a
// no-op so that a webhook and a return-URL handler racing on the same order
// cannot double-apply side effects; the caller checks IsCompleted first to
// skip them.
func (o *Order) Complete(gateway string) error {
	if o.status == vo.StatusCompleted {
		return nil
	}
	if !o.status.CanTransitionTo(vo.StatusCompleted) {
		return ErrInvalidTransition(o.status.String(), vo.StatusCompleted.String())
	}

	now := biztime.NowUTC()
	o.status = vo.StatusCompleted
	o.paymentGateway = &gateway
	o.completedAt = &now
	o.updatedAt = now
	return nil
}

// Cancel is only valid from PENDING and has no subscription side effects.
func (o *Order) Cancel() error {
	if o.status == vo.StatusCancelled {
		return nil
	}
	if o.status != vo.StatusPending {
		return ErrInvalidTransition(o.status.String(), vo.StatusCancelled.String())
	}
	o.status = vo.StatusCancelled
	o.updatedAt = biztime.NowUTC()
	return nil
}

// MarkFailed records a declined or expired payment.
func (o *Order) MarkFailed() error {
	if o.status == vo.StatusFailed {
		return nil
	}
	if !o.status.CanTransitionTo(vo.StatusFailed) {
		return ErrInvalidTransition(o.status.String(), vo.StatusFailed.String())
	}
	o.status = vo.StatusFailed
	o.updatedAt = biztime.NowUTC()
	return nil
}

// MarkRefunded records a refund reported by the gateway.
func (o *Order) MarkRefunded() error {
	if o.status == vo.StatusRefunded {
		return nil
	}
	if !o.status.CanTransitionTo(vo.StatusRefunded) {
		return ErrInvalidTransition(o.status.String(), vo.StatusRefunded.String())
	}
	o.status = vo.StatusRefunded
	o.updatedAt = biztime.NowUTC()
	return nil
}
