package subscription

import (
	"fmt"
	"time"

	vo "github.com/dll-community/billing/internal/domain/subscription/valueobjects"
)

// Subscription is a user's paid access window. At most one ACTIVE row
// exists per user at any instant; the lifecycle manager extends an
// existing row instead of creating a second one, which is what keeps
// that invariant without a database constraint.
type Subscription struct {
	id              uint
	userID          uint
	planID          uint
	orderID         *uint
	status          vo.SubscriptionStatus
	startDate       time.Time
	endDate         time.Time
	autoRenew       bool
	nextBillingDate *time.Time
	cancelledAt     *time.Time
	metadata        map[string]interface{}
	createdAt       time.Time
	updatedAt       time.Time
}

// NewSubscription creates an ACTIVE subscription running from now for
// the plan's duration. Auto-renew starts off; the user opts in later.
func NewSubscription(userID uint, plan *Plan, orderID *uint, now time.Time) (*Subscription, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if plan == nil || plan.ID() == 0 {
		return nil, fmt.Errorf("plan is required")
	}

	endDate := now.AddDate(0, 0, plan.DurationInDays())
	nextBilling := endDate
	return &Subscription{
		userID:          userID,
		planID:          plan.ID(),
		orderID:         orderID,
		status:          vo.StatusActive,
		startDate:       now,
		endDate:         endDate,
		autoRenew:       false,
		nextBillingDate: &nextBilling,
		metadata:        make(map[string]interface{}),
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// ReconstructSubscription rebuilds a subscription from persistence.
func ReconstructSubscription(
	id, userID, planID uint,
	orderID *uint,
	status vo.SubscriptionStatus,
	startDate, endDate time.Time,
	autoRenew bool,
	nextBillingDate *time.Time,
	cancelledAt *time.Time,
	metadata map[string]interface{},
	createdAt, updatedAt time.Time,
) (*Subscription, error) {
	if id == 0 {
		return nil, fmt.Errorf("subscription ID cannot be zero")
	}
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if planID == 0 {
		return nil, fmt.Errorf("plan ID is required")
	}
	if !vo.ValidStatuses[status] {
		return nil, fmt.Errorf("invalid subscription status: %s", status)
	}
	if !endDate.After(startDate) {
		return nil, fmt.Errorf("end date must be after start date")
	}

	if metadata == nil {
		metadata = make(map[string]interface{})
	}

	return &Subscription{
		id:              id,
		userID:          userID,
		planID:          planID,
		orderID:         orderID,
		status:          status,
		startDate:       startDate,
		endDate:         endDate,
		autoRenew:       autoRenew,
		nextBillingDate: nextBillingDate,
		cancelledAt:     cancelledAt,
		metadata:        metadata,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}, nil
}

func (s *Subscription) ID() uint {
	return s.id
}

func (s *Subscription) UserID() uint {
	return s.userID
}

func (s *Subscription) PlanID() uint {
	return s.planID
}

func (s *Subscription) OrderID() *uint {
	return s.orderID
}

func (s *Subscription) Status() vo.SubscriptionStatus {
	return s.status
}

func (s *Subscription) StartDate() time.Time {
	return s.startDate
}

func (s *Subscription) EndDate() time.Time {
	return s.endDate
}

func (s *Subscription) AutoRenew() bool {
	return s.autoRenew
}

func (s *Subscription) NextBillingDate() *time.Time {
	return s.nextBillingDate
}

func (s *Subscription) CancelledAt() *time.Time {
	return s.cancelledAt
}

func (s *Subscription) Metadata() map[string]interface{} {
	return s.metadata
}

func (s *Subscription) CreatedAt() time.Time {
	return s.createdAt
}

func (s *Subscription) UpdatedAt() time.Time {
	return s.updatedAt
}

// IsActive reports whether the subscription grants access at the given
// instant.
func (s *Subscription) IsActive(now time.Time) bool {
	return s.status == vo.StatusActive && now.Before(s.endDate)
}

// SetID sets the subscription ID after persistence.
func (s *Subscription) SetID(id uint) error {
	if s.id != 0 {
		return fmt.Errorf("subscription ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("subscription ID cannot be zero")
	}
	s.id = id
	return nil
}

// ExtendWithPlan applies a new purchase to an existing subscription.
//
// If the current end date is still in the future, the plan's duration
// stacks on top of it so the user keeps unused paid time. If the
// subscription has lapsed (the grace-period window), the new period
// runs from now instead. The row moves to the newly purchased plan
// and back to ACTIVE either way.
func (s *Subscription) ExtendWithPlan(plan *Plan, orderID *uint, now time.Time) error {
	if plan == nil || plan.ID() == 0 {
		return fmt.Errorf("plan is required")
	}
	if s.status == vo.StatusCanceled {
		return fmt.Errorf("%w: subscription %d is canceled", ErrInvalidStatusTransition, s.id)
	}

	base := now
	if s.endDate.After(now) {
		base = s.endDate
	}
	newEnd := base.AddDate(0, 0, plan.DurationInDays())

	s.planID = plan.ID()
	if orderID != nil {
		s.orderID = orderID
	}
	s.status = vo.StatusActive
	s.endDate = newEnd
	nextBilling := newEnd
	s.nextBillingDate = &nextBilling
	s.updatedAt = now
	return nil
}

// CancelAutoRenew turns off renewal without shortening the paid
// period. The end date stays untouched; the expiration pass will pick
// the row up once it lapses. Calling it again is a no-op.
func (s *Subscription) CancelAutoRenew(now time.Time) error {
	if s.status != vo.StatusActive {
		return fmt.Errorf("%w: subscription %d is %s", ErrInvalidStatusTransition, s.id, s.status)
	}
	if !s.autoRenew && s.cancelledAt != nil {
		return nil
	}
	s.autoRenew = false
	cancelled := now
	s.cancelledAt = &cancelled
	s.updatedAt = now
	return nil
}

// EnableAutoRenew opts the subscription back into renewal and clears
// any prior cancellation mark.
func (s *Subscription) EnableAutoRenew(now time.Time) error {
	if s.status != vo.StatusActive {
		return fmt.Errorf("%w: subscription %d is %s", ErrInvalidStatusTransition, s.id, s.status)
	}
	s.autoRenew = true
	s.cancelledAt = nil
	s.updatedAt = now
	return nil
}

// MarkAsExpired transitions ACTIVE to EXPIRED. Already-EXPIRED rows
// are a no-op so the expiration pass can safely rescan.
func (s *Subscription) MarkAsExpired(now time.Time) error {
	if s.status == vo.StatusExpired {
		return nil
	}
	if !s.status.CanTransitionTo(vo.StatusExpired) {
		return fmt.Errorf("%w: from %s to %s", ErrInvalidStatusTransition, s.status, vo.StatusExpired)
	}
	s.status = vo.StatusExpired
	s.updatedAt = now
	return nil
}

// SetMetadataValue records an auxiliary marker, e.g. which expiry
// reminder was already sent.
func (s *Subscription) SetMetadataValue(key string, value interface{}) {
	if s.metadata == nil {
		s.metadata = make(map[string]interface{})
	}
	s.metadata[key] = value
}

func (s *Subscription) MetadataValue(key string) (interface{}, bool) {
	v, ok := s.metadata[key]
	return v, ok
}
