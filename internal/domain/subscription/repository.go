package subscription

import (
	"context"
	"time"
)

// SubscriptionRepository persists subscription rows.
//
// GetActiveByUserID returns the user's single ACTIVE subscription with
// endDate in the future, or ErrSubscriptionNotFound. FindExpired
// selects the rows the expiration pass must flip to EXPIRED: ACTIVE,
// not cancelled, and either past-due without auto-renew or past the
// grace window with it. FindExpiringBetween feeds expiry reminders.
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *Subscription) error
	GetByID(ctx context.Context, id uint) (*Subscription, error)
	GetActiveByUserID(ctx context.Context, userID uint, now time.Time) (*Subscription, error)
	Update(ctx context.Context, sub *Subscription) error
	ListByUserID(ctx context.Context, userID uint) ([]*Subscription, error)
	FindExpired(ctx context.Context, now time.Time, gracePeriodDays int) ([]*Subscription, error)
	FindExpiringBetween(ctx context.Context, from, to time.Time) ([]*Subscription, error)
}

// PlanRepository persists subscription plans with their translations
// and price lists.
type PlanRepository interface {
	Create(ctx context.Context, plan *Plan) error
	GetByID(ctx context.Context, id uint) (*Plan, error)
	GetByKey(ctx context.Context, key string) (*Plan, error)
	ListActive(ctx context.Context) ([]*Plan, error)
	Update(ctx context.Context, plan *Plan) error
}
