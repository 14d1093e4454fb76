package subscription

import "errors"

var (
	ErrSubscriptionNotFound    = errors.New("subscription not found")
	ErrPlanNotFound            = errors.New("subscription plan not found")
	ErrPriceNotFound           = errors.New("plan price not found")
	ErrInvalidStatusTransition = errors.New("invalid subscription status transition")
)
