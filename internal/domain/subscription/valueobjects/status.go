package valueobjects

// SubscriptionStatus is the lifecycle state of a user subscription.
// ACTIVE rows are the only ones the expiration pass ever touches;
// EXPIRED and CANCELED are terminal.
type SubscriptionStatus string

const (
	StatusActive   SubscriptionStatus = "ACTIVE"
	StatusExpired  SubscriptionStatus = "EXPIRED"
	StatusCanceled SubscriptionStatus = "CANCELED"
)

func (s SubscriptionStatus) String() string {
	return string(s)
}

func (s SubscriptionStatus) IsTerminal() bool {
	return s == StatusExpired || s == StatusCanceled
}

func (s SubscriptionStatus) CanTransitionTo(target SubscriptionStatus) bool {
	transitions := map[SubscriptionStatus][]SubscriptionStatus{
		StatusActive:   {StatusExpired, StatusCanceled},
		StatusExpired:  {},
		StatusCanceled: {},
	}

	allowed, exists := transitions[s]
	if !exists {
		return false
	}

	for _, allowedStatus := range allowed {
		if allowedStatus == target {
			return true
		}
	}
	return false
}

var ValidStatuses = map[SubscriptionStatus]bool{
	StatusActive:   true,
	StatusExpired:  true,
	StatusCanceled: true,
}
