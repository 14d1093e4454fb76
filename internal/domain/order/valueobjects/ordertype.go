package valueobjects

// OrderType identifies what an order pays for.
type OrderType string

const (
	TypeLessonPurchase       OrderType = "LESSON_PURCHASE"
	TypeSubscriptionPurchase OrderType = "SUBSCRIPTION_PURCHASE"
	TypePromoActivation      OrderType = "PROMO_ACTIVATION"
)

func (t OrderType) String() string {
	return string(t)
}

var ValidOrderTypes = map[OrderType]bool{
	TypeLessonPurchase:       true,
	TypeSubscriptionPurchase: true,
	TypePromoActivation:      true,
}
