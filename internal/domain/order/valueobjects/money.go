package valueobjects

import "fmt"

// Money is an amount in minor currency units (kopecks, cents). Amounts are
// never represented as floats inside the engine; gateways that want decimal
// strings format at their own boundary.
type Money struct {
	amountMinor int64
	currency    Currency
}

func NewMoney(amountMinor int64, currency Currency) Money {
	return Money{
		amountMinor: amountMinor,
		currency:    currency,
	}
}

func (m Money) AmountMinor() int64 {
	return m.amountMinor
}

func (m Money) Currency() Currency {
	return m.currency
}

func (m Money) IsPositive() bool {
	return m.amountMinor > 0
}

func (m Money) Equals(other Money) bool {
	return m.amountMinor == other.amountMinor && m.currency == other.currency
}

// Add returns the sum of two amounts. Adding across currencies is a
// programming error and reported as such.
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("currency mismatch: %s vs %s", m.currency, other.currency)
	}
	return Money{amountMinor: m.amountMinor + other.amountMinor, currency: m.currency}, nil
}

func (m Money) String() string {
	return fmt.Sprintf("%d.%02d %s", m.amountMinor/100, m.amountMinor%100, m.currency)
}
