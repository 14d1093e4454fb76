package order

import (
	"context"
)

// OrderRepository persists order aggregates with their line items.
// GetByIDForUpdate takes a row lock so the completion path can
// read-then-conditionally-write the status inside one transaction.
type OrderRepository interface {
	Create(ctx context.Context, order *Order) error
	GetByID(ctx context.Context, orderID uint) (*Order, error)
	GetByIDForUpdate(ctx context.Context, orderID uint) (*Order, error)
	GetByReference(ctx context.Context, reference string) (*Order, error)
	Update(ctx context.Context, order *Order) error
	ListByUserID(ctx context.Context, userID uint) ([]*Order, error)
}
