package models

import (
	"time"
)

// OrderModel is the persistence model for orders. This is the
// anti-corruption layer between domain and database.
type OrderModel struct {
	ID             uint   `gorm:"primarykey"`
	Reference      string `gorm:"uniqueIndex;not null;size:50;comment:Stripe-style ID: ord_xxx"`
	UserID         uint   `gorm:"not null;index:idx_user_order"`
	Status         string `gorm:"not null;size:20;index:idx_order_status"`
	OrderType      string `gorm:"not null;size:30"`
	TotalAmount    int64  `gorm:"not null;comment:minor currency units"`
	Currency       string `gorm:"not null;size:3"`
	PaymentGateway *string `gorm:"size:30"`
	PromoCodeID    *uint
	CompletedAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Items []OrderItemModel `gorm:"foreignKey:OrderID"`
}

func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel is one priced line of an order. Amount is snapshotted
// at order time.
type OrderItemModel struct {
	ID       uint  `gorm:"primarykey"`
	OrderID  uint  `gorm:"not null;index:idx_order_item"`
	LessonID *uint `gorm:"index"`
	PlanID   *uint `gorm:"index"`
	Amount   int64 `gorm:"not null;comment:minor currency units"`
	Currency string `gorm:"not null;size:3"`
}

func (OrderItemModel) TableName() string {
	return "order_items"
}
