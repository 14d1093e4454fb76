package models

import (
	"time"

	"gorm.io/datatypes"
)

// SubscriptionModel is the persistence model for user subscriptions.
type SubscriptionModel struct {
	ID              uint           `gorm:"primarykey"`
	UserID          uint           `gorm:"not null;index:idx_user_subscription"`
	PlanID          uint           `gorm:"not null;index:idx_plan_subscription"`
	OrderID         *uint          `gorm:"index;comment:originating order"`
	Status          string         `gorm:"not null;size:20;index:idx_subscription_status"`
	StartDate       time.Time      `gorm:"not null"`
	EndDate         time.Time      `gorm:"not null;index:idx_end_date"`
	AutoRenew       bool           `gorm:"default:false"`
	NextBillingDate *time.Time     `gorm:"index:idx_next_billing"`
	CancelledAt     *time.Time
	Metadata        datatypes.JSON
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (SubscriptionModel) TableName() string {
	return "user_subscriptions"
}
