package order

import (
	"fmt"

	vo "github.com/dll-community/billing/internal/domain/order/valueobjects"
)

// OrderItem is one priced line within an order. The amount is snapshotted at
// order time and never re-read from the catalog, so later price changes do
// not affect existing orders. Items reference lessons and plans by ID only.
type OrderItem struct {
	id       uint
	lessonID *uint
	planID   *uint
	amount   vo.Money
}

// NewPlanItem creates a line item for a subscription plan purchase.
func NewPlanItem(planID uint, amount vo.Money) (OrderItem, error) {
	if planID == 0 {
		return OrderItem{}, fmt.Errorf("plan ID is required")
	}
	if !amount.IsPositive() {
		return OrderItem{}, fmt.Errorf("item amount must be positive")
	}
	pid := planID
	return OrderItem{planID: &pid, amount: amount}, nil
}

// NewLessonItem creates a line item for a single lesson purchase.
func NewLessonItem(lessonID uint, amount vo.Money) (OrderItem, error) {
	if lessonID == 0 {
		return OrderItem{}, fmt.Errorf("lesson ID is required")
	}
	if !amount.IsPositive() {
		return OrderItem{}, fmt.Errorf("item amount must be positive")
	}
	lid := lessonID
	return OrderItem{lessonID: &lid, amount: amount}, nil
}

// ReconstructOrderItem rebuilds an item from persistence.
func ReconstructOrderItem(id uint, lessonID, planID *uint, amount vo.Money) OrderItem {
	return OrderItem{
		id:       id,
		lessonID: lessonID,
		planID:   planID,
		amount:   amount,
	}
}

func (i OrderItem) ID() uint {
	return i.id
}

func (i OrderItem) LessonID() *uint {
	return i.lessonID
}

func (i OrderItem) PlanID() *uint {
	return i.planID
}

func (i OrderItem) IsPlanItem() bool {
	return i.planID != nil
}

func (i OrderItem) Amount() vo.Money {
	return i.amount
}
