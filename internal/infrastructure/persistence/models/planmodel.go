package models

import (
	"time"
)

// PlanModel is the persistence model for subscription plans.
type PlanModel struct {
	ID             uint   `gorm:"primarykey"`
	Key            string `gorm:"uniqueIndex;not null;size:50"`
	DurationInDays int    `gorm:"not null"`
	IsActive       bool   `gorm:"default:true;index:idx_plan_active"`
	SortOrder      int    `gorm:"default:0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Translations []PlanTranslationModel `gorm:"foreignKey:PlanID"`
	Prices       []PlanPriceModel       `gorm:"foreignKey:PlanID"`
}

func (PlanModel) TableName() string {
	return "subscription_plans"
}

// PlanTranslationModel holds one language's name/description of a plan.
type PlanTranslationModel struct {
	ID          uint   `gorm:"primarykey"`
	PlanID      uint   `gorm:"not null;uniqueIndex:idx_plan_language,priority:1"`
	Language    string `gorm:"not null;size:10;uniqueIndex:idx_plan_language,priority:2"`
	Name        string `gorm:"not null;size:255"`
	Description string `gorm:"type:text"`
}

func (PlanTranslationModel) TableName() string {
	return "plan_translations"
}

// PlanPriceModel holds one currency entry of a plan's price list.
// The (plan, currency) pair is unique.
type PlanPriceModel struct {
	ID          uint   `gorm:"primarykey"`
	PlanID      uint   `gorm:"not null;uniqueIndex:idx_plan_currency,priority:1"`
	Currency    string `gorm:"not null;size:3;uniqueIndex:idx_plan_currency,priority:2"`
	AmountMinor int64  `gorm:"not null;comment:minor currency units"`
}

func (PlanPriceModel) TableName() string {
	return "plan_prices"
}
