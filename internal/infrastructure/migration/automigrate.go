package migration

import (
	"github.com/dll-community/billing/internal/infrastructure/persistence/models"
)

func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.PlanModel{},
		&models.PlanTranslationModel{},
		&models.PlanPriceModel{},
		&models.OrderModel{},
		&models.OrderItemModel{},
		&models.SubscriptionModel{},
	}
}
