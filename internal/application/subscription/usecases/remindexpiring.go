package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/dll-community/billing/internal/domain/subscription"
	"github.com/dll-community/billing/internal/shared/biztime"
	"github.com/dll-community/billing/internal/shared/logger"
)

const reminderSentKey = "expiry_reminder_sent"

// RemindExpiringSubscriptionsUseCase emails users whose subscription
// ends within the reminder window. A metadata marker on the row keeps
// repeated scheduler runs from re-sending the same reminder.
type RemindExpiringSubscriptionsUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	planRepo         subscription.PlanRepository
	emailResolver    UserEmailResolver
	sender           ReminderSender
	reminderDays     int
	logger           logger.Interface
}

func NewRemindExpiringSubscriptionsUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	planRepo subscription.PlanRepository,
	emailResolver UserEmailResolver,
	sender ReminderSender,
	reminderDays int,
	logger logger.Interface,
) *RemindExpiringSubscriptionsUseCase {
	return &RemindExpiringSubscriptionsUseCase{
		subscriptionRepo: subscriptionRepo,
		planRepo:         planRepo,
		emailResolver:    emailResolver,
		sender:           sender,
		reminderDays:     reminderDays,
		logger:           logger,
	}
}

// Execute returns the number of reminders sent.
func (uc *RemindExpiringSubscriptionsUseCase) Execute(ctx context.Context) (int, error) {
	now := biztime.NowUTC()
	until := now.AddDate(0, 0, uc.reminderDays)

	expiring, err := uc.subscriptionRepo.FindExpiringBetween(ctx, now, until)
	if err != nil {
		return 0, fmt.Errorf("failed to find expiring subscriptions: %w", err)
	}

	sent := 0
	for _, sub := range expiring {
		if _, done := sub.MetadataValue(reminderSentKey); done {
			continue
		}

		email, name, err := uc.emailResolver.ResolveEmail(ctx, sub.UserID())
		if err != nil {
			uc.logger.Warnw("failed to resolve user email for reminder",
				"subscription_id", sub.ID(),
				"user_id", sub.UserID(),
				"error", err,
			)
			continue
		}

		planName := ""
		if plan, err := uc.planRepo.GetByID(ctx, sub.PlanID()); err == nil {
			planName = plan.TranslationFor("uk").Name
		}

		if err := uc.sender.SendExpiryReminder(ctx, email, name, planName, sub.EndDate()); err != nil {
			uc.logger.Errorw("failed to send expiry reminder",
				"subscription_id", sub.ID(),
				"user_id", sub.UserID(),
				"error", err,
			)
			continue
		}

		sub.SetMetadataValue(reminderSentKey, now.Format(time.RFC3339))
		if err := uc.subscriptionRepo.Update(ctx, sub); err != nil {
			uc.logger.Warnw("failed to record sent reminder",
				"subscription_id", sub.ID(),
				"error", err,
			)
			continue
		}
		sent++
	}

	if sent > 0 {
		uc.logger.Infow("expiry reminders sent", "count", sent)
	}
	return sent, nil
}
