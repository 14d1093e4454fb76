package usecases

import (
	"context"
	"time"
)

// UserEmailResolver looks up contact details for a user. User accounts
// are managed outside this service; only the email/name projection is
// readable here.
type UserEmailResolver interface {
	ResolveEmail(ctx context.Context, userID uint) (email, name string, err error)
}

// ReminderSender delivers an expiry reminder to a user.
type ReminderSender interface {
	SendExpiryReminder(ctx context.Context, email, name, planName string, endDate time.Time) error
}
