package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/dll-community/billing/internal/infrastructure/persistence/models"
	apperrors "github.com/dll-community/billing/internal/shared/errors"
	"github.com/dll-community/billing/internal/shared/logger"
)

// UserContactRepository reads customer contact data from the
// externally managed users table. It satisfies the email-resolver
// ports of the payment and reminder flows.
type UserContactRepository struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewUserContactRepository(db *gorm.DB, logger logger.Interface) *UserContactRepository {
	return &UserContactRepository{
		db:     db,
		logger: logger,
	}
}

func (r *UserContactRepository) ResolveEmail(ctx context.Context, userID uint) (string, string, error) {
	var model models.UserContactModel
	err := r.db.WithContext(ctx).First(&model, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", apperrors.NewNotFoundError("user not found")
		}
		r.logger.Errorw("failed to resolve user contact", "user_id", userID, "error", err)
		return "", "", fmt.Errorf("failed to resolve user contact: %w", err)
	}
	return model.Email, model.FirstName, nil
}
