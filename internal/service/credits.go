package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forkful/forkful-backend/internal/models"
)

var ErrInsufficientCredits = errors.New("insufficient credits")

// CreditsService maintains the per-user credits balance and its ledger.
// Every balance change happens inside a transaction that writes a matching
// CreditTransaction row, so balance == sum(ledger) at all times.
type CreditsService struct {
	db *gorm.DB
}

var _ ICreditsService = (*CreditsService)(nil)

// NewCreditsService creates a new CreditsService instance
func NewCreditsService(db *gorm.DB) *CreditsService {
	return &CreditsService{db: db}
}

// Balance returns the user's current credits balance
func (s *CreditsService) Balance(ctx context.Context, userID uuid.UUID) (int, error) {
	var profile models.UserProfile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return 0, err
	}
	return profile.Credits, nil
}

// Grant adds credits to a user's balance, recording the reason and an
// optional payment reference.
func (s *CreditsService) Grant(ctx context.Context, userID uuid.UUID, amount int, reason, reference string) error {
	if amount <= 0 {
		return fmt.Errorf("grant amount must be positive, got %d", amount)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.UserProfile{}).
			Where("user_id = ?", userID).
			Update("credits", gorm.Expr("credits + ?", amount))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		entry := models.CreditTransaction{
			UserID:    userID,
			Amount:    amount,
			Reason:    reason,
			Reference: reference,
		}
		return tx.Create(&entry).Error
	})
}

// Consume deducts credits from a user's balance. The guarded update fails
// without changing anything when the balance is too low, so two concurrent
// consumers can never drive it negative.
func (s *CreditsService) Consume(ctx context.Context, userID uuid.UUID, amount int, reason string) error {
	if amount <= 0 {
		return fmt.Errorf("consume amount must be positive, got %d", amount)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.UserProfile{}).
			Where("user_id = ? AND credits >= ?", userID, amount).
			Update("credits", gorm.Expr("credits - ?", amount))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrInsufficientCredits
		}

		entry := models.CreditTransaction{
			UserID: userID,
			Amount: -amount,
			Reason: reason,
		}
		return tx.Create(&entry).Error
	})
}

// History returns the user's ledger entries, newest first.
func (s *CreditsService) History(ctx context.Context, userID uuid.UUID) ([]models.CreditTransaction, error) {
	var entries []models.CreditTransaction
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
