package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreditTransaction is one ledger entry against a user's credits balance.
// Amount is positive for grants (purchases, promotions) and negative for
// consumption (recipe scans).
type CreditTransaction struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Amount    int       `gorm:"not null" json:"amount"`
	Reason    string    `gorm:"size:50;not null" json:"reason"`
	Reference string    `gorm:"size:255" json:"reference"`
	CreatedAt time.Time `json:"created_at"`
}

func (t *CreditTransaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
