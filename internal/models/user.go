package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Name         string         `gorm:"not null" json:"name"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type UserProfile struct {
	ID          uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID      uuid.UUID      `gorm:"type:varchar(36);not null;uniqueIndex" json:"user_id"`
	DisplayName string         `gorm:"size:100;not null" json:"display_name"`
	AvatarURL   *string        `gorm:"size:512" json:"avatar_url"`
	// Credits is server-managed and never exported or restored by the backup
	// pipeline. Only the credits service may change it.
	Credits   int            `gorm:"not null;default:0" json:"credits"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *UserProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
