package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Collection struct {
	ID          uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID      uuid.UUID      `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Name        string         `gorm:"size:100;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Collection) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// RecipeCollection is the junction row linking a recipe to a collection.
type RecipeCollection struct {
	ID           uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	RecipeID     uuid.UUID `gorm:"type:varchar(36);not null;index" json:"recipe_id"`
	CollectionID uuid.UUID `gorm:"type:varchar(36);not null;index" json:"collection_id"`
	CreatedAt    time.Time `json:"created_at"`
}

func (rc *RecipeCollection) BeforeCreate(tx *gorm.DB) error {
	if rc.ID == uuid.Nil {
		rc.ID = uuid.New()
	}
	return nil
}
