package models

import (
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type Recipe struct {
	ID          uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	UserID      uuid.UUID      `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Servings    int            `json:"servings"`
	PrepMinutes int            `json:"prep_minutes"`
	CookMinutes int            `json:"cook_minutes"`
	// TotalMinutes is stored rather than derived so scanned recipes keep
	// whatever the source declared, even when prep+cook disagree.
	TotalMinutes     int             `json:"total_minutes"`
	Difficulty       string          `gorm:"size:20" json:"difficulty"`
	Category         string          `gorm:"size:50" json:"category"`
	Source           string          `gorm:"size:512" json:"source"`
	SourceType       string          `gorm:"size:20" json:"source_type"`
	Notes            string          `gorm:"type:text" json:"notes"`
	Favorite         bool            `gorm:"not null;default:false" json:"favorite"`
	Archived         bool            `gorm:"not null;default:false" json:"archived"`
	OriginalImageURL *string         `gorm:"size:512" json:"original_image_url"`
	Embedding        pgvector.Vector `gorm:"type:vector(3)" json:"-"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

type RecipeIngredient struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	RecipeID  uuid.UUID `gorm:"type:varchar(36);not null;index" json:"recipe_id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Quantity  string    `gorm:"size:50" json:"quantity"`
	Unit      string    `gorm:"size:50" json:"unit"`
	Notes     string    `gorm:"size:255" json:"notes"`
	// OrderIndex is dense and unique within a recipe; display order depends on it.
	OrderIndex int       `gorm:"not null" json:"order_index"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (i *RecipeIngredient) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

type RecipeStep struct {
	ID           uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	RecipeID     uuid.UUID `gorm:"type:varchar(36);not null;index" json:"recipe_id"`
	StepNumber   int       `gorm:"not null" json:"step_number"`
	Instruction  string    `gorm:"type:text;not null" json:"instruction"`
	ImageURL     *string   `gorm:"size:512" json:"image_url"`
	TimerMinutes int       `json:"timer_minutes"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (s *RecipeStep) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

type RecipeImage struct {
	ID       uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	RecipeID uuid.UUID `gorm:"type:varchar(36);not null;index" json:"recipe_id"`
	// ImageURL is non-nullable; a RecipeImage row without a blob is meaningless.
	ImageURL  string    `gorm:"size:512;not null" json:"image_url"`
	IsPrimary bool      `gorm:"not null;default:false" json:"is_primary"`
	Caption   string    `gorm:"size:255" json:"caption"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (m *RecipeImage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
