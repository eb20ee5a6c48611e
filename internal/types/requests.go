package types

// RegisterRequest represents the request body for user registration
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest represents the request body for user login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest represents the request body for profile updates
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name"`
	AvatarURL   *string `json:"avatar_url"`
}

// IngredientInput is one ingredient row in a create/update recipe request.
// Order follows slice position; the handler assigns dense order indexes.
type IngredientInput struct {
	Name     string `json:"name" binding:"required"`
	Quantity string `json:"quantity"`
	Unit     string `json:"unit"`
	Notes    string `json:"notes"`
}

// StepInput is one instruction row in a create/update recipe request.
type StepInput struct {
	Instruction  string  `json:"instruction" binding:"required"`
	ImageURL     *string `json:"image_url"`
	TimerMinutes int     `json:"timer_minutes"`
}

// CreateRecipeRequest represents the request body for creating a recipe
type CreateRecipeRequest struct {
	Title            string            `json:"title" binding:"required"`
	Description      string            `json:"description"`
	Servings         int               `json:"servings"`
	PrepMinutes      int               `json:"prep_minutes"`
	CookMinutes      int               `json:"cook_minutes"`
	TotalMinutes     int               `json:"total_minutes"`
	Difficulty       string            `json:"difficulty"`
	Category         string            `json:"category"`
	Source           string            `json:"source"`
	SourceType       string            `json:"source_type" binding:"omitempty,oneof=manual scan url text"`
	Notes            string            `json:"notes"`
	OriginalImageURL *string           `json:"original_image_url"`
	Ingredients      []IngredientInput `json:"ingredients"`
	Steps            []StepInput       `json:"steps"`
	Tags             []string          `json:"tags"`
}

// UpdateRecipeRequest represents the request body for updating a recipe
type UpdateRecipeRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	Servings     *int    `json:"servings"`
	PrepMinutes  *int    `json:"prep_minutes"`
	CookMinutes  *int    `json:"cook_minutes"`
	TotalMinutes *int    `json:"total_minutes"`
	Difficulty   *string `json:"difficulty"`
	Category     *string `json:"category"`
	Notes        *string `json:"notes"`
	Favorite     *bool   `json:"favorite"`
	Archived     *bool   `json:"archived"`
}

// CreateCollectionRequest represents the request body for creating a collection
type CreateCollectionRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=2000"`
}

// CreateTagRequest represents the request body for creating a tag
type CreateTagRequest struct {
	Name string `json:"name" binding:"required,max=50"`
}

// ScanRecipeRequest represents the request body for the AI scan endpoint.
// Exactly one of ImageURL or Text should be set, matching SourceType.
type ScanRecipeRequest struct {
	SourceType string `json:"source_type" binding:"required,oneof=scan url text"`
	ImageURL   string `json:"image_url"`
	URL        string `json:"url"`
	Text       string `json:"text"`
}
