package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// RecipeDraft is the structured result of an AI extraction: a recipe the
// user can review before saving.
type RecipeDraft struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Servings     int    `json:"servings"`
	PrepMinutes  int    `json:"prep_minutes"`
	CookMinutes  int    `json:"cook_minutes"`
	TotalMinutes int    `json:"total_minutes"`
	Difficulty   string `json:"difficulty"`
	Category     string `json:"category"`
	Ingredients  []struct {
		Name     string `json:"name"`
		Quantity string `json:"quantity"`
		Unit     string `json:"unit"`
	} `json:"ingredients"`
	Steps []struct {
		Instruction  string `json:"instruction"`
		TimerMinutes int    `json:"timer_minutes"`
	} `json:"steps"`
}

// extractRequest is the payload sent to the extraction edge function.
type extractRequest struct {
	SourceType string `json:"source_type"`
	Source     string `json:"source"`
}

// HTTPRecipeExtractor calls the hosted extraction edge function that turns
// an image URL, web page or raw text into a structured recipe draft.
type HTTPRecipeExtractor struct {
	endpoint string
	client   *http.Client
}

var _ RecipeExtractor = (*HTTPRecipeExtractor)(nil)

// NewHTTPRecipeExtractor creates a new HTTPRecipeExtractor instance
func NewHTTPRecipeExtractor(endpoint string) *HTTPRecipeExtractor {
	return &HTTPRecipeExtractor{
		endpoint: endpoint,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Extract sends the source to the extraction service and parses the draft.
func (e *HTTPRecipeExtractor) Extract(ctx context.Context, sourceType, source string) (*RecipeDraft, error) {
	payload, err := json.Marshal(extractRequest{SourceType: sourceType, Source: source})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("[RecipeExtractor] Extraction failed with status %d: %s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("extraction failed with status %d", resp.StatusCode)
	}

	var draft RecipeDraft
	if err := json.Unmarshal(body, &draft); err != nil {
		return nil, fmt.Errorf("failed to decode draft: %w", err)
	}
	if draft.Title == "" {
		return nil, fmt.Errorf("extraction returned no recipe title")
	}

	return &draft, nil
}
