package service_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forkful/forkful-backend/internal/service"
)

func TestHTTPRecipeExtractor(t *testing.T) {
	var gotPayload map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		json.NewEncoder(w).Encode(map[string]any{
			"title":    "Tomato Soup",
			"servings": 4,
			"ingredients": []map[string]string{
				{"name": "tomatoes", "quantity": "2", "unit": "lbs"},
			},
			"steps": []map[string]any{
				{"instruction": "Roast.", "timer_minutes": 40},
			},
		})
	}))
	defer srv.Close()

	extractor := service.NewHTTPRecipeExtractor(srv.URL)
	draft, err := extractor.Extract(context.Background(), "url", "https://example.com/recipe")
	require.NoError(t, err)

	assert.Equal(t, "url", gotPayload["source_type"])
	assert.Equal(t, "https://example.com/recipe", gotPayload["source"])
	assert.Equal(t, "Tomato Soup", draft.Title)
	assert.Equal(t, 4, draft.Servings)
	require.Len(t, draft.Ingredients, 1)
	assert.Equal(t, "tomatoes", draft.Ingredients[0].Name)
	require.Len(t, draft.Steps, 1)
	assert.Equal(t, 40, draft.Steps[0].TimerMinutes)
}

func TestHTTPRecipeExtractorErrors(t *testing.T) {
	t.Run("non-200 status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "upstream model unavailable", http.StatusBadGateway)
		}))
		defer srv.Close()

		_, err := service.NewHTTPRecipeExtractor(srv.URL).Extract(context.Background(), "text", "some text")
		assert.ErrorContains(t, err, "status 502")
	})

	t.Run("missing title", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"description": "no title here"})
		}))
		defer srv.Close()

		_, err := service.NewHTTPRecipeExtractor(srv.URL).Extract(context.Background(), "text", "some text")
		assert.ErrorContains(t, err, "no recipe title")
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}))
		defer srv.Close()

		_, err := service.NewHTTPRecipeExtractor(srv.URL).Extract(context.Background(), "text", "some text")
		assert.Error(t, err)
	})
}
