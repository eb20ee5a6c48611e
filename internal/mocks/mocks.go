package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/forkful/forkful-backend/internal/service"
)

// MockBlobStore is an in-memory BlobStore that records every upload.
type MockBlobStore struct {
	mu      sync.Mutex
	Objects map[string][]byte
	// BaseURL is the prefix of returned URLs, defaults to https://media.test
	BaseURL string
	// Err, when set, is returned by every Upload call
	Err error
}

var _ service.BlobStore = (*MockBlobStore)(nil)

func NewMockBlobStore() *MockBlobStore {
	return &MockBlobStore{Objects: make(map[string][]byte)}
}

func (m *MockBlobStore) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return "", m.Err
	}

	buf := make([]byte, len(data))
	copy(buf, data)
	m.Objects[key] = buf

	base := m.BaseURL
	if base == "" {
		base = "https://media.test"
	}
	return fmt.Sprintf("%s/%s", base, key), nil
}

// MockRecipeExtractor returns a canned draft or error.
type MockRecipeExtractor struct {
	Draft *service.RecipeDraft
	Err   error
	// Calls records the (sourceType, source) pairs passed to Extract
	Calls [][2]string
}

var _ service.RecipeExtractor = (*MockRecipeExtractor)(nil)

func (m *MockRecipeExtractor) Extract(ctx context.Context, sourceType, source string) (*service.RecipeDraft, error) {
	m.Calls = append(m.Calls, [2]string{sourceType, source})
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Draft, nil
}
