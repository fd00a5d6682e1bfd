package mocks

import (
	"context"
	"sync"

	"linear-release-notes/models"
)

// MockAIService is a mock implementation of the AIService interface
type MockAIService struct {
	CompleteFunc func(ctx context.Context, req models.CompletionRequest) (*models.CompletionResponse, error)

	mu       sync.Mutex
	Requests []models.CompletionRequest
}

// Complete is the mock implementation of AIService's Complete method
func (m *MockAIService) Complete(ctx context.Context, req models.CompletionRequest) (*models.CompletionResponse, error) {
	m.mu.Lock()
	m.Requests = append(m.Requests, req)
	m.mu.Unlock()

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, req)
	}
	return &models.CompletionResponse{Text: "[]"}, nil
}

// Calls returns the number of Complete invocations
func (m *MockAIService) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}
