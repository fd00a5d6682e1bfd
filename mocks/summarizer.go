package mocks

import (
	"context"

	"linear-release-notes/models"
)

// MockSummarizer is a mock implementation of the Summarizer interface
type MockSummarizer struct {
	SummarizeFunc func(ctx context.Context, records []models.TicketRecord) ([]models.SummarizedTicket, error)
	Batches       [][]models.TicketRecord
}

// Summarize is the mock implementation of Summarizer's Summarize method
func (m *MockSummarizer) Summarize(ctx context.Context, records []models.TicketRecord) ([]models.SummarizedTicket, error) {
	m.Batches = append(m.Batches, records)
	if m.SummarizeFunc != nil {
		return m.SummarizeFunc(ctx, records)
	}
	return []models.SummarizedTicket{}, nil
}
