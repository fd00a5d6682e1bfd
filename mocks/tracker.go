package mocks

import (
	"context"
	"sync"

	"linear-release-notes/models"
)

// MockTrackerService is a mock implementation of the TrackerService interface
type MockTrackerService struct {
	ListActiveProjectsFunc  func(ctx context.Context) ([]models.Project, error)
	SearchIssuesFunc        func(ctx context.Context, filter models.IssueFilter) (*models.IssueSearchResult, error)
	ResolveIssueDetailsFunc func(ctx context.Context, issueID string) (*models.IssueDetails, error)

	mu       sync.Mutex
	Searches []models.IssueFilter
}

// ListActiveProjects is the mock implementation of TrackerService's ListActiveProjects method
func (m *MockTrackerService) ListActiveProjects(ctx context.Context) ([]models.Project, error) {
	if m.ListActiveProjectsFunc != nil {
		return m.ListActiveProjectsFunc(ctx)
	}
	return nil, nil
}

// SearchIssues is the mock implementation of TrackerService's SearchIssues method
func (m *MockTrackerService) SearchIssues(ctx context.Context, filter models.IssueFilter) (*models.IssueSearchResult, error) {
	m.mu.Lock()
	m.Searches = append(m.Searches, filter)
	m.mu.Unlock()

	if m.SearchIssuesFunc != nil {
		return m.SearchIssuesFunc(ctx, filter)
	}
	return &models.IssueSearchResult{}, nil
}

// ResolveIssueDetails is the mock implementation of TrackerService's ResolveIssueDetails method
func (m *MockTrackerService) ResolveIssueDetails(ctx context.Context, issueID string) (*models.IssueDetails, error) {
	if m.ResolveIssueDetailsFunc != nil {
		return m.ResolveIssueDetailsFunc(ctx, issueID)
	}
	return &models.IssueDetails{}, nil
}
