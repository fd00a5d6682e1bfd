package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"linear-release-notes/mocks"
	"linear-release-notes/models"
)

func newTestTicketFetcher(tracker TrackerService, now time.Time) *TicketFetcherImpl {
	return &TicketFetcherImpl{
		trackerService: tracker,
		config:         testConfig(),
		now:            func() time.Time { return now },
	}
}

func TestTicketFetcher_FetchTickets(t *testing.T) {
	now := time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)
	project := &models.Project{ID: "p1", Name: "Payments", State: "started"}

	tests := []struct {
		name              string
		scope             models.TicketScope
		expectedProjectID string
		expectedNoProject bool
	}{
		{name: "project scope", scope: models.TicketScope{Project: project}, expectedProjectID: "p1"},
		{name: "no project scope", scope: models.TicketScope{}, expectedNoProject: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker := &mocks.MockTrackerService{
				SearchIssuesFunc: func(ctx context.Context, filter models.IssueFilter) (*models.IssueSearchResult, error) {
					return &models.IssueSearchResult{Issues: testIssues(3)}, nil
				},
			}
			fetcher := newTestTicketFetcher(tracker, now)

			issues := fetcher.FetchTickets(context.Background(), tt.scope, models.ColumnStaging, 14)
			if len(issues) != 3 {
				t.Fatalf("Expected 3 issues, got %d", len(issues))
			}

			if len(tracker.Searches) != 1 {
				t.Fatalf("Expected 1 search, got %d", len(tracker.Searches))
			}
			filter := tracker.Searches[0]
			if filter.TeamName != "Engineering" {
				t.Errorf("Expected team 'Engineering', got '%s'", filter.TeamName)
			}
			if filter.Column != models.ColumnStaging {
				t.Errorf("Expected column Staging, got %s", filter.Column)
			}
			if !filter.UpdatedAfter.Equal(time.Date(2026, 10, 2, 9, 30, 0, 0, time.UTC)) {
				t.Errorf("Expected updated after 2026-10-02T09:30:00Z, got %s", filter.UpdatedAfter)
			}
			if filter.First != 250 {
				t.Errorf("Expected page size 250, got %d", filter.First)
			}
			if filter.ProjectID != tt.expectedProjectID || filter.NoProject != tt.expectedNoProject {
				t.Errorf("Expected project %q (none=%v), got %q (none=%v)",
					tt.expectedProjectID, tt.expectedNoProject, filter.ProjectID, filter.NoProject)
			}
		})
	}
}

func TestTicketFetcher_ErrorYieldsNoTickets(t *testing.T) {
	tracker := &mocks.MockTrackerService{
		SearchIssuesFunc: func(ctx context.Context, filter models.IssueFilter) (*models.IssueSearchResult, error) {
			return nil, errors.New("linear returned status 500")
		},
	}
	fetcher := newTestTicketFetcher(tracker, time.Now())

	issues := fetcher.FetchTickets(context.Background(), models.TicketScope{}, models.ColumnDone, 14)
	if issues == nil || len(issues) != 0 {
		t.Errorf("Expected an empty, non-nil result, got %v", issues)
	}
}

func TestTicketFetcher_TruncatedPageKeepsFirstPage(t *testing.T) {
	tracker := &mocks.MockTrackerService{
		SearchIssuesFunc: func(ctx context.Context, filter models.IssueFilter) (*models.IssueSearchResult, error) {
			return &models.IssueSearchResult{Issues: testIssues(2), HasNextPage: true}, nil
		},
	}
	fetcher := newTestTicketFetcher(tracker, time.Now())

	issues := fetcher.FetchTickets(context.Background(), models.TicketScope{}, models.ColumnDone, 14)
	if len(issues) != 2 {
		t.Errorf("Expected 2 issues, got %d", len(issues))
	}
	if len(tracker.Searches) != 1 {
		t.Errorf("Expected a single page request, got %d", len(tracker.Searches))
	}
}
