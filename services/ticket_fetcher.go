package services

import (
	"context"
	"log"
	"time"

	"linear-release-notes/models"
)

// TicketFetcher defines the interface for fetching the tickets of one project and column
type TicketFetcher interface {
	// FetchTickets returns the team's tickets in the column updated within the last sinceDays days.
	// A nil scope project selects tickets without a project. Errors are logged and yield no tickets.
	FetchTickets(ctx context.Context, scope models.TicketScope, column models.WorkflowColumn, sinceDays int) []models.Issue
}

// TicketFetcherImpl implements the TicketFetcher interface
type TicketFetcherImpl struct {
	trackerService TrackerService
	config         *models.Config
	now            func() time.Time
}

// NewTicketFetcher creates a new TicketFetcher
func NewTicketFetcher(trackerService TrackerService, config *models.Config) TicketFetcher {
	return &TicketFetcherImpl{
		trackerService: trackerService,
		config:         config,
		now:            time.Now,
	}
}

// FetchTickets returns the team's tickets in the column updated within the last sinceDays days.
// Only the first page is read, so columns larger than the page size are truncated.
func (f *TicketFetcherImpl) FetchTickets(ctx context.Context, scope models.TicketScope, column models.WorkflowColumn, sinceDays int) []models.Issue {
	filter := models.IssueFilter{
		TeamName:     f.config.Linear.TeamName,
		Column:       column,
		UpdatedAfter: f.now().AddDate(0, 0, -sinceDays),
		First:        f.config.Linear.PageSize,
	}
	if scope.Project != nil {
		filter.ProjectID = scope.Project.ID
	} else {
		filter.NoProject = true
	}

	result, err := f.trackerService.SearchIssues(ctx, filter)
	if err != nil {
		log.Printf("Failed to fetch tickets for %s / %s: %v", scope.Name(), column, err)
		return []models.Issue{}
	}
	if result == nil {
		return []models.Issue{}
	}

	if result.HasNextPage {
		log.Printf("More than %d tickets in %s / %s, only the first page is included", filter.First, scope.Name(), column)
	}

	log.Printf("Fetched %d tickets for %s / %s", len(result.Issues), scope.Name(), column)
	return result.Issues
}
