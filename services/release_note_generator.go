package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"linear-release-notes/models"
)

// ReleaseNoteGenerator defines the interface for producing a release note
type ReleaseNoteGenerator interface {
	// Generate fetches, summarizes and formats the release note
	Generate(ctx context.Context) (string, error)
	// Report returns the per project and column fetch counts of the last run
	Report() []FetchStat
}

// FetchStat records how many tickets one fetch returned
type FetchStat struct {
	Scope   string
	Column  models.WorkflowColumn
	Tickets int
}

// ReleaseNoteGeneratorImpl implements the ReleaseNoteGenerator interface
type ReleaseNoteGeneratorImpl struct {
	trackerService TrackerService
	ticketFetcher  TicketFetcher
	pipeline       BatchPipeline
	config         *models.Config
	report         []FetchStat
}

// NewReleaseNoteGenerator creates a new ReleaseNoteGenerator
func NewReleaseNoteGenerator(
	trackerService TrackerService,
	summarizer Summarizer,
	config *models.Config,
) ReleaseNoteGenerator {
	return &ReleaseNoteGeneratorImpl{
		trackerService: trackerService,
		ticketFetcher:  NewTicketFetcher(trackerService, config),
		pipeline:       NewBatchPipeline(NewRecordBuilder(trackerService, config), summarizer),
		config:         config,
	}
}

// Generate fetches every active project and the project-less tickets column by column,
// summarizes them in batches and formats the result.
func (g *ReleaseNoteGeneratorImpl) Generate(ctx context.Context) (string, error) {
	log.Printf("Generating release note for team %s (last %d days, recognized projects: %s)",
		g.config.Linear.TeamName, g.config.ReleaseNotes.SinceDays, strings.Join(g.config.ReleaseNotes.ProjectLabels, ", "))

	projects, err := g.trackerService.ListActiveProjects(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list active projects: %w", err)
	}
	log.Printf("Found %d active projects", len(projects))

	g.report = g.report[:0]
	var issues []models.Issue

	for i := range projects {
		issues = append(issues, g.fetchColumns(ctx, models.TicketScope{Project: &projects[i]})...)
	}
	issues = append(issues, g.fetchColumns(ctx, models.TicketScope{})...)

	if err := ctx.Err(); err != nil {
		return "", err
	}

	if len(issues) == 0 {
		log.Println("No tickets found, nothing to summarize")
		return "", nil
	}
	log.Printf("Summarizing %d tickets", len(issues))

	summaries, err := g.pipeline.Run(ctx, issues, g.config.ReleaseNotes.BatchSize)
	if err != nil {
		return "", err
	}

	return FormatReleaseNote(summaries, FormatOptions{
		LegacyEnhancementsSection: g.config.ReleaseNotes.LegacyEnhancementsSection,
	}), nil
}

// Report returns the per project and column fetch counts of the last run
func (g *ReleaseNoteGeneratorImpl) Report() []FetchStat {
	return g.report
}

func (g *ReleaseNoteGeneratorImpl) fetchColumns(ctx context.Context, scope models.TicketScope) []models.Issue {
	var issues []models.Issue
	for _, column := range models.ReleaseColumns {
		fetched := g.ticketFetcher.FetchTickets(ctx, scope, column, g.config.ReleaseNotes.SinceDays)
		g.report = append(g.report, FetchStat{Scope: scope.Name(), Column: column, Tickets: len(fetched)})
		issues = append(issues, fetched...)
	}
	return issues
}
