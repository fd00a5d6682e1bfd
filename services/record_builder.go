package services

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"

	"linear-release-notes/models"
)

// RecordBuilder defines the interface for turning issues into summarizer records
type RecordBuilder interface {
	// BuildRecords resolves each issue's details and flattens it, preserving input order
	BuildRecords(ctx context.Context, issues []models.Issue) ([]models.TicketRecord, error)
}

// RecordBuilderImpl implements the RecordBuilder interface
type RecordBuilderImpl struct {
	trackerService TrackerService
	config         *models.Config
}

// NewRecordBuilder creates a new RecordBuilder
func NewRecordBuilder(trackerService TrackerService, config *models.Config) RecordBuilder {
	return &RecordBuilderImpl{
		trackerService: trackerService,
		config:         config,
	}
}

// BuildRecords resolves each issue's details concurrently and flattens it, preserving input order.
// A failed lookup is logged and the record is built from the issue alone.
func (b *RecordBuilderImpl) BuildRecords(ctx context.Context, issues []models.Issue) ([]models.TicketRecord, error) {
	records := make([]models.TicketRecord, len(issues))

	g, gctx := errgroup.WithContext(ctx)
	if limit := b.config.ReleaseNotes.ResolveConcurrency; limit > 0 {
		g.SetLimit(limit)
	}

	for i, issue := range issues {
		i, issue := i, issue
		g.Go(func() error {
			ticket, err := b.resolveTicket(gctx, issue)
			if err != nil {
				return err
			}
			records[i] = ticket.Record()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

// resolveTicket combines an issue with its details. Only context errors are returned.
func (b *RecordBuilderImpl) resolveTicket(ctx context.Context, issue models.Issue) (models.Ticket, error) {
	ticket := models.Ticket{Issue: issue}

	details, err := b.trackerService.ResolveIssueDetails(ctx, issue.ID)
	if err != nil {
		if ctx.Err() != nil {
			return ticket, ctx.Err()
		}
		log.Printf("failed to resolve details of %s, continuing without them: %v", issue.Identifier, err)
		return ticket, nil
	}
	if details != nil {
		ticket.IssueDetails = *details
	}
	return ticket, nil
}
