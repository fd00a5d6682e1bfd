package services

import (
	"context"
	"fmt"
	"log"

	"linear-release-notes/models"
)

// DefaultBatchSize is used when a non-positive batch size is requested
const DefaultBatchSize = 15

// BatchPipeline defines the interface for summarizing tickets in batches
type BatchPipeline interface {
	// Run summarizes issues in consecutive batches and concatenates the results in batch order
	Run(ctx context.Context, issues []models.Issue, batchSize int) ([]models.SummarizedTicket, error)
}

// BatchPipelineImpl implements the BatchPipeline interface
type BatchPipelineImpl struct {
	recordBuilder RecordBuilder
	summarizer    Summarizer
}

// NewBatchPipeline creates a new BatchPipeline
func NewBatchPipeline(recordBuilder RecordBuilder, summarizer Summarizer) BatchPipeline {
	return &BatchPipelineImpl{
		recordBuilder: recordBuilder,
		summarizer:    summarizer,
	}
}

// Run summarizes issues in consecutive batches, one batch at a time.
// The first summarizer error aborts the run.
func (p *BatchPipelineImpl) Run(ctx context.Context, issues []models.Issue, batchSize int) ([]models.SummarizedTicket, error) {
	batches := ChunkIssues(issues, batchSize)
	results := make([]models.SummarizedTicket, 0, len(issues))

	for i, batch := range batches {
		log.Printf("Summarizing batch %d/%d (%d tickets)", i+1, len(batches), len(batch))

		records, err := p.recordBuilder.BuildRecords(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("failed to build records for batch %d: %w", i+1, err)
		}

		summaries, err := p.summarizer.Summarize(ctx, records)
		if err != nil {
			return nil, fmt.Errorf("failed to summarize batch %d: %w", i+1, err)
		}

		log.Printf("Batch %d/%d produced %d summaries", i+1, len(batches), len(summaries))
		results = append(results, summaries...)
	}

	return results, nil
}

// ChunkIssues splits issues into consecutive chunks of at most batchSize, preserving order
func ChunkIssues(issues []models.Issue, batchSize int) [][]models.Issue {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	chunks := make([][]models.Issue, 0, (len(issues)+batchSize-1)/batchSize)
	for start := 0; start < len(issues); start += batchSize {
		end := min(start+batchSize, len(issues))
		chunks = append(chunks, issues[start:end])
	}
	return chunks
}
