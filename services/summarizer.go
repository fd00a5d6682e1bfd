package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"regexp"
	"strings"
	"time"

	"linear-release-notes/models"
)

const maxSummarizeAttempts = 5

// ErrNoResponse is returned when every completion attempt of a batch failed
var ErrNoResponse = errors.New("no response obtained")

// SummarySystemPrompt instructs the model how to summarize a batch of tickets
const SummarySystemPrompt = `You write release notes from issue tracker tickets.
For every ticket you receive, produce one JSON object with exactly these fields:
  "identifier": the ticket identifier, copied verbatim
  "url": the ticket URL, copied verbatim
  "summary": one sentence in the imperative mood describing the change (e.g. "Add export to CSV"), without leading brackets, tags or identifiers
  "category": a short category tag of at most 2 words (3 only when unavoidable)
  "project": the project given for the ticket
Respond with a JSON array containing one object per ticket and nothing else.`

var leadingBracket = regexp.MustCompile(`^\s*\[[^\]]*\]\s*`)

// Summarizer defines the interface for summarizing a batch of ticket records
type Summarizer interface {
	// Summarize issues one completion call for the batch and returns the parsed summaries
	Summarize(ctx context.Context, records []models.TicketRecord) ([]models.SummarizedTicket, error)
}

// SummarizerImpl implements the Summarizer interface
type SummarizerImpl struct {
	aiService AIService
	config    *models.Config
	sleeper   func(time.Duration)
}

// SummarizerOption customizes the summarizer
type SummarizerOption func(*SummarizerImpl)

// WithSleeper overrides how backoff sleeps are performed (useful for tests)
func WithSleeper(sleeper func(time.Duration)) SummarizerOption {
	return func(s *SummarizerImpl) {
		s.sleeper = sleeper
	}
}

// NewSummarizer creates a new Summarizer
func NewSummarizer(aiService AIService, config *models.Config, opts ...SummarizerOption) Summarizer {
	s := &SummarizerImpl{
		aiService: aiService,
		config:    config,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summarize issues one completion call for the batch and returns the parsed summaries.
// An unparsable response is logged and yields no summaries; exhausted retries return ErrNoResponse.
func (s *SummarizerImpl) Summarize(ctx context.Context, records []models.TicketRecord) ([]models.SummarizedTicket, error) {
	if len(records) == 0 {
		return []models.SummarizedTicket{}, nil
	}

	req := models.CompletionRequest{
		SystemPrompt: SummarySystemPrompt,
		UserContent:  BuildSummaryPrompt(records),
		MaxTokens:    s.config.CompletionMaxTokens(),
	}

	resp, err := s.completeWithRetry(ctx, req)
	if err != nil {
		return nil, err
	}

	summaries, err := ParseSummaries(resp.Text)
	if err != nil {
		log.Printf("Failed to parse completion response, skipping batch of %d tickets: %v (payload: %s)",
			len(records), err, payloadSnippet(resp.Text))
		return []models.SummarizedTicket{}, nil
	}

	return reconcileSummaries(summaries, records), nil
}

// completeWithRetry calls the AI service, waiting 2^attempt seconds after each recoverable failure
func (s *SummarizerImpl) completeWithRetry(ctx context.Context, req models.CompletionRequest) (*models.CompletionResponse, error) {
	for attempt := 0; attempt < maxSummarizeAttempts; attempt++ {
		resp, err := s.aiService.Complete(ctx, req)
		if err == nil {
			if resp == nil {
				return &models.CompletionResponse{}, nil
			}
			return resp, nil
		}

		if !IsRecoverable(err) {
			return nil, fmt.Errorf("completion failed: %w", err)
		}

		delay := time.Duration(1<<attempt) * time.Second
		log.Printf("Completion attempt %d/%d failed: %v; retrying in %s", attempt+1, maxSummarizeAttempts, err, delay)
		if err := s.sleep(ctx, delay); err != nil {
			return nil, err
		}
	}

	return nil, fmt.Errorf("summarize batch: %w after %d attempts", ErrNoResponse, maxSummarizeAttempts)
}

func (s *SummarizerImpl) sleep(ctx context.Context, delay time.Duration) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if s.sleeper != nil {
		s.sleeper(delay)
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// BuildSummaryPrompt formats a batch of records for the model
func BuildSummaryPrompt(records []models.TicketRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Summarize the following %d tickets.\n", len(records))
	for i, record := range records {
		fmt.Fprintf(&b, "\n--- Ticket %d ---\n", i+1)
		b.WriteString(record.Text)
	}
	return b.String()
}

// ParseSummaries decodes the model output. A single object is treated as a one-element array.
// Prose around the JSON is ignored: each '[' or '{' is tried in turn and the first
// value that decodes into summaries wins.
func ParseSummaries(text string) ([]models.SummarizedTicket, error) {
	payload := stripCodeFence(text)
	if payload == "" {
		return nil, errors.New("empty payload")
	}

	err := errors.New("no JSON value found")
	for offset := 0; offset < len(payload); {
		idx := strings.IndexAny(payload[offset:], "[{")
		if idx < 0 {
			break
		}
		start := offset + idx

		var summaries []models.SummarizedTicket
		summaries, err = decodeSummaries(payload[start:])
		if err == nil {
			return summaries, nil
		}
		// an unterminated value swallows the rest of the text, including any nested candidates
		if errors.Is(err, io.ErrUnexpectedEOF) {
			break
		}
		offset = start + 1
	}
	return nil, err
}

// decodeSummaries decodes the first JSON value of payload and ignores anything after it
func decodeSummaries(payload string) ([]models.SummarizedTicket, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(strings.NewReader(payload)).Decode(&raw); err != nil {
		return nil, err
	}

	if raw[0] == '[' {
		var summaries []models.SummarizedTicket
		if err := json.Unmarshal(raw, &summaries); err != nil {
			return nil, err
		}
		return summaries, nil
	}

	var summary models.SummarizedTicket
	if err := json.Unmarshal(raw, &summary); err != nil {
		return nil, err
	}
	return []models.SummarizedTicket{summary}, nil
}

// stripCodeFence removes a surrounding markdown code fence
func stripCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	body := strings.TrimLeft(trimmed[3:], " \t\r\n")
	if len(body) >= 4 && strings.EqualFold(body[:4], "json") {
		body = body[4:]
	}
	if idx := strings.LastIndex(body, "```"); idx >= 0 {
		body = body[:idx]
	}
	return strings.TrimSpace(body)
}

// reconcileSummaries drops summaries for unknown tickets and fills gaps from the records
func reconcileSummaries(summaries []models.SummarizedTicket, records []models.TicketRecord) []models.SummarizedTicket {
	byIdentifier := make(map[string]models.TicketRecord, len(records))
	for _, record := range records {
		byIdentifier[record.Identifier] = record
	}

	result := make([]models.SummarizedTicket, 0, len(summaries))
	for _, summary := range summaries {
		summary.Identifier = strings.TrimSpace(summary.Identifier)
		record, ok := byIdentifier[summary.Identifier]
		if !ok {
			log.Printf("Dropping summary for unknown ticket %q", summary.Identifier)
			continue
		}
		if strings.TrimSpace(summary.URL) == "" {
			summary.URL = record.URL
		}
		if strings.TrimSpace(summary.Project) == "" {
			summary.Project = record.ProjectLabel
		}
		summary.Summary = leadingBracket.ReplaceAllString(strings.TrimSpace(summary.Summary), "")
		summary.Category = strings.TrimSpace(summary.Category)
		result = append(result, summary)
	}
	return result
}

func payloadSnippet(content string) string {
	clean := strings.Join(strings.Fields(content), " ")
	if clean == "" {
		return "<empty>"
	}
	const limit = 160
	runes := []rune(clean)
	if len(runes) > limit {
		clean = string(runes[:limit]) + "..."
	}
	return clean
}
