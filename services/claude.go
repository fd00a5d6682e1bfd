package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"linear-release-notes/models"
)

const (
	claudeProvider   = "claude"
	anthropicVersion = "2023-06-01"
)

// ClaudeServiceImpl implements the AIService interface using the Anthropic Messages API
type ClaudeServiceImpl struct {
	config *models.Config
	client *http.Client
}

// NewClaudeService creates a new Claude-backed AIService
func NewClaudeService(config *models.Config, client ...*http.Client) AIService {
	httpClient := &http.Client{Timeout: time.Duration(config.Claude.Timeout) * time.Second}
	if len(client) > 0 && client[0] != nil {
		httpClient = client[0]
	}
	return &ClaudeServiceImpl{
		config: config,
		client: httpClient,
	}
}

// ClaudeUsage represents the usage information in a Messages API response
type ClaudeUsage struct {
	InputTokens              int `json:"input_tokens"`
	CacheCreationInputTokens int `json:"cache_creation_input_tokens"`
	CacheReadInputTokens     int `json:"cache_read_input_tokens"`
	OutputTokens             int `json:"output_tokens"`
}

// ClaudeContent represents one content block
type ClaudeContent struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// ClaudeMessage represents a message sent to the API
type ClaudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ClaudeRequest represents the Messages API request body
type ClaudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	System    string          `json:"system,omitempty"`
	Messages  []ClaudeMessage `json:"messages"`
}

// ClaudeResponse represents the Messages API response body
type ClaudeResponse struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Role       string          `json:"role"`
	Model      string          `json:"model"`
	Content    []ClaudeContent `json:"content"`
	StopReason *string         `json:"stop_reason"`
	Usage      ClaudeUsage     `json:"usage"`
}

// ClaudeErrorResponse represents the Messages API error body
type ClaudeErrorResponse struct {
	Type  string `json:"type"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Complete implements the AIService interface
func (s *ClaudeServiceImpl) Complete(ctx context.Context, req models.CompletionRequest) (*models.CompletionResponse, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = s.config.Claude.MaxTokens
	}

	payload := ClaudeRequest{
		Model:     s.config.Claude.Model,
		MaxTokens: maxTokens,
		System:    req.SystemPrompt,
		Messages: []ClaudeMessage{
			{Role: "user", Content: req.UserContent},
		},
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.Claude.BaseURL, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("x-api-key", s.config.Claude.APIKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, networkError(claudeProvider, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, networkError(claudeProvider, fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return nil, classifyClaudeError(resp.StatusCode, body)
	}

	var response ClaudeResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	var text strings.Builder
	for _, content := range response.Content {
		if content.Type == "text" {
			text.WriteString(content.Text)
		}
	}

	log.Printf("Claude completion finished: model=%s input_tokens=%d output_tokens=%d",
		response.Model, response.Usage.InputTokens, response.Usage.OutputTokens)

	return &models.CompletionResponse{
		Text:  text.String(),
		Model: response.Model,
	}, nil
}

// classifyClaudeError maps a non-200 Messages API response to an *APIError
func classifyClaudeError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{
		Kind:       OtherAPIError,
		Provider:   claudeProvider,
		StatusCode: statusCode,
		Message:    strings.TrimSpace(string(body)),
	}

	var errResp ClaudeErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Type != "" {
		apiErr.Code = errResp.Error.Type
		apiErr.Message = errResp.Error.Message
	}

	switch {
	case apiErr.Code == "rate_limit_error", statusCode == http.StatusTooManyRequests:
		apiErr.Kind = RateLimited
	case apiErr.Code == "overloaded_error", statusCode == 529:
		apiErr.Kind = RateLimited
	case apiErr.Code == "billing_error", strings.Contains(strings.ToLower(apiErr.Message), "credit balance"):
		apiErr.Kind = QuotaExceeded
	}
	return apiErr
}
