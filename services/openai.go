package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"linear-release-notes/models"
)

const openAIProvider = "openai"

// OpenAIServiceImpl implements the AIService interface using the Chat Completions API
type OpenAIServiceImpl struct {
	config *models.Config
	client *http.Client
}

// NewOpenAIService creates a new OpenAI-backed AIService
func NewOpenAIService(config *models.Config, client ...*http.Client) AIService {
	httpClient := &http.Client{Timeout: time.Duration(config.OpenAI.Timeout) * time.Second}
	if len(client) > 0 && client[0] != nil {
		httpClient = client[0]
	}
	return &OpenAIServiceImpl{
		config: config,
		client: httpClient,
	}
}

type openAIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIChatRequest struct {
	Model     string              `json:"model"`
	Messages  []openAIChatMessage `json:"messages"`
	MaxTokens int                 `json:"max_tokens,omitempty"`
}

// OpenAIResponse represents the Chat Completions response body
type OpenAIResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// OpenAIErrorResponse represents the Chat Completions error body
type OpenAIErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// Complete implements the AIService interface
func (s *OpenAIServiceImpl) Complete(ctx context.Context, req models.CompletionRequest) (*models.CompletionResponse, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = s.config.OpenAI.MaxTokens
	}

	payload := openAIChatRequest{
		Model: s.config.OpenAI.Model,
		Messages: []openAIChatMessage{
			{Role: "system", Content: req.SystemPrompt},
			{Role: "user", Content: req.UserContent},
		},
		MaxTokens: maxTokens,
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.OpenAI.BaseURL, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+s.config.OpenAI.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, networkError(openAIProvider, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, networkError(openAIProvider, fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return nil, classifyOpenAIError(resp.StatusCode, body)
	}

	var response OpenAIResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(response.Choices) == 0 {
		return nil, errors.New("openai returned no choices")
	}

	log.Printf("OpenAI completion finished: model=%s prompt_tokens=%d completion_tokens=%d",
		response.Model, response.Usage.PromptTokens, response.Usage.CompletionTokens)

	return &models.CompletionResponse{
		Text:  response.Choices[0].Message.Content,
		Model: response.Model,
	}, nil
}

// classifyOpenAIError maps a non-200 Chat Completions response to an *APIError
func classifyOpenAIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{
		Kind:       OtherAPIError,
		Provider:   openAIProvider,
		StatusCode: statusCode,
		Message:    strings.TrimSpace(string(body)),
	}

	var errResp OpenAIErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		apiErr.Code = errResp.Error.Code
		if apiErr.Code == "" {
			apiErr.Code = errResp.Error.Type
		}
		apiErr.Message = errResp.Error.Message
	}

	switch {
	case apiErr.Code == "insufficient_quota":
		apiErr.Kind = QuotaExceeded
	case apiErr.Code == "rate_limit_exceeded", statusCode == http.StatusTooManyRequests:
		apiErr.Kind = RateLimited
	}
	return apiErr
}
