package services

import (
	"context"
	"errors"
	"fmt"

	"linear-release-notes/models"
)

// AIService defines the unified interface for completion APIs
type AIService interface {
	// Complete sends a system prompt and user content and returns the generated text.
	// Failures reported by the provider are returned as *APIError.
	Complete(ctx context.Context, req models.CompletionRequest) (*models.CompletionResponse, error)
}

// NewAIService creates the AIService selected by config.AIProvider
func NewAIService(config *models.Config) (AIService, error) {
	switch config.AIProvider {
	case models.AIProviderClaude:
		return NewClaudeService(config), nil
	case models.AIProviderOpenAI:
		return NewOpenAIService(config), nil
	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", config.AIProvider)
	}
}

// ErrorKind classifies completion API failures
type ErrorKind int

const (
	// OtherAPIError is any provider error that is not worth retrying
	OtherAPIError ErrorKind = iota
	// RateLimited means the provider throttled the request
	RateLimited
	// QuotaExceeded means the account ran out of quota or credit
	QuotaExceeded
	// NetworkError means the request never produced an HTTP response
	NetworkError
)

// String returns the string representation of an ErrorKind
func (k ErrorKind) String() string {
	switch k {
	case RateLimited:
		return "rate_limited"
	case QuotaExceeded:
		return "quota_exceeded"
	case NetworkError:
		return "network_error"
	default:
		return "api_error"
	}
}

// APIError is a classified completion API failure
type APIError struct {
	Kind       ErrorKind
	Provider   string
	Code       string
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Provider, e.Kind, e.Err)
	}
	if e.Code != "" {
		return fmt.Sprintf("%s %s (code=%s, status=%d): %s", e.Provider, e.Kind, e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s (status=%d): %s", e.Provider, e.Kind, e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Recoverable reports whether the request may succeed when retried
func (e *APIError) Recoverable() bool {
	switch e.Kind {
	case RateLimited, QuotaExceeded, NetworkError:
		return true
	default:
		return false
	}
}

// IsRecoverable reports whether err wraps a recoverable *APIError
func IsRecoverable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Recoverable()
	}
	return false
}

// networkError wraps a transport failure unless it was caused by the context
func networkError(provider string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &APIError{Kind: NetworkError, Provider: provider, Err: err}
}
