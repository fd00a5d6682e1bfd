package models

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// ConfigFileEnv names the environment variable that points at an optional YAML config file
const ConfigFileEnv = "RELEASE_NOTES_CONFIG"

// Supported AI providers
const (
	AIProviderClaude = "claude"
	AIProviderOpenAI = "openai"
)

// Config represents the application configuration
type Config struct {
	// Linear configuration
	Linear struct {
		APIKey   string `yaml:"api_key" split_words:"true"`
		BaseURL  string `yaml:"base_url" split_words:"true" default:"https://api.linear.app/graphql"`
		TeamName string `yaml:"team_name" split_words:"true" default:"Engineering"`
		PageSize int    `yaml:"page_size" split_words:"true" default:"250"`
		Timeout  int    `yaml:"timeout" split_words:"true" default:"60"`
	} `yaml:"linear" envconfig:"LINEAR"`

	// AI Provider selection
	AIProvider string `yaml:"ai_provider" envconfig:"AI_PROVIDER" default:"claude"` // "claude" or "openai"

	// Claude API configuration
	Claude struct {
		APIKey    string `yaml:"api_key" envconfig:"ANTHROPIC_API_KEY"`
		BaseURL   string `yaml:"base_url" split_words:"true" default:"https://api.anthropic.com/v1/messages"`
		Model     string `yaml:"model" split_words:"true" default:"claude-sonnet-4-20250514"`
		MaxTokens int    `yaml:"max_tokens" split_words:"true" default:"4096"`
		Timeout   int    `yaml:"timeout" split_words:"true" default:"300"`
	} `yaml:"claude" envconfig:"CLAUDE"`

	// OpenAI API configuration
	OpenAI struct {
		APIKey    string `yaml:"api_key" split_words:"true"`
		BaseURL   string `yaml:"base_url" split_words:"true" default:"https://api.openai.com/v1/chat/completions"`
		Model     string `yaml:"model" split_words:"true" default:"gpt-4o-mini"`
		MaxTokens int    `yaml:"max_tokens" split_words:"true" default:"4096"`
		Timeout   int    `yaml:"timeout" split_words:"true" default:"300"`
	} `yaml:"openai" envconfig:"OPENAI"`

	// Release note generation
	ReleaseNotes struct {
		BatchSize          int `yaml:"batch_size" split_words:"true" default:"15"`
		SinceDays          int `yaml:"since_days" split_words:"true" default:"14"`
		ResolveConcurrency int `yaml:"resolve_concurrency" split_words:"true" default:"8"`
		// ProjectLabels lists the recognized project names. Not used for filtering yet.
		ProjectLabels             []string `yaml:"project_labels" split_words:"true" default:"Platform,Mobile,Web,API"`
		LegacyEnhancementsSection bool     `yaml:"legacy_enhancements_section" split_words:"true" default:"false"`
	} `yaml:"release_notes" envconfig:"RELEASE_NOTES"`
}

// LoadFromEnvironment loads the configuration the way the binary does at startup:
// an optional .env file, the process environment, then the YAML file named by
// RELEASE_NOTES_CONFIG if one is set
func LoadFromEnvironment() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}
	return LoadConfig(os.Getenv(ConfigFileEnv))
}

// LoadConfig builds a configuration from defaults and environment variables and
// overlays the YAML file at configPath when it is not empty
func LoadConfig(configPath string) (*Config, error) {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if configPath != "" {
		if err := LoadConfigFile(configPath, &config); err != nil {
			return nil, err
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadConfigFile decodes a YAML file on top of an existing configuration.
// Keys missing from the file keep their current values.
func LoadConfigFile(configPath string, config *Config) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}
	return nil
}

// Validate checks that the configuration can drive a run
func (c *Config) Validate() error {
	if err := c.validateAIProvider(); err != nil {
		return err
	}
	if err := c.validateCredentials(); err != nil {
		return err
	}
	return c.validateReleaseNotes()
}

// validateAIProvider ensures a supported AI provider is selected
func (c *Config) validateAIProvider() error {
	if c.AIProvider != AIProviderClaude && c.AIProvider != AIProviderOpenAI {
		return errors.New("ai_provider must be either 'claude' or 'openai'")
	}
	return nil
}

func (c *Config) validateCredentials() error {
	if strings.TrimSpace(c.Linear.APIKey) == "" {
		return errors.New("linear.api_key cannot be empty (set LINEAR_API_KEY)")
	}
	switch c.AIProvider {
	case AIProviderClaude:
		if strings.TrimSpace(c.Claude.APIKey) == "" {
			return errors.New("claude.api_key cannot be empty (set ANTHROPIC_API_KEY)")
		}
	case AIProviderOpenAI:
		if strings.TrimSpace(c.OpenAI.APIKey) == "" {
			return errors.New("openai.api_key cannot be empty (set OPENAI_API_KEY)")
		}
	}
	return nil
}

func (c *Config) validateReleaseNotes() error {
	if strings.TrimSpace(c.Linear.TeamName) == "" {
		return errors.New("linear.team_name cannot be empty")
	}
	if c.Linear.PageSize <= 0 {
		return errors.New("linear.page_size must be positive")
	}
	if c.ReleaseNotes.BatchSize <= 0 {
		return errors.New("release_notes.batch_size must be positive")
	}
	if c.ReleaseNotes.SinceDays <= 0 {
		return errors.New("release_notes.since_days must be positive")
	}
	if c.ReleaseNotes.ResolveConcurrency <= 0 {
		return errors.New("release_notes.resolve_concurrency must be positive")
	}
	return nil
}

// CompletionMaxTokens returns the token budget of the selected AI provider
func (c *Config) CompletionMaxTokens() int {
	if c.AIProvider == AIProviderOpenAI {
		return c.OpenAI.MaxTokens
	}
	return c.Claude.MaxTokens
}
