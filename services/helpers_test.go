package services

import (
	"fmt"
	"time"

	"linear-release-notes/models"
)

func testConfig() *models.Config {
	config := &models.Config{}
	config.Linear.APIKey = "lin_api_test"
	config.Linear.TeamName = "Engineering"
	config.Linear.PageSize = 250
	config.AIProvider = models.AIProviderClaude
	config.Claude.APIKey = "sk-ant-test"
	config.Claude.Model = "claude-test"
	config.Claude.MaxTokens = 1024
	config.OpenAI.APIKey = "sk-test"
	config.OpenAI.Model = "gpt-test"
	config.OpenAI.MaxTokens = 512
	config.ReleaseNotes.BatchSize = 15
	config.ReleaseNotes.SinceDays = 14
	config.ReleaseNotes.ResolveConcurrency = 4
	return config
}

func testIssues(n int) []models.Issue {
	issues := make([]models.Issue, n)
	for i := range issues {
		issues[i] = models.Issue{
			ID:         fmt.Sprintf("uuid-%d", i+1),
			Identifier: fmt.Sprintf("ENG-%d", i+1),
			Title:      fmt.Sprintf("Ticket %d", i+1),
			URL:        fmt.Sprintf("https://linear.app/acme/issue/ENG-%d", i+1),
			UpdatedAt:  time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC),
		}
	}
	return issues
}

// noSleep records backoff delays without waiting
func noSleep(delays *[]time.Duration) SummarizerOption {
	return WithSleeper(func(d time.Duration) {
		*delays = append(*delays, d)
	})
}
