package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"strings"
	"time"

	"linear-release-notes/models"
)

// TrackerService defines the interface for reading issues from Linear
type TrackerService interface {
	// ListActiveProjects lists the projects that are currently in progress
	ListActiveProjects(ctx context.Context) ([]models.Project, error)

	// SearchIssues returns the first page of issues matching the filter
	SearchIssues(ctx context.Context, filter models.IssueFilter) (*models.IssueSearchResult, error)

	// ResolveIssueDetails fetches the assignee, labels and project of an issue
	ResolveIssueDetails(ctx context.Context, issueID string) (*models.IssueDetails, error)
}

// LinearServiceImpl implements the TrackerService interface against the Linear GraphQL API
type LinearServiceImpl struct {
	config *models.Config
	client *http.Client
}

// NewLinearService creates a new TrackerService
func NewLinearService(config *models.Config, client ...*http.Client) TrackerService {
	httpClient := &http.Client{Timeout: time.Duration(config.Linear.Timeout) * time.Second}
	if len(client) > 0 && client[0] != nil {
		httpClient = client[0]
	}
	return &LinearServiceImpl{
		config: config,
		client: httpClient,
	}
}

const projectsQuery = `query Projects($first: Int) {
  projects(first: $first) {
    nodes { id name state }
    pageInfo { hasNextPage }
  }
}`

const issuesQuery = `query Issues($filter: IssueFilter, $first: Int) {
  issues(filter: $filter, first: $first) {
    nodes { id identifier title description priorityLabel estimate url updatedAt }
    pageInfo { hasNextPage }
  }
}`

const issueDetailsQuery = `query IssueDetails($id: String!) {
  issue(id: $id) {
    assignee { name }
    labels { nodes { name } }
    project { id name state }
  }
}`

type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

type linearIssueNode struct {
	ID            string    `json:"id"`
	Identifier    string    `json:"identifier"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	PriorityLabel string    `json:"priorityLabel"`
	Estimate      *float64  `json:"estimate"`
	URL           string    `json:"url"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ListActiveProjects lists the projects that are currently in progress
func (s *LinearServiceImpl) ListActiveProjects(ctx context.Context) ([]models.Project, error) {
	var data struct {
		Projects struct {
			Nodes    []models.Project `json:"nodes"`
			PageInfo struct {
				HasNextPage bool `json:"hasNextPage"`
			} `json:"pageInfo"`
		} `json:"projects"`
	}

	variables := map[string]interface{}{"first": s.config.Linear.PageSize}
	if err := s.query(ctx, projectsQuery, variables, &data); err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	if data.Projects.PageInfo.HasNextPage {
		log.Printf("More than %d projects in the workspace, only the first page is included", s.config.Linear.PageSize)
	}

	projects := make([]models.Project, 0, len(data.Projects.Nodes))
	for _, project := range data.Projects.Nodes {
		if project.Active() {
			projects = append(projects, project)
		}
	}
	return projects, nil
}

// SearchIssues returns the first page of issues matching the filter
func (s *LinearServiceImpl) SearchIssues(ctx context.Context, filter models.IssueFilter) (*models.IssueSearchResult, error) {
	first := filter.First
	if first <= 0 {
		first = s.config.Linear.PageSize
	}

	var data struct {
		Issues struct {
			Nodes    []linearIssueNode `json:"nodes"`
			PageInfo struct {
				HasNextPage bool `json:"hasNextPage"`
			} `json:"pageInfo"`
		} `json:"issues"`
	}

	variables := map[string]interface{}{
		"filter": buildIssueFilter(filter),
		"first":  first,
	}
	if err := s.query(ctx, issuesQuery, variables, &data); err != nil {
		return nil, fmt.Errorf("failed to search issues: %w", err)
	}

	result := &models.IssueSearchResult{
		Issues:      make([]models.Issue, 0, len(data.Issues.Nodes)),
		HasNextPage: data.Issues.PageInfo.HasNextPage,
	}
	for _, node := range data.Issues.Nodes {
		result.Issues = append(result.Issues, node.toIssue())
	}
	return result, nil
}

// ResolveIssueDetails fetches the assignee, labels and project of an issue
func (s *LinearServiceImpl) ResolveIssueDetails(ctx context.Context, issueID string) (*models.IssueDetails, error) {
	var data struct {
		Issue *struct {
			Assignee *struct {
				Name string `json:"name"`
			} `json:"assignee"`
			Labels struct {
				Nodes []struct {
					Name string `json:"name"`
				} `json:"nodes"`
			} `json:"labels"`
			Project *models.Project `json:"project"`
		} `json:"issue"`
	}

	variables := map[string]interface{}{"id": issueID}
	if err := s.query(ctx, issueDetailsQuery, variables, &data); err != nil {
		return nil, fmt.Errorf("failed to resolve issue %s: %w", issueID, err)
	}
	if data.Issue == nil {
		return nil, fmt.Errorf("issue %s not found", issueID)
	}

	details := &models.IssueDetails{Project: data.Issue.Project}
	if data.Issue.Assignee != nil {
		details.AssigneeName = data.Issue.Assignee.Name
	}
	for _, label := range data.Issue.Labels.Nodes {
		details.Labels = append(details.Labels, label.Name)
	}
	return details, nil
}

// buildIssueFilter converts an IssueFilter into the Linear GraphQL filter object
func buildIssueFilter(filter models.IssueFilter) map[string]interface{} {
	gql := map[string]interface{}{
		"team":  map[string]interface{}{"name": map[string]interface{}{"eq": filter.TeamName}},
		"state": map[string]interface{}{"name": map[string]interface{}{"eq": filter.Column.String()}},
	}
	if !filter.UpdatedAfter.IsZero() {
		gql["updatedAt"] = map[string]interface{}{"gte": filter.UpdatedAfter.UTC().Format(time.RFC3339)}
	}
	if filter.NoProject {
		gql["project"] = map[string]interface{}{"null": true}
	} else if filter.ProjectID != "" {
		gql["project"] = map[string]interface{}{"id": map[string]interface{}{"eq": filter.ProjectID}}
	}
	return gql
}

func (n linearIssueNode) toIssue() models.Issue {
	issue := models.Issue{
		ID:            n.ID,
		Identifier:    n.Identifier,
		Title:         n.Title,
		Description:   n.Description,
		PriorityLabel: n.PriorityLabel,
		URL:           n.URL,
		UpdatedAt:     n.UpdatedAt,
	}
	if n.Estimate != nil {
		estimate := int(math.Round(*n.Estimate))
		issue.Estimate = &estimate
	}
	return issue
}

// query sends a GraphQL request and decodes the data member into out
func (s *LinearServiceImpl) query(ctx context.Context, query string, variables map[string]interface{}, out interface{}) error {
	jsonPayload, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.Linear.BaseURL, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	// Linear personal API keys are sent without a scheme
	req.Header.Set("Authorization", s.config.Linear.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("linear request failed: %s, status code: %d", strings.TrimSpace(string(body)), resp.StatusCode)
	}

	var gqlResp graphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&gqlResp); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if len(gqlResp.Errors) > 0 {
		messages := make([]string, 0, len(gqlResp.Errors))
		for _, e := range gqlResp.Errors {
			messages = append(messages, e.Message)
		}
		return fmt.Errorf("linear graphql error: %s", strings.Join(messages, "; "))
	}

	if len(gqlResp.Data) == 0 || string(gqlResp.Data) == "null" {
		return fmt.Errorf("linear response contained no data")
	}

	if err := json.Unmarshal(gqlResp.Data, out); err != nil {
		return fmt.Errorf("failed to decode data: %w", err)
	}
	return nil
}
