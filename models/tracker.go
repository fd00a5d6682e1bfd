package models

import (
	"fmt"
	"strings"
	"time"
)

// WorkflowColumn is the name of a workflow state on the team's board
type WorkflowColumn string

// Workflow columns covered by a release note
const (
	ColumnToDo       WorkflowColumn = "To Do"
	ColumnInProgress WorkflowColumn = "In Progress"
	ColumnInReview   WorkflowColumn = "In Review"
	ColumnStaging    WorkflowColumn = "Staging"
	ColumnDone       WorkflowColumn = "Done"
)

// ReleaseColumns lists the columns in the order they are fetched
var ReleaseColumns = []WorkflowColumn{
	ColumnDone,
	ColumnStaging,
	ColumnInReview,
	ColumnInProgress,
	ColumnToDo,
}

// String returns the string representation of a WorkflowColumn
func (c WorkflowColumn) String() string {
	return string(c)
}

// ProjectStateStarted is the Linear project state treated as active
const ProjectStateStarted = "started"

// Project represents a Linear project
type Project struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	State string `json:"state"`
}

// Active reports whether the project is in progress
func (p Project) Active() bool {
	return strings.EqualFold(p.State, ProjectStateStarted)
}

// TicketScope selects tickets of one project, or tickets without a project when Project is nil
type TicketScope struct {
	Project *Project
}

// Name returns a label for logs and reports
func (s TicketScope) Name() string {
	if s.Project == nil {
		return "(no project)"
	}
	return s.Project.Name
}

// IssueFilter represents the filter of a Linear issue search
type IssueFilter struct {
	TeamName     string
	ProjectID    string
	NoProject    bool
	Column       WorkflowColumn
	UpdatedAfter time.Time
	First        int
}

// Issue represents the scalar fields of a Linear issue
type Issue struct {
	ID            string
	Identifier    string
	Title         string
	Description   string
	PriorityLabel string
	Estimate      *int
	URL           string
	UpdatedAt     time.Time
}

// IssueDetails holds the related entities of an issue, resolved with a separate lookup
type IssueDetails struct {
	AssigneeName string
	Labels       []string
	Project      *Project
}

// Ticket is a fully resolved issue
type Ticket struct {
	Issue
	IssueDetails
}

// ProjectLabel returns the project name, or a fallback derived from the labels
func (t Ticket) ProjectLabel() string {
	if t.Project != nil && t.Project.Name != "" {
		return t.Project.Name
	}
	for _, label := range t.Labels {
		if strings.EqualFold(label, LabelBug.String()) {
			return ProjectLabelBug
		}
	}
	return ProjectLabelEnhancement
}

// Text flattens the ticket into the plain text handed to the language model
func (t Ticket) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Identifier: %s\n", t.Identifier)
	fmt.Fprintf(&b, "URL: %s\n", t.URL)
	fmt.Fprintf(&b, "Title: %s\n", t.Title)
	fmt.Fprintf(&b, "Priority: %s\n", valueOr(t.PriorityLabel, "No priority"))
	if t.Estimate != nil {
		fmt.Fprintf(&b, "Estimate: %d\n", *t.Estimate)
	} else {
		b.WriteString("Estimate: none\n")
	}
	fmt.Fprintf(&b, "Assignee: %s\n", valueOr(t.AssigneeName, "Unassigned"))
	fmt.Fprintf(&b, "Labels: %s\n", valueOr(strings.Join(t.Labels, ", "), "none"))
	fmt.Fprintf(&b, "Project: %s\n", t.ProjectLabel())
	fmt.Fprintf(&b, "Description:\n%s\n", valueOr(strings.TrimSpace(t.Description), "(no description)"))
	return b.String()
}

// Record converts the ticket into the transient record consumed by the summarizer
func (t Ticket) Record() TicketRecord {
	return TicketRecord{
		Identifier:   t.Identifier,
		URL:          t.URL,
		ProjectLabel: t.ProjectLabel(),
		Text:         t.Text(),
	}
}

func valueOr(val, fallback string) string {
	if strings.TrimSpace(val) == "" {
		return fallback
	}
	return val
}

// IssueSearchResult represents one page of a Linear issue search
type IssueSearchResult struct {
	Issues      []Issue
	HasNextPage bool
}
