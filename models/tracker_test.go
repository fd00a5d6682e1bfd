package models

import (
	"strings"
	"testing"
)

func TestTicket_ProjectLabel(t *testing.T) {
	tests := []struct {
		name   string
		ticket Ticket
		want   string
	}{
		{
			name: "project name wins",
			ticket: Ticket{IssueDetails: IssueDetails{
				Labels:  []string{"bug"},
				Project: &Project{ID: "p1", Name: "Payments"},
			}},
			want: "Payments",
		},
		{
			name:   "bug label without project",
			ticket: Ticket{IssueDetails: IssueDetails{Labels: []string{"ui", "Bug"}}},
			want:   ProjectLabelBug,
		},
		{
			name:   "no project and no bug label",
			ticket: Ticket{IssueDetails: IssueDetails{Labels: []string{"ui"}}},
			want:   ProjectLabelEnhancement,
		},
		{
			name:   "project without a name",
			ticket: Ticket{IssueDetails: IssueDetails{Project: &Project{ID: "p1"}}},
			want:   ProjectLabelEnhancement,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ticket.ProjectLabel(); got != tt.want {
				t.Errorf("Expected project label '%s', got '%s'", tt.want, got)
			}
		})
	}
}

func TestTicket_Record(t *testing.T) {
	estimate := 3
	ticket := Ticket{
		Issue: Issue{
			ID:            "uuid-1",
			Identifier:    "ENG-42",
			Title:         "Fix login redirect",
			Description:   "Users land on a blank page after login.",
			PriorityLabel: "High",
			Estimate:      &estimate,
			URL:           "https://linear.app/acme/issue/ENG-42",
		},
		IssueDetails: IssueDetails{
			AssigneeName: "Sam",
			Labels:       []string{"bug", "auth"},
		},
	}

	record := ticket.Record()
	if record.Identifier != "ENG-42" {
		t.Errorf("Expected identifier 'ENG-42', got '%s'", record.Identifier)
	}
	if record.ProjectLabel != ProjectLabelBug {
		t.Errorf("Expected project label 'Bug', got '%s'", record.ProjectLabel)
	}
	for _, snippet := range []string{
		"Identifier: ENG-42",
		"Title: Fix login redirect",
		"Priority: High",
		"Estimate: 3",
		"Assignee: Sam",
		"Labels: bug, auth",
		"Project: Bug",
		"Users land on a blank page after login.",
	} {
		if !strings.Contains(record.Text, snippet) {
			t.Errorf("Expected record text to contain %q, got:\n%s", snippet, record.Text)
		}
	}
}

func TestTicket_TextDefaults(t *testing.T) {
	text := Ticket{Issue: Issue{Identifier: "ENG-1"}}.Text()
	for _, snippet := range []string{"Estimate: none", "Assignee: Unassigned", "Labels: none", "(no description)"} {
		if !strings.Contains(text, snippet) {
			t.Errorf("Expected record text to contain %q, got:\n%s", snippet, text)
		}
	}
}

func TestNewReleaseNote_GroupsInFirstSeenOrder(t *testing.T) {
	note := NewReleaseNote([]SummarizedTicket{
		{Identifier: "E-1", Project: "API"},
		{Identifier: "E-2", Project: "Web"},
		{Identifier: "E-3", Project: "API"},
	})

	if len(note.Groups) != 2 {
		t.Fatalf("Expected 2 groups, got %d", len(note.Groups))
	}
	if note.Groups[0].Project != "API" || note.Groups[1].Project != "Web" {
		t.Errorf("Expected groups [API Web], got [%s %s]", note.Groups[0].Project, note.Groups[1].Project)
	}
	api, ok := note.Group("API")
	if !ok {
		t.Fatalf("Expected API group to exist")
	}
	if len(api.Tickets) != 2 || api.Tickets[0].Identifier != "E-1" || api.Tickets[1].Identifier != "E-3" {
		t.Errorf("Expected API tickets [E-1 E-3], got %+v", api.Tickets)
	}
	if _, ok := note.Group("Mobile"); ok {
		t.Errorf("Expected no Mobile group")
	}
}

func TestProject_Active(t *testing.T) {
	if !(Project{State: "started"}).Active() {
		t.Errorf("Expected started project to be active")
	}
	if (Project{State: "completed"}).Active() {
		t.Errorf("Expected completed project to be inactive")
	}
}
