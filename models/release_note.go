package models

// TicketRecord is the flattened form of a ticket sent to the language model
type TicketRecord struct {
	Identifier   string
	URL          string
	ProjectLabel string
	Text         string
}

// SummarizedTicket represents one entry returned by the language model
type SummarizedTicket struct {
	Identifier string `json:"identifier"`
	URL        string `json:"url"`
	Summary    string `json:"summary"`
	Category   string `json:"category"`
	Project    string `json:"project"`
}

// ReleaseNoteGroup holds the tickets of one project
type ReleaseNoteGroup struct {
	Project string
	Tickets []SummarizedTicket
}

// ReleaseNote groups summarized tickets by project in first-seen order
type ReleaseNote struct {
	Groups []ReleaseNoteGroup
}

// NewReleaseNote groups tickets by their project field
func NewReleaseNote(tickets []SummarizedTicket) ReleaseNote {
	var note ReleaseNote
	index := make(map[string]int)
	for _, ticket := range tickets {
		i, ok := index[ticket.Project]
		if !ok {
			i = len(note.Groups)
			index[ticket.Project] = i
			note.Groups = append(note.Groups, ReleaseNoteGroup{Project: ticket.Project})
		}
		note.Groups[i].Tickets = append(note.Groups[i].Tickets, ticket)
	}
	return note
}

// Group returns the group for a project name
func (n ReleaseNote) Group(project string) (ReleaseNoteGroup, bool) {
	for _, group := range n.Groups {
		if group.Project == project {
			return group, true
		}
	}
	return ReleaseNoteGroup{}, false
}

// CompletionRequest represents a single completion call
type CompletionRequest struct {
	SystemPrompt string
	UserContent  string
	MaxTokens    int
}

// CompletionResponse represents the text produced by a completion call
type CompletionResponse struct {
	Text  string
	Model string
}
