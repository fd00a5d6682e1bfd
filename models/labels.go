package models

// TicketLabel represents a Linear label with special meaning
type TicketLabel string

// Ticket labels
const (
	// LabelBug marks a ticket as a bug fix
	LabelBug TicketLabel = "bug"
)

// String returns the string representation of a TicketLabel
func (l TicketLabel) String() string {
	return string(l)
}

// Project labels used for tickets without a project
const (
	ProjectLabelBug         = "Bug"
	ProjectLabelEnhancement = "Enhancement"
)
