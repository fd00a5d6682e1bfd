package services

import (
	"fmt"
	"strings"

	"linear-release-notes/models"
)

// FormatOptions controls release note rendering
type FormatOptions struct {
	// LegacyEnhancementsSection repeats the "Enhancement" group under an
	// "*Enhancements*:" header after all other groups, as older releases did.
	LegacyEnhancementsSection bool
}

// FormatReleaseNote groups tickets by project in first-seen order and renders them as text
func FormatReleaseNote(tickets []models.SummarizedTicket, opts FormatOptions) string {
	note := models.NewReleaseNote(tickets)

	var b strings.Builder
	for _, group := range note.Groups {
		writeGroup(&b, group.Project, group.Tickets)
	}

	if opts.LegacyEnhancementsSection {
		if group, ok := note.Group(models.ProjectLabelEnhancement); ok {
			writeGroup(&b, "Enhancements", group.Tickets)
		}
	}
	return b.String()
}

func writeGroup(b *strings.Builder, header string, tickets []models.SummarizedTicket) {
	fmt.Fprintf(b, "*%s*:\n", header)
	for _, ticket := range tickets {
		fmt.Fprintf(b, "[%s] %s - [%s](%s)\n", ticket.Category, ticket.Summary, ticket.Identifier, ticket.URL)
	}
	b.WriteString("\n")
}
