package services

import (
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
)

// RenderFetchReport writes a table of fetched ticket counts per project and column.
// Rows with no tickets are omitted.
func RenderFetchReport(w io.Writer, stats []FetchStat) error {
	tw := table.NewWriter()
	tw.SetStyle(reportStyle(w))
	tw.AppendHeader(table.Row{"Project", "Column", "Tickets"})

	total := 0
	for _, stat := range stats {
		total += stat.Tickets
		if stat.Tickets == 0 {
			continue
		}
		tw.AppendRow(table.Row{stat.Scope, stat.Column.String(), stat.Tickets})
	}
	tw.AppendFooter(table.Row{"", "Total", total})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})

	_, err := fmt.Fprintln(w, tw.Render())
	return err
}

// reportStyle uses box drawing characters only when writing to a terminal
func reportStyle(w io.Writer) table.Style {
	if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return table.StyleRounded
	}
	return table.StyleDefault
}
