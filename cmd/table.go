package cmd

import (
	"clipcutter/application/batch"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// renderOutcomeTable renders batch outcomes as a table, one row per segment
// in batch order.
func renderOutcomeTable(outcomes []batch.Outcome) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Output", "Range", "Status"})

	for i, outcome := range outcomes {
		status := "ok"
		if !outcome.Success {
			status = "failed"
		}
		rangeCol := ""
		if outcome.Start != "" || outcome.End != "" {
			rangeCol = outcome.Start + " to " + outcome.End
		}
		tw.AppendRow(table.Row{i + 1, outcome.OutputFile, rangeCol, status})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})

	return tw.Render()
}
