package main

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type column struct {
	title string
	align text.Align
}

var (
	sessionColumns = []column{
		{"ID", text.AlignLeft},
		{"Mode", text.AlignLeft},
		{"Listing", text.AlignLeft},
		{"Name", text.AlignLeft},
		{"Step", text.AlignLeft},
		{"Images", text.AlignRight},
		{"Updated", text.AlignLeft},
	}
	imageColumns = []column{
		{"#", text.AlignRight},
		{"File", text.AlignLeft},
		{"Original", text.AlignRight},
		{"Encoded", text.AlignRight},
		{"Size", text.AlignRight},
	}
	reviewColumns = []column{
		{"Section", text.AlignLeft},
		{"Field", text.AlignLeft},
		{"Value", text.AlignLeft},
	}
)

// renderTable draws rows under columns. Blank cells render as "-" except in
// the first column, and a nil row draws a separator line.
func renderTable(columns []column, rows [][]string) string {
	if len(columns) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(columns))
	configs := make([]table.ColumnConfig, len(columns))
	for i, col := range columns {
		header[i] = col.title
		configs[i] = table.ColumnConfig{
			Number:      i + 1,
			Align:       col.align,
			AlignHeader: text.AlignLeft,
		}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, row := range rows {
		if row == nil {
			tw.AppendSeparator()
			continue
		}
		r := make(table.Row, len(columns))
		for i := range columns {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			if i > 0 && strings.TrimSpace(cell) == "" {
				cell = "-"
			}
			r[i] = cell
		}
		tw.AppendRow(r)
	}

	return tw.Render()
}
