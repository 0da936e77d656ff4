/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package summary

import (
	"fmt"
	"io"
	"strconv"

	"chainguard.dev/tfvalidate/diagnostics"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

var overviewHeaders = []string{"Severity", "File", "Line", "Summary"}

// newTable returns a markdown table with the overview headers.
func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w,
		tablewriter.WithHeader(overviewHeaders),
		tablewriter.WithHeaderAutoFormat(tw.Off),
		tablewriter.WithRenderer(renderer.NewBlueprint()),
		tablewriter.WithRendition(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleMarkdown),
			Borders: tw.Border{Left: tw.On, Right: tw.On, Top: tw.Off, Bottom: tw.Off},
		}),
	)
}

// Overview writes a table with one row per diagnostic to w. Nothing is
// written for a report without diagnostics.
func Overview(w io.Writer, report *diagnostics.Report) error {
	if len(report.Diagnostics) == 0 {
		return nil
	}
	table := newTable(w)
	for _, d := range report.Diagnostics {
		file, line := "-", "-"
		if d.HasRange() {
			file = d.Range.Filename
			line = strconv.Itoa(d.Range.Start.Line)
		}
		severity := d.Severity.String()
		if d.Severity == diagnostics.SeverityUnknown && d.RawSeverity != "" {
			severity = d.RawSeverity
		}
		if err := table.Append([]string{severity, file, line, d.Summary}); err != nil {
			return fmt.Errorf("appending row: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("rendering table: %w", err)
	}
	return nil
}
