/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package summary renders a validation report as a step summary document and
// as workflow log annotations.
package summary

import (
	"context"
	"fmt"

	"chainguard.dev/tfvalidate/diagnostics"
	"chainguard.dev/tfvalidate/workflow"
	"github.com/chainguard-dev/clog"
)

const (
	successHeading = ":white_check_mark: Validation successful"
	failureHeading = ":x: Validation failed"
	detailsHeading = "Validation details"

	snippetLanguage = "terraform"
)

// AnnotationSink receives one log annotation per diagnostic.
// *workflow.Commands implements it.
type AnnotationSink interface {
	Error(message string, a workflow.Annotation)
	Warning(message string, a workflow.Annotation)
	Notice(message string, a workflow.Annotation)
}

var _ AnnotationSink = (*workflow.Commands)(nil)

// Render builds the summary document for report and emits a log annotation
// for each diagnostic to sink.
//
// A valid report renders as a single success heading. Otherwise the document
// has a failure heading, the error and warning counts, and a section per
// diagnostic in the order the validator reported them. Diagnostics with an
// unknown severity are logged, annotated as notices and left out of the
// document.
func Render(ctx context.Context, report *diagnostics.Report, sink AnnotationSink) string {
	var b Builder
	if report.Valid {
		clog.InfoContextf(ctx, "Configuration is valid")
		b.Heading(successHeading, 2)
	} else {
		b.Heading(failureHeading, 2)
		// The blank line keeps the counts as separate paragraphs.
		if report.ErrorCount > 0 {
			b.Raw(fmt.Sprintf("Found %d errors", report.ErrorCount)).EOL().EOL()
		}
		if report.WarningCount > 0 {
			b.Raw(fmt.Sprintf("Found %d warnings", report.WarningCount)).EOL().EOL()
		}
		b.Heading(detailsHeading, 3)
	}

	for _, d := range report.Diagnostics {
		a := workflow.Annotation{
			Title:       d.Summary,
			File:        d.Range.Filename,
			StartLine:   d.Range.Start.Line,
			EndLine:     d.Range.End.Line,
			StartColumn: d.Range.Start.Column,
			EndColumn:   d.Range.End.Column,
		}

		var marker string
		switch d.Severity {
		case diagnostics.SeverityError:
			sink.Error(d.Detail, a)
			marker = ":x:"
		case diagnostics.SeverityWarning:
			sink.Warning(d.Detail, a)
			marker = ":warning:"
		default:
			clog.WarnContextf(ctx, "Unknown severity: %s", d.RawSeverity)
			sink.Notice(d.Detail, a)
			continue
		}

		if report.Valid {
			continue
		}
		b.Separator().
			Heading(fmt.Sprintf("%s %s : %s", marker, d.Range.Filename, d.Summary), 4).
			CodeBlock(d.SnippetContext(), snippetLanguage).
			Raw(d.Detail).EOL()
	}

	return b.String()
}
