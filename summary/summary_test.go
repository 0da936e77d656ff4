/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package summary

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"chainguard.dev/tfvalidate/diagnostics"
	"chainguard.dev/tfvalidate/workflow"
	"github.com/google/go-cmp/cmp"
)

type recorded struct {
	level   string
	message string
	a       workflow.Annotation
}

type fakeSink struct {
	got []recorded
}

func (f *fakeSink) Error(m string, a workflow.Annotation) {
	f.got = append(f.got, recorded{"error", m, a})
}

func (f *fakeSink) Warning(m string, a workflow.Annotation) {
	f.got = append(f.got, recorded{"warning", m, a})
}

func (f *fakeSink) Notice(m string, a workflow.Annotation) {
	f.got = append(f.got, recorded{"notice", m, a})
}

func diag(sev diagnostics.Severity, raw, file, summary, detail, snippet string) diagnostics.Diagnostic {
	return diagnostics.Diagnostic{
		Severity:    sev,
		RawSeverity: raw,
		Summary:     summary,
		Detail:      detail,
		Range: diagnostics.Range{
			Filename: file,
			Start:    diagnostics.Position{Line: 3, Column: 3},
			End:      diagnostics.Position{Line: 4, Column: 14},
		},
		Snippet: diagnostics.Snippet{Context: snippet},
	}
}

func TestRenderValid(t *testing.T) {
	sink := &fakeSink{}
	got := Render(context.Background(), &diagnostics.Report{FormatVersion: "1.1", Valid: true}, sink)

	if want := "## :white_check_mark: Validation successful\n"; got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
	if len(sink.got) != 0 {
		t.Errorf("annotations = %v, want none", sink.got)
	}
}

func TestRenderValidWithWarnings(t *testing.T) {
	sink := &fakeSink{}
	report := &diagnostics.Report{
		Valid:        true,
		WarningCount: 2,
		Diagnostics: []diagnostics.Diagnostic{
			diag(diagnostics.SeverityWarning, "warning", "a.tf", "first", "d1", ""),
			diag(diagnostics.SeverityWarning, "warning", "b.tf", "second", "d2", ""),
		},
	}

	got := Render(context.Background(), report, sink)
	if want := "## :white_check_mark: Validation successful\n"; got != want {
		t.Errorf("Render() = %q, want only the success heading", got)
	}
	if len(sink.got) != 2 {
		t.Errorf("got %d annotations, want 2", len(sink.got))
	}
}

func TestRenderFailure(t *testing.T) {
	sink := &fakeSink{}
	report := &diagnostics.Report{
		FormatVersion: "1.0",
		ErrorCount:    1,
		WarningCount:  1,
		Diagnostics: []diagnostics.Diagnostic{
			diag(diagnostics.SeverityError, "error", "main.tf", "Unsupported argument", "Not expected here.", `resource "aws_s3_bucket" "logs"`),
			diag(diagnostics.SeverityUnknown, "info", "main.tf", "Odd", "Who knows.", ""),
			diag(diagnostics.SeverityWarning, "warning", "vars.tf", "Deprecated", "Use something else.", ""),
		},
	}

	got := Render(context.Background(), report, sink)
	want := "## :x: Validation failed\n" +
		"Found 1 errors\n\n" +
		"Found 1 warnings\n\n" +
		"### Validation details\n" +
		"\n---\n" +
		"#### :x: main.tf : Unsupported argument\n" +
		"```terraform\nresource \"aws_s3_bucket\" \"logs\"\n```\n" +
		"Not expected here.\n" +
		"\n---\n" +
		"#### :warning: vars.tf : Deprecated\n" +
		"```terraform\n\n```\n" +
		"Use something else.\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Render() mismatch (-want +got):\n%s", diff)
	}

	loc := func(file, title string) workflow.Annotation {
		return workflow.Annotation{Title: title, File: file, StartLine: 3, EndLine: 4, StartColumn: 3, EndColumn: 14}
	}
	wantAnns := []recorded{
		{"error", "Not expected here.", loc("main.tf", "Unsupported argument")},
		{"notice", "Who knows.", loc("main.tf", "Odd")},
		{"warning", "Use something else.", loc("vars.tf", "Deprecated")},
	}
	if diff := cmp.Diff(wantAnns, sink.got, cmp.AllowUnexported(recorded{})); diff != "" {
		t.Errorf("annotations mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderOmitsZeroCounts(t *testing.T) {
	report := &diagnostics.Report{
		ErrorCount: 2,
		Diagnostics: []diagnostics.Diagnostic{
			diag(diagnostics.SeverityError, "error", "a.tf", "one", "d", ""),
			diag(diagnostics.SeverityError, "error", "a.tf", "two", "d", ""),
		},
	}
	got := Render(context.Background(), report, &fakeSink{})
	if !strings.Contains(got, "Found 2 errors") {
		t.Errorf("Render() = %q, want error count", got)
	}
	if strings.Contains(got, "warnings") {
		t.Errorf("Render() = %q, want no warning count line", got)
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	report := &diagnostics.Report{
		ErrorCount: 1,
		Diagnostics: []diagnostics.Diagnostic{
			diag(diagnostics.SeverityError, "error", "a.tf", "one", "d", "ctx"),
		},
	}
	first := Render(context.Background(), report, &fakeSink{})
	second := Render(context.Background(), report, &fakeSink{})
	if first != second {
		t.Errorf("Render() differs between runs:\n%s\n---\n%s", first, second)
	}
}

func TestBuilderCodeBlockFence(t *testing.T) {
	var b Builder
	got := b.CodeBlock("a ``` b", "hcl").String()
	if want := "````hcl\na ``` b\n````\n"; got != want {
		t.Errorf("CodeBlock() = %q, want %q", got, want)
	}
}

func TestBuilderHeadingClamp(t *testing.T) {
	var b Builder
	got := b.Heading("x", 9).Heading("y", 0).String()
	if want := "###### x\n# y\n"; got != want {
		t.Errorf("Heading() = %q, want %q", got, want)
	}
}

func TestOverview(t *testing.T) {
	report := &diagnostics.Report{
		Diagnostics: []diagnostics.Diagnostic{
			diag(diagnostics.SeverityError, "error", "main.tf", "Unsupported argument", "", ""),
			{Severity: diagnostics.SeverityWarning, RawSeverity: "warning", Summary: "No range"},
			diag(diagnostics.SeverityUnknown, "info", "x.tf", "Odd", "", ""),
		},
	}

	var buf bytes.Buffer
	if err := Overview(&buf, report); err != nil {
		t.Fatalf("Overview() = %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "| Severity") {
		t.Errorf("Overview() = %q, want a markdown table with unformatted headers", out)
	}
	for _, want := range []string{"Severity", "Summary", "main.tf", "Unsupported argument", "No range", "info", "x.tf"} {
		if !strings.Contains(out, want) {
			t.Errorf("Overview() output missing %q:\n%s", want, out)
		}
	}
}

func TestOverviewEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Overview(&buf, &diagnostics.Report{Valid: true}); err != nil {
		t.Fatalf("Overview() = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Overview() wrote %q, want nothing", buf.String())
	}
}
