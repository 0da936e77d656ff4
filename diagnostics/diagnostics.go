/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package diagnostics models the report emitted by `validate -json` for the
// tofu and terraform CLIs.
package diagnostics

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// SupportedFormatMajor is the format_version prefix this package understands.
const SupportedFormatMajor = "1."

var (
	// ErrParse is returned when the validator output is not a valid report.
	ErrParse = errors.New("parsing validation output")

	// ErrUnsupportedFormat is returned when format_version has a major
	// version other than SupportedFormatMajor.
	ErrUnsupportedFormat = errors.New("unsupported validation output format")
)

// Severity is the level a diagnostic was reported at.
type Severity int

const (
	SeverityUnknown Severity = iota
	SeverityError
	SeverityWarning
)

// String returns the lowercase name used by the validator.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// ParseSeverity maps the validator's severity string onto a Severity.
func ParseSeverity(s string) Severity {
	switch s {
	case "error":
		return SeverityError
	case "warning":
		return SeverityWarning
	default:
		return SeverityUnknown
	}
}

// Position is a 1-based line and column in a source file.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Range locates a diagnostic in a file.
type Range struct {
	Filename string   `json:"filename"`
	Start    Position `json:"start"`
	End      Position `json:"end"`
}

// Snippet is the source excerpt attached to a diagnostic.
type Snippet struct {
	// Context is the header of the enclosing block, e.g. `resource "aws_s3_bucket" "logs"`.
	Context string `json:"context"`
	Code    string `json:"code"`
}

// Diagnostic is a single issue reported by the validator.
type Diagnostic struct {
	Severity Severity
	// RawSeverity is the severity string exactly as the validator emitted it.
	RawSeverity string
	Summary     string
	Detail      string
	Range       Range
	Snippet     Snippet
}

// HasRange reports whether the diagnostic is anchored to a file.
func (d Diagnostic) HasRange() bool {
	return d.Range.Filename != ""
}

// SnippetContext returns the snippet context, or "" when none was emitted.
func (d Diagnostic) SnippetContext() string {
	return d.Snippet.Context
}

// Report is the parsed output of a validate run.
type Report struct {
	FormatVersion string
	Valid         bool
	ErrorCount    int
	WarningCount  int
	Diagnostics   []Diagnostic

	// ToolValid is the "valid" field as emitted by the validator, kept so
	// callers can log when it disagrees with ErrorCount.
	ToolValid bool
}

// wire types mirror the JSON document; nullable objects are pointers.
type wireReport struct {
	FormatVersion string           `json:"format_version"`
	Valid         bool             `json:"valid"`
	ErrorCount    int              `json:"error_count"`
	WarningCount  int              `json:"warning_count"`
	Diagnostics   []wireDiagnostic `json:"diagnostics"`
}

type wireDiagnostic struct {
	Severity string   `json:"severity"`
	Summary  string   `json:"summary"`
	Detail   string   `json:"detail"`
	Range    *Range   `json:"range,omitempty"`
	Snippet  *wireSnp `json:"snippet,omitempty"`
}

type wireSnp struct {
	Context *string `json:"context"`
	Code    string  `json:"code"`
}

// Parse decodes the stdout of `validate -json`.
//
// The report's Valid field is derived from ErrorCount, which is the only
// authority on validity. The format version is checked before anything else
// in the document is trusted.
func Parse(b []byte) (*Report, error) {
	var w wireReport
	if err := json.Unmarshal(b, &w); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	if w.FormatVersion == "" {
		return nil, fmt.Errorf("%w: missing format_version", ErrParse)
	}
	if !strings.HasPrefix(w.FormatVersion, SupportedFormatMajor) {
		return nil, fmt.Errorf("%w: validation output version %s is not supported", ErrUnsupportedFormat, w.FormatVersion)
	}
	if w.ErrorCount < 0 || w.WarningCount < 0 {
		return nil, fmt.Errorf("%w: negative diagnostic count", ErrParse)
	}

	r := &Report{
		FormatVersion: w.FormatVersion,
		Valid:         w.ErrorCount == 0,
		ToolValid:     w.Valid,
		ErrorCount:    w.ErrorCount,
		WarningCount:  w.WarningCount,
		Diagnostics:   make([]Diagnostic, 0, len(w.Diagnostics)),
	}
	for _, wd := range w.Diagnostics {
		d := Diagnostic{
			Severity:    ParseSeverity(wd.Severity),
			RawSeverity: wd.Severity,
			Summary:     wd.Summary,
			Detail:      wd.Detail,
		}
		if wd.Range != nil {
			d.Range = *wd.Range
		}
		if wd.Snippet != nil {
			d.Snippet.Code = wd.Snippet.Code
			if wd.Snippet.Context != nil {
				d.Snippet.Context = *wd.Snippet.Context
			}
		}
		r.Diagnostics = append(r.Diagnostics, d)
	}
	return r, nil
}

// Count returns the number of diagnostics in the list with the given severity.
// This may differ from ErrorCount/WarningCount if the tool's counts disagree
// with its diagnostic list.
func (r *Report) Count(s Severity) int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Severity == s {
			n++
		}
	}
	return n
}
