/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package diagnostics

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const failingReport = `{
  "format_version": "1.0",
  "valid": false,
  "error_count": 1,
  "warning_count": 1,
  "diagnostics": [
    {
      "severity": "error",
      "summary": "Unsupported argument",
      "detail": "An argument named \"bucket_name\" is not expected here.",
      "range": {
        "filename": "main.tf",
        "start": {"line": 3, "column": 3, "byte": 42},
        "end": {"line": 3, "column": 14, "byte": 53}
      },
      "snippet": {
        "context": "resource \"aws_s3_bucket\" \"logs\"",
        "code": "  bucket_name = \"logs\"",
        "start_line": 3,
        "highlight_start_offset": 2,
        "highlight_end_offset": 13,
        "values": []
      }
    },
    {
      "severity": "warning",
      "summary": "Deprecated attribute",
      "detail": "The attribute \"acl\" is deprecated.",
      "range": {
        "filename": "modules/logs/main.tf",
        "start": {"line": 10, "column": 1},
        "end": {"line": 12, "column": 2}
      },
      "snippet": {"context": null, "code": "acl = \"private\""}
    }
  ]
}`

func TestParse(t *testing.T) {
	got, err := Parse([]byte(failingReport))
	if err != nil {
		t.Fatalf("Parse() = %v", err)
	}

	want := &Report{
		FormatVersion: "1.0",
		Valid:         false,
		ToolValid:     false,
		ErrorCount:    1,
		WarningCount:  1,
		Diagnostics: []Diagnostic{{
			Severity:    SeverityError,
			RawSeverity: "error",
			Summary:     "Unsupported argument",
			Detail:      `An argument named "bucket_name" is not expected here.`,
			Range: Range{
				Filename: "main.tf",
				Start:    Position{Line: 3, Column: 3},
				End:      Position{Line: 3, Column: 14},
			},
			Snippet: Snippet{
				Context: `resource "aws_s3_bucket" "logs"`,
				Code:    `  bucket_name = "logs"`,
			},
		}, {
			Severity:    SeverityWarning,
			RawSeverity: "warning",
			Summary:     "Deprecated attribute",
			Detail:      `The attribute "acl" is deprecated.`,
			Range: Range{
				Filename: "modules/logs/main.tf",
				Start:    Position{Line: 10, Column: 1},
				End:      Position{Line: 12, Column: 2},
			},
			Snippet: Snippet{Code: `acl = "private"`},
		}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseValidReport(t *testing.T) {
	got, err := Parse([]byte(`{"format_version":"1.1","valid":true,"error_count":0,"warning_count":0,"diagnostics":[]}`))
	if err != nil {
		t.Fatalf("Parse() = %v", err)
	}
	if !got.Valid {
		t.Error("Valid = false, want true")
	}
	if len(got.Diagnostics) != 0 {
		t.Errorf("len(Diagnostics) = %d, want 0", len(got.Diagnostics))
	}
}

func TestParseValidDerivedFromErrorCount(t *testing.T) {
	// Only warnings: the tool says valid, and so do we.
	got, err := Parse([]byte(`{"format_version":"1.0","valid":true,"error_count":0,"warning_count":2,"diagnostics":[]}`))
	if err != nil {
		t.Fatalf("Parse() = %v", err)
	}
	if !got.Valid {
		t.Error("Valid = false, want true for a warnings-only report")
	}

	// The tool's flag disagrees with its counts; error_count wins.
	got, err = Parse([]byte(`{"format_version":"1.0","valid":true,"error_count":3,"warning_count":0,"diagnostics":[]}`))
	if err != nil {
		t.Fatalf("Parse() = %v", err)
	}
	if got.Valid {
		t.Error("Valid = true, want false when error_count > 0")
	}
	if !got.ToolValid {
		t.Error("ToolValid = false, want the tool's value preserved")
	}
}

func TestParseMissingRange(t *testing.T) {
	got, err := Parse([]byte(`{"format_version":"1.0","valid":false,"error_count":1,"warning_count":0,"diagnostics":[
		{"severity":"error","summary":"Module not installed","detail":"Run init."}
	]}`))
	if err != nil {
		t.Fatalf("Parse() = %v", err)
	}
	d := got.Diagnostics[0]
	if d.HasRange() {
		t.Errorf("HasRange() = true, want false for %+v", d.Range)
	}
	if d.SnippetContext() != "" {
		t.Errorf("SnippetContext() = %q, want empty", d.SnippetContext())
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{{
		name:    "not json",
		input:   "Error: Terraform initialized in an empty directory!",
		wantErr: ErrParse,
	}, {
		name:    "empty",
		input:   "",
		wantErr: ErrParse,
	}, {
		name:    "missing format version",
		input:   `{"valid":true,"error_count":0,"warning_count":0}`,
		wantErr: ErrParse,
	}, {
		name:    "major version 2",
		input:   `{"format_version":"2.0","valid":true,"error_count":0,"warning_count":0,"diagnostics":[]}`,
		wantErr: ErrUnsupportedFormat,
	}, {
		name:    "version without dot",
		input:   `{"format_version":"1","valid":true,"error_count":0,"warning_count":0}`,
		wantErr: ErrUnsupportedFormat,
	}, {
		name:    "negative count",
		input:   `{"format_version":"1.0","valid":true,"error_count":-1,"warning_count":0}`,
		wantErr: ErrParse,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Parse() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSeverity(t *testing.T) {
	for _, s := range []string{"error", "warning"} {
		if got := ParseSeverity(s).String(); got != s {
			t.Errorf("ParseSeverity(%q).String() = %q", s, got)
		}
	}
	if got := ParseSeverity("info"); got != SeverityUnknown {
		t.Errorf("ParseSeverity(info) = %v, want SeverityUnknown", got)
	}
}

func TestCount(t *testing.T) {
	r, err := Parse([]byte(failingReport))
	if err != nil {
		t.Fatalf("Parse() = %v", err)
	}
	if got := r.Count(SeverityError); got != 1 {
		t.Errorf("Count(error) = %d, want 1", got)
	}
	if got := r.Count(SeverityUnknown); got != 0 {
		t.Errorf("Count(unknown) = %d, want 0", got)
	}
}
