/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package verdict decides whether a validation run passes.
package verdict

import "chainguard.dev/tfvalidate/diagnostics"

// Verdict is the outcome of a validation run.
type Verdict int

const (
	Pass Verdict = iota
	Fail
)

func (v Verdict) String() string {
	if v == Pass {
		return "pass"
	}
	return "fail"
}

// Decide fails a report with errors, and in strict mode one with warnings.
// The counts reported by the validator are used, not the diagnostic list.
func Decide(report *diagnostics.Report, strict bool) Verdict {
	switch {
	case report.ErrorCount > 0:
		return Fail
	case report.WarningCount > 0 && strict:
		return Fail
	default:
		return Pass
	}
}
