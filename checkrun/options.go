/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package checkrun

import "time"

const defaultTitle = "Terraform validation"

// Option customizes the Reporter.
type Option func(*Reporter)

// WithTitle sets the output title used when the check run has none.
func WithTitle(title string) Option {
	return func(r *Reporter) { r.title = title }
}

// WithPathPrefix joins prefix onto every annotation path. Use it when the
// validator ran in a subdirectory of the repository, since the validator
// reports file names relative to its working directory.
func WithPathPrefix(prefix string) Option {
	return func(r *Reporter) { r.pathPrefix = prefix }
}

// WithClock overrides the clock used for completed_at (useful for tests).
func WithClock(now func() time.Time) Option {
	return func(r *Reporter) { r.now = now }
}
