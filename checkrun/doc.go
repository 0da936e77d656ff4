/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package checkrun publishes validation diagnostics as annotations on the
// workflow job's existing GitHub check run.
package checkrun
