/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package workflow emits GitHub Actions workflow commands and writes the
// step summary file.
package workflow

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/sethvargo/go-githubactions"
)

// Annotation locates a workflow annotation in a source file. Zero values are
// omitted from the command.
type Annotation struct {
	Title       string
	File        string
	StartLine   int
	EndLine     int
	StartColumn int
	EndColumn   int
}

func (a Annotation) fields() map[string]string {
	fields := map[string]string{}
	if a.Title != "" {
		fields["title"] = a.Title
	}
	if a.File != "" {
		fields["file"] = a.File
	}
	for k, v := range map[string]int{
		"line":      a.StartLine,
		"endLine":   a.EndLine,
		"col":       a.StartColumn,
		"endColumn": a.EndColumn,
	} {
		if v > 0 {
			fields[k] = strconv.Itoa(v)
		}
	}
	return fields
}

// Commands writes workflow commands to the runner's log.
type Commands struct {
	action *githubactions.Action
	w      io.Writer
}

// New returns Commands writing to w.
func New(w io.Writer) *Commands {
	return &Commands{
		action: githubactions.New(githubactions.WithWriter(w)),
		w:      w,
	}
}

// Stdout returns Commands writing to os.Stdout.
func Stdout() *Commands {
	return New(os.Stdout)
}

// Error emits an error annotation.
func (c *Commands) Error(message string, a Annotation) {
	c.action.WithFieldsMap(a.fields()).Errorf("%s", message)
}

// Warning emits a warning annotation.
func (c *Commands) Warning(message string, a Annotation) {
	c.action.WithFieldsMap(a.fields()).Warningf("%s", message)
}

// Notice emits a notice annotation.
func (c *Commands) Notice(message string, a Annotation) {
	c.action.WithFieldsMap(a.fields()).Noticef("%s", message)
}

// Debug emits a debug message, shown only when step debug logging is on.
func (c *Commands) Debug(message string) {
	c.action.Debugf("%s", message)
}

// Group starts a collapsible log group. Every Group must be closed with
// EndGroup.
func (c *Commands) Group(title string) {
	c.action.Group(title)
}

// EndGroup closes the innermost log group.
func (c *Commands) EndGroup() {
	c.action.EndGroup()
}

// Writer returns the underlying writer, for plain log output inside a group.
func (c *Commands) Writer() io.Writer {
	return c.w
}

// WriteSummary replaces the contents of the step summary file at path with doc.
// Unlike githubactions.AddStepSummary it truncates the file, so a rerun of
// the step leaves a single document.
func WriteSummary(path, doc string) error {
	if path == "" {
		return errors.New("no step summary file configured")
	}
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("writing step summary: %w", err)
	}
	return nil
}
