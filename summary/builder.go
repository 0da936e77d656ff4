/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package summary

import (
	"fmt"
	"strings"
)

// Builder accumulates a GitHub-flavored markdown document.
type Builder struct {
	sb strings.Builder
}

// Heading adds a heading at level (clamped to 1-6).
func (b *Builder) Heading(text string, level int) *Builder {
	level = min(max(level, 1), 6)
	fmt.Fprintf(&b.sb, "%s %s\n", strings.Repeat("#", level), text)
	return b
}

// Raw adds text verbatim.
func (b *Builder) Raw(text string) *Builder {
	b.sb.WriteString(text)
	return b
}

// EOL adds a line break.
func (b *Builder) EOL() *Builder {
	b.sb.WriteString("\n")
	return b
}

// Separator adds a horizontal rule.
func (b *Builder) Separator() *Builder {
	b.sb.WriteString("\n---\n")
	return b
}

// CodeBlock adds a fenced code block. The fence is lengthened if code itself
// contains backtick runs.
func (b *Builder) CodeBlock(code, lang string) *Builder {
	fence := "```"
	for strings.Contains(code, fence) {
		fence += "`"
	}
	fmt.Fprintf(&b.sb, "%s%s\n%s\n%s\n", fence, lang, code, fence)
	return b
}

// String returns the document.
func (b *Builder) String() string {
	return b.sb.String()
}
