/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package validator runs `init` and `validate -json` for a resolved CLI and
// parses the resulting diagnostics.
package validator

import (
	"context"
	"fmt"
	"strings"

	"chainguard.dev/tfvalidate/clifinder"
	"chainguard.dev/tfvalidate/diagnostics"
	"chainguard.dev/tfvalidate/workflow"
	"github.com/chainguard-dev/clog"
)

// ProcessError is returned when a subprocess the run depends on fails.
type ProcessError struct {
	Command  string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ProcessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("running %s: %v", e.Command, e.Err)
	}
	msg := fmt.Sprintf("%s exited with code %d", e.Command, e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

func (e *ProcessError) Unwrap() error { return e.Err }

// Option configures an Invoker.
type Option func(*Invoker)

// WithRunner replaces the subprocess runner (useful for tests).
func WithRunner(r Runner) Option {
	return func(i *Invoker) { i.runner = r }
}

// WithCommands directs log groups and streamed init output to c.
func WithCommands(c *workflow.Commands) Option {
	return func(i *Invoker) { i.commands = c }
}

// Invoker runs the validator CLI.
type Invoker struct {
	runner   Runner
	commands *workflow.Commands
}

// New constructs an Invoker.
func New(opts ...Option) *Invoker {
	i := &Invoker{
		runner:   ExecRunner{},
		commands: workflow.Stdout(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Invoke optionally runs `init -backend=false` and then `validate -json` in
// dir, returning the parsed report.
//
// A failing init aborts the run. The exit code of validate is ignored since
// the CLI exits non-zero whenever the configuration is invalid; the JSON on
// stdout is the result.
func (i *Invoker) Invoke(ctx context.Context, cli *clifinder.CLI, dir string, runInit bool) (*diagnostics.Report, error) {
	if runInit {
		if err := i.init(ctx, cli, dir); err != nil {
			return nil, err
		}
	}

	clog.InfoContextf(ctx, "Running %s validate", cli.Name)
	args := []string{"validate", "-json"}
	res, err := i.runner.Run(ctx, Command{Path: cli.Path, Args: args, Dir: dir})
	if err != nil {
		return nil, &ProcessError{Command: commandLine(cli, args), Err: err}
	}
	if len(res.Stderr) > 0 {
		clog.WarnContextf(ctx, "%s validate stderr: %s", cli.Name, strings.TrimSpace(string(res.Stderr)))
	}
	i.commands.Debug(fmt.Sprintf("%s validate exited with code %d", cli.Name, res.ExitCode))

	report, err := diagnostics.Parse(res.Stdout)
	if err != nil {
		return nil, fmt.Errorf("%s validate: %w", cli.Name, err)
	}
	if report.ToolValid != report.Valid {
		clog.WarnContextf(ctx, "%s reported valid=%t with %d errors; using the error count", cli.Name, report.ToolValid, report.ErrorCount)
	}
	if n := report.Count(diagnostics.SeverityError); n != report.ErrorCount {
		clog.WarnContextf(ctx, "%s reported error_count=%d but listed %d error diagnostics; using error_count", cli.Name, report.ErrorCount, n)
	}
	return report, nil
}

func (i *Invoker) init(ctx context.Context, cli *clifinder.CLI, dir string) error {
	i.commands.Group(fmt.Sprintf("Running %s init", cli.Name))
	defer i.commands.EndGroup()

	args := []string{"init", "-backend=false"}
	res, err := i.runner.Run(ctx, Command{
		Path:   cli.Path,
		Args:   args,
		Dir:    dir,
		Stream: i.commands.Writer(),
	})
	if err != nil {
		return &ProcessError{Command: commandLine(cli, args), Err: err}
	}
	if res.ExitCode != 0 {
		return &ProcessError{
			Command:  commandLine(cli, args),
			ExitCode: res.ExitCode,
			Stderr:   string(res.Stderr),
		}
	}
	return nil
}

func commandLine(cli *clifinder.CLI, args []string) string {
	return cli.Name + " " + strings.Join(args, " ")
}
