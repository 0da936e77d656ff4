/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package action wires the CLI resolver, validator, summary renderer and
// check run reporter into a single validation run.
package action

import (
	"context"
	"errors"
	"fmt"

	"chainguard.dev/tfvalidate/checkrun"
	"chainguard.dev/tfvalidate/clifinder"
	"chainguard.dev/tfvalidate/diagnostics"
	"chainguard.dev/tfvalidate/summary"
	"chainguard.dev/tfvalidate/validator"
	"chainguard.dev/tfvalidate/verdict"
	"chainguard.dev/tfvalidate/workflow"
	"github.com/chainguard-dev/clog"
)

var titles = map[string]string{
	clifinder.ToolTofu:      "OpenTofu validation",
	clifinder.ToolTerraform: "Terraform validation",
}

// Option configures Run.
type Option func(*runner)

// WithRunner replaces the subprocess runner.
func WithRunner(r validator.Runner) Option {
	return func(rn *runner) { rn.exec = r }
}

// WithChecksClient replaces the GitHub checks client that would otherwise be
// built from Config.Token.
func WithChecksClient(c checkrun.ChecksClient) Option {
	return func(rn *runner) { rn.checks = c }
}

// WithCommands directs workflow commands to c instead of stdout.
func WithCommands(c *workflow.Commands) Option {
	return func(rn *runner) { rn.commands = c }
}

type runner struct {
	exec     validator.Runner
	checks   checkrun.ChecksClient
	commands *workflow.Commands
}

// Result is the outcome of a completed run.
type Result struct {
	Verdict verdict.Verdict
	CLI     *clifinder.CLI
	Report  *diagnostics.Report
}

// Run validates the configured working directory and reports the results.
//
// A success summary is written only after check run reporting succeeds, so a
// run that fails to report never shows a success heading. Log annotations and
// failure summaries are written before reporting starts.
func Run(ctx context.Context, cfg *Config, opts ...Option) (*Result, error) {
	rn := &runner{
		exec:     validator.ExecRunner{},
		commands: workflow.Stdout(),
	}
	for _, opt := range opts {
		opt(rn)
	}

	clog.InfoContextf(ctx, "Starting configuration validation")

	dir, err := cfg.ResolveWorkingDirectory()
	if err != nil {
		return nil, err
	}

	rn.commands.Group("Finding validator CLI")
	cli, err := clifinder.Resolve(ctx, clifinder.Config{
		ExplicitPath: cfg.CLIPath,
		TofuDir:      cfg.TofuCLIPath,
		TerraformDir: cfg.TerraformCLIPath,
	})
	rn.commands.EndGroup()
	if err != nil {
		return nil, err
	}

	inv := validator.New(validator.WithRunner(rn.exec), validator.WithCommands(rn.commands))
	report, err := inv.Invoke(ctx, cli, dir, cfg.Init)
	if err != nil {
		return nil, err
	}

	doc := summary.Render(ctx, report, rn.commands)
	if len(report.Diagnostics) > 0 {
		rn.commands.Group("Validation overview")
		if err := summary.Overview(rn.commands.Writer(), report); err != nil {
			clog.WarnContextf(ctx, "Rendering overview: %v", err)
		}
		rn.commands.EndGroup()
	}

	// Failure summaries go out before reporting, success summaries only after.
	if !report.Valid {
		if err := writeSummary(ctx, cfg, doc); err != nil {
			return nil, err
		}
	}
	if err := rn.report(ctx, cfg, cli, dir, report); err != nil {
		return nil, fmt.Errorf("reporting to check run: %w", err)
	}
	if report.Valid {
		if err := writeSummary(ctx, cfg, doc); err != nil {
			return nil, err
		}
	}

	v := verdict.Decide(report, cfg.StrictMode)
	clog.InfoContextf(ctx, "Validation verdict: %s (%d errors, %d warnings, strict=%t)", v, report.ErrorCount, report.WarningCount, cfg.StrictMode)
	return &Result{Verdict: v, CLI: cli, Report: report}, nil
}

func writeSummary(ctx context.Context, cfg *Config, doc string) error {
	if cfg.StepSummary == "" {
		clog.DebugContextf(ctx, "No step summary file configured, skipping summary")
		return nil
	}
	return workflow.WriteSummary(cfg.StepSummary, doc)
}

func (rn *runner) report(ctx context.Context, cfg *Config, cli *clifinder.CLI, dir string, report *diagnostics.Report) error {
	client := rn.checks
	if client == nil {
		if cfg.Token == "" {
			rn.commands.Notice("No token configured, skipping check run annotations", workflow.Annotation{})
			return nil
		}
		gh, err := NewGitHubClient(ctx, cfg.Token, cfg.APIURL)
		if err != nil {
			return err
		}
		client = checkrun.NewGitHubChecks(gh)
	}

	owner, repo, err := cfg.OwnerRepo()
	if err != nil {
		return err
	}
	name := cfg.CheckRunName()
	if name == "" {
		return errors.New("no check run name configured")
	}

	opts := []checkrun.Option{checkrun.WithPathPrefix(cfg.PathPrefix(dir))}
	if title, ok := titles[cli.Name]; ok {
		opts = append(opts, checkrun.WithTitle(title))
	}
	return checkrun.New(client, checkrun.Ref{
		Owner: owner,
		Repo:  repo,
		SHA:   cfg.SHA,
		Name:  name,
	}, opts...).Report(ctx, report)
}
