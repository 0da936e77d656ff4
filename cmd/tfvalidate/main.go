/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package main runs tofu or terraform validate against a working directory and
// reports the diagnostics to the GitHub Actions log, the job's check run and
// the step summary.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"chainguard.dev/tfvalidate/action"
	"chainguard.dev/tfvalidate/verdict"
	"chainguard.dev/tfvalidate/workflow"
	"github.com/chainguard-dev/clog"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var version = "dev"

const failMessage = "Terraform configuration is not valid"

var errInvalid = errors.New(failMessage)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Local runs may keep the Actions environment in a .env file.
	_ = godotenv.Load()

	ctx = clog.WithLogger(ctx, newLogger())

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errInvalid) {
			workflow.Stdout().Error(err.Error(), workflow.Annotation{})
		}
		os.Exit(1)
	}
}

func newLogger() *clog.Logger {
	level := slog.LevelInfo
	if os.Getenv("RUNNER_DEBUG") == "1" {
		level = slog.LevelDebug
	}
	return clog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func newRootCmd() *cobra.Command {
	var (
		cliPath, workingDir, checkName string
		runInit, strict                bool
	)

	cmd := &cobra.Command{
		Use:           "tfvalidate",
		Short:         "Validate Terraform or OpenTofu configuration and annotate the check run",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := action.LoadConfig(ctx)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("cli-path") {
				cfg.CLIPath = cliPath
			}
			if flags.Changed("working-directory") {
				cfg.WorkingDirectory = workingDir
			}
			if flags.Changed("check-name") {
				cfg.CheckName = checkName
			}
			if flags.Changed("init") {
				cfg.Init = runInit
			}
			if flags.Changed("strict-mode") {
				cfg.StrictMode = strict
			}

			res, err := action.Run(ctx, cfg)
			if err != nil {
				return err
			}
			if res.Verdict == verdict.Fail {
				workflow.Stdout().Error(failMessage, workflow.Annotation{})
				return fmt.Errorf("%w: %d errors, %d warnings", errInvalid, res.Report.ErrorCount, res.Report.WarningCount)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&cliPath, "cli-path", "", "path to the tofu or terraform executable (overrides INPUT_CLI_PATH)")
	cmd.Flags().StringVar(&workingDir, "working-directory", "", "directory to validate (overrides INPUT_WORKING_DIRECTORY)")
	cmd.Flags().StringVar(&checkName, "check-name", "", "name of the check run to annotate (overrides INPUT_CHECK_NAME)")
	cmd.Flags().BoolVar(&runInit, "init", true, "run init -backend=false before validating (overrides INPUT_INIT)")
	cmd.Flags().BoolVar(&strict, "strict-mode", false, "fail on warnings (overrides INPUT_STRICT_MODE)")
	return cmd
}
