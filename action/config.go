/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package action

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sethvargo/go-envconfig"
)

// Config is read once from the Actions environment at process start.
type Config struct {
	// Action inputs.
	CLIPath          string `env:"INPUT_CLI_PATH"`
	WorkingDirectory string `env:"INPUT_WORKING_DIRECTORY"`
	Init             bool   `env:"INPUT_INIT,default=true"`
	StrictMode       bool   `env:"INPUT_STRICT_MODE,default=false"`
	Token            string `env:"INPUT_TOKEN"`
	CheckName        string `env:"INPUT_CHECK_NAME"`

	// Install directories exported by setup-opentofu and setup-terraform.
	TofuCLIPath      string `env:"TOFU_CLI_PATH"`
	TerraformCLIPath string `env:"TERRAFORM_CLI_PATH"`

	// Workflow run context.
	Workspace   string `env:"GITHUB_WORKSPACE"`
	Repository  string `env:"GITHUB_REPOSITORY"`
	SHA         string `env:"GITHUB_SHA"`
	Job         string `env:"GITHUB_JOB"`
	APIURL      string `env:"GITHUB_API_URL,default=https://api.github.com"`
	StepSummary string `env:"GITHUB_STEP_SUMMARY"`
}

// LoadConfig reads the Config from the environment.
func LoadConfig(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("processing config: %w", err)
	}
	return &cfg, nil
}

// ResolveWorkingDirectory returns the directory to validate. A relative
// WorkingDirectory is taken relative to the workspace, and an empty one means
// the workspace itself.
func (c *Config) ResolveWorkingDirectory() (string, error) {
	base := c.Workspace
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getting working directory: %w", err)
		}
		base = wd
	}

	dir := c.WorkingDirectory
	switch {
	case dir == "":
		dir = base
	case !filepath.IsAbs(dir):
		dir = filepath.Join(base, dir)
	}

	fi, err := os.Stat(dir)
	if err != nil || !fi.IsDir() {
		return "", fmt.Errorf("working directory %s does not exist", dir)
	}
	return dir, nil
}

// PathPrefix returns dir relative to the workspace in slash form, or "" when
// dir is the workspace or lies outside it.
func (c *Config) PathPrefix(dir string) string {
	if c.Workspace == "" {
		return ""
	}
	rel, err := filepath.Rel(c.Workspace, dir)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ""
	}
	return filepath.ToSlash(rel)
}

// CheckRunName is the name of the check run to annotate: the configured name,
// or else the job name.
func (c *Config) CheckRunName() string {
	if c.CheckName != "" {
		return c.CheckName
	}
	return c.Job
}

// OwnerRepo splits Repository into its owner and name.
func (c *Config) OwnerRepo() (string, string, error) {
	owner, repo, ok := strings.Cut(c.Repository, "/")
	if !ok || owner == "" || repo == "" {
		return "", "", fmt.Errorf("invalid repository %q, want owner/name", c.Repository)
	}
	return owner, repo, nil
}
