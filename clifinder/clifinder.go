/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package clifinder

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/chainguard-dev/clog"
)

var (
	// ErrExplicitCLINotFound is returned when Config.ExplicitPath is set but
	// does not name an executable. No other candidate is tried.
	ErrExplicitCLINotFound = errors.New("configured CLI path not found")

	// ErrCLINotFound is returned when no candidate resolves.
	ErrCLINotFound = errors.New("CLI not found")
)

const (
	// ToolTofu and ToolTerraform are the canonical tool family names.
	ToolTofu      = "tofu"
	ToolTerraform = "terraform"
)

// aliases maps wrapper binary names onto their tool family.
var aliases = map[string]string{
	"tofu-bin":      ToolTofu,
	"terraform-bin": ToolTerraform,
}

// Config holds the inputs the resolver considers.
type Config struct {
	// ExplicitPath is a user-supplied path to the CLI.
	ExplicitPath string
	// TofuDir is the directory setup-opentofu installed tofu-bin into.
	TofuDir string
	// TerraformDir is the directory setup-terraform installed terraform-bin into.
	TerraformDir string
}

// CLI is a resolved validator executable.
type CLI struct {
	// Path is the executable to run.
	Path string
	// Name is the tool family, e.g. "tofu", used for logging.
	Name string
}

// candidate looks for a CLI. A nil CLI with a nil error means not found.
type candidate struct {
	name string
	find func(ctx context.Context) (*CLI, error)
}

// Resolve returns the first CLI found, trying in order: the explicit path,
// tofu-bin under TofuDir, terraform-bin under TerraformDir, then tofu and
// terraform on PATH.
func Resolve(ctx context.Context, cfg Config) (*CLI, error) {
	suffix := exeSuffix()
	candidates := []candidate{{
		name: "explicit path",
		find: func(ctx context.Context) (*CLI, error) {
			if cfg.ExplicitPath == "" {
				return nil, nil
			}
			p := cfg.ExplicitPath
			if !strings.HasSuffix(p, suffix) {
				p += suffix
			}
			found, err := exec.LookPath(p)
			if err != nil {
				clog.WarnContextf(ctx, "CLI path from input not found: %s", p)
				return nil, fmt.Errorf("%w: %s", ErrExplicitCLINotFound, p)
			}
			return newCLI(found), nil
		},
	}, {
		name: "tofu-bin",
		find: inDir(cfg.TofuDir, "tofu-bin"+suffix),
	}, {
		name: "terraform-bin",
		find: inDir(cfg.TerraformDir, "terraform-bin"+suffix),
	}, {
		name: ToolTofu,
		find: onPath(ToolTofu + suffix),
	}, {
		name: ToolTerraform,
		find: onPath(ToolTerraform + suffix),
	}}

	for _, c := range candidates {
		clog.DebugContextf(ctx, "Looking for %s", c.name)
		cli, err := c.find(ctx)
		if err != nil {
			return nil, err
		}
		if cli != nil {
			clog.InfoContextf(ctx, "Using %s binary at %s", cli.Name, cli.Path)
			return cli, nil
		}
		clog.DebugContextf(ctx, "%s not found", c.name)
	}
	return nil, ErrCLINotFound
}

func inDir(dir, bin string) func(context.Context) (*CLI, error) {
	return func(context.Context) (*CLI, error) {
		if dir == "" {
			return nil, nil
		}
		found, err := exec.LookPath(filepath.Join(dir, bin))
		if err != nil {
			return nil, nil
		}
		return newCLI(found), nil
	}
}

func onPath(bin string) func(context.Context) (*CLI, error) {
	return func(context.Context) (*CLI, error) {
		found, err := exec.LookPath(bin)
		if err != nil {
			return nil, nil
		}
		return newCLI(found), nil
	}
}

func newCLI(path string) *CLI {
	return &CLI{Path: path, Name: ToolName(path)}
}

// ToolName derives the tool family from an executable path: the basename
// without the executable suffix, with wrapper aliases normalized.
func ToolName(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), exeSuffix())
	if name, ok := aliases[base]; ok {
		return name
	}
	return base
}

func exeSuffix() string {
	if runtime.GOOS == "windows" {
		return ".exe"
	}
	return ""
}
