/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package clifinder locates the tofu or terraform executable to validate with.
//
// Candidates are tried in a fixed order and the first one found wins:
//
//  1. An explicitly configured path. If it is configured but missing,
//     Resolve fails with ErrExplicitCLINotFound rather than falling through.
//  2. tofu-bin in the directory named by TOFU_CLI_PATH, as installed by the
//     setup-opentofu wrapper.
//  3. terraform-bin in the directory named by TERRAFORM_CLI_PATH, as installed
//     by the setup-terraform wrapper.
//  4. tofu, then terraform, on PATH.
//
// The returned CLI carries the tool family name ("tofu" or "terraform") with
// wrapper aliases such as tofu-bin normalized away.
package clifinder
