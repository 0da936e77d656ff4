/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package action

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v84/github"
	"golang.org/x/oauth2"
)

const publicAPIURL = "https://api.github.com"

// NewGitHubClient returns a client authenticated with token. An apiURL other
// than the public API is treated as a GitHub Enterprise Server endpoint.
func NewGitHubClient(ctx context.Context, token, apiURL string) (*github.Client, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	client := github.NewClient(oauth2.NewClient(ctx, ts))

	if apiURL == "" || strings.TrimSuffix(apiURL, "/") == publicAPIURL {
		return client, nil
	}
	client, err := client.WithEnterpriseURLs(apiURL, apiURL)
	if err != nil {
		return nil, fmt.Errorf("configuring GitHub API URL %s: %w", apiURL, err)
	}
	return client, nil
}
