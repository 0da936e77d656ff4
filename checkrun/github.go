/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package checkrun

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-github/v84/github"
)

// GitHubChecks implements ChecksClient on a go-github client.
type GitHubChecks struct {
	client *github.Client
}

var _ ChecksClient = (*GitHubChecks)(nil)

// NewGitHubChecks returns a ChecksClient backed by client.
func NewGitHubChecks(client *github.Client) *GitHubChecks {
	return &GitHubChecks{client: client}
}

// ListCheckRunsForRef implements ChecksClient.
func (g *GitHubChecks) ListCheckRunsForRef(ctx context.Context, owner, repo, ref string, opts *github.ListCheckRunsOptions) (*github.ListCheckRunsResults, *github.Response, error) {
	return g.client.Checks.ListCheckRunsForRef(ctx, owner, repo, ref, opts)
}

// clearingUpdate is the body of an update that clears annotations.
// github.CheckRunOutput drops an empty annotation list (omitempty), so the
// field is declared here without it.
type clearingUpdate struct {
	Name   string         `json:"name"`
	Status *string        `json:"status,omitempty"`
	Output clearingOutput `json:"output"`
}

type clearingOutput struct {
	Title       *string                      `json:"title,omitempty"`
	Summary     *string                      `json:"summary,omitempty"`
	Annotations []*github.CheckRunAnnotation `json:"annotations"`
}

// UpdateCheckRun implements ChecksClient. An output with a non-nil, empty
// annotation list is sent as an explicit "annotations": [].
func (g *GitHubChecks) UpdateCheckRun(ctx context.Context, owner, repo string, checkRunID int64, opts github.UpdateCheckRunOptions) (*github.CheckRun, *github.Response, error) {
	if opts.Output == nil || opts.Output.Annotations == nil || len(opts.Output.Annotations) > 0 {
		return g.client.Checks.UpdateCheckRun(ctx, owner, repo, checkRunID, opts)
	}

	body := clearingUpdate{
		Name:   opts.Name,
		Status: opts.Status,
		Output: clearingOutput{
			Title:       opts.Output.Title,
			Summary:     opts.Output.Summary,
			Annotations: []*github.CheckRunAnnotation{},
		},
	}
	u := fmt.Sprintf("repos/%v/%v/check-runs/%v", owner, repo, checkRunID)
	req, err := g.client.NewRequest(http.MethodPatch, u, body)
	if err != nil {
		return nil, nil, err
	}
	run := new(github.CheckRun)
	resp, err := g.client.Do(ctx, req, run)
	if err != nil {
		return nil, resp, err
	}
	return run, resp, nil
}
