/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package checkrun

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"chainguard.dev/tfvalidate/diagnostics"
	"github.com/chainguard-dev/clog"
	"github.com/google/go-github/v84/github"
)

// MaxAnnotationsPerRequest is the most annotations GitHub accepts in a single
// check run update.
const MaxAnnotationsPerRequest = 50

const (
	statusInProgress = "in_progress"
	statusCompleted  = "completed"

	conclusionSuccess = "success"
	conclusionFailure = "failure"
)

// ErrCheckRunNotFound is returned when no check run for the ref has the
// expected name. Check runs are created by the workflow before this runs.
var ErrCheckRunNotFound = errors.New("check run not found")

// RemoteError is returned when a GitHub API call fails. Annotations sent
// before the failure are left in place.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// ChecksClient is the subset of the GitHub checks API the reporter uses.
// An update whose output carries a non-nil, empty annotation list must clear
// the run's existing annotations. GitHubChecks implements it.
type ChecksClient interface {
	ListCheckRunsForRef(ctx context.Context, owner, repo, ref string, opts *github.ListCheckRunsOptions) (*github.ListCheckRunsResults, *github.Response, error)
	UpdateCheckRun(ctx context.Context, owner, repo string, checkRunID int64, opts github.UpdateCheckRunOptions) (*github.CheckRun, *github.Response, error)
}

// Ref identifies the check run to report to.
type Ref struct {
	Owner string
	Repo  string
	// SHA is the commit the check run is attached to.
	SHA string
	// Name is the check run's name, normally the workflow job name.
	Name string
}

// Reporter pushes a validation report to an existing check run.
type Reporter struct {
	client     ChecksClient
	ref        Ref
	title      string
	pathPrefix string
	now        func() time.Time
}

// New constructs a Reporter for ref.
func New(client ChecksClient, ref Ref, opts ...Option) *Reporter {
	r := &Reporter{
		client: client,
		ref:    ref,
		title:  defaultTitle,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Summary is the one-line check run summary for a report.
func Summary(report *diagnostics.Report) string {
	if report.Valid {
		return "Configuration is valid"
	}
	return fmt.Sprintf("%d errors and %d warnings found", report.ErrorCount, report.WarningCount)
}

// Report writes report to the check run: it clears annotations from any
// previous run, sends the new ones in batches of MaxAnnotationsPerRequest,
// then completes the run with a success or failure conclusion.
//
// Only diagnostics with a file range become annotations, so a report with N
// anchored diagnostics takes ceil(N/50) batch updates.
//
// Every call waits for the previous one; the completion update is always the
// last write.
func (r *Reporter) Report(ctx context.Context, report *diagnostics.Report) error {
	log := clog.FromContext(ctx).With("owner", r.ref.Owner, "repo", r.ref.Repo, "sha", r.ref.SHA, "check", r.ref.Name)
	log.Info("Updating check run")

	run, err := r.find(ctx)
	if err != nil {
		return err
	}
	log.Debugf("Found check run %d", run.GetID())

	title := run.GetOutput().GetTitle()
	if title == "" {
		title = r.title
	}
	summary := Summary(report)

	// Clear whatever a previous attempt left behind.
	if err := r.update(ctx, run, github.UpdateCheckRunOptions{
		Status: github.Ptr(statusInProgress),
		Output: &github.CheckRunOutput{
			Title:       github.Ptr(title),
			Summary:     github.Ptr(summary),
			Annotations: []*github.CheckRunAnnotation{},
		},
	}); err != nil {
		return &RemoteError{Op: "clearing annotations", Err: err}
	}

	annotations := r.Annotations(ctx, report)
	batches := Batches(annotations, MaxAnnotationsPerRequest)
	log.Infof("Creating %d annotations in %d batches", len(annotations), len(batches))
	for i, batch := range batches {
		if err := r.update(ctx, run, github.UpdateCheckRunOptions{
			Status: github.Ptr(statusInProgress),
			Output: &github.CheckRunOutput{
				Title:       github.Ptr(title),
				Summary:     github.Ptr(summary),
				Annotations: batch,
			},
		}); err != nil {
			return &RemoteError{Op: fmt.Sprintf("sending annotation batch %d of %d", i+1, len(batches)), Err: err}
		}
	}

	conclusion := conclusionFailure
	if report.Valid {
		conclusion = conclusionSuccess
	}
	if err := r.update(ctx, run, github.UpdateCheckRunOptions{
		Status:      github.Ptr(statusCompleted),
		Conclusion:  github.Ptr(conclusion),
		CompletedAt: &github.Timestamp{Time: r.now()},
		Output: &github.CheckRunOutput{
			Title:   github.Ptr(title),
			Summary: github.Ptr(summary),
		},
	}); err != nil {
		return &RemoteError{Op: "completing check run", Err: err}
	}

	log.Infof("Check run completed with conclusion %s", conclusion)
	return nil
}

func (r *Reporter) find(ctx context.Context) (*github.CheckRun, error) {
	opts := &github.ListCheckRunsOptions{
		CheckName:   github.Ptr(r.ref.Name),
		ListOptions: github.ListOptions{PerPage: 100},
	}
	for {
		res, resp, err := r.client.ListCheckRunsForRef(ctx, r.ref.Owner, r.ref.Repo, r.ref.SHA, opts)
		if err != nil {
			return nil, &RemoteError{Op: "listing check runs", Err: err}
		}
		clog.DebugContextf(ctx, "Found %d checks", len(res.CheckRuns))
		for _, run := range res.CheckRuns {
			if run.GetName() == r.ref.Name {
				return run, nil
			}
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return nil, fmt.Errorf("%w: no check named %q on %s", ErrCheckRunNotFound, r.ref.Name, r.ref.SHA)
}

func (r *Reporter) update(ctx context.Context, run *github.CheckRun, opts github.UpdateCheckRunOptions) error {
	opts.Name = run.GetName()
	_, _, err := r.client.UpdateCheckRun(ctx, r.ref.Owner, r.ref.Repo, run.GetID(), opts)
	return err
}

// Annotations maps the report's diagnostics onto check run annotations,
// preserving their order. Diagnostics without a file range are skipped since
// GitHub requires a path and line.
func (r *Reporter) Annotations(ctx context.Context, report *diagnostics.Report) []*github.CheckRunAnnotation {
	out := make([]*github.CheckRunAnnotation, 0, len(report.Diagnostics))
	for _, d := range report.Diagnostics {
		if !d.HasRange() {
			clog.WarnContextf(ctx, "Skipping annotation for diagnostic without a file: %s", d.Summary)
			continue
		}
		out = append(out, r.annotation(d))
	}
	return out
}

func (r *Reporter) annotation(d diagnostics.Diagnostic) *github.CheckRunAnnotation {
	message := d.Detail
	if message == "" {
		message = d.Summary
	}
	a := &github.CheckRunAnnotation{
		Path:            github.Ptr(path.Join(r.pathPrefix, d.Range.Filename)),
		StartLine:       github.Ptr(d.Range.Start.Line),
		EndLine:         github.Ptr(max(d.Range.End.Line, d.Range.Start.Line)),
		AnnotationLevel: github.Ptr(Level(d.Severity)),
		Title:           github.Ptr(d.Summary),
		Message:         github.Ptr(message),
	}
	// GitHub rejects columns on annotations that span lines.
	if d.Range.Start.Line == d.Range.End.Line {
		a.StartColumn = github.Ptr(d.Range.Start.Column)
		a.EndColumn = github.Ptr(d.Range.End.Column)
	}
	return a
}

// Level maps a severity onto a check run annotation level.
func Level(s diagnostics.Severity) string {
	switch s {
	case diagnostics.SeverityError:
		return "failure"
	case diagnostics.SeverityWarning:
		return "warning"
	default:
		return "notice"
	}
}

// Batches splits annotations into consecutive slices of at most size.
func Batches(annotations []*github.CheckRunAnnotation, size int) [][]*github.CheckRunAnnotation {
	var out [][]*github.CheckRunAnnotation
	for i := 0; i < len(annotations); i += size {
		out = append(out, annotations[i:min(i+size, len(annotations))])
	}
	return out
}
