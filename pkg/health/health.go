// Package health runs one-shot diagnostic checks against the console's
// dependencies and reports which of them failed.
//
// Checks run concurrently, each under its own timeout. Results are kept in
// registration order so reports read the same on every run.
package health

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// CheckFunc is a health check function. It should return nil if the checked
// component is healthy, or an error describing the problem.
type CheckFunc func(ctx context.Context) error

// Check is a named CheckFunc with its own timeout.
type Check struct {
	Name    string
	Timeout time.Duration
	Func    CheckFunc
}

// Result is the outcome of one check.
type Result struct {
	Name     string
	Duration time.Duration
	Err      error
}

// Report collects the results of a Run.
type Report struct {
	Results []Result
}

// Healthy reports whether every check passed.
func (r Report) Healthy() bool {
	for _, res := range r.Results {
		if res.Err != nil {
			return false
		}
	}
	return true
}

// Failures returns a map of check name to error message for every failed check.
func (r Report) Failures() map[string]string {
	failures := make(map[string]string)
	for _, res := range r.Results {
		if res.Err != nil {
			failures[res.Name] = res.Err.Error()
		}
	}
	return failures
}

// Run executes all checks once and waits for them to finish.
func Run(ctx context.Context, checks ...Check) Report {
	results := make([]Result, len(checks))

	// A failed check is a result, not a group error, so no check cancels
	// the others.
	var g errgroup.Group
	for i, c := range checks {
		g.Go(func() error {
			results[i] = run(ctx, c)
			return nil
		})
	}
	_ = g.Wait()

	return Report{Results: results}
}

func run(ctx context.Context, c Check) Result {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	start := time.Now()
	err := c.Func(ctx)
	return Result{Name: c.Name, Duration: time.Since(start), Err: err}
}
