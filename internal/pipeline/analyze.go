package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/thesavant42/waybackpulse/internal/models"
)

// Fetcher retrieves the raw capture index for one domain
type Fetcher interface {
	FetchSite(ctx context.Context, domain string) (models.RawTable, error)
}

// FetchFunc adapts a function to the Fetcher interface
type FetchFunc func(ctx context.Context, domain string) (models.RawTable, error)

func (f FetchFunc) FetchSite(ctx context.Context, domain string) (models.RawTable, error) {
	return f(ctx, domain)
}

// SiteFailure records why a target contributed no rows
type SiteFailure struct {
	Target models.Target
	Err    error
}

// Result holds the merged snapshots of every site that succeeded
type Result struct {
	Records  []models.Snapshot
	PerSite  map[string]int // kept snapshots by site label
	Failures []SiteFailure
}

// Err joins every site failure, or returns nil
func (r Result) Err() error {
	errs := make([]error, 0, len(r.Failures))
	for _, f := range r.Failures {
		errs = append(errs, f.Err)
	}
	return errors.Join(errs...)
}

// Analyzer runs fetch and normalize for each target in order
type Analyzer struct {
	Fetcher Fetcher
	Logger  *log.Logger

	// SkipFailed keeps going when a site fails; otherwise the first failure aborts the run
	SkipFailed bool

	// Wrap, when set, runs around each fetch (e.g. to show a spinner)
	Wrap func(target models.Target, fetch func()) error
}

// Run fetches and normalizes every target sequentially. A site that fails never
// contributes rows. Without SkipFailed the returned error is the first site error
// and Result still holds the sites completed before it. Cancellation, from ctx or
// reported by Wrap as an error wrapping context.Canceled, always ends the run.
func (a *Analyzer) Run(ctx context.Context, targets []models.Target) (Result, error) {
	result := Result{PerSite: make(map[string]int)}
	var batches [][]models.Snapshot

	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		records, err := a.runTarget(ctx, target)
		if err != nil {
			result.Failures = append(result.Failures, SiteFailure{Target: target, Err: err})
			// A cancelled run stops here even with SkipFailed
			if !a.SkipFailed || errors.Is(err, context.Canceled) {
				result.Records = Concat(batches...)
				return result, err
			}
			if a.Logger != nil {
				a.Logger.Warn("Skipping site", "domain", target.Domain, "site", target.Site, "err", err)
			}
			continue
		}

		batches = append(batches, records)
		result.PerSite[target.Site] += len(records)
		if a.Logger != nil {
			a.Logger.Info("Site normalized", "domain", target.Domain, "site", target.Site, "snapshots", len(records))
		}
	}

	result.Records = Concat(batches...)
	return result, nil
}

func (a *Analyzer) runTarget(ctx context.Context, target models.Target) ([]models.Snapshot, error) {
	if a.Fetcher == nil {
		return nil, fmt.Errorf("no fetcher configured")
	}

	// Wrap may return before fetch does; cancelling aborts the request it leaves behind
	fetchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var raw models.RawTable
	var fetchErr error
	fetch := func() {
		raw, fetchErr = a.Fetcher.FetchSite(fetchCtx, target.Domain)
	}

	if a.Wrap != nil {
		if err := a.Wrap(target, fetch); err != nil {
			return nil, err
		}
	} else {
		fetch()
	}
	if fetchErr != nil {
		return nil, fetchErr
	}

	return Normalize(target.Domain, raw, target.Site)
}
