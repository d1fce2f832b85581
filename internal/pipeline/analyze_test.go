package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/thesavant42/waybackpulse/internal/models"
)

type fakeFetcher struct {
	tables map[string]models.RawTable
	errs   map[string]error
	calls  []string
}

func (f *fakeFetcher) FetchSite(ctx context.Context, domain string) (models.RawTable, error) {
	f.calls = append(f.calls, domain)
	if err, ok := f.errs[domain]; ok {
		return nil, err
	}
	return f.tables[domain], nil
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		tables: map[string]models.RawTable{
			"a.com": {header(), row("20160101000000", "200"), row("20160201000000", "200")},
			"b.com": {header(), row("20160101000000", "200"), row("20160301000000", "404")},
			"bad.com": {
				header(),
				row("20160101000000", "200"),
				{"short"},
			},
		},
		errs: map[string]error{
			"down.com": errors.New("connection refused"),
		},
	}
}

func TestAnalyzerRun(t *testing.T) {
	fetcher := newFakeFetcher()
	analyzer := &Analyzer{Fetcher: fetcher}

	result, err := analyzer.Run(context.Background(), []models.Target{
		{Domain: "a.com", Site: "a"},
		{Domain: "b.com", Site: "b"},
	})
	require.NoError(t, err)
	require.NoError(t, result.Err())
	require.Equal(t, []string{"a.com", "b.com"}, fetcher.calls)
	require.Len(t, result.Records, 3)
	require.Equal(t, map[string]int{"a": 2, "b": 1}, result.PerSite)

	buckets := Aggregate(result.Records, models.GranularityYear, nil)
	require.Equal(t, len(result.Records), Total(buckets))
}

func TestAnalyzerFailFast(t *testing.T) {
	fetcher := newFakeFetcher()
	analyzer := &Analyzer{Fetcher: fetcher}

	result, err := analyzer.Run(context.Background(), []models.Target{
		{Domain: "a.com", Site: "a"},
		{Domain: "bad.com", Site: "bad"},
		{Domain: "b.com", Site: "b"},
	})
	require.Error(t, err)

	var malformed *MalformedRecordError
	require.True(t, errors.As(err, &malformed))
	require.Equal(t, "bad.com", malformed.Domain)
	require.Equal(t, 2, malformed.RowIndex)

	// b.com is never fetched and bad.com contributes nothing
	require.Equal(t, []string{"a.com", "bad.com"}, fetcher.calls)
	require.Len(t, result.Records, 2)
	for _, r := range result.Records {
		require.Equal(t, "a", r.Site)
	}
}

func TestAnalyzerSkipFailed(t *testing.T) {
	fetcher := newFakeFetcher()
	analyzer := &Analyzer{Fetcher: fetcher, SkipFailed: true}

	result, err := analyzer.Run(context.Background(), []models.Target{
		{Domain: "down.com", Site: "down"},
		{Domain: "a.com", Site: "a"},
		{Domain: "bad.com", Site: "bad"},
		{Domain: "b.com", Site: "b"},
	})
	require.NoError(t, err)
	require.Len(t, result.Failures, 2)
	require.Equal(t, "down.com", result.Failures[0].Target.Domain)
	require.Equal(t, "bad.com", result.Failures[1].Target.Domain)

	require.Len(t, result.Records, 3)
	_, hasBad := result.PerSite["bad"]
	require.False(t, hasBad)

	joined := result.Err()
	require.ErrorContains(t, joined, "connection refused")
	var malformed *MalformedRecordError
	require.True(t, errors.As(joined, &malformed))
}

func TestAnalyzerWrap(t *testing.T) {
	fetcher := newFakeFetcher()
	var wrapped []string
	analyzer := &Analyzer{
		Fetcher: fetcher,
		Wrap: func(target models.Target, fetch func()) error {
			wrapped = append(wrapped, target.Site)
			fetch()
			return nil
		},
	}

	_, err := analyzer.Run(context.Background(), []models.Target{{Domain: "a.com", Site: "a"}})
	require.NoError(t, err)
	require.Equal(t, []string{"a"}, wrapped)

	analyzer.Wrap = func(target models.Target, fetch func()) error {
		return fmt.Errorf("spinner broke")
	}
	_, err = analyzer.Run(context.Background(), []models.Target{{Domain: "a.com", Site: "a"}})
	require.ErrorContains(t, err, "spinner broke")
}

func TestAnalyzerWrapInterrupted(t *testing.T) {
	interrupted := fmt.Errorf("interrupted: %w", context.Canceled)
	fetcher := newFakeFetcher()
	blocked := make(chan error, 1)

	analyzer := &Analyzer{
		Fetcher: FetchFunc(func(ctx context.Context, domain string) (models.RawTable, error) {
			if domain != "slow.com" {
				return fetcher.FetchSite(ctx, domain)
			}
			<-ctx.Done()
			blocked <- ctx.Err()
			return nil, ctx.Err()
		}),
		SkipFailed: true,
		Wrap: func(target models.Target, fetch func()) error {
			if target.Domain != "slow.com" {
				fetch()
				return nil
			}
			// the user gives up while the request is still in flight
			go fetch()
			return interrupted
		},
	}

	result, err := analyzer.Run(context.Background(), []models.Target{
		{Domain: "a.com", Site: "a"},
		{Domain: "slow.com", Site: "slow"},
		{Domain: "b.com", Site: "b"},
	})
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, []string{"a.com"}, fetcher.calls)
	require.Len(t, result.Records, 2)
	require.Len(t, result.Failures, 1)

	select {
	case ctxErr := <-blocked:
		require.ErrorIs(t, ctxErr, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("abandoned fetch was not cancelled")
	}
}

func TestAnalyzerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := newFakeFetcher()
	analyzer := &Analyzer{Fetcher: FetchFunc(fetcher.FetchSite)}
	_, err := analyzer.Run(ctx, []models.Target{{Domain: "a.com", Site: "a"}})
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, fetcher.calls)
}
