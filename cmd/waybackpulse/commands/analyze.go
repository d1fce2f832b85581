package commands

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/thesavant42/waybackpulse/internal/api"
	"github.com/thesavant42/waybackpulse/internal/config"
	"github.com/thesavant42/waybackpulse/internal/db"
	"github.com/thesavant42/waybackpulse/internal/models"
	"github.com/thesavant42/waybackpulse/internal/pipeline"
	"github.com/thesavant42/waybackpulse/internal/ui"
)

var (
	analyzeChart      chartFlags
	analyzeDB         string
	analyzeSkipFailed bool
	analyzeNoSpinner  bool
)

func init() {
	analyzeChart.register(analyzeCmd)
	analyzeCmd.Flags().StringVar(&analyzeDB, "db", "", "Save normalized snapshots to this SQLite file")
	analyzeCmd.Flags().BoolVar(&analyzeSkipFailed, "skip-failed", false, "Chart the sites that succeeded when others fail")
	analyzeCmd.Flags().BoolVar(&analyzeNoSpinner, "no-spinner", false, "Disable the fetch spinner")
	rootCmd.AddCommand(analyzeCmd)
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [domain[=label]...]",
	Short: "Fetches, normalizes and charts the capture history of one or more sites.",
	Example: `  waybackpulse analyze nytimes.com theguardian.com=guardian
  waybackpulse analyze -g year --mode stacked_bar --since 2010 nytimes.com,bbc.co.uk`,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := analyzeChart.parse()
		if err != nil {
			return err
		}

		targets, err := resolveTargets(args)
		if err != nil {
			return err
		}

		analyzer := &pipeline.Analyzer{
			Fetcher:    newClient(),
			Logger:     logger,
			SkipFailed: analyzeSkipFailed,
		}
		if !analyzeNoSpinner && isatty.IsTerminal(os.Stdout.Fd()) {
			analyzer.Wrap = func(target models.Target, fetch func()) error {
				return ui.RunWithSpinner(fmt.Sprintf("Fetching %s...", target.Domain), fetch)
			}
		}

		result, err := analyzer.Run(cmd.Context(), targets)
		if err != nil {
			return describeSiteError(err)
		}
		for _, f := range result.Failures {
			ui.PrintWarning(fmt.Sprintf("%s skipped: %v", f.Target.Domain, f.Err))
		}
		if len(result.Failures) == len(targets) {
			return fmt.Errorf("every site failed: %w", result.Err())
		}

		if analyzeDB != "" {
			if err := saveSession(analyzeDB, result); err != nil {
				return err
			}
		}

		// header, site table and buckets all honour --since
		charted := pipeline.Since(result.Records, settings.since)
		stats := pipeline.Summarize(charted)
		buckets := pipeline.Aggregate(charted, settings.granularity, nil)

		ui.PrintHeader(settings.title, len(stats), len(charted))
		return renderBuckets(cmd.OutOrStdout(), buckets, stats, settings)
	},
}

// resolveTargets picks sites from arguments, then the environment, then a prompt
func resolveTargets(args []string) ([]models.Target, error) {
	entries := args
	if len(entries) == 0 {
		entries = cfg.Sites
	}
	if len(entries) == 0 {
		if !isatty.IsTerminal(os.Stdin.Fd()) {
			return nil, fmt.Errorf("no sites given: pass domains as arguments or set %s", config.EnvSites)
		}
		prompted, err := ui.PromptForSites()
		if err != nil {
			return nil, err
		}
		entries = prompted
	}

	targets, err := api.ParseTargets(entries)
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("no sites given")
	}
	return targets, nil
}

// describeSiteError adds the failing site's context to typed pipeline errors
func describeSiteError(err error) error {
	var fetchErr *api.FetchError
	var malformed *pipeline.MalformedRecordError
	var badDate *pipeline.DateParseError

	switch {
	case errors.As(err, &fetchErr):
		return fmt.Errorf("could not fetch %s (use --skip-failed to continue without it): %w", fetchErr.Domain, err)
	case errors.As(err, &malformed):
		return fmt.Errorf("%s returned a malformed capture index: %w", malformed.Domain, err)
	case errors.As(err, &badDate):
		return fmt.Errorf("%s returned an unreadable timestamp: %w", badDate.Domain, err)
	default:
		return err
	}
}

// saveSession replaces each analyzed site's rows in the SQLite file
func saveSession(path string, result pipeline.Result) error {
	database, err := db.New(path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	bySite := make(map[string][]models.Snapshot)
	for _, r := range result.Records {
		bySite[r.Site] = append(bySite[r.Site], r)
	}

	sites := make([]string, 0, len(result.PerSite))
	for site := range result.PerSite {
		sites = append(sites, site)
	}
	sort.Strings(sites)

	for _, site := range sites {
		n, err := database.ReplaceSite(site, bySite[site])
		if err != nil {
			return fmt.Errorf("failed to save %s: %w", site, err)
		}
		logger.Debug("Session saved", "site", site, "snapshots", n)
	}

	ui.PrintSuccess(fmt.Sprintf("Session saved to %s", path))
	return nil
}
