package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/thesavant42/waybackpulse/internal/db"
	"github.com/thesavant42/waybackpulse/internal/ui"
)

var (
	reportChart chartFlags
	reportDB    string
)

func init() {
	reportChart.register(reportCmd)
	reportCmd.Flags().StringVar(&reportDB, "db", "", "SQLite file written by analyze --db")
	_ = reportCmd.MarkFlagRequired("db")
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report --db <path/to/session.db>",
	Short: "Re-aggregates and charts a saved session without touching the network.",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := reportChart.parse()
		if err != nil {
			return err
		}

		// db.New would silently create an empty file
		if _, err := os.Stat(reportDB); err != nil {
			return fmt.Errorf("cannot open session: %w", err)
		}

		database, err := db.New(reportDB)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer database.Close()

		stats, err := database.GetSiteStats(settings.since)
		if err != nil {
			return err
		}
		buckets, err := database.CountBuckets(settings.granularity, settings.since)
		if err != nil {
			return err
		}

		total := 0
		for _, s := range stats {
			total += s.Snapshots
		}
		logger.Debug("Session loaded", "path", reportDB, "sites", len(stats), "snapshots", total)

		ui.PrintHeader(settings.title, len(stats), total)
		return renderBuckets(cmd.OutOrStdout(), buckets, stats, settings)
	},
}
