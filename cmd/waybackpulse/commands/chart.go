package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/thesavant42/waybackpulse/internal/models"
	"github.com/thesavant42/waybackpulse/internal/pipeline"
	"github.com/thesavant42/waybackpulse/internal/render"
	"github.com/thesavant42/waybackpulse/internal/ui"
)

// chartFlags are shared by analyze and report
type chartFlags struct {
	granularity string
	since       string
	mode        string
	title       string
	width       int
	table       bool
	xlsx        string
	markdown    string
}

func (f *chartFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.granularity, "granularity", "g", string(models.GranularityMonth), "Bucket size: year or month")
	cmd.Flags().StringVar(&f.since, "since", "", "Drop captures before this date (YYYY, YYYY-MM or YYYY-MM-DD)")
	cmd.Flags().StringVarP(&f.mode, "mode", "m", string(models.ChartLine), "Chart mode: line or stacked_bar")
	cmd.Flags().StringVar(&f.title, "title", "", "Chart title")
	cmd.Flags().IntVar(&f.width, "width", 0, "Bar width in cells for stacked_bar")
	cmd.Flags().BoolVar(&f.table, "table", false, "Also print the bucket table")
	cmd.Flags().StringVar(&f.xlsx, "xlsx", "", "Write buckets and a native chart to this .xlsx file")
	cmd.Flags().StringVar(&f.markdown, "markdown", "", "Write a markdown report to this file")
}

// chartSettings holds validated chart flags
type chartSettings struct {
	granularity models.Granularity
	mode        models.ChartMode
	since       *time.Time
	title       string
	width       int
	table       bool
	xlsx        string
	markdown    string
}

// parse validates every flag before any network work starts
func (f *chartFlags) parse() (chartSettings, error) {
	granularity, err := models.ParseGranularity(f.granularity)
	if err != nil {
		return chartSettings{}, err
	}
	mode, err := models.ParseChartMode(f.mode)
	if err != nil {
		return chartSettings{}, err
	}
	since, err := pipeline.ParseSince(f.since)
	if err != nil {
		return chartSettings{}, err
	}
	if f.width < 0 {
		return chartSettings{}, fmt.Errorf("invalid width %d", f.width)
	}

	title := f.title
	if title == "" {
		title = fmt.Sprintf("Wayback snapshots per %s", granularity)
	}

	return chartSettings{
		granularity: granularity,
		mode:        mode,
		since:       since,
		title:       title,
		width:       f.width,
		table:       f.table,
		xlsx:        f.xlsx,
		markdown:    f.markdown,
	}, nil
}

// renderBuckets draws the chart and any requested table or workbook
func renderBuckets(w io.Writer, buckets []models.Bucket, stats []models.SiteStats, s chartSettings) error {
	err := render.Terminal(w, buckets, s.mode, render.Options{
		Granularity: s.granularity,
		Title:       s.title,
		Width:       s.width,
	})
	if err != nil {
		return err
	}

	if s.table {
		fmt.Fprintln(w)
		render.Table(w, buckets, s.granularity)
		fmt.Fprintln(w)
		render.SiteTable(w, stats)
	}

	if s.xlsx != "" {
		err := render.Workbook(s.xlsx, buckets, render.WorkbookOptions{
			Granularity: s.granularity,
			Mode:        s.mode,
			Title:       s.title,
			Stats:       stats,
		})
		if err != nil {
			return err
		}
		ui.PrintSuccess(fmt.Sprintf("Workbook written to %s", s.xlsx))
	}

	if s.markdown != "" {
		if err := writeMarkdown(s.markdown, buckets, stats, s); err != nil {
			return err
		}
		ui.PrintSuccess(fmt.Sprintf("Report written to %s", s.markdown))
	}

	return nil
}

func writeMarkdown(path string, buckets []models.Bucket, stats []models.SiteStats, s chartSettings) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create markdown file: %w", err)
	}
	defer f.Close()

	err = render.Markdown(f, buckets, stats, render.MarkdownOptions{
		Granularity: s.granularity,
		Title:       s.title,
		Generated:   time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to write markdown file: %w", err)
	}
	return nil
}
