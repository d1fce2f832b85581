package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/thesavant42/waybackpulse/internal/models"
	"github.com/thesavant42/waybackpulse/internal/pipeline"
)

// MarkdownOptions controls the markdown report
type MarkdownOptions struct {
	Granularity models.Granularity
	Title       string
	Generated   time.Time
}

// Markdown writes a report with per-site summary and a bucket pivot table
func Markdown(w io.Writer, buckets []models.Bucket, stats []models.SiteStats, opts MarkdownOptions) error {
	var sb strings.Builder

	title := opts.Title
	if title == "" {
		title = fmt.Sprintf("Wayback snapshots per %s", opts.Granularity)
	}
	sb.WriteString(fmt.Sprintf("# %s\n\n", title))

	// Summary
	total := 0
	for _, s := range stats {
		total += s.Snapshots
	}
	sb.WriteString(fmt.Sprintf("**Sites:** %d\n", len(stats)))
	sb.WriteString(fmt.Sprintf("**Snapshots:** %d\n", total))
	if !opts.Generated.IsZero() {
		sb.WriteString(fmt.Sprintf("**Generated:** %s\n", opts.Generated.Format("2006-01-02 15:04:05")))
	}
	sb.WriteString("\n## Sites\n\n")

	sites := table.NewWriter()
	sites.AppendHeader(table.Row{"Site", "Snapshots", "First", "Last"})
	for _, s := range stats {
		sites.AppendRow(table.Row{s.Site, s.Snapshots, s.First.Format("2006-01-02"), s.Last.Format("2006-01-02")})
	}
	sb.WriteString(sites.RenderMarkdown())
	sb.WriteString("\n\n## Buckets\n\n")

	series := pipeline.Pivot(buckets)
	pivot := table.NewWriter()
	header := table.Row{"Bucket"}
	for _, site := range series.Sites {
		header = append(header, site)
	}
	header = append(header, "Total")
	pivot.AppendHeader(header)

	layout := opts.Granularity.Layout()
	for j, start := range series.Starts {
		row := table.Row{start.Format(layout)}
		for i := range series.Sites {
			row = append(row, series.Counts[i][j])
		}
		row = append(row, series.ColumnTotal(j))
		pivot.AppendRow(row)
	}
	sb.WriteString(pivot.RenderMarkdown())
	sb.WriteString("\n")

	_, err := io.WriteString(w, sb.String())
	return err
}
