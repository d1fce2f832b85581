package render

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/thesavant42/waybackpulse/internal/models"
	"github.com/thesavant42/waybackpulse/internal/pipeline"
)

// Table prints one row per bucket and site with a total footer
func Table(w io.Writer, buckets []models.Bucket, granularity models.Granularity) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Bucket", "Site", "Snapshots"})

	layout := granularity.Layout()
	for _, b := range buckets {
		t.AppendRow(table.Row{b.Start.Format(layout), b.Site, b.Count})
	}

	t.AppendFooter(table.Row{"", "Total", pipeline.Total(buckets)})
	t.SetStyle(table.StyleRounded)
	t.Render()
}

// SiteTable prints the per-site summary of a session
func SiteTable(w io.Writer, stats []models.SiteStats) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Site", "Snapshots", "First", "Last"})

	total := 0
	for _, s := range stats {
		t.AppendRow(table.Row{s.Site, s.Snapshots, s.First.Format("2006-01-02"), s.Last.Format("2006-01-02")})
		total += s.Snapshots
	}

	t.AppendFooter(table.Row{"Total", total, "", ""})
	t.SetStyle(table.StyleRounded)
	t.Render()
}
