package render

import (
	"fmt"

	"github.com/thesavant42/waybackpulse/internal/models"
	"github.com/thesavant42/waybackpulse/internal/pipeline"
	"github.com/xuri/excelize/v2"
)

const (
	bucketSheet = "buckets"
	siteSheet   = "sites"
)

// WorkbookOptions controls the exported spreadsheet
type WorkbookOptions struct {
	Granularity models.Granularity
	Mode        models.ChartMode
	Title       string
	Stats       []models.SiteStats // optional per-site summary sheet
}

// Workbook writes the bucket pivot to an XLSX file with a native chart next to it.
// Line mode draws one line per site; stacked_bar stacks sites per bucket.
func Workbook(path string, buckets []models.Bucket, opts WorkbookOptions) error {
	series := pipeline.Pivot(buckets)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", bucketSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	header := []interface{}{"bucket"}
	for _, site := range series.Sites {
		header = append(header, site)
	}
	if err := f.SetSheetRow(bucketSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	layout := opts.Granularity.Layout()
	for j, start := range series.Starts {
		row := []interface{}{start.Format(layout)}
		for i := range series.Sites {
			row = append(row, series.Counts[i][j])
		}
		cell, err := excelize.CoordinatesToCellName(1, j+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(bucketSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write bucket row: %w", err)
		}
	}

	if len(series.Starts) > 0 {
		chart, err := buildChart(series, opts)
		if err != nil {
			return err
		}
		anchor, err := excelize.CoordinatesToCellName(len(series.Sites)+3, 2)
		if err != nil {
			return err
		}
		if err := f.AddChart(bucketSheet, anchor, chart); err != nil {
			return fmt.Errorf("failed to add chart: %w", err)
		}
	}

	if len(opts.Stats) > 0 {
		if err := writeSiteSheet(f, opts.Stats); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func buildChart(series models.Series, opts WorkbookOptions) (*excelize.Chart, error) {
	chartType := excelize.Line
	if opts.Mode == models.ChartStackedBar {
		chartType = excelize.ColStacked
	}

	lastRow := len(series.Starts) + 1
	var chartSeries []excelize.ChartSeries
	for i := range series.Sites {
		col, err := excelize.ColumnNumberToName(i + 2)
		if err != nil {
			return nil, err
		}
		chartSeries = append(chartSeries, excelize.ChartSeries{
			Name:       fmt.Sprintf("%s!$%s$1", bucketSheet, col),
			Categories: fmt.Sprintf("%s!$A$2:$A$%d", bucketSheet, lastRow),
			Values:     fmt.Sprintf("%s!$%s$2:$%s$%d", bucketSheet, col, col, lastRow),
		})
	}

	title := opts.Title
	if title == "" {
		title = fmt.Sprintf("Snapshots per %s", opts.Granularity)
	}

	return &excelize.Chart{
		Type:      chartType,
		Series:    chartSeries,
		Title:     []excelize.RichTextRun{{Text: title}},
		Legend:    excelize.ChartLegend{Position: "bottom"},
		Dimension: excelize.ChartDimension{Width: 960, Height: 480},
	}, nil
}

func writeSiteSheet(f *excelize.File, stats []models.SiteStats) error {
	if _, err := f.NewSheet(siteSheet); err != nil {
		return fmt.Errorf("failed to add sites sheet: %w", err)
	}

	header := []interface{}{"site", "snapshots", "first", "last"}
	if err := f.SetSheetRow(siteSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, s := range stats {
		row := []interface{}{s.Site, s.Snapshots, s.First.Format("2006-01-02"), s.Last.Format("2006-01-02")}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(siteSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write site row: %w", err)
		}
	}
	return nil
}
