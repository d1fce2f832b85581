package models

import (
	"fmt"
	"strings"
	"time"
)

// CDXHeader is the field row the CDX API returns first for output=json queries
var CDXHeader = []string{"urlkey", "timestamp", "original", "mimetype", "statuscode", "digest", "length"}

// CDXFieldCount is the number of fields in every CDX row
const CDXFieldCount = 7

// RawTable is the decoded CDX JSON body: header row followed by one row per capture
type RawTable [][]string

// DataRows returns the number of rows after the header
func (t RawTable) DataRows() int {
	if len(t) == 0 {
		return 0
	}
	return len(t) - 1
}

// Snapshot is one normalized Wayback capture tagged with the site it was fetched for
type Snapshot struct {
	URLKey     string
	Timestamp  string // 14-digit format: YYYYMMDDhhmmss
	Original   string
	MimeType   string
	StatusCode int
	Digest     string
	Length     int64 // 0 when the index reports "-" or nothing
	Site       string
	Date       time.Time // UTC midnight of the capture day
}

// Granularity selects the time bucket used when aggregating snapshots
type Granularity string

const (
	GranularityYear  Granularity = "year"
	GranularityMonth Granularity = "month"
)

// ParseGranularity validates a granularity name
func ParseGranularity(s string) (Granularity, error) {
	switch g := Granularity(strings.ToLower(strings.TrimSpace(s))); g {
	case GranularityYear, GranularityMonth:
		return g, nil
	default:
		return "", fmt.Errorf("invalid granularity %q: use year or month", s)
	}
}

// Truncate returns the first day of the bucket containing t
func (g Granularity) Truncate(t time.Time) time.Time {
	switch g {
	case GranularityYear:
		return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
}

// Layout returns the display format for bucket starts of this granularity
func (g Granularity) Layout() string {
	if g == GranularityYear {
		return "2006"
	}
	return "2006-01"
}

// Bucket is the number of snapshots a site has in one time bucket
type Bucket struct {
	Start time.Time
	Site  string
	Count int
}

// ChartMode selects how buckets are drawn
type ChartMode string

const (
	ChartLine       ChartMode = "line"
	ChartStackedBar ChartMode = "stacked_bar"
)

// ParseChartMode validates a chart mode name
func ParseChartMode(s string) (ChartMode, error) {
	switch m := ChartMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ChartLine, ChartStackedBar:
		return m, nil
	case "stacked", "bar":
		return ChartStackedBar, nil
	default:
		return "", fmt.Errorf("invalid chart mode %q: use line or stacked_bar", s)
	}
}

// Series is a site-by-bucket pivot of aggregated counts, used for drawing
type Series struct {
	Starts []time.Time
	Sites  []string
	Counts [][]int // Counts[site][start]; unobserved combinations are zero
}

// Max returns the largest single count in the series
func (s Series) Max() int {
	peak := 0
	for _, row := range s.Counts {
		for _, c := range row {
			if c > peak {
				peak = c
			}
		}
	}
	return peak
}

// ColumnTotal returns the sum of all sites for bucket i
func (s Series) ColumnTotal(i int) int {
	total := 0
	for _, row := range s.Counts {
		total += row[i]
	}
	return total
}

// SiteStats summarizes the snapshots held for one site
type SiteStats struct {
	Site      string
	Snapshots int
	First     time.Time
	Last      time.Time
}

// Target is one domain to analyze and the label its snapshots are tagged with
type Target struct {
	Domain string
	Site   string
}
