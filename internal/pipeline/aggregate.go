package pipeline

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/thesavant42/waybackpulse/internal/models"
)

type bucketKey struct {
	start time.Time
	site  string
}

// Aggregate counts snapshots per (bucket start, site). Records dated before since
// are dropped when since is non-nil. Only observed combinations are returned,
// sorted by bucket start then site.
func Aggregate(records []models.Snapshot, granularity models.Granularity, since *time.Time) []models.Bucket {
	counts := make(map[bucketKey]int)
	for _, r := range Since(records, since) {
		counts[bucketKey{start: granularity.Truncate(r.Date), site: r.Site}]++
	}

	buckets := make([]models.Bucket, 0, len(counts))
	for k, n := range counts {
		buckets = append(buckets, models.Bucket{Start: k.start, Site: k.site, Count: n})
	}
	SortBuckets(buckets)
	return buckets
}

// Since returns the records dated on or after since. A nil bound keeps everything.
func Since(records []models.Snapshot, since *time.Time) []models.Snapshot {
	if since == nil {
		return records
	}
	kept := make([]models.Snapshot, 0, len(records))
	for _, r := range records {
		if !r.Date.Before(*since) {
			kept = append(kept, r)
		}
	}
	return kept
}

// SortBuckets orders buckets by start, then site
func SortBuckets(buckets []models.Bucket) {
	sort.Slice(buckets, func(i, j int) bool {
		if !buckets[i].Start.Equal(buckets[j].Start) {
			return buckets[i].Start.Before(buckets[j].Start)
		}
		return buckets[i].Site < buckets[j].Site
	})
}

// Total returns the number of snapshots across all buckets
func Total(buckets []models.Bucket) int {
	total := 0
	for _, b := range buckets {
		total += b.Count
	}
	return total
}

// Pivot lays buckets out as one row per site and one column per distinct start.
// Starts and sites are sorted; missing combinations read as zero.
func Pivot(buckets []models.Bucket) models.Series {
	startIdx := make(map[time.Time]int)
	siteIdx := make(map[string]int)
	var series models.Series

	for _, b := range buckets {
		if _, ok := startIdx[b.Start]; !ok {
			startIdx[b.Start] = 0
			series.Starts = append(series.Starts, b.Start)
		}
		if _, ok := siteIdx[b.Site]; !ok {
			siteIdx[b.Site] = 0
			series.Sites = append(series.Sites, b.Site)
		}
	}

	sort.Slice(series.Starts, func(i, j int) bool { return series.Starts[i].Before(series.Starts[j]) })
	sort.Strings(series.Sites)
	for i, s := range series.Starts {
		startIdx[s] = i
	}
	for i, s := range series.Sites {
		siteIdx[s] = i
	}

	series.Counts = make([][]int, len(series.Sites))
	for i := range series.Counts {
		series.Counts[i] = make([]int, len(series.Starts))
	}
	for _, b := range buckets {
		series.Counts[siteIdx[b.Site]][startIdx[b.Start]] += b.Count
	}

	return series
}

// Summarize reports snapshot counts and the first/last capture day per site, sorted by site
func Summarize(records []models.Snapshot) []models.SiteStats {
	bySite := make(map[string]*models.SiteStats)
	for _, r := range records {
		s, ok := bySite[r.Site]
		if !ok {
			s = &models.SiteStats{Site: r.Site, First: r.Date, Last: r.Date}
			bySite[r.Site] = s
		}
		s.Snapshots++
		if r.Date.Before(s.First) {
			s.First = r.Date
		}
		if r.Date.After(s.Last) {
			s.Last = r.Date
		}
	}

	stats := make([]models.SiteStats, 0, len(bySite))
	for _, s := range bySite {
		stats = append(stats, *s)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Site < stats[j].Site })
	return stats
}

// ParseSince parses a lower date bound given as YYYY, YYYY-MM or YYYY-MM-DD.
// An empty string means no bound.
func ParseSince(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	for _, layout := range []string{"2006-01-02", "2006-01", "2006"} {
		if len(s) != len(layout) {
			continue
		}
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid date %q: use YYYY, YYYY-MM or YYYY-MM-DD", s)
}
