package pipeline

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/thesavant42/waybackpulse/internal/models"
)

const (
	okStatus   = "200"
	dateLayout = "20060102"
)

// Column positions in a CDX row, matching models.CDXHeader
const (
	colURLKey = iota
	colTimestamp
	colOriginal
	colMimeType
	colStatusCode
	colDigest
	colLength
)

// Normalize turns one site's raw CDX table into snapshots tagged with site.
// The header must match models.CDXHeader exactly and every data row must carry
// exactly seven fields. Only captures answered with HTTP 200 are kept.
// Any schema or date error aborts the whole batch and returns no records.
func Normalize(domain string, raw models.RawTable, site string) ([]models.Snapshot, error) {
	if len(raw) == 0 {
		return []models.Snapshot{}, nil
	}

	if err := checkHeader(domain, raw[0]); err != nil {
		return nil, err
	}

	records := make([]models.Snapshot, 0, len(raw)-1)
	for i := 1; i < len(raw); i++ {
		row := raw[i]

		if len(row) != models.CDXFieldCount {
			return nil, &MalformedRecordError{
				Domain:   domain,
				RowIndex: i,
				Fields:   len(row),
				Reason:   fmt.Sprintf("expected %d fields, got %d", models.CDXFieldCount, len(row)),
			}
		}

		// Failed captures and redirects carry no content change
		if row[colStatusCode] != okStatus {
			continue
		}

		date, err := ParseCaptureDate(row[colTimestamp])
		if err != nil {
			return nil, &DateParseError{
				Domain:       domain,
				RowIndex:     i,
				RawTimestamp: row[colTimestamp],
				Cause:        err,
			}
		}

		records = append(records, models.Snapshot{
			URLKey:     row[colURLKey],
			Timestamp:  row[colTimestamp],
			Original:   row[colOriginal],
			MimeType:   row[colMimeType],
			StatusCode: http.StatusOK,
			Digest:     row[colDigest],
			Length:     parseLength(row[colLength]),
			Site:       site,
			Date:       date,
		})
	}

	return records, nil
}

// ParseCaptureDate returns the UTC calendar day encoded in the first 8 digits of a
// CDX timestamp. The time of day is ignored.
func ParseCaptureDate(timestamp string) (time.Time, error) {
	if len(timestamp) < len(dateLayout) {
		return time.Time{}, fmt.Errorf("timestamp shorter than %d digits", len(dateLayout))
	}
	prefix := timestamp[:len(dateLayout)]
	for _, r := range prefix {
		if r < '0' || r > '9' {
			return time.Time{}, fmt.Errorf("non-digit in date %q", prefix)
		}
	}
	return time.ParseInLocation(dateLayout, prefix, time.UTC)
}

// Concat merges per-site batches. Rows are never deduplicated across sites.
func Concat(batches ...[]models.Snapshot) []models.Snapshot {
	total := 0
	for _, b := range batches {
		total += len(b)
	}
	out := make([]models.Snapshot, 0, total)
	for _, b := range batches {
		out = append(out, b...)
	}
	return out
}

func checkHeader(domain string, header []string) error {
	if len(header) != models.CDXFieldCount {
		return &MalformedRecordError{
			Domain:   domain,
			RowIndex: 0,
			Fields:   len(header),
			Reason:   fmt.Sprintf("header has %d fields, expected %d", len(header), models.CDXFieldCount),
		}
	}
	for i, name := range models.CDXHeader {
		if header[i] != name {
			return &MalformedRecordError{
				Domain:   domain,
				RowIndex: 0,
				Fields:   len(header),
				Reason:   fmt.Sprintf("header column %d is %q, expected %q", i, header[i], name),
			}
		}
	}
	return nil
}

// parseLength reads the payload size; "-" and other non-numeric values count as 0
func parseLength(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
