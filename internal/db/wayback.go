package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/thesavant42/waybackpulse/internal/models"
)

const dateFormat = "2006-01-02"

// InsertSnapshots stores normalized snapshots in one transaction
// Returns the number of rows inserted
func (db *DB) InsertSnapshots(records []models.Snapshot) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertSnapshots(tx, records); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return len(records), nil
}

func insertSnapshots(tx *sql.Tx, records []models.Snapshot) error {
	stmt, err := tx.Prepare(insertSnapshot)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		_, err := stmt.Exec(
			r.Site,
			r.URLKey,
			r.Timestamp,
			r.Original,
			r.MimeType,
			r.StatusCode,
			r.Digest,
			r.Length,
			r.Date.Format(dateFormat),
		)
		if err != nil {
			return fmt.Errorf("failed to insert snapshot %s@%s: %w", r.URLKey, r.Timestamp, err)
		}
	}
	return nil
}

// GetSnapshots returns the stored snapshots for a site, or for every site when site is empty
func (db *DB) GetSnapshots(site string) ([]models.Snapshot, error) {
	rows, err := db.conn.Query(selectSnapshots, site, site)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	return scanSnapshots(rows)
}

// GetSiteStats returns per-site snapshot counts and capture day range, counting
// only captures on or after since when it is non-nil
func (db *DB) GetSiteStats(since *time.Time) ([]models.SiteStats, error) {
	bound := sinceBound(since)
	rows, err := db.conn.Query(selectSiteStats, bound, bound)
	if err != nil {
		return nil, fmt.Errorf("failed to query site stats: %w", err)
	}
	defer rows.Close()

	var stats []models.SiteStats
	for rows.Next() {
		var s models.SiteStats
		var first, last string
		if err := rows.Scan(&s.Site, &s.Snapshots, &first, &last); err != nil {
			return nil, fmt.Errorf("failed to scan site stats: %w", err)
		}
		if s.First, err = parseDate(first); err != nil {
			return nil, err
		}
		if s.Last, err = parseDate(last); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}

	return stats, rows.Err()
}

// CountBuckets tallies stored snapshots per (bucket, site) in SQL.
// Matches pipeline.Aggregate for the same records.
func (db *DB) CountBuckets(granularity models.Granularity, since *time.Time) ([]models.Bucket, error) {
	format := "%Y-%m-01"
	if granularity == models.GranularityYear {
		format = "%Y-01-01"
	}
	bound := sinceBound(since)
	rows, err := db.conn.Query(selectBucketCounts, format, bound, bound)
	if err != nil {
		return nil, fmt.Errorf("failed to count buckets: %w", err)
	}
	defer rows.Close()

	buckets := make([]models.Bucket, 0)
	for rows.Next() {
		var b models.Bucket
		var start string
		if err := rows.Scan(&start, &b.Site, &b.Count); err != nil {
			return nil, fmt.Errorf("failed to scan bucket: %w", err)
		}
		if b.Start, err = parseDate(start); err != nil {
			return nil, err
		}
		buckets = append(buckets, b)
	}

	return buckets, rows.Err()
}

// DeleteSnapshotsBySite removes every stored snapshot of a site
func (db *DB) DeleteSnapshotsBySite(site string) error {
	_, err := db.conn.Exec(deleteSnapshotsBySite, site)
	if err != nil {
		return fmt.Errorf("failed to delete snapshots for site: %w", err)
	}
	return nil
}

// ReplaceSite swaps a site's stored snapshots for a fresh batch in one transaction.
// On any error the previously stored snapshots are left untouched.
func (db *DB) ReplaceSite(site string, records []models.Snapshot) (int, error) {
	for _, r := range records {
		if r.Site != site {
			return 0, fmt.Errorf("snapshot %s@%s belongs to site %q, not %q", r.URLKey, r.Timestamp, r.Site, site)
		}
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(deleteSnapshotsBySite, site); err != nil {
		return 0, fmt.Errorf("failed to delete snapshots for site: %w", err)
	}
	if err := insertSnapshots(tx, records); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return len(records), nil
}

func sinceBound(since *time.Time) string {
	if since == nil {
		return ""
	}
	return since.Format(dateFormat)
}

// scanSnapshots scans rows into Snapshot structs
func scanSnapshots(rows *sql.Rows) ([]models.Snapshot, error) {
	var records []models.Snapshot
	for rows.Next() {
		var r models.Snapshot
		var original, mimeType, digest sql.NullString
		var statusCode, length sql.NullInt64
		var captureDate string

		if err := rows.Scan(
			&r.URLKey, &r.Timestamp, &original, &mimeType, &statusCode, &digest, &length, &r.Site, &captureDate,
		); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}

		r.Original = original.String
		r.MimeType = mimeType.String
		r.Digest = digest.String
		r.StatusCode = int(statusCode.Int64)
		r.Length = length.Int64

		date, err := parseDate(captureDate)
		if err != nil {
			return nil, err
		}
		r.Date = date

		records = append(records, r)
	}

	return records, rows.Err()
}

func parseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dateFormat, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to parse stored date %q: %w", s, err)
	}
	return t, nil
}
