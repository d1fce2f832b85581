package db

const createSnapshotsTable = `
CREATE TABLE IF NOT EXISTS snapshots (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    site TEXT NOT NULL,
    urlkey TEXT NOT NULL,
    timestamp TEXT NOT NULL,
    original TEXT,
    mimetype TEXT,
    statuscode INTEGER NOT NULL CHECK (statuscode = 200),
    digest TEXT,
    length INTEGER,
    capture_date TEXT NOT NULL,
    loaded_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_snapshots_site ON snapshots(site, timestamp);
CREATE INDEX IF NOT EXISTS idx_snapshots_date ON snapshots(capture_date);
`

const insertSnapshot = `
INSERT INTO snapshots (
    site, urlkey, timestamp, original, mimetype, statuscode, digest, length, capture_date
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// An empty site parameter selects every site
const selectSnapshots = `
SELECT urlkey, timestamp, original, mimetype, statuscode, digest, length, site, capture_date
FROM snapshots
WHERE (? = '' OR site = ?)
ORDER BY site ASC, timestamp ASC, id ASC
`

const selectSiteStats = `
SELECT site, COUNT(*), MIN(capture_date), MAX(capture_date)
FROM snapshots
WHERE (? = '' OR capture_date >= ?)
GROUP BY site
ORDER BY site ASC
`

// bucket format is '%Y-01-01' for years and '%Y-%m-01' for months
const selectBucketCounts = `
SELECT strftime(?, capture_date) AS bucket, site, COUNT(*)
FROM snapshots
WHERE (? = '' OR capture_date >= ?)
GROUP BY bucket, site
ORDER BY bucket ASC, site ASC
`

const deleteSnapshotsBySite = `
DELETE FROM snapshots WHERE site = ?
`
