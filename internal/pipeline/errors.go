package pipeline

import "fmt"

// MalformedRecordError reports a raw CDX row that does not match the expected
// schema. RowIndex is the position in the raw table; 0 is the header row.
type MalformedRecordError struct {
	Domain   string
	RowIndex int
	Fields   int
	Reason   string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("normalize %s: malformed row %d: %s", e.Domain, e.RowIndex, e.Reason)
}

// DateParseError reports a capture timestamp whose first 8 digits are not a calendar date
type DateParseError struct {
	Domain       string
	RowIndex     int
	RawTimestamp string
	Cause        error
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("normalize %s: row %d: invalid timestamp %q", e.Domain, e.RowIndex, e.RawTimestamp)
}

func (e *DateParseError) Unwrap() error {
	return e.Cause
}
