package pipeline

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"github.com/thesavant42/waybackpulse/internal/models"
)

func header() []string {
	return append([]string(nil), models.CDXHeader...)
}

func row(timestamp, status string) []string {
	return []string{"a)/", timestamp, "http://a/", "text/html", status, "d1", "100"}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNormalizeEndToEndExample(t *testing.T) {
	raw := models.RawTable{
		header(),
		{"a)/", "20160101000000", "http://a/", "text/html", "200", "d1", "100"},
		{"a)/", "20160201000000", "http://a/", "text/html", "301", "d1", "100"},
	}

	records, err := Normalize("a.com", raw, "a")
	require.NoError(t, err)

	want := []models.Snapshot{{
		URLKey:     "a)/",
		Timestamp:  "20160101000000",
		Original:   "http://a/",
		MimeType:   "text/html",
		StatusCode: 200,
		Digest:     "d1",
		Length:     100,
		Site:       "a",
		Date:       date(2016, time.January, 1),
	}}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Errorf("Normalize() mismatch (-want +got):\n%s", diff)
	}

	buckets := Aggregate(records, models.GranularityMonth, nil)
	require.Equal(t, []models.Bucket{{Start: date(2016, time.January, 1), Site: "a", Count: 1}}, buckets)
}

func TestNormalizeHeaderExclusion(t *testing.T) {
	// Every data row is a 200, so the output size is exactly the number of candidates
	for k := 0; k < 5; k++ {
		raw := models.RawTable{header()}
		for i := 0; i < k; i++ {
			raw = append(raw, row("20200101000000", "200"))
		}
		records, err := Normalize("a.com", raw, "a")
		require.NoError(t, err)
		require.Len(t, records, k)
	}
}

func TestNormalizeStatusFilter(t *testing.T) {
	raw := models.RawTable{
		header(),
		row("20160101000000", "200"),
		row("20160102000000", "301"),
		row("20160103000000", "404"),
		row("20160104000000", "-"),
		row("20160105000000", "200"),
		row("20160106000000", " 200"),
	}

	records, err := Normalize("a.com", raw, "a")
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, r := range records {
		require.Equal(t, 200, r.StatusCode)
	}
	require.Equal(t, date(2016, time.January, 1), records[0].Date)
	require.Equal(t, date(2016, time.January, 5), records[1].Date)
}

func TestNormalizeStatusFilterSkipsDateCheck(t *testing.T) {
	// Redirect rows are dropped before their timestamp is looked at
	raw := models.RawTable{header(), row("garbage", "302")}
	records, err := Normalize("a.com", raw, "a")
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestParseCaptureDate(t *testing.T) {
	tests := []struct {
		timestamp string
		want      time.Time
		wantErr   bool
	}{
		{"20160315120000", date(2016, time.March, 15), false},
		{"20160315000000", date(2016, time.March, 15), false},
		{"20160315235959", date(2016, time.March, 15), false},
		{"20160315", date(2016, time.March, 15), false},
		{"20160229101010", date(2016, time.February, 29), false},
		{"20150229101010", time.Time{}, true},
		{"20161301000000", time.Time{}, true},
		{"2016031", time.Time{}, true},
		{"2016-03-15", time.Time{}, true},
		{"", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.timestamp, func(t *testing.T) {
			got, err := ParseCaptureDate(tt.timestamp)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCaptureDate(%q) error = %v, wantErr %v", tt.timestamp, err, tt.wantErr)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseCaptureDate(%q) = %v, want %v", tt.timestamp, got, tt.want)
			}
		})
	}
}

func TestNormalizeSiteTagging(t *testing.T) {
	raw := models.RawTable{
		header(),
		row("20160101000000", "200"),
		row("20170601000000", "200"),
		row("20180101000000", "404"),
	}

	a, err := Normalize("example.com", raw, "a")
	require.NoError(t, err)
	b, err := Normalize("example.com", raw, "b")
	require.NoError(t, err)
	require.Len(t, b, len(a))

	for i := range a {
		require.Equal(t, "a", a[i].Site)
		require.Equal(t, "b", b[i].Site)
		b[i].Site = "a"
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("records differ beyond site (-a +b):\n%s", diff)
	}
}

func TestNormalizeEmpty(t *testing.T) {
	for name, raw := range map[string]models.RawTable{
		"no rows":     {},
		"header only": {header()},
	} {
		t.Run(name, func(t *testing.T) {
			records, err := Normalize("a.com", raw, "a")
			require.NoError(t, err)
			require.NotNil(t, records)
			require.Empty(t, records)

			for _, g := range []models.Granularity{models.GranularityYear, models.GranularityMonth} {
				require.Empty(t, Aggregate(records, g, nil))
			}
		})
	}
}

func TestNormalizeMalformedRow(t *testing.T) {
	raw := models.RawTable{
		header(),
		{"a)/", "20160101000000", "http://a/", "text/html", "200", "d1"},
		row("20160102000000", "200"),
	}

	records, err := Normalize("a.com", raw, "a")
	require.Nil(t, records)

	var malformed *MalformedRecordError
	require.True(t, errors.As(err, &malformed), "expected *MalformedRecordError, got %T", err)
	require.Equal(t, "a.com", malformed.Domain)
	require.Equal(t, 1, malformed.RowIndex)
	require.Equal(t, 6, malformed.Fields)
}

func TestNormalizeMalformedLaterRowDiscardsEarlierRows(t *testing.T) {
	raw := models.RawTable{
		header(),
		row("20160101000000", "200"),
		row("20160102000000", "200"),
		append(row("20160103000000", "200"), "extra"),
	}

	records, err := Normalize("a.com", raw, "a")
	require.Nil(t, records)

	var malformed *MalformedRecordError
	require.True(t, errors.As(err, &malformed))
	require.Equal(t, 3, malformed.RowIndex)
	require.Equal(t, 8, malformed.Fields)
}

func TestNormalizeHeaderMismatch(t *testing.T) {
	tests := map[string][]string{
		"renamed column": {"urlkey", "timestamp", "original", "mime", "statuscode", "digest", "length"},
		"reordered":      {"timestamp", "urlkey", "original", "mimetype", "statuscode", "digest", "length"},
		"short":          {"original", "timestamp", "statuscode", "mimetype"},
	}

	for name, hdr := range tests {
		t.Run(name, func(t *testing.T) {
			raw := models.RawTable{hdr, row("20160101000000", "200")}
			_, err := Normalize("a.com", raw, "a")

			var malformed *MalformedRecordError
			require.True(t, errors.As(err, &malformed), "expected *MalformedRecordError, got %v", err)
			require.Equal(t, 0, malformed.RowIndex)
		})
	}
}

func TestNormalizeDateParseError(t *testing.T) {
	raw := models.RawTable{
		header(),
		row("20160101000000", "200"),
		row("20161345000000", "200"),
	}

	records, err := Normalize("a.com", raw, "a")
	require.Nil(t, records)

	var dateErr *DateParseError
	require.True(t, errors.As(err, &dateErr), "expected *DateParseError, got %T", err)
	require.Equal(t, "a.com", dateErr.Domain)
	require.Equal(t, 2, dateErr.RowIndex)
	require.Equal(t, "20161345000000", dateErr.RawTimestamp)
}

func TestNormalizeLength(t *testing.T) {
	raw := models.RawTable{header()}
	for _, length := range []string{"2048", "-", "", "abc", "-5"} {
		r := row("20160101000000", "200")
		r[6] = length
		raw = append(raw, r)
	}

	records, err := Normalize("a.com", raw, "a")
	require.NoError(t, err)

	var got []int64
	for _, r := range records {
		got = append(got, r.Length)
	}
	require.Equal(t, []int64{2048, 0, 0, 0, 0}, got)
}

func TestConcatKeepsDuplicatesAcrossSites(t *testing.T) {
	raw := models.RawTable{header(), row("20160101000000", "200")}
	a, err := Normalize("a.com", raw, "a")
	require.NoError(t, err)
	b, err := Normalize("b.com", raw, "b")
	require.NoError(t, err)

	merged := Concat(a, b)
	require.Len(t, merged, 2)
	require.Equal(t, merged[0].URLKey, merged[1].URLKey)
	require.Equal(t, "a", merged[0].Site)
	require.Equal(t, "b", merged[1].Site)

	require.Empty(t, Concat())
}
