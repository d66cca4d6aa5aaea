package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/forensix/log-inspector/internal/domain"
)

// csvExporter writes the record table, matching what an analyst exports
// from the summary view. Buckets and flags have their own table writers
// below since CSV cannot nest.
type csvExporter struct{}

func (e *csvExporter) Export(w io.Writer, b *Bundle) error {
	return RecordsCSV(w, b.Records)
}

var recordHeader = []string{
	"timestamp", "event_type", "username", "ip_address",
	"file_path", "process_id", "source_line", "source_format",
}

// RecordsCSV writes records as a header-led CSV table. Absent optional
// fields become empty cells. Documented round-trip caveat: CSV cannot
// distinguish an absent field from an empty string, so the importer treats
// an empty cell as absent. The extractor never produces empty-string
// fields, so nothing is lost in practice.
func RecordsCSV(w io.Writer, records []domain.LogRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(recordHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range records {
		row := []string{
			strconv.FormatInt(r.Timestamp, 10),
			strOrEmpty(r.EventType),
			strOrEmpty(r.Username),
			strOrEmpty(r.IPAddress),
			strOrEmpty(r.FilePath),
			intOrEmpty(r.ProcessID),
			strconv.Itoa(r.SourceLine),
			r.SourceFormat,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ImportRecordsCSV re-parses a record table written by RecordsCSV.
func ImportRecordsCSV(r io.Reader) ([]domain.LogRecord, error) {
	cr := csv.NewReader(r)

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("CSV input has no header")
	}

	records := make([]domain.LogRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) != len(recordHeader) {
			return nil, fmt.Errorf("row %d: expected %d columns, got %d", i+2, len(recordHeader), len(row))
		}

		ts, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid timestamp %q: %w", i+2, row[0], err)
		}
		sourceLine, err := strconv.Atoi(row[6])
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid source_line %q: %w", i+2, row[6], err)
		}

		rec := domain.LogRecord{
			Timestamp:    ts,
			EventType:    ptrOrNil(row[1]),
			Username:     ptrOrNil(row[2]),
			IPAddress:    ptrOrNil(row[3]),
			FilePath:     ptrOrNil(row[4]),
			SourceLine:   sourceLine,
			SourceFormat: row[7],
		}
		if row[5] != "" {
			pid, err := strconv.Atoi(row[5])
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid process_id %q: %w", i+2, row[5], err)
			}
			rec.ProcessID = &pid
		}

		records = append(records, rec)
	}

	return records, nil
}

// TimelineCSV writes the bucket counts as a two-column table, the shape the
// timeline chart consumes.
func TimelineCSV(w io.Writer, buckets []domain.TimeBucket) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"start_epoch", "count"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, b := range buckets {
		row := []string{
			strconv.FormatInt(b.StartEpoch, 10),
			strconv.Itoa(b.Count),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// FlagsCSV writes the reconciled anomaly flags.
func FlagsCSV(w io.Writer, flags []domain.ReconciledFlag) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"bucket_start", "label", "is_anomalous", "zscore", "forest_score"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, f := range flags {
		var z, fs string
		if f.ZScore != nil {
			z = strconv.FormatFloat(f.ZScore.Score, 'g', -1, 64)
		}
		if f.Forest != nil {
			fs = strconv.FormatFloat(f.Forest.Score, 'g', -1, 64)
		}
		row := []string{
			strconv.FormatInt(f.BucketStart, 10),
			string(f.Label),
			strconv.FormatBool(f.Anomalous),
			z,
			fs,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func intOrEmpty(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

func ptrOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
