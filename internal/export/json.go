package export

import (
	"fmt"
	"io"

	json "github.com/goccy/go-json"

	"github.com/forensix/log-inspector/internal/domain"
)

// jsonExporter writes the whole bundle as indented JSON. Absent optional
// fields are omitted, so JSON round-trips the present/absent distinction
// losslessly.
type jsonExporter struct{}

func (e *jsonExporter) Export(w io.Writer, b *Bundle) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(b); err != nil {
		return fmt.Errorf("failed to encode bundle: %w", err)
	}
	return nil
}

// ImportBundleJSON re-parses an exported bundle. Together with the JSON
// exporter this gives full export/import symmetry for every field.
func ImportBundleJSON(r io.Reader) (*Bundle, error) {
	var b Bundle
	if err := json.NewDecoder(r).Decode(&b); err != nil {
		return nil, fmt.Errorf("failed to decode bundle: %w", err)
	}
	return &b, nil
}

// ImportRecordsJSON re-parses a bare record array.
func ImportRecordsJSON(r io.Reader) ([]domain.LogRecord, error) {
	var records []domain.LogRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode records: %w", err)
	}
	return records, nil
}
