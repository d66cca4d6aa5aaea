package export

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"

	"github.com/forensix/log-inspector/internal/collect"
	"github.com/forensix/log-inspector/internal/domain"
)

// Format selects the serialization for one analysis result.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatText Format = "txt"
)

// Bundle is the stable, ordered view of one analysis run handed to the
// rendering/export collaborator. Every slice keeps pipeline ordering.
type Bundle struct {
	RunID    string                  `json:"run_id"`
	Summary  collect.Summary         `json:"summary"`
	Records  []domain.LogRecord      `json:"records"`
	Failures []domain.ParseFailure   `json:"failures,omitempty"`
	Buckets  []domain.TimeBucket     `json:"buckets,omitempty"`
	Flags    []domain.ReconciledFlag `json:"flags,omitempty"`

	// ForestError carries a detector-stage failure (e.g. too few
	// observations) alongside the results that are still valid.
	ForestError string `json:"forest_error,omitempty"`
}

// Exporter serializes a bundle to a byte stream.
type Exporter interface {
	Export(w io.Writer, b *Bundle) error
}

// New returns the exporter for a format.
func New(format Format) (Exporter, error) {
	switch format {
	case FormatJSON:
		return &jsonExporter{}, nil
	case FormatCSV:
		return &csvExporter{}, nil
	case FormatText:
		return &textExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// Gzipped wraps an exporter so its output is gzip-compressed.
func Gzipped(e Exporter) Exporter {
	return &gzippedExporter{inner: e}
}

type gzippedExporter struct {
	inner Exporter
}

func (g *gzippedExporter) Export(w io.Writer, b *Bundle) error {
	gz := gzip.NewWriter(w)
	if err := g.inner.Export(gz, b); err != nil {
		gz.Close()
		return err
	}
	return gz.Close()
}
