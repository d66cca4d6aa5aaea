package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"

	"github.com/forensix/log-inspector/internal/anomaly"
	"github.com/forensix/log-inspector/internal/bucket"
	"github.com/forensix/log-inspector/internal/collect"
	"github.com/forensix/log-inspector/internal/config"
	"github.com/forensix/log-inspector/internal/domain"
	"github.com/forensix/log-inspector/internal/export"
	"github.com/forensix/log-inspector/internal/geo"
	"github.com/forensix/log-inspector/internal/reader"
)

// Analyzer orchestrates one batch analysis run: collect, aggregate, detect,
// reconcile, optionally geolocate. Each run works on its own immutable
// snapshot of the input; concurrent runs share nothing.
type Analyzer struct {
	cfg       *config.Config
	geoClient *geo.Client
}

// Result is everything one run produced. Partial stage failures are carried
// on the result instead of aborting it: a detector that could not fit still
// leaves the earlier stages' output intact.
type Result struct {
	RunID    string
	Summary  collect.Summary
	Records  []domain.LogRecord
	Failures []domain.ParseFailure
	Buckets  []domain.TimeBucket

	ZScoreFlags []domain.AnomalyFlag
	ForestFlags []domain.AnomalyFlag
	Flags       []domain.ReconciledFlag

	Locations []geo.Location

	// ForestErr is set when the isolation forest could not fit; the
	// z-score flags and everything before them are still valid.
	ForestErr error
}

// Bundle converts the result into the export collaborator's view.
func (r *Result) Bundle() *export.Bundle {
	b := &export.Bundle{
		RunID:    r.RunID,
		Summary:  r.Summary,
		Records:  r.Records,
		Failures: r.Failures,
		Buckets:  r.Buckets,
		Flags:    r.Flags,
	}
	if r.ForestErr != nil {
		b.ForestError = r.ForestErr.Error()
	}
	return b
}

// NewAnalyzer creates an analyzer. geoClient may be nil when geolocation is
// disabled.
func NewAnalyzer(cfg *config.Config, geoClient *geo.Client) (*Analyzer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	return &Analyzer{
		cfg:       cfg,
		geoClient: geoClient,
	}, nil
}

// AnalyzeFiles discovers and reads the configured inputs, then runs the
// pipeline over their lines.
func (a *Analyzer) AnalyzeFiles(ctx context.Context, paths []string) (*Result, error) {
	ctx, span := startSpan(ctx, "analyzer.read_input",
		attribute.Int("paths", len(paths)))

	files, err := reader.Discover(paths)
	if err != nil {
		endSpanWithError(span, err, "input discovery failed")
		return nil, err
	}

	lines, err := reader.ReadAll(files)
	if err != nil {
		endSpanWithError(span, err, "input reading failed")
		return nil, err
	}
	endSpanSuccess(span)

	return a.Run(ctx, lines)
}

// Run executes the pipeline over an immutable snapshot of raw lines.
// Cancellation is all-or-nothing: a cancelled context yields no partial
// result. A missing timeline (zero parseable records) returns the collected
// failures alongside domain.ErrEmptyInput so the caller can still report
// them.
func (a *Analyzer) Run(ctx context.Context, lines []domain.RawLine) (*Result, error) {
	res := &Result{RunID: uuid.NewString()}

	log.Info().
		Str("run_id", res.RunID).
		Int("lines", len(lines)).
		Msg("Starting analysis run")

	// Collect
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	_, span := startSpan(ctx, "analyzer.collect", attribute.Int("lines", len(lines)))
	res.Records, res.Failures = collect.Collect(lines)
	res.Summary = collect.Summarize(res.Records, res.Failures)
	endSpanSuccess(span)

	// Aggregate
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	_, span = startSpan(ctx, "analyzer.aggregate",
		attribute.Int("records", len(res.Records)),
		attribute.Int64("width_seconds", a.cfg.BucketWidthSeconds))
	buckets, err := bucket.Aggregate(res.Records, a.cfg.BucketWidthSeconds)
	if err != nil {
		endSpanWithError(span, err, "aggregation failed")
		if errors.Is(err, domain.ErrEmptyInput) {
			// No timeline to show; the parse failures are still worth
			// reporting.
			return res, err
		}
		return nil, err
	}
	res.Buckets = buckets
	endSpanSuccess(span)

	// Detect
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	_, span = startSpan(ctx, "analyzer.detect_zscore",
		attribute.Int("buckets", len(buckets)),
		attribute.Float64("threshold", a.cfg.ZScoreThreshold))
	res.ZScoreFlags = anomaly.DetectZScore(buckets, a.cfg.ZScoreThreshold)
	endSpanSuccess(span)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	_, span = startSpan(ctx, "analyzer.detect_isolation_forest",
		attribute.Int("buckets", len(buckets)))
	forestCfg := anomaly.ForestConfig{
		Trees:         a.cfg.ForestTrees,
		SampleSize:    a.cfg.ForestSampleSize,
		Contamination: a.cfg.Contamination,
		Seed:          a.cfg.Seed,
	}
	res.ForestFlags, err = anomaly.DetectIsolationForest(buckets, forestCfg)
	if err != nil {
		// Fatal to this detector only.
		endSpanWithError(span, err, "isolation forest failed")
		log.Warn().Err(err).Msg("Isolation forest skipped, continuing with z-score only")
		res.ForestErr = err
		res.ForestFlags = nil
	} else {
		endSpanSuccess(span)
	}

	// Reconcile
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	_, span = startSpan(ctx, "analyzer.reconcile")
	res.Flags = anomaly.Reconcile(res.ZScoreFlags, res.ForestFlags)
	endSpanSuccess(span)

	// Geolocate
	if a.geoClient != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ips := geo.DistinctIPs(res.Records)
		geoCtx, span := startSpan(ctx, "analyzer.geolocate", attribute.Int("ips", len(ips)))
		res.Locations = a.geoClient.LookupAll(geoCtx, ips)
		endSpanSuccess(span)
	}

	anomalous := 0
	for _, f := range res.Flags {
		if f.Anomalous {
			anomalous++
		}
	}

	log.Info().
		Str("run_id", res.RunID).
		Int("records", len(res.Records)).
		Int("failures", len(res.Failures)).
		Int("buckets", len(res.Buckets)).
		Int("anomalous_buckets", anomalous).
		Msg("Analysis run complete")

	return res, nil
}
