package anomaly

import (
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/stat"

	"github.com/forensix/log-inspector/internal/domain"
)

// DefaultZScoreThreshold is the absolute z-score above which a bucket is
// flagged anomalous.
const DefaultZScoreThreshold = 3.0

// DetectZScore flags buckets whose event count deviates from the population
// mean by more than threshold standard deviations. Two passes over a static
// bucket sequence: one for mean and population stddev, one for scoring.
// Deterministic and pure apart from a warning log on degenerate input.
//
// When the population stddev is zero every score is zero and nothing is
// flagged: an all-equal series is never anomalous and there is no division
// by zero.
func DetectZScore(buckets []domain.TimeBucket, threshold float64) []domain.AnomalyFlag {
	counts := make([]float64, len(buckets))
	for i, b := range buckets {
		counts[i] = float64(b.Count)
	}

	var mean, stddev float64
	if len(counts) > 0 {
		mean, stddev = stat.PopMeanStdDev(counts, nil)
	}

	if stddev == 0 && len(buckets) > 0 {
		log.Warn().
			Int("buckets", len(buckets)).
			Float64("mean", mean).
			Msg("Degenerate bucket count distribution, z-score detector will flag nothing")
	}

	flags := make([]domain.AnomalyFlag, len(buckets))
	for i, b := range buckets {
		var score float64
		if stddev != 0 {
			score = (counts[i] - mean) / stddev
		}

		flags[i] = domain.AnomalyFlag{
			BucketStart: b.StartEpoch,
			Method:      domain.MethodZScore,
			Score:       score,
			Anomalous:   score > threshold || score < -threshold,
		}
	}

	return flags
}
