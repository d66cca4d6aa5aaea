package bucket

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/forensix/log-inspector/internal/domain"
)

// Aggregate groups records into fixed-width time windows and counts events
// per window. Bucket boundaries are anchored at floor(minTs/width)*width and
// buckets run contiguously from the minimum to the maximum observed
// timestamp. Empty buckets are included: gaps matter for the timeline and
// for the statistical baseline.
//
// Returns domain.ErrEmptyInput when given zero records; the caller has no
// timeline to show in that case.
func Aggregate(records []domain.LogRecord, width int64) ([]domain.TimeBucket, error) {
	if len(records) == 0 {
		return nil, domain.ErrEmptyInput
	}
	if width <= 0 {
		return nil, fmt.Errorf("bucket width must be positive, got %d", width)
	}

	minTs, maxTs := records[0].Timestamp, records[0].Timestamp
	for _, r := range records[1:] {
		if r.Timestamp < minTs {
			minTs = r.Timestamp
		}
		if r.Timestamp > maxTs {
			maxTs = r.Timestamp
		}
	}

	anchor := (minTs / width) * width
	n := (maxTs-anchor)/width + 1

	buckets := make([]domain.TimeBucket, n)
	for i := range buckets {
		buckets[i] = domain.TimeBucket{
			StartEpoch:   anchor + int64(i)*width,
			WidthSeconds: width,
		}
	}

	// Records keep their input order within each bucket.
	for _, r := range records {
		i := (r.Timestamp - anchor) / width
		buckets[i].Count++
		buckets[i].Records = append(buckets[i].Records, r)
	}

	log.Debug().
		Int64("width_seconds", width).
		Int("buckets", len(buckets)).
		Int64("start_epoch", anchor).
		Msg("Aggregated records into time buckets")

	return buckets, nil
}
