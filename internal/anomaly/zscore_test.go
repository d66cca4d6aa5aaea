package anomaly

import (
	"math"
	"testing"

	"github.com/forensix/log-inspector/internal/domain"
)

func bucketsWithCounts(counts ...int) []domain.TimeBucket {
	buckets := make([]domain.TimeBucket, len(counts))
	for i, c := range counts {
		buckets[i] = domain.TimeBucket{
			StartEpoch:   int64(i) * 10,
			WidthSeconds: 10,
			Count:        c,
		}
	}
	return buckets
}

func TestDetectZScore_AllEqualCounts(t *testing.T) {
	flags := DetectZScore(bucketsWithCounts(3, 3, 3, 3, 3), DefaultZScoreThreshold)

	if len(flags) != 5 {
		t.Fatalf("expected 5 flags, got %d", len(flags))
	}
	for i, f := range flags {
		if f.Score != 0 {
			t.Errorf("flag %d: expected score 0 for degenerate distribution, got %g", i, f.Score)
		}
		if f.Anomalous {
			t.Errorf("flag %d: all-equal series must never be anomalous", i)
		}
		if math.IsNaN(f.Score) || math.IsInf(f.Score, 0) {
			t.Errorf("flag %d: division by zero leaked into score: %g", i, f.Score)
		}
	}
}

func TestDetectZScore_SingleSpike(t *testing.T) {
	// 100 buckets of count 1 plus one bucket with a 10x count.
	counts := make([]int, 101)
	for i := range counts {
		counts[i] = 1
	}
	counts[57] = 10

	flags := DetectZScore(bucketsWithCounts(counts...), DefaultZScoreThreshold)

	var flagged []int
	for i, f := range flags {
		if f.Anomalous {
			flagged = append(flagged, i)
		}
	}

	if len(flagged) != 1 || flagged[0] != 57 {
		t.Fatalf("expected exactly bucket 57 flagged, got %v", flagged)
	}
	if flags[57].Score <= DefaultZScoreThreshold {
		t.Errorf("expected spike score above %g, got %g", DefaultZScoreThreshold, flags[57].Score)
	}
	if flags[57].Method != domain.MethodZScore {
		t.Errorf("expected method %s, got %s", domain.MethodZScore, flags[57].Method)
	}
}

func TestDetectZScore_NegativeDeviation(t *testing.T) {
	// A deep dip is as anomalous as a spike: the threshold applies to the
	// absolute score.
	counts := make([]int, 101)
	for i := range counts {
		counts[i] = 10
	}
	counts[3] = 0

	flags := DetectZScore(bucketsWithCounts(counts...), DefaultZScoreThreshold)

	if !flags[3].Anomalous {
		t.Fatalf("expected dip bucket flagged, score=%g", flags[3].Score)
	}
	if flags[3].Score >= 0 {
		t.Errorf("expected negative score for dip, got %g", flags[3].Score)
	}
}

func TestDetectZScore_Empty(t *testing.T) {
	flags := DetectZScore(nil, DefaultZScoreThreshold)
	if len(flags) != 0 {
		t.Fatalf("expected no flags for empty input, got %d", len(flags))
	}
}
