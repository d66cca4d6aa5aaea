package anomaly

import (
	"errors"
	"reflect"
	"testing"

	"github.com/forensix/log-inspector/internal/domain"
)

func forestConfig(seed int64) ForestConfig {
	cfg := DefaultForestConfig()
	cfg.Seed = &seed
	return cfg
}

func TestDetectIsolationForest_TooFewObservations(t *testing.T) {
	for _, n := range []int{0, 1} {
		buckets := bucketsWithCounts(make([]int, n)...)

		_, err := DetectIsolationForest(buckets, forestConfig(42))

		var fitErr *domain.ModelFitError
		if !errors.As(err, &fitErr) {
			t.Fatalf("n=%d: expected ModelFitError, got %v", n, err)
		}
		if fitErr.Observations != n {
			t.Errorf("n=%d: expected Observations=%d, got %d", n, n, fitErr.Observations)
		}
	}
}

func TestDetectIsolationForest_SingleSpike(t *testing.T) {
	counts := make([]int, 101)
	for i := range counts {
		counts[i] = 1
	}
	counts[57] = 10

	flags, err := DetectIsolationForest(bucketsWithCounts(counts...), forestConfig(42))
	if err != nil {
		t.Fatalf("DetectIsolationForest() error = %v", err)
	}
	if len(flags) != 101 {
		t.Fatalf("expected 101 flags, got %d", len(flags))
	}

	if !flags[57].Anomalous {
		t.Errorf("expected spike bucket flagged, score=%g", flags[57].Score)
	}

	// The easiest point to isolate must carry the highest score.
	for i, f := range flags {
		if i != 57 && f.Score >= flags[57].Score {
			t.Errorf("bucket %d score %g >= spike score %g", i, f.Score, flags[57].Score)
		}
		if i != 57 && f.Anomalous {
			t.Errorf("bucket %d unexpectedly flagged", i)
		}
	}

	if flags[57].Method != domain.MethodIsolationForest {
		t.Errorf("expected method %s, got %s", domain.MethodIsolationForest, flags[57].Method)
	}
}

func TestDetectIsolationForest_Deterministic(t *testing.T) {
	counts := []int{1, 2, 1, 3, 1, 50, 2, 1, 2, 1}
	buckets := bucketsWithCounts(counts...)

	first, err := DetectIsolationForest(buckets, forestConfig(1234))
	if err != nil {
		t.Fatalf("first run error = %v", err)
	}
	second, err := DetectIsolationForest(buckets, forestConfig(1234))
	if err != nil {
		t.Fatalf("second run error = %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatal("same input and seed must yield identical flags")
	}
}

func TestDetectIsolationForest_InvalidConfig(t *testing.T) {
	buckets := bucketsWithCounts(1, 2, 3)

	cfg := forestConfig(1)
	cfg.Contamination = 1.5
	if _, err := DetectIsolationForest(buckets, cfg); err == nil {
		t.Error("expected error for contamination outside (0, 1)")
	}

	cfg = forestConfig(1)
	cfg.Trees = 0
	if _, err := DetectIsolationForest(buckets, cfg); err == nil {
		t.Error("expected error for zero trees")
	}
}
