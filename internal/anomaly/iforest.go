package anomaly

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/stat"

	"github.com/forensix/log-inspector/internal/domain"
)

// ForestConfig configures the isolation forest detector.
type ForestConfig struct {
	Trees         int     // number of isolation trees
	SampleSize    int     // per-tree subsample cap
	Contamination float64 // expected anomaly fraction, in (0, 1)

	// Seed makes a run reproducible. Nil means a time-derived seed is
	// chosen once for the run and logged, so results are explicitly
	// non-deterministic but still traceable. The seed is always threaded
	// through the call; there is no package-level generator.
	Seed *int64
}

// DefaultForestConfig returns the standard isolation forest parameters.
func DefaultForestConfig() ForestConfig {
	return ForestConfig{
		Trees:         100,
		SampleSize:    256,
		Contamination: 0.05,
	}
}

// DetectIsolationForest fits a forest of randomized isolation trees over a
// per-bucket feature vector (event count, distinct users, distinct IPs) and
// flags the buckets whose anomaly score exceeds the (1-contamination)
// empirical quantile of all scores. The anomaly score increases as the
// average number of splits needed to isolate a point decreases.
//
// Returns domain.ModelFitError when there are fewer than two observations.
// That failure is fatal to this detector only; callers keep the z-score
// results and the rest of the pipeline.
func DetectIsolationForest(buckets []domain.TimeBucket, cfg ForestConfig) ([]domain.AnomalyFlag, error) {
	if len(buckets) < 2 {
		return nil, &domain.ModelFitError{Observations: len(buckets)}
	}
	if cfg.Trees <= 0 {
		return nil, fmt.Errorf("forest needs at least one tree, got %d", cfg.Trees)
	}
	if cfg.Contamination <= 0 || cfg.Contamination >= 1 {
		return nil, fmt.Errorf("contamination must be in (0, 1), got %g", cfg.Contamination)
	}

	seed := resolveSeed(cfg.Seed)
	rng := rand.New(rand.NewSource(seed))

	points := make([][]float64, len(buckets))
	for i, b := range buckets {
		points[i] = []float64{
			float64(b.Count),
			float64(b.DistinctUsers()),
			float64(b.DistinctIPs()),
		}
	}

	// A sample of one cannot be normalized, fall back to the full set.
	sampleSize := cfg.SampleSize
	if sampleSize <= 1 || sampleSize > len(points) {
		sampleSize = len(points)
	}
	heightLimit := int(math.Ceil(math.Log2(float64(sampleSize))))

	trees := make([]*isoNode, cfg.Trees)
	for i := range trees {
		trees[i] = buildTree(subsample(points, sampleSize, rng), 0, heightLimit, rng)
	}

	norm := avgPathLength(sampleSize)
	scores := make([]float64, len(points))
	for i, p := range points {
		var total float64
		for _, tree := range trees {
			total += pathLength(tree, p, 0)
		}
		avg := total / float64(len(trees))
		scores[i] = math.Exp2(-avg / norm)
	}

	sorted := append([]float64(nil), scores...)
	sort.Float64s(sorted)
	cutoff := stat.Quantile(1-cfg.Contamination, stat.Empirical, sorted, nil)

	flags := make([]domain.AnomalyFlag, len(buckets))
	for i, b := range buckets {
		flags[i] = domain.AnomalyFlag{
			BucketStart: b.StartEpoch,
			Method:      domain.MethodIsolationForest,
			Score:       scores[i],
			Anomalous:   scores[i] > cutoff,
		}
	}

	return flags, nil
}

// resolveSeed fixes the seed for one run. A nil seed is replaced with a
// time-derived one and logged so the run can be reproduced afterwards.
func resolveSeed(seed *int64) int64 {
	if seed != nil {
		return *seed
	}
	s := time.Now().UnixNano()
	log.Info().Int64("seed", s).Msg("No seed configured, using time-derived seed for isolation forest")
	return s
}

// isoNode is one node of an isolation tree. Leaves carry the number of
// points they absorbed so truncated paths can be length-adjusted.
type isoNode struct {
	attr  int
	split float64
	left  *isoNode
	right *isoNode
	size  int
}

func subsample(points [][]float64, size int, rng *rand.Rand) [][]float64 {
	if size >= len(points) {
		return points
	}
	sample := make([][]float64, size)
	for i, idx := range rng.Perm(len(points))[:size] {
		sample[i] = points[idx]
	}
	return sample
}

func buildTree(points [][]float64, depth, limit int, rng *rand.Rand) *isoNode {
	if depth >= limit || len(points) <= 1 {
		return &isoNode{size: len(points)}
	}

	// Only attributes that still vary can split the partition.
	dims := len(points[0])
	var splittable []int
	mins := make([]float64, dims)
	maxs := make([]float64, dims)
	for d := 0; d < dims; d++ {
		mins[d], maxs[d] = points[0][d], points[0][d]
		for _, p := range points[1:] {
			if p[d] < mins[d] {
				mins[d] = p[d]
			}
			if p[d] > maxs[d] {
				maxs[d] = p[d]
			}
		}
		if maxs[d] > mins[d] {
			splittable = append(splittable, d)
		}
	}
	if len(splittable) == 0 {
		return &isoNode{size: len(points)}
	}

	attr := splittable[rng.Intn(len(splittable))]
	split := mins[attr] + rng.Float64()*(maxs[attr]-mins[attr])

	var left, right [][]float64
	for _, p := range points {
		if p[attr] < split {
			left = append(left, p)
		} else {
			right = append(right, p)
		}
	}

	return &isoNode{
		attr:  attr,
		split: split,
		left:  buildTree(left, depth+1, limit, rng),
		right: buildTree(right, depth+1, limit, rng),
		size:  len(points),
	}
}

func pathLength(node *isoNode, p []float64, depth int) float64 {
	if node.left == nil && node.right == nil {
		return float64(depth) + avgPathLength(node.size)
	}
	if p[node.attr] < node.split {
		return pathLength(node.left, p, depth+1)
	}
	return pathLength(node.right, p, depth+1)
}

// avgPathLength is c(n), the average path length of an unsuccessful BST
// search over n points, used to normalize isolation depths.
func avgPathLength(n int) float64 {
	if n <= 1 {
		return 0
	}
	h := math.Log(float64(n-1)) + 0.5772156649
	return 2*h - 2*float64(n-1)/float64(n)
}
