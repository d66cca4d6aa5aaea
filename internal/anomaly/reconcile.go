package anomaly

import (
	"sort"

	"github.com/forensix/log-inspector/internal/domain"
)

// Reconcile merges flags from both detectors into one annotated set, keyed
// by bucket start epoch. Union semantics: no flag from either method is ever
// dropped, and each method's score is carried through untouched. The
// combined label records which methods considered the bucket anomalous;
// reconciliation is presentation-layer merging, not re-scoring.
//
// Either input may be empty, e.g. when the isolation forest could not fit.
func Reconcile(zscoreFlags, forestFlags []domain.AnomalyFlag) []domain.ReconciledFlag {
	byStart := make(map[int64]*domain.ReconciledFlag)

	for i := range zscoreFlags {
		f := zscoreFlags[i]
		byStart[f.BucketStart] = &domain.ReconciledFlag{
			BucketStart: f.BucketStart,
			ZScore:      &f,
		}
	}

	for i := range forestFlags {
		f := forestFlags[i]
		if merged, ok := byStart[f.BucketStart]; ok {
			merged.Forest = &f
			continue
		}
		byStart[f.BucketStart] = &domain.ReconciledFlag{
			BucketStart: f.BucketStart,
			Forest:      &f,
		}
	}

	out := make([]domain.ReconciledFlag, 0, len(byStart))
	for _, merged := range byStart {
		merged.Label = combinedLabel(merged.ZScore, merged.Forest)
		merged.Anomalous = merged.Label != domain.NoMethod
		out = append(out, *merged)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].BucketStart < out[j].BucketStart })
	return out
}

func combinedLabel(z, f *domain.AnomalyFlag) domain.CombinedLabel {
	zHit := z != nil && z.Anomalous
	fHit := f != nil && f.Anomalous

	switch {
	case zHit && fHit:
		return domain.BothMethods
	case zHit:
		return domain.ZScoreOnly
	case fHit:
		return domain.ModelOnly
	default:
		return domain.NoMethod
	}
}
