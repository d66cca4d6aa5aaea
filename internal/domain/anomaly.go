package domain

// Method identifies which detector produced a flag.
type Method string

const (
	MethodZScore          Method = "zscore"
	MethodIsolationForest Method = "isolation_forest"
)

// AnomalyFlag is one detector's verdict on one time bucket. Every bucket
// gets a flag from every detector that ran; Anomalous marks the ones that
// crossed the method's threshold.
type AnomalyFlag struct {
	BucketStart int64   `json:"bucket_start"`
	Method      Method  `json:"method"`
	Score       float64 `json:"score"`
	Anomalous   bool    `json:"is_anomalous"`
}

// CombinedLabel annotates a reconciled flag with the set of methods that
// considered the target anomalous.
type CombinedLabel string

const (
	BothMethods CombinedLabel = "both_methods"
	ZScoreOnly  CombinedLabel = "zscore_only"
	ModelOnly   CombinedLabel = "model_only"

	// NoMethod is assigned when both detectors scored the bucket but
	// neither crossed its threshold. Reconciliation keeps these so no
	// flag from either method is ever dropped.
	NoMethod CombinedLabel = "none"
)

// ReconciledFlag merges the detectors' flags for one bucket. Per-method
// scores are carried through untouched; reconciliation never re-scores.
type ReconciledFlag struct {
	BucketStart int64         `json:"bucket_start"`
	Label       CombinedLabel `json:"label"`
	Anomalous   bool          `json:"is_anomalous"`
	ZScore      *AnomalyFlag  `json:"zscore,omitempty"`
	Forest      *AnomalyFlag  `json:"isolation_forest,omitempty"`
}
