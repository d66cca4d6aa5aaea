package domain

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is returned by aggregation when there are no records to
// bucket. Fatal to the timeline and detector stages of that run only.
var ErrEmptyInput = errors.New("no records to aggregate")

// ModelFitError is returned by the isolation forest when there are too few
// observations to fit a model. The z-score path and the rest of the
// pipeline still complete.
type ModelFitError struct {
	Observations int
}

func (e *ModelFitError) Error() string {
	return fmt.Sprintf("cannot fit isolation forest on %d observation(s), need at least 2", e.Observations)
}
