package tvclust

import "errors"

// Configuration and input validation errors. All abort a call
// synchronously; nothing is retried.
var (
	// ErrNoSeries is returned by Fit for an empty series collection.
	ErrNoSeries = errors.New("tvclust: empty series collection")

	// ErrDimensionMismatch is returned when the series disagree on the
	// feature dimension.
	ErrDimensionMismatch = errors.New("tvclust: series feature dimensions differ")

	// ErrTooFewSamples is returned when the stacked sample count is below
	// the cluster count.
	ErrTooFewSamples = errors.New("tvclust: fewer samples than clusters")

	// ErrNotFitted is returned when results are requested before Fit.
	ErrNotFitted = errors.New("tvclust: estimator is not fitted")
)
