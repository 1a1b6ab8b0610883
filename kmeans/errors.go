package kmeans

import (
	"errors"
	"fmt"
)

// ErrTooFewPoints is returned when there are fewer points than clusters.
var ErrTooFewPoints = errors.New("kmeans: fewer points than clusters")

// ErrBadClusterCount is returned for a cluster count below two.
var ErrBadClusterCount = errors.New("kmeans: cluster count must be at least 2")

// EmptyClusterError reports a cluster id that received no members in an
// assignment. Callers distinguish it from generic failures with errors.As.
type EmptyClusterError struct {
	Cluster int
}

func (e *EmptyClusterError) Error() string {
	return fmt.Sprintf("kmeans: cluster %d is empty", e.Cluster)
}
