package clusterer

import (
	"github.com/turtacn/GeoCluster-Insight/internal/infrastructure/monitoring/logging"
)

// DefaultMaxClusters bounds the candidate search for the cluster count.
const DefaultMaxClusters = 10

// Estimator chooses a cluster count from the similarity structure and
// assigns cluster labels.
type Estimator struct {
	maxClusters int
	logger      logging.Logger
}

// Option configures an Estimator.
type Option func(*Estimator)

// WithMaxClusters overrides the upper bound of the candidate search.
func WithMaxClusters(n int) Option {
	return func(e *Estimator) {
		if n > 0 {
			e.maxClusters = n
		}
	}
}

// NewEstimator constructs an Estimator.
func NewEstimator(logger logging.Logger, opts ...Option) *Estimator {
	e := &Estimator{
		maxClusters: DefaultMaxClusters,
		logger:      logger.Named("clusterer"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EstimateClusterCount searches candidate counts k in [2, min(maxClusters,
// n-1)] and picks the one with the best silhouette score over the distance
// matrix 1 - similarity. Ties go to the lowest k because iteration ascends
// and the comparison is strict. When no candidate scores, it falls back to
// min(3, n-1), or 1 for n <= 1.
func (e *Estimator) EstimateClusterCount(sim [][]float64) int {
	n := len(sim)
	if n < 2 {
		return 1
	}
	bound := e.maxClusters
	if n-1 < bound {
		bound = n - 1
	}
	if bound <= 1 {
		return 1
	}

	dist := distanceMatrix(sim)

	bestK := 0
	bestScore := 0.0
	for k := 2; k <= bound; k++ {
		labels := Agglomerative(dist, k)
		if distinctLabels(labels) < 2 {
			continue
		}
		score, err := Silhouette(dist, labels)
		if err != nil {
			e.logger.Warn("silhouette scoring failed for candidate",
				logging.Int("k", k),
				logging.Err(err))
			continue
		}
		if bestK == 0 || score > bestScore {
			bestK = k
			bestScore = score
		}
	}

	if bestK == 0 {
		fallback := 3
		if n-1 < fallback {
			fallback = n - 1
		}
		if fallback < 1 {
			fallback = 1
		}
		e.logger.Warn("no candidate cluster count scored, using fallback",
			logging.Int("k", fallback))
		return fallback
	}

	e.logger.Debug("estimated cluster count",
		logging.Int("k", bestK),
		logging.Float64("silhouette", bestScore))
	return bestK
}

// Cluster estimates the cluster count and returns the agglomerative labels
// for it. With at most one record every label is 0 and k is 1.
func (e *Estimator) Cluster(sim [][]float64) ([]int, int) {
	n := len(sim)
	if n <= 1 {
		return make([]int, n), 1
	}

	k := e.EstimateClusterCount(sim)
	labels := Agglomerative(distanceMatrix(sim), k)
	return labels, k
}

// distanceMatrix converts similarities to distances as 1 - sim, clamped at
// zero since floating-point cosine values can slightly exceed 1.
func distanceMatrix(sim [][]float64) [][]float64 {
	dist := make([][]float64, len(sim))
	for i, row := range sim {
		dist[i] = make([]float64, len(row))
		for j, s := range row {
			d := 1 - s
			if d < 0 {
				d = 0
			}
			dist[i][j] = d
		}
	}
	return dist
}

func distinctLabels(labels []int) int {
	seen := make(map[int]struct{}, len(labels))
	for _, l := range labels {
		seen[l] = struct{}{}
	}
	return len(seen)
}
