package clusterer

import (
	"math"

	apperrors "github.com/turtacn/GeoCluster-Insight/pkg/errors"
)

// Silhouette computes the mean silhouette coefficient over a precomputed
// distance matrix. Scoring is undefined when the labelling has fewer than 2
// or more than n-1 distinct clusters, or when the distances degenerate to a
// NaN score; those cases return an error so the caller can skip the
// candidate.
func Silhouette(dist [][]float64, labels []int) (float64, error) {
	n := len(labels)
	if n == 0 || len(dist) != n {
		return 0, apperrors.New(apperrors.ErrCodeClusteringFailed, "silhouette requires a square distance matrix matching labels")
	}

	clusters := make(map[int][]int)
	for i, label := range labels {
		clusters[label] = append(clusters[label], i)
	}
	if len(clusters) < 2 || len(clusters) > n-1 {
		return 0, apperrors.New(apperrors.ErrCodeClusteringFailed, "silhouette requires between 2 and n-1 clusters")
	}

	var total float64
	for i := 0; i < n; i++ {
		own := clusters[labels[i]]
		if len(own) == 1 {
			// Singleton clusters contribute a zero coefficient.
			continue
		}

		var intra float64
		for _, j := range own {
			if j != i {
				intra += dist[i][j]
			}
		}
		a := intra / float64(len(own)-1)

		b := math.Inf(1)
		for label, members := range clusters {
			if label == labels[i] {
				continue
			}
			var sum float64
			for _, j := range members {
				sum += dist[i][j]
			}
			if mean := sum / float64(len(members)); mean < b {
				b = mean
			}
		}

		denom := math.Max(a, b)
		if denom > 0 {
			total += (b - a) / denom
		}
	}

	score := total / float64(n)
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0, apperrors.New(apperrors.ErrCodeClusteringFailed, "silhouette score degenerated")
	}
	return score, nil
}
