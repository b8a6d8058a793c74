package clusterer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/GeoCluster-Insight/internal/infrastructure/monitoring/logging"
)

// blockSimilarity builds a similarity matrix where points in the same group
// have similarity within and points in different groups have cross.
func blockSimilarity(groups []int, within, cross float64) [][]float64 {
	n := len(groups)
	sim := make([][]float64, n)
	for i := range sim {
		sim[i] = make([]float64, n)
		for j := range sim[i] {
			switch {
			case i == j:
				sim[i][j] = 1.0
			case groups[i] == groups[j]:
				sim[i][j] = within
			default:
				sim[i][j] = cross
			}
		}
	}
	return sim
}

func TestAgglomerativeTwoGroups(t *testing.T) {
	dist := [][]float64{
		{0.0, 0.1, 0.9, 0.9},
		{0.1, 0.0, 0.9, 0.9},
		{0.9, 0.9, 0.0, 0.1},
		{0.9, 0.9, 0.1, 0.0},
	}

	labels := Agglomerative(dist, 2)
	assert.Equal(t, []int{0, 0, 1, 1}, labels)
}

func TestAgglomerativeDegenerateCounts(t *testing.T) {
	dist := [][]float64{
		{0.0, 0.5, 0.5},
		{0.5, 0.0, 0.5},
		{0.5, 0.5, 0.0},
	}

	assert.Equal(t, []int{0, 0, 0}, Agglomerative(dist, 1))
	assert.Equal(t, []int{0, 1, 2}, Agglomerative(dist, 3))
	assert.Equal(t, []int{0, 1, 2}, Agglomerative(dist, 5))
	assert.Nil(t, Agglomerative(nil, 2))
}

func TestSilhouetteSeparatedClusters(t *testing.T) {
	dist := [][]float64{
		{0.0, 0.1, 0.9, 0.9},
		{0.1, 0.0, 0.9, 0.9},
		{0.9, 0.9, 0.0, 0.1},
		{0.9, 0.9, 0.1, 0.0},
	}

	score, err := Silhouette(dist, []int{0, 0, 1, 1})
	require.NoError(t, err)
	assert.InDelta(t, (0.9-0.1)/0.9, score, 1e-9)
}

func TestSilhouetteDegenerateLabellings(t *testing.T) {
	dist := [][]float64{
		{0.0, 0.5},
		{0.5, 0.0},
	}

	_, err := Silhouette(dist, []int{0, 0})
	assert.Error(t, err, "single cluster is unscorable")

	_, err = Silhouette(dist, []int{0, 1})
	assert.Error(t, err, "n clusters is unscorable")

	_, err = Silhouette(nil, nil)
	assert.Error(t, err)
}

func TestEstimateClusterCountFindsStructure(t *testing.T) {
	e := NewEstimator(logging.NewNopLogger())
	sim := blockSimilarity([]int{0, 0, 0, 1, 1, 1}, 0.9, 0.1)

	assert.Equal(t, 2, e.EstimateClusterCount(sim))
}

func TestEstimateClusterCountSmallInputs(t *testing.T) {
	e := NewEstimator(logging.NewNopLogger())

	assert.Equal(t, 1, e.EstimateClusterCount(nil))
	assert.Equal(t, 1, e.EstimateClusterCount(blockSimilarity([]int{0}, 0.9, 0.1)))
	// n=2 clamps the search bound to 1.
	assert.Equal(t, 1, e.EstimateClusterCount(blockSimilarity([]int{0, 1}, 0.9, 0.1)))
}

func TestEstimateClusterCountNeverExceedsBound(t *testing.T) {
	e := NewEstimator(logging.NewNopLogger(), WithMaxClusters(4))

	for n := 1; n <= 8; n++ {
		groups := make([]int, n)
		for i := range groups {
			groups[i] = i % 3
		}
		sim := blockSimilarity(groups, 0.8, 0.2)

		k := e.EstimateClusterCount(sim)
		bound := 4
		if n-1 < bound {
			bound = n - 1
		}
		if bound < 1 {
			bound = 1
		}
		assert.GreaterOrEqual(t, k, 1, "n=%d", n)
		assert.LessOrEqual(t, k, bound, "n=%d", n)
	}
}

func TestClusterSingleRecord(t *testing.T) {
	e := NewEstimator(logging.NewNopLogger())

	labels, k := e.Cluster(blockSimilarity([]int{0}, 0.9, 0.1))
	assert.Equal(t, []int{0}, labels)
	assert.Equal(t, 1, k)

	labels, k = e.Cluster(nil)
	assert.Empty(t, labels)
	assert.Equal(t, 1, k)
}

func TestClusterLabelsWithinRange(t *testing.T) {
	e := NewEstimator(logging.NewNopLogger())
	sim := blockSimilarity([]int{0, 0, 1, 1, 2, 2}, 0.9, 0.1)

	labels, k := e.Cluster(sim)
	require.Len(t, labels, 6)
	for i, label := range labels {
		assert.GreaterOrEqual(t, label, 0, "label %d", i)
		assert.Less(t, label, k, "label %d", i)
	}

	// Same-group points share a label.
	assert.Equal(t, labels[0], labels[1])
	assert.Equal(t, labels[2], labels[3])
	assert.Equal(t, labels[4], labels[5])
}
