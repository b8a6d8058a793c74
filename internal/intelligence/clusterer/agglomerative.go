package clusterer

import "sort"

// Agglomerative runs bottom-up hierarchical clustering with average linkage
// over a precomputed distance matrix, stopping when k clusters remain.
// Labels are integers in [0, k), assigned in order of each cluster's lowest
// member index for determinism. k <= 1 yields a single cluster; k >= n
// yields one cluster per point.
func Agglomerative(dist [][]float64, k int) []int {
	n := len(dist)
	if n == 0 {
		return nil
	}
	if k <= 1 {
		return make([]int, n)
	}
	if k >= n {
		labels := make([]int, n)
		for i := range labels {
			labels[i] = i
		}
		return labels
	}

	// Working cluster-to-cluster distances, updated with the
	// Lance-Williams average-linkage rule on each merge.
	d := make([][]float64, n)
	for i := range d {
		d[i] = make([]float64, n)
		copy(d[i], dist[i])
	}
	size := make([]int, n)
	members := make([][]int, n)
	active := make([]bool, n)
	for i := 0; i < n; i++ {
		size[i] = 1
		members[i] = []int{i}
		active[i] = true
	}

	remaining := n
	for remaining > k {
		bi, bj := -1, -1
		best := 0.0
		for i := 0; i < n; i++ {
			if !active[i] {
				continue
			}
			for j := i + 1; j < n; j++ {
				if !active[j] {
					continue
				}
				if bi < 0 || d[i][j] < best {
					best = d[i][j]
					bi, bj = i, j
				}
			}
		}

		// Merge bj into bi.
		ni, nj := float64(size[bi]), float64(size[bj])
		for m := 0; m < n; m++ {
			if !active[m] || m == bi || m == bj {
				continue
			}
			avg := (ni*d[bi][m] + nj*d[bj][m]) / (ni + nj)
			d[bi][m] = avg
			d[m][bi] = avg
		}
		members[bi] = append(members[bi], members[bj]...)
		size[bi] += size[bj]
		active[bj] = false
		remaining--
	}

	// Order clusters by their lowest original index.
	type cluster struct {
		lowest  int
		members []int
	}
	clusters := make([]cluster, 0, k)
	for i := 0; i < n; i++ {
		if !active[i] {
			continue
		}
		lowest := members[i][0]
		for _, m := range members[i] {
			if m < lowest {
				lowest = m
			}
		}
		clusters = append(clusters, cluster{lowest: lowest, members: members[i]})
	}
	sort.Slice(clusters, func(a, b int) bool { return clusters[a].lowest < clusters[b].lowest })

	labels := make([]int, n)
	for label, c := range clusters {
		for _, m := range c.members {
			labels[m] = label
		}
	}
	return labels
}
