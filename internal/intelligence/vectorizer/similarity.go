package vectorizer

import "math"

// CosineSimilarity computes the pairwise cosine similarity between every
// pair of rows. The diagonal is forced to exactly 1.0, including for
// all-zero rows, so downstream distance matrices (1 - similarity) have a
// clean zero diagonal. Returns nil for an empty matrix.
func CosineSimilarity(matrix [][]float64) [][]float64 {
	n := len(matrix)
	if n == 0 {
		return nil
	}

	norms := make([]float64, n)
	for i, row := range matrix {
		var sum float64
		for _, x := range row {
			sum += x * x
		}
		norms[i] = math.Sqrt(sum)
	}

	sim := make([][]float64, n)
	for i := range sim {
		sim[i] = make([]float64, n)
		sim[i][i] = 1.0
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			var dot float64
			for k := range matrix[i] {
				dot += matrix[i][k] * matrix[j][k]
			}
			var s float64
			if norms[i] > 0 && norms[j] > 0 {
				s = dot / (norms[i] * norms[j])
			}
			sim[i][j] = s
			sim[j][i] = s
		}
	}
	return sim
}
