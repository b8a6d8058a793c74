package projection

import (
	"math"
	"math/rand"

	"github.com/turtacn/GeoCluster-Insight/internal/infrastructure/monitoring/logging"
)

const (
	// DefaultDims is the display dimensionality.
	DefaultDims = 2

	// DefaultSeed fixes the layout across runs for identical input.
	DefaultSeed = 42

	// minPointsForEmbedding is the smallest input the embedding accepts;
	// below it there is no neighborhood structure to preserve and the
	// reducer falls back to random coordinates.
	minPointsForEmbedding = 4

	tsneIterations       = 500
	exaggerationIters    = 100
	earlyExaggeration    = 4.0
	learningRate         = 200.0
	initialMomentum      = 0.5
	finalMomentum        = 0.8
	momentumSwitchIter   = 250
	perplexityTolerance  = 1e-5
	perplexitySearchIter = 50
)

// Reducer projects high-dimensional vectors to low-dimensional display
// coordinates with a t-distributed stochastic neighbor embedding.
type Reducer struct {
	dims   int
	seed   int64
	logger logging.Logger
}

// Option configures a Reducer.
type Option func(*Reducer)

// WithDims overrides the output dimensionality.
func WithDims(dims int) Option {
	return func(r *Reducer) {
		if dims > 0 {
			r.dims = dims
		}
	}
}

// WithSeed overrides the random seed.
func WithSeed(seed int64) Option {
	return func(r *Reducer) { r.seed = seed }
}

// NewReducer constructs a Reducer.
func NewReducer(logger logging.Logger, opts ...Option) *Reducer {
	r := &Reducer{
		dims:   DefaultDims,
		seed:   DefaultSeed,
		logger: logger.Named("projection"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Perplexity returns the effective perplexity for n points:
// min(30, max(3, n/5)) with n/5 truncated to a whole number.
func Perplexity(n int) float64 {
	p := float64(n / 5)
	if p < 3 {
		p = 3
	}
	if p > 30 {
		p = 30
	}
	return p
}

// Reduce projects each input row to a display coordinate. The result always
// has one coordinate per input row: 0 rows yield an empty result, 1 row the
// all-zero coordinate, 2-3 rows random coordinates in [0,1) per axis, and an
// embedding failure falls back to random coordinates rather than an error.
func (r *Reducer) Reduce(matrix [][]float64) [][]float64 {
	n := len(matrix)
	switch {
	case n == 0:
		return [][]float64{}
	case n == 1:
		return [][]float64{make([]float64, r.dims)}
	case n < minPointsForEmbedding:
		r.logger.Debug("too few points for embedding, using random layout",
			logging.Int("points", n))
		return r.randomCoordinates(n)
	}

	coords, ok := r.embed(matrix)
	if !ok {
		r.logger.Warn("embedding failed, using random layout",
			logging.Int("points", n))
		return r.randomCoordinates(n)
	}
	return coords
}

func (r *Reducer) randomCoordinates(n int) [][]float64 {
	rng := rand.New(rand.NewSource(r.seed))
	coords := make([][]float64, n)
	for i := range coords {
		coords[i] = make([]float64, r.dims)
		for d := range coords[i] {
			coords[i][d] = rng.Float64()
		}
	}
	return coords
}

// embed runs exact t-SNE. The second return is false when the optimization
// produced non-finite coordinates.
func (r *Reducer) embed(matrix [][]float64) ([][]float64, bool) {
	n := len(matrix)
	rng := rand.New(rand.NewSource(r.seed))

	p := jointProbabilities(squaredDistances(matrix), Perplexity(n))

	y := make([][]float64, n)
	velocity := make([][]float64, n)
	gains := make([][]float64, n)
	for i := 0; i < n; i++ {
		y[i] = make([]float64, r.dims)
		velocity[i] = make([]float64, r.dims)
		gains[i] = make([]float64, r.dims)
		for d := 0; d < r.dims; d++ {
			y[i][d] = rng.NormFloat64() * 1e-4
			gains[i][d] = 1
		}
	}

	for iter := 0; iter < tsneIterations; iter++ {
		exaggeration := 1.0
		if iter < exaggerationIters {
			exaggeration = earlyExaggeration
		}
		momentum := initialMomentum
		if iter >= momentumSwitchIter {
			momentum = finalMomentum
		}

		grad := gradient(p, y, exaggeration)
		for i := 0; i < n; i++ {
			for d := 0; d < r.dims; d++ {
				if signOf(grad[i][d]) != signOf(velocity[i][d]) {
					gains[i][d] += 0.2
				} else {
					gains[i][d] *= 0.8
				}
				if gains[i][d] < 0.01 {
					gains[i][d] = 0.01
				}
				velocity[i][d] = momentum*velocity[i][d] - learningRate*gains[i][d]*grad[i][d]
				y[i][d] += velocity[i][d]
			}
		}
		centerColumns(y)
	}

	for i := range y {
		for _, v := range y[i] {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, false
			}
		}
	}
	return y, true
}

func squaredDistances(matrix [][]float64) [][]float64 {
	n := len(matrix)
	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			var sum float64
			for k := range matrix[i] {
				d := matrix[i][k] - matrix[j][k]
				sum += d * d
			}
			dist[i][j] = sum
			dist[j][i] = sum
		}
	}
	return dist
}

// jointProbabilities converts squared distances to symmetric affinities,
// binary-searching each point's bandwidth to match the target perplexity.
func jointProbabilities(dist [][]float64, perplexity float64) [][]float64 {
	n := len(dist)
	targetEntropy := math.Log(perplexity)
	cond := make([][]float64, n)

	for i := 0; i < n; i++ {
		beta := 1.0
		betaMin := math.Inf(-1)
		betaMax := math.Inf(1)
		row := make([]float64, n)

		for attempt := 0; attempt < perplexitySearchIter; attempt++ {
			var sum float64
			for j := 0; j < n; j++ {
				if j == i {
					row[j] = 0
					continue
				}
				row[j] = math.Exp(-dist[i][j] * beta)
				sum += row[j]
			}
			if sum == 0 {
				sum = 1e-12
			}

			var entropy float64
			for j := 0; j < n; j++ {
				if j == i || row[j] == 0 {
					continue
				}
				pj := row[j] / sum
				entropy -= pj * math.Log(pj)
				row[j] = pj
			}

			diff := entropy - targetEntropy
			if math.Abs(diff) < perplexityTolerance {
				break
			}
			if diff > 0 {
				betaMin = beta
				if math.IsInf(betaMax, 1) {
					beta *= 2
				} else {
					beta = (beta + betaMax) / 2
				}
			} else {
				betaMax = beta
				if math.IsInf(betaMin, -1) {
					beta /= 2
				} else {
					beta = (beta + betaMin) / 2
				}
			}
		}
		cond[i] = row
	}

	// Symmetrize and floor so every pair keeps a little attractive force.
	p := make([][]float64, n)
	for i := range p {
		p[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			v := (cond[i][j] + cond[j][i]) / (2 * float64(n))
			if v < 1e-12 {
				v = 1e-12
			}
			p[i][j] = v
		}
	}
	return p
}

func gradient(p [][]float64, y [][]float64, exaggeration float64) [][]float64 {
	n := len(y)
	dims := len(y[0])

	// Student-t kernel over the current embedding.
	q := make([][]float64, n)
	var qSum float64
	for i := 0; i < n; i++ {
		q[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			var sum float64
			for d := 0; d < dims; d++ {
				diff := y[i][d] - y[j][d]
				sum += diff * diff
			}
			w := 1 / (1 + sum)
			q[i][j] = w
			q[j][i] = w
			qSum += 2 * w
		}
	}
	if qSum < 1e-12 {
		qSum = 1e-12
	}

	grad := make([][]float64, n)
	for i := 0; i < n; i++ {
		grad[i] = make([]float64, dims)
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			mult := (exaggeration*p[i][j] - q[i][j]/qSum) * q[i][j]
			for d := 0; d < dims; d++ {
				grad[i][d] += 4 * mult * (y[i][d] - y[j][d])
			}
		}
	}
	return grad
}

func centerColumns(y [][]float64) {
	n := len(y)
	if n == 0 {
		return
	}
	dims := len(y[0])
	for d := 0; d < dims; d++ {
		var mean float64
		for i := 0; i < n; i++ {
			mean += y[i][d]
		}
		mean /= float64(n)
		for i := 0; i < n; i++ {
			y[i][d] -= mean
		}
	}
}

func signOf(x float64) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
