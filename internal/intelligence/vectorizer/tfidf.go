package vectorizer

import (
	"math"
	"sort"

	"github.com/turtacn/GeoCluster-Insight/internal/infrastructure/monitoring/logging"
)

// Defaults mirror the term-weighting configuration of the analysis pipeline:
// a bounded vocabulary over unigrams and bigrams, ignoring terms that appear
// in fewer than 2 documents or in more than 70% of them.
const (
	DefaultMaxFeatures = 5000
	DefaultMinDocFreq  = 2
	DefaultMaxDocShare = 0.7
)

// Vectorizer builds a TF-IDF weighted term matrix from free-text documents.
type Vectorizer struct {
	maxFeatures int
	minDocFreq  int
	maxDocShare float64
	logger      logging.Logger
}

// Option configures a Vectorizer.
type Option func(*Vectorizer)

// WithMaxFeatures caps the vocabulary size. Values <= 0 mean unlimited.
func WithMaxFeatures(n int) Option {
	return func(v *Vectorizer) { v.maxFeatures = n }
}

// WithDocFreqBounds sets the document-frequency pruning thresholds: terms
// must appear in at least minDF documents and in at most maxShare of them.
func WithDocFreqBounds(minDF int, maxShare float64) Option {
	return func(v *Vectorizer) {
		v.minDocFreq = minDF
		v.maxDocShare = maxShare
	}
}

// New constructs a Vectorizer with the default pipeline configuration.
func New(logger logging.Logger, opts ...Option) *Vectorizer {
	v := &Vectorizer{
		maxFeatures: DefaultMaxFeatures,
		minDocFreq:  DefaultMinDocFreq,
		maxDocShare: DefaultMaxDocShare,
		logger:      logger.Named("vectorizer"),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Vectorize builds the document-term matrix and its vocabulary. Rows follow
// the input document order; columns follow the alphabetically sorted
// vocabulary. An empty input, or input whose text yields no terms, produces
// an empty matrix and empty vocabulary; callers treat that as the terminal
// no-data condition for the analysis pipeline.
func (v *Vectorizer) Vectorize(docs []string) ([][]float64, []string) {
	if len(docs) == 0 {
		return nil, nil
	}

	n := len(docs)
	docTerms := make([][]string, n)
	termCounts := make([]map[string]int, n)
	docFreq := make(map[string]int)
	corpusFreq := make(map[string]int)

	for i, doc := range docs {
		ts := terms(Tokenize(doc))
		docTerms[i] = ts
		counts := make(map[string]int, len(ts))
		for _, t := range ts {
			counts[t]++
			corpusFreq[t]++
		}
		termCounts[i] = counts
		for t := range counts {
			docFreq[t]++
		}
	}
	if len(docFreq) == 0 {
		v.logger.Warn("no terms extracted from corpus", logging.Int("documents", n))
		return nil, nil
	}

	vocab := v.pruneByDocFreq(docFreq, n)
	if len(vocab) == 0 {
		// The frequency bounds can be unsatisfiable for very small
		// corpora (with 2 documents nothing can appear in >= 2 of them
		// and <= 70% of them at once). Degrading to the unpruned
		// vocabulary keeps the pipeline total for any non-empty input.
		v.logger.Warn("document-frequency bounds emptied vocabulary, keeping all terms",
			logging.Int("documents", n),
			logging.Int("terms", len(docFreq)))
		vocab = make([]string, 0, len(docFreq))
		for t := range docFreq {
			vocab = append(vocab, t)
		}
	}

	vocab = v.capFeatures(vocab, corpusFreq)
	sort.Strings(vocab)

	index := make(map[string]int, len(vocab))
	for i, t := range vocab {
		index[t] = i
	}

	idf := make([]float64, len(vocab))
	for i, t := range vocab {
		idf[i] = math.Log(float64(1+n)/float64(1+docFreq[t])) + 1
	}

	matrix := make([][]float64, n)
	for i := range docs {
		row := make([]float64, len(vocab))
		for t, count := range termCounts[i] {
			col, ok := index[t]
			if !ok {
				continue
			}
			row[col] = float64(count) * idf[col]
		}
		normalizeL2(row)
		matrix[i] = row
	}

	v.logger.Debug("vectorized corpus",
		logging.Int("documents", n),
		logging.Int("features", len(vocab)))
	return matrix, vocab
}

func (v *Vectorizer) pruneByDocFreq(docFreq map[string]int, n int) []string {
	maxDocCount := v.maxDocShare * float64(n)
	kept := make([]string, 0, len(docFreq))
	for t, df := range docFreq {
		if df < v.minDocFreq {
			continue
		}
		if float64(df) > maxDocCount {
			continue
		}
		kept = append(kept, t)
	}
	return kept
}

// capFeatures keeps the maxFeatures terms with the highest corpus frequency,
// breaking ties alphabetically for determinism.
func (v *Vectorizer) capFeatures(vocab []string, corpusFreq map[string]int) []string {
	if v.maxFeatures <= 0 || len(vocab) <= v.maxFeatures {
		return vocab
	}
	sort.Slice(vocab, func(i, j int) bool {
		fi, fj := corpusFreq[vocab[i]], corpusFreq[vocab[j]]
		if fi != fj {
			return fi > fj
		}
		return vocab[i] < vocab[j]
	})
	return vocab[:v.maxFeatures]
}

func normalizeL2(row []float64) {
	var sum float64
	for _, x := range row {
		sum += x * x
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range row {
		row[i] /= norm
	}
}
