package geodata

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/GeoCluster-Insight/internal/domain/dataset"
	"github.com/turtacn/GeoCluster-Insight/internal/infrastructure/cache"
	"github.com/turtacn/GeoCluster-Insight/internal/infrastructure/monitoring/logging"
	prommetrics "github.com/turtacn/GeoCluster-Insight/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/GeoCluster-Insight/internal/infrastructure/ncbi"
	"github.com/turtacn/GeoCluster-Insight/internal/intelligence/clusterer"
	"github.com/turtacn/GeoCluster-Insight/internal/intelligence/projection"
	"github.com/turtacn/GeoCluster-Insight/internal/intelligence/vectorizer"
	apperrors "github.com/turtacn/GeoCluster-Insight/pkg/errors"
)

// Result is the full outcome of a fetch-and-analyze query.
type Result struct {
	QueryID      string           `json:"query_id"`
	Datasets     []dataset.Record `json:"datasets"`
	PmidMap      dataset.LinkMap  `json:"pmid_associations"`
	Graph        dataset.Graph    `json:"visualization"`
	ClusterCount int              `json:"cluster_count"`
}

// Service runs the retrieval-and-analysis pipeline for a batch of PMIDs.
type Service interface {
	// FetchGeoData resolves the PMIDs to dataset records, clusters them
	// by textual similarity and builds the visualization graph. The email
	// identifies the caller to the external metadata service. It returns
	// a no-data error when nothing could be retrieved; transient upstream
	// failures degrade the result instead of failing it.
	FetchGeoData(ctx context.Context, pmids []string, email string) (*Result, error)
}

type service struct {
	client     ncbi.MetadataClient
	vectorizer *vectorizer.Vectorizer
	estimator  *clusterer.Estimator
	reducer    *projection.Reducer
	builder    *GraphBuilder
	metrics    *prommetrics.AppMetrics
	logger     logging.Logger
	results    *cache.Memoizer[string, *Result]
}

// ServiceOption configures the pipeline service.
type ServiceOption func(*service)

// WithResultCache memoizes up to maxEntries whole query results for ttl, so
// a repeated identical query is answered without re-running retrieval and
// analysis. Concurrent identical queries collapse into a single pipeline
// run.
func WithResultCache(ttl time.Duration, maxEntries int) ServiceOption {
	return func(s *service) {
		s.results = cache.NewMemoizer[string, *Result](ttl,
			cache.WithMaxSize[string, *Result](maxEntries))
	}
}

// NewService constructs the pipeline service.
func NewService(
	client ncbi.MetadataClient,
	vec *vectorizer.Vectorizer,
	est *clusterer.Estimator,
	red *projection.Reducer,
	builder *GraphBuilder,
	metrics *prommetrics.AppMetrics,
	logger logging.Logger,
	opts ...ServiceOption,
) Service {
	s := &service{
		client:     client,
		vectorizer: vec,
		estimator:  est,
		reducer:    red,
		builder:    builder,
		metrics:    metrics,
		logger:     logger.Named("geodata"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) FetchGeoData(ctx context.Context, pmids []string, email string) (*Result, error) {
	if s.results == nil {
		return s.run(ctx, pmids, email)
	}
	key := strings.Join(pmids, ",") + "|" + email
	return s.results.Do(key, func() (*Result, error) {
		return s.run(ctx, pmids, email)
	})
}

func (s *service) run(ctx context.Context, pmids []string, email string) (*Result, error) {
	queryID := uuid.NewString()
	log := s.logger.With(logging.String("query_id", queryID))
	log.Info("fetching GEO data", logging.Int("pmids", len(pmids)))

	client := s.client
	if email != "" {
		client = client.WithEmail(email)
	}

	start := time.Now()
	records, linkMap := s.retrieveAll(ctx, client, pmids)
	prommetrics.RecordPipelineStage(s.metrics, "retrieve", time.Since(start))

	if len(records) == 0 {
		s.countRun("no_data")
		log.Info("no datasets found", logging.Int("pmids", len(pmids)))
		return nil, apperrors.NoDataFound("no GEO datasets found for the given PMIDs")
	}

	docs := make([]string, len(records))
	for i, rec := range records {
		docs[i] = rec.CombinedText()
	}

	start = time.Now()
	matrix, vocab := s.vectorizer.Vectorize(docs)
	prommetrics.RecordPipelineStage(s.metrics, "vectorize", time.Since(start))
	if len(matrix) == 0 {
		s.countRun("no_data")
		log.Warn("corpus produced no terms", logging.Int("records", len(records)))
		return nil, apperrors.NoDataFound("retrieved datasets carry no analyzable text")
	}

	start = time.Now()
	sim := vectorizer.CosineSimilarity(matrix)
	prommetrics.RecordPipelineStage(s.metrics, "similarity", time.Since(start))

	start = time.Now()
	labels, k := s.estimator.Cluster(sim)
	prommetrics.RecordPipelineStage(s.metrics, "cluster", time.Since(start))
	for i := range records {
		if i < len(labels) {
			records[i].Cluster = labels[i]
		}
	}

	start = time.Now()
	coords := s.reducer.Reduce(matrix)
	prommetrics.RecordPipelineStage(s.metrics, "reduce", time.Since(start))

	start = time.Now()
	graph := s.builder.Build(records, coords, labels, linkMap)
	prommetrics.RecordPipelineStage(s.metrics, "graph", time.Since(start))

	s.recordOutcome(len(records), k, graph)
	log.Info("pipeline complete",
		logging.Int("datasets", len(records)),
		logging.Int("features", len(vocab)),
		logging.Int("clusters", k),
		logging.Int("nodes", len(graph.Nodes)),
		logging.Int("links", len(graph.Links)))

	return &Result{
		QueryID:      queryID,
		Datasets:     records,
		PmidMap:      linkMap,
		Graph:        graph,
		ClusterCount: k,
	}, nil
}

// retrieveAll walks PMIDs in input order. A dataset linked from two PMIDs is
// appended once per linking PMID so each publication node can average over
// its own copies. The link map records every resolved ID whether or not its
// detail fetch succeeds.
func (s *service) retrieveAll(ctx context.Context, client ncbi.MetadataClient, pmids []string) ([]dataset.Record, dataset.LinkMap) {
	records := make([]dataset.Record, 0)
	linkMap := make(dataset.LinkMap)

	for _, pmid := range pmids {
		if pmid == "" {
			continue
		}
		ids := client.ResolveDatasetIDs(ctx, pmid)
		if len(ids) == 0 {
			continue
		}
		linkMap[pmid] = ids

		for _, geoID := range ids {
			rec, ok := client.FetchDatasetDetails(ctx, geoID)
			if !ok {
				continue
			}
			rec.PMID = pmid
			records = append(records, rec)
		}
	}
	return records, linkMap
}

func (s *service) countRun(outcome string) {
	if s.metrics != nil {
		s.metrics.PipelineRunsTotal.WithLabelValues(outcome).Inc()
	}
}

func (s *service) recordOutcome(datasets, k int, graph dataset.Graph) {
	if s.metrics == nil {
		return
	}
	s.countRun("success")
	s.metrics.DatasetsRetrieved.WithLabelValues("success").Observe(float64(datasets))
	s.metrics.ClusterCount.WithLabelValues().Observe(float64(k))

	nodeCounts := make(map[string]int)
	for _, n := range graph.Nodes {
		nodeCounts[n.Type]++
	}
	for nodeType, count := range nodeCounts {
		s.metrics.GraphNodesTotal.WithLabelValues(nodeType).Set(float64(count))
	}
	linkCounts := make(map[string]int)
	for _, l := range graph.Links {
		linkCounts[l.Type]++
	}
	for linkType, count := range linkCounts {
		s.metrics.GraphLinksTotal.WithLabelValues(linkType).Set(float64(count))
	}
}
