package prometheus

import (
	"fmt"
	"time"
)

// AppMetrics holds all application metrics.
type AppMetrics struct {
	// HTTP layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Retrieval layer
	EutilsRequestsTotal   CounterVec
	EutilsRequestDuration HistogramVec
	DatasetsRetrieved     HistogramVec

	// Cache layer
	CacheHitsTotal   CounterVec
	CacheMissesTotal CounterVec

	// Analysis pipeline
	PipelineRunsTotal     CounterVec
	PipelineStageDuration HistogramVec
	ClusterCount          HistogramVec

	// Visualization graph
	GraphNodesTotal GaugeVec
	GraphLinksTotal GaugeVec

	// System health
	ErrorsTotal CounterVec
}

// Default buckets
var (
	DefaultHTTPDurationBuckets  = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultStageDurationBuckets = []float64{.01, .05, .1, .5, 1, 5, 10, 30, 60, 120}
	DefaultCountBuckets         = []float64{0, 1, 2, 5, 10, 25, 50, 100, 250, 500}
)

// NewAppMetrics registers all metrics and returns the AppMetrics struct.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	// HTTP
	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "Active HTTP requests", "method", "path")

	// Retrieval
	m.EutilsRequestsTotal = collector.RegisterCounter("eutils_requests_total", "Outbound E-Utilities requests", "endpoint", "status")
	m.EutilsRequestDuration = collector.RegisterHistogram("eutils_request_duration_seconds", "E-Utilities request duration", DefaultHTTPDurationBuckets, "endpoint")
	m.DatasetsRetrieved = collector.RegisterHistogram("datasets_retrieved_count", "Datasets retrieved per query", DefaultCountBuckets, "outcome")

	// Cache
	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Cache hits", "cache")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Cache misses", "cache")

	// Pipeline
	m.PipelineRunsTotal = collector.RegisterCounter("pipeline_runs_total", "Analysis pipeline runs", "outcome")
	m.PipelineStageDuration = collector.RegisterHistogram("pipeline_stage_duration_seconds", "Analysis pipeline stage duration", DefaultStageDurationBuckets, "stage")
	m.ClusterCount = collector.RegisterHistogram("pipeline_cluster_count", "Chosen cluster count per run", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})

	// Graph
	m.GraphNodesTotal = collector.RegisterGauge("graph_nodes_total", "Nodes in the last built graph", "node_type")
	m.GraphLinksTotal = collector.RegisterGauge("graph_links_total", "Links in the last built graph", "link_type")

	// System health
	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Total errors", "component", "error_type")

	return m
}

// Helpers

func RecordHTTPRequest(metrics *AppMetrics, method, path string, statusCode int, duration time.Duration) {
	if metrics == nil {
		return
	}
	status := fmt.Sprintf("%d", statusCode)
	metrics.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func RecordCacheAccess(metrics *AppMetrics, cache string, hit bool) {
	if metrics == nil {
		return
	}
	if hit {
		metrics.CacheHitsTotal.WithLabelValues(cache).Inc()
	} else {
		metrics.CacheMissesTotal.WithLabelValues(cache).Inc()
	}
}

func RecordPipelineStage(metrics *AppMetrics, stage string, duration time.Duration) {
	if metrics == nil {
		return
	}
	metrics.PipelineStageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

func RecordError(metrics *AppMetrics, component, errorType string) {
	if metrics == nil {
		return
	}
	metrics.ErrorsTotal.WithLabelValues(component, errorType).Inc()
}

// EutilsObserver adapts AppMetrics to the retrieval layer's observer
// interface.
type EutilsObserver struct {
	Metrics *AppMetrics
}

func (o *EutilsObserver) ObserveEutilsRequest(endpoint string, duration time.Duration, success bool) {
	if o == nil || o.Metrics == nil {
		return
	}
	status := "success"
	if !success {
		status = "failure"
	}
	o.Metrics.EutilsRequestsTotal.WithLabelValues(endpoint, status).Inc()
	o.Metrics.EutilsRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (o *EutilsObserver) CacheLookup(name string, hit bool) {
	if o == nil {
		return
	}
	RecordCacheAccess(o.Metrics, name, hit)
}
