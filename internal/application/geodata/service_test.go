package geodata

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/GeoCluster-Insight/internal/domain/dataset"
	"github.com/turtacn/GeoCluster-Insight/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/GeoCluster-Insight/internal/infrastructure/ncbi"
	"github.com/turtacn/GeoCluster-Insight/internal/intelligence/clusterer"
	"github.com/turtacn/GeoCluster-Insight/internal/intelligence/projection"
	"github.com/turtacn/GeoCluster-Insight/internal/intelligence/vectorizer"
	apperrors "github.com/turtacn/GeoCluster-Insight/pkg/errors"
)

// stubClient serves canned link and detail responses.
type stubClient struct {
	links    map[string][]string
	details  map[string]dataset.Record
	email    string
	resolves int
}

func (s *stubClient) ResolveDatasetIDs(_ context.Context, pmid string) []string {
	s.resolves++
	return s.links[pmid]
}

func (s *stubClient) FetchDatasetDetails(_ context.Context, geoID string) (dataset.Record, bool) {
	rec, ok := s.details[geoID]
	return rec, ok
}

func (s *stubClient) WithEmail(email string) ncbi.MetadataClient {
	s.email = email
	return s
}

func newTestService(client *stubClient) Service {
	log := logging.NewNopLogger()
	return NewService(
		client,
		vectorizer.New(log),
		clusterer.NewEstimator(log),
		projection.NewReducer(log),
		NewGraphBuilder(log),
		nil,
		log,
	)
}

func record(geoID, title string) dataset.Record {
	return dataset.Record{
		GeoID:          geoID,
		Title:          title,
		ExperimentType: "Expression profiling by array",
		Summary:        "Transcriptome profiling of tissue samples.",
		Organism:       "Homo sapiens",
		Cluster:        dataset.SentinelCluster,
	}
}

func TestFetchGeoDataSinglePmidTwoDatasets(t *testing.T) {
	client := &stubClient{
		links: map[string][]string{"P1": {"G1", "G2"}},
		details: map[string]dataset.Record{
			"G1": record("G1", "Liver transcriptome study"),
			"G2": record("G2", "Kidney methylation profiling"),
		},
	}
	svc := newTestService(client)

	result, err := svc.FetchGeoData(context.Background(), []string{"P1"}, "dev@example.com")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.NotEmpty(t, result.QueryID)
	assert.Equal(t, "dev@example.com", client.email, "caller email reaches the metadata client")

	require.Len(t, result.Datasets, 2)
	for _, rec := range result.Datasets {
		assert.Equal(t, "P1", rec.PMID)
	}
	assert.Equal(t, dataset.LinkMap{"P1": {"G1", "G2"}}, result.PmidMap)

	// Two records clamp the cluster search bound to one.
	assert.Equal(t, 1, result.ClusterCount)

	// 2 dataset nodes plus 1 publication node.
	require.Len(t, result.Graph.Nodes, 3)
	assert.Equal(t, 2, countLinks(result.Graph, dataset.LinkTypePmidToDataset))
	assert.Equal(t, 1, countLinks(result.Graph, dataset.LinkTypeSameCluster))
}

func TestFetchGeoDataNoLinksIsNoData(t *testing.T) {
	svc := newTestService(&stubClient{})

	_, err := svc.FetchGeoData(context.Background(), []string{"P1", "P2"}, "dev@example.com")
	require.Error(t, err)
	assert.True(t, apperrors.IsNoData(err))
}

func TestFetchGeoDataEmptyPmidList(t *testing.T) {
	svc := newTestService(&stubClient{})

	_, err := svc.FetchGeoData(context.Background(), nil, "dev@example.com")
	require.Error(t, err)
	assert.True(t, apperrors.IsNoData(err))
}

func TestFetchGeoDataDanglingLink(t *testing.T) {
	// G2's detail fetch fails; the link map must still list it.
	client := &stubClient{
		links: map[string][]string{"P1": {"G1", "G2"}},
		details: map[string]dataset.Record{
			"G1": record("G1", "Liver transcriptome study"),
		},
	}
	svc := newTestService(client)

	result, err := svc.FetchGeoData(context.Background(), []string{"P1"}, "dev@example.com")
	require.NoError(t, err)

	require.Len(t, result.Datasets, 1)
	assert.Equal(t, "G1", result.Datasets[0].GeoID)
	assert.Equal(t, dataset.LinkMap{"P1": {"G1", "G2"}}, result.PmidMap)

	// Both link-map pairs become links even though G2 has no node.
	assert.Equal(t, 2, countLinks(result.Graph, dataset.LinkTypePmidToDataset))

	nodeIDs := make(map[string]bool)
	for _, n := range result.Graph.Nodes {
		nodeIDs[n.ID] = true
	}
	assert.False(t, nodeIDs["G2"])
}

func TestFetchGeoDataDuplicatesDatasetPerPmid(t *testing.T) {
	client := &stubClient{
		links: map[string][]string{
			"P1": {"G1"},
			"P2": {"G1"},
		},
		details: map[string]dataset.Record{
			"G1": record("G1", "Shared dataset"),
		},
	}
	svc := newTestService(client)

	result, err := svc.FetchGeoData(context.Background(), []string{"P1", "P2"}, "dev@example.com")
	require.NoError(t, err)

	// One record per linking PMID, same dataset ID.
	require.Len(t, result.Datasets, 2)
	pmids := []string{result.Datasets[0].PMID, result.Datasets[1].PMID}
	assert.ElementsMatch(t, []string{"P1", "P2"}, pmids)
	assert.Equal(t, "G1", result.Datasets[0].GeoID)
	assert.Equal(t, "G1", result.Datasets[1].GeoID)

	// Each publication gets its own node.
	pmidNodes := 0
	for _, n := range result.Graph.Nodes {
		if n.Type == dataset.NodeTypePMID {
			pmidNodes++
			assert.Equal(t, dataset.SentinelCluster, n.Cluster)
		}
	}
	assert.Equal(t, 2, pmidNodes)
}

func TestFetchGeoDataLabelsWithinRange(t *testing.T) {
	client := &stubClient{
		links: map[string][]string{"P1": {"G1", "G2", "G3", "G4", "G5", "G6"}},
		details: map[string]dataset.Record{
			"G1": record("G1", "Liver RNA sequencing adult hepatocytes"),
			"G2": record("G2", "Liver RNA sequencing fetal hepatocytes"),
			"G3": record("G3", "Liver RNA sequencing mouse hepatocytes"),
			"G4": record("G4", "Brain methylation array cortex neurons"),
			"G5": record("G5", "Brain methylation array hippocampus neurons"),
			"G6": record("G6", "Brain methylation array cerebellum neurons"),
		},
	}
	svc := newTestService(client)

	result, err := svc.FetchGeoData(context.Background(), []string{"P1"}, "dev@example.com")
	require.NoError(t, err)

	assert.GreaterOrEqual(t, result.ClusterCount, 1)
	assert.LessOrEqual(t, result.ClusterCount, 5)
	for _, rec := range result.Datasets {
		assert.GreaterOrEqual(t, rec.Cluster, 0)
		assert.Less(t, rec.Cluster, result.ClusterCount)
	}
}

func TestFetchGeoDataSkipsEmptyPmids(t *testing.T) {
	client := &stubClient{
		links: map[string][]string{"P1": {"G1", "G2"}},
		details: map[string]dataset.Record{
			"G1": record("G1", "Liver study"),
			"G2": record("G2", "Kidney study"),
		},
	}
	svc := newTestService(client)

	result, err := svc.FetchGeoData(context.Background(), []string{"", "P1"}, "dev@example.com")
	require.NoError(t, err)
	assert.Len(t, result.Datasets, 2)
	assert.NotContains(t, result.PmidMap, "")
}

func TestFetchGeoDataResultCache(t *testing.T) {
	client := &stubClient{
		links: map[string][]string{"P1": {"G1", "G2"}},
		details: map[string]dataset.Record{
			"G1": record("G1", "Liver study"),
			"G2": record("G2", "Kidney study"),
		},
	}
	log := logging.NewNopLogger()
	svc := NewService(
		client,
		vectorizer.New(log),
		clusterer.NewEstimator(log),
		projection.NewReducer(log),
		NewGraphBuilder(log),
		nil,
		log,
		WithResultCache(time.Hour, 16),
	)

	first, err := svc.FetchGeoData(context.Background(), []string{"P1"}, "dev@example.com")
	require.NoError(t, err)
	resolvesAfterFirst := client.resolves

	second, err := svc.FetchGeoData(context.Background(), []string{"P1"}, "dev@example.com")
	require.NoError(t, err)

	assert.Equal(t, first.QueryID, second.QueryID, "repeat query is served from cache")
	assert.Equal(t, resolvesAfterFirst, client.resolves, "no second retrieval")

	// A different PMID list is a different cache key.
	_, err = svc.FetchGeoData(context.Background(), []string{"P2"}, "dev@example.com")
	require.Error(t, err)
	assert.Greater(t, client.resolves, resolvesAfterFirst)
}

func countLinks(g dataset.Graph, linkType string) int {
	var n int
	for _, l := range g.Links {
		if l.Type == linkType {
			n++
		}
	}
	return n
}
