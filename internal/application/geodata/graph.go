package geodata

import (
	"sort"

	"github.com/turtacn/GeoCluster-Insight/internal/domain/dataset"
	"github.com/turtacn/GeoCluster-Insight/internal/infrastructure/monitoring/logging"
)

// GraphBuilder assembles the visualization structure from clustered,
// projected dataset records.
type GraphBuilder struct {
	logger logging.Logger
}

// NewGraphBuilder constructs a GraphBuilder.
func NewGraphBuilder(logger logging.Logger) *GraphBuilder {
	return &GraphBuilder{logger: logger.Named("graph")}
}

// Build assembles nodes, links and cluster summaries. Records beyond the
// length of coordinates or labels are skipped; links from a PMID to a
// dataset ID with no surviving node are kept deliberately, the front end
// renders them against whichever nodes exist.
func (b *GraphBuilder) Build(
	records []dataset.Record,
	coords [][]float64,
	labels []int,
	pmidMap dataset.LinkMap,
) dataset.Graph {
	if len(records) == 0 || len(coords) == 0 {
		b.logger.Warn("no data available for visualization")
		return dataset.EmptyGraph()
	}

	datasetNodes := make([]dataset.Node, 0, len(records))
	for i, rec := range records {
		if i >= len(coords) || i >= len(labels) || len(coords[i]) < 2 {
			continue
		}
		datasetNodes = append(datasetNodes, dataset.Node{
			ID:             rec.GeoID,
			Type:           dataset.NodeTypeDataset,
			Title:          rec.Title,
			ExperimentType: rec.ExperimentType,
			Organism:       rec.Organism,
			PMID:           rec.PMID,
			X:              coords[i][0],
			Y:              coords[i][1],
			Cluster:        labels[i],
		})
	}

	graph := dataset.Graph{
		Nodes:    datasetNodes,
		Links:    []dataset.Link{},
		Clusters: []dataset.ClusterSummary{},
	}

	// One node per PMID with at least one surviving dataset node, placed
	// at the centroid of its datasets.
	for _, pmid := range sortedKeys(pmidMap) {
		var sumX, sumY float64
		var count int
		for _, node := range datasetNodes {
			if node.PMID == pmid {
				sumX += node.X
				sumY += node.Y
				count++
			}
		}
		if count == 0 {
			continue
		}
		graph.Nodes = append(graph.Nodes, dataset.Node{
			ID:      pmid,
			Type:    dataset.NodeTypePMID,
			X:       sumX / float64(count),
			Y:       sumY / float64(count),
			Cluster: dataset.SentinelCluster,
		})
	}

	for _, pmid := range sortedKeys(pmidMap) {
		for _, geoID := range pmidMap[pmid] {
			graph.Links = append(graph.Links, dataset.Link{
				Source: pmid,
				Target: geoID,
				Type:   dataset.LinkTypePmidToDataset,
			})
		}
	}

	for i := range datasetNodes {
		for j := i + 1; j < len(datasetNodes); j++ {
			if datasetNodes[i].Cluster == datasetNodes[j].Cluster {
				graph.Links = append(graph.Links, dataset.Link{
					Source: datasetNodes[i].ID,
					Target: datasetNodes[j].ID,
					Type:   dataset.LinkTypeSameCluster,
				})
			}
		}
	}

	maxLabel := -1
	for _, node := range datasetNodes {
		if node.Cluster > maxLabel {
			maxLabel = node.Cluster
		}
	}
	for label := 0; label <= maxLabel; label++ {
		var members []string
		for _, node := range datasetNodes {
			if node.Cluster == label {
				members = append(members, node.ID)
			}
		}
		if len(members) == 0 {
			continue
		}
		graph.Clusters = append(graph.Clusters, dataset.ClusterSummary{
			ID:       label,
			Size:     len(members),
			Datasets: members,
		})
	}

	b.logger.Info("prepared visualization data",
		logging.Int("nodes", len(graph.Nodes)),
		logging.Int("links", len(graph.Links)),
		logging.Int("clusters", len(graph.Clusters)))
	return graph
}

func sortedKeys(m dataset.LinkMap) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
