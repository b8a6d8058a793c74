package dataset

// Node types and link types used in the visualization graph.
const (
	NodeTypeDataset = "dataset"
	NodeTypePMID    = "pmid"

	LinkTypePmidToDataset = "pmid_to_dataset"
	LinkTypeSameCluster   = "same_cluster"
)

// Node is a single point in the visualization graph: either a dataset node
// (id = GEO ID, cluster >= 0) or a publication node (id = PMID, coordinates
// at the centroid of its linked dataset nodes, cluster = SentinelCluster).
type Node struct {
	ID             string  `json:"id"`
	Type           string  `json:"type"`
	Title          string  `json:"title,omitempty"`
	ExperimentType string  `json:"experiment_type,omitempty"`
	Organism       string  `json:"organism,omitempty"`
	PMID           string  `json:"pmid,omitempty"`
	X              float64 `json:"x"`
	Y              float64 `json:"y"`
	Cluster        int     `json:"cluster"`
}

// Link is an edge in the visualization graph. Source and Target are node IDs;
// a pmid_to_dataset link may reference a dataset ID with no corresponding
// node when the detail fetch for that ID failed (intentional looseness).
type Link struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"`
}

// ClusterSummary describes one cluster of dataset nodes.
type ClusterSummary struct {
	ID       int      `json:"id"`
	Size     int      `json:"size"`
	Datasets []string `json:"datasets"`
}

// Graph is the node/link/cluster structure consumed by the front end.
type Graph struct {
	Nodes    []Node           `json:"nodes"`
	Links    []Link           `json:"links"`
	Clusters []ClusterSummary `json:"clusters"`
}

// EmptyGraph returns a graph with empty (non-nil) slices so the JSON
// rendering is always {"nodes":[],"links":[],"clusters":[]}.
func EmptyGraph() Graph {
	return Graph{
		Nodes:    []Node{},
		Links:    []Link{},
		Clusters: []ClusterSummary{},
	}
}
