// Package geodata defines the wire types of the GeoCluster-Insight HTTP
// API. They are shared between the server's response rendering and the Go
// SDK in pkg/client, so integrators never have to re-declare the JSON
// shapes by hand.
package geodata

// SentinelCluster is the cluster value carried by publication (PMID) nodes,
// which do not belong to any dataset cluster. Dataset nodes always carry a
// cluster label >= 0.
const SentinelCluster = -1

// Node and link type discriminators used in the visualization graph.
const (
	NodeTypeDataset = "dataset"
	NodeTypePMID    = "pmid"

	LinkTypePmidToDataset = "pmid_to_dataset"
	LinkTypeSameCluster   = "same_cluster"
)

// Request is the body of POST /api/fetch-geo-data.
type Request struct {
	// PMIDs lists the PubMed IDs to resolve. Must be non-empty.
	PMIDs []string `json:"pmids"`
	// Email identifies the caller to NCBI per its E-Utilities usage policy.
	Email string `json:"email"`
}

// Dataset is one GEO dataset in a query result, tagged with the PMID it was
// retrieved through and the cluster label assigned by the pipeline.
type Dataset struct {
	GeoID          string `json:"geo_id"`
	Title          string `json:"title"`
	ExperimentType string `json:"experiment_type"`
	Summary        string `json:"summary"`
	Organism       string `json:"organism"`
	OverallDesign  string `json:"overall_design"`
	PMID           string `json:"pmid"`
	Cluster        int    `json:"cluster"`
}

// Node is a point in the visualization graph: a dataset node (id = GEO ID)
// or a publication node (id = PMID, placed at the centroid of its linked
// dataset nodes, cluster = SentinelCluster).
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

// Link is an edge between two node IDs. A pmid_to_dataset link may name a
// dataset with no corresponding node when that dataset's detail fetch
// failed.
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

// Result is the body of a successful fetch-geo-data response.
type Result struct {
	QueryID          string              `json:"query_id"`
	Datasets         []Dataset           `json:"datasets"`
	PmidAssociations map[string][]string `json:"pmid_associations"`
	Visualization    Graph               `json:"visualization"`
	ClusterCount     int                 `json:"cluster_count"`
}

// ErrorBody is the body of an error response.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}
