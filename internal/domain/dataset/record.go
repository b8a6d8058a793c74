// Package dataset defines the core entities of the GEO retrieval and
// clustering pipeline: dataset records, the PMID link map, and the
// visualization graph consumed by the presentation layer.
package dataset

// SentinelCluster marks publication (PMID) nodes as non-clustered in the
// visualization graph. Dataset nodes always carry a label >= 0.
const SentinelCluster = -1

// Record is one GEO dataset as returned by the metadata service, tagged with
// the PMID it was retrieved through. A dataset linked from two different
// PMIDs appears twice in a retrieval result as two distinct records (same
// GeoID, different PMID); downstream stages rely on that duplication to place
// the dataset near each contributing publication node.
type Record struct {
	GeoID          string `json:"geo_id"`
	Title          string `json:"title"`
	ExperimentType string `json:"experiment_type"`
	Summary        string `json:"summary"`
	Organism       string `json:"organism"`
	OverallDesign  string `json:"overall_design"`
	PMID           string `json:"pmid"`

	// Cluster is assigned after clustering; SentinelCluster until then.
	Cluster int `json:"cluster"`
}

// CombinedText returns the five free-text attributes joined by single
// spaces, in the fixed order used for vectorization.
func (r *Record) CombinedText() string {
	return r.Title + " " + r.ExperimentType + " " + r.Summary + " " + r.Organism + " " + r.OverallDesign
}

// LinkMap maps a PMID to the ordered list of GEO dataset IDs linked to it.
// Insertion order is retrieval order.
type LinkMap map[string][]string

// TotalLinks returns the total number of (pmid, geoID) pairs in the map.
func (m LinkMap) TotalLinks() int {
	n := 0
	for _, ids := range m {
		n += len(ids)
	}
	return n
}
