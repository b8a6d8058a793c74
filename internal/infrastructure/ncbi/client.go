package ncbi

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/turtacn/GeoCluster-Insight/internal/domain/dataset"
	"github.com/turtacn/GeoCluster-Insight/internal/infrastructure/cache"
	"github.com/turtacn/GeoCluster-Insight/internal/infrastructure/monitoring/logging"
)

const (
	// DefaultBaseURL is the NCBI E-Utilities endpoint root.
	DefaultBaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

	// DefaultTool identifies this application to the E-Utilities service.
	DefaultTool = "geo-dataset-clustering"

	linkName   = "pubmed_gds"
	sourceDB   = "pubmed"
	targetDB   = "gds"
	retModeXML = "xml"
)

// MetadataClient resolves PubMed identifiers to GEO dataset identifiers and
// fetches dataset summaries. Implementations fail soft: transport and parse
// failures surface as empty results, never as errors, so a partial upstream
// outage degrades the response instead of aborting it.
type MetadataClient interface {
	// ResolveDatasetIDs returns the GEO dataset IDs linked to the given
	// PubMed ID, in service order. The empty slice is a valid, cacheable
	// answer; transport failures also yield an empty slice but are not
	// cached.
	ResolveDatasetIDs(ctx context.Context, pmid string) []string

	// FetchDatasetDetails returns the summary record for a GEO dataset ID.
	// The second return is false when the record is unavailable, whether
	// because the service has no document for the ID or because the
	// request failed. Failed lookups are not cached.
	FetchDatasetDetails(ctx context.Context, geoID string) (dataset.Record, bool)

	// WithEmail returns a client that sends the given contact email on
	// every request, sharing this client's limiter and caches. The
	// external service asks callers to identify themselves per query.
	WithEmail(email string) MetadataClient
}

// RequestObserver receives timing for each outbound E-Utilities request.
// Implemented by the metrics layer; a nil observer disables collection.
type RequestObserver interface {
	ObserveEutilsRequest(endpoint string, duration time.Duration, success bool)
	CacheLookup(name string, hit bool)
}

// Client is the HTTP implementation of MetadataClient backed by the
// E-Utilities elink and esummary endpoints.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	tool        string
	email       string
	limiter     *Limiter
	linkCache   cache.TTLStore[[]string]
	detailCache cache.TTLStore[dataset.Record]
	observer    RequestObserver
	logger      logging.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithBaseURL points the client at a different E-Utilities root, used by
// tests to target a local fake server.
func WithBaseURL(base string) ClientOption {
	return func(c *Client) {
		if base != "" {
			c.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// WithIdentity sets the tool and email parameters sent on every request.
func WithIdentity(tool, email string) ClientOption {
	return func(c *Client) {
		if tool != "" {
			c.tool = tool
		}
		c.email = email
	}
}

// WithObserver attaches a request observer for metrics collection.
func WithObserver(obs RequestObserver) ClientOption {
	return func(c *Client) { c.observer = obs }
}

// NewClient constructs a Client. The limiter, caches and logger are required
// collaborators; pass cache.NewExpiring stores for in-process caching or
// Redis-backed stores for shared caching.
func NewClient(
	limiter *Limiter,
	linkCache cache.TTLStore[[]string],
	detailCache cache.TTLStore[dataset.Record],
	logger logging.Logger,
	opts ...ClientOption,
) *Client {
	c := &Client{
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		baseURL:     DefaultBaseURL,
		tool:        DefaultTool,
		limiter:     limiter,
		linkCache:   linkCache,
		detailCache: detailCache,
		logger:      logger.Named("ncbi"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithEmail implements MetadataClient.
func (c *Client) WithEmail(email string) MetadataClient {
	if email == "" || email == c.email {
		return c
	}
	clone := *c
	clone.email = email
	return &clone
}

type eLinkResult struct {
	XMLName  xml.Name  `xml:"eLinkResult"`
	LinkSets []linkSet `xml:"LinkSet"`
}

type linkSet struct {
	LinkSetDbs []linkSetDb `xml:"LinkSetDb"`
}

type linkSetDb struct {
	LinkName string     `xml:"LinkName"`
	Links    []linkItem `xml:"Link"`
}

type linkItem struct {
	ID string `xml:"Id"`
}

type eSummaryResult struct {
	XMLName xml.Name `xml:"eSummaryResult"`
	DocSums []docSum `xml:"DocSum"`
}

type docSum struct {
	ID    string        `xml:"Id"`
	Items []summaryItem `xml:"Item"`
}

type summaryItem struct {
	Name  string        `xml:"Name,attr"`
	Value string        `xml:",chardata"`
	Items []summaryItem `xml:"Item"`
}

// ResolveDatasetIDs implements MetadataClient.
func (c *Client) ResolveDatasetIDs(ctx context.Context, pmid string) []string {
	if ids, ok := c.linkCache.Get(ctx, pmid); ok {
		c.cacheLookup("link", true)
		return ids
	}
	c.cacheLookup("link", false)

	params := url.Values{}
	params.Set("dbfrom", sourceDB)
	params.Set("db", targetDB)
	params.Set("linkname", linkName)
	params.Set("id", pmid)
	params.Set("retmode", retModeXML)

	body, err := c.get(ctx, "elink.fcgi", params)
	if err != nil {
		c.logger.Warn("elink request failed",
			logging.String("pmid", pmid),
			logging.Err(err))
		return nil
	}

	var result eLinkResult
	if err := xml.Unmarshal(body, &result); err != nil {
		c.logger.Warn("elink response malformed",
			logging.String("pmid", pmid),
			logging.Err(err))
		return nil
	}

	ids := make([]string, 0)
	if len(result.LinkSets) > 0 {
		for _, db := range result.LinkSets[0].LinkSetDbs {
			if db.LinkName != linkName {
				continue
			}
			for _, link := range db.Links {
				if link.ID != "" {
					ids = append(ids, link.ID)
				}
			}
		}
	}

	// Empty link lists are cached too: a PMID with no GEO datasets is a
	// stable answer and should not be re-queried for every request.
	c.linkCache.Put(ctx, pmid, ids)
	c.logger.Debug("resolved dataset links",
		logging.String("pmid", pmid),
		logging.Int("count", len(ids)))
	return ids
}

// FetchDatasetDetails implements MetadataClient.
func (c *Client) FetchDatasetDetails(ctx context.Context, geoID string) (dataset.Record, bool) {
	if rec, ok := c.detailCache.Get(ctx, geoID); ok {
		c.cacheLookup("detail", true)
		return rec, true
	}
	c.cacheLookup("detail", false)

	params := url.Values{}
	params.Set("db", targetDB)
	params.Set("id", geoID)
	params.Set("retmode", retModeXML)

	body, err := c.get(ctx, "esummary.fcgi", params)
	if err != nil {
		c.logger.Warn("esummary request failed",
			logging.String("geo_id", geoID),
			logging.Err(err))
		return dataset.Record{}, false
	}

	var result eSummaryResult
	if err := xml.Unmarshal(body, &result); err != nil {
		c.logger.Warn("esummary response malformed",
			logging.String("geo_id", geoID),
			logging.Err(err))
		return dataset.Record{}, false
	}
	if len(result.DocSums) == 0 {
		c.logger.Warn("esummary returned no document", logging.String("geo_id", geoID))
		return dataset.Record{}, false
	}

	rec := recordFromDocSum(geoID, result.DocSums[0])
	c.detailCache.Put(ctx, geoID, rec)
	return rec, true
}

func recordFromDocSum(geoID string, doc docSum) dataset.Record {
	rec := dataset.Record{GeoID: geoID, Cluster: dataset.SentinelCluster}
	for _, item := range doc.Items {
		switch item.Name {
		case "title":
			rec.Title = strings.TrimSpace(item.Value)
		case "summary":
			rec.Summary = strings.TrimSpace(item.Value)
		case "gdsType":
			rec.ExperimentType = strings.TrimSpace(item.Value)
		case "taxon":
			rec.Organism = strings.TrimSpace(item.Value)
		case "gdsSubset":
			rec.OverallDesign = overallDesign(item)
		}
	}
	return rec
}

// overallDesign returns the text of the description entry directly under
// the gdsSubset item whose text mentions an experimental design. When
// several entries match, the last one wins.
func overallDesign(subset summaryItem) string {
	var design string
	for _, sub := range subset.Items {
		if sub.Name != "description" {
			continue
		}
		text := strings.TrimSpace(sub.Value)
		if text == "" {
			continue
		}
		if strings.Contains(strings.ToLower(text), "design") {
			design = text
		}
	}
	return design
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params.Set("tool", c.tool)
	if c.email != "" {
		params.Set("email", c.email)
	}

	reqURL := c.baseURL + "/" + endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observeRequest(endpoint, time.Since(start), false)
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.observeRequest(endpoint, time.Since(start), false)
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		c.observeRequest(endpoint, time.Since(start), false)
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	c.observeRequest(endpoint, time.Since(start), true)
	return body, nil
}

func (c *Client) observeRequest(endpoint string, d time.Duration, success bool) {
	if c.observer != nil {
		c.observer.ObserveEutilsRequest(endpoint, d, success)
	}
}

func (c *Client) cacheLookup(name string, hit bool) {
	if c.observer != nil {
		c.observer.CacheLookup(name, hit)
	}
}
