package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	apperrors "github.com/turtacn/GeoCluster-Insight/pkg/errors"
)

var (
	fetchPMIDs []string
	fetchEmail string
	fetchPlain bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Retrieve and cluster GEO datasets for a set of PMIDs",
	Long: `fetch runs the retrieval and clustering pipeline once, without starting
the API server, and writes the resulting JSON document to stdout. The same
configuration keys apply as for serve.`,
	Example: `  geocluster fetch --pmids 30356428,31018141 --email you@example.org`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		pmids := splitPMIDs(fetchPMIDs)
		if len(pmids) == 0 {
			return fmt.Errorf("at least one PMID is required")
		}
		if strings.TrimSpace(fetchEmail) == "" {
			return fmt.Errorf("an email address is required by NCBI usage policy")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		a, err := buildApp(cfg)
		if err != nil {
			return err
		}
		defer a.close()

		result, err := a.service.FetchGeoData(cmd.Context(), pmids, fetchEmail)
		if err != nil {
			if apperrors.IsNoData(err) {
				return fmt.Errorf("no GEO datasets linked to the given PMIDs")
			}
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		if !fetchPlain {
			enc.SetIndent("", "  ")
		}
		return enc.Encode(result)
	},
}

// splitPMIDs flattens comma-separated flag values and drops blanks, so both
// --pmids 1,2 and repeated --pmids flags work.
func splitPMIDs(values []string) []string {
	var out []string
	for _, v := range values {
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

func init() {
	fetchCmd.Flags().StringSliceVar(&fetchPMIDs, "pmids", nil, "PubMed IDs to resolve (comma-separated or repeated)")
	fetchCmd.Flags().StringVar(&fetchEmail, "email", "", "contact email forwarded to NCBI E-Utilities")
	fetchCmd.Flags().BoolVar(&fetchPlain, "compact", false, "emit compact JSON instead of indented")
	rootCmd.AddCommand(fetchCmd)
}
