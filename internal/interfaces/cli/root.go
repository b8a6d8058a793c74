// Package cli implements the geocluster command-line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/turtacn/GeoCluster-Insight/internal/config"
)

// Build-time variables stamped via -ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "geocluster",
	Short: "Cluster GEO datasets linked from PubMed publications",
	Long: `geocluster resolves PubMed IDs to their linked GEO datasets, groups the
datasets by textual similarity and produces a graph-structured visualization
of clusters and publication-to-dataset links.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config file (default: environment only)")
}

// Execute runs the root command. The version string is assembled here so
// that build-time variables injected by main are already in place.
func Execute() error {
	rootCmd.Version = fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate)
	return rootCmd.Execute()
}

// loadConfig reads the config file named by --config, or builds the
// configuration from GEOCLUSTER_* environment variables when no file is
// given.
func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.Load(cfgFile)
	}
	return config.LoadFromEnv()
}
