// Command geocluster is the CLI entry point: it serves the API or runs
// one-shot retrieval and clustering queries.
package main

import (
	"fmt"
	"os"

	"github.com/turtacn/GeoCluster-Insight/internal/interfaces/cli"
)

// Build-time variables injected via ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func init() {
	cli.Version = version
	cli.GitCommit = commit
	cli.BuildDate = buildDate
}

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
