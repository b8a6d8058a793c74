// Command apiserver runs the GeoCluster-Insight HTTP API server. It is the
// deployment entry point; the geocluster CLI offers the same server via its
// serve subcommand plus one-shot query tooling.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/turtacn/GeoCluster-Insight/internal/config"
	"github.com/turtacn/GeoCluster-Insight/internal/interfaces/cli"
)

const defaultConfigPath = "configs/config.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v, falling back to environment configuration\n", err)
		cfg, err = config.LoadFromEnv()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}

	if err := cli.Serve(context.Background(), cfg); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
