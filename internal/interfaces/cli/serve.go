package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/turtacn/GeoCluster-Insight/internal/config"
	"github.com/turtacn/GeoCluster-Insight/internal/infrastructure/monitoring/logging"
	httpapi "github.com/turtacn/GeoCluster-Insight/internal/interfaces/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return Serve(cmd.Context(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// Serve wires the application from cfg and runs the HTTP server until the
// process receives SIGINT or SIGTERM, then shuts down gracefully. It is the
// shared entry point for the serve subcommand and the apiserver binary.
func Serve(ctx context.Context, cfg *config.Config) error {
	a, err := buildApp(cfg)
	if err != nil {
		return err
	}
	defer a.close()

	router := httpapi.NewRouter(httpapi.RouterDeps{
		Config:    cfg,
		Service:   a.service,
		Logger:    a.logger,
		Metrics:   a.metrics,
		Collector: a.collector,
		Version:   Version,
	})
	server := httpapi.NewServer(cfg.Server, router, a.logger)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		a.logger.Info("received signal", logging.String("signal", sig.String()))
	case <-ctx.Done():
		a.logger.Info("context cancelled")
	}

	if err := server.Stop(context.Background()); err != nil {
		return err
	}
	return <-errCh
}
