package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/niels/poolhttpd/pkg/config"
	"github.com/niels/poolhttpd/pkg/files"
	"github.com/niels/poolhttpd/pkg/logging"
	"github.com/niels/poolhttpd/pkg/pool"
	"github.com/niels/poolhttpd/pkg/routes"
	"github.com/niels/poolhttpd/pkg/server"
	"github.com/niels/poolhttpd/pkg/stats"
	"github.com/niels/poolhttpd/pkg/version"
	"github.com/spf13/cobra"
)

var (
	configPath  string
	host        string
	port        int
	workers     int
	contentDir  string
	debug       bool
	showVersion bool
	cfg         *config.Config
)

// NewRootCmd creates the root command for poolhttpd
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   version.AppName,
		Short: version.Description,
		Long: fmt.Sprintf(`%s - %s

Registered routes serve file content frozen at startup; a fixed worker
pool bounds how many connections are handled at once.
`, version.AppName, version.Description),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load configuration first so logging settings apply
			if configPath != "" {
				cfg = config.LoadOrDefault(configPath)
			} else {
				cfg = config.LoadDefault()
			}

			// Command-line flags override the config file
			if host != "" {
				cfg.Server.Host = host
			}
			if port > 0 {
				cfg.Server.Port = port
			}
			if workers > 0 {
				cfg.Pool.Workers = workers
			}

			logging.InitGlobalLogger(debug, cfg)
			logging.Info("Initializing poolhttpd")

			if debug {
				logging.Debug("Debug logging enabled")
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Fprintln(cmd.OutOrStdout(), version.GetVersionInfo())
				return nil
			}

			return runServer(cfg)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&host, "host", "", "Host to listen on (overrides config)")
	rootCmd.PersistentFlags().IntVarP(&port, "port", "p", 0, "Port to listen on (overrides config)")
	rootCmd.PersistentFlags().IntVarP(&workers, "workers", "w", 0, "Worker pool size (overrides config)")
	rootCmd.PersistentFlags().StringVar(&contentDir, "content-dir", "", "Directory route files are resolved against")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable debug mode")
	rootCmd.PersistentFlags().BoolVarP(&showVersion, "version", "v", false, "Show version information")

	return rootCmd
}

// runServer wires the route table, pool and listener together and
// serves until SIGINT or SIGTERM
func runServer(cfg *config.Config) error {
	reader := files.NewOSReader(contentDir)

	table, err := routes.New(reader, cfg.Routes.FallbackFile, cfg.Server.NotFoundAs404)
	if err != nil {
		logging.ErrorWith("Failed to build route table", map[string]interface{}{
			"error": err.Error(),
		})
		return fmt.Errorf("failed to build route table: %w", err)
	}

	for _, entry := range cfg.Routes.Entries {
		if err := table.RegisterGet(entry.Path, entry.File); err != nil {
			logging.ErrorWith("Failed to register route", map[string]interface{}{
				"path":  entry.Path,
				"error": err.Error(),
			})
			return fmt.Errorf("failed to register route %s: %w", entry.Path, err)
		}
	}

	workerPool, err := pool.NewWithQueueDepth(cfg.Pool.Workers, cfg.Pool.QueueDepth)
	if err != nil {
		logging.ErrorWith("Failed to create worker pool", map[string]interface{}{
			"error": err.Error(),
		})
		return fmt.Errorf("failed to create worker pool: %w", err)
	}

	tracker := stats.NewTracker()

	srv, err := server.New(cfg, table, workerPool, tracker)
	if err != nil {
		logging.ErrorWith("Failed to start server", map[string]interface{}{
			"error": err.Error(),
		})
		return fmt.Errorf("failed to start server: %w", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logging.InfoWith("Signal received, shutting down", map[string]interface{}{
			"signal": sig.String(),
		})
		srv.Shutdown()
	}()

	srv.Run()
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
