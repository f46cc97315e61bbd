package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"parley-hq/parley/pkg/chat"
	"parley-hq/parley/pkg/config"
	"parley-hq/parley/pkg/conversation"
	"parley-hq/parley/pkg/limits/ratelimit"
	"parley-hq/parley/pkg/providers"
	"parley-hq/parley/pkg/providers/anthropic"
	"parley-hq/parley/pkg/server"
	"parley-hq/parley/pkg/telemetry/logging"
	"parley-hq/parley/pkg/telemetry/metrics"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Parley gateway server",
	Long: `Start the Parley gateway server with the specified configuration.

The server accepts chat messages on /api/chat and streams assistant
replies back as Server-Sent Events.

Examples:
  # Start with defaults and environment variables
  parley run

  # Start with a config file
  parley run --config /etc/parley/config.yaml

  # Override listen address
  parley run --listen 0.0.0.0:8080

  # Validate config without starting the server
  parley run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServer(cmd *cobra.Command, args []string) error {
	// A .env file in the working directory supplies variables like
	// ANTHROPIC_API_KEY during local development; absence is not an error.
	_ = godotenv.Load()

	var cfg *config.Config
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadConfigWithEnvOverrides(cfgFile)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Apply flag overrides
	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	logCfg := logging.Config{
		Level:     cfg.Telemetry.Logging.Level,
		Format:    cfg.Telemetry.Logging.Format,
		AddSource: cfg.Telemetry.Logging.AddSource,
	}
	if _, err := logging.Setup(logCfg); err != nil {
		return fmt.Errorf("failed to configure logging: %w", err)
	}

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	fmt.Printf("Parley v%s\n", Version)
	if cfgFile != "" {
		fmt.Printf("Loading configuration from: %s\n", cfgFile)
	}
	fmt.Println("✓ Configuration loaded")

	// Provider
	provider, err := anthropic.NewProvider(providers.ProviderConfig{
		Name:                cfg.Provider.Name,
		BaseURL:             cfg.Provider.BaseURL,
		APIKey:              cfg.Provider.APIKey,
		Model:               cfg.Provider.Model,
		Timeout:             cfg.Provider.Timeout,
		MaxRetries:          cfg.Provider.MaxRetries,
		MaxIdleConns:        cfg.Provider.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.Provider.MaxIdleConnsPerHost,
		IdleConnTimeout:     cfg.Provider.IdleConnTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize provider: %w", err)
	}
	defer provider.Close()
	fmt.Printf("✓ Provider initialized (%s, model %s)\n", cfg.Provider.Name, cfg.Provider.Model)

	// Chat service
	buffer := conversation.NewBuffer(cfg.Chat.MaxContextMessages)
	validator := chat.NewValidator(cfg.Chat.MinMessageLength, cfg.Chat.MaxMessageLength)
	service := chat.NewService(provider, buffer, validator, chat.Config{
		Model:          cfg.Provider.Model,
		MaxTokens:      cfg.Chat.MaxTokens,
		RequestTimeout: cfg.Provider.Timeout,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Rate limiter with scheduled pruning
	var limiter *ratelimit.SlidingWindow
	if cfg.Limits.Enabled {
		limiter = ratelimit.NewSlidingWindow(cfg.Limits.MaxCalls, cfg.Limits.Period)

		pruner := ratelimit.NewPruner(limiter, cfg.Limits.PruneSchedule)
		if err := pruner.Start(ctx); err != nil {
			slog.Warn("failed to start rate limit pruner", "error", err)
		} else {
			defer pruner.Stop()
		}

		fmt.Printf("✓ Rate limiting enabled (%d calls per %s)\n", cfg.Limits.MaxCalls, cfg.Limits.Period)
	}

	// Metrics
	var collector *metrics.Collector
	if cfg.Telemetry.Metrics.Enabled {
		collector = metrics.NewCollector(cfg.Telemetry.Metrics.Namespace)
	}

	// Config file watcher for live log-level changes
	if cfgFile != "" {
		watcher, err := config.NewWatcher(cfgFile, slog.Default())
		if err != nil {
			slog.Warn("failed to create config watcher", "error", err)
		} else {
			go func() {
				err := watcher.Watch(ctx, func(newCfg *config.Config) {
					if err := logging.SetLevel(logCfg, newCfg.Telemetry.Logging.Level); err != nil {
						slog.Error("failed to apply new log level", "error", err)
						return
					}
					slog.Info("log level updated", "level", newCfg.Telemetry.Logging.Level)
				})
				if err != nil {
					slog.Error("config watcher exited", "error", err)
				}
			}()
			defer watcher.Stop()
		}
	}

	srv := server.NewServer(cfg, service, provider, limiter, collector)

	fmt.Printf("✓ Server listening on %s\n", cfg.Server.ListenAddress)
	fmt.Printf("✓ Health endpoint: http://%s/api/health\n", cfg.Server.ListenAddress)
	if collector != nil {
		fmt.Printf("✓ Metrics endpoint: http://%s/metrics\n", cfg.Server.ListenAddress)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	// Start blocks until a shutdown signal or fatal server error
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	fmt.Println("✓ Server stopped")
	return nil
}
