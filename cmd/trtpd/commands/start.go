package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/trtpd/trtpd/internal/logger"
	internalserver "github.com/trtpd/trtpd/internal/server"
	"github.com/trtpd/trtpd/internal/telemetry"
	"github.com/trtpd/trtpd/pkg/accounts/store"
	"github.com/trtpd/trtpd/pkg/adapter"
	"github.com/trtpd/trtpd/pkg/adminapi"
	"github.com/trtpd/trtpd/pkg/config"
	"github.com/trtpd/trtpd/pkg/metrics"
	prometheusmetrics "github.com/trtpd/trtpd/pkg/metrics/prometheus"
	trtpserver "github.com/trtpd/trtpd/pkg/server"
)

var (
	foreground bool
	pidFile    string
	logFile    string
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the trtpd server",
	Long: `Start the trtpd TRTP server with the specified configuration.

By default, the server runs in the background (daemon mode). Use --foreground
to run in the foreground for debugging or when managed by a process supervisor.

Use --config to specify a custom configuration file, or it will use the
default location at $XDG_CONFIG_HOME/trtpd/config.yaml.

Examples:
  # Start in background (default)
  trtpd start

  # Start in foreground
  trtpd start --foreground

  # Start with custom config file
  trtpd start --config /etc/trtpd/config.yaml

  # Start with environment variable overrides
  TRTPD_LOGGING_LEVEL=DEBUG trtpd start --foreground`,
	RunE: runStart,
}

func init() {
	startCmd.Flags().BoolVarP(&foreground, "foreground", "f", false, "Run in foreground (default: background/daemon mode)")
	startCmd.Flags().StringVar(&pidFile, "pid-file", "", "Path to PID file (default: $XDG_STATE_HOME/trtpd/trtpd.pid)")
	startCmd.Flags().StringVar(&logFile, "log-file", "", "Path to log file for daemon mode (default: $XDG_STATE_HOME/trtpd/trtpd.log)")
}

func runStart(cmd *cobra.Command, args []string) error {
	if !foreground {
		return startDaemon()
	}

	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return err
	}

	if err := InitLogger(cfg); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	telemetryCfg := telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    "trtpd",
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		SampleRate:     cfg.Telemetry.SampleRate,
	}
	telemetryShutdown, err := telemetry.Init(ctx, telemetryCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		if err := telemetryShutdown(ctx); err != nil {
			logger.Error("telemetry shutdown error", logger.Err(err))
		}
	}()

	profilingCfg := telemetry.ProfilingConfig{
		Enabled:        cfg.Telemetry.Profiling.Enabled,
		ServiceName:    "trtpd",
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Profiling.Endpoint,
		ProfileTypes:   cfg.Telemetry.Profiling.ProfileTypes,
	}
	profilingShutdown, err := telemetry.InitProfiling(profilingCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize profiling: %w", err)
	}
	defer func() {
		if err := profilingShutdown(); err != nil {
			logger.Error("profiling shutdown error", logger.Err(err))
		}
	}()

	fmt.Println("trtpd - TRTP chat and file-sharing server")
	logger.Info("log level", "level", cfg.Logging.Level, "format", cfg.Logging.Format)
	logger.Info("configuration loaded", "source", getConfigSource(GetConfigFile()))
	if telemetry.IsEnabled() {
		logger.Info("telemetry enabled", "endpoint", cfg.Telemetry.Endpoint, "sample_rate", cfg.Telemetry.SampleRate)
	} else {
		logger.Info("telemetry disabled")
	}
	if telemetry.IsProfilingEnabled() {
		logger.Info("profiling enabled", "endpoint", cfg.Telemetry.Profiling.Endpoint, "profile_types", cfg.Telemetry.Profiling.ProfileTypes)
	} else {
		logger.Info("profiling disabled")
	}

	// The Prometheus registry backing trtpd_* metrics is always the
	// default registerer: promhttp.Handler() in the admin API serves the
	// default gatherer, so there is no separate registry to wire up here.
	var serverMetrics metrics.Metrics
	if cfg.Metrics.Enabled {
		metrics.InitRegistry(prometheus.DefaultRegisterer)
		serverMetrics = prometheusmetrics.NewServerMetrics()
		logger.Info("metrics enabled")
	} else {
		logger.Info("metrics collection disabled")
	}

	accountStore, err := store.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize account store: %w", err)
	}
	defer func() {
		if err := accountStore.Close(); err != nil {
			logger.Error("account store close error", logger.Err(err))
		}
	}()

	adminPassword, err := accountStore.EnsureAdminAccount(ctx)
	if err != nil {
		return fmt.Errorf("failed to ensure admin account: %w", err)
	}
	if adminPassword != "" {
		fmt.Printf("\n*** IMPORTANT: admin account created with password: %s ***\n", adminPassword)
		fmt.Println("This password is not stored; save it now, it will not be shown again.")
		fmt.Println()
	}

	state := internalserver.New(accountStore, internalserver.Config{
		AllowGuests:     cfg.Server.AllowGuests,
		GuestAccessMask: cfg.Server.GuestAccessMask,
		ServerName:      cfg.Server.ServerName,
		BannerID:        cfg.Server.BannerID,
	})
	state.Metrics = serverMetrics
	state.Hub.Metrics = serverMetrics

	trtpAdapter := trtpserver.New(adapter.BaseConfig{
		BindAddress:     cfg.Server.BindAddress,
		Port:            cfg.Server.Port,
		MaxConnections:  cfg.Server.MaxConnections,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, trtpserver.Config{
		HandshakeTimeout: cfg.Server.HandshakeTimeout,
		IdleTimeout:      cfg.Server.IdleTimeout,
	}, state)

	var adminServer *adminapi.Server
	if cfg.AdminAPI.Enabled {
		if cfg.AdminAPI.OperatorPasswordHash == "" {
			return fmt.Errorf("admin_api.enabled is true but admin_api.operator_password_hash is empty; run 'trtpd init' or set it by hand")
		}
		adminServer, err = adminapi.NewServer(cfg.AdminAPI, state)
		if err != nil {
			return fmt.Errorf("failed to create admin API server: %w", err)
		}
	} else {
		logger.Info("admin API disabled")
	}

	if pidFile != "" {
		if err := os.WriteFile(pidFile, []byte(fmt.Sprintf("%d", os.Getpid())), 0644); err != nil {
			return fmt.Errorf("failed to write PID file: %w", err)
		}
		defer func() { _ = os.Remove(pidFile) }()
	}

	serverDone := make(chan error, 1)
	go func() {
		serverDone <- trtpAdapter.Serve(ctx)
	}()

	adminDone := make(chan error, 1)
	if adminServer != nil {
		go func() {
			adminDone <- adminServer.Start(ctx)
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("trtpd is running", "bind_address", cfg.Server.BindAddress, "port", cfg.Server.Port)
	fmt.Println("Press Ctrl+C to stop.")

	select {
	case <-sigChan:
		signal.Stop(sigChan)
		logger.Info("shutdown signal received, initiating graceful shutdown")
		cancel()

		if err := <-serverDone; err != nil {
			logger.Error("server shutdown error", logger.Err(err))
			return err
		}
		if adminServer != nil {
			if err := <-adminDone; err != nil {
				logger.Error("admin API shutdown error", logger.Err(err))
			}
		}
		logger.Info("trtpd stopped gracefully")

	case err := <-serverDone:
		signal.Stop(sigChan)
		if err != nil {
			logger.Error("server error", logger.Err(err))
			return err
		}
		logger.Info("trtpd stopped")

	case err := <-adminDone:
		signal.Stop(sigChan)
		if err != nil {
			logger.Error("admin API error", logger.Err(err))
			return err
		}
	}

	return nil
}

// getConfigSource returns a description of where the config was loaded from.
func getConfigSource(configFile string) string {
	if configFile != "" {
		return configFile
	}
	if config.DefaultConfigExists() {
		return config.GetDefaultConfigPath()
	}
	return "defaults"
}
