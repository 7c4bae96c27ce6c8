package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/teslamate-tools/addrfix/internal/config"
	"github.com/teslamate-tools/addrfix/internal/geocoding"
	"github.com/teslamate-tools/addrfix/internal/metrics"
	"github.com/teslamate-tools/addrfix/internal/repository"
	"github.com/teslamate-tools/addrfix/internal/service"
)

var fixOpts struct {
	host     string
	port     string
	user     string
	password string
	database string
	proxy    string
	timeout  time.Duration
	interval time.Duration
	dryRun   bool
	verbose  bool
}

var fixCmd = &cobra.Command{
	Use:   "fix",
	Short: "resolve and repoint missing addresses",
	Long: `
fix runs one repair pass over all drives and charging processes with missing
address references. With --interval it keeps running, repeating the pass
periodically and exposing /healthz and /metrics on the monitoring port.

Per-record resolution failures are logged and summarized but do not fail the
run; the exit status is non-zero only on fatal errors such as an unreachable
database.
`,
	RunE: func(cobraCmd *cobra.Command, _ []string) error {
		// Flags override the environment / .env configuration.
		cfg := config.MustLoad()
		applyFlags(cobraCmd, cfg)

		env := cfg.Env
		if fixOpts.verbose {
			env = envLocal
		}
		logger := setupLogger(env)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return runFix(ctx, logger, cfg)
	},
}

func init() {
	fixCmd.Flags().StringVarP(&fixOpts.host, "host", "H", "", "database host")
	fixCmd.Flags().StringVarP(&fixOpts.port, "port", "p", "", "database port")
	fixCmd.Flags().StringVarP(&fixOpts.user, "user", "u", "", "database user")
	fixCmd.Flags().StringVarP(&fixOpts.password, "password", "w", "", "database password")
	fixCmd.Flags().StringVarP(&fixOpts.database, "database", "d", "", "database name")
	fixCmd.Flags().StringVarP(&fixOpts.proxy, "proxy", "x", "", "HTTPS proxy (host:port or URL) for geocoding requests")
	fixCmd.Flags().DurationVar(&fixOpts.timeout, "timeout", 0, "HTTP timeout for geocoding requests")
	fixCmd.Flags().DurationVar(&fixOpts.interval, "interval", 0, "re-run the pass at this interval (daemon mode)")
	fixCmd.Flags().BoolVar(&fixOpts.dryRun, "dry-run", false, "resolve and log, but do not write to the database")
	fixCmd.Flags().BoolVar(&fixOpts.verbose, "verbose", false, "enable debug logging")

	rootCmd.AddCommand(fixCmd)
}

func applyFlags(cobraCmd *cobra.Command, cfg *config.Config) {
	if fixOpts.host != "" {
		cfg.Database.Host = fixOpts.host
	}
	if fixOpts.port != "" {
		cfg.Database.Port = fixOpts.port
	}
	if fixOpts.user != "" {
		cfg.Database.User = fixOpts.user
	}
	if fixOpts.password != "" {
		cfg.Database.Password = fixOpts.password
	}
	if fixOpts.database != "" {
		cfg.Database.Name = fixOpts.database
	}
	if fixOpts.proxy != "" {
		cfg.Proxy = fixOpts.proxy
	}
	if cobraCmd.Flags().Changed("timeout") {
		cfg.Timeout = fixOpts.timeout
	}
	if cobraCmd.Flags().Changed("interval") {
		cfg.Interval = fixOpts.interval
	}
	cfg.DryRun = cfg.DryRun || fixOpts.dryRun
}

func runFix(ctx context.Context, logger *slog.Logger, cfg *config.Config) error {
	// Create a separate registry for metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	// Initialize the database connection. An unreachable database is fatal.
	dtb, err := repository.NewDatabase(
		ctx, cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.Name,
	)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer dtb.Close()

	repo := repository.NewRepository(dtb, logger)

	provider, err := geocoding.NewNominatimProvider(logger, cfg.Proxy, cfg.Timeout)
	if err != nil {
		return fmt.Errorf("failed to create geocoding provider: %w", err)
	}

	fixService := service.NewAddressFixService(
		logger,
		repo,
		provider,
		"nominatim",
		appMetrics,
		cfg.ResolveDelay,
		cfg.Interval,
		cfg.DryRun,
	)

	if cfg.Interval > 0 {
		logger.InfoContext(ctx, "Running in daemon mode", "interval", cfg.Interval)
		go startMonitoringServer(ctx, logger, reg, dtb, cfg.HealthPort)
		fixService.Run(ctx)
		return nil
	}

	summary, err := fixService.FixMissingAddresses(ctx)
	if err != nil {
		return fmt.Errorf("repair pass failed: %w", err)
	}

	// Per-record failures do not affect the exit status.
	logger.InfoContext(ctx, "Repair pass finished",
		"fixed", summary.Fixed, "would_fix", summary.WouldFix, "failed", summary.Failed)

	return nil
}

// startMonitoringServer starts an HTTP server that provides health check and
// metrics endpoints for daemon mode. It listens on the specified port and logs
// the server's status and any errors encountered.
func startMonitoringServer(
	ctx context.Context,
	log *slog.Logger,
	reg *prometheus.Registry,
	dtb *pgxpool.Pool,
	port int,
) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(writer http.ResponseWriter, _ *http.Request) {
		log.DebugContext(ctx, "Performing health checks...")
		status, body := http.StatusOK, "OK"
		if err := dtb.Ping(ctx); err != nil {
			status, body = http.StatusServiceUnavailable, "DB ping failed"
		}
		writer.WriteHeader(status)
		if _, err := writer.Write([]byte(body)); err != nil {
			log.ErrorContext(ctx, "failed to write reply", "error", err)
		}
	})
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	log.InfoContext(ctx, "Starting monitoring server", "port", port)
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := server.ListenAndServe(); err != nil {
		log.ErrorContext(ctx, "Monitoring server failed", "error", err)
	}
}
