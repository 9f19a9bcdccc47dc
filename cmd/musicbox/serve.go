package main

import (
	"strings"

	musicbox "github.com/aretw0/musicbox-realtime"
	"github.com/aretw0/musicbox-realtime/internal/config"
	"github.com/aretw0/musicbox-realtime/internal/presentation/tui"
	"github.com/aretw0/musicbox-realtime/internal/signals"
	httpAdapter "github.com/aretw0/musicbox-realtime/pkg/adapters/http"
	wsAdapter "github.com/aretw0/musicbox-realtime/pkg/adapters/websocket"
	"github.com/aretw0/musicbox-realtime/pkg/observability"
	"github.com/aretw0/musicbox-realtime/pkg/service"
	"github.com/aretw0/musicbox-realtime/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the WebSocket echo service",
	Long: `Starts the liveness responder (GET /health) and the WebSocket echo responder
on separate ports. SIGINT or SIGTERM stops the WebSocket listener first, then
the liveness listener, and exits with status 0.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		applyServeFlags(cmd, &cfg)
		cfg.Normalize()
		if err := cfg.Validate(); err != nil {
			return err
		}

		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}

		sm := signals.NewManager(cmd.Context())
		defer sm.Stop()
		ctx := sm.Context()

		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		metrics := observability.NewMetrics(reg)

		opts := []service.Option{
			service.WithLogger(logger),
			service.WithHooks(metrics.Hooks()),
			service.WithMetricsHandler(httpAdapter.NewMetricsHandler(reg, httpAdapter.WithLogger(logger))),
		}

		store, closeStore, err := openSessionStore(ctx, cfg.Sessions)
		if err != nil {
			return err
		}
		defer closeStore()
		if store != nil {
			recorder := session.NewRecorder(store,
				session.WithLogger(logger),
				session.WithRefresh(sessionRefresh(cfg.Sessions)),
			)
			defer recorder.Close()
			opts = append(opts, service.WithHooks(recorder.Hooks()))
			logger.Info("recording sessions", "backend", cfg.Sessions.Backend)
		}

		tui.NewPrinter(cmd.ErrOrStderr()).Banner(strings.TrimSpace(musicbox.Version))

		svc := service.New(cfg.Service(), opts...)
		if err := svc.Run(ctx); err != nil {
			return err
		}
		logger.Info("shutdown complete")
		return nil
	},
}

func applyServeFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("ws-port") {
		cfg.WSAddr, _ = flags.GetString("ws-port")
	}
	if flags.Changed("health-port") {
		cfg.HealthAddr, _ = flags.GetString("health-port")
	}
	if flags.Changed("metrics-port") {
		cfg.MetricsAddr, _ = flags.GetString("metrics-port")
	}
	if flags.Changed("max-message-bytes") {
		cfg.MaxMessageBytes, _ = flags.GetInt64("max-message-bytes")
	}
	if flags.Changed("sessions") {
		cfg.Sessions.Backend, _ = flags.GetString("sessions")
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("ws-port", "8080", "WebSocket port or address")
	serveCmd.Flags().String("health-port", "8081", "Health check port or address")
	serveCmd.Flags().String("metrics-port", "", "Prometheus metrics port or address (disabled when empty)")
	serveCmd.Flags().Int64("max-message-bytes", wsAdapter.DefaultReadLimit, "Largest inbound WebSocket message")
	serveCmd.Flags().String("sessions", "none", "Session record backend (none, memory, redis)")
}
