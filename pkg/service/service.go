package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/aretw0/musicbox-realtime/internal/logging"
	httpAdapter "github.com/aretw0/musicbox-realtime/pkg/adapters/http"
	wsAdapter "github.com/aretw0/musicbox-realtime/pkg/adapters/websocket"
	"github.com/aretw0/musicbox-realtime/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

// Config holds the listener addresses and limits.
type Config struct {
	WSAddr          string
	HealthAddr      string
	MetricsAddr     string // Empty disables the metrics listener.
	MaxMessageBytes int64
}

// DefaultConfig mirrors the ports exposed by the container template.
func DefaultConfig() Config {
	return Config{
		WSAddr:          ":8080",
		HealthAddr:      ":8081",
		MaxMessageBytes: wsAdapter.DefaultReadLimit,
	}
}

// ErrAlreadyStarted is returned when Start is called twice.
var ErrAlreadyStarted = errors.New("service already started")

// Service is an owned handle over the echo service listeners.
type Service struct {
	cfg            Config
	logger         *slog.Logger
	hooks          domain.ConnectionHooks
	metricsHandler http.Handler

	mu        sync.Mutex
	started   bool
	listeners []*listener // shutdown order
}

type listener struct {
	name string
	srv  *http.Server
	ln   net.Listener
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithHooks registers connection hooks on the echo responder.
func WithHooks(hooks domain.ConnectionHooks) Option {
	return func(s *Service) {
		s.hooks = s.hooks.Merge(hooks)
	}
}

// WithMetricsHandler sets the handler served on the metrics listener.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Service) {
		s.metricsHandler = h
	}
}

// New creates a Service. Nothing is bound until Start or Run.
func New(cfg Config, opts ...Option) *Service {
	s := &Service{
		cfg:    cfg,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start binds every listener. Addresses may use port 0.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return ErrAlreadyStarted
	}

	echo := wsAdapter.NewHandler(
		wsAdapter.WithLogger(s.logger),
		wsAdapter.WithHooks(s.hooks),
		wsAdapter.WithReadLimit(s.cfg.MaxMessageBytes),
	)
	binds := []struct {
		name    string
		addr    string
		handler http.Handler
	}{
		{"message", s.cfg.WSAddr, echo},
		{"liveness", s.cfg.HealthAddr, httpAdapter.NewHealthHandler(httpAdapter.WithLogger(s.logger))},
	}
	if s.cfg.MetricsAddr != "" {
		h := s.metricsHandler
		if h == nil {
			h = httpAdapter.NewMetricsHandler(prometheus.DefaultGatherer, httpAdapter.WithLogger(s.logger))
		}
		binds = append(binds, struct {
			name    string
			addr    string
			handler http.Handler
		}{"metrics", s.cfg.MetricsAddr, h})
	}

	var lc net.ListenConfig
	listeners := make([]*listener, 0, len(binds))
	for _, b := range binds {
		ln, err := lc.Listen(ctx, "tcp", b.addr)
		if err != nil {
			for _, l := range listeners {
				l.ln.Close()
			}
			return fmt.Errorf("failed to bind %s listener on %s: %w", b.name, b.addr, err)
		}
		listeners = append(listeners, &listener{
			name: b.name,
			srv:  &http.Server{Handler: b.handler},
			ln:   ln,
		})
	}

	s.listeners = listeners
	s.started = true
	return nil
}

// WSAddr returns the bound message listener address, or "" before Start.
func (s *Service) WSAddr() string { return s.addr("message") }

// HealthAddr returns the bound liveness listener address, or "" before Start.
func (s *Service) HealthAddr() string { return s.addr("liveness") }

// MetricsAddr returns the bound metrics listener address, or "" when disabled.
func (s *Service) MetricsAddr() string { return s.addr("metrics") }

func (s *Service) addr(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.listeners {
		if l.name == name {
			return l.ln.Addr().String()
		}
	}
	return ""
}

// Run serves until ctx is canceled, then shuts the listeners down in order.
// It returns nil after a requested shutdown and the listener error if one
// fails first.
func (s *Service) Run(ctx context.Context) error {
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()
	if !started {
		if err := s.Start(ctx); err != nil {
			return err
		}
	}

	s.mu.Lock()
	listeners := s.listeners
	s.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	for _, l := range listeners {
		l := l
		g.Go(func() error {
			s.logger.Info("listener started", "listener", l.name, "addr", l.ln.Addr().String())
			if err := l.srv.Serve(l.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("%s listener: %w", l.name, err)
			}
			return nil
		})
	}

	<-gctx.Done()
	if ctx.Err() != nil {
		s.logger.Info("shutdown requested, closing listeners")
	}
	shutdownErr := s.shutdown(context.WithoutCancel(ctx), listeners)

	if err := g.Wait(); err != nil {
		return err
	}
	return shutdownErr
}

// shutdown closes listeners one at a time, each fully before the next.
func (s *Service) shutdown(ctx context.Context, listeners []*listener) error {
	var errs []error
	for _, l := range listeners {
		if err := l.srv.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s listener: %w", l.name, err))
			continue
		}
		// Serve may not have tracked the listener yet.
		if err := l.ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			errs = append(errs, fmt.Errorf("%s listener: %w", l.name, err))
			continue
		}
		s.logger.Info("listener closed", "listener", l.name)
	}
	return errors.Join(errs...)
}
