package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/musicbox-realtime/internal/logging"
	"github.com/aretw0/musicbox-realtime/pkg/domain"
	"github.com/aretw0/musicbox-realtime/pkg/ports"
)

// DefaultTimeout bounds each store call made on behalf of a connection.
const DefaultTimeout = 2 * time.Second

// Recorder writes presence records for connections.
//
// Store calls run on a tracker goroutine per connection, never on the
// connection goroutine, so a slow store cannot delay the echo protocol.
// Calls for one connection are serialized: Save always lands before Delete.
type Recorder struct {
	store   ports.SessionStore
	logger  *slog.Logger
	timeout time.Duration
	refresh time.Duration

	mu     sync.Mutex
	active map[string]chan struct{}
	wg     sync.WaitGroup
}

// Option configures the Recorder.
type Option func(*Recorder)

// WithLogger configures a logger for store failures.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recorder) {
		r.logger = logger
	}
}

// WithTimeout sets the per-call store timeout.
func WithTimeout(d time.Duration) Option {
	return func(r *Recorder) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithRefresh re-saves the record of every open connection at interval d.
// Use it with stores that expire records, so long-lived clients stay listed.
// Zero disables refreshing.
func WithRefresh(d time.Duration) Option {
	return func(r *Recorder) {
		if d >= 0 {
			r.refresh = d
		}
	}
}

// NewRecorder creates a Recorder backed by store.
func NewRecorder(store ports.SessionStore, opts ...Option) *Recorder {
	r := &Recorder{
		store:   store,
		logger:  logging.NewNop(), // Default to no-op
		timeout: DefaultTimeout,
		active:  make(map[string]chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Hooks returns the connection hooks that drive the recorder.
// Both hooks return immediately.
func (r *Recorder) Hooks() domain.ConnectionHooks {
	return domain.ConnectionHooks{
		OnConnect:    r.onConnect,
		OnDisconnect: r.onDisconnect,
	}
}

// Close removes the records of connections that are still open and waits
// for every pending store call. Each call is bounded by the store timeout.
func (r *Recorder) Close() {
	r.mu.Lock()
	for id, done := range r.active {
		close(done)
		delete(r.active, id)
	}
	r.mu.Unlock()
	r.wg.Wait()
}

func (r *Recorder) onConnect(ctx context.Context, e *domain.ConnectionEvent) {
	session := domain.ClientSession{
		ID:          e.ClientID,
		RemoteAddr:  e.RemoteAddr,
		ConnectedAt: e.Timestamp.UTC(),
	}
	done := make(chan struct{})

	r.mu.Lock()
	if prev, ok := r.active[session.ID]; ok {
		close(prev)
	}
	r.active[session.ID] = done
	r.mu.Unlock()

	r.wg.Add(1)
	go r.track(context.WithoutCancel(ctx), session, done)
}

func (r *Recorder) onDisconnect(_ context.Context, e *domain.ConnectionEvent) {
	r.mu.Lock()
	done, ok := r.active[e.ClientID]
	delete(r.active, e.ClientID)
	r.mu.Unlock()

	if ok {
		close(done)
	}
}

// track saves the record, refreshes it while the connection is open and
// deletes it once done is closed.
func (r *Recorder) track(ctx context.Context, session domain.ClientSession, done <-chan struct{}) {
	defer r.wg.Done()

	r.save(ctx, session)

	var tick <-chan time.Time
	if r.refresh > 0 {
		ticker := time.NewTicker(r.refresh)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-done:
			r.remove(ctx, session.ID)
			return
		case <-tick:
			r.save(ctx, session)
		}
	}
}

func (r *Recorder) save(ctx context.Context, session domain.ClientSession) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.store.Save(ctx, session); err != nil {
		r.logger.Warn("session: failed to record connection", "client_id", session.ID, "error", err)
	}
}

func (r *Recorder) remove(ctx context.Context, id string) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.store.Delete(ctx, id); err != nil {
		r.logger.Warn("session: failed to remove connection", "client_id", id, "error", err)
	}
}
