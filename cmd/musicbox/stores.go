package main

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/musicbox-realtime/internal/config"
	"github.com/aretw0/musicbox-realtime/pkg/adapters/memory"
	"github.com/aretw0/musicbox-realtime/pkg/adapters/redis"
	"github.com/aretw0/musicbox-realtime/pkg/ports"
)

// openSessionStore returns the configured store, or nil for the "none" backend.
// The returned close function is always safe to call.
func openSessionStore(ctx context.Context, cfg config.SessionsConfig) (ports.SessionStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case config.BackendNone:
		return nil, noop, nil
	case config.BackendMemory:
		return memory.NewSessionStore(), noop, nil
	case config.BackendRedis:
		store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redis.WithPrefix(cfg.Redis.Prefix),
			redis.WithTTL(cfg.Redis.TTL),
		)
		if err := store.Ping(ctx); err != nil {
			store.Close()
			return nil, noop, err
		}
		return store, store.Close, nil
	}
	return nil, noop, fmt.Errorf("unknown session backend %q", cfg.Backend)
}

// sessionRefresh returns how often open sessions are re-saved: half the redis
// TTL, or zero when records never expire.
func sessionRefresh(cfg config.SessionsConfig) time.Duration {
	if cfg.Backend != config.BackendRedis || cfg.Redis.TTL <= 0 {
		return 0
	}
	return cfg.Redis.TTL / 2
}
