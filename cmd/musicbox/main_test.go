package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/musicbox-realtime/internal/config"
	"github.com/aretw0/musicbox-realtime/pkg/adapters/redis"
	"github.com/aretw0/musicbox-realtime/pkg/archive"
	"github.com/aretw0/musicbox-realtime/pkg/domain"
	"github.com/aretw0/musicbox-realtime/pkg/templates"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestPackageCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bundle.zip")

	out, err := run(t, "package", "--output", path)
	require.NoError(t, err)

	assert.Contains(t, out, "Created "+path)
	assert.Contains(t, out, "docker build -t music-box-realtime .")
	assert.NoError(t, archive.Verify(path, templates.Default()))
}

func TestInspectCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bundle.zip")
	_, err := run(t, "package", "-o", path)
	require.NoError(t, err)

	out, err := run(t, "inspect", path)
	require.NoError(t, err)
	for _, name := range templates.Names() {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "matches the template set")
}

func TestInspectCommand_Mismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "other.zip")
	_, err := archive.NewBuilder().Build(context.Background(), []domain.TemplateFile{{Name: "x", Content: "y"}}, path)
	require.NoError(t, err)

	_, err = run(t, "inspect", path)
	assert.ErrorIs(t, err, domain.ErrArchiveMismatch)
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "musicbox version "))
}

func TestSessionsCommand(t *testing.T) {
	mr := miniredis.RunT(t)
	t.Setenv("MUSICBOX_SESSIONS_BACKEND", "redis")
	t.Setenv("MUSICBOX_SESSIONS_REDIS_ADDR", mr.Addr())

	store := redis.New(mr.Addr(), "", 0)
	defer store.Close()
	require.NoError(t, store.Save(context.Background(), domain.ClientSession{
		ID: "client-1", RemoteAddr: "10.1.1.1:4000", ConnectedAt: time.Now(),
	}))

	out, err := run(t, "sessions")
	require.NoError(t, err)
	assert.Contains(t, out, "client-1")
	assert.Contains(t, out, "10.1.1.1:4000")
}

func TestSessionsCommand_RequiresRedis(t *testing.T) {
	t.Setenv("MUSICBOX_SESSIONS_BACKEND", "memory")
	_, err := run(t, "sessions")
	assert.Error(t, err)
}

func TestSessionRefresh(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.SessionsConfig
		want time.Duration
	}{
		{"Redis With TTL", config.SessionsConfig{Backend: config.BackendRedis, Redis: config.RedisConfig{TTL: time.Minute}}, 30 * time.Second},
		{"Redis Without TTL", config.SessionsConfig{Backend: config.BackendRedis}, 0},
		{"Memory", config.SessionsConfig{Backend: config.BackendMemory, Redis: config.RedisConfig{TTL: time.Minute}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sessionRefresh(tt.cfg))
		})
	}
}
