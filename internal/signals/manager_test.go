//go:build unix

package signals

import (
	"context"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_CancelsOnSignal(t *testing.T) {
	sm := NewManagerFor(context.Background(), syscall.SIGUSR1)
	defer sm.Stop()

	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGUSR1))

	select {
	case <-sm.Context().Done():
	case <-time.After(2 * time.Second):
		t.Fatal("context not canceled by signal")
	}
}

func TestManager_Stop(t *testing.T) {
	sm := NewManager(context.Background())
	sm.Stop()
	assert.Error(t, sm.Context().Err())
}
