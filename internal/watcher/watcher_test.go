package watcher

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/textstitch/textstitch/internal/logging"
)

func newTestWatcher(t *testing.T, extensions []string) *Watcher {
	t.Helper()
	w, err := New(extensions, 50*time.Millisecond, logging.New(io.Discard, "error", false))
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })
	return w
}

func TestWatch_EmitsCreatedFile(t *testing.T) {
	dir := t.TempDir()
	w := newTestWatcher(t, []string{".txt"})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	events, err := w.Watch(ctx, dir)
	require.NoError(t, err)

	path := filepath.Join(dir, "new.txt")
	require.NoError(t, os.WriteFile(path, []byte("content"), 0o644))

	select {
	case got := <-events:
		assert.Equal(t, path, got)
	case <-ctx.Done():
		t.Fatal("timeout waiting for event")
	}
}

func TestWatch_DebouncesWriteBursts(t *testing.T) {
	dir := t.TempDir()
	w := newTestWatcher(t, []string{"txt"})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	events, err := w.Watch(ctx, dir)
	require.NoError(t, err)

	path := filepath.Join(dir, "burst.txt")
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("v"), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case got := <-events:
		assert.Equal(t, path, got)
	case <-ctx.Done():
		t.Fatal("timeout waiting for event")
	}

	// The burst collapses into a single emission
	select {
	case extra := <-events:
		t.Fatalf("unexpected second event for %s", extra)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatch_FiltersByExtension(t *testing.T) {
	dir := t.TempDir()
	w := newTestWatcher(t, []string{".txt"})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	events, err := w.Watch(ctx, dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "data.json"), []byte("{}"), 0o644))

	select {
	case path := <-events:
		t.Fatalf("should not receive event for %s", path)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatch_ChannelClosesOnCancel(t *testing.T) {
	dir := t.TempDir()
	w := newTestWatcher(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	events, err := w.Watch(ctx, dir)
	require.NoError(t, err)

	cancel()

	select {
	case _, ok := <-events:
		assert.False(t, ok, "channel should be closed")
	case <-time.After(time.Second):
		t.Fatal("channel did not close")
	}
}

func TestWatch_CancelWhileTimersFire(t *testing.T) {
	// Cancelling right as debounce timers expire must not panic; the
	// event loop alone owns the output channel.
	for i := 0; i < 20; i++ {
		dir := t.TempDir()
		w, err := New(nil, time.Millisecond, logging.New(io.Discard, "error", false))
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		events, err := w.Watch(ctx, dir)
		require.NoError(t, err)

		for j := 0; j < 32; j++ {
			name := filepath.Join(dir, "f"+strconv.Itoa(j)+".txt")
			require.NoError(t, os.WriteFile(name, []byte("x"), 0o644))
		}

		time.Sleep(time.Millisecond)
		cancel()

		// Drain until close; any late timer send would have crashed here
		deadline := time.After(time.Second)
		for open := true; open; {
			select {
			case _, open = <-events:
			case <-deadline:
				t.Fatal("channel did not close")
			}
		}
		require.NoError(t, w.Stop())
	}
}

func TestWatch_MissingDirectory(t *testing.T) {
	w := newTestWatcher(t, nil)

	_, err := w.Watch(context.Background(), filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}
