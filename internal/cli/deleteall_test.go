package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/projclean/projclean/internal/config"
	"github.com/projclean/projclean/internal/events"
	"github.com/projclean/projclean/internal/purge"
	"github.com/projclean/projclean/internal/walk"
)

func TestRunDeleteAll_RemovesEveryMatch(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "proj-a", "target"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "proj-a", "Cargo.toml"), nil, 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "proj-b", "target"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "proj-b", "Cargo.toml"), nil, 0o644))

	cfg, err := config.New(config.Options{RuleStrings: []string{"target@Cargo.toml"}})
	require.NoError(t, err)

	ch := make(chan events.Event, 64)
	cancel := &events.CancelFlag{}
	w := walk.New(cfg, ch, cancel)

	done := make(chan error, 1)
	go func() { done <- w.Walk(context.Background(), root) }()

	pool := purge.New(ch, cancel)

	runErrCh := make(chan error, 1)
	go func() { runErrCh <- runDeleteAll(ch, pool) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("walk did not finish in time")
	}

	select {
	case err := <-runErrCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("delete-all sink did not finish in time")
	}

	_, errA := os.Stat(filepath.Join(root, "proj-a", "target"))
	_, errB := os.Stat(filepath.Join(root, "proj-b", "target"))
	require.True(t, os.IsNotExist(errA))
	require.True(t, os.IsNotExist(errB))
}

func TestRunDeleteAll_NoMatchesReturnsImmediately(t *testing.T) {
	t.Parallel()

	ch := make(chan events.Event, 4)
	ch <- events.NewSearchDone()

	pool := purge.New(ch, &events.CancelFlag{})
	require.NoError(t, runDeleteAll(ch, pool))
}
