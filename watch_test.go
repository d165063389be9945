package modelroute_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mr "github.com/jigyokei-ai/modelroute"
	"github.com/jigyokei-ai/modelroute/provider/mock"
)

const watchConfigV1 = `
registry:
  - id: model-a
    capabilities: [reasoning]
  - id: model-b
    capabilities: [reasoning]
tiers:
  reasoning: [model-a, model-b]
`

const watchConfigV2 = `
registry:
  - id: model-a
    capabilities: [reasoning]
  - id: model-b
    capabilities: [reasoning]
tiers:
  reasoning: [model-b, model-a]
`

func TestWatchConfig_ReloadsTierTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models.yaml")
	require.NoError(t, os.WriteFile(path, []byte(watchConfigV1), 0o644))

	cfg, err := mr.LoadConfig(path)
	require.NoError(t, err)
	_, table, err := cfg.Build()
	require.NoError(t, err)

	r, err := mr.NewRouter(table, mock.New())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- r.WatchConfig(ctx, path) }()

	// Give the watcher a moment to register before touching the file.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(watchConfigV2), 0o644))

	deadline := time.After(5 * time.Second)
	for {
		seq, ok := r.CurrentTiers().Sequence(mr.CategoryReasoning)
		require.True(t, ok)
		if seq[0].ID == "model-b" {
			break
		}
		select {
		case <-deadline:
			t.Fatal("tier table was not reloaded")
		case <-time.After(50 * time.Millisecond):
		}
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestWatchConfig_KeepsTableOnBadReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models.yaml")
	require.NoError(t, os.WriteFile(path, []byte(watchConfigV1), 0o644))

	cfg, err := mr.LoadConfig(path)
	require.NoError(t, err)
	_, table, err := cfg.Build()
	require.NoError(t, err)

	r, err := mr.NewRouter(table, mock.New())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- r.WatchConfig(ctx, path) }()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("tiers: {reasoning: [ghost]}"), 0o644))
	time.Sleep(300 * time.Millisecond)

	seq, ok := r.CurrentTiers().Sequence(mr.CategoryReasoning)
	require.True(t, ok)
	assert.Equal(t, "model-a", seq[0].ID)

	cancel()
	<-done
}
