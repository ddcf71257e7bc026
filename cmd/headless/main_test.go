package main

import (
	"context"
	"database/sql"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"automata/internal/config"
	"automata/internal/persistence/snapshot"
)

func testConfig(t *testing.T) config.Run {
	t.Helper()
	cfg, err := config.Parse([]byte(`
sim: predprey
seed: 9
ticks: 10
params:
  w: 24
  h: 24
output:
  dir: ` + t.TempDir() + `
  snapshot_every: 4
  tick_log: true
  stats_db: stats/index.sqlite
`))
	require.NoError(t, err)
	return cfg
}

func TestRunWritesOutputs(t *testing.T) {
	cfg := testConfig(t)
	logger := log.New(io.Discard, "", 0)

	res, err := run(context.Background(), cfg, "", logger)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), res.Tick)
	// Snapshots at 4 and 8, plus the final tick.
	require.Len(t, res.Snapshots, 3)
	assert.Equal(t, snapshot.Path(res.Dir, "predprey", 10), res.Snapshots[2])

	hdr, err := snapshot.ReadHeader(res.Snapshots[0])
	require.NoError(t, err)
	assert.Equal(t, uint64(4), hdr.Tick)

	logs, err := filepath.Glob(filepath.Join(res.Dir, "ticks", "ticks-*.jsonl.zst"))
	require.NoError(t, err)
	assert.NotEmpty(t, logs)

	_, err = os.Stat(filepath.Join(cfg.Output.Dir, "stats", "index.sqlite"))
	assert.NoError(t, err)
}

func TestResumeContinuesFromSnapshot(t *testing.T) {
	cfg := testConfig(t)
	logger := log.New(io.Discard, "", 0)
	first, err := run(context.Background(), cfg, "", logger)
	require.NoError(t, err)

	cfg.Ticks = 12
	cfg.Output.StatsDB = ""
	res, err := run(context.Background(), cfg, first.Snapshots[1], logger)
	require.NoError(t, err)
	assert.Equal(t, uint64(12), res.Tick)
}

func TestResumeKeepsSnapshotSeed(t *testing.T) {
	cfg := testConfig(t)
	logger := log.New(io.Discard, "", 0)
	first, err := run(context.Background(), cfg, "", logger)
	require.NoError(t, err)
	assert.Equal(t, int64(9), first.Seed)

	cfg.Seed = 42
	cfg.Ticks = 12
	res, err := run(context.Background(), cfg, first.Snapshots[1], logger)
	require.NoError(t, err)
	assert.Equal(t, int64(9), res.Seed)
	assert.True(t, strings.HasPrefix(res.RunID, "predprey-9-"), res.RunID)

	raw, err := sql.Open("sqlite", filepath.Join(cfg.Output.Dir, "stats", "index.sqlite"))
	require.NoError(t, err)
	defer raw.Close()
	var seed int64
	require.NoError(t, raw.QueryRow(`SELECT seed FROM runs WHERE run=?`, res.RunID).Scan(&seed))
	assert.Equal(t, int64(9), seed)
}

func TestCancelledContextStopsEarly(t *testing.T) {
	cfg := testConfig(t)
	cfg.Ticks = 0
	cfg.Output = config.Output{Dir: t.TempDir()}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := run(ctx, cfg, "", log.New(io.Discard, "", 0))
	require.NoError(t, err)
	assert.Zero(t, res.Tick)
}

func TestUnknownSim(t *testing.T) {
	cfg := config.Default()
	cfg.Sim = "nope"
	_, err := run(context.Background(), cfg, "", log.New(io.Discard, "", 0))
	assert.Error(t, err)
}
