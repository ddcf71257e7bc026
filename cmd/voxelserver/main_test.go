package main

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"automata/internal/config"
	"automata/internal/core"
	"automata/internal/sims/predprey"
	"automata/internal/transport/stream"
)

func smallConfig() config.Run {
	cfg := config.Default()
	cfg.Sim = "predprey3d"
	cfg.Params = map[string]any{"w": 8, "h": 8, "d": 8}
	return cfg
}

func TestLoopStopsAtTickLimitAndKeepsMeshInSync(t *testing.T) {
	sync, err := buildSync(smallConfig())
	require.NoError(t, err)
	hub := stream.NewHub(stream.GridFor(sync.World().Name(), sync.Mesh()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop(ctx, sync, hub, 0, 5, log.New(io.Discard, "", 0)) }()

	require.Eventually(t, func() bool { return hub.Bootstrap().Tick == 5 }, 5*time.Second, 5*time.Millisecond)
	cancel()
	require.ErrorIs(t, <-done, context.Canceled)

	world := sync.World()
	assert.Equal(t, uint64(5), world.Tick())
	present := 0
	world.Occupied(func(_ core.Coord, _ predprey.Organism) { present++ })
	assert.Equal(t, present, sync.Mesh().Len())
}

func TestBuildSyncRejects2DOnlySims(t *testing.T) {
	cfg := smallConfig()
	cfg.Sim = "evolution"
	_, err := buildSync(cfg)
	assert.Error(t, err)
}
