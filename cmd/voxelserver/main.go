// Command voxelserver runs a 3D predator/prey world, mirrors it into a voxel
// mesh and streams mesh deltas to websocket observers.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"automata/internal/config"
	"automata/internal/core"
	"automata/internal/meshsync"
	"automata/internal/sims/predprey"
	"automata/internal/transport/stream"
	"automata/internal/voxel"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML run config")
	addr := flag.String("addr", "", "listen address (overrides server.addr)")
	flag.Parse()

	logger := log.New(os.Stdout, "[voxelserver] ", log.LstdFlags|log.Lmicroseconds)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if *configPath == "" {
		cfg.Sim = "predprey3d"
		cfg.TPS = 10
		cfg.Ticks = 0
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	sync, err := buildSync(cfg)
	if err != nil {
		logger.Fatalf("build world: %v", err)
	}
	hub := stream.NewHub(stream.GridFor(sync.World().Name(), sync.Mesh()))
	srv := stream.NewServer(hub, logger)
	srv.AllowRemote = cfg.Server.AllowRemote

	httpSrv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loopDone := make(chan error, 1)
	go func() {
		loopDone <- loop(ctx, sync, hub, cfg.TPS, cfg.Ticks, logger)
	}()
	go func() {
		logger.Printf("listening on %s (sim=%s cells=%d faces=%d)", cfg.Server.Addr, sync.World().Name(), sync.Mesh().Len(), sync.Mesh().FaceCount())
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Printf("http: %v", err)
			stop()
		}
	}()

	if err := <-loopDone; err != nil && !errors.Is(err, context.Canceled) {
		logger.Printf("tick loop: %v", err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(shutdownCtx)
	logger.Printf("stopped at tick %d (dropped frames %d)", sync.World().Tick(), hub.Dropped())
}

func buildSync(cfg config.Run) (*meshsync.Sync, error) {
	factory, ok := core.Sims()[cfg.Sim]
	if !ok {
		return nil, fmt.Errorf("unknown sim %q", cfg.Sim)
	}
	sim, err := factory(cfg.ParamMap())
	if err != nil {
		return nil, err
	}
	world, ok := sim.(*predprey.World)
	if !ok {
		return nil, fmt.Errorf("sim %q cannot be meshed", cfg.Sim)
	}
	world.Reset(cfg.Seed)
	return meshsync.New(world, cfg.Server.CellSize, voxel.WithNormals(cfg.Server.Normals))
}

// loop advances the world at tps (unthrottled when zero) and publishes every
// tick. It stops after ticks steps when ticks is positive, when the world dies
// out, or when ctx is cancelled.
func loop(ctx context.Context, sync *meshsync.Sync, hub *stream.Hub, tps, ticks int, logger *log.Logger) error {
	mesh := sync.Mesh()
	var pace *core.FixedStep
	if tps > 0 {
		pace = core.NewFixedStep(tps)
	}
	idle := time.NewTicker(100 * time.Millisecond)
	defer idle.Stop()

	world := sync.World()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if ticks > 0 && world.Tick() >= uint64(ticks) || world.Population().Living == 0 {
			// Keep admitting observers so the final state stays viewable.
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-idle.C:
				if err := hub.Admit(mesh, world.Tick()); err != nil {
					return err
				}
			}
			continue
		}
		if pace != nil {
			pace.Wait()
		}
		if err := sync.Step(); err != nil {
			return err
		}
		if err := hub.Publish(mesh, world.Tick(), world.Population(), mesh.Deltas()); err != nil {
			return err
		}
		if t := world.Tick(); t%100 == 0 {
			pop := world.Population()
			logger.Printf("tick=%d predators=%d prey=%d faces=%d clients=%d", t, pop.Predators, pop.Prey, mesh.FaceCount(), hub.Clients())
		}
	}
}
