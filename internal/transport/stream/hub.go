// Package stream broadcasts a voxel mesh and population counters to websocket
// observers.
package stream

import (
	"encoding/json"
	"sync"
	"sync/atomic"

	"automata/internal/core"
	"automata/internal/voxel"
)

// Hub fans frames out to subscribed clients. Publish must be called from the
// goroutine that owns the mesh; everything else is safe for concurrent use.
type Hub struct {
	grid Grid
	tick atomic.Uint64

	join chan *client

	mu      sync.Mutex
	clients map[string]*client

	dropped atomic.Uint64
}

type client struct {
	id  string
	out chan []byte
}

// NewHub returns a hub describing grid.
func NewHub(grid Grid) *Hub {
	return &Hub{
		grid:    grid,
		join:    make(chan *client, 64),
		clients: map[string]*client{},
	}
}

// GridFor describes mesh as streamed for sim.
func GridFor(sim string, mesh *voxel.Mesh) Grid {
	d := mesh.Dims()
	return Grid{
		Sim:             sim,
		Width:           d.W,
		Height:          d.H,
		Depth:           d.D,
		CellSize:        mesh.CellSize(),
		Normals:         mesh.FloatsPerVertex() == voxel.FloatsPerVertexNormals,
		FloatsPerVertex: mesh.FloatsPerVertex(),
	}
}

// Bootstrap returns the current bootstrap document.
func (h *Hub) Bootstrap() BootstrapResponse {
	return BootstrapResponse{ProtocolVersion: Version, Tick: h.tick.Load(), Grid: h.grid}
}

// Clients returns the number of admitted clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Dropped returns how many frames were discarded for slow clients.
func (h *Hub) Dropped() uint64 { return h.dropped.Load() }

// Publish sends a TICK frame to every admitted client, then admits pending
// subscribers with a MESH_FULL frame of the current mesh. deltas is what
// mesh.Deltas returned for this tick.
func (h *Hub) Publish(mesh *voxel.Mesh, tick uint64, pop core.Population, deltas []voxel.Delta) error {
	h.tick.Store(tick)

	msg := TickMsg{
		Type:            TypeTick,
		ProtocolVersion: Version,
		Tick:            tick,
		Population:      pop,
		Deltas:          make([]CellMsg, 0, len(deltas)),
	}
	for _, d := range deltas {
		msg.Deltas = append(msg.Deltas, cellMsg(d))
	}
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	h.mu.Lock()
	for _, c := range h.clients {
		h.send(c, b)
	}
	h.mu.Unlock()

	return h.Admit(mesh, tick)
}

// Admit admits pending subscribers without publishing a tick.
func (h *Hub) Admit(mesh *voxel.Mesh, tick uint64) error {
	var full []byte
	for {
		select {
		case c := <-h.join:
			if full == nil {
				b, err := json.Marshal(meshFull(mesh, tick))
				if err != nil {
					return err
				}
				full = b
			}
			h.send(c, full)
			h.mu.Lock()
			h.clients[c.id] = c
			h.mu.Unlock()
		default:
			return nil
		}
	}
}

func (h *Hub) send(c *client, b []byte) {
	select {
	case c.out <- b:
	default:
		h.dropped.Add(1)
	}
}

func (h *Hub) subscribe(c *client) bool {
	select {
	case h.join <- c:
		return true
	default:
		return false
	}
}

func (h *Hub) leave(id string) {
	h.mu.Lock()
	delete(h.clients, id)
	h.mu.Unlock()
}
