package predprey

import (
	"errors"
	"fmt"
	"image/color"

	"automata/internal/core"
)

// ErrUnknownType is returned by SetCell for a Type outside Empty, Predator
// and Prey.
var ErrUnknownType = errors.New("predprey: unknown organism type")

// World is a predator/prey automaton over a 2D dense, 3D dense or 3D sparse
// grid. It is not safe for concurrent use.
type World struct {
	cfg   Config
	dims  core.Dims
	rules Rules
	store Store
	rng   *core.RNG

	// pick chooses the neighbour sampled by the cell at c.
	pick func(c core.Coord) core.Coord

	dirty  []core.Coord
	marked map[core.Coord]struct{}

	pop  core.Population
	tick uint64
}

// New validates cfg and returns a world. The grid is filled on the first
// Reset; call Reset(0) to use the configured seed.
func New(cfg Config) (*World, error) {
	dims, err := core.NewDims(cfg.Width, cfg.Height, cfg.Depth)
	if err != nil {
		return nil, err
	}
	if cfg.Sparse && dims.Is2D() {
		return nil, &core.ConfigError{Field: "sparse", Reason: "sparse storage requires a 3D grid"}
	}
	if cfg.Params.MaxHealth <= 0 {
		return nil, &core.ConfigError{Field: "max_health", Reason: fmt.Sprintf("must be positive, got %d", cfg.Params.MaxHealth)}
	}
	if cfg.Params.StartHealth < 0 {
		return nil, &core.ConfigError{Field: "start_health", Reason: fmt.Sprintf("must not be negative, got %d", cfg.Params.StartHealth)}
	}
	w := &World{
		cfg:    cfg,
		dims:   dims,
		rules:  Rules{MaxHealth: cfg.Params.MaxHealth, StartHealth: cfg.Params.StartHealth},
		rng:    core.NewRNG(cfg.Seed),
		marked: map[core.Coord]struct{}{},
	}
	w.pick = w.randomNeighbour
	w.store = w.newStore()
	return w, nil
}

func (w *World) newStore() Store {
	if w.cfg.Sparse {
		return newSparseStore(w.dims)
	}
	return newDenseStore(w.dims)
}

// Name returns the simulation identifier.
func (w *World) Name() string {
	if w.dims.Is2D() {
		return "predprey"
	}
	return "predprey3d"
}

// Dims returns the validated grid extent.
func (w *World) Dims() core.Dims { return w.dims }

// Config returns the active configuration.
func (w *World) Config() Config { return w.cfg }

// Tick returns the number of completed update passes since Reset.
func (w *World) Tick() uint64 { return w.tick }

// Population returns the counters computed at the end of the last pass.
func (w *World) Population() core.Population { return w.pop }

// Reset clears the grid and, when Fill is set, repopulates it using the
// weighted type distribution. A zero seed selects the configured seed.
func (w *World) Reset(seed int64) {
	if seed == 0 {
		seed = w.cfg.Seed
	}
	w.rng = core.NewRNG(seed)
	w.store = w.newStore()
	w.ClearDirty()
	w.tick = 0

	if w.cfg.Fill {
		p := w.cfg.Params
		weights := []int{p.PredatorWeight, p.PreyWeight, p.EmptyWeight}
		types := []Type{Predator, Prey, Empty}
		w.dims.Each(func(c core.Coord) {
			i := w.rng.Weighted(weights)
			if i < 0 || types[i] == Empty {
				return
			}
			w.store.Set(c, NewOrganism(types[i], p.StartHealth))
		})
	}
	w.recount()
}

// Resume recomputes the population after cells were written with SetCell,
// forgets the dirty list and sets the tick counter.
func (w *World) Resume(tick uint64) {
	w.recount()
	w.ClearDirty()
	w.tick = tick
}

// Cell returns the organism at c.
func (w *World) Cell(c core.Coord) (Organism, error) {
	if !w.dims.Contains(c) {
		return Organism{}, core.OutOfBounds(c, w.dims)
	}
	return w.store.Get(c), nil
}

// SetCell overwrites the organism at c and marks it dirty. Population counters
// are refreshed on the next Step.
func (w *World) SetCell(c core.Coord, o Organism) error {
	if !w.dims.Contains(c) {
		return core.OutOfBounds(c, w.dims)
	}
	if o.Type > Prey {
		return fmt.Errorf("%w %d at %v", ErrUnknownType, o.Type, c)
	}
	o = NewOrganism(o.Type, o.Health)
	if w.store.Get(c) != o {
		w.store.Set(c, o)
		w.markDirty(c)
	}
	return nil
}

// Occupied visits every non-empty cell in ascending index order.
func (w *World) Occupied(fn func(c core.Coord, o Organism)) { w.store.Occupied(fn) }

// ColorOf returns the display color of o under the active rule constants.
func (w *World) ColorOf(o Organism) color.RGBA { return o.Color(w.rules.MaxHealth) }

// Step advances the world by one rule-application pass over every cell.
func (w *World) Step() {
	w.dims.Each(w.update)
	w.recount()
	w.tick++
}

func (w *World) update(c core.Coord) {
	self := w.store.Get(c)
	if self.Type == Empty {
		return
	}
	n := w.pick(c)
	if !w.dims.Contains(n) {
		// Edge cells sample outside the grid and sit this pass out.
		return
	}
	if n == c {
		next, _ := w.rules.Apply(self, self)
		w.write(c, self, next)
		return
	}
	other := w.store.Get(n)
	a, b := w.rules.Apply(self, other)
	w.write(c, self, a)
	w.write(n, other, b)
}

func (w *World) write(c core.Coord, before, after Organism) {
	if before == after {
		return
	}
	w.store.Set(c, after)
	w.markDirty(c)
}

func (w *World) randomNeighbour(c core.Coord) core.Coord {
	n := core.Coord{X: c.X + w.rng.Offset(), Y: c.Y + w.rng.Offset(), Z: c.Z}
	if !w.dims.Is2D() {
		n.Z += w.rng.Offset()
	}
	return n
}

func (w *World) recount() {
	var pop core.Population
	w.store.Occupied(func(_ core.Coord, o Organism) {
		switch o.Type {
		case Predator:
			pop.Predators++
		case Prey:
			pop.Prey++
		}
	})
	pop.Living = pop.Predators + pop.Prey
	w.pop = pop
}

func (w *World) markDirty(c core.Coord) {
	if _, ok := w.marked[c]; ok {
		return
	}
	w.marked[c] = struct{}{}
	w.dirty = append(w.dirty, c)
}

// Dirty returns the coordinates changed since the last ClearDirty, in the
// order they first changed.
func (w *World) Dirty() []core.Coord { return w.dirty }

// ClearDirty forgets the changed coordinates.
func (w *World) ClearDirty() {
	w.dirty = w.dirty[:0]
	clear(w.marked)
}

// FillRGBA paints the z=0 layer into buf (4 bytes per cell, row-major).
func (w *World) FillRGBA(buf []byte) {
	maxHealth := w.rules.MaxHealth
	for y := 0; y < w.dims.H; y++ {
		for x := 0; x < w.dims.W; x++ {
			base := (y*w.dims.W + x) * 4
			if base+3 >= len(buf) {
				return
			}
			col := w.store.Get(core.Coord{X: x, Y: y}).Color(maxHealth)
			buf[base+0] = col.R
			buf[base+1] = col.G
			buf[base+2] = col.B
			buf[base+3] = col.A
		}
	}
}

func init() {
	core.Register("predprey", func(cfg map[string]string) (core.Sim, error) {
		w, err := New(FromMap(DefaultConfig(), cfg))
		if err != nil {
			return nil, err
		}
		return w, nil
	})
	core.Register("predprey3d", func(cfg map[string]string) (core.Sim, error) {
		w, err := New(FromMap(Default3DConfig(), cfg))
		if err != nil {
			return nil, err
		}
		return w, nil
	})
}
