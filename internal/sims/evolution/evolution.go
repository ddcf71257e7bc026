package evolution

import (
	"fmt"

	"automata/internal/core"
)

// World is a grid of evolving organisms. Living cells wander into dead space
// and mate with genetically similar neighbours; offspring inherit a mutated
// average of their parents' genomes.
type World struct {
	cfg   Config
	dims  core.Dims
	cells []Organism
	rng   *core.RNG

	pick func(c core.Coord) core.Coord

	dirty  []core.Coord
	marked map[core.Coord]struct{}

	pop  core.Population
	tick uint64
}

// New validates cfg and returns an empty world; call Reset to populate it.
func New(cfg Config) (*World, error) {
	dims, err := core.NewDims(cfg.Width, cfg.Height, cfg.Depth)
	if err != nil {
		return nil, err
	}
	p := cfg.Params
	switch {
	case p.BaseThreshold < 0:
		return nil, &core.ConfigError{Field: "base_threshold", Reason: fmt.Sprintf("must not be negative, got %d", p.BaseThreshold)}
	case p.InitialHealth <= 0:
		return nil, &core.ConfigError{Field: "initial_health", Reason: fmt.Sprintf("must be positive, got %d", p.InitialHealth)}
	case p.Epsilon <= 0:
		return nil, &core.ConfigError{Field: "epsilon", Reason: fmt.Sprintf("must be positive, got %g", p.Epsilon)}
	case p.MutationRange < 0:
		return nil, &core.ConfigError{Field: "mutation_range", Reason: fmt.Sprintf("must not be negative, got %g", p.MutationRange)}
	}
	w := &World{
		cfg:    cfg,
		dims:   dims,
		cells:  make([]Organism, dims.Cells()),
		rng:    core.NewRNG(cfg.Seed),
		marked: map[core.Coord]struct{}{},
	}
	w.pick = w.randomNeighbour
	return w, nil
}

// Name returns the simulation identifier.
func (w *World) Name() string { return "evolution" }

// Dims returns the validated grid extent.
func (w *World) Dims() core.Dims { return w.dims }

// Tick returns the number of passes since Reset.
func (w *World) Tick() uint64 { return w.tick }

// Population reports the living count in Living.
func (w *World) Population() core.Population { return w.pop }

// Reset refills the grid. A zero seed selects the configured seed.
func (w *World) Reset(seed int64) {
	if seed == 0 {
		seed = w.cfg.Seed
	}
	w.rng = core.NewRNG(seed)
	clear(w.cells)
	w.ClearDirty()
	w.tick = 0

	if w.cfg.Fill {
		p := w.cfg.Params
		weights := []int{p.AliveWeight, p.DeadWeight}
		seedOrganism := Organism{Type: Alive, Genome: Gray(p.InitialGenome), Health: p.InitialHealth}
		w.dims.Each(func(c core.Coord) {
			if w.rng.Weighted(weights) == 0 {
				w.cells[w.dims.Index(c)] = seedOrganism
			}
		})
	}
	w.recount()
}

// Config returns the active configuration.
func (w *World) Config() Config { return w.cfg }

// Resume recomputes the population after cells were written with SetCell,
// forgets the dirty list and sets the tick counter.
func (w *World) Resume(tick uint64) {
	w.recount()
	w.ClearDirty()
	w.tick = tick
}

// Occupied visits every living cell in ascending index order.
func (w *World) Occupied(fn func(c core.Coord, o Organism)) {
	for i, o := range w.cells {
		if o.Type == Alive {
			fn(w.dims.Coord(i), o)
		}
	}
}

// Cell returns the organism at c.
func (w *World) Cell(c core.Coord) (Organism, error) {
	if !w.dims.Contains(c) {
		return Organism{}, core.OutOfBounds(c, w.dims)
	}
	return w.cells[w.dims.Index(c)], nil
}

// SetCell overwrites the organism at c. Living genomes are clamped. A cell
// that is not Alive with positive health is stored as Dead.
func (w *World) SetCell(c core.Coord, o Organism) error {
	if !w.dims.Contains(c) {
		return core.OutOfBounds(c, w.dims)
	}
	if o.Type == Alive && o.Health > 0 {
		o.Genome = o.Genome.Clamp()
	} else {
		o = Organism{}
	}
	w.set(c, o)
	return nil
}

// Step runs one pass over every cell.
func (w *World) Step() {
	w.dims.Each(w.update)
	w.recount()
	w.tick++
}

func (w *World) update(c core.Coord) {
	self := w.get(c)
	if self.Type != Alive {
		return
	}
	n := w.pick(c)
	if !w.dims.Contains(n) {
		return
	}
	// n may equal c: a ready organism is compatible with itself and
	// reproduces alone. Actor and partner then share one cell, so the final
	// write below wins and the timer and cost apply once.
	p := w.cfg.Params
	other := w.get(n)
	switch other.Type {
	case Dead:
		self.Timer++
		w.set(n, self)
		w.set(c, Organism{})
		return
	case Alive:
		if p.CanReproduce(self) && p.CanReproduce(other) {
			if p.Compatible(self, other) {
				if slot, ok := w.findDead(c, n); ok {
					w.set(slot, Organism{
						Type:   Alive,
						Genome: Mutate(self.Genome.Average(other.Genome), w.rng, p.MutationRange, p.MutationMultiplier),
						Health: p.InitialHealth,
					})
					self.Timer = 0
					other.Timer = 0
					w.set(n, other)
				}
				self = self.damage(p.ReproductionCostFor(self.Genome))
			} else {
				self = self.damage(p.IncompatibilityDamageFor(self.Genome))
			}
		}
	}
	if self.Type == Alive {
		self.Timer++
	}
	w.set(c, self)
}

// findDead returns the first dead cell around the actor, falling back to the
// partner's neighbourhood.
func (w *World) findDead(actor, partner core.Coord) (core.Coord, bool) {
	for _, centre := range [...]core.Coord{actor, partner} {
		var found core.Coord
		ok := false
		w.dims.Moore(centre, func(n core.Coord) bool {
			if w.get(n).Type == Dead {
				found, ok = n, true
				return false
			}
			return true
		})
		if ok {
			return found, true
		}
	}
	return core.Coord{}, false
}

func (w *World) get(c core.Coord) Organism { return w.cells[w.dims.Index(c)] }

func (w *World) set(c core.Coord, o Organism) {
	i := w.dims.Index(c)
	if w.cells[i] == o {
		return
	}
	// Timer ticks alone do not change the color; only mark visible changes.
	visible := w.cells[i].Type != o.Type || w.cells[i].Genome != o.Genome
	w.cells[i] = o
	if visible {
		w.markDirty(c)
	}
}

func (w *World) randomNeighbour(c core.Coord) core.Coord {
	n := core.Coord{X: c.X + w.rng.Offset(), Y: c.Y + w.rng.Offset(), Z: c.Z}
	if !w.dims.Is2D() {
		n.Z += w.rng.Offset()
	}
	return n
}

func (w *World) recount() {
	living := 0
	for _, o := range w.cells {
		if o.Type == Alive {
			living++
		}
	}
	w.pop = core.Population{Living: living}
}

func (w *World) markDirty(c core.Coord) {
	if _, ok := w.marked[c]; ok {
		return
	}
	w.marked[c] = struct{}{}
	w.dirty = append(w.dirty, c)
}

// Dirty returns the coordinates whose color changed since the last ClearDirty.
func (w *World) Dirty() []core.Coord { return w.dirty }

// ClearDirty forgets the changed coordinates.
func (w *World) ClearDirty() {
	w.dirty = w.dirty[:0]
	clear(w.marked)
}

// FillRGBA paints the z=0 layer into buf.
func (w *World) FillRGBA(buf []byte) {
	for y := 0; y < w.dims.H; y++ {
		for x := 0; x < w.dims.W; x++ {
			base := (y*w.dims.W + x) * 4
			if base+3 >= len(buf) {
				return
			}
			col := w.get(core.Coord{X: x, Y: y}).Color()
			buf[base+0] = col.R
			buf[base+1] = col.G
			buf[base+2] = col.B
			buf[base+3] = col.A
		}
	}
}

func init() {
	core.Register("evolution", func(cfg map[string]string) (core.Sim, error) {
		w, err := New(FromMap(DefaultConfig(), cfg))
		if err != nil {
			return nil, err
		}
		return w, nil
	})
}
