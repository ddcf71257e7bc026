// Package engine drives a set of automata through a single dispatch point.
package engine

import (
	"errors"
	"fmt"

	"automata/internal/core"
)

// ErrNoSims is returned when an engine is built without any automaton.
var ErrNoSims = errors.New("engine: no simulations")

// Engine owns several automata, one of which is selected and advanced by
// Update. It is not safe for concurrent use.
type Engine struct {
	sims     []core.Sim
	selected int

	paused   bool
	stepOnce bool
	ticks    uint64
	seed     int64
}

// New returns an engine over sims with the first one selected. Every sim is
// reset with seed.
func New(seed int64, sims ...core.Sim) (*Engine, error) {
	if len(sims) == 0 {
		return nil, ErrNoSims
	}
	e := &Engine{sims: sims, seed: seed}
	for _, s := range sims {
		s.Reset(seed)
	}
	return e, nil
}

// FromRegistry constructs the named sims from the core registry, passing
// params to each factory.
func FromRegistry(seed int64, params map[string]string, names ...string) (*Engine, error) {
	sims := make([]core.Sim, 0, len(names))
	for _, name := range names {
		factory, ok := core.Sims()[name]
		if !ok {
			return nil, fmt.Errorf("engine: unknown sim %q", name)
		}
		s, err := factory(params)
		if err != nil {
			return nil, fmt.Errorf("engine: build %s: %w", name, err)
		}
		sims = append(sims, s)
	}
	return New(seed, sims...)
}

// Sims returns the owned automata in selection order.
func (e *Engine) Sims() []core.Sim { return e.sims }

// Selected returns the active automaton.
func (e *Engine) Selected() core.Sim { return e.sims[e.selected] }

// SelectedIndex returns the position of the active automaton.
func (e *Engine) SelectedIndex() int { return e.selected }

// Select activates sim i, clamped to the valid range. The tick counter
// restarts for the new selection.
func (e *Engine) Select(i int) {
	if i < 0 {
		i = 0
	}
	if i >= len(e.sims) {
		i = len(e.sims) - 1
	}
	if i != e.selected {
		e.selected = i
		e.ticks = 0
	}
}

// Next selects the following automaton, wrapping around.
func (e *Engine) Next() { e.Select((e.selected + 1) % len(e.sims)) }

// Paused reports whether Update is suspended.
func (e *Engine) Paused() bool { return e.paused }

// SetPaused suspends or resumes stepping.
func (e *Engine) SetPaused(p bool) { e.paused = p }

// TogglePause flips the paused flag.
func (e *Engine) TogglePause() { e.paused = !e.paused }

// StepOnce makes the next Update advance even while paused.
func (e *Engine) StepOnce() { e.stepOnce = true }

// Seed returns the seed of the last reset.
func (e *Engine) Seed() int64 { return e.seed }

// Reset reseeds the active automaton.
func (e *Engine) Reset(seed int64) {
	e.seed = seed
	e.Selected().Reset(seed)
	e.stepOnce = false
	e.ticks = 0
}

// Ticks counts the steps taken by the active automaton since its last reset
// or selection.
func (e *Engine) Ticks() uint64 { return e.ticks }

// Population returns the counters of the active automaton.
func (e *Engine) Population() core.Population { return e.Selected().Population() }

// Update advances the active automaton by one tick unless paused. It reports
// whether a step happened.
func (e *Engine) Update() bool {
	if e.paused && !e.stepOnce {
		return false
	}
	e.stepOnce = false
	e.Selected().Step()
	e.ticks++
	return true
}
