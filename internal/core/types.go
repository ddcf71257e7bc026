package core

import "sort"

// Population holds the per-tick organism counters shown to the user.
type Population struct {
	Predators int `json:"predators"`
	Prey      int `json:"prey"`
	Living    int `json:"living"`
}

// Sim defines the minimal contract a cellular automaton must implement.
type Sim interface {
	Name() string
	Dims() Dims
	Reset(seed int64)
	Step()
	Population() Population
}

// Painter is implemented by 2D sims that can render themselves into an RGBA
// pixel buffer of Dims().W*Dims().H*4 bytes.
type Painter interface {
	FillRGBA(buf []byte)
}

// DirtyTracker is implemented by sims that report which cells changed since
// the last ClearDirty call.
type DirtyTracker interface {
	Dirty() []Coord
	ClearDirty()
}

// Factory constructs a Sim using an optional configuration map.
type Factory func(cfg map[string]string) (Sim, error)

var sims = map[string]Factory{}

// Register adds a simulation factory under the provided name.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	sims[name] = f
}

// Sims exposes the registry of available simulation factories.
func Sims() map[string]Factory {
	return sims
}

// SimNames returns the registered names in sorted order.
func SimNames() []string {
	names := make([]string, 0, len(sims))
	for name := range sims {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
