package predprey

import (
	"sort"

	"automata/internal/core"
)

// Store is the backing storage of a predator/prey grid. Callers only pass
// in-range coordinates.
type Store interface {
	Get(c core.Coord) Organism
	Set(c core.Coord, o Organism)
	// Occupied visits every non-empty cell in ascending index order.
	Occupied(fn func(c core.Coord, o Organism))
	Len() int
}

// denseStore keeps every slot in a flat slice.
type denseStore struct {
	dims  core.Dims
	cells []Organism
	live  int
}

func newDenseStore(d core.Dims) *denseStore {
	cells := make([]Organism, d.Cells())
	for i := range cells {
		cells[i] = EmptyCell()
	}
	return &denseStore{dims: d, cells: cells}
}

func (s *denseStore) Get(c core.Coord) Organism { return s.cells[s.dims.Index(c)] }

func (s *denseStore) Set(c core.Coord, o Organism) {
	i := s.dims.Index(c)
	if s.cells[i].Type != Empty {
		s.live--
	}
	if o.Type != Empty {
		s.live++
	}
	s.cells[i] = o
}

func (s *denseStore) Occupied(fn func(c core.Coord, o Organism)) {
	for i, o := range s.cells {
		if o.Type == Empty {
			continue
		}
		fn(s.dims.Coord(i), o)
	}
}

func (s *denseStore) Len() int { return s.live }

// sparseStore only keeps occupied coordinates; absence means empty space.
type sparseStore struct {
	dims  core.Dims
	cells map[core.Coord]Organism
}

func newSparseStore(d core.Dims) *sparseStore {
	return &sparseStore{dims: d, cells: map[core.Coord]Organism{}}
}

func (s *sparseStore) Get(c core.Coord) Organism {
	if o, ok := s.cells[c]; ok {
		return o
	}
	return EmptyCell()
}

func (s *sparseStore) Set(c core.Coord, o Organism) {
	if o.Type == Empty {
		delete(s.cells, c)
		return
	}
	s.cells[c] = o
}

func (s *sparseStore) Occupied(fn func(c core.Coord, o Organism)) {
	keys := make([]core.Coord, 0, len(s.cells))
	for c := range s.cells {
		keys = append(keys, c)
	}
	sort.Slice(keys, func(i, j int) bool {
		return s.dims.Index(keys[i]) < s.dims.Index(keys[j])
	})
	for _, c := range keys {
		fn(c, s.cells[c])
	}
}

func (s *sparseStore) Len() int { return len(s.cells) }
