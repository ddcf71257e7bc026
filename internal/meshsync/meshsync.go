// Package meshsync mirrors a predator/prey world into a voxel mesh.
package meshsync

import (
	"fmt"

	"automata/internal/core"
	"automata/internal/sims/predprey"
	"automata/internal/voxel"
)

// Sync keeps a mesh in step with a world's occupied cells.
type Sync struct {
	world *predprey.World
	mesh  *voxel.Mesh
	opts  []voxel.Option
}

// New builds a mesh covering the world and seeds it with every occupied cell.
func New(world *predprey.World, cellSize float32, opts ...voxel.Option) (*Sync, error) {
	mesh, err := voxel.New(world.Dims(), cellSize, opts...)
	if err != nil {
		return nil, err
	}
	s := &Sync{world: world, mesh: mesh, opts: opts}
	if err := s.Seed(); err != nil {
		return nil, err
	}
	return s, nil
}

// Mesh returns the mirrored mesh.
func (s *Sync) Mesh() *voxel.Mesh { return s.mesh }

// World returns the mirrored world.
func (s *Sync) World() *predprey.World { return s.world }

// Seed adds every occupied world cell that the mesh does not have yet and
// clears the world's dirty list.
func (s *Sync) Seed() error {
	var err error
	s.world.Occupied(func(c core.Coord, o predprey.Organism) {
		if err != nil {
			return
		}
		if _, addErr := s.mesh.AddCell(uint8(o.Type), s.world.ColorOf(o), c); addErr != nil {
			err = fmt.Errorf("seed %v: %w", c, addErr)
		}
	})
	s.world.ClearDirty()
	return err
}

// Apply pushes the world's dirty cells into the mesh and clears them. It
// returns the number of cells applied.
func (s *Sync) Apply() (int, error) {
	dirty := s.world.Dirty()
	for _, c := range dirty {
		o, err := s.world.Cell(c)
		if err != nil {
			return 0, err
		}
		if err := s.apply(c, o); err != nil {
			return 0, fmt.Errorf("apply %v: %w", c, err)
		}
	}
	n := len(dirty)
	s.world.ClearDirty()
	return n, nil
}

func (s *Sync) apply(c core.Coord, o predprey.Organism) error {
	if o.Type == predprey.Empty {
		_, err := s.mesh.RemoveCell(c)
		return err
	}
	col := s.world.ColorOf(o)
	if s.mesh.HasCell(c) {
		_, err := s.mesh.UpdateCell(uint8(o.Type), col, c)
		return err
	}
	_, err := s.mesh.AddCell(uint8(o.Type), col, c)
	return err
}

// Step advances the world one tick and applies its changes to the mesh.
func (s *Sync) Step() error {
	s.world.Step()
	_, err := s.Apply()
	return err
}

// Reset reseeds the world and rebuilds the mesh from scratch.
func (s *Sync) Reset(seed int64) error {
	s.world.Reset(seed)
	mesh, err := voxel.New(s.world.Dims(), s.mesh.CellSize(), s.opts...)
	if err != nil {
		return err
	}
	s.mesh = mesh
	return s.Seed()
}
