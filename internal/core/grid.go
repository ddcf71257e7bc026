package core

import (
	"fmt"
	"math"
)

// MaxCells is the dense addressing limit for a single grid.
const MaxCells = math.MaxInt32

// Coord addresses a single grid slot. It is a plain value and safe to use as a
// map key.
type Coord struct {
	X, Y, Z int
}

// Add returns the coordinate offset by d.
func (c Coord) Add(d Coord) Coord {
	return Coord{X: c.X + d.X, Y: c.Y + d.Y, Z: c.Z + d.Z}
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d,%d)", c.X, c.Y, c.Z)
}

// Dims describes the extent of a grid measured in cells. A depth of one
// denotes a 2D grid.
type Dims struct {
	W, H, D int
}

// NewDims validates the extent and returns it. Degenerate or oversized grids
// are rejected rather than clamped.
func NewDims(w, h, d int) (Dims, error) {
	if w <= 0 {
		return Dims{}, &ConfigError{Field: "width", Reason: fmt.Sprintf("must be positive, got %d", w)}
	}
	if h <= 0 {
		return Dims{}, &ConfigError{Field: "height", Reason: fmt.Sprintf("must be positive, got %d", h)}
	}
	if d <= 0 {
		return Dims{}, &ConfigError{Field: "depth", Reason: fmt.Sprintf("must be positive, got %d", d)}
	}
	total := int64(w) * int64(h) * int64(d)
	if total > MaxCells {
		return Dims{}, &ConfigError{
			Field:  "size",
			Reason: fmt.Sprintf("grid %dx%dx%d has %d cells (limit %d)", w, h, d, total, int64(MaxCells)),
		}
	}
	return Dims{W: w, H: h, D: d}, nil
}

// Is2D reports whether the grid is a single layer deep.
func (d Dims) Is2D() bool { return d.D == 1 }

// Cells returns the number of slots in the grid.
func (d Dims) Cells() int { return d.W * d.H * d.D }

// Contains reports whether c lies inside the grid.
func (d Dims) Contains(c Coord) bool {
	return c.X >= 0 && c.X < d.W &&
		c.Y >= 0 && c.Y < d.H &&
		c.Z >= 0 && c.Z < d.D
}

// Index flattens c. For 2D grids this is the row-major index y*W+x; for 3D
// grids it is W*(y*D+z)+x. Both agree when D == 1.
func (d Dims) Index(c Coord) int {
	return d.W*(c.Y*d.D+c.Z) + c.X
}

// Coord is the exact inverse of Index for in-range indices.
func (d Dims) Coord(index int) Coord {
	layer := d.W * d.D
	y := index / layer
	index -= y * layer
	return Coord{X: index % d.W, Y: y, Z: index / d.W}
}

// Each visits every coordinate in the fixed update order: rows then columns
// for 2D grids, x then y then z for 3D grids.
func (d Dims) Each(fn func(c Coord)) {
	if d.Is2D() {
		for y := 0; y < d.H; y++ {
			for x := 0; x < d.W; x++ {
				fn(Coord{X: x, Y: y})
			}
		}
		return
	}
	for x := 0; x < d.W; x++ {
		for y := 0; y < d.H; y++ {
			for z := 0; z < d.D; z++ {
				fn(Coord{X: x, Y: y, Z: z})
			}
		}
	}
}

// Moore visits the in-bounds coordinates of the 3x3 (or 3x3x3) block centred
// on c, including c itself, in ascending offset order.
func (d Dims) Moore(c Coord, fn func(n Coord) bool) {
	zr := 1
	if d.Is2D() {
		zr = 0
	}
	for dz := -zr; dz <= zr; dz++ {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				n := Coord{X: c.X + dx, Y: c.Y + dy, Z: c.Z + dz}
				if !d.Contains(n) {
					continue
				}
				if !fn(n) {
					return
				}
			}
		}
	}
}
