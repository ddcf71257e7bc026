// Package voxel maintains a face-culled surface mesh for a sparse 3D
// occupancy grid. Only faces that border empty space or the grid boundary are
// emitted, and the vertex buffer is reassembled incrementally from per-cell
// caches.
package voxel

import (
	"fmt"
	"image/color"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"automata/internal/core"
)

// CellData is the mesh-side state of an occupied slot.
type CellData struct {
	Type  uint8
	Mask  FaceMask
	Color color.RGBA

	vertices []float32
	stale    bool
	offset   int
}

// Delta describes how a slot changed since the last drain.
type Delta struct {
	Coord   core.Coord
	Index   int
	Present bool
	Type    uint8
	Color   color.RGBA
	Mask    FaceMask
}

// Mesh is a sparse voxel surface. It is not safe for concurrent use.
type Mesh struct {
	dims     core.Dims
	cellSize float32
	normals  bool
	fillSeed int64
	fill     bool

	cells map[core.Coord]*CellData
	faces int

	buf   []float32
	dirty bool

	changed map[core.Coord]struct{}
}

// Option configures a Mesh.
type Option func(*Mesh)

// WithNormals selects the 12-float vertex layout.
func WithNormals(on bool) Option {
	return func(m *Mesh) { m.normals = on }
}

// WithFill occupies every slot with a randomly colored cell at construction.
func WithFill(seed int64) Option {
	return func(m *Mesh) {
		m.fill = true
		m.fillSeed = seed
	}
}

// New returns an empty mesh over dims. It fails when the worst-case vertex
// buffer could not be addressed with 32-bit counts.
func New(dims core.Dims, cellSize float32, opts ...Option) (*Mesh, error) {
	if _, err := core.NewDims(dims.W, dims.H, dims.D); err != nil {
		return nil, err
	}
	if cellSize <= 0 {
		return nil, &core.ConfigError{Field: "cell_size", Reason: fmt.Sprintf("must be positive, got %g", cellSize)}
	}
	m := &Mesh{
		dims:     dims,
		cellSize: cellSize,
		cells:    map[core.Coord]*CellData{},
		changed:  map[core.Coord]struct{}{},
	}
	for _, opt := range opts {
		opt(m)
	}

	cells := int64(dims.Cells())
	vertices := cells * VerticesPerCell
	bytes := vertices * int64(m.FloatsPerVertex()) * 4
	if vertices > math.MaxInt32 || bytes > math.MaxInt32 {
		limit := math.MaxInt32 / (VerticesPerCell * int64(m.FloatsPerVertex()) * 4)
		return nil, &core.ConfigError{
			Field:  "size",
			Reason: fmt.Sprintf("grid %dx%dx%d has too many cells for a mesh (%d > %d)", dims.W, dims.H, dims.D, cells, limit),
		}
	}

	if m.fill {
		rng := core.NewRNG(m.fillSeed)
		dims.Each(func(c core.Coord) {
			col := color.RGBA{
				R: uint8(rng.IntN(256)),
				G: uint8(rng.IntN(256)),
				B: uint8(rng.IntN(256)),
				A: 255,
			}
			m.add(0, col, c)
		})
	}
	return m, nil
}

// Dims returns the grid extent.
func (m *Mesh) Dims() core.Dims { return m.dims }

// CellSize returns the world-space edge length of a cell.
func (m *Mesh) CellSize() float32 { return m.cellSize }

// FloatsPerVertex returns 9 or 12 depending on WithNormals.
func (m *Mesh) FloatsPerVertex() int {
	if m.normals {
		return FloatsPerVertexNormals
	}
	return FloatsPerVertex
}

// Index flattens c as W*(Y*D+Z)+X.
func (m *Mesh) Index(c core.Coord) int { return m.dims.Index(c) }

// Coord is the inverse of Index.
func (m *Mesh) Coord(index int) core.Coord { return m.dims.Coord(index) }

// Len returns the number of occupied slots.
func (m *Mesh) Len() int { return len(m.cells) }

// FaceCount returns the number of visible faces.
func (m *Mesh) FaceCount() int { return m.faces }

// Dirty reports whether the next Refresh will rebuild the buffer.
func (m *Mesh) Dirty() bool { return m.dirty }

// HasCell reports whether c is occupied.
func (m *Mesh) HasCell(c core.Coord) bool {
	_, ok := m.cells[c]
	return ok
}

// Cell returns a copy of the cell state at c.
func (m *Mesh) Cell(c core.Coord) (CellData, bool) {
	d, ok := m.cells[c]
	if !ok {
		return CellData{}, false
	}
	return CellData{Type: d.Type, Mask: d.Mask, Color: d.Color}, true
}

// Cells visits every occupied slot in ascending index order.
func (m *Mesh) Cells(fn func(c core.Coord, d CellData)) {
	for _, c := range m.sortedCoords() {
		d := m.cells[c]
		fn(c, CellData{Type: d.Type, Mask: d.Mask, Color: d.Color})
	}
}

// AddCell occupies c. It reports false when c is already occupied.
func (m *Mesh) AddCell(t uint8, col color.RGBA, c core.Coord) (bool, error) {
	if !m.dims.Contains(c) {
		return false, core.OutOfBounds(c, m.dims)
	}
	if _, ok := m.cells[c]; ok {
		return false, nil
	}
	m.add(t, col, c)
	return true, nil
}

func (m *Mesh) add(t uint8, col color.RGBA, c core.Coord) {
	m.cells[c] = &CellData{Type: t, Color: col, stale: true}
	m.updateFaces(c)
	m.touch(c)
	m.dirty = true
}

// RemoveCell frees c. It reports false when c was not occupied.
func (m *Mesh) RemoveCell(c core.Coord) (bool, error) {
	if !m.dims.Contains(c) {
		return false, core.OutOfBounds(c, m.dims)
	}
	d, ok := m.cells[c]
	if !ok {
		return false, nil
	}
	m.faces -= d.Mask.Count()
	delete(m.cells, c)
	m.updateFaces(c)
	m.touch(c)
	m.dirty = true
	return true, nil
}

// UpdateCell changes the type and color of an occupied cell without touching
// visibility. When the assembled buffer is current only the cell's color
// floats are rewritten.
func (m *Mesh) UpdateCell(t uint8, col color.RGBA, c core.Coord) (bool, error) {
	if !m.dims.Contains(c) {
		return false, core.OutOfBounds(c, m.dims)
	}
	d, ok := m.cells[c]
	if !ok {
		return false, nil
	}
	if d.Type == t && d.Color == col {
		return true, nil
	}
	d.Type = t
	d.Color = col
	m.touch(c)

	stride := m.FloatsPerVertex()
	if !d.stale {
		patchColors(d.vertices, d.Mask, col, stride)
	}
	if !m.dirty && !d.stale {
		end := d.offset + len(d.vertices)
		if end <= len(m.buf) {
			patchColors(m.buf[d.offset:end], d.Mask, col, stride)
		}
	}
	return true, nil
}

// updateFaces recomputes the visibility bits shared between c and each of
// its six neighbours. Out-of-range neighbours count as permanently absent.
func (m *Mesh) updateFaces(c core.Coord) {
	cell := m.cells[c]
	for _, f := range Faces {
		n := c.Add(f.Offset())
		var adj *CellData
		if m.dims.Contains(n) {
			adj = m.cells[n]
		}
		switch {
		case adj != nil && cell != nil:
			m.clearBit(c, cell, f)
			m.clearBit(n, adj, f.Opposite())
		case adj != nil:
			m.setBit(n, adj, f.Opposite())
		case cell != nil:
			m.setBit(c, cell, f)
		}
	}
}

func (m *Mesh) setBit(c core.Coord, d *CellData, f Face) {
	if d.Mask.Has(f) {
		return
	}
	d.Mask |= f.Bit()
	d.stale = true
	m.faces++
	m.touch(c)
}

func (m *Mesh) clearBit(c core.Coord, d *CellData, f Face) {
	if !d.Mask.Has(f) {
		return
	}
	d.Mask &^= f.Bit()
	d.stale = true
	m.faces--
	m.touch(c)
}

func (m *Mesh) touch(c core.Coord) { m.changed[c] = struct{}{} }

// Refresh returns the assembled vertex buffer, regenerating vertex data only
// for cells whose faces changed. The returned slice is owned by the mesh and
// valid until the next mutation.
func (m *Mesh) Refresh() []float32 {
	if !m.dirty && m.buf != nil {
		return m.buf
	}
	stride := m.FloatsPerVertex()
	out := make([]float32, 0, m.faces*VerticesPerFace*stride)
	for _, c := range m.sortedCoords() {
		d := m.cells[c]
		if d.stale {
			origin := mgl32.Vec3{float32(c.X), float32(c.Y), float32(c.Z)}.Mul(m.cellSize)
			d.vertices = appendFaces(d.vertices[:0], d.Mask, origin, m.cellSize, d.Color, m.normals)
			d.stale = false
		}
		d.offset = len(out)
		out = append(out, d.vertices...)
	}
	m.buf = out
	m.dirty = false
	return m.buf
}

// Deltas returns the slots changed since the previous call in ascending index
// order and forgets them.
func (m *Mesh) Deltas() []Delta {
	if len(m.changed) == 0 {
		return nil
	}
	out := make([]Delta, 0, len(m.changed))
	for c := range m.changed {
		delta := Delta{Coord: c, Index: m.dims.Index(c)}
		if d, ok := m.cells[c]; ok {
			delta.Present = true
			delta.Type = d.Type
			delta.Color = d.Color
			delta.Mask = d.Mask
		}
		out = append(out, delta)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	clear(m.changed)
	return out
}

func (m *Mesh) sortedCoords() []core.Coord {
	keys := make([]core.Coord, 0, len(m.cells))
	for c := range m.cells {
		keys = append(keys, c)
	}
	sort.Slice(keys, func(i, j int) bool {
		return m.dims.Index(keys[i]) < m.dims.Index(keys[j])
	})
	return keys
}
