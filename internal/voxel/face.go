package voxel

import (
	"math/bits"

	"github.com/go-gl/mathgl/mgl32"

	"automata/internal/core"
)

// Face is one of the six axis-aligned sides of a cell.
type Face uint8

const (
	Front Face = iota // +Z
	Back              // -Z
	Left              // -X
	Right             // +X
	Top               // +Y
	Bottom            // -Y
)

// Faces lists every face in vertex emission order.
var Faces = [...]Face{Front, Back, Left, Right, Top, Bottom}

// FaceMask holds one visibility bit per face.
type FaceMask uint8

// AllFaces is the mask of an isolated cell.
const AllFaces FaceMask = 0b111111

var faceBits = [...]FaceMask{
	Front:  2,
	Back:   1,
	Left:   4,
	Right:  8,
	Top:    32,
	Bottom: 16,
}

var faceOffsets = [...]core.Coord{
	Front:  {Z: 1},
	Back:   {Z: -1},
	Left:   {X: -1},
	Right:  {X: 1},
	Top:    {Y: 1},
	Bottom: {Y: -1},
}

// Flat ambient lighting: each direction has a fixed brightness.
var faceShades = [...]float32{
	Front:  0.6,
	Back:   0.6,
	Left:   0.8,
	Right:  0.4,
	Top:    1.0,
	Bottom: 0.2,
}

var faceNames = [...]string{
	Front:  "front",
	Back:   "back",
	Left:   "left",
	Right:  "right",
	Top:    "top",
	Bottom: "bottom",
}

func (f Face) String() string { return faceNames[f] }

// Bit returns the mask bit of f.
func (f Face) Bit() FaceMask { return faceBits[f] }

// Opposite returns the face pointing the other way.
func (f Face) Opposite() Face { return f ^ 1 }

// Offset is the step from a cell to the neighbour behind f.
func (f Face) Offset() core.Coord { return faceOffsets[f] }

// Shade is the brightness multiplier applied to f's color.
func (f Face) Shade() float32 { return faceShades[f] }

// Normal is the outward unit normal of f.
func (f Face) Normal() mgl32.Vec3 {
	o := faceOffsets[f]
	return mgl32.Vec3{float32(o.X), float32(o.Y), float32(o.Z)}
}

// Has reports whether f is visible in m.
func (m FaceMask) Has(f Face) bool { return m&f.Bit() != 0 }

// Count returns the number of visible faces.
func (m FaceMask) Count() int { return bits.OnesCount8(uint8(m)) }
