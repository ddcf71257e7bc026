package voxel

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// Vertex layout constants.
const (
	VerticesPerFace = 6
	FacesPerCell    = 6
	VerticesPerCell = VerticesPerFace * FacesPerCell

	// FloatsPerVertex is position(3) + uv(2) + color(4).
	FloatsPerVertex = 9
	// FloatsPerVertexNormals adds normal(3).
	FloatsPerVertexNormals = 12

	colorOffset = 5
)

type corner struct {
	pos mgl32.Vec3 // unit cube corner
	uv  [2]float32
}

// Two triangles per face with a consistent winding as seen from outside.
var faceCorners = [...][VerticesPerFace]corner{
	Front: {
		{mgl32.Vec3{0, 0, 1}, [2]float32{0, 1}},
		{mgl32.Vec3{1, 0, 1}, [2]float32{1, 1}},
		{mgl32.Vec3{0, 1, 1}, [2]float32{0, 0}},
		{mgl32.Vec3{1, 1, 1}, [2]float32{1, 0}},
		{mgl32.Vec3{0, 1, 1}, [2]float32{0, 0}},
		{mgl32.Vec3{1, 0, 1}, [2]float32{1, 1}},
	},
	Back: {
		{mgl32.Vec3{0, 1, 0}, [2]float32{1, 0}},
		{mgl32.Vec3{1, 1, 0}, [2]float32{0, 0}},
		{mgl32.Vec3{1, 0, 0}, [2]float32{0, 1}},
		{mgl32.Vec3{0, 1, 0}, [2]float32{1, 0}},
		{mgl32.Vec3{1, 0, 0}, [2]float32{0, 1}},
		{mgl32.Vec3{0, 0, 0}, [2]float32{1, 1}},
	},
	Left: {
		{mgl32.Vec3{0, 1, 1}, [2]float32{1, 0}},
		{mgl32.Vec3{0, 0, 0}, [2]float32{0, 1}},
		{mgl32.Vec3{0, 0, 1}, [2]float32{1, 1}},
		{mgl32.Vec3{0, 1, 1}, [2]float32{1, 0}},
		{mgl32.Vec3{0, 1, 0}, [2]float32{0, 0}},
		{mgl32.Vec3{0, 0, 0}, [2]float32{0, 1}},
	},
	Right: {
		{mgl32.Vec3{1, 1, 0}, [2]float32{1, 0}},
		{mgl32.Vec3{1, 1, 1}, [2]float32{0, 0}},
		{mgl32.Vec3{1, 0, 0}, [2]float32{1, 1}},
		{mgl32.Vec3{1, 0, 1}, [2]float32{0, 1}},
		{mgl32.Vec3{1, 0, 0}, [2]float32{1, 1}},
		{mgl32.Vec3{1, 1, 1}, [2]float32{0, 0}},
	},
	Top: {
		{mgl32.Vec3{0, 1, 0}, [2]float32{0, 0}},
		{mgl32.Vec3{0, 1, 1}, [2]float32{0, 1}},
		{mgl32.Vec3{1, 1, 0}, [2]float32{1, 0}},
		{mgl32.Vec3{1, 1, 1}, [2]float32{1, 1}},
		{mgl32.Vec3{1, 1, 0}, [2]float32{1, 0}},
		{mgl32.Vec3{0, 1, 1}, [2]float32{0, 1}},
	},
	Bottom: {
		{mgl32.Vec3{0, 0, 0}, [2]float32{0, 1}},
		{mgl32.Vec3{1, 0, 0}, [2]float32{1, 1}},
		{mgl32.Vec3{0, 0, 1}, [2]float32{0, 0}},
		{mgl32.Vec3{1, 0, 1}, [2]float32{1, 0}},
		{mgl32.Vec3{0, 0, 1}, [2]float32{0, 0}},
		{mgl32.Vec3{1, 0, 0}, [2]float32{1, 1}},
	},
}

// shaded returns the RGBA floats of col under f's brightness.
func shaded(col color.RGBA, f Face) [4]float32 {
	s := f.Shade()
	return [4]float32{
		float32(col.R) / 255 * s,
		float32(col.G) / 255 * s,
		float32(col.B) / 255 * s,
		1,
	}
}

// appendFaces appends the vertices of every visible face of a cell whose
// minimum corner is at origin.
func appendFaces(dst []float32, mask FaceMask, origin mgl32.Vec3, size float32, col color.RGBA, normals bool) []float32 {
	for _, f := range Faces {
		if !mask.Has(f) {
			continue
		}
		rgba := shaded(col, f)
		n := f.Normal()
		for _, c := range faceCorners[f] {
			p := origin.Add(c.pos.Mul(size))
			dst = append(dst,
				p[0], p[1], p[2],
				c.uv[0], c.uv[1],
				rgba[0], rgba[1], rgba[2], rgba[3],
			)
			if normals {
				dst = append(dst, n[0], n[1], n[2])
			}
		}
	}
	return dst
}

// patchColors rewrites the color floats of already emitted vertices.
func patchColors(data []float32, mask FaceMask, col color.RGBA, stride int) {
	i := 0
	for _, f := range Faces {
		if !mask.Has(f) {
			continue
		}
		rgba := shaded(col, f)
		for v := 0; v < VerticesPerFace; v++ {
			if i+colorOffset+4 > len(data) {
				return
			}
			copy(data[i+colorOffset:i+colorOffset+4], rgba[:])
			i += stride
		}
	}
}
