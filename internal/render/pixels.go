// Package render turns 2D automata into RGBA pixel frames.
package render

import (
	"image"
	"image/color"

	"automata/internal/core"
)

// Frame is a row-major RGBA buffer covering the z=0 layer of a grid.
type Frame struct {
	W, H int
	Pix  []byte
}

// NewFrame allocates a transparent frame for a grid of the given size.
func NewFrame(size core.Dims) *Frame {
	w, h := size.W, size.H
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Frame{W: w, H: h, Pix: make([]byte, 4*w*h)}
}

// Paint fills the frame from sim. Sims that cannot paint themselves leave the
// frame cleared; the return value reports whether anything was painted.
func (f *Frame) Paint(sim core.Sim) bool {
	p, ok := sim.(core.Painter)
	if !ok {
		f.Clear(color.RGBA{})
		return false
	}
	p.FillRGBA(f.Pix)
	return true
}

// Clear sets every pixel to col.
func (f *Frame) Clear(col color.RGBA) {
	for base := 0; base+3 < len(f.Pix); base += 4 {
		f.Pix[base+0] = col.R
		f.Pix[base+1] = col.G
		f.Pix[base+2] = col.B
		f.Pix[base+3] = col.A
	}
}

// Mark clears the frame and sets the pixels of cells on the z=0 layer to tint.
// Cells on other layers or outside the frame are ignored. It returns the
// number of pixels set.
func (f *Frame) Mark(cells []core.Coord, tint color.RGBA) int {
	f.Clear(color.RGBA{})
	n := 0
	for _, c := range cells {
		if c.Z != 0 || c.X < 0 || c.Y < 0 || c.X >= f.W || c.Y >= f.H {
			continue
		}
		base := (c.Y*f.W + c.X) * 4
		f.Pix[base+0] = tint.R
		f.Pix[base+1] = tint.G
		f.Pix[base+2] = tint.B
		f.Pix[base+3] = tint.A
		n++
	}
	return n
}

// At returns the pixel at (x, y).
func (f *Frame) At(x, y int) color.RGBA {
	base := (y*f.W + x) * 4
	return color.RGBA{R: f.Pix[base], G: f.Pix[base+1], B: f.Pix[base+2], A: f.Pix[base+3]}
}

// Image wraps the frame buffer without copying.
func (f *Frame) Image() *image.RGBA {
	return &image.RGBA{Pix: f.Pix, Stride: 4 * f.W, Rect: image.Rect(0, 0, f.W, f.H)}
}
