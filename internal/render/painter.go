//go:build ebiten

package render

import (
	"automata/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
)

// GridPainter uploads a sim's frame into a single image and draws it scaled.
type GridPainter struct {
	frame *Frame
	img   *ebiten.Image
}

// NewGridPainter allocates a painter for a grid of the given size.
func NewGridPainter(size core.Dims) *GridPainter {
	f := NewFrame(size)
	return &GridPainter{frame: f, img: ebiten.NewImage(max(f.W, 1), max(f.H, 1))}
}

// Blit paints sim into the painter image and draws it onto dst.
func (gp *GridPainter) Blit(dst *ebiten.Image, sim core.Sim, scale int) {
	if s := sim.Dims(); s.W != gp.frame.W || s.H != gp.frame.H {
		return
	}
	gp.frame.Paint(sim)
	gp.img.WritePixels(gp.frame.Pix)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	dst.DrawImage(gp.img, op)
}

// Size returns the dimensions of the underlying image.
func (gp *GridPainter) Size() (int, int) { return gp.frame.W, gp.frame.H }
