//go:build ebiten

package ui

import (
	"image/color"

	"automata/internal/core"
	"automata/internal/render"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

var helpLines = []string{
	"space  pause/resume",
	"enter  resume",
	"n      step once",
	"r      reset (same seed)",
	"s      reset (new seed)",
	"tab    next automaton",
	"1      highlight changes",
	"h      toggle help",
	"q/esc  quit",
}

// Overlay draws optional debugging visuals on top of the base simulation:
// the cells changed by the last tick and a key binding reference.
type Overlay struct {
	sim   core.Sim
	scale int

	showChanged bool
	showHelp    bool

	changed []core.Coord
	frame   *render.Frame
	img     *ebiten.Image
	backing *ebiten.Image
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(sim core.Sim, scale int) *Overlay {
	o := &Overlay{scale: scale}
	o.SetSim(sim)
	return o
}

// SetSim points the overlay at another automaton.
func (o *Overlay) SetSim(sim core.Sim) {
	o.sim = sim
	o.changed = o.changed[:0]
	size := sim.Dims()
	o.frame = render.NewFrame(size)
	o.img = ebiten.NewImage(max(size.W, 1), max(size.H, 1))
}

// Update toggles overlays from the keyboard.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showChanged = !o.showChanged
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		o.showHelp = !o.showHelp
	}
}

// Capture records and clears the cells the sim changed since the previous
// call. Call it once after every tick.
func (o *Overlay) Capture() {
	tracker, ok := o.sim.(core.DirtyTracker)
	if !ok {
		return
	}
	o.changed = append(o.changed[:0], tracker.Dirty()...)
	tracker.ClearDirty()
}

// Draw renders the overlay onto the provided screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	scale := o.scale
	if scale <= 0 {
		scale = 1
	}
	if o.showChanged && len(o.frame.Pix) > 0 {
		o.frame.Mark(o.changed, color.RGBA{R: 255, G: 255, B: 255, A: 96})
		o.img.WritePixels(o.frame.Pix)
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(float64(scale), float64(scale))
		screen.DrawImage(o.img, op)
	}
	if o.showHelp {
		o.drawHelp(screen)
	}
}

func (o *Overlay) drawHelp(screen *ebiten.Image) {
	const lineHeight = 14
	w, h := 200, lineHeight*len(helpLines)+12
	if o.backing == nil {
		o.backing = ebiten.NewImage(w, h)
		o.backing.Fill(color.RGBA{R: 0, G: 0, B: 0, A: 180})
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(8, 8)
	screen.DrawImage(o.backing, op)
	for i, line := range helpLines {
		text.Draw(screen, line, basicfont.Face7x13, 16, 8+lineHeight*(i+1), color.White)
	}
}
