package render

import (
	"image/color"
	"testing"

	"automata/internal/core"
	"automata/internal/sims/predprey"
)

type blankSim struct{}

func (blankSim) Name() string                { return "blank" }
func (blankSim) Dims() core.Dims             { return core.Dims{W: 2, H: 2, D: 1} }
func (blankSim) Reset(int64)                 {}
func (blankSim) Step()                       {}
func (blankSim) Population() core.Population { return core.Population{} }

func TestPaintUsesSimColors(t *testing.T) {
	cfg := predprey.DefaultConfig()
	cfg.Width, cfg.Height = 3, 2
	cfg.Fill = false
	w, err := predprey.New(cfg)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	w.Reset(0)
	prey := predprey.NewOrganism(predprey.Prey, 50)
	if err := w.SetCell(core.Coord{X: 2, Y: 1}, prey); err != nil {
		t.Fatalf("set: %v", err)
	}

	f := NewFrame(w.Dims())
	if !f.Paint(w) {
		t.Fatalf("predprey should paint itself")
	}
	if got, want := f.At(2, 1), w.ColorOf(prey); got != want {
		t.Fatalf("prey pixel = %v, want %v", got, want)
	}
	if got, want := f.At(0, 0), w.ColorOf(predprey.EmptyCell()); got != want {
		t.Fatalf("empty pixel = %v, want %v", got, want)
	}
}

func TestPaintClearsForNonPainters(t *testing.T) {
	f := NewFrame(blankSim{}.Dims())
	f.Clear(color.RGBA{R: 9, A: 255})
	if f.Paint(blankSim{}) {
		t.Fatalf("blank sim cannot paint")
	}
	if got := f.At(1, 1); got != (color.RGBA{}) {
		t.Fatalf("pixel = %v, want transparent", got)
	}
}

func TestMarkSkipsOtherLayersAndOutOfRange(t *testing.T) {
	f := NewFrame(core.Dims{W: 4, H: 4, D: 2})
	tint := color.RGBA{R: 255, A: 128}
	cells := []core.Coord{{X: 1, Y: 2}, {X: 1, Y: 2, Z: 1}, {X: 4, Y: 0}, {X: -1, Y: 0}, {X: 3, Y: 3}}
	if n := f.Mark(cells, tint); n != 2 {
		t.Fatalf("marked %d pixels, want 2", n)
	}
	if f.At(1, 2) != tint || f.At(3, 3) != tint {
		t.Fatalf("marked pixels not tinted")
	}
	if f.At(0, 0) != (color.RGBA{}) {
		t.Fatalf("unmarked pixel should be transparent")
	}
}

func TestImageSharesBuffer(t *testing.T) {
	f := NewFrame(core.Dims{W: 3, H: 2, D: 1})
	f.Mark([]core.Coord{{X: 2, Y: 1}}, color.RGBA{G: 200, A: 255})
	img := f.Image()
	if got := img.RGBAAt(2, 1); got.G != 200 {
		t.Fatalf("image pixel = %v", got)
	}
	if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 2 {
		t.Fatalf("bounds = %v", img.Bounds())
	}
}
