package evolution

import (
	"errors"
	"math"
	"testing"

	"automata/internal/core"
)

func newTestWorld(t *testing.T, w, h int) *World {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = w, h
	cfg.Fill = false
	world, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	world.Reset(0)
	return world
}

func alive(g Genome, health, timer int) Organism {
	return Organism{Type: Alive, Genome: g, Health: health, Timer: timer}
}

func TestMutateIsZeroSumAndClamped(t *testing.T) {
	rng := core.NewRNG(7)
	base := Gray(0.7)
	for i := 0; i < 500; i++ {
		g := Mutate(base, rng, 0.1, 1.5)
		sum := g.R + g.G + g.B
		if math.Abs(float64(sum-2.1)) > 1e-5 {
			t.Fatalf("mutation %d changed trait sum: %+v", i, g)
		}
		for _, v := range []float32{g.R, g.G, g.B} {
			if v < GenomeMin || v > GenomeMax {
				t.Fatalf("trait out of range: %+v", g)
			}
		}
	}

	edge := Genome{R: 1, G: 0.4, B: 1}
	for i := 0; i < 500; i++ {
		g := Mutate(edge, rng, 0.5, 3)
		for _, v := range []float32{g.R, g.G, g.B} {
			if v < GenomeMin || v > GenomeMax {
				t.Fatalf("trait out of range after clamp: %+v", g)
			}
		}
	}
}

func TestThresholdsScaleWithGenome(t *testing.T) {
	p := DefaultParams()
	if got := p.Threshold(Genome{G: 1}); got != 50 {
		t.Fatalf("threshold at G=1: %d", got)
	}
	if got := p.Threshold(Genome{G: 0.5}); got != 100 {
		t.Fatalf("threshold at G=0.5: %d", got)
	}
	if got := p.ReproductionCostFor(Genome{B: 0.4}); got != 5 {
		t.Fatalf("cost at B=0.4: %d", got)
	}
	if got := p.IncompatibilityDamageFor(Genome{R: 1}); got != 5000 {
		t.Fatalf("damage at R=1: %d", got)
	}
}

func TestMoveIntoDeadCell(t *testing.T) {
	w := newTestWorld(t, 3, 3)
	src := core.Coord{X: 1, Y: 1}
	dst := core.Coord{X: 2, Y: 1}
	o := alive(Gray(0.7), 40, 3)
	if err := w.SetCell(src, o); err != nil {
		t.Fatal(err)
	}
	w.ClearDirty()
	w.pick = func(c core.Coord) core.Coord {
		if c == src {
			return dst
		}
		return core.Coord{X: -1}
	}
	w.Step()

	if got, _ := w.Cell(src); got.Type != Dead {
		t.Fatalf("origin should be dead, got %+v", got)
	}
	got, _ := w.Cell(dst)
	want := o
	want.Timer = 4
	if got != want {
		t.Fatalf("moved organism: got %+v want %+v", got, want)
	}
	if len(w.Dirty()) != 2 {
		t.Fatalf("expected two dirty cells, got %v", w.Dirty())
	}
}

func TestCompatibleParentsReproduce(t *testing.T) {
	w := newTestWorld(t, 3, 3)
	p := w.cfg.Params
	g := Gray(0.7)
	ready := p.Threshold(g) + 1
	actor := core.Coord{X: 0, Y: 0}
	partner := core.Coord{X: 1, Y: 0}
	_ = w.SetCell(actor, alive(g, 75, ready))
	_ = w.SetCell(partner, alive(g, 75, ready))
	w.pick = func(c core.Coord) core.Coord {
		if c == actor {
			return partner
		}
		return core.Coord{X: -1}
	}
	w.Step()

	if pop := w.Population(); pop.Living != 3 {
		t.Fatalf("expected one offspring, got %+v", pop)
	}
	// First dead cell around the actor in scan order is (0,1).
	child, _ := w.Cell(core.Coord{X: 0, Y: 1})
	if child.Type != Alive || child.Health != p.InitialHealth || child.Timer != 0 {
		t.Fatalf("unexpected offspring %+v", child)
	}
	parent, _ := w.Cell(actor)
	if parent.Timer != 1 || parent.Health != 75-p.ReproductionCostFor(g) {
		t.Fatalf("unexpected parent %+v", parent)
	}
	mate, _ := w.Cell(partner)
	if mate.Timer != 0 {
		t.Fatalf("partner timer not reset: %+v", mate)
	}
}

func TestReadyOrganismReproducesWithItself(t *testing.T) {
	w := newTestWorld(t, 3, 3)
	p := w.cfg.Params
	g := Gray(0.7)
	centre := core.Coord{X: 1, Y: 1}
	_ = w.SetCell(centre, alive(g, 75, 1000))
	w.pick = func(c core.Coord) core.Coord { return c }
	w.Step()

	if pop := w.Population(); pop.Living != 2 {
		t.Fatalf("expected one offspring from a self sample, got %+v", pop)
	}
	parent, _ := w.Cell(centre)
	if parent.Timer != 1 || parent.Health != 75-p.ReproductionCostFor(g) {
		t.Fatalf("timer and cost should apply once, got %+v", parent)
	}
	children := 0
	w.Occupied(func(c core.Coord, o Organism) {
		if c == centre {
			return
		}
		children++
		if o.Health != p.InitialHealth || o.Timer != 0 {
			t.Fatalf("unexpected offspring at %v: %+v", c, o)
		}
		if d := o.Genome.Distance(g); d > float64(p.MutationRange)*2 {
			t.Fatalf("offspring genome %+v too far from parent", o.Genome)
		}
	})
	if children != 1 {
		t.Fatalf("expected exactly one child, got %d", children)
	}
}

func TestUnreadySelfSampleOnlyAges(t *testing.T) {
	w := newTestWorld(t, 3, 3)
	centre := core.Coord{X: 1, Y: 1}
	_ = w.SetCell(centre, alive(Gray(0.7), 75, 0))
	w.ClearDirty()
	w.pick = func(c core.Coord) core.Coord { return c }
	w.Step()

	if got, _ := w.Cell(centre); got != alive(Gray(0.7), 75, 1) {
		t.Fatalf("expected the organism to only age, got %+v", got)
	}
	if len(w.Dirty()) != 0 {
		t.Fatalf("aging is not a visible change: %v", w.Dirty())
	}
}

func TestIncompatibleParentsKillActor(t *testing.T) {
	w := newTestWorld(t, 3, 3)
	actor := core.Coord{X: 0, Y: 0}
	partner := core.Coord{X: 1, Y: 0}
	_ = w.SetCell(actor, alive(Gray(0.5), 75, 1000))
	_ = w.SetCell(partner, alive(Gray(0.9), 75, 1000))
	w.pick = func(c core.Coord) core.Coord {
		if c == actor {
			return partner
		}
		return core.Coord{X: -1}
	}
	w.Step()

	if got, _ := w.Cell(actor); got.Type != Dead {
		t.Fatalf("incompatible actor should die, got %+v", got)
	}
	if pop := w.Population(); pop.Living != 1 {
		t.Fatalf("unexpected population %+v", pop)
	}
}

func TestUnreadyParentsOnlyAge(t *testing.T) {
	w := newTestWorld(t, 3, 3)
	actor := core.Coord{X: 0, Y: 0}
	partner := core.Coord{X: 1, Y: 0}
	_ = w.SetCell(actor, alive(Gray(0.5), 75, 0))
	_ = w.SetCell(partner, alive(Gray(0.9), 75, 1000))
	w.pick = func(c core.Coord) core.Coord {
		if c == actor {
			return partner
		}
		return core.Coord{X: -1}
	}
	w.Step()

	got, _ := w.Cell(actor)
	if got != alive(Gray(0.5), 75, 1) {
		t.Fatalf("expected actor to only age, got %+v", got)
	}
}

func TestResetDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 24, 24
	cfg.Params.BaseThreshold = 2
	a, _ := New(cfg)
	b, _ := New(cfg)
	a.Reset(0)
	b.Reset(0)
	for i := 0; i < 30; i++ {
		a.Step()
		b.Step()
	}
	for i := range a.cells {
		if a.cells[i] != b.cells[i] {
			t.Fatalf("diverged at index %d", i)
		}
		if o := a.cells[i]; o.Type == Alive {
			for _, v := range []float32{o.Genome.R, o.Genome.G, o.Genome.B} {
				if v < GenomeMin || v > GenomeMax {
					t.Fatalf("genome out of range at %d: %+v", i, o.Genome)
				}
			}
		}
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Height = 0
	_, err := New(cfg)
	var ce *core.ConfigError
	if !errors.As(err, &ce) || ce.Field != "height" {
		t.Fatalf("expected height ConfigError, got %v", err)
	}

	cfg = DefaultConfig()
	cfg.Params.Epsilon = 0
	if _, err := New(cfg); !errors.As(err, &ce) || ce.Field != "epsilon" {
		t.Fatalf("expected epsilon ConfigError, got %v", err)
	}
}

func TestColorFromGenome(t *testing.T) {
	c := alive(Genome{R: 1, G: 0.4, B: 0.6}, 1, 0).Color()
	if c.R != 255 || c.G != 102 || c.B != 153 || c.A != 255 {
		t.Fatalf("unexpected color %+v", c)
	}
	if c := (Organism{}).Color(); c.R|c.G|c.B != 0 || c.A != 255 {
		t.Fatalf("dead color %+v", c)
	}
}

func TestParameterSetters(t *testing.T) {
	w := newTestWorld(t, 4, 4)
	if !w.SetIntParameter("base_threshold", 80) {
		t.Fatalf("base_threshold rejected")
	}
	if w.SetIntParameter("base_threshold", 0) || w.SetIntParameter("initial_health", -1) || w.SetIntParameter("nope", 3) {
		t.Fatalf("invalid int update accepted")
	}
	if !w.SetFloatParameter("mutation_range", 0.25) {
		t.Fatalf("mutation_range rejected")
	}
	if w.SetFloatParameter("epsilon", 0) {
		t.Fatalf("zero epsilon accepted")
	}

	snap := w.Parameters()
	if p, ok := snap.Lookup("base_threshold"); !ok || p.Value != "80" {
		t.Fatalf("base_threshold = %+v, %v", p, ok)
	}
	if p, ok := snap.Lookup("mutation_range"); !ok || p.Value != "0.25" {
		t.Fatalf("mutation_range = %+v, %v", p, ok)
	}
	if got := w.Config().Params.Threshold(Genome{R: 1, G: 1, B: 1}); got != 80 {
		t.Fatalf("threshold = %d, want 80", got)
	}
}

func TestSetCellStoresHealthlessOrganismAsDead(t *testing.T) {
	w := newTestWorld(t, 3, 3)
	cases := map[string]Organism{
		"zero health":     alive(Gray(0.5), 0, 4),
		"negative health": alive(Gray(0.5), -3, 4),
		"unknown type":    {Type: Type(7), Genome: Gray(0.5), Health: 50},
		"dead with state": {Type: Dead, Genome: Gray(0.5), Health: 50, Timer: 2},
	}
	for name, o := range cases {
		c := core.Coord{X: 1, Y: 1}
		if err := w.SetCell(c, alive(Gray(0.2), 10, 0)); err != nil {
			t.Fatal(err)
		}
		if err := w.SetCell(c, o); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		got, _ := w.Cell(c)
		if got != (Organism{}) {
			t.Fatalf("%s: stored %+v, want dead zero value", name, got)
		}
	}
	w.Resume(0)
	if n := w.Population().Living; n != 0 {
		t.Fatalf("alive count %d after storing only dead cells", n)
	}
}
