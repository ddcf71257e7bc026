//go:build ebiten

package app

import (
	"time"

	"automata/internal/engine"
	"automata/internal/render"
	"automata/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Game adapts an engine to the ebiten.Game interface.
type Game struct {
	engine  *engine.Engine
	painter *render.GridPainter
	hud     *ui.HUD
	overlay *ui.Overlay

	scale    int
	hudWidth int
}

// New constructs a Game for the provided engine.
func New(e *engine.Engine, scale, hudWidth int) *Game {
	if scale <= 0 {
		scale = 1
	}
	g := &Game{engine: e, scale: scale, hudWidth: hudWidth}
	g.overlay = ui.NewOverlay(e.Selected(), scale)
	g.attach()
	return g
}

// attach rebuilds the per-sim views after a selection change.
func (g *Game) attach() {
	sim := g.engine.Selected()
	g.painter = render.NewGridPainter(sim.Dims())
	g.hud = ui.NewHUD(sim, g.hudWidth)
	g.overlay.SetSim(sim)
}

// Reset reinitializes the active simulation with the provided seed.
func (g *Game) Reset(seed int64) {
	g.engine.Reset(seed)
	g.overlay.Capture()
}

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.engine.TogglePause()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.engine.SetPaused(false)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.engine.StepOnce()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.engine.Seed())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) && len(g.engine.Sims()) > 1 {
		g.engine.Next()
		g.attach()
	}

	g.overlay.Update()
	if g.engine.Update() {
		g.overlay.Capture()
	}
	g.hud.Update(g.viewWidth(), g.status())
	return nil
}

func (g *Game) status() ui.Status {
	return ui.Status{
		Sim:        g.engine.Selected().Name(),
		Index:      g.engine.SelectedIndex(),
		Count:      len(g.engine.Sims()),
		Tick:       g.engine.Ticks(),
		Paused:     g.engine.Paused(),
		Population: g.engine.Population(),
	}
}

func (g *Game) viewWidth() int { return g.engine.Selected().Dims().W * g.scale }

// Draw renders the current simulation state.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Blit(screen, g.engine.Selected(), g.scale)
	g.overlay.Draw(screen)
	g.hud.Draw(screen, g.viewWidth(), g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.engine.Selected().Dims()
	return s.W*g.scale + max(g.hudWidth, 0), s.H * g.scale
}
