//go:build ebiten

package ui

import (
	"image"
	"image/color"
	"strconv"
	"strings"

	"automata/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

var (
	panelBG     = color.RGBA{R: 16, G: 16, B: 20, A: 255}
	titleColor  = color.RGBA{R: 200, G: 200, B: 210, A: 255}
	statusColor = color.RGBA{R: 170, G: 200, B: 170, A: 255}
	labelColor  = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	mutedColor  = color.RGBA{R: 160, G: 160, B: 170, A: 255}
	buttonBG    = color.RGBA{R: 54, G: 56, B: 64, A: 255}
	buttonFG    = color.RGBA{R: 230, G: 230, B: 240, A: 255}
	buttonOffBG = color.RGBA{R: 32, G: 34, B: 40, A: 255}
	buttonOffFG = color.RGBA{R: 120, G: 120, B: 130, A: 255}
)

// HUD renders the status and parameter panel to the right of the simulation
// view.
type HUD struct {
	sim    core.Sim
	width  int
	title  string
	status []string

	panel  *ebiten.Image
	height int
	pixel  *ebiten.Image

	rows        []hudRow
	intSetter   core.IntParameterSetter
	floatSetter core.FloatParameterSetter
	offsetX     int
}

type hudRow struct {
	control core.ParameterControl
	value   controlValue

	top         int
	minus, plus image.Rectangle
}

// NewHUD constructs a HUD for the provided simulation and panel width.
func NewHUD(sim core.Sim, width int) *HUD {
	h := &HUD{sim: sim, width: max(width, 0), title: "Controls"}
	if name := sim.Name(); name != "" {
		h.title = strings.ToUpper(name[:1]) + name[1:] + " Controls"
	}
	if h.width > 0 {
		h.pixel = ebiten.NewImage(1, 1)
		h.pixel.Fill(color.White)
	}
	if p, ok := sim.(core.ParameterControlsProvider); ok {
		for i, ctrl := range p.ParameterControls() {
			top := controlsTop + i*lineHeight
			y := top + (lineHeight-buttonSize)/2
			plus := image.Rect(h.width-panelPadding-buttonSize, y, h.width-panelPadding, y+buttonSize)
			minus := plus.Sub(image.Pt(buttonSize+buttonGap, 0))
			h.rows = append(h.rows, hudRow{control: ctrl, value: controlValue{text: "--"}, top: top, minus: minus, plus: plus})
		}
	}
	h.intSetter, _ = sim.(core.IntParameterSetter)
	h.floatSetter, _ = sim.(core.FloatParameterSetter)
	return h
}

// Update refreshes the status lines and control values, and applies clicks on
// the +/- buttons.
func (h *HUD) Update(panelOffsetX int, status Status) {
	if h == nil {
		return
	}
	h.offsetX = panelOffsetX
	h.status = status.Lines()

	var snap core.ParameterSnapshot
	if p, ok := h.sim.(core.ParameterProvider); ok {
		snap = p.Parameters()
	}
	for i := range h.rows {
		row := &h.rows[i]
		param, found := snap.Lookup(row.control.Key)
		row.value = readControl(row.control, param, found)
	}

	if len(h.rows) == 0 || !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	pt := image.Pt(mx-h.offsetX, my)
	for i := range h.rows {
		row := &h.rows[i]
		switch {
		case pt.In(row.minus):
			h.adjust(row, -1)
			return
		case pt.In(row.plus):
			h.adjust(row, 1)
			return
		}
	}
}

// step reports whether row can move one step in dir and, when apply is set,
// pushes the new value to the sim.
func (h *HUD) step(row *hudRow, dir int, apply bool) bool {
	if !row.value.ok {
		return false
	}
	switch row.control.Type {
	case core.ParamTypeInt:
		next, ok := stepInt(row.control, row.value.i, dir)
		if !ok || h.intSetter == nil {
			return false
		}
		if apply && h.intSetter.SetIntParameter(row.control.Key, next) {
			row.value = controlValue{ok: true, i: next, f: float64(next), text: strconv.Itoa(next)}
		}
		return true
	case core.ParamTypeFloat:
		next, ok := stepFloat(row.control, row.value.f, dir)
		if !ok || h.floatSetter == nil {
			return false
		}
		if apply && h.floatSetter.SetFloatParameter(row.control.Key, next) {
			row.value = controlValue{ok: true, f: next, text: formatFloat(row.control, next)}
		}
		return true
	}
	return false
}

func (h *HUD) adjust(row *hudRow, dir int) { h.step(row, dir, true) }

// Draw paints the HUD panel anchored to the right edge of the simulation view.
func (h *HUD) Draw(screen *ebiten.Image, offsetX int, scale int) {
	if h == nil || h.width <= 0 {
		return
	}
	height := h.sim.Dims().H * max(scale, 1)
	if height <= 0 {
		return
	}
	if h.panel == nil || h.height != height {
		h.panel = ebiten.NewImage(h.width, height)
		h.height = height
	}
	h.panel.Fill(panelBG)

	face := basicfont.Face7x13
	text.Draw(h.panel, h.title, face, panelPadding, panelPadding+headerBaseline, titleColor)
	for i, line := range h.status {
		if i >= statusRows {
			break
		}
		text.Draw(h.panel, line, face, panelPadding, statusTop+(i+1)*statusLineHeight, statusColor)
	}
	if len(h.rows) == 0 {
		text.Draw(h.panel, "No adjustable parameters", face, panelPadding, controlsTop+labelBaseline, mutedColor)
	}
	for i := range h.rows {
		row := &h.rows[i]
		y := row.top + labelBaseline
		text.Draw(h.panel, row.control.Label, face, panelPadding, y, labelColor)
		valueColor := labelColor
		if !row.value.ok {
			valueColor = mutedColor
		}
		w := text.BoundString(face, row.value.text).Dx()
		text.Draw(h.panel, row.value.text, face, row.minus.Min.X-buttonGap-w, y, valueColor)
		h.drawButton(row.minus, "-", h.step(row, -1, false))
		h.drawButton(row.plus, "+", h.step(row, 1, false))
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func (h *HUD) drawButton(rect image.Rectangle, label string, enabled bool) {
	bg, fg := buttonBG, buttonFG
	if !enabled {
		bg, fg = buttonOffBG, buttonOffFG
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(rect.Dx()), float64(rect.Dy()))
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	op.ColorScale.ScaleWithColor(bg)
	h.panel.DrawImage(h.pixel, op)

	face := basicfont.Face7x13
	b := text.BoundString(face, label)
	x := rect.Min.X + (rect.Dx()-b.Dx())/2
	y := rect.Min.Y + (rect.Dy()-b.Dy())/2 + b.Dy()
	text.Draw(h.panel, label, face, x, y, fg)
}

const (
	panelPadding   = 12
	lineHeight     = 36
	buttonSize     = 24
	buttonGap      = 6
	headerBaseline = 18
	labelBaseline  = 24

	statusRows       = 4
	statusLineHeight = 16
	statusTop        = panelPadding + headerBaseline

	controlsTop = statusTop + statusRows*statusLineHeight + 14
)
