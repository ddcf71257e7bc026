//go:build !ebiten

package ui

import "automata/internal/core"

// Overlay is a no-op placeholder used when the ebiten build tag is absent.
type Overlay struct{}

// NewOverlay constructs a stub overlay.
func NewOverlay(core.Sim, int) *Overlay { return &Overlay{} }

// SetSim is a no-op in headless builds.
func (o *Overlay) SetSim(core.Sim) {}

// Update is a no-op in headless builds.
func (o *Overlay) Update() {}

// Capture is a no-op in headless builds.
func (o *Overlay) Capture() {}

// Draw is a no-op placeholder.
func (o *Overlay) Draw(any) {}
