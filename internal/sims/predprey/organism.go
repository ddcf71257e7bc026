package predprey

import "image/color"

// Type enumerates what occupies a cell.
type Type uint8

const (
	Empty Type = iota
	Predator
	Prey
)

func (t Type) String() string {
	switch t {
	case Predator:
		return "predator"
	case Prey:
		return "prey"
	default:
		return "empty"
	}
}

// EmptyHealth is the health carried by every empty cell.
const EmptyHealth = -1

// Organism is the state of a single cell. Health < 0 holds exactly when the
// cell is Empty; use NewOrganism to keep that true.
type Organism struct {
	Type   Type
	Health int
}

// NewOrganism returns an organism of type t with the given health. A negative
// health or an Empty type both produce the canonical empty cell.
func NewOrganism(t Type, health int) Organism {
	if t == Empty || health < 0 {
		return Organism{Type: Empty, Health: EmptyHealth}
	}
	return Organism{Type: t, Health: health}
}

// EmptyCell is the canonical empty organism.
func EmptyCell() Organism { return Organism{Type: Empty, Health: EmptyHealth} }

func (o Organism) withHealth(h int) Organism { return NewOrganism(o.Type, h) }

var baseColors = [...]color.RGBA{
	Empty:    {A: 255},
	Predator: {R: 255, A: 255},
	Prey:     {G: 255, A: 255},
}

// Color derives the display color from the type and health. Health is mapped
// onto a brightness factor of 0.25..1.0 across [0, maxHealth].
func (o Organism) Color(maxHealth int) color.RGBA {
	base := baseColors[Empty]
	if int(o.Type) < len(baseColors) {
		base = baseColors[o.Type]
	}
	if o.Type == Empty || maxHealth <= 0 {
		return base
	}
	factor := float64(o.Health)/float64(maxHealth)*0.75 + 0.25
	return color.RGBA{
		R: scaleChannel(base.R, factor),
		G: scaleChannel(base.G, factor),
		B: scaleChannel(base.B, factor),
		A: 255,
	}
}

func scaleChannel(v uint8, factor float64) uint8 {
	s := float64(v) * factor
	if s <= 0 {
		return 0
	}
	if s >= 255 {
		return 255
	}
	return uint8(s + 0.5)
}
