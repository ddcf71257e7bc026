package evolution

import (
	"image/color"
	"math"
)

// Type is the life state of a cell.
type Type uint8

const (
	Dead Type = iota
	Alive
)

func (t Type) String() string {
	if t == Alive {
		return "alive"
	}
	return "dead"
}

// Organism is the state of a single cell. The zero value is a dead cell.
type Organism struct {
	Type   Type
	Genome Genome
	Health int
	// Timer counts the turns taken since the last reproduction.
	Timer int
}

// Color returns the genome as an opaque RGB color; dead cells are black.
func (o Organism) Color() color.RGBA {
	if o.Type != Alive {
		return color.RGBA{A: 255}
	}
	return color.RGBA{R: unit(o.Genome.R), G: unit(o.Genome.G), B: unit(o.Genome.B), A: 255}
}

func unit(v float32) uint8 {
	return uint8(math.Round(float64(clampTrait(v)) * 255))
}

// damage lowers health and kills the organism at zero or below.
func (o Organism) damage(n int) Organism {
	o.Health -= n
	if o.Health <= 0 {
		return Organism{}
	}
	return o
}
