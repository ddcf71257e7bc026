package evolution

import (
	"math"

	"automata/internal/core"
)

// Genome limits. Every component of a living genome stays within
// [GenomeMin, GenomeMax].
const (
	GenomeMin float32 = 0.4
	GenomeMax float32 = 1.0
)

// Genome encodes fitness traits as color channels: R is damage resistance,
// G is reproductive rate and B is reproduction cost resistance.
type Genome struct {
	R, G, B float32
}

// Gray returns a genome with all three channels set to v, clamped.
func Gray(v float32) Genome { return Genome{R: v, G: v, B: v}.Clamp() }

// Clamp limits every channel to [GenomeMin, GenomeMax].
func (g Genome) Clamp() Genome {
	return Genome{R: clampTrait(g.R), G: clampTrait(g.G), B: clampTrait(g.B)}
}

func clampTrait(v float32) float32 {
	if v < GenomeMin {
		return GenomeMin
	}
	if v > GenomeMax {
		return GenomeMax
	}
	return v
}

// Distance is the Euclidean distance between two genomes.
func (g Genome) Distance(o Genome) float64 {
	dr := float64(g.R - o.R)
	dg := float64(g.G - o.G)
	db := float64(g.B - o.B)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// Average returns the channel-wise midpoint of g and o.
func (g Genome) Average(o Genome) Genome {
	return Genome{R: (g.R + o.R) / 2, G: (g.G + o.G) / 2, B: (g.B + o.B) / 2}
}

func (g *Genome) channel(i int) *float32 {
	switch i {
	case 0:
		return &g.R
	case 1:
		return &g.G
	default:
		return &g.B
	}
}

// Mutate applies a zero-sum change to g: a random channel gains d, a second
// loses d*multiplier and the third absorbs d*multiplier-d, with d drawn from
// [0, spread). The result is clamped, so the sum is only preserved while no
// channel hits a limit.
func Mutate(g Genome, rng *core.RNG, spread, multiplier float32) Genome {
	if spread <= 0 {
		return g.Clamp()
	}
	order := rng.Perm(3)
	d := rng.Float32() * spread
	*g.channel(order[0]) += d
	*g.channel(order[1]) -= d * multiplier
	*g.channel(order[2]) += d*multiplier - d
	return g.Clamp()
}
