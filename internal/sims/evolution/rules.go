package evolution

import "math"

// Threshold is the number of turns an organism with genome g must wait
// between reproductions.
func (p Params) Threshold(g Genome) int {
	return int(math.Ceil(float64(p.BaseThreshold) / float64(clampTrait(g.G))))
}

// ReproductionCostFor is the health paid by the acting parent.
func (p Params) ReproductionCostFor(g Genome) int {
	return int(math.Ceil(float64(p.ReproductionCost) / float64(clampTrait(g.B))))
}

// IncompatibilityDamageFor is the damage taken when trying to mate with an
// incompatible partner.
func (p Params) IncompatibilityDamageFor(g Genome) int {
	return int(float64(p.IncompatibilityDamage) / float64(clampTrait(g.R)))
}

// CanReproduce reports whether o has waited long enough to mate.
func (p Params) CanReproduce(o Organism) bool {
	return o.Type == Alive && o.Timer > p.Threshold(o.Genome)
}

// Compatible reports whether a and b are genetically close enough to mate.
func (p Params) Compatible(a, b Organism) bool {
	return a.Genome.Distance(b.Genome) < p.Epsilon
}
