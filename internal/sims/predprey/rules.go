package predprey

// Rules holds the constants of the interaction rule.
type Rules struct {
	MaxHealth   int
	StartHealth int
}

// Apply resolves one turn of actor against neighbour and returns their new
// states. It never mutates its inputs.
func (r Rules) Apply(actor, neighbour Organism) (Organism, Organism) {
	switch actor.Type {
	case Predator:
		return r.predator(actor, neighbour)
	case Prey:
		return r.prey(actor, neighbour)
	default:
		return actor, neighbour
	}
}

func (r Rules) predator(actor, neighbour Organism) (Organism, Organism) {
	actor = actor.withHealth(actor.Health - 1)
	if actor.Type == Empty {
		// Starved this turn.
		return actor, neighbour
	}
	switch neighbour.Type {
	case Prey:
		neighbour = NewOrganism(Predator, neighbour.Health)
		actor = actor.withHealth(actor.Health + neighbour.Health)
	case Empty:
		return EmptyCell(), actor
	}
	return actor, neighbour
}

func (r Rules) prey(actor, neighbour Organism) (Organism, Organism) {
	actor = actor.withHealth(actor.Health + 1)
	if neighbour.Type != Empty {
		return actor, neighbour
	}
	if actor.Health > r.MaxHealth {
		return NewOrganism(Prey, r.StartHealth), NewOrganism(Prey, r.StartHealth)
	}
	return EmptyCell(), actor
}
