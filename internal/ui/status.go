package ui

import (
	"fmt"
	"strings"

	"automata/internal/core"
)

// Status is the engine state shown above the parameter controls.
type Status struct {
	Sim        string
	Index      int
	Count      int
	Tick       uint64
	Paused     bool
	Population core.Population
}

// Lines formats the status. Predator/prey variants report both species;
// every other automaton reports its living cells.
func (s Status) Lines() []string {
	lines := make([]string, 0, 4)
	head := fmt.Sprintf("Tick %d", s.Tick)
	if s.Count > 1 {
		head = fmt.Sprintf("%s  [%d/%d]", head, s.Index+1, s.Count)
	}
	lines = append(lines, head)
	if strings.HasPrefix(s.Sim, "predprey") {
		lines = append(lines,
			fmt.Sprintf("Predators: %d", s.Population.Predators),
			fmt.Sprintf("Prey: %d", s.Population.Prey))
	} else {
		lines = append(lines, fmt.Sprintf("Alive: %d", s.Population.Living))
	}
	if s.Paused {
		lines = append(lines, "Paused")
	}
	return lines
}
