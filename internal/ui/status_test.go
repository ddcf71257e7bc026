package ui

import (
	"reflect"
	"testing"

	"automata/internal/core"
)

func TestStatusLines(t *testing.T) {
	tests := []struct {
		name   string
		status Status
		want   []string
	}{
		{
			name:   "predprey",
			status: Status{Sim: "predprey3d", Count: 1, Tick: 12, Population: core.Population{Predators: 3, Prey: 5, Living: 8}},
			want:   []string{"Tick 12", "Predators: 3", "Prey: 5"},
		},
		{
			name:   "evolution paused",
			status: Status{Sim: "evolution", Index: 1, Count: 2, Tick: 4, Paused: true, Population: core.Population{Living: 9}},
			want:   []string{"Tick 4  [2/2]", "Alive: 9", "Paused"},
		},
	}
	for _, tt := range tests {
		if got := tt.status.Lines(); !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("%s: lines = %q, want %q", tt.name, got, tt.want)
		}
	}
}
