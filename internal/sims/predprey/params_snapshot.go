package predprey

import "automata/internal/core"

// Parameters exposes the current tunables for the HUD.
func (w *World) Parameters() core.ParameterSnapshot {
	p := w.cfg.Params
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "World",
			Params: []core.Parameter{
				core.IntParam("w", "Width", w.dims.W),
				core.IntParam("h", "Height", w.dims.H),
				core.IntParam("d", "Depth", w.dims.D),
				core.BoolParam("sparse", "Sparse", w.cfg.Sparse),
				core.Int64Param("seed", "Seed", w.cfg.Seed),
			},
		},
		{
			Name: "Health",
			Params: []core.Parameter{
				core.IntParam("max_health", "Max health", p.MaxHealth),
				core.IntParam("start_health", "Start health", p.StartHealth),
			},
		},
		{
			Name:    "Initial fill",
			Summary: "Relative weights applied on reset",
			Params: []core.Parameter{
				core.IntParam("predator_weight", "Predator weight", p.PredatorWeight),
				core.IntParam("prey_weight", "Prey weight", p.PreyWeight),
				core.IntParam("empty_weight", "Empty weight", p.EmptyWeight),
			},
		},
	}}
}

// ParameterControls lists the HUD-adjustable parameters.
func (w *World) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "max_health", Label: "Max health", Type: core.ParamTypeInt, Step: 10, Min: 10, Max: 1000, HasMin: true, HasMax: true},
		{Key: "start_health", Label: "Start health", Type: core.ParamTypeInt, Step: 1, Min: 0, Max: 100, HasMin: true, HasMax: true},
		{Key: "predator_weight", Label: "Predator weight", Type: core.ParamTypeInt, Step: 10, Min: 0, HasMin: true},
		{Key: "prey_weight", Label: "Prey weight", Type: core.ParamTypeInt, Step: 10, Min: 0, HasMin: true},
	}
}

// SetIntParameter updates an integer tunable. Health constants apply from the
// next pass; weights apply from the next Reset.
func (w *World) SetIntParameter(key string, value int) bool {
	p := &w.cfg.Params
	switch key {
	case "max_health":
		if value <= 0 {
			return false
		}
		p.MaxHealth = value
	case "start_health":
		if value < 0 {
			return false
		}
		p.StartHealth = value
	case "predator_weight":
		if value < 0 {
			return false
		}
		p.PredatorWeight = value
	case "prey_weight":
		if value < 0 {
			return false
		}
		p.PreyWeight = value
	case "empty_weight":
		if value < 0 {
			return false
		}
		p.EmptyWeight = value
	default:
		return false
	}
	w.rules = Rules{MaxHealth: p.MaxHealth, StartHealth: p.StartHealth}
	return true
}
