package evolution

import "automata/internal/core"

// Parameters exposes the current tunables for the HUD.
func (w *World) Parameters() core.ParameterSnapshot {
	p := w.cfg.Params
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "Reproduction",
			Params: []core.Parameter{
				core.IntParam("base_threshold", "Base threshold", p.BaseThreshold),
				core.IntParam("reproduction_cost", "Cost", p.ReproductionCost),
				core.FloatParam("epsilon", "Max distance", p.Epsilon),
			},
		},
		{
			Name:    "Mutation",
			Summary: "Zero-sum shift across the three traits",
			Params: []core.Parameter{
				core.FloatParam("mutation_range", "Range", float64(p.MutationRange)),
				core.FloatParam("mutation_multiplier", "Multiplier", float64(p.MutationMultiplier)),
			},
		},
		{
			Name: "Health",
			Params: []core.Parameter{
				core.IntParam("initial_health", "Initial", p.InitialHealth),
				core.IntParam("incompatibility_damage", "Incompatibility", p.IncompatibilityDamage),
			},
		},
	}}
}

// ParameterControls lists the HUD-adjustable parameters.
func (w *World) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "base_threshold", Label: "Base threshold", Type: core.ParamTypeInt, Step: 5, Min: 0, HasMin: true},
		{Key: "mutation_range", Label: "Mutation range", Type: core.ParamTypeFloat, Step: 0.01, Min: 0, Max: 0.6, HasMin: true, HasMax: true},
		{Key: "mutation_multiplier", Label: "Mutation multiplier", Type: core.ParamTypeFloat, Step: 0.1, Min: 0, Max: 4, HasMin: true, HasMax: true},
		{Key: "epsilon", Label: "Max distance", Type: core.ParamTypeFloat, Step: 0.005, Min: 0.001, Max: 1.8, HasMin: true, HasMax: true},
	}
}

// SetIntParameter updates an integer tunable.
func (w *World) SetIntParameter(key string, value int) bool {
	p := &w.cfg.Params
	if value < 0 {
		return false
	}
	switch key {
	case "base_threshold":
		if value == 0 {
			return false
		}
		p.BaseThreshold = value
	case "reproduction_cost":
		p.ReproductionCost = value
	case "incompatibility_damage":
		p.IncompatibilityDamage = value
	case "initial_health":
		if value == 0 {
			return false
		}
		p.InitialHealth = value
	default:
		return false
	}
	return true
}

// SetFloatParameter updates a floating point tunable.
func (w *World) SetFloatParameter(key string, value float64) bool {
	p := &w.cfg.Params
	switch key {
	case "mutation_range":
		if value < 0 {
			return false
		}
		p.MutationRange = float32(value)
	case "mutation_multiplier":
		if value < 0 {
			return false
		}
		p.MutationMultiplier = float32(value)
	case "epsilon":
		if value <= 0 {
			return false
		}
		p.Epsilon = value
	default:
		return false
	}
	return true
}
