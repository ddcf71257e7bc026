package evolution

import "strconv"

// Params holds the tunables of the evolutionary rule.
type Params struct {
	// BaseThreshold is divided by the reproductive-rate trait to obtain the
	// per-organism reproduction delay.
	BaseThreshold int
	// Epsilon is the largest genome distance (exclusive) allowed between mates.
	Epsilon float64

	InitialHealth         int
	ReproductionCost      int
	IncompatibilityDamage int

	MutationRange      float32
	MutationMultiplier float32

	// InitialGenome is the gray level of every organism placed on Reset.
	InitialGenome float32

	AliveWeight int
	DeadWeight  int
}

// Config controls the grid dimensions of an evolutionary world.
type Config struct {
	Width  int
	Height int
	Depth  int

	Fill bool
	Seed int64

	Params Params
}

// DefaultParams returns the standard rule constants.
func DefaultParams() Params {
	return Params{
		BaseThreshold:         50,
		Epsilon:               0.01,
		InitialHealth:         75,
		ReproductionCost:      2,
		IncompatibilityDamage: 5000,
		MutationRange:         0.1,
		MutationMultiplier:    1.0,
		InitialGenome:         0.7,
		AliveWeight:           100,
		DeadWeight:            900,
	}
}

// DefaultConfig returns the standard 2D configuration.
func DefaultConfig() Config {
	return Config{
		Width:  256,
		Height: 256,
		Depth:  1,
		Fill:   true,
		Seed:   1337,
		Params: DefaultParams(),
	}
}

// FromMap populates the config from a string map (flag-style key/value pairs).
func FromMap(base Config, cfg map[string]string) Config {
	c := base
	if cfg == nil {
		return c
	}
	ints := map[string]*int{
		"w":                      &c.Width,
		"h":                      &c.Height,
		"d":                      &c.Depth,
		"base_threshold":         &c.Params.BaseThreshold,
		"initial_health":         &c.Params.InitialHealth,
		"reproduction_cost":      &c.Params.ReproductionCost,
		"incompatibility_damage": &c.Params.IncompatibilityDamage,
		"alive_weight":           &c.Params.AliveWeight,
		"dead_weight":            &c.Params.DeadWeight,
	}
	for key, dst := range ints {
		if v, ok := cfg[key]; ok {
			if parsed, err := strconv.Atoi(v); err == nil {
				*dst = parsed
			}
		}
	}
	floats := map[string]*float32{
		"mutation_range":      &c.Params.MutationRange,
		"mutation_multiplier": &c.Params.MutationMultiplier,
		"initial_genome":      &c.Params.InitialGenome,
	}
	for key, dst := range floats {
		if v, ok := cfg[key]; ok {
			if parsed, err := strconv.ParseFloat(v, 32); err == nil {
				*dst = float32(parsed)
			}
		}
	}
	if v, ok := cfg["epsilon"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.Params.Epsilon = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["fill"]; ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			c.Fill = parsed
		}
	}
	return c
}
