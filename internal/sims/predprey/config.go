package predprey

import "strconv"

// Params holds the rule constants and the initial type distribution.
type Params struct {
	MaxHealth   int
	StartHealth int

	// Relative weights used when filling the grid.
	PredatorWeight int
	PreyWeight     int
	EmptyWeight    int
}

// Config controls the grid dimensions and storage of a predator/prey world.
type Config struct {
	Width  int
	Height int
	Depth  int

	// Sparse stores only occupied cells. Only meaningful for 3D grids.
	Sparse bool
	// Fill seeds the grid with random organisms on Reset.
	Fill bool

	Seed int64

	Params Params
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

// Default3DConfig returns the standard sparse 3D configuration.
func Default3DConfig() Config {
	c := DefaultConfig()
	c.Width, c.Height, c.Depth = 32, 32, 32
	c.Sparse = true
	return c
}

// DefaultParams returns the rule constants and a 5% / 5% / 90% distribution.
func DefaultParams() Params {
	return Params{
		MaxHealth:      100,
		StartHealth:    10,
		PredatorWeight: 50,
		PreyWeight:     50,
		EmptyWeight:    900,
	}
}

// FromMap populates the config from a string map (flag-style key/value pairs).
// Dimensions are passed through unvalidated; New rejects bad ones.
func FromMap(base Config, cfg map[string]string) Config {
	c := base
	if cfg == nil {
		return c
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.Height = parsed
		}
	}
	if v, ok := cfg["d"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.Depth = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["sparse"]; ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			c.Sparse = parsed
		}
	}
	if v, ok := cfg["fill"]; ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			c.Fill = parsed
		}
	}
	if v, ok := cfg["max_health"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Params.MaxHealth = parsed
		}
	}
	if v, ok := cfg["start_health"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Params.StartHealth = parsed
		}
	}
	if v, ok := cfg["predator_weight"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Params.PredatorWeight = parsed
		}
	}
	if v, ok := cfg["prey_weight"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Params.PreyWeight = parsed
		}
	}
	if v, ok := cfg["empty_weight"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Params.EmptyWeight = parsed
		}
	}
	return c
}
