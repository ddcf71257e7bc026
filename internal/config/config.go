// Package config loads run configurations from YAML files. Documents are
// validated against an embedded JSON schema before they are decoded.
package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed schema/run.schema.json
var runSchemaText string

var runSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	return jsonschema.CompileString("run.schema.json", runSchemaText)
})

// Run describes a single simulation run.
type Run struct {
	Sim   string `yaml:"sim"`
	Seed  int64  `yaml:"seed"`
	Ticks int    `yaml:"ticks"`
	// TPS caps the tick rate; zero runs unthrottled.
	TPS int `yaml:"tps"`

	// Params is forwarded to the sim factory as flag-style strings.
	Params map[string]any `yaml:"params"`

	Output Output `yaml:"output"`
	Server Server `yaml:"server"`
}

// Output selects the persistence sinks of a run.
type Output struct {
	Dir           string `yaml:"dir"`
	SnapshotEvery int    `yaml:"snapshot_every"`
	TickLog       bool   `yaml:"tick_log"`
	StatsDB       string `yaml:"stats_db"`
}

// Server configures the voxel stream server.
type Server struct {
	Addr        string  `yaml:"addr"`
	CellSize    float32 `yaml:"cell_size"`
	Normals     bool    `yaml:"normals"`
	AllowRemote bool    `yaml:"allow_remote"`
}

// Default returns the configuration used when no file is given.
func Default() Run {
	return Run{
		Sim:   "predprey",
		Seed:  1337,
		Ticks: 1000,
		Output: Output{
			Dir: "data",
		},
		Server: Server{
			Addr:     "127.0.0.1:8080",
			CellSize: 1,
			Normals:  true,
		},
	}
}

// Load reads path and returns the merged configuration. An empty path yields
// Default().
func Load(path string) (Run, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Default(), err
	}
	cfg, err := Parse(raw)
	if err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse validates raw against the run schema and decodes it over Default().
func Parse(raw []byte) (Run, error) {
	cfg := Default()
	if err := validate(raw); err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("decode: %w", err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func validate(raw []byte) error {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if doc == nil {
		// Empty document.
		return nil
	}
	// The validator expects JSON-decoded values.
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("normalize: %w", err)
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("normalize: %w", err)
	}
	schema, err := runSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	return nil
}

// Normalize fills defaults that depend on other fields.
func (r *Run) Normalize() {
	r.Sim = strings.ToLower(strings.TrimSpace(r.Sim))
	if r.Server.CellSize <= 0 {
		r.Server.CellSize = 1
	}
	if r.Output.Dir == "" {
		r.Output.Dir = "."
	}
}

// Validate checks constraints the schema cannot express.
func (r Run) Validate() error {
	if r.Sim == "" {
		return fmt.Errorf("sim must not be empty")
	}
	if r.Output.SnapshotEvery > 0 && r.Ticks > 0 && r.Output.SnapshotEvery > r.Ticks {
		return fmt.Errorf("output.snapshot_every (%d) exceeds ticks (%d)", r.Output.SnapshotEvery, r.Ticks)
	}
	return nil
}

// ParamMap renders Params as the string map accepted by sim factories.
func (r Run) ParamMap() map[string]string {
	if len(r.Params) == 0 {
		return nil
	}
	out := make(map[string]string, len(r.Params))
	for k, v := range r.Params {
		switch t := v.(type) {
		case string:
			out[k] = t
		case int:
			out[k] = strconv.Itoa(t)
		case float64:
			out[k] = strconv.FormatFloat(t, 'f', -1, 64)
		case bool:
			out[k] = strconv.FormatBool(t)
		default:
			out[k] = fmt.Sprint(t)
		}
	}
	return out
}

// ParamKeys returns the configured parameter names in sorted order.
func (r Run) ParamKeys() []string {
	keys := make([]string, 0, len(r.Params))
	for k := range r.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
