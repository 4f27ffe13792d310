// Package config loads the host's dimension and world configuration.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"voxelapi.dev/api/catalog"
	"voxelapi.dev/api/world"
	"voxelapi.dev/internal/protocol"
)

type Config struct {
	DefaultWorld string          `yaml:"default_world"`
	Dimensions   []DimensionSpec `yaml:"dimensions"`
	Worlds       []WorldSpec     `yaml:"worlds"`
}

type DimensionSpec struct {
	ID                   string `yaml:"id"`
	Name                 string `yaml:"name"`
	BaseType             string `yaml:"base_type,omitempty"`
	AllowsPlayerRespawns bool   `yaml:"allows_player_respawns"`
	MinimumSpawnHeight   int    `yaml:"minimum_spawn_height"`
	WaterEvaporates      bool   `yaml:"water_evaporates"`
	HasSky               bool   `yaml:"has_sky"`
	Height               int    `yaml:"height"`
	BuildHeight          int    `yaml:"build_height"`
	KeepSpawnLoaded      bool   `yaml:"keep_spawn_loaded"`
}

type WorldSpec struct {
	Name      string `yaml:"name"`
	Dimension string `yaml:"dimension"`
}

func Load(path string) (Config, error) {
	cfg := defaults()
	if strings.TrimSpace(path) == "" {
		cfg.Normalize()
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("dimensions.yaml: %w", err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("dimensions.yaml: %w", err)
	}
	return cfg, nil
}

// ValidateSchema checks the raw YAML document at path against a JSON schema.
func ValidateSchema(schemaPath, path string) error {
	s, err := jsonschema.Compile(schemaPath)
	if err != nil {
		return fmt.Errorf("compile %s: %w", schemaPath, err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var doc any
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	// Round-trip through JSON so the validator sees JSON types.
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func defaults() Config {
	cfg := Config{DefaultWorld: "world"}
	for _, d := range world.VanillaDimensions() {
		cfg.Dimensions = append(cfg.Dimensions, fromWorld(d))
	}
	cfg.Worlds = []WorldSpec{
		{Name: "world", Dimension: world.Overworld},
		{Name: "world_nether", Dimension: world.Nether},
		{Name: "world_the_end", Dimension: world.TheEnd},
	}
	return cfg
}

func fromWorld(d world.DimensionSpec) DimensionSpec {
	return DimensionSpec{
		ID:                   d.ID,
		Name:                 d.Name,
		BaseType:             d.BaseType,
		AllowsPlayerRespawns: d.AllowsPlayerRespawns,
		MinimumSpawnHeight:   d.MinimumSpawnHeight,
		WaterEvaporates:      d.WaterEvaporates,
		HasSky:               d.HasSky,
		Height:               d.Height,
		BuildHeight:          d.BuildHeight,
		KeepSpawnLoaded:      d.KeepSpawnLoaded,
	}
}

func (d DimensionSpec) toWorld() world.DimensionSpec {
	return world.DimensionSpec{
		ID:                   d.ID,
		Name:                 d.Name,
		BaseType:             d.BaseType,
		AllowsPlayerRespawns: d.AllowsPlayerRespawns,
		MinimumSpawnHeight:   d.MinimumSpawnHeight,
		WaterEvaporates:      d.WaterEvaporates,
		HasSky:               d.HasSky,
		Height:               d.Height,
		BuildHeight:          d.BuildHeight,
		KeepSpawnLoaded:      d.KeepSpawnLoaded,
	}
}

func (c *Config) Normalize() {
	if c == nil {
		return
	}
	for i := range c.Dimensions {
		d := &c.Dimensions[i]
		d.ID = strings.TrimSpace(d.ID)
		if strings.TrimSpace(d.Name) == "" {
			d.Name = d.ID
		}
		if d.BuildHeight == 0 {
			d.BuildHeight = 256
		}
		if d.Height == 0 {
			d.Height = d.BuildHeight
		}
	}
	for i := range c.Worlds {
		w := &c.Worlds[i]
		w.Name = strings.TrimSpace(w.Name)
		if w.Dimension == "" {
			w.Dimension = world.Overworld
		}
	}
	if c.DefaultWorld == "" && len(c.Worlds) > 0 {
		c.DefaultWorld = c.Worlds[0].Name
	}
}

func (c Config) Validate() error {
	c.Normalize()
	if len(c.Dimensions) == 0 {
		return fmt.Errorf("dimensions must not be empty")
	}
	seen := map[string]bool{}
	for _, d := range c.Dimensions {
		if d.ID == "" {
			return fmt.Errorf("dimension id must not be empty")
		}
		if seen[d.ID] {
			return fmt.Errorf("duplicate dimension id: %s", d.ID)
		}
		if d.BaseType != "" && d.BaseType != d.ID && !seen[d.BaseType] {
			return fmt.Errorf("dimension %s base_type %q must be declared before it", d.ID, d.BaseType)
		}
		seen[d.ID] = true
		if d.BuildHeight <= 0 {
			return fmt.Errorf("dimension %s build_height must be > 0", d.ID)
		}
		if d.Height <= 0 || d.Height > d.BuildHeight {
			return fmt.Errorf("dimension %s height must be in (0, build_height]", d.ID)
		}
		if d.MinimumSpawnHeight < 0 || d.MinimumSpawnHeight >= d.BuildHeight {
			return fmt.Errorf("dimension %s minimum_spawn_height must be in [0, build_height)", d.ID)
		}
	}
	if len(c.Worlds) == 0 {
		return fmt.Errorf("worlds must not be empty")
	}
	names := map[string]bool{}
	for _, w := range c.Worlds {
		if w.Name == "" {
			return fmt.Errorf("world name must not be empty")
		}
		if names[w.Name] {
			return fmt.Errorf("duplicate world name: %s", w.Name)
		}
		names[w.Name] = true
		if !seen[w.Dimension] {
			return fmt.Errorf("world %s dimension %q not found in dimensions", w.Name, w.Dimension)
		}
	}
	if !names[c.DefaultWorld] {
		return fmt.Errorf("default_world %q not found in worlds", c.DefaultWorld)
	}
	return nil
}

func (c Config) DimensionSpecs() []world.DimensionSpec {
	out := make([]world.DimensionSpec, 0, len(c.Dimensions))
	for _, d := range c.Dimensions {
		out = append(out, d.toWorld())
	}
	return out
}

// Registry builds the dimension type registry.
func (c Config) Registry() (*catalog.Registry[world.DimensionType], error) {
	return world.NewDimensionRegistry(c.DimensionSpecs())
}

// BuildWorlds creates one world value per configured world.
func (c Config) BuildWorlds(dims *catalog.Registry[world.DimensionType]) (map[string]world.World, error) {
	out := make(map[string]world.World, len(c.Worlds))
	for _, w := range c.Worlds {
		d, ok := dims.Get(w.Dimension)
		if !ok {
			return nil, fmt.Errorf("world %s: unknown dimension %q", w.Name, w.Dimension)
		}
		out[w.Name] = world.NewRef(w.Name, d)
	}
	return out, nil
}

// Manifest lists the dimension types for WELCOME messages.
func Manifest(dims *catalog.Registry[world.DimensionType]) []protocol.DimensionRef {
	all := dims.All()
	out := make([]protocol.DimensionRef, 0, len(all))
	for _, d := range all {
		out = append(out, protocol.DimensionRef{
			ID:                   d.ID(),
			Name:                 d.Name(),
			BaseType:             d.Type().ID(),
			AllowsPlayerRespawns: d.AllowsPlayerRespawns(),
			MinimumSpawnHeight:   d.MinimumSpawnHeight(),
			WaterEvaporates:      d.DoesWaterEvaporate(),
			HasSky:               d.HasSky(),
			Height:               d.Height(),
			BuildHeight:          d.BuildHeight(),
			KeepSpawnLoaded:      d.DoesKeepSpawnLoaded(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
