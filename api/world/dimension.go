// Package world defines dimensions, worlds and locations.
package world

import (
	"sync"

	"voxelapi.dev/api/catalog"
)

// Context is a key/value pair that permission services use to scope
// permissions, e.g. {"dimension", "minecraft:nether"}.
type Context struct {
	Key   string
	Value string
}

// Contextual is implemented by values that can act as a permission context.
type Contextual interface {
	Context() Context
}

// DimensionType describes the dimension of a World.
type DimensionType interface {
	catalog.Type
	Contextual

	// AllowsPlayerRespawns reports whether players can respawn within the
	// dimension after death.
	AllowsPlayerRespawns() bool
	SetAllowsPlayerRespawns(allow bool)

	MinimumSpawnHeight() int

	DoesWaterEvaporate() bool
	SetWaterEvaporates(evaporates bool)

	// HasSky reports whether the dimension has a sky (no bedrock ceiling).
	HasSky() bool

	// Type returns the base dimension type this one derives from. Built-in
	// types return themselves.
	Type() DimensionType

	// Height is the highest naturally generated y coordinate. Usually 128
	// without sky, 256 with sky.
	Height() int

	// BuildHeight is the maximum y coordinate a non-air block can exist at.
	BuildHeight() int

	// DoesKeepSpawnLoaded reports whether spawn chunks remain loaded with no
	// players present.
	DoesKeepSpawnLoaded() bool
}

// DimensionSpec is the static description of a dimension type.
type DimensionSpec struct {
	ID                   string
	Name                 string
	BaseType             string
	AllowsPlayerRespawns bool
	MinimumSpawnHeight   int
	WaterEvaporates      bool
	HasSky               bool
	Height               int
	BuildHeight          int
	KeepSpawnLoaded      bool
}

// Dimension is the default DimensionType. The respawn and evaporation flags
// may be changed at runtime; everything else is fixed.
type Dimension struct {
	spec DimensionSpec
	base DimensionType

	mu              sync.RWMutex
	respawns        bool
	waterEvaporates bool
}

// NewDimension builds a dimension type from spec. base is the type it
// derives from; nil means the dimension is its own base type.
func NewDimension(spec DimensionSpec, base DimensionType) *Dimension {
	if spec.Name == "" {
		spec.Name = spec.ID
	}
	return &Dimension{
		spec:            spec,
		base:            base,
		respawns:        spec.AllowsPlayerRespawns,
		waterEvaporates: spec.WaterEvaporates,
	}
}

func (d *Dimension) ID() string   { return d.spec.ID }
func (d *Dimension) Name() string { return d.spec.Name }

func (d *Dimension) Context() Context {
	return Context{Key: "dimension", Value: d.spec.ID}
}

func (d *Dimension) AllowsPlayerRespawns() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.respawns
}

func (d *Dimension) SetAllowsPlayerRespawns(allow bool) {
	d.mu.Lock()
	d.respawns = allow
	d.mu.Unlock()
}

func (d *Dimension) MinimumSpawnHeight() int { return d.spec.MinimumSpawnHeight }

func (d *Dimension) DoesWaterEvaporate() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.waterEvaporates
}

func (d *Dimension) SetWaterEvaporates(evaporates bool) {
	d.mu.Lock()
	d.waterEvaporates = evaporates
	d.mu.Unlock()
}

func (d *Dimension) HasSky() bool { return d.spec.HasSky }

func (d *Dimension) Type() DimensionType {
	if d.base == nil {
		return d
	}
	return d.base
}

func (d *Dimension) Height() int               { return d.spec.Height }
func (d *Dimension) BuildHeight() int          { return d.spec.BuildHeight }
func (d *Dimension) DoesKeepSpawnLoaded() bool { return d.spec.KeepSpawnLoaded }

// Spec returns the current state as a spec, including runtime flag changes.
func (d *Dimension) Spec() DimensionSpec {
	s := d.spec
	s.AllowsPlayerRespawns = d.AllowsPlayerRespawns()
	s.WaterEvaporates = d.DoesWaterEvaporate()
	return s
}
