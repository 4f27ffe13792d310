package world

import (
	"fmt"

	"voxelapi.dev/api/catalog"
)

// Well-known dimension type ids.
const (
	Overworld = "minecraft:overworld"
	Nether    = "minecraft:nether"
	TheEnd    = "minecraft:the_end"
)

// VanillaDimensions returns the built-in dimension specs.
func VanillaDimensions() []DimensionSpec {
	return []DimensionSpec{
		{
			ID: Overworld, Name: "Overworld",
			AllowsPlayerRespawns: true, MinimumSpawnHeight: 64,
			HasSky: true, Height: 256, BuildHeight: 256, KeepSpawnLoaded: true,
		},
		{
			ID: Nether, Name: "Nether",
			MinimumSpawnHeight: 0, WaterEvaporates: true,
			HasSky: false, Height: 128, BuildHeight: 256,
		},
		{
			ID: TheEnd, Name: "The End",
			MinimumSpawnHeight: 50,
			HasSky: false, Height: 256, BuildHeight: 256,
		},
	}
}

// NewDimensionRegistry registers specs in order. A spec whose BaseType names
// an already registered type derives from it.
func NewDimensionRegistry(specs []DimensionSpec) (*catalog.Registry[DimensionType], error) {
	r := catalog.NewRegistry[DimensionType]("dimension", Overworld)
	for _, s := range specs {
		var base DimensionType
		if s.BaseType != "" && s.BaseType != s.ID {
			b, ok := r.Get(s.BaseType)
			if !ok {
				return nil, fmt.Errorf("dimension %s: unknown base type %q", s.ID, s.BaseType)
			}
			base = b.Type()
		}
		if err := r.Register(NewDimension(s, base)); err != nil {
			return nil, err
		}
	}
	return r, nil
}
