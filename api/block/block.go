// Package block defines block types.
package block

import "voxelapi.dev/api/catalog"

// AirID is the id of the empty block. It is palette index 0 everywhere.
const AirID = "AIR"

// Type is a kind of block, e.g. stone or dirt.
type Type interface {
	catalog.Type
	Solid() bool
	Breakable() bool
}

// Def is the plain value implementation of Type.
type Def struct {
	BlockID     string `json:"id"`
	DisplayName string `json:"name,omitempty"`
	IsSolid     bool   `json:"solid"`
	IsBreakable bool   `json:"breakable"`
	DropsItem   string `json:"drops_item,omitempty"`
}

func (d Def) ID() string { return d.BlockID }

func (d Def) Name() string {
	if d.DisplayName != "" {
		return d.DisplayName
	}
	return d.BlockID
}

func (d Def) Solid() bool     { return d.IsSolid }
func (d Def) Breakable() bool { return d.IsBreakable }

// Air is the default empty block.
var Air Type = Def{BlockID: AirID, DisplayName: "Air"}

// NewRegistry returns a block registry with AIR pre-registered.
func NewRegistry() *catalog.Registry[Type] {
	r := catalog.NewRegistry[Type]("block", AirID)
	_ = r.Register(Air)
	return r
}
