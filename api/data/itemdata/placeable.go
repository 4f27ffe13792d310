// Package itemdata holds data manipulators attached to item stacks.
package itemdata

import (
	"encoding/json"
	"fmt"
	"sort"

	"voxelapi.dev/api/block"
	"voxelapi.dev/api/data"
)

// PlaceableKey keys the set of block types an item may be placed on.
var PlaceableKey = data.Key{ID: "placeable_blocks", Name: "Placeable"}

// ImmutablePlaceableData is the set of block types the owning item stack may
// be placed on. When an item that places as a block carries this data, it
// can only be placed on the listed block types.
type ImmutablePlaceableData interface {
	Placeable() data.ImmutableSetValue[block.Type]
	AsMutable() PlaceableData
	Keys() []data.Key
	Values() []data.KeyedValue
}

// PlaceableData is the mutable counterpart of ImmutablePlaceableData.
type PlaceableData interface {
	Placeable() []block.Type
	SetPlaceable(types ...block.Type)
	Add(types ...block.Type)
	Remove(types ...block.Type)
	AsImmutable() ImmutablePlaceableData
	Copy() PlaceableData
	Keys() []data.Key
	Values() []data.KeyedValue
}

var (
	_ data.ImmutableDataManipulator[ImmutablePlaceableData, PlaceableData] = immutablePlaceable{}
	_ data.DataManipulator[PlaceableData, ImmutablePlaceableData]          = (*placeable)(nil)
)

func NewImmutablePlaceableData(types ...block.Type) ImmutablePlaceableData {
	return immutablePlaceable{v: data.NewImmutableSetValue(PlaceableKey, nil, types...)}
}

func NewPlaceableData(types ...block.Type) PlaceableData {
	p := &placeable{}
	p.SetPlaceable(types...)
	return p
}

type immutablePlaceable struct {
	v data.ImmutableSetValue[block.Type]
}

func (p immutablePlaceable) Placeable() data.ImmutableSetValue[block.Type] { return p.v }
func (p immutablePlaceable) Keys() []data.Key                               { return []data.Key{PlaceableKey} }
func (p immutablePlaceable) Values() []data.KeyedValue                      { return []data.KeyedValue{p.v} }

func (p immutablePlaceable) AsMutable() PlaceableData {
	return NewPlaceableData(p.v.Get()...)
}

// MarshalJSON writes the sorted block ids.
func (p immutablePlaceable) MarshalJSON() ([]byte, error) {
	return json.Marshal(placeableJSON{Placeable: blockIDs(p.v.Get())})
}

type placeable struct {
	v data.ImmutableSetValue[block.Type]
}

func (p *placeable) Placeable() []block.Type { return p.v.Get() }

func (p *placeable) SetPlaceable(types ...block.Type) {
	p.v = data.NewImmutableSetValue(PlaceableKey, nil, types...)
}

func (p *placeable) Add(types ...block.Type)    { p.v = p.v.With(types...) }
func (p *placeable) Remove(types ...block.Type) { p.v = p.v.Without(types...) }
func (p *placeable) Keys() []data.Key           { return []data.Key{PlaceableKey} }
func (p *placeable) Values() []data.KeyedValue  { return []data.KeyedValue{p.v} }

func (p *placeable) AsImmutable() ImmutablePlaceableData { return immutablePlaceable{v: p.v} }

func (p *placeable) Copy() PlaceableData { return &placeable{v: p.v} }

// CanPlaceOn reports whether an item carrying d may be placed on target. Items
// without placeable data are unrestricted.
func CanPlaceOn(d ImmutablePlaceableData, target block.Type) bool {
	if d == nil {
		return true
	}
	if target == nil {
		return false
	}
	for _, b := range d.Placeable().Get() {
		if b.ID() == target.ID() {
			return true
		}
	}
	return false
}

type placeableJSON struct {
	Placeable []string `json:"placeable"`
}

func blockIDs(types []block.Type) []string {
	ids := make([]string, 0, len(types))
	for _, t := range types {
		ids = append(ids, t.ID())
	}
	sort.Strings(ids)
	return ids
}

// DecodePlaceable parses the JSON form, resolving ids through lookup.
func DecodePlaceable(raw []byte, lookup func(id string) (block.Type, bool)) (ImmutablePlaceableData, error) {
	var in placeableJSON
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("placeable data: %w", err)
	}
	return PlaceableFromIDs(in.Placeable, lookup)
}

// PlaceableFromIDs resolves block ids into placeable data.
func PlaceableFromIDs(ids []string, lookup func(id string) (block.Type, bool)) (ImmutablePlaceableData, error) {
	types := make([]block.Type, 0, len(ids))
	for _, id := range ids {
		b, ok := lookup(id)
		if !ok {
			return nil, fmt.Errorf("placeable data: unknown block %q", id)
		}
		types = append(types, b)
	}
	return NewImmutablePlaceableData(types...), nil
}
