// Package item defines item types and item stacks.
package item

import (
	"errors"
	"fmt"

	"voxelapi.dev/api/block"
	"voxelapi.dev/api/catalog"
	"voxelapi.dev/api/data/itemdata"
)

// Type is a kind of item.
type Type interface {
	catalog.Type
	// Kind is one of "BLOCK", "TOOL", "MATERIAL", "FOOD".
	Kind() string
	// PlacesAs returns the block id the item places as, if any.
	PlacesAs() (string, bool)
	MaxStackQuantity() int
}

// Def is the plain value implementation of Type.
type Def struct {
	ItemID   string `json:"id"`
	ItemKind string `json:"kind"`
	PlaceAs  string `json:"place_as,omitempty"`
	MaxStack int    `json:"max_stack,omitempty"`
}

func (d Def) ID() string   { return d.ItemID }
func (d Def) Name() string { return d.ItemID }
func (d Def) Kind() string { return d.ItemKind }

func (d Def) PlacesAs() (string, bool) { return d.PlaceAs, d.PlaceAs != "" }

func (d Def) MaxStackQuantity() int {
	if d.MaxStack <= 0 {
		return 64
	}
	return d.MaxStack
}

func NewRegistry() *catalog.Registry[Type] {
	return catalog.NewRegistry[Type]("item", "")
}

var (
	ErrBadQuantity  = errors.New("item: quantity out of range")
	ErrNotPlaceable    = errors.New("item: does not place as a block")
	ErrNoTarget        = errors.New("item: placement target is required")
	ErrPlacementDenied = errors.New("item: placement not allowed on target")
)

// Stack is an immutable quantity of one item type plus its data.
type Stack struct {
	typ       Type
	quantity  int
	placeable itemdata.ImmutablePlaceableData
}

func NewStack(t Type, quantity int) (Stack, error) {
	if quantity <= 0 || quantity > t.MaxStackQuantity() {
		return Stack{}, fmt.Errorf("%w: %d not in [1, %d]", ErrBadQuantity, quantity, t.MaxStackQuantity())
	}
	return Stack{typ: t, quantity: quantity}, nil
}

func (s Stack) Type() Type    { return s.typ }
func (s Stack) Quantity() int { return s.quantity }

// Placeable returns the attached placeable data, or nil.
func (s Stack) Placeable() itemdata.ImmutablePlaceableData { return s.placeable }

// WithPlaceable returns a copy of the stack carrying d. A nil d removes the
// data.
func (s Stack) WithPlaceable(d itemdata.ImmutablePlaceableData) Stack {
	s.placeable = d
	return s
}

// CheckPlacement validates placing the stack's block onto target.
func (s Stack) CheckPlacement(target block.Type) error {
	if _, ok := s.typ.PlacesAs(); !ok {
		return fmt.Errorf("%w: %s", ErrNotPlaceable, s.typ.ID())
	}
	if target == nil {
		return fmt.Errorf("%w: %s", ErrNoTarget, s.typ.ID())
	}
	if !itemdata.CanPlaceOn(s.placeable, target) {
		return fmt.Errorf("%w: %s on %s", ErrPlacementDenied, s.typ.ID(), target.ID())
	}
	return nil
}
