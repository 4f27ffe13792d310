// Package entity defines the entity contract used by events.
package entity

import (
	"github.com/google/uuid"

	"voxelapi.dev/api/world"
)

// Entity is anything that lives in a world and is not a block.
type Entity interface {
	UniqueID() uuid.UUID
	// Type is the entity type id, e.g. "minecraft:creeper".
	Type() string
	Location() world.Location
}

// Ref is a plain snapshot of an entity.
type Ref struct {
	ID       uuid.UUID
	TypeID   string
	Position world.Location
}

func NewRef(typeID string, loc world.Location) Ref {
	return Ref{ID: uuid.New(), TypeID: typeID, Position: loc}
}

func (r Ref) UniqueID() uuid.UUID      { return r.ID }
func (r Ref) Type() string             { return r.TypeID }
func (r Ref) Location() world.Location { return r.Position }
