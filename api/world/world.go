package world

import (
	"fmt"

	"github.com/google/uuid"

	"voxelapi.dev/api/lattice"
)

// World is a loaded world. Implementations are provided by the host.
type World interface {
	Name() string
	UniqueID() uuid.UUID
	Dimension() DimensionType
}

// Location is a block position inside a world.
type Location struct {
	World    World
	Position lattice.Vec3i
}

func NewLocation(w World, pos lattice.Vec3i) Location {
	return Location{World: w, Position: pos}
}

func (l Location) BlockPosition() lattice.Vec3i { return l.Position }

// Relative returns the location offset by d in the same world.
func (l Location) Relative(d lattice.Vec3i) Location {
	return Location{World: l.World, Position: l.Position.Add(d)}
}

// Within reports whether the position lies in the buildable range of the
// world's dimension.
func (l Location) Within() bool {
	if l.World == nil || l.World.Dimension() == nil {
		return false
	}
	return l.Position.Y >= 0 && l.Position.Y < l.World.Dimension().BuildHeight()
}

func (l Location) String() string {
	name := "<nil>"
	if l.World != nil {
		name = l.World.Name()
	}
	return fmt.Sprintf("%s@%s", name, l.Position)
}

// Ref is a plain World value for hosts and tests that have no richer world
// object at hand.
type Ref struct {
	WorldName string
	ID        uuid.UUID
	Dim       DimensionType
}

// NewRef returns a world with a random unique id.
func NewRef(name string, dim DimensionType) *Ref {
	return &Ref{WorldName: name, ID: uuid.New(), Dim: dim}
}

func (r *Ref) Name() string             { return r.WorldName }
func (r *Ref) UniqueID() uuid.UUID      { return r.ID }
func (r *Ref) Dimension() DimensionType { return r.Dim }
