package event

import (
	"voxelapi.dev/api/entity"
	"voxelapi.dev/api/world"
	"voxelapi.dev/api/world/explosion"
)

type worldOnExplosion struct {
	cause     Cause
	explosion explosion.Explosion
	cancelled bool

	originalLocations []world.Location
	originalEntities  []entity.Entity
	locations         []world.Location
	entities          []entity.Entity
}

// NewWorldOnExplosion is the default WorldOnExplosionEvent for hosts. The
// slices are copied.
func NewWorldOnExplosion(cause Cause, ex explosion.Explosion, locations []world.Location, entities []entity.Entity) WorldOnExplosionEvent {
	return &worldOnExplosion{
		cause:             cause,
		explosion:         ex,
		originalLocations: append([]world.Location(nil), locations...),
		originalEntities:  append([]entity.Entity(nil), entities...),
		locations:         append([]world.Location(nil), locations...),
		entities:          append([]entity.Entity(nil), entities...),
	}
}

func (e *worldOnExplosion) Cause() Cause                   { return e.cause }
func (e *worldOnExplosion) World() world.World              { return e.explosion.World() }
func (e *worldOnExplosion) Explosion() explosion.Explosion  { return e.explosion }
func (e *worldOnExplosion) IsCancelled() bool               { return e.cancelled }
func (e *worldOnExplosion) SetCancelled(cancel bool)        { e.cancelled = cancel }

func (e *worldOnExplosion) OriginalLocations() []world.Location {
	return append([]world.Location(nil), e.originalLocations...)
}

func (e *worldOnExplosion) OriginalEntities() []entity.Entity {
	return append([]entity.Entity(nil), e.originalEntities...)
}

func (e *worldOnExplosion) Locations() []world.Location {
	return append([]world.Location(nil), e.locations...)
}

func (e *worldOnExplosion) Entities() []entity.Entity {
	return append([]entity.Entity(nil), e.entities...)
}

func (e *worldOnExplosion) FilterLocations(keep func(world.Location) bool) []world.Location {
	var kept, removed []world.Location
	for _, l := range e.locations {
		if keep(l) {
			kept = append(kept, l)
		} else {
			removed = append(removed, l)
		}
	}
	e.locations = kept
	return removed
}

func (e *worldOnExplosion) FilterEntities(keep func(entity.Entity) bool) []entity.Entity {
	var kept, removed []entity.Entity
	for _, en := range e.entities {
		if keep(en) {
			kept = append(kept, en)
		} else {
			removed = append(removed, en)
		}
	}
	e.entities = kept
	return removed
}
