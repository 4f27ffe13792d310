// Package event defines the events fired by the host and the bus plugins
// listen on.
package event

import (
	"voxelapi.dev/api/entity"
	"voxelapi.dev/api/world"
	"voxelapi.dev/api/world/explosion"
)

// Event is anything posted on a Manager.
type Event interface {
	Cause() Cause
}

// Cancellable events can be vetoed by listeners. Cancelling tells the host
// not to apply the event's effects.
type Cancellable interface {
	IsCancelled() bool
	SetCancelled(cancel bool)
}

// WorldEvent is an event happening in one world.
type WorldEvent interface {
	Event
	World() world.World
}

// WorldExplosionEvent is fired around an explosion.
type WorldExplosionEvent interface {
	WorldEvent
	Explosion() explosion.Explosion
}

// BulkBlockEvent affects many block locations at once.
type BulkBlockEvent interface {
	Event
	// Locations returns the locations still affected.
	Locations() []world.Location
	// FilterLocations keeps the locations for which keep returns true and
	// returns the ones removed.
	FilterLocations(keep func(world.Location) bool) []world.Location
}

// BulkEntityEvent affects many entities at once.
type BulkEntityEvent interface {
	Event
	Entities() []entity.Entity
	FilterEntities(keep func(entity.Entity) bool) []entity.Entity
}

// WorldOnExplosionEvent is fired once an explosion has its list of affected
// locations and entities, before the host applies it.
type WorldOnExplosionEvent interface {
	WorldExplosionEvent
	BulkBlockEvent
	BulkEntityEvent
	Cancellable

	// OriginalLocations returns the affected locations as computed by the
	// host, unaffected by filtering.
	OriginalLocations() []world.Location
	// OriginalEntities returns the affected entities as computed by the host.
	OriginalEntities() []entity.Entity
}
