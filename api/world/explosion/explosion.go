// Package explosion describes explosions. Resolving one is up to the host.
package explosion

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"voxelapi.dev/api/entity"
	"voxelapi.dev/api/lattice"
	"voxelapi.dev/api/world"
)

var (
	ErrNoWorld   = errors.New("explosion: world is required")
	ErrBadRadius = errors.New("explosion: radius must be > 0")
)

// Explosion is an immutable description of an explosion.
type Explosion struct {
	world        world.World
	origin       mgl64.Vec3
	radius       float64
	causesFire   bool
	breaksBlocks bool
	source       entity.Entity
}

func (e Explosion) World() world.World      { return e.world }
func (e Explosion) Origin() mgl64.Vec3      { return e.origin }
func (e Explosion) Radius() float64         { return e.radius }
func (e Explosion) CanCauseFire() bool      { return e.causesFire }
func (e Explosion) ShouldBreakBlocks() bool { return e.breaksBlocks }

// SourceExplosive returns the exploding entity, if any.
func (e Explosion) SourceExplosive() (entity.Entity, bool) {
	return e.source, e.source != nil
}

// OriginBlock is the block containing the origin.
func (e Explosion) OriginBlock() world.Location {
	return world.NewLocation(e.world, lattice.FloorVec3(e.origin))
}

// Covers reports whether a block center lies within the radius.
func (e Explosion) Covers(pos lattice.Vec3i) bool {
	c := pos.Vec3().Add(mgl64.Vec3{0.5, 0.5, 0.5})
	return c.Sub(e.origin).Len() <= e.radius
}

// Builder assembles an Explosion. Blocks break by default.
type Builder struct {
	e Explosion
}

func NewBuilder() *Builder {
	return &Builder{e: Explosion{breaksBlocks: true}}
}

func (b *Builder) World(w world.World) *Builder {
	b.e.world = w
	return b
}

func (b *Builder) Origin(o mgl64.Vec3) *Builder {
	b.e.origin = o
	return b
}

func (b *Builder) Radius(r float64) *Builder {
	b.e.radius = r
	return b
}

func (b *Builder) CanCauseFire(v bool) *Builder {
	b.e.causesFire = v
	return b
}

func (b *Builder) ShouldBreakBlocks(v bool) *Builder {
	b.e.breaksBlocks = v
	return b
}

func (b *Builder) SourceExplosive(s entity.Entity) *Builder {
	b.e.source = s
	return b
}

func (b *Builder) Build() (Explosion, error) {
	if b.e.world == nil {
		return Explosion{}, ErrNoWorld
	}
	if !(b.e.radius > 0) {
		return Explosion{}, fmt.Errorf("%w, got %v", ErrBadRadius, b.e.radius)
	}
	return b.e, nil
}
