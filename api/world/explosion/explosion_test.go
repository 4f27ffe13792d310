package explosion

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"voxelapi.dev/api/entity"
	"voxelapi.dev/api/lattice"
	"voxelapi.dev/api/world"
)

func testWorld() world.World {
	return world.NewRef("w", world.NewDimension(world.VanillaDimensions()[0], nil))
}

func TestBuilder_Validates(t *testing.T) {
	if _, err := NewBuilder().Radius(2).Build(); !errors.Is(err, ErrNoWorld) {
		t.Fatalf("expected ErrNoWorld, got %v", err)
	}
	for _, r := range []float64{0, -1, math.NaN()} {
		if _, err := NewBuilder().World(testWorld()).Radius(r).Build(); !errors.Is(err, ErrBadRadius) {
			t.Fatalf("radius %v: expected ErrBadRadius, got %v", r, err)
		}
	}
}

func TestExplosion_Accessors(t *testing.T) {
	w := testWorld()
	creeper := entity.NewRef("minecraft:creeper", world.NewLocation(w, lattice.Vec3i{Y: 64}))
	e, err := NewBuilder().World(w).Origin(mgl64.Vec3{-0.5, 64.2, 3.9}).Radius(3).SourceExplosive(creeper).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !e.ShouldBreakBlocks() || e.CanCauseFire() {
		t.Fatalf("unexpected defaults")
	}
	if src, ok := e.SourceExplosive(); !ok || src.UniqueID() != creeper.ID {
		t.Fatalf("source=%v ok=%v", src, ok)
	}
	if got := e.OriginBlock().Position; got != (lattice.Vec3i{X: -1, Y: 64, Z: 3}) {
		t.Fatalf("origin block=%v", got)
	}
	if !e.Covers(lattice.Vec3i{X: -1, Y: 64, Z: 3}) || e.Covers(lattice.Vec3i{X: 10, Y: 64, Z: 3}) {
		t.Fatalf("Covers mismatch")
	}
}
