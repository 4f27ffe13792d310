package lattice

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestFloorDivAndMod_NegativeCoordinates(t *testing.T) {
	cases := []struct {
		a, b    int
		div, md int
	}{
		{a: 0, b: 16, div: 0, md: 0},
		{a: 15, b: 16, div: 0, md: 15},
		{a: 16, b: 16, div: 1, md: 0},
		{a: -1, b: 16, div: -1, md: 15},
		{a: -16, b: 16, div: -1, md: 0},
		{a: -17, b: 16, div: -2, md: 15},
	}
	for _, c := range cases {
		if got := FloorDiv(c.a, c.b); got != c.div {
			t.Fatalf("FloorDiv(%d,%d)=%d want %d", c.a, c.b, got, c.div)
		}
		if got := Mod(c.a, c.b); got != c.md {
			t.Fatalf("Mod(%d,%d)=%d want %d", c.a, c.b, got, c.md)
		}
	}
}

func TestChunkOf(t *testing.T) {
	chunk, local := ChunkOf(Vec3i{X: -3, Y: 70, Z: 33}, 16)
	if chunk != (Vec2i{X: -1, Y: 2}) {
		t.Fatalf("chunk=%v", chunk)
	}
	if local != (Vec3i{X: 13, Y: 70, Z: 1}) {
		t.Fatalf("local=%v", local)
	}
}

func TestFloorVec3(t *testing.T) {
	got := FloorVec3(mgl64.Vec3{-0.5, 1.99, -2})
	if got != (Vec3i{X: -1, Y: 1, Z: -2}) {
		t.Fatalf("FloorVec3=%v", got)
	}
}

func TestVec3i_MinMax(t *testing.T) {
	a := Vec3i{1, 5, -2}
	b := Vec3i{3, -1, 0}
	if a.Min(b) != (Vec3i{1, -1, -2}) || a.Max(b) != (Vec3i{3, 5, 0}) {
		t.Fatalf("min=%v max=%v", a.Min(b), a.Max(b))
	}
}
