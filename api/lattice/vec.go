// Package lattice holds the integer lattice vectors used across the API.
// Double precision vectors and matrices come from mgl64.
package lattice

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec2i is a point or offset on the 2D integer lattice.
type Vec2i struct {
	X, Y int
}

func (v Vec2i) Add(o Vec2i) Vec2i { return Vec2i{v.X + o.X, v.Y + o.Y} }
func (v Vec2i) Sub(o Vec2i) Vec2i { return Vec2i{v.X - o.X, v.Y - o.Y} }
func (v Vec2i) Mul(a int) Vec2i   { return Vec2i{v.X * a, v.Y * a} }
func (v Vec2i) Negate() Vec2i     { return Vec2i{-v.X, -v.Y} }
func (v Vec2i) Vec2() mgl64.Vec2  { return mgl64.Vec2{float64(v.X), float64(v.Y)} }
func (v Vec2i) String() string    { return fmt.Sprintf("(%d, %d)", v.X, v.Y) }

// Vec3i is a point or offset on the 3D integer lattice (block coordinates).
type Vec3i struct {
	X, Y, Z int
}

func (v Vec3i) Add(o Vec3i) Vec3i { return Vec3i{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3i) Sub(o Vec3i) Vec3i { return Vec3i{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3i) Mul(a int) Vec3i   { return Vec3i{v.X * a, v.Y * a, v.Z * a} }
func (v Vec3i) Negate() Vec3i     { return Vec3i{-v.X, -v.Y, -v.Z} }
func (v Vec3i) Vec3() mgl64.Vec3  { return mgl64.Vec3{float64(v.X), float64(v.Y), float64(v.Z)} }
func (v Vec3i) String() string    { return fmt.Sprintf("(%d, %d, %d)", v.X, v.Y, v.Z) }

// Min returns the component-wise minimum of v and o.
func (v Vec3i) Min(o Vec3i) Vec3i {
	return Vec3i{min(v.X, o.X), min(v.Y, o.Y), min(v.Z, o.Z)}
}

// Max returns the component-wise maximum of v and o.
func (v Vec3i) Max(o Vec3i) Vec3i {
	return Vec3i{max(v.X, o.X), max(v.Y, o.Y), max(v.Z, o.Z)}
}

// FloorVec3 converts a double vector to the block containing it.
func FloorVec3(v mgl64.Vec3) Vec3i {
	return Vec3i{floor(v[0]), floor(v[1]), floor(v[2])}
}

func floor(f float64) int {
	i := int(f)
	if f < float64(i) {
		i--
	}
	return i
}
