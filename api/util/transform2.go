// Package util contains discrete transforms over the integer lattice.
package util

import (
	"fmt"
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"voxelapi.dev/api/lattice"
)

// DiscreteTransform2 is a 2 dimensional transform that maps lattice points to
// lattice points. Only translations, positive integer scales and quarter-turn
// rotations can be expressed, so it never causes aliasing.
//
// Values are immutable; every With method returns a new transform.
type DiscreteTransform2 struct {
	m mgl64.Mat3

	row0Once, row1Once sync.Once
	row0, row1         mgl64.Vec3

	invOnce sync.Once
	inv     mgl64.Mat3
}

// IdentityTransform2 does nothing.
var IdentityTransform2 = newTransform2(mgl64.Ident3())

func newTransform2(m mgl64.Mat3) *DiscreteTransform2 {
	return &DiscreteTransform2{m: m}
}

// Matrix returns the homogeneous matrix of the transform. It is 3x3 so it can
// carry a translation.
func (t *DiscreteTransform2) Matrix() mgl64.Mat3 {
	return t.m
}

func (t *DiscreteTransform2) Transform(v lattice.Vec2i) lattice.Vec2i {
	return t.TransformXY(v.X, v.Y)
}

func (t *DiscreteTransform2) TransformXY(x, y int) lattice.Vec2i {
	r := t.m.Mul3x1(mgl64.Vec3{float64(x), float64(y), 1})
	return lattice.Vec2i{X: floorInt(r[0]), Y: floorInt(r[1])}
}

func (t *DiscreteTransform2) TransformXVec(v lattice.Vec2i) int {
	return t.TransformX(v.X, v.Y)
}

// TransformX transforms only the x coordinate. The matrix row is extracted on
// the first call and reused afterwards.
func (t *DiscreteTransform2) TransformX(x, y int) int {
	t.row0Once.Do(func() { t.row0 = t.m.Row(0) })
	return floorInt(t.row0.Dot(mgl64.Vec3{float64(x), float64(y), 1}))
}

func (t *DiscreteTransform2) TransformYVec(v lattice.Vec2i) int {
	return t.TransformY(v.X, v.Y)
}

// TransformY transforms only the y coordinate, caching the row like TransformX.
func (t *DiscreteTransform2) TransformY(x, y int) int {
	t.row1Once.Do(func() { t.row1 = t.m.Row(1) })
	return floorInt(t.row1.Dot(mgl64.Vec3{float64(x), float64(y), 1}))
}

// Preimage returns the lattice point mapped onto v, if there is one. Scaled
// transforms leave gaps, for which ok is false.
func (t *DiscreteTransform2) Preimage(v lattice.Vec2i) (p lattice.Vec2i, ok bool) {
	t.invOnce.Do(func() { t.inv = t.m.Inv() })
	r := t.inv.Mul3x1(mgl64.Vec3{float64(v.X), float64(v.Y), 1})
	x, okX := exactInt(r[0])
	y, okY := exactInt(r[1])
	if !okX || !okY {
		return lattice.Vec2i{}, false
	}
	p = lattice.Vec2i{X: x, Y: y}
	return p, t.Transform(p) == v
}

func (t *DiscreteTransform2) WithTranslation(v lattice.Vec2i) *DiscreteTransform2 {
	return t.WithTranslationXY(v.X, v.Y)
}

func (t *DiscreteTransform2) WithTranslationXY(x, y int) *DiscreteTransform2 {
	return newTransform2(mgl64.Translate2D(float64(x), float64(y)).Mul3(t.m))
}

// WithScale adds a uniform scale factor. The factor must be greater than zero.
func (t *DiscreteTransform2) WithScale(a int) (*DiscreteTransform2, error) {
	return t.WithScaleXY(a, a)
}

func (t *DiscreteTransform2) WithScaleVec(v lattice.Vec2i) (*DiscreteTransform2, error) {
	return t.WithScaleXY(v.X, v.Y)
}

// WithScaleXY adds a scale factor per axis. Both factors must be greater than
// zero.
func (t *DiscreteTransform2) WithScaleXY(x, y int) (*DiscreteTransform2, error) {
	s, err := scale2(x, y)
	if err != nil {
		return nil, err
	}
	return newTransform2(s.Mul3(t.m)), nil
}

// WithRotation adds a counter-clockwise rotation in the xy plane of
// quarterTurns*90 degrees.
func (t *DiscreteTransform2) WithRotation(quarterTurns int) *DiscreteTransform2 {
	return newTransform2(rotation2(quarterTurns).Mul3(t.m))
}

// WithTransformation appends o: the result applies t first, then o.
func (t *DiscreteTransform2) WithTransformation(o *DiscreteTransform2) *DiscreteTransform2 {
	return newTransform2(o.m.Mul3(t.m))
}

func (t *DiscreteTransform2) Equal(o *DiscreteTransform2) bool {
	return o != nil && t.m == o.m
}

func (t *DiscreteTransform2) String() string {
	return fmt.Sprintf("DiscreteTransform2%v", t.m)
}

func FromTranslation2(v lattice.Vec2i) *DiscreteTransform2 {
	return FromTranslationXY(v.X, v.Y)
}

func FromTranslationXY(x, y int) *DiscreteTransform2 {
	return newTransform2(mgl64.Translate2D(float64(x), float64(y)))
}

func FromScale2(a int) (*DiscreteTransform2, error) {
	return FromScaleXY(a, a)
}

func FromScaleVec2(v lattice.Vec2i) (*DiscreteTransform2, error) {
	return FromScaleXY(v.X, v.Y)
}

func FromScaleXY(x, y int) (*DiscreteTransform2, error) {
	s, err := scale2(x, y)
	if err != nil {
		return nil, err
	}
	return newTransform2(s), nil
}

// FromRotation2 returns a rotation in the xy plane of quarterTurns*90 degrees.
func FromRotation2(quarterTurns int) *DiscreteTransform2 {
	return newTransform2(rotation2(quarterTurns))
}

func scale2(x, y int) (mgl64.Mat3, error) {
	if x <= 0 {
		return mgl64.Mat3{}, fmt.Errorf("%w: x <= 0", ErrNonPositiveScale)
	}
	if y <= 0 {
		return mgl64.Mat3{}, fmt.Errorf("%w: y <= 0", ErrNonPositiveScale)
	}
	return mgl64.Scale2D(float64(x), float64(y)), nil
}

func rotation2(quarterTurns int) mgl64.Mat3 {
	s, c := quarterSinCos(quarterTurns)
	// column-major
	return mgl64.Mat3{
		c, s, 0,
		-s, c, 0,
		0, 0, 1,
	}
}

func floorInt(f float64) int {
	return int(math.Floor(f))
}

// exactInt reports whether f is an integer up to float noise.
func exactInt(f float64) (int, bool) {
	r := math.Round(f)
	if math.Abs(f-r) > 1e-9 {
		return 0, false
	}
	return int(r), true
}
