package util

import (
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"voxelapi.dev/api/lattice"
)

// DiscreteTransform3 is the 3 dimensional counterpart of DiscreteTransform2.
// Rotations are quarter turns around one of the cartesian axes.
type DiscreteTransform3 struct {
	m mgl64.Mat4

	rowOnce [3]sync.Once
	rows    [3]mgl64.Vec4

	invOnce sync.Once
	inv     mgl64.Mat4
}

// IdentityTransform3 does nothing.
var IdentityTransform3 = newTransform3(mgl64.Ident4())

func newTransform3(m mgl64.Mat4) *DiscreteTransform3 {
	return &DiscreteTransform3{m: m}
}

// Matrix returns the homogeneous 4x4 matrix of the transform.
func (t *DiscreteTransform3) Matrix() mgl64.Mat4 {
	return t.m
}

func (t *DiscreteTransform3) Transform(v lattice.Vec3i) lattice.Vec3i {
	return t.TransformXYZ(v.X, v.Y, v.Z)
}

func (t *DiscreteTransform3) TransformXYZ(x, y, z int) lattice.Vec3i {
	r := t.m.Mul4x1(mgl64.Vec4{float64(x), float64(y), float64(z), 1})
	return lattice.Vec3i{X: floorInt(r[0]), Y: floorInt(r[1]), Z: floorInt(r[2])}
}

func (t *DiscreteTransform3) row(i int, x, y, z int) int {
	t.rowOnce[i].Do(func() { t.rows[i] = t.m.Row(i) })
	return floorInt(t.rows[i].Dot(mgl64.Vec4{float64(x), float64(y), float64(z), 1}))
}

// TransformX transforms only the x coordinate. Each matrix row is extracted
// once, on first use.
func (t *DiscreteTransform3) TransformX(x, y, z int) int { return t.row(0, x, y, z) }
func (t *DiscreteTransform3) TransformY(x, y, z int) int { return t.row(1, x, y, z) }
func (t *DiscreteTransform3) TransformZ(x, y, z int) int { return t.row(2, x, y, z) }

func (t *DiscreteTransform3) TransformXVec(v lattice.Vec3i) int { return t.row(0, v.X, v.Y, v.Z) }
func (t *DiscreteTransform3) TransformYVec(v lattice.Vec3i) int { return t.row(1, v.X, v.Y, v.Z) }
func (t *DiscreteTransform3) TransformZVec(v lattice.Vec3i) int { return t.row(2, v.X, v.Y, v.Z) }

// Preimage returns the lattice point mapped onto v, if there is one.
func (t *DiscreteTransform3) Preimage(v lattice.Vec3i) (p lattice.Vec3i, ok bool) {
	t.invOnce.Do(func() { t.inv = t.m.Inv() })
	r := t.inv.Mul4x1(mgl64.Vec4{float64(v.X), float64(v.Y), float64(v.Z), 1})
	x, okX := exactInt(r[0])
	y, okY := exactInt(r[1])
	z, okZ := exactInt(r[2])
	if !okX || !okY || !okZ {
		return lattice.Vec3i{}, false
	}
	p = lattice.Vec3i{X: x, Y: y, Z: z}
	return p, t.Transform(p) == v
}

func (t *DiscreteTransform3) WithTranslation(v lattice.Vec3i) *DiscreteTransform3 {
	return t.WithTranslationXYZ(v.X, v.Y, v.Z)
}

func (t *DiscreteTransform3) WithTranslationXYZ(x, y, z int) *DiscreteTransform3 {
	return newTransform3(mgl64.Translate3D(float64(x), float64(y), float64(z)).Mul4(t.m))
}

// WithScale adds a uniform scale factor. The factor must be greater than zero.
func (t *DiscreteTransform3) WithScale(a int) (*DiscreteTransform3, error) {
	return t.WithScaleXYZ(a, a, a)
}

func (t *DiscreteTransform3) WithScaleVec(v lattice.Vec3i) (*DiscreteTransform3, error) {
	return t.WithScaleXYZ(v.X, v.Y, v.Z)
}

func (t *DiscreteTransform3) WithScaleXYZ(x, y, z int) (*DiscreteTransform3, error) {
	s, err := scale3(x, y, z)
	if err != nil {
		return nil, err
	}
	return newTransform3(s.Mul4(t.m)), nil
}

// WithRotation adds a rotation of quarterTurns*90 degrees around axis,
// counter-clockwise when looking down the axis towards the origin.
func (t *DiscreteTransform3) WithRotation(quarterTurns int, axis lattice.Axis) *DiscreteTransform3 {
	return newTransform3(rotation3(quarterTurns, axis).Mul4(t.m))
}

// WithTransformation appends o: the result applies t first, then o.
func (t *DiscreteTransform3) WithTransformation(o *DiscreteTransform3) *DiscreteTransform3 {
	return newTransform3(o.m.Mul4(t.m))
}

func (t *DiscreteTransform3) Equal(o *DiscreteTransform3) bool {
	return o != nil && t.m == o.m
}

func (t *DiscreteTransform3) String() string {
	return fmt.Sprintf("DiscreteTransform3%v", t.m)
}

func FromTranslation3(v lattice.Vec3i) *DiscreteTransform3 {
	return FromTranslationXYZ(v.X, v.Y, v.Z)
}

func FromTranslationXYZ(x, y, z int) *DiscreteTransform3 {
	return newTransform3(mgl64.Translate3D(float64(x), float64(y), float64(z)))
}

func FromScale3(a int) (*DiscreteTransform3, error) {
	return FromScaleXYZ(a, a, a)
}

func FromScaleVec3(v lattice.Vec3i) (*DiscreteTransform3, error) {
	return FromScaleXYZ(v.X, v.Y, v.Z)
}

func FromScaleXYZ(x, y, z int) (*DiscreteTransform3, error) {
	s, err := scale3(x, y, z)
	if err != nil {
		return nil, err
	}
	return newTransform3(s), nil
}

func FromRotation3(quarterTurns int, axis lattice.Axis) *DiscreteTransform3 {
	return newTransform3(rotation3(quarterTurns, axis))
}

func scale3(x, y, z int) (mgl64.Mat4, error) {
	switch {
	case x <= 0:
		return mgl64.Mat4{}, fmt.Errorf("%w: x <= 0", ErrNonPositiveScale)
	case y <= 0:
		return mgl64.Mat4{}, fmt.Errorf("%w: y <= 0", ErrNonPositiveScale)
	case z <= 0:
		return mgl64.Mat4{}, fmt.Errorf("%w: z <= 0", ErrNonPositiveScale)
	}
	return mgl64.Scale3D(float64(x), float64(y), float64(z)), nil
}

// rotation3 builds the homogeneous rotation matrix with exact quarter-turn
// coefficients. mgl64.HomogRotate3D goes through math.Cos and would leave
// 6e-17 residues that break flooring.
func rotation3(quarterTurns int, axis lattice.Axis) mgl64.Mat4 {
	s, c := quarterSinCos(quarterTurns)
	// column-major
	switch axis {
	case lattice.AxisX:
		return mgl64.Mat4{
			1, 0, 0, 0,
			0, c, s, 0,
			0, -s, c, 0,
			0, 0, 0, 1,
		}
	case lattice.AxisY:
		return mgl64.Mat4{
			c, 0, -s, 0,
			0, 1, 0, 0,
			s, 0, c, 0,
			0, 0, 0, 1,
		}
	default:
		return mgl64.Mat4{
			c, s, 0, 0,
			-s, c, 0, 0,
			0, 0, 1, 0,
			0, 0, 0, 1,
		}
	}
}
