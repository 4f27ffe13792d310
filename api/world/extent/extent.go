// Package extent defines block volumes and read-only views over them.
package extent

import (
	"errors"
	"fmt"

	"voxelapi.dev/api/block"
	"voxelapi.dev/api/lattice"
	"voxelapi.dev/api/util"
)

// ErrOutOfBounds is returned for positions or bounds outside a volume.
var ErrOutOfBounds = errors.New("position out of bounds")

// BlockVolume is a box of blocks. Min and max are inclusive.
type BlockVolume interface {
	BlockMin() lattice.Vec3i
	BlockMax() lattice.Vec3i
	BlockSize() lattice.Vec3i
	ContainsBlock(pos lattice.Vec3i) bool
	Block(pos lattice.Vec3i) (block.Type, error)
}

// UnmodifiableBlockVolume is a volume whose blocks can be read but not
// changed through it. The data may still be changed by other processes.
type UnmodifiableBlockVolume interface {
	BlockVolume

	// BlockView narrows the volume to [newMin, newMax], which must lie inside
	// the current bounds.
	BlockView(newMin, newMax lattice.Vec3i) (UnmodifiableBlockVolume, error)
	// BlockViewTransform maps positions through t. Lattice points without a
	// preimage (gaps left by scaling) read as air.
	BlockViewTransform(t *util.DiscreteTransform3) UnmodifiableBlockVolume
	// RelativeBlockView shifts the volume so that its minimum is the origin.
	RelativeBlockView() UnmodifiableBlockVolume
}

func contains(min, max, pos lattice.Vec3i) bool {
	return pos.X >= min.X && pos.Y >= min.Y && pos.Z >= min.Z &&
		pos.X <= max.X && pos.Y <= max.Y && pos.Z <= max.Z
}

func sizeOf(min, max lattice.Vec3i) lattice.Vec3i {
	return max.Sub(min).Add(lattice.Vec3i{X: 1, Y: 1, Z: 1})
}

func outOfBounds(pos, min, max lattice.Vec3i) error {
	return fmt.Errorf("%w: %v not in [%v, %v]", ErrOutOfBounds, pos, min, max)
}

// View wraps any volume as an UnmodifiableBlockVolume covering its full
// bounds.
func View(v BlockVolume) UnmodifiableBlockVolume {
	if u, ok := v.(UnmodifiableBlockVolume); ok {
		return u
	}
	return &boundedView{parent: v, min: v.BlockMin(), max: v.BlockMax()}
}

func newBoundedView(parent BlockVolume, newMin, newMax lattice.Vec3i) (UnmodifiableBlockVolume, error) {
	if newMin.X > newMax.X || newMin.Y > newMax.Y || newMin.Z > newMax.Z {
		return nil, fmt.Errorf("%w: min %v greater than max %v", ErrOutOfBounds, newMin, newMax)
	}
	if !parent.ContainsBlock(newMin) {
		return nil, outOfBounds(newMin, parent.BlockMin(), parent.BlockMax())
	}
	if !parent.ContainsBlock(newMax) {
		return nil, outOfBounds(newMax, parent.BlockMin(), parent.BlockMax())
	}
	return &boundedView{parent: parent, min: newMin, max: newMax}, nil
}

func newTransformedView(parent BlockVolume, t *util.DiscreteTransform3) UnmodifiableBlockVolume {
	lo, hi := parent.BlockMin(), parent.BlockMax()
	first := true
	var min, max lattice.Vec3i
	for _, x := range [2]int{lo.X, hi.X} {
		for _, y := range [2]int{lo.Y, hi.Y} {
			for _, z := range [2]int{lo.Z, hi.Z} {
				p := t.TransformXYZ(x, y, z)
				if first {
					min, max, first = p, p, false
					continue
				}
				min, max = min.Min(p), max.Max(p)
			}
		}
	}
	return &transformedView{parent: parent, t: t, min: min, max: max}
}

func relativeView(v UnmodifiableBlockVolume) UnmodifiableBlockVolume {
	return v.BlockViewTransform(util.FromTranslation3(v.BlockMin().Negate()))
}

// boundedView restricts a parent volume to a sub box.
type boundedView struct {
	parent   BlockVolume
	min, max lattice.Vec3i
}

func (v *boundedView) BlockMin() lattice.Vec3i  { return v.min }
func (v *boundedView) BlockMax() lattice.Vec3i  { return v.max }
func (v *boundedView) BlockSize() lattice.Vec3i { return sizeOf(v.min, v.max) }

func (v *boundedView) ContainsBlock(pos lattice.Vec3i) bool { return contains(v.min, v.max, pos) }

func (v *boundedView) Block(pos lattice.Vec3i) (block.Type, error) {
	if !v.ContainsBlock(pos) {
		return nil, outOfBounds(pos, v.min, v.max)
	}
	return v.parent.Block(pos)
}

func (v *boundedView) BlockView(newMin, newMax lattice.Vec3i) (UnmodifiableBlockVolume, error) {
	return newBoundedView(v, newMin, newMax)
}

func (v *boundedView) BlockViewTransform(t *util.DiscreteTransform3) UnmodifiableBlockVolume {
	return newTransformedView(v, t)
}

func (v *boundedView) RelativeBlockView() UnmodifiableBlockVolume { return relativeView(v) }

// transformedView exposes a parent volume through a discrete transform.
type transformedView struct {
	parent   BlockVolume
	t        *util.DiscreteTransform3
	min, max lattice.Vec3i
}

func (v *transformedView) BlockMin() lattice.Vec3i  { return v.min }
func (v *transformedView) BlockMax() lattice.Vec3i  { return v.max }
func (v *transformedView) BlockSize() lattice.Vec3i { return sizeOf(v.min, v.max) }

func (v *transformedView) ContainsBlock(pos lattice.Vec3i) bool {
	return contains(v.min, v.max, pos)
}

func (v *transformedView) Block(pos lattice.Vec3i) (block.Type, error) {
	if !v.ContainsBlock(pos) {
		return nil, outOfBounds(pos, v.min, v.max)
	}
	src, ok := v.t.Preimage(pos)
	if !ok {
		return block.Air, nil
	}
	return v.parent.Block(src)
}

func (v *transformedView) BlockView(newMin, newMax lattice.Vec3i) (UnmodifiableBlockVolume, error) {
	return newBoundedView(v, newMin, newMax)
}

// BlockViewTransform composes with the existing transform instead of
// stacking another view.
func (v *transformedView) BlockViewTransform(t *util.DiscreteTransform3) UnmodifiableBlockVolume {
	return newTransformedView(v.parent, v.t.WithTransformation(t))
}

func (v *transformedView) RelativeBlockView() UnmodifiableBlockVolume { return relativeView(v) }
