package extent

import (
	"fmt"

	"voxelapi.dev/api/block"
	"voxelapi.dev/api/lattice"
	"voxelapi.dev/api/util"
	"voxelapi.dev/internal/encoding"
)

// MaxVolumeBlocks bounds the number of blocks an ArrayVolume may hold.
const MaxVolumeBlocks = 1 << 24

// volumeOf returns size.X*size.Y*size.Z, rejecting non-positive sizes and
// products above MaxVolumeBlocks.
func volumeOf(size lattice.Vec3i) (int, error) {
	if size.X <= 0 || size.Y <= 0 || size.Z <= 0 {
		return 0, fmt.Errorf("volume size must be > 0, got %v", size)
	}
	n := 1
	for _, d := range [3]int{size.X, size.Y, size.Z} {
		if d > MaxVolumeBlocks/n {
			return 0, fmt.Errorf("volume size %v exceeds %d blocks", size, MaxVolumeBlocks)
		}
		n *= d
	}
	return n, nil
}

// ArrayVolume is an immutable in-memory volume: a palette plus one palette
// index per block, x fastest, then z, then y.
type ArrayVolume struct {
	min, size lattice.Vec3i
	palette   []block.Type
	ids       []uint16
}

// NewArrayVolume copies palette and ids. Every id must index the palette.
func NewArrayVolume(min, size lattice.Vec3i, palette []block.Type, ids []uint16) (*ArrayVolume, error) {
	n, err := volumeOf(size)
	if err != nil {
		return nil, err
	}
	if len(ids) != n {
		return nil, fmt.Errorf("volume of size %v needs %d ids, got %d", size, n, len(ids))
	}
	for i, id := range ids {
		if int(id) >= len(palette) {
			return nil, fmt.Errorf("id %d at %d outside palette of %d", id, i, len(palette))
		}
	}
	return &ArrayVolume{
		min:     min,
		size:    size,
		palette: append([]block.Type(nil), palette...),
		ids:     append([]uint16(nil), ids...),
	}, nil
}

func (v *ArrayVolume) index(pos lattice.Vec3i) int {
	d := pos.Sub(v.min)
	return (d.Y*v.size.Z+d.Z)*v.size.X + d.X
}

func (v *ArrayVolume) BlockMin() lattice.Vec3i  { return v.min }
func (v *ArrayVolume) BlockMax() lattice.Vec3i  { return v.min.Add(v.size).Sub(lattice.Vec3i{X: 1, Y: 1, Z: 1}) }
func (v *ArrayVolume) BlockSize() lattice.Vec3i { return v.size }

func (v *ArrayVolume) ContainsBlock(pos lattice.Vec3i) bool {
	return contains(v.BlockMin(), v.BlockMax(), pos)
}

func (v *ArrayVolume) Block(pos lattice.Vec3i) (block.Type, error) {
	if !v.ContainsBlock(pos) {
		return nil, outOfBounds(pos, v.BlockMin(), v.BlockMax())
	}
	return v.palette[v.ids[v.index(pos)]], nil
}

func (v *ArrayVolume) BlockView(newMin, newMax lattice.Vec3i) (UnmodifiableBlockVolume, error) {
	return newBoundedView(v, newMin, newMax)
}

func (v *ArrayVolume) BlockViewTransform(t *util.DiscreteTransform3) UnmodifiableBlockVolume {
	return newTransformedView(v, t)
}

func (v *ArrayVolume) RelativeBlockView() UnmodifiableBlockVolume { return relativeView(v) }

// Snapshot is the serialisable form of a volume.
type Snapshot struct {
	Min     [3]int   `json:"min"`
	Size    [3]int   `json:"size"`
	Palette []string `json:"palette"`
	Data    string   `json:"data"` // RLE, see internal/encoding
}

// TakeSnapshot reads every block of v. The palette starts with AIR at 0,
// then lists the other block ids in first seen order.
func TakeSnapshot(v BlockVolume) (Snapshot, error) {
	min, max, size := v.BlockMin(), v.BlockMax(), v.BlockSize()
	n, err := volumeOf(size)
	if err != nil {
		return Snapshot{}, err
	}
	index := map[string]uint16{block.AirID: 0}
	palette := []string{block.AirID}
	ids := make([]uint16, 0, n)
	for y := min.Y; y <= max.Y; y++ {
		for z := min.Z; z <= max.Z; z++ {
			for x := min.X; x <= max.X; x++ {
				b, err := v.Block(lattice.Vec3i{X: x, Y: y, Z: z})
				if err != nil {
					return Snapshot{}, err
				}
				id, ok := index[b.ID()]
				if !ok {
					if len(palette) > 0xFFFF {
						return Snapshot{}, fmt.Errorf("more than %d distinct blocks", 0xFFFF+1)
					}
					id = uint16(len(palette))
					index[b.ID()] = id
					palette = append(palette, b.ID())
				}
				ids = append(ids, id)
			}
		}
	}
	return Snapshot{
		Min:     [3]int{min.X, min.Y, min.Z},
		Size:    [3]int{size.X, size.Y, size.Z},
		Palette: palette,
		Data:    encoding.EncodeRLE(ids),
	}, nil
}

// Restore rebuilds a volume, resolving palette ids through lookup. AIR
// resolves to block.Air when lookup does not know it.
func (s Snapshot) Restore(lookup func(id string) (block.Type, bool)) (*ArrayVolume, error) {
	size := lattice.Vec3i{X: s.Size[0], Y: s.Size[1], Z: s.Size[2]}
	n, err := volumeOf(size)
	if err != nil {
		return nil, err
	}
	palette := make([]block.Type, len(s.Palette))
	for i, id := range s.Palette {
		b, ok := lookup(id)
		if !ok && id == block.AirID {
			b, ok = block.Air, true
		}
		if !ok {
			return nil, fmt.Errorf("unknown block %q", id)
		}
		palette[i] = b
	}
	ids, err := encoding.DecodeRLE(s.Data, n)
	if err != nil {
		return nil, fmt.Errorf("decode volume: %w", err)
	}
	return NewArrayVolume(lattice.Vec3i{X: s.Min[0], Y: s.Min[1], Z: s.Min[2]}, size, palette, ids)
}
