package lattice

import "github.com/go-gl/mathgl/mgl64"

// Axis is one of the three cartesian axes.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Vec3d returns the unit vector pointing along the axis.
func (a Axis) Vec3d() mgl64.Vec3 {
	switch a {
	case AxisX:
		return mgl64.Vec3{1, 0, 0}
	case AxisY:
		return mgl64.Vec3{0, 1, 0}
	default:
		return mgl64.Vec3{0, 0, 1}
	}
}

// Vec3i returns the unit lattice vector pointing along the axis.
func (a Axis) Vec3i() Vec3i {
	switch a {
	case AxisX:
		return Vec3i{X: 1}
	case AxisY:
		return Vec3i{Y: 1}
	default:
		return Vec3i{Z: 1}
	}
}

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return "unknown"
	}
}
