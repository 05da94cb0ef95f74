package scene

import "github.com/Faultbox/renderctl/pkg/math"

// Placement is a position plus rotation plus scale in scene space.
// A zero Scale is treated as unit scale, so the zero value is usable.
type Placement struct {
	Position math.Vec3
	Rotation math.Quat
	Scale    math.Vec3
}

// IdentityPlacement returns a placement at the origin with no rotation.
func IdentityPlacement() Placement {
	return Placement{Rotation: math.QuatIdentity(), Scale: math.Vec3{X: 1, Y: 1, Z: 1}}
}

// Apply transforms a local point to scene space: scale, rotate, translate.
func (p Placement) Apply(v math.Vec3) math.Vec3 {
	s := p.Scale
	if !s.IsZero() {
		v = math.Vec3{X: v.X * s.X, Y: v.Y * s.Y, Z: v.Z * s.Z}
	}
	rot := p.Rotation
	if rot == (math.Quat{}) {
		rot = math.QuatIdentity()
	}
	return rot.Rotate(v).Add(p.Position)
}

// RotateVec applies only the rotation part to a direction vector.
func (p Placement) RotateVec(v math.Vec3) math.Vec3 {
	rot := p.Rotation
	if rot == (math.Quat{}) {
		rot = math.QuatIdentity()
	}
	return rot.Rotate(v)
}
