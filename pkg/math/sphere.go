package math

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl64"
)

// ProjectToSphere returns the unit direction of a cube-space point.
// The zero vector maps to +Y so callers never see NaN.
func ProjectToSphere(p mgl64.Vec3) mgl64.Vec3 {
	l := p.Len()
	if l == 0 {
		return mgl64.Vec3{0, 1, 0}
	}
	return p.Mul(1 / l)
}

// AngleBetween returns the angle in radians between two vectors.
func AngleBetween(a, b mgl64.Vec3) float64 {
	la, lb := a.Len(), b.Len()
	if la == 0 || lb == 0 {
		return 0
	}
	return gomath.Acos(mgl64.Clamp(a.Dot(b)/(la*lb), -1, 1))
}

// HorizonAngle returns the angle between the viewer direction and the
// geometric horizon of a sphere of the given radius, seen from distance d
// to the sphere's centre. ok is false when the viewer is inside the sphere.
func HorizonAngle(radius, d float64) (angle float64, ok bool) {
	if d <= 0 || radius >= d {
		return 0, false
	}
	return gomath.Acos(radius / d), true
}

// ArcLength converts a cube-space edge length to the arc it subtends on a
// sphere whose inscribed cube has half-extent radius.
func ArcLength(radius, size float64) float64 {
	if radius <= 0 {
		return 0
	}
	return radius * 2 * gomath.Atan(size/(2*radius))
}

// LocalToWorld transforms a body-local point into world space.
func LocalToWorld(p, position mgl64.Vec3, orientation mgl64.Quat) mgl64.Vec3 {
	return position.Add(orientation.Rotate(p))
}
