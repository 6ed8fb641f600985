package math

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// Pack converts a double precision vector for vertex storage.
// Only small, mesh-local values should go through here.
func Pack(v mgl64.Vec3) [3]float32 {
	return [3]float32{float32(v[0]), float32(v[1]), float32(v[2])}
}

// Unpack widens a packed vertex position back to double precision.
func Unpack(v [3]float32) mgl64.Vec3 {
	return mgl64.Vec3{float64(v[0]), float64(v[1]), float64(v[2])}
}

// Relative returns p relative to origin in single precision. The
// subtraction happens in float64 so planet-scale positions keep
// centimetre precision near the camera.
func Relative(p, origin mgl64.Vec3) mgl32.Vec3 {
	d := p.Sub(origin)
	return mgl32.Vec3{float32(d[0]), float32(d[1]), float32(d[2])}
}

// QuatToMat4 converts a double precision rotation to a float32 matrix.
func QuatToMat4(q mgl64.Quat) mgl32.Mat4 {
	m := q.Mat4()
	var out mgl32.Mat4
	for i := range m {
		out[i] = float32(m[i])
	}
	return out
}

// ModelMatrix builds translate * rotate * uniform-scale for a patch drawn
// relative to the camera.
func ModelMatrix(translation mgl32.Vec3, rotation mgl64.Quat, scale float64) mgl32.Mat4 {
	s := float32(scale)
	return mgl32.Translate3D(translation[0], translation[1], translation[2]).
		Mul4(QuatToMat4(rotation)).
		Mul4(mgl32.Scale3D(s, s, s))
}
