// Package math provides double precision geometry helpers for cube-sphere
// planets, built on mathgl's mgl64 types.
package math

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl64"
)

// Face identifies one of the six faces of the unprojected cube.
type Face int

const (
	FacePosY Face = iota
	FaceNegY
	FacePosX
	FaceNegX
	FacePosZ
	FaceNegZ
)

// Faces lists every cube face in root order.
var Faces = [6]Face{FacePosY, FaceNegY, FacePosX, FaceNegX, FacePosZ, FaceNegZ}

var faceNames = [6]string{"+Y", "-Y", "+X", "-X", "+Z", "-Z"}

func (f Face) String() string {
	if f < 0 || int(f) >= len(faceNames) {
		return "?"
	}
	return faceNames[f]
}

// FaceFrame returns the orientation basis of a cube face.
// Column 0 is the face's right axis, column 1 its outward normal and
// column 2 its forward axis. All frames are rotations of the +Y frame, so
// they are orthonormal with determinant 1.
func FaceFrame(f Face) mgl64.Mat3 {
	switch f {
	case FaceNegY:
		return mgl64.Rotate3DX(gomath.Pi)
	case FacePosX:
		return mgl64.Rotate3DZ(-gomath.Pi / 2)
	case FaceNegX:
		return mgl64.Rotate3DZ(gomath.Pi / 2)
	case FacePosZ:
		return mgl64.Rotate3DX(gomath.Pi / 2)
	case FaceNegZ:
		return mgl64.Rotate3DX(-gomath.Pi / 2)
	default:
		return mgl64.Ident3()
	}
}

// Right returns the right axis of an orientation basis.
func Right(m mgl64.Mat3) mgl64.Vec3 { return m.Col(0) }

// Normal returns the up (outward) axis of an orientation basis.
func Normal(m mgl64.Mat3) mgl64.Vec3 { return m.Col(1) }

// Forward returns the forward axis of an orientation basis.
func Forward(m mgl64.Mat3) mgl64.Vec3 { return m.Col(2) }

// PlanePoint maps a point (u, v) on a patch's local plane into cube space.
// u runs along the right axis, v along the forward axis.
func PlanePoint(center mgl64.Vec3, m mgl64.Mat3, u, v float64) mgl64.Vec3 {
	return center.Add(m.Mul3x1(mgl64.Vec3{u, 0, v}))
}
