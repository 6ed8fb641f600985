// Package camera provides camera implementations for 3D rendering.
package camera

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	pmath "github.com/Faultbox/planet-terrain/pkg/math"
)

// FlyCamera is a free-flying camera with a double precision position.
// Its matrices are camera-relative: geometry is translated by
// -Position before it reaches the GPU, so the view carries rotation only.
type FlyCamera struct {
	Position    mgl64.Vec3
	Orientation mgl64.Quat

	FOV              float64 // vertical, degrees
	Speed            float64 // fraction of altitude covered per second
	MinSpeed         float64 // m/s floor close to the ground
	MouseSensitivity float64 // degrees per pixel
	RollSpeed        float64 // radians per second
}

// NewFlyCamera creates a camera at pos looking down -Z.
func NewFlyCamera(pos mgl64.Vec3) *FlyCamera {
	return &FlyCamera{
		Position:         pos,
		Orientation:      mgl64.QuatIdent(),
		FOV:              70,
		Speed:            0.5,
		MinSpeed:         5,
		MouseSensitivity: 0.15,
		RollSpeed:        1.2,
	}
}

// Forward returns the view direction.
func (c *FlyCamera) Forward() mgl64.Vec3 { return c.Orientation.Rotate(mgl64.Vec3{0, 0, -1}) }

// Right returns the camera's right axis.
func (c *FlyCamera) Right() mgl64.Vec3 { return c.Orientation.Rotate(mgl64.Vec3{1, 0, 0}) }

// Up returns the camera's up axis.
func (c *FlyCamera) Up() mgl64.Vec3 { return c.Orientation.Rotate(mgl64.Vec3{0, 1, 0}) }

// LookAt points the camera at target keeping up as close to vertical as
// possible. It is a no-op when target coincides with the position or
// lies along up.
func (c *FlyCamera) LookAt(target, up mgl64.Vec3) {
	f := target.Sub(c.Position)
	if f.Len() == 0 {
		return
	}
	f = f.Normalize()
	r := f.Cross(up)
	if r.Len() < 1e-9 {
		return
	}
	r = r.Normalize()
	u := r.Cross(f)
	back := f.Mul(-1)
	m := mgl64.Mat4FromCols(r.Vec4(0), u.Vec4(0), back.Vec4(0), mgl64.Vec4{0, 0, 0, 1})
	c.Orientation = mgl64.Mat4ToQuat(m).Normalize()
}

// HandleMouse applies yaw and pitch from relative mouse motion.
func (c *FlyCamera) HandleMouse(dx, dy float64) {
	yaw := mgl64.DegToRad(-dx * c.MouseSensitivity)
	pitch := mgl64.DegToRad(-dy * c.MouseSensitivity)
	c.rotateLocal(yaw, mgl64.Vec3{0, 1, 0})
	c.rotateLocal(pitch, mgl64.Vec3{1, 0, 0})
}

// HandleRoll rolls around the view axis; dir is -1, 0 or +1.
func (c *FlyCamera) HandleRoll(dir, dt float64) {
	c.rotateLocal(-dir*c.RollSpeed*dt, mgl64.Vec3{0, 0, 1})
}

func (c *FlyCamera) rotateLocal(angle float64, axis mgl64.Vec3) {
	if angle == 0 {
		return
	}
	c.Orientation = c.Orientation.Mul(mgl64.QuatRotate(angle, axis)).Normalize()
}

// HandleMovement moves the camera along its local axes. Speed scales with
// altitude so approach from orbit and surface crawling feel alike.
func (c *FlyCamera) HandleMovement(forward, right, up, dt, altitude float64) {
	v := mgl64.Vec3{right, up, -forward}
	if v.Len() == 0 {
		return
	}
	v = v.Normalize()
	speed := gomath.Max(altitude*c.Speed, c.MinSpeed)
	c.Position = c.Position.Add(c.Orientation.Rotate(v).Mul(speed * dt))
}

// HandleZoom scales Speed by wheel clicks.
func (c *FlyCamera) HandleZoom(clicks int) {
	c.Speed = mgl64.Clamp(c.Speed*gomath.Pow(1.25, float64(clicks)), 0.01, 10)
}

// ViewMatrix returns the rotation-only view matrix.
func (c *FlyCamera) ViewMatrix() mgl32.Mat4 {
	return pmath.QuatToMat4(c.Orientation.Conjugate())
}

// ProjectionMatrix returns a perspective projection.
func (c *FlyCamera) ProjectionMatrix(aspect, near, far float64) mgl32.Mat4 {
	return mgl32.Perspective(
		mgl32.DegToRad(float32(c.FOV)), float32(aspect), float32(near), float32(far))
}

// ViewProjection combines ProjectionMatrix and ViewMatrix.
func (c *FlyCamera) ViewProjection(aspect, near, far float64) mgl32.Mat4 {
	return c.ProjectionMatrix(aspect, near, far).Mul4(c.ViewMatrix())
}

// ClipPlanes picks near and far distances for a camera at altitude above
// a body of the given radius. far reaches past the horizon; near tracks
// altitude to keep depth precision where it matters.
func ClipPlanes(altitude, radius float64) (near, far float64) {
	alt := gomath.Max(altitude, 0)
	near = mgl64.Clamp(alt*0.1, 0.5, radius*0.1)
	horizon := gomath.Sqrt(alt*(2*radius+alt)) + radius*0.2
	far = gomath.Max(horizon*1.5, near*1000)
	return near, far
}
