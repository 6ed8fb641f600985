package camera

import (
	gomath "math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"
)

func requireVec(t *testing.T, want, got mgl64.Vec3, tol float64) {
	t.Helper()
	for i := 0; i < 3; i++ {
		require.InDelta(t, want[i], got[i], tol, "component %d of %v vs %v", i, got, want)
	}
}

func TestLookAtAlignsForward(t *testing.T) {
	c := NewFlyCamera(mgl64.Vec3{0, 0, 1000})
	c.LookAt(mgl64.Vec3{}, mgl64.Vec3{0, 1, 0})
	requireVec(t, mgl64.Vec3{0, 0, -1}, c.Forward(), 1e-9)

	c.LookAt(mgl64.Vec3{1000, 0, 1000}, mgl64.Vec3{0, 1, 0})
	requireVec(t, mgl64.Vec3{1, 0, 0}, c.Forward(), 1e-9)
	requireVec(t, mgl64.Vec3{0, 1, 0}, c.Up(), 1e-9)
	requireVec(t, mgl64.Vec3{0, 0, 1}, c.Right(), 1e-9)
}

func TestLookAtDegenerateIsNoop(t *testing.T) {
	c := NewFlyCamera(mgl64.Vec3{0, 10, 0})
	before := c.Orientation
	c.LookAt(mgl64.Vec3{0, 10, 0}, mgl64.Vec3{0, 1, 0})
	c.LookAt(mgl64.Vec3{0, 20, 0}, mgl64.Vec3{0, 1, 0})
	require.Equal(t, before, c.Orientation)
}

func TestMouseYawTurnsLeft(t *testing.T) {
	c := NewFlyCamera(mgl64.Vec3{})
	c.MouseSensitivity = 1
	c.HandleMouse(-90, 0)
	requireVec(t, mgl64.Vec3{-1, 0, 0}, c.Forward(), 1e-9)

	c.HandleMouse(0, -90)
	requireVec(t, mgl64.Vec3{0, 1, 0}, c.Forward(), 1e-9)
}

func TestMovementScalesWithAltitude(t *testing.T) {
	c := NewFlyCamera(mgl64.Vec3{})
	c.Speed = 0.5
	c.MinSpeed = 5

	c.HandleMovement(1, 0, 0, 1, 1000)
	requireVec(t, mgl64.Vec3{0, 0, -500}, c.Position, 1e-9)

	c.Position = mgl64.Vec3{}
	c.HandleMovement(0, 1, 0, 2, 0)
	requireVec(t, mgl64.Vec3{10, 0, 0}, c.Position, 1e-9)

	c.Position = mgl64.Vec3{}
	c.HandleMovement(1, 1, 0, 1, 100)
	require.InDelta(t, 50, c.Position.Len(), 1e-9, "diagonal input is normalised")

	c.HandleMovement(0, 0, 0, 1, 100)
	require.InDelta(t, 50, c.Position.Len(), 1e-9)
}

func TestZoomClamps(t *testing.T) {
	c := NewFlyCamera(mgl64.Vec3{})
	c.HandleZoom(1000)
	require.Equal(t, 10.0, c.Speed)
	c.HandleZoom(-1000)
	require.Equal(t, 0.01, c.Speed)
}

func TestViewMatrixInvertsOrientation(t *testing.T) {
	c := NewFlyCamera(mgl64.Vec3{})
	c.HandleMouse(30, 10)
	v := c.ViewMatrix()
	f := c.Forward()
	got := v.Mul4x1([4]float32{float32(f[0]), float32(f[1]), float32(f[2]), 0})
	require.InDelta(t, 0, got[0], 1e-6)
	require.InDelta(t, 0, got[1], 1e-6)
	require.InDelta(t, -1, got[2], 1e-6)
}

func TestClipPlanes(t *testing.T) {
	const r = 600000.0
	for _, alt := range []float64{-5, 0, 2, 1500, 1.2e6} {
		near, far := ClipPlanes(alt, r)
		require.Greater(t, near, 0.0)
		require.Greater(t, far, near)
		horizon := gomath.Sqrt(gomath.Max(alt, 0) * (2*r + gomath.Max(alt, 0)))
		require.Greater(t, far, horizon, "altitude %g", alt)
	}
	nearLow, _ := ClipPlanes(10, r)
	nearHigh, _ := ClipPlanes(100000, r)
	require.Less(t, nearLow, nearHigh)
}
