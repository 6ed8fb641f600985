package quadtree

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/planet-terrain/internal/engine/terrain"
)

// Sampler is the surface function a body exposes to the tile builder.
type Sampler = terrain.Sampler

// Body is the celestial body a tree is built for. Position and
// Orientation are only read on the frame goroutine; the embedded Sampler
// is called from worker goroutines.
type Body interface {
	Sampler
	Radius() float64
	Position() mgl64.Vec3
	Orientation() mgl64.Quat
}

// Scheduler runs generation tasks off the frame goroutine. Submit must not
// wait for the task to finish.
type Scheduler interface {
	Submit(task func())
}

// SchedulerFunc adapts an ordinary function to Scheduler.
type SchedulerFunc func(task func())

// Submit calls f(task).
func (f SchedulerFunc) Submit(task func()) {
	f(task)
}

// Inline runs every task on the submitting goroutine. Headless tools and
// tests use it to make generation deterministic.
var Inline Scheduler = SchedulerFunc(func(task func()) { task() })

// Buffers is a renderer-owned handle to an uploaded patch mesh.
type Buffers interface {
	Release()
}

// Transform places a patch mesh in world space: vertices are scaled by
// Scale, rotated by Rotation and moved to Translation.
type Transform struct {
	Scale       float64
	Translation mgl64.Vec3
	Rotation    mgl64.Quat
}

// Renderer uploads and draws patch meshes. It is only called from the
// frame goroutine.
type Renderer interface {
	Upload(mesh *terrain.Mesh) (Buffers, error)
	DrawPatch(buf Buffers, t Transform)
}
