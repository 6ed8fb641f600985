package quadtree

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/planet-terrain/internal/engine/terrain"
)

// sphereBody is a smooth sphere unless height is set.
type sphereBody struct {
	radius float64
	pos    mgl64.Vec3
	rot    mgl64.Quat
	height func(dir mgl64.Vec3) float64
	calls  atomic.Int64
}

func newSphere(radius float64) *sphereBody {
	return &sphereBody{radius: radius, rot: mgl64.QuatIdent()}
}

func (b *sphereBody) Height(dir mgl64.Vec3) float64 {
	b.calls.Add(1)
	if b.height != nil {
		return b.height(dir)
	}
	return b.radius
}

func (b *sphereBody) SurfaceData(mgl64.Vec3) (float64, float64) { return 0.5, 0.5 }
func (b *sphereBody) Radius() float64                           { return b.radius }
func (b *sphereBody) Position() mgl64.Vec3                      { return b.pos }
func (b *sphereBody) Orientation() mgl64.Quat                   { return b.rot }

// queueScheduler holds tasks until run is called.
type queueScheduler struct {
	tasks     []func()
	submitted int
}

func (s *queueScheduler) Submit(task func()) {
	s.tasks = append(s.tasks, task)
	s.submitted++
}

func (s *queueScheduler) run() {
	for len(s.tasks) > 0 {
		task := s.tasks[0]
		s.tasks = s.tasks[1:]
		task()
	}
}

// countingScheduler runs tasks inline and counts them.
type countingScheduler struct {
	submitted int
}

func (s *countingScheduler) Submit(task func()) {
	s.submitted++
	task()
}

type fakeBuffers struct {
	released int
}

func (b *fakeBuffers) Release() { b.released++ }

var errUpload = errors.New("out of memory")

type fakeRenderer struct {
	buffers  []*fakeBuffers
	draws    []Transform
	failNext int
}

func (r *fakeRenderer) Upload(*terrain.Mesh) (Buffers, error) {
	if r.failNext > 0 {
		r.failNext--
		return nil, errUpload
	}
	b := &fakeBuffers{}
	r.buffers = append(r.buffers, b)
	return b, nil
}

func (r *fakeRenderer) DrawPatch(_ Buffers, t Transform) {
	r.draws = append(r.draws, t)
}

// testOptions splits a radius 500 body exactly once: roots have spacing
// 62.5 and their children 31.25, which may not split below 30.
func testOptions() Options {
	return Options{
		GridResolution:   16,
		MinVertexSpacing: 30,
		MaxVertexSpacing: 100,
	}
}

// deepOptions lets a radius 500 body subdivide five levels, with the first
// level too coarse to ever hold a mesh.
func deepOptions() Options {
	return Options{
		GridResolution:   16,
		MinVertexSpacing: 1,
		MaxVertexSpacing: 20,
	}
}

func newTestTree(t *testing.T, body Body, opts Options, sched Scheduler) *Tree {
	t.Helper()
	tree, err := NewTree(body, opts, sched)
	require.NoError(t, err)
	t.Cleanup(tree.Close)
	return tree
}

func requireVecNear(t *testing.T, want, got mgl64.Vec3) {
	t.Helper()
	for i := 0; i < 3; i++ {
		require.InDelta(t, want[i], got[i], 1e-6, "component %d of %v vs %v", i, got, want)
	}
}
