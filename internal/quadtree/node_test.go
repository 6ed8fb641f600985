package quadtree

import (
	"math"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"

	pmath "github.com/Faultbox/planet-terrain/pkg/math"
)

func TestSplitLayout(t *testing.T) {
	tree := newTestTree(t, newSphere(500), testOptions(), Inline)
	root := tree.Root(pmath.FacePosY)
	root.Split()

	children := root.Children()
	require.Len(t, children, 4)

	// +Y: right is +X, forward is +Z.
	want := []mgl64.Vec3{
		{-250, 500, 250},
		{250, 500, 250},
		{-250, 500, -250},
		{250, 500, -250},
	}
	for i, c := range children {
		require.Equal(t, i, c.SiblingIndex())
		require.Equal(t, 500.0, c.Size())
		require.Equal(t, 31.25, c.VertexSpacing())
		require.Equal(t, 1, c.Depth())
		require.Same(t, root, c.Parent())
		require.Equal(t, pmath.FacePosY, c.Face())
		require.Equal(t, root.Orientation(), c.Orientation())
		requireVecNear(t, want[i], c.CubePosition())
		require.NotNil(t, c.Mesh())
	}
	require.Equal(t, "+Y/2", children[2].Path())
	require.Less(t, children[0].ArcSize(), root.ArcSize())
}

func TestSplitIsIdempotent(t *testing.T) {
	sched := &countingScheduler{}
	tree := newTestTree(t, newSphere(500), testOptions(), sched)
	root := tree.Root(pmath.FacePosZ)

	root.Split()
	first := append([]*Node(nil), root.Children()...)
	root.Split()

	require.Equal(t, first, root.Children())
	require.Equal(t, 10, sched.submitted)
	require.Equal(t, 10, tree.LiveNodes())
}

func TestUnsplitLeafIsNoop(t *testing.T) {
	sched := &countingScheduler{}
	tree := newTestTree(t, newSphere(500), testOptions(), sched)
	root := tree.Root(pmath.FaceNegZ)
	mesh := root.Mesh()

	root.Unsplit()
	require.True(t, root.IsLeaf())
	require.Same(t, mesh, root.Mesh())
	require.Equal(t, 6, sched.submitted)
}

func TestAtMostOneGenerationInFlight(t *testing.T) {
	sched := &queueScheduler{}
	tree := newTestTree(t, newSphere(500), testOptions(), sched)
	root := tree.Root(pmath.FacePosY)

	root.RequestGeneration()
	root.RequestGeneration()
	for i := 0; i < 5; i++ {
		tree.Update(mgl64.Vec3{0, 1e6, 0})
	}
	require.Equal(t, 6, sched.submitted)

	sched.run()
	require.NotNil(t, root.Mesh())

	// A node holding a tile never rebuilds it.
	root.RequestGeneration()
	require.Equal(t, 6, sched.submitted)
}

func TestSplitCancelsInFlightBuild(t *testing.T) {
	body := newSphere(500)
	sched := &queueScheduler{}
	tree := newTestTree(t, body, testOptions(), sched)
	root := tree.Root(pmath.FacePosY)

	root.Split()
	require.False(t, root.Generating())
	sched.run()

	require.Nil(t, root.Mesh())
	require.False(t, root.Dirty())
	for _, c := range root.Children() {
		require.True(t, c.Dirty())
	}

	// Nine full builds of 1+18*18 samples; the cancelled one stops after
	// its centre sample.
	require.Equal(t, int64(9*325+1), body.calls.Load())
}

func TestSplitKeepsFinishedTile(t *testing.T) {
	tree := newTestTree(t, newSphere(500), testOptions(), Inline)
	root := tree.Root(pmath.FacePosX)
	mesh := root.Mesh()
	require.NotNil(t, mesh)

	root.Split()
	require.Same(t, mesh, root.Mesh())
	require.True(t, root.Dirty())
}

func TestCancelledBuildNeverPublishes(t *testing.T) {
	body := newSphere(500)
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	top := mgl64.Vec3{0, 1, 0}
	body.height = func(dir mgl64.Vec3) float64 {
		if dir.ApproxEqualThreshold(top, 1e-9) {
			once.Do(func() { close(started) })
			<-release
		}
		return 500
	}

	var wg sync.WaitGroup
	sched := SchedulerFunc(func(task func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			task()
		}()
	})
	tree := newTestTree(t, body, testOptions(), sched)
	root := tree.Root(pmath.FacePosY)

	<-started
	require.True(t, root.Generating())
	root.Split()
	require.False(t, root.Generating())
	close(release)
	wg.Wait()

	require.Nil(t, root.Mesh())
	require.False(t, root.Dirty())
	for _, c := range root.Children() {
		require.NotNil(t, c.Mesh())
	}
}

func TestUnsplitRegeneratesCancelledParent(t *testing.T) {
	sched := &queueScheduler{}
	tree := newTestTree(t, newSphere(500), testOptions(), sched)
	root := tree.Root(pmath.FaceNegY)

	root.Split()
	sched.run()
	require.Nil(t, root.Mesh())
	submitted := sched.submitted

	root.Unsplit()
	require.True(t, root.IsLeaf())
	require.Equal(t, submitted+1, sched.submitted)
	require.True(t, root.Generating())

	sched.run()
	require.NotNil(t, root.Mesh())
}

func TestFailedBuildRetries(t *testing.T) {
	body := newSphere(500)
	var fail atomic.Bool
	fail.Store(true)
	body.height = func(mgl64.Vec3) float64 {
		if fail.Load() {
			return math.NaN()
		}
		return 500
	}

	tree := newTestTree(t, body, testOptions(), Inline)
	root := tree.Root(pmath.FacePosY)
	require.Equal(t, 1, root.Failures())
	require.Nil(t, root.Mesh())
	require.False(t, root.Dirty())
	require.False(t, root.Generating())

	fail.Store(false)
	tree.Update(mgl64.Vec3{0, 1e6, 0})

	require.NotNil(t, root.Mesh())
	require.True(t, root.Dirty())
	require.Equal(t, 1, root.Failures())
	require.Equal(t, 6, tree.Stats().Failures)
}

func TestPanickingSamplerIsContained(t *testing.T) {
	body := newSphere(500)
	body.height = func(mgl64.Vec3) float64 { panic("noise table missing") }

	tree := newTestTree(t, body, testOptions(), Inline)
	for _, f := range pmath.Faces {
		require.Equal(t, 1, tree.Root(f).Failures())
		require.Nil(t, tree.Root(f).Mesh())
	}
}

func TestClosestVertex(t *testing.T) {
	body := newSphere(500)
	body.pos = mgl64.Vec3{10, 20, 30}
	sched := &queueScheduler{}
	tree := newTestTree(t, body, testOptions(), sched)
	root := tree.Root(pmath.FacePosY)

	// Without a tile the mesh centre stands in.
	requireVecNear(t, mgl64.Vec3{10, 520, 30}, root.ClosestVertex(mgl64.Vec3{5000, 0, 0}))

	sched.run()
	requireVecNear(t, mgl64.Vec3{10, 520, 30}, root.ClosestVertex(mgl64.Vec3{10, 2000, 30}))

	// Corner sample nearest to a viewer beyond the +X+Z corner.
	c := 500 / math.Sqrt(3)
	requireVecNear(t, mgl64.Vec3{10 + c, 20 + c, 30 + c}, root.ClosestVertex(mgl64.Vec3{2000, 520, 2000}))
}
