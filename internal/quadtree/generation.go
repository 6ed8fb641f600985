package quadtree

import (
	"errors"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/planet-terrain/internal/engine/terrain"
	"github.com/Faultbox/planet-terrain/internal/metrics"
)

// Job states. A job leaves jobRunning exactly once; the worker and the
// frame goroutine race through CompareAndSwap and the loser backs off.
const (
	jobRunning int32 = iota
	jobDone
	jobCancelled
	jobFailed
)

// generation is one asynchronous tile build. The worker fills mesh or err
// before publishing its state, so the frame goroutine may read them once it
// has observed jobDone or jobFailed.
type generation struct {
	state atomic.Int32

	mesh    *terrain.Mesh
	err     error
	elapsed time.Duration
}

func (j *generation) alive() bool {
	return j.state.Load() == jobRunning
}

func (j *generation) run(b terrain.Builder, p terrain.Patch) {
	start := time.Now()
	mesh, err := b.Build(p, j.alive)
	if errors.Is(err, terrain.ErrCancelled) {
		return
	}
	j.elapsed = time.Since(start)
	if err != nil {
		j.err = err
		j.state.CompareAndSwap(jobRunning, jobFailed)
		return
	}
	j.mesh = mesh
	j.state.CompareAndSwap(jobRunning, jobDone)
}

// RequestGeneration schedules a tile build for n. It does nothing while a
// build is already in flight, once n holds a mesh, or after n is disposed.
func (n *Node) RequestGeneration() {
	n.collect()
	if n.job != nil || n.mesh != nil || n.disposed {
		return
	}

	j := &generation{}
	n.job = j
	patch := terrain.Patch{
		CubePosition: n.cubePosition,
		Size:         n.size,
		Orientation:  n.orientation,
	}
	b := n.tree.builder
	metrics.GenerationRequested()
	n.tree.sched.Submit(func() { j.run(b, patch) })
}

// collect adopts the result of a finished job. Running jobs are left alone.
func (n *Node) collect() {
	j := n.job
	if j == nil {
		return
	}

	switch j.state.Load() {
	case jobDone:
		n.job = nil
		n.mesh = j.mesh
		n.meshCenter = j.mesh.Center
		n.dirty = true
		metrics.GenerationCompleted(j.elapsed)
	case jobFailed:
		n.job = nil
		n.failures++
		metrics.GenerationFailed()
		log := n.tree.log.Debug
		if n.failures == 1 {
			log = n.tree.log.Warn
		}
		log("patch generation failed",
			zap.String("node", n.Path()),
			zap.Int("failures", n.failures),
			zap.Error(j.err))
	case jobCancelled:
		n.job = nil
	}
}

// cancel abandons the in-flight job, if any. A job that already finished
// is discarded unread.
func (n *Node) cancel() {
	j := n.job
	if j == nil {
		return
	}
	n.job = nil
	if j.state.CompareAndSwap(jobRunning, jobCancelled) {
		metrics.GenerationCancelled()
	}
}

// ensureMesh requests data for a leaf that has none. Non-root leaves that
// are too coarse to keep are skipped: they split on the next evaluation
// and only their descendants get meshes.
func (n *Node) ensureMesh() {
	if n.children != nil || n.mesh != nil || n.job != nil || n.disposed {
		return
	}
	if n.parent != nil && n.vertexSpacing > n.tree.opts.MaxVertexSpacing && n.canSplit() {
		return
	}
	n.RequestGeneration()
}
