// Package quadtree maintains the adaptive level-of-detail patch hierarchy
// of a cube-sphere body: six root faces, each recursively split into four
// as the viewer approaches, with tile meshes built asynchronously.
package quadtree

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/Faultbox/planet-terrain/internal/engine/terrain"
	"github.com/Faultbox/planet-terrain/internal/logger"
	"github.com/Faultbox/planet-terrain/internal/metrics"
	pmath "github.com/Faultbox/planet-terrain/pkg/math"
)

// Tree owns the six root nodes of a body.
type Tree struct {
	body    Body
	opts    Options
	sched   Scheduler
	builder terrain.Builder
	log     *zap.Logger

	roots [6]*Node
	live  int
}

// TreeStats summarises the current shape of a tree.
type TreeStats struct {
	Nodes      int
	Leaves     int
	Generating int
	Dirty      int
	Uploaded   int
	Failures   int
	MaxDepth   int
	// LeavesPerDepth[d] counts leaves at depth d.
	LeavesPerDepth []int
}

// NewTree builds the six root patches of body and requests their tiles.
// Each root spans one cube face: size 2·radius, centred at the face normal
// scaled by the radius.
func NewTree(body Body, opts Options, sched Scheduler) (*Tree, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if body == nil {
		return nil, fmt.Errorf("%w: nil body", ErrInvalidOptions)
	}
	if sched == nil {
		return nil, fmt.Errorf("%w: nil scheduler", ErrInvalidOptions)
	}
	r := body.Radius()
	if r <= 0 {
		return nil, fmt.Errorf("%w: body radius %g must be positive", ErrInvalidOptions, r)
	}

	t := &Tree{
		body:    body,
		opts:    opts,
		sched:   sched,
		builder: terrain.Builder{Sampler: body, Grid: opts.GridResolution},
		log:     logger.Named("quadtree"),
	}
	for _, f := range pmath.Faces {
		frame := pmath.FaceFrame(f)
		t.roots[f] = t.newNode(nil, f, int(f), 2*r, pmath.Normal(frame).Mul(r), frame)
	}

	t.log.Info("terrain tree created",
		zap.Float64("radius", r),
		zap.Int("grid", opts.GridResolution),
		zap.Float64("root_spacing", t.roots[0].vertexSpacing),
		zap.Float64("min_spacing", opts.MinVertexSpacing),
		zap.Float64("max_spacing", opts.MaxVertexSpacing))

	for _, root := range t.roots {
		root.RequestGeneration()
	}
	return t, nil
}

// Update runs one LOD pass for a viewer at the given world position.
func (t *Tree) Update(viewer mgl64.Vec3) {
	for _, root := range t.roots {
		root.EvaluateLOD(viewer)
	}
	metrics.SetLiveNodes(t.live)
}

// Draw submits every visible patch to r and returns the frame's counters.
func (t *Tree) Draw(r Renderer, viewer mgl64.Vec3) FrameStats {
	f := &Frame{Renderer: r, Viewer: viewer}
	for _, root := range t.roots {
		root.Draw(f)
	}
	metrics.SetFrame(f.Stats.Drawn, f.Stats.Culled)
	return f.Stats
}

// Close disposes every node. In-flight builds finish in the background
// and are discarded.
func (t *Tree) Close() {
	for _, root := range t.roots {
		root.dispose()
	}
	metrics.SetLiveNodes(t.live)
}

// Root returns the root node of a cube face.
func (t *Tree) Root(f pmath.Face) *Node {
	return t.roots[f]
}

// Walk visits nodes depth first, parents before children. Returning false
// from fn skips that node's children.
func (t *Tree) Walk(fn func(*Node) bool) {
	for _, root := range t.roots {
		walk(root, fn)
	}
}

func walk(n *Node, fn func(*Node) bool) {
	if !fn(n) || n.children == nil {
		return
	}
	for _, c := range n.children {
		walk(c, fn)
	}
}

// Stats walks the tree and counts its nodes.
func (t *Tree) Stats() TreeStats {
	var s TreeStats
	t.Walk(func(n *Node) bool {
		n.collect()
		s.Nodes++
		s.Failures += n.failures
		if n.depth > s.MaxDepth {
			s.MaxDepth = n.depth
		}
		if n.job != nil {
			s.Generating++
		}
		if n.dirty {
			s.Dirty++
		}
		if n.buffers != nil {
			s.Uploaded++
		}
		if n.children == nil {
			s.Leaves++
			for len(s.LeavesPerDepth) <= n.depth {
				s.LeavesPerDepth = append(s.LeavesPerDepth, 0)
			}
			s.LeavesPerDepth[n.depth]++
		}
		return true
	})
	return s
}

// LiveNodes returns the number of nodes not yet disposed.
func (t *Tree) LiveNodes() int { return t.live }

func (t *Tree) Options() Options { return t.opts }

func (t *Tree) Body() Body { return t.body }

// SetHorizonCulling toggles the horizon test for subsequent draws.
func (t *Tree) SetHorizonCulling(on bool) {
	t.opts.HorizonCulling = on
}
