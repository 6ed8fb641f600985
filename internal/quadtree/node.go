package quadtree

import (
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/Faultbox/planet-terrain/internal/engine/terrain"
	"github.com/Faultbox/planet-terrain/internal/metrics"
	pmath "github.com/Faultbox/planet-terrain/pkg/math"
)

// Node is one patch of the cube-sphere. All methods must be called from
// the frame goroutine; only the tile build runs elsewhere.
type Node struct {
	tree     *Tree
	parent   *Node
	children *[4]*Node

	face    pmath.Face
	sibling int
	depth   int

	cubePosition  mgl64.Vec3
	size          float64
	vertexSpacing float64
	arcSize       float64
	orientation   mgl64.Mat3

	// meshCenter starts as the undisplaced sphere point under cubePosition
	// and is replaced by the built tile's centre when it is adopted.
	meshCenter mgl64.Vec3

	job     *generation
	mesh    *terrain.Mesh
	dirty   bool
	buffers Buffers

	failures int
	disposed bool
}

func (t *Tree) newNode(parent *Node, face pmath.Face, sibling int, size float64, cubePos mgl64.Vec3, orientation mgl64.Mat3) *Node {
	n := &Node{
		tree:          t,
		parent:        parent,
		face:          face,
		sibling:       sibling,
		cubePosition:  cubePos,
		size:          size,
		vertexSpacing: size / float64(t.opts.GridResolution),
		arcSize:       pmath.ArcLength(t.body.Radius(), size),
		orientation:   orientation,
		meshCenter:    pmath.ProjectToSphere(cubePos).Mul(t.body.Radius()),
	}
	if parent != nil {
		n.depth = parent.depth + 1
	}
	t.live++
	return n
}

// Split gives n four children of half its size, ordered top-left,
// top-right, bottom-left, bottom-right along n's right and forward axes.
// A node that already has children is left unchanged. A mesh n finished
// building is kept as the fallback while the children generate; a build
// still in flight is cancelled.
func (n *Node) Split() {
	if n.children != nil || n.disposed {
		return
	}
	n.collect()
	n.cancel()

	half := n.size * 0.5
	right := pmath.Right(n.orientation)
	fwd := pmath.Forward(n.orientation)
	offsets := [4]mgl64.Vec3{
		fwd.Sub(right),
		fwd.Add(right),
		right.Add(fwd).Mul(-1),
		right.Sub(fwd),
	}

	var children [4]*Node
	for i, off := range offsets {
		children[i] = n.tree.newNode(n, n.face, i, half,
			n.cubePosition.Add(off.Mul(half*0.5)), n.orientation)
	}
	n.children = &children

	for _, c := range children {
		c.ensureMesh()
	}

	metrics.Split(n.face.String())
	n.tree.log.Debug("split", zap.String("node", n.Path()), zap.Float64("size", n.size))
}

// Unsplit destroys all descendants of n, releasing their renderer buffers
// and abandoning their builds. A leaf is left unchanged. If n lost its own
// build to an earlier Split it asks for a new one.
func (n *Node) Unsplit() {
	if n.children == nil {
		return
	}
	for _, c := range n.children {
		c.dispose()
	}
	n.children = nil
	n.ensureMesh()

	metrics.Merge(n.face.String())
	n.tree.log.Debug("unsplit", zap.String("node", n.Path()), zap.Float64("size", n.size))
}

func (n *Node) dispose() {
	if n.disposed {
		return
	}
	if n.children != nil {
		for _, c := range n.children {
			c.dispose()
		}
		n.children = nil
	}
	n.cancel()
	if n.buffers != nil {
		n.buffers.Release()
		n.buffers = nil
	}
	n.mesh = nil
	n.dirty = false
	n.disposed = true
	n.tree.live--
}

// EvaluateLOD refines or coarsens the subtree under n for a viewer at the
// given world position. A node refines when the viewer is closer than its
// size or its quads are coarser than the maximum spacing; it then
// recurses into its children, or splits if the children would still be
// coarser than the minimum spacing. Otherwise its children are dropped.
func (n *Node) EvaluateLOD(viewer mgl64.Vec3) {
	n.collect()

	d := n.ClosestVertex(viewer).Sub(viewer)
	if d.Dot(d) < n.size*n.size || n.vertexSpacing > n.tree.opts.MaxVertexSpacing {
		if n.children != nil {
			for _, c := range n.children {
				c.EvaluateLOD(viewer)
			}
		} else if n.canSplit() {
			n.Split()
		}
	} else {
		n.Unsplit()
	}

	// Leaves without data retry here, including after a failed build.
	n.ensureMesh()
}

func (n *Node) canSplit() bool {
	return n.size*0.5/float64(n.tree.opts.GridResolution) > n.tree.opts.MinVertexSpacing
}

// Size returns the patch edge length in cube space.
func (n *Node) Size() float64 { return n.size }

// VertexSpacing returns size divided by the grid resolution.
func (n *Node) VertexSpacing() float64 { return n.vertexSpacing }

// ArcSize returns the patch edge as an arc length on the body's surface.
func (n *Node) ArcSize() float64 { return n.arcSize }

func (n *Node) CubePosition() mgl64.Vec3 { return n.cubePosition }

func (n *Node) Orientation() mgl64.Mat3 { return n.orientation }

// SiblingIndex returns the quadrant under the parent, or the face index for
// roots.
func (n *Node) SiblingIndex() int { return n.sibling }

func (n *Node) Face() pmath.Face { return n.face }

func (n *Node) Depth() int { return n.depth }

func (n *Node) Parent() *Node { return n.parent }

// Children returns the four children, or nil for a leaf.
func (n *Node) Children() []*Node {
	if n.children == nil {
		return nil
	}
	return n.children[:]
}

func (n *Node) IsLeaf() bool { return n.children == nil }

// MeshCenter returns the origin of the patch's mesh frame in body space.
func (n *Node) MeshCenter() mgl64.Vec3 {
	n.collect()
	return n.meshCenter
}

// Mesh returns the adopted tile, or nil while none has been built.
func (n *Node) Mesh() *terrain.Mesh {
	n.collect()
	return n.mesh
}

// Generating reports whether a build is in flight.
func (n *Node) Generating() bool {
	n.collect()
	return n.job != nil
}

// Dirty reports whether a built tile is waiting for upload.
func (n *Node) Dirty() bool {
	n.collect()
	return n.dirty
}

// Uploaded reports whether the renderer holds buffers for n.
func (n *Node) Uploaded() bool { return n.buffers != nil }

// Failures returns how many builds of n have failed.
func (n *Node) Failures() int {
	n.collect()
	return n.failures
}

// Path names n by its face and the quadrants leading to it, e.g. "+Y/0/3".
func (n *Node) Path() string {
	var parts []string
	for c := n; c.parent != nil; c = c.parent {
		parts = append(parts, strconv.Itoa(c.sibling))
	}
	var sb strings.Builder
	sb.WriteString(n.face.String())
	for i := len(parts) - 1; i >= 0; i-- {
		sb.WriteByte('/')
		sb.WriteString(parts[i])
	}
	return sb.String()
}
