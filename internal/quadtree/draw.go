package quadtree

import (
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/Faultbox/planet-terrain/internal/metrics"
	pmath "github.com/Faultbox/planet-terrain/pkg/math"
)

// FrameStats counts what one draw traversal did.
type FrameStats struct {
	Drawn          int
	Culled         int
	Uploads        int
	UploadFailures int

	// Closest is the drawn patch whose mesh centre was nearest the viewer.
	Closest         *Node
	ClosestDistance float64
}

// Frame carries the per-frame draw state through a traversal.
type Frame struct {
	Renderer Renderer
	Viewer   mgl64.Vec3
	Stats    FrameStats
}

// Ready reports whether n can be drawn without holes: it holds a tile
// (uploaded or waiting for upload), or all four children are ready.
func (n *Node) Ready() bool {
	n.collect()
	if n.mesh != nil {
		return true
	}
	return n.childrenReady()
}

func (n *Node) childrenReady() bool {
	if n.children == nil {
		return false
	}
	for _, c := range n.children {
		if !c.Ready() {
			return false
		}
	}
	return true
}

// Draw renders the subtree under n. Children replace n only once every one
// of them is ready; until then n draws its own tile, uploading it first if
// needed.
func (n *Node) Draw(f *Frame) {
	n.collect()
	if n.childrenReady() {
		for _, c := range n.children {
			c.Draw(f)
		}
		return
	}
	n.drawSelf(f)
}

func (n *Node) drawSelf(f *Frame) {
	if n.dirty {
		n.upload(f)
	}
	if n.buffers == nil {
		return
	}
	if n.tree.opts.HorizonCulling && !n.IsAboveHorizon(f.Viewer) {
		f.Stats.Culled++
		return
	}

	body := n.tree.body
	rot := body.Orientation()
	world := pmath.LocalToWorld(n.meshCenter, body.Position(), rot)
	f.Renderer.DrawPatch(n.buffers, Transform{
		Scale:       n.size,
		Translation: world,
		Rotation:    rot,
	})
	f.Stats.Drawn++

	if d := world.Sub(f.Viewer).Len(); f.Stats.Closest == nil || d < f.Stats.ClosestDistance {
		f.Stats.Closest = n
		f.Stats.ClosestDistance = d
	}
}

// upload hands the adopted tile to the renderer. On failure the node stays
// dirty and the next frame tries again.
func (n *Node) upload(f *Frame) {
	buf, err := f.Renderer.Upload(n.mesh)
	if err != nil {
		f.Stats.UploadFailures++
		metrics.UploadFailed()
		n.tree.log.Warn("patch upload failed", zap.String("node", n.Path()), zap.Error(err))
		return
	}
	if n.buffers != nil {
		n.buffers.Release()
	}
	n.buffers = buf
	n.dirty = false
	f.Stats.Uploads++
	metrics.UploadCompleted()
}
