package quadtree

import (
	"github.com/go-gl/mathgl/mgl64"

	pmath "github.com/Faultbox/planet-terrain/pkg/math"
)

// horizonMargin shrinks the occluding sphere so patches straddling the
// limb are not culled early.
const horizonMargin = 0.99

// ClosestVertex returns, in world space, whichever of n's nine sample
// vertices lies nearest to point. Before a tile exists it returns the
// mesh centre.
func (n *Node) ClosestVertex(point mgl64.Vec3) mgl64.Vec3 {
	n.collect()

	body := n.tree.body
	pos, rot := body.Position(), body.Orientation()
	if n.mesh == nil {
		return pmath.LocalToWorld(n.meshCenter, pos, rot)
	}

	var best mgl64.Vec3
	bestDist := -1.0
	for _, p := range n.mesh.SamplePoints {
		w := pmath.LocalToWorld(p, pos, rot)
		d := w.Sub(point)
		if dist := d.Dot(d); bestDist < 0 || dist < bestDist {
			best, bestDist = w, dist
		}
	}
	return best
}

// IsAboveHorizon reports whether n can be seen from viewer, treating the
// body as a smooth sphere. A viewer inside that sphere sees everything.
func (n *Node) IsAboveHorizon(viewer mgl64.Vec3) bool {
	body := n.tree.body
	center := body.Position()
	toViewer := viewer.Sub(center)

	horizon, ok := pmath.HorizonAngle(body.Radius()*horizonMargin, toViewer.Len())
	if !ok {
		return true
	}
	toPatch := n.ClosestVertex(viewer).Sub(center)
	return pmath.AngleBetween(toViewer, toPatch) < horizon
}
