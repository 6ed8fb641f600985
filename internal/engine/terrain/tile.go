package terrain

import (
	"errors"
	"fmt"
	gomath "math"

	"github.com/go-gl/mathgl/mgl64"

	pmath "github.com/Faultbox/planet-terrain/pkg/math"
)

var (
	// ErrCancelled is returned when the liveness check fails mid-build.
	ErrCancelled = errors.New("tile build cancelled")
	// ErrBadSample is returned when the sampler produces a height that
	// cannot place a vertex (NaN, infinite or not above the centre).
	ErrBadSample = errors.New("sampler returned an invalid height")
	// ErrSamplerPanic wraps a panic raised inside the sampler.
	ErrSamplerPanic = errors.New("sampler panicked")
)

// Builder samples a Sampler on a fixed lattice to produce patch tiles.
type Builder struct {
	Sampler Sampler
	Grid    int // quads per tile edge
}

// Build generates the tile for one patch. alive is polled before every
// lattice row and once more before returning; when it reports false the
// partial arrays are dropped and ErrCancelled is returned. A nil alive
// never cancels.
func (b Builder) Build(p Patch, alive func() bool) (mesh *Mesh, err error) {
	defer func() {
		if r := recover(); r != nil {
			mesh = nil
			err = fmt.Errorf("%w: %v", ErrSamplerPanic, r)
		}
	}()

	g := b.Grid
	if g <= 0 {
		return nil, fmt.Errorf("terrain: grid resolution %d must be positive", g)
	}
	if p.Size <= 0 {
		return nil, fmt.Errorf("terrain: patch size %g must be positive", p.Size)
	}
	if alive == nil {
		alive = func() bool { return true }
	}

	centerDir := pmath.ProjectToSphere(p.CubePosition)
	ch, err := b.height(centerDir)
	if err != nil {
		return nil, err
	}
	center := centerDir.Mul(ch)

	s := g + 1 // vertices per lattice row
	n := g + 2 // sampled rows, one guard row past the far edge for normals
	spacing := p.Size / float64(g)
	half := float64(g) * 0.5
	invSize := 1 / p.Size

	points := make([]mgl64.Vec3, n*n)
	minH, maxH := gomath.Inf(1), gomath.Inf(-1)
	for x := 0; x < n; x++ {
		if !alive() {
			return nil, ErrCancelled
		}
		for z := 0; z < n; z++ {
			cube := pmath.PlanePoint(p.CubePosition, p.Orientation,
				(float64(x)-half)*spacing, (float64(z)-half)*spacing)
			dir := pmath.ProjectToSphere(cube)
			h, err := b.height(dir)
			if err != nil {
				return nil, err
			}
			points[x*n+z] = dir.Mul(h)
			if x < s && z < s {
				minH = gomath.Min(minH, h)
				maxH = gomath.Max(maxH, h)
			}
		}
	}

	vertices := make([]Vertex, s*s)
	bounds := Bounds{
		Min: [3]float32{gomath.MaxFloat32, gomath.MaxFloat32, gomath.MaxFloat32},
		Max: [3]float32{-gomath.MaxFloat32, -gomath.MaxFloat32, -gomath.MaxFloat32},
	}
	for x := 0; x < s; x++ {
		if !alive() {
			return nil, ErrCancelled
		}
		for z := 0; z < s; z++ {
			p1 := points[x*n+z]
			p2 := points[x*n+z+1]
			p3 := points[(x+1)*n+z]
			dir := pmath.ProjectToSphere(p1)

			normal := surfaceNormal(p1, p2, p3, dir)
			temp, humidity := b.Sampler.SurfaceData(dir)
			pos := pmath.Pack(p1.Sub(center).Mul(invSize))

			vertices[x*s+z] = Vertex{
				Position: pos,
				Normal:   pmath.Pack(normal),
				Surface:  [2]float32{float32(temp), float32(humidity)},
			}
			updateBounds(&bounds, pos)
		}
	}

	indices := make([]uint32, 0, IndexCount(g))
	for x := 0; x < g; x++ {
		for z := 0; z < g; z++ {
			i00 := uint32(x*s + z)
			i01 := uint32(x*s + z + 1)
			i10 := uint32((x+1)*s + z)
			i11 := uint32((x+1)*s + z + 1)
			indices = append(indices,
				i10, i00, i01,
				i11, i10, i01,
			)
		}
	}

	if !alive() {
		return nil, ErrCancelled
	}

	mesh = &Mesh{
		Vertices:  vertices,
		Indices:   indices,
		Center:    center,
		Size:      p.Size,
		Samples:   SampleIndices(g),
		Bounds:    bounds,
		MinHeight: minH,
		MaxHeight: maxH,
	}
	for i, idx := range mesh.Samples {
		x, z := int(idx)/s, int(idx)%s
		mesh.SamplePoints[i] = points[x*n+z]
	}
	return mesh, nil
}

func (b Builder) height(dir mgl64.Vec3) (float64, error) {
	h := b.Sampler.Height(dir)
	if gomath.IsNaN(h) || gomath.IsInf(h, 0) || h <= 0 {
		return 0, fmt.Errorf("%w: %g at %v", ErrBadSample, h, dir)
	}
	return h, nil
}

// SampleIndices returns the lattice indices of the corners, edge
// midpoints and centre of a tile, addressed as x*(grid+1)+z.
func SampleIndices(grid int) [SampleCount]uint32 {
	s := grid + 1
	v := grid
	h := grid / 2
	idx := func(x, z int) uint32 { return uint32(x*s + z) }
	return [SampleCount]uint32{
		idx(0, 0),
		idx(v, 0),
		idx(0, v),
		idx(v, v),
		idx(h, 0),
		idx(0, h),
		idx(h, v),
		idx(v, h),
		idx(h, h),
	}
}

// surfaceNormal estimates the normal at p1 from its +z neighbour p2 and
// +x neighbour p3, flipped to face away from the body centre.
func surfaceNormal(p1, p2, p3, up mgl64.Vec3) mgl64.Vec3 {
	e1 := p2.Sub(p1)
	e2 := p3.Sub(p1)
	if e1.Len() == 0 || e2.Len() == 0 {
		return up
	}
	n := e1.Normalize().Cross(e2.Normalize())
	l := n.Len()
	if l < 1e-12 {
		return up
	}
	n = n.Mul(1 / l)
	if n.Dot(up) < 0 {
		n = n.Mul(-1)
	}
	return n
}

func updateBounds(b *Bounds, p [3]float32) {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}
