// Package sim drives a planet's terrain without a GPU. It flies a viewer
// from orbit down to the surface and reports what the quadtree did at each
// altitude.
package sim

import (
	"context"
	"fmt"
	gomath "math"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/Faultbox/planet-terrain/internal/engine/terrain"
	"github.com/Faultbox/planet-terrain/internal/logger"
	"github.com/Faultbox/planet-terrain/internal/planet"
	"github.com/Faultbox/planet-terrain/internal/quadtree"
)

// NullRenderer accepts uploads and draws without touching a GPU. It keeps
// counts so leaks and redundant uploads show up in reports.
type NullRenderer struct {
	Uploads  int
	Released int
	Draws    int
	Vertices int
}

type nullBuffers struct {
	r        *NullRenderer
	released bool
}

func (b *nullBuffers) Release() {
	if b.released {
		return
	}
	b.released = true
	b.r.Released++
}

func (r *NullRenderer) Upload(mesh *terrain.Mesh) (quadtree.Buffers, error) {
	r.Uploads++
	r.Vertices += len(mesh.Vertices)
	return &nullBuffers{r: r}, nil
}

func (r *NullRenderer) DrawPatch(quadtree.Buffers, quadtree.Transform) {
	r.Draws++
}

// Resident is the number of uploads not yet released.
func (r *NullRenderer) Resident() int { return r.Uploads - r.Released }

// Step is one sample of the descent.
type Step struct {
	Index    int
	Altitude float64
	Viewer   mgl64.Vec3
	Tree     quadtree.TreeStats
	Frame    quadtree.FrameStats
	Resident int
	Elapsed  time.Duration
}

// String formats a step as one report line.
func (s Step) String() string {
	depths := make([]string, len(s.Tree.LeavesPerDepth))
	for i, n := range s.Tree.LeavesPerDepth {
		depths[i] = fmt.Sprint(n)
	}
	return fmt.Sprintf("%3d alt=%-12.1f nodes=%-6d leaves=%-6d depth=%-3d gen=%-4d drawn=%-5d culled=%-5d resident=%-6d %8s [%s]",
		s.Index, s.Altitude, s.Tree.Nodes, s.Tree.Leaves, s.Tree.MaxDepth, s.Tree.Generating,
		s.Frame.Drawn, s.Frame.Culled, s.Resident, s.Elapsed.Round(time.Microsecond), strings.Join(depths, " "))
}

// Descent flies a viewer straight down along Direction (body space).
// Altitudes are spaced geometrically between From and To.
type Descent struct {
	Planet    *planet.Planet
	Renderer  *NullRenderer
	Direction mgl64.Vec3
	From, To  float64
	Steps     int
	// Rounds is how many LOD passes run per altitude. Each pass can only
	// descend one level below leaves that just gained a tile.
	Rounds int
	// Settle waits up to this long per round for in-flight tiles when the
	// planet generates on a worker pool.
	Settle time.Duration
}

// Altitudes returns the sample altitudes of the descent.
func (d Descent) Altitudes() []float64 {
	n := d.Steps
	if n < 1 {
		n = 1
	}
	out := make([]float64, n)
	if n == 1 {
		out[0] = d.From
		return out
	}
	lo, hi := gomath.Max(d.To, 1e-3), gomath.Max(d.From, 1e-3)
	ratio := gomath.Pow(lo/hi, 1/float64(n-1))
	a := hi
	for i := range out {
		out[i] = a
		a *= ratio
	}
	out[n-1] = lo
	return out
}

// Run executes the descent and calls report after every altitude.
func (d Descent) Run(ctx context.Context, report func(Step)) error {
	if d.Planet == nil {
		return fmt.Errorf("sim: no planet")
	}
	if d.Renderer == nil {
		d.Renderer = &NullRenderer{}
	}
	dir := d.Direction
	if dir.Len() == 0 {
		dir = mgl64.Vec3{0, 1, 0}
	}
	dir = dir.Normalize()
	rounds := d.Rounds
	if rounds < 1 {
		rounds = 1
	}
	log := logger.Named("sim")

	p := d.Planet
	for i, alt := range d.Altitudes() {
		if err := ctx.Err(); err != nil {
			return err
		}
		start := time.Now()
		ground := p.GroundHeight(dir)
		viewer := p.Position().Add(p.Orientation().Rotate(dir.Mul(ground + alt)))

		for r := 0; r < rounds; r++ {
			p.Update(0, viewer)
			if err := d.settle(ctx); err != nil {
				return err
			}
		}
		frame := p.Draw(d.Renderer, viewer)

		step := Step{
			Index:    i,
			Altitude: alt,
			Viewer:   viewer,
			Tree:     p.Tree().Stats(),
			Frame:    frame,
			Resident: d.Renderer.Resident(),
			Elapsed:  time.Since(start),
		}
		log.Debug("descent step",
			zap.Int("step", i),
			zap.Float64("altitude", alt),
			zap.Int("nodes", step.Tree.Nodes),
			zap.Int("drawn", frame.Drawn))
		if report != nil {
			report(step)
		}
	}
	return nil
}

func (d Descent) settle(ctx context.Context) error {
	if d.Settle <= 0 {
		return nil
	}
	deadline := time.Now().Add(d.Settle)
	for d.Planet.Tree().Stats().Generating > 0 && time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Millisecond):
		}
	}
	return nil
}
