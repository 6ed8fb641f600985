// Package planet ties a procedural surface to a terrain quadtree.
package planet

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/Faultbox/planet-terrain/internal/config"
	"github.com/Faultbox/planet-terrain/internal/engine/terrain"
	"github.com/Faultbox/planet-terrain/internal/logger"
	"github.com/Faultbox/planet-terrain/internal/metrics"
	"github.com/Faultbox/planet-terrain/internal/quadtree"
	"github.com/Faultbox/planet-terrain/internal/surface"
)

// Planet is a spherical body with procedurally generated terrain. It
// satisfies quadtree.Body.
type Planet struct {
	Name string

	radius        float64
	terrainHeight float64
	position      mgl64.Vec3
	orientation   mgl64.Quat
	// spin is the rotation rate about the body's Y axis in rad/s.
	spin float64

	// sampler feeds the tree and records into stats; ground answers
	// viewer queries without touching them.
	sampler terrain.Sampler
	ground  terrain.Sampler
	stats   *surface.Stats
	tree    *quadtree.Tree
}

// NewSurface builds the sampler for a planet kind.
func NewSurface(cfg config.PlanetConfig) (terrain.Sampler, error) {
	switch cfg.Kind {
	case config.KindTerran:
		return surface.NewTerran(cfg.Radius, cfg.TerrainHeight, cfg.Seed), nil
	case config.KindBarren:
		return surface.NewBarren(cfg.Radius, cfg.TerrainHeight, cfg.Seed), nil
	default:
		return nil, fmt.Errorf("%w: unknown planet kind %q", config.ErrInvalidConfig, cfg.Kind)
	}
}

// New creates a planet and its terrain tree. Root tiles start building on
// sched immediately.
func New(cfg config.PlanetConfig, opts quadtree.Options, sched quadtree.Scheduler) (*Planet, error) {
	s, err := NewSurface(cfg)
	if err != nil {
		return nil, err
	}

	p := &Planet{
		Name:          cfg.Name,
		radius:        cfg.Radius,
		terrainHeight: cfg.TerrainHeight,
		position:      mgl64.Vec3(cfg.Position),
		orientation:   mgl64.QuatIdent(),
		stats:         surface.NewStats(),
		ground:        s,
	}
	p.sampler = surface.WithStats(s, p.stats)

	p.tree, err = quadtree.NewTree(p, opts, sched)
	if err != nil {
		return nil, fmt.Errorf("planet %s: %w", cfg.Name, err)
	}

	logger.Info("planet created",
		zap.String("name", p.Name),
		zap.String("kind", cfg.Kind),
		zap.Float64("radius", p.radius),
		zap.Int64("seed", cfg.Seed))
	return p, nil
}

func (p *Planet) Height(dir mgl64.Vec3) float64 {
	return p.sampler.Height(dir)
}

func (p *Planet) SurfaceData(dir mgl64.Vec3) (temperature, humidity float64) {
	return p.sampler.SurfaceData(dir)
}

func (p *Planet) Radius() float64 { return p.radius }

func (p *Planet) Position() mgl64.Vec3 { return p.position }

func (p *Planet) Orientation() mgl64.Quat { return p.orientation }

// SetPosition moves the planet's centre.
func (p *Planet) SetPosition(pos mgl64.Vec3) { p.position = pos }

// SetSpin sets the rotation rate about the body's Y axis in rad/s.
func (p *Planet) SetSpin(rate float64) { p.spin = rate }

// TerrainHeight is the maximum displacement above the radius.
func (p *Planet) TerrainHeight() float64 { return p.terrainHeight }

// Tree returns the terrain quadtree.
func (p *Planet) Tree() *quadtree.Tree { return p.tree }

// Stats returns the range of heights generated so far.
func (p *Planet) Stats() *surface.Stats { return p.stats }

// Update advances the body's rotation by dt seconds and refines the
// terrain for a viewer at the given world position.
func (p *Planet) Update(dt float64, viewer mgl64.Vec3) {
	if p.spin != 0 && dt > 0 {
		step := mgl64.QuatRotate(p.spin*dt, mgl64.Vec3{0, 1, 0})
		p.orientation = p.orientation.Mul(step).Normalize()
	}
	p.tree.Update(viewer)
}

// Draw submits the visible terrain to r.
func (p *Planet) Draw(r quadtree.Renderer, viewer mgl64.Vec3) quadtree.FrameStats {
	return p.tree.Draw(r, viewer)
}

// Close releases every terrain node.
func (p *Planet) Close() {
	p.tree.Close()
}

// ToLocal converts a world position into the body's unrotated frame,
// relative to its centre.
func (p *Planet) ToLocal(world mgl64.Vec3) mgl64.Vec3 {
	return p.orientation.Inverse().Rotate(world.Sub(p.position))
}

// SurfacePoint returns the world position of the terrain directly below
// (or above) world.
func (p *Planet) SurfacePoint(world mgl64.Vec3) mgl64.Vec3 {
	local := p.ToLocal(world)
	if local.Len() == 0 {
		local = mgl64.Vec3{0, 1, 0}
	}
	dir := local.Normalize()
	return p.position.Add(p.orientation.Rotate(dir.Mul(p.ground.Height(dir))))
}

// GroundHeight is the terrain's distance from the centre along the body
// space direction dir. Unlike Height it is not counted in Stats.
func (p *Planet) GroundHeight(dir mgl64.Vec3) float64 {
	return p.ground.Height(dir)
}

// Altitude returns the height of world above the terrain beneath it.
// Negative values are underground.
func (p *Planet) Altitude(world mgl64.Vec3) float64 {
	local := p.ToLocal(world)
	d := local.Len()
	if d == 0 {
		return -p.radius
	}
	return d - p.ground.Height(local.Mul(1/d))
}

// RegisterMetrics exports the generated height range as gauges.
func (p *Planet) RegisterMetrics() error {
	gauge := func(v func() float64) func() float64 {
		return func() float64 {
			if x := v(); !math.IsInf(x, 0) {
				return x - p.radius
			}
			return 0
		}
	}
	if err := metrics.RegisterGaugeFunc("surface_height_min_meters",
		"Lowest generated surface height above the radius.", gauge(p.stats.Min)); err != nil {
		return err
	}
	return metrics.RegisterGaugeFunc("surface_height_max_meters",
		"Highest generated surface height above the radius.", gauge(p.stats.Max))
}
