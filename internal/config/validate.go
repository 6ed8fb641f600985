package config

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/planet-terrain/internal/logger"
	"github.com/Faultbox/planet-terrain/internal/quadtree"
)

// Planet kinds.
const (
	KindTerran = "terran"
	KindBarren = "barren"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Validate checks settings the engine cannot recover from. All problems
// are reported together.
func (c *Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	t := c.Terrain
	if t.GridResolution <= 0 {
		fail("terrain.grid_resolution %d must be positive", t.GridResolution)
	}
	if t.GridResolution > quadtree.MaxGridResolution {
		fail("terrain.grid_resolution %d exceeds %d", t.GridResolution, quadtree.MaxGridResolution)
	}
	if t.MinVertexSpacing <= 0 {
		fail("terrain.min_vertex_spacing %g must be positive", t.MinVertexSpacing)
	}
	if t.MinVertexSpacing >= t.MaxVertexSpacing {
		fail("terrain.min_vertex_spacing %g must be below max_vertex_spacing %g",
			t.MinVertexSpacing, t.MaxVertexSpacing)
	} else if t.MaxVertexSpacing < 2*t.MinVertexSpacing {
		fail("terrain.max_vertex_spacing %g must be at least twice min_vertex_spacing %g",
			t.MaxVertexSpacing, t.MinVertexSpacing)
	}
	if t.Workers < 0 {
		fail("terrain.workers %d must not be negative", t.Workers)
	}

	p := c.Planet
	if p.Radius <= 0 {
		fail("planet.radius %g must be positive", p.Radius)
	}
	if p.TerrainHeight < 0 {
		fail("planet.terrain_height %g must not be negative", p.TerrainHeight)
	}
	if p.Kind != KindTerran && p.Kind != KindBarren {
		fail("planet.kind %q must be %q or %q", p.Kind, KindTerran, KindBarren)
	}

	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		fail("graphics size %dx%d must be positive", c.Graphics.Width, c.Graphics.Height)
	}
	if c.Graphics.MSAA < 0 || c.Graphics.MSAA > 16 {
		fail("graphics.msaa %d must be in [0, 16]", c.Graphics.MSAA)
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		fail("camera.fov %g must be in (0, 180)", c.Camera.FOV)
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}

	// Roots always build a tile, even when it is coarser than the maximum.
	if t.GridResolution > 0 && p.Radius > 0 {
		if rootSpacing := 2 * p.Radius / float64(t.GridResolution); rootSpacing > t.MaxVertexSpacing {
			logger.Warn("root patches exceed max vertex spacing",
				zap.Float64("root_spacing", rootSpacing),
				zap.Float64("max_vertex_spacing", t.MaxVertexSpacing))
		}
	}
	return nil
}

// TerrainOptions converts the terrain section for the quadtree.
func (c *Config) TerrainOptions() quadtree.Options {
	return quadtree.Options{
		GridResolution:   c.Terrain.GridResolution,
		MinVertexSpacing: c.Terrain.MinVertexSpacing,
		MaxVertexSpacing: c.Terrain.MaxVertexSpacing,
		HorizonCulling:   c.Terrain.HorizonCulling,
	}
}
