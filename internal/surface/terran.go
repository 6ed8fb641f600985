// Package surface provides procedural surface samplers for planets.
package surface

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/planet-terrain/internal/noise"
)

// Terran is an earth-like body: smooth lowlands broken by rough mountain
// ranges, with noise-driven temperature and humidity.
type Terran struct {
	Radius        float64
	TerrainHeight float64
	// OceanLevel is the normalised height below which the surface is
	// seabed.
	OceanLevel float64

	n *noise.Noise
}

// NewTerran returns a Terran sampler. Heights range over
// [radius, radius+terrainHeight].
func NewTerran(radius, terrainHeight float64, seed int64) *Terran {
	return &Terran{
		Radius:        radius,
		TerrainHeight: terrainHeight,
		OceanLevel:    0.5,
		n:             noise.New(seed),
	}
}

func (t *Terran) Height(dir mgl64.Vec3) float64 {
	return t.Radius + t.height(dir)*t.TerrainHeight
}

// height returns the displacement in [0, 1].
func (t *Terran) height(dir mgl64.Vec3) float64 {
	rough := noise.Unit(t.n.Ridged(dir.Mul(50).Add(mgl64.Vec3{-5000, -5000, -5000}), 5, 0.2, 0.7))
	mountain := t.n.Fractal(dir.Mul(1000).Add(mgl64.Vec3{2000, 2000, 2000}), 11, 0.03, 0.5)
	flat := noise.Unit(t.n.Fractal(dir.Mul(100).Add(mgl64.Vec3{1000, 1000, 1000}), 2, 0.01, 0.45))

	rough *= rough
	flat *= 1 - rough
	mountain *= rough

	total := mountain + flat
	total += noise.Unit(t.n.Fractal(dir.Mul(50).Add(mgl64.Vec3{-100, -100, -100}), 7, 0.3, 0.2))
	return (total + 1) / 3
}

func (t *Terran) SurfaceData(dir mgl64.Vec3) (temperature, humidity float64) {
	temperature = noise.Unit(t.n.Fractal(dir.Mul(100), 5, 0.3, 0.8))
	humidity = noise.Unit(t.n.Fractal(dir.Mul(200), 4, 0.1, 0.8))
	if t.height(dir) < t.OceanLevel {
		humidity = 1
	}
	return temperature, humidity
}
