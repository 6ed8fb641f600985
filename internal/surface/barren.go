package surface

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/planet-terrain/internal/noise"
)

// Barren is an airless rock: ridged highlands over rolling plains, dry
// everywhere, cold towards the poles.
type Barren struct {
	Radius        float64
	TerrainHeight float64

	n *noise.Noise
}

// NewBarren returns a Barren sampler.
func NewBarren(radius, terrainHeight float64, seed int64) *Barren {
	return &Barren{
		Radius:        radius,
		TerrainHeight: terrainHeight,
		n:             noise.New(seed),
	}
}

func (b *Barren) Height(dir mgl64.Vec3) float64 {
	highlands := noise.Unit(b.n.Ridged(dir.Mul(8), 6, 1, 0.5))
	plains := noise.Unit(b.n.Fractal(dir.Mul(3).Add(mgl64.Vec3{300, 300, 300}), 4, 1, 0.5))
	mask := noise.Unit(b.n.Fractal(dir.Mul(2).Add(mgl64.Vec3{-40, -40, -40}), 3, 1, 0.5))

	h := plains*(1-mask)*0.6 + highlands*mask
	return b.Radius + h*b.TerrainHeight
}

func (b *Barren) SurfaceData(dir mgl64.Vec3) (temperature, humidity float64) {
	latitude := math.Abs(dir.Normalize()[1])
	temperature = mgl64.Clamp(1-latitude+0.1*b.n.Eval3(dir.Mul(20)), 0, 1)
	return temperature, 0
}
