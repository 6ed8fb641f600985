// Package noise provides seeded 3D gradient noise for surface samplers.
package noise

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/ojrac/opensimplex-go"
)

// Noise wraps opensimplex.Noise with the octave sums the surface
// samplers use. It holds no mutable state and is safe for concurrent use.
type Noise struct {
	Seed int64
	OS   opensimplex.Noise
}

// New returns a Noise for the given seed.
func New(seed int64) *Noise {
	return &Noise{
		Seed: seed,
		OS:   opensimplex.New(seed),
	}
}

// Eval3 returns raw noise in [-1, 1] at p.
func (n *Noise) Eval3(p mgl64.Vec3) float64 {
	return n.OS.Eval3(p[0], p[1], p[2])
}

// Fractal sums octaves of noise, doubling the frequency and scaling the
// amplitude by persistence each octave. The result is normalised by the
// total amplitude, so it stays in [-1, 1].
func (n *Noise) Fractal(p mgl64.Vec3, octaves int, frequency, persistence float64) float64 {
	var sum, sumOfAmplitudes float64
	amplitude := 1.0
	for octave := 0; octave < octaves; octave++ {
		q := p.Mul(frequency)
		sum += amplitude * n.OS.Eval3(q[0], q[1], q[2])
		sumOfAmplitudes += amplitude
		amplitude *= persistence
		frequency *= 2
	}
	if sumOfAmplitudes == 0 {
		return 0
	}
	return sum / sumOfAmplitudes
}

// Ridged is Fractal with each octave folded into sharp crests. Returns a
// value in [-1, 1] where 1 is a ridge line.
func (n *Noise) Ridged(p mgl64.Vec3, octaves int, frequency, persistence float64) float64 {
	var sum, sumOfAmplitudes float64
	amplitude := 1.0
	for octave := 0; octave < octaves; octave++ {
		q := p.Mul(frequency)
		r := 1 - math.Abs(n.OS.Eval3(q[0], q[1], q[2]))
		sum += amplitude * r * r
		sumOfAmplitudes += amplitude
		amplitude *= persistence
		frequency *= 2
	}
	if sumOfAmplitudes == 0 {
		return 0
	}
	return sum/sumOfAmplitudes*2 - 1
}

// Unit maps a value in [-1, 1] to [0, 1].
func Unit(v float64) float64 {
	return v*0.5 + 0.5
}
