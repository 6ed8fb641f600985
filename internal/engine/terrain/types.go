// Package terrain builds renderable mesh tiles for cube-sphere patches.
package terrain

import "github.com/go-gl/mathgl/mgl64"

// SampleCount is the number of retained closest-vertex samples per tile:
// four corners, four edge midpoints and the centre.
const SampleCount = 9

// Sampler maps a unit direction in body space to surface values.
// Implementations are called concurrently from worker goroutines and must
// not share mutable state.
type Sampler interface {
	// Height returns the distance from the body centre to the surface
	// along dir (radius plus displacement).
	Height(dir mgl64.Vec3) float64
	// SurfaceData returns normalised temperature and humidity in [0, 1].
	SurfaceData(dir mgl64.Vec3) (temperature, humidity float64)
}

// Vertex represents a patch mesh vertex.
// Position is relative to the tile centre and divided by the tile size.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	Surface  [2]float32 // temperature, humidity
}

// Patch is the geometric frame of one quadtree node.
type Patch struct {
	CubePosition mgl64.Vec3
	Size         float64
	Orientation  mgl64.Mat3
}

// Mesh holds the complete tile mesh data ready for GPU upload.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32

	// Center is the displaced surface point under the patch centre, in
	// body space. Vertex positions are stored relative to it.
	Center mgl64.Vec3
	Size   float64

	// Samples are vertex indices kept for cheap nearest-point queries;
	// SamplePoints are the same vertices in body space at full precision.
	Samples      [SampleCount]uint32
	SamplePoints [SampleCount]mgl64.Vec3

	Bounds    Bounds
	MinHeight float64
	MaxHeight float64
}

// Bounds holds the axis-aligned bounding box of a tile in mesh-local units.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// VertexCount returns the number of lattice vertices for a grid resolution.
func VertexCount(grid int) int {
	return (grid + 1) * (grid + 1)
}

// IndexCount returns the number of triangle indices for a grid resolution.
func IndexCount(grid int) int {
	return grid * grid * 6
}
