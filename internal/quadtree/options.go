package quadtree

import (
	"errors"
	"fmt"
)

// MaxGridResolution bounds the quads per patch edge so one tile stays a
// reasonable upload.
const MaxGridResolution = 1024

// ErrInvalidOptions is returned for terrain settings the LOD policy cannot
// work with.
var ErrInvalidOptions = errors.New("invalid terrain options")

// Options are the LOD tuning parameters shared by every node of a tree.
type Options struct {
	// GridResolution is the number of quads along one patch edge.
	GridResolution int
	// MinVertexSpacing stops subdivision: a node only splits while its
	// children would still be coarser than this (metres per quad).
	MinVertexSpacing float64
	// MaxVertexSpacing forces subdivision regardless of distance. It must be
	// at least twice MinVertexSpacing, otherwise a leaf can be too coarse
	// while its children would already be finer than the minimum.
	MaxVertexSpacing float64
	// HorizonCulling skips patches hidden behind the body's limb.
	HorizonCulling bool
}

// DefaultOptions returns the settings used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		GridResolution:   16,
		MinVertexSpacing: 1,
		MaxVertexSpacing: 50000,
		HorizonCulling:   true,
	}
}

// Validate reports the first problem with o.
func (o Options) Validate() error {
	switch {
	case o.GridResolution <= 0:
		return fmt.Errorf("%w: grid resolution %d must be positive", ErrInvalidOptions, o.GridResolution)
	case o.GridResolution > MaxGridResolution:
		return fmt.Errorf("%w: grid resolution %d exceeds %d", ErrInvalidOptions, o.GridResolution, MaxGridResolution)
	case o.MinVertexSpacing <= 0:
		return fmt.Errorf("%w: min vertex spacing %g must be positive", ErrInvalidOptions, o.MinVertexSpacing)
	case o.MinVertexSpacing >= o.MaxVertexSpacing:
		return fmt.Errorf("%w: min vertex spacing %g must be below max %g",
			ErrInvalidOptions, o.MinVertexSpacing, o.MaxVertexSpacing)
	case o.MaxVertexSpacing < 2*o.MinVertexSpacing:
		return fmt.Errorf("%w: max vertex spacing %g must be at least twice min %g",
			ErrInvalidOptions, o.MaxVertexSpacing, o.MinVertexSpacing)
	}
	return nil
}
