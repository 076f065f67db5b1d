package meshc

import (
	"fmt"
	"runtime"
)

// Config holds every parameter the compiler stages read. Stages never
// consult global state, a Config value is passed explicitly.
type Config struct {
	// UseFixedPoint selects quantized vertices. When false vertex
	// coordinates pass through unchanged.
	UseFixedPoint bool
	// FixedPoint is the target format when UseFixedPoint is set.
	FixedPoint FixedPoint
	// BoundaryThreshold is compared against the dot product of the
	// two face normals incident to an edge. Edges with dot > BoundaryThreshold
	// are smooth, the rest are marked as boundary. It is a cosine, not an angle.
	BoundaryThreshold float64
	// Flags holds the bit positions used to pack edge flags.
	Flags FlagLayout
	// IndexBits is the width of the unsigned integer type the runtime
	// uses for indices and counts (16 for uint16_t).
	IndexBits int
	// Concurrency bounds the number of meshes compiled in parallel
	// by CompileScene. Values below 1 mean runtime.NumCPU().
	Concurrency int
}

// DefaultConfig returns the configuration lib3d ships with:
// Q15.16 fixed point in int32_t, uint16_t indices.
func DefaultConfig() Config {
	return Config{
		UseFixedPoint:     true,
		FixedPoint:        FixedPoint{Width: 32, FracBits: 16},
		BoundaryThreshold: 0.99,
		Flags: FlagLayout{
			VisibleBit:    2,
			BoundaryBit:   1,
			SilhouetteBit: 0,
		},
		IndexBits:   16,
		Concurrency: runtime.NumCPU(),
	}
}

// Validate checks the configuration. Overlapping flag bit positions are
// not detected, choosing distinct positions is the caller's responsibility.
func (c Config) Validate() error {
	if c.UseFixedPoint {
		if err := c.FixedPoint.Validate(); err != nil {
			return err
		}
	}
	for _, bit := range [...]uint{c.Flags.VisibleBit, c.Flags.BoundaryBit, c.Flags.SilhouetteBit} {
		if bit >= 8 {
			return fmt.Errorf("%w: flag bit position %d does not fit uint8 flags", ErrInvalidConfig, bit)
		}
	}
	if c.IndexBits < 8 || c.IndexBits > 64 {
		return fmt.Errorf("%w: index type width %d", ErrInvalidConfig, c.IndexBits)
	}
	return nil
}

// maxIndex returns the largest count representable by the index type.
func (c Config) maxIndex() uint64 {
	if c.IndexBits >= 64 {
		return 1<<64 - 1
	}
	return 1<<uint(c.IndexBits) - 1
}

func (c Config) workers() int {
	if c.Concurrency < 1 {
		return runtime.NumCPU()
	}
	return c.Concurrency
}
