package meshc

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// FixedPoint describes a Q-format: signed integers of Width bits
// with FracBits implicit fractional bits, value ≈ stored/2^FracBits.
type FixedPoint struct {
	Width    int
	FracBits int
}

// Validate checks Width is one of 8, 16, 32, 64 and 0 <= FracBits < Width.
func (fp FixedPoint) Validate() error {
	switch fp.Width {
	case 8, 16, 32, 64:
	default:
		return fmt.Errorf("%w: width %d", ErrUnsupportedRepresentation, fp.Width)
	}
	if fp.FracBits < 0 || fp.FracBits >= fp.Width {
		return fmt.Errorf("%w: %d fractional bits in %d bit integer", ErrUnsupportedRepresentation, fp.FracBits, fp.Width)
	}
	return nil
}

// CType returns the C type name of the stored integer, i.e. "int32_t".
func (fp FixedPoint) CType() string {
	return "int" + strconv.Itoa(fp.Width) + "_t"
}

// ParseFixedPointType parses type names such as "int16", "int32_t"
// or "int64_t" and returns the integer width.
func ParseFixedPointType(s string) (int, error) {
	name := strings.TrimSuffix(strings.TrimSpace(s), "_t")
	if !strings.HasPrefix(name, "int") {
		return 0, fmt.Errorf("%w: type %q", ErrUnsupportedRepresentation, s)
	}
	w, err := strconv.Atoi(name[len("int"):])
	if err != nil {
		return 0, fmt.Errorf("%w: type %q", ErrUnsupportedRepresentation, s)
	}
	if err := (FixedPoint{Width: w}).Validate(); err != nil {
		return 0, err
	}
	return w, nil
}

// Quantize converts v to fixed point by scaling with 2^fp.FracBits and
// rounding half away from zero: 0.5 is added to non-negative values and
// subtracted from negative ones before truncating toward zero.
func (fp FixedPoint) Quantize(v float64) (int64, error) {
	if err := fp.Validate(); err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrNonFiniteCoordinate
	}
	scaled := math.Ldexp(v, fp.FracBits)
	if scaled >= 0 {
		scaled += 0.5
	} else {
		scaled -= 0.5
	}
	t := math.Trunc(scaled)
	lim := math.Ldexp(1, fp.Width-1)
	if t < -lim || t >= lim {
		return 0, fmt.Errorf("%w: %g in %d bits", ErrValueOutOfRange, v, fp.Width)
	}
	return int64(t), nil
}

// Dequantize returns the real value represented by q.
func (fp FixedPoint) Dequantize(q int64) float64 {
	return math.Ldexp(float64(q), -fp.FracBits)
}

// QuantizeVertex quantizes all three coordinates of v. No partial result
// is returned on failure.
func (fp FixedPoint) QuantizeVertex(v r3.Vec) (q [3]int64, err error) {
	for i, c := range [3]float64{v.X, v.Y, v.Z} {
		q[i], err = fp.Quantize(c)
		if err != nil {
			return [3]int64{}, err
		}
	}
	return q, nil
}

// quantizeVertices maps raw vertices to the configured representation.
// It returns the positions later stages compute normals with: the
// quantized integers as float64 in fixed point mode, the input otherwise.
func quantizeVertices(name string, verts []r3.Vec, cfg Config) (quantized [][3]int64, pos []r3.Vec, err error) {
	if !cfg.UseFixedPoint {
		for i, v := range verts {
			if badVec(v) {
				merr := newMeshError(name, ErrNonFiniteCoordinate)
				merr.Vertex = i
				return nil, nil, merr
			}
		}
		return nil, verts, nil
	}
	quantized = make([][3]int64, len(verts))
	pos = make([]r3.Vec, len(verts))
	for i, v := range verts {
		q, err := cfg.FixedPoint.QuantizeVertex(v)
		if err != nil {
			merr := newMeshError(name, err)
			merr.Vertex = i
			return nil, nil, merr
		}
		quantized[i] = q
		pos[i] = r3.Vec{X: float64(q[0]), Y: float64(q[1]), Z: float64(q[2])}
	}
	return quantized, pos, nil
}

func badVec(v r3.Vec) bool {
	return math.IsNaN(v.X) || math.IsInf(v.X, 0) ||
		math.IsNaN(v.Y) || math.IsInf(v.Y, 0) ||
		math.IsNaN(v.Z) || math.IsInf(v.Z, 0)
}
