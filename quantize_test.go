package meshc

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestQuantizeHalfAwayFromZero(t *testing.T) {
	for _, test := range []struct {
		v    float64
		fp   FixedPoint
		want int64
	}{
		{0.5, FixedPoint{8, 0}, 1},
		{-0.5, FixedPoint{8, 0}, -1},
		{1.5, FixedPoint{8, 0}, 2},
		{2.5, FixedPoint{8, 0}, 3}, // round to even would give 2.
		{-2.5, FixedPoint{8, 0}, -3},
		{0.49, FixedPoint{8, 0}, 0},
		{-0.49, FixedPoint{8, 0}, 0},
		{1, FixedPoint{32, 16}, 65536},
		{-1, FixedPoint{32, 16}, -65536},
		{0.1, FixedPoint{32, 16}, 6554},
		{-0.1, FixedPoint{32, 16}, -6554},
		{127.4, FixedPoint{8, 0}, 127},
		{-128.4, FixedPoint{8, 0}, -128},
		{math.Ldexp(1, 62), FixedPoint{64, 0}, 1 << 62},
	} {
		got, err := test.fp.Quantize(test.v)
		if err != nil {
			t.Fatalf("Quantize(%g, %+v): %v", test.v, test.fp, err)
		}
		if got != test.want {
			t.Errorf("Quantize(%g, %+v) got %d, want %d", test.v, test.fp, got, test.want)
		}
	}
}

func TestQuantizeRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, fp := range []FixedPoint{{8, 4}, {16, 8}, {32, 16}, {64, 32}} {
		bound := math.Ldexp(1, fp.Width-fp.FracBits-2)
		tol := math.Ldexp(1, -fp.FracBits)
		for i := 0; i < 1000; i++ {
			x := (2*rng.Float64() - 1) * bound
			q, err := fp.Quantize(x)
			if err != nil {
				t.Fatalf("%+v: Quantize(%g): %v", fp, x, err)
			}
			if got := fp.Dequantize(q); math.Abs(got-x) > tol {
				t.Fatalf("%+v: round trip of %g got %g, outside tolerance %g", fp, x, got, tol)
			}
		}
	}
}

func TestQuantizeErrors(t *testing.T) {
	for _, test := range []struct {
		v    float64
		fp   FixedPoint
		want error
	}{
		{1, FixedPoint{24, 8}, ErrUnsupportedRepresentation},
		{1, FixedPoint{0, 0}, ErrUnsupportedRepresentation},
		{1, FixedPoint{16, 16}, ErrUnsupportedRepresentation},
		{1, FixedPoint{16, -1}, ErrUnsupportedRepresentation},
		{math.NaN(), FixedPoint{32, 16}, ErrNonFiniteCoordinate},
		{math.Inf(-1), FixedPoint{32, 16}, ErrNonFiniteCoordinate},
		{127.5, FixedPoint{8, 0}, ErrValueOutOfRange},
		{-128.5, FixedPoint{8, 0}, ErrValueOutOfRange},
		{32768, FixedPoint{32, 16}, ErrValueOutOfRange},
		{math.Ldexp(1, 63), FixedPoint{64, 0}, ErrValueOutOfRange},
	} {
		_, err := test.fp.Quantize(test.v)
		if !errors.Is(err, test.want) {
			t.Errorf("Quantize(%g, %+v) got error %v, want %v", test.v, test.fp, err, test.want)
		}
	}
}

func TestQuantizeVertexNoPartialResult(t *testing.T) {
	fp := FixedPoint{Width: 8, FracBits: 4}
	q, err := fp.QuantizeVertex(r3.Vec{X: 1, Y: 2, Z: 100})
	if !errors.Is(err, ErrValueOutOfRange) {
		t.Fatalf("got error %v", err)
	}
	if q != ([3]int64{}) {
		t.Errorf("partial vertex returned: %v", q)
	}
}

func TestParseFixedPointType(t *testing.T) {
	for _, test := range []struct {
		s    string
		want int
		ok   bool
	}{
		{"int8", 8, true},
		{"int16_t", 16, true},
		{" int32_t ", 32, true},
		{"int64", 64, true},
		{"int24_t", 0, false},
		{"uint32_t", 0, false},
		{"float", 0, false},
	} {
		got, err := ParseFixedPointType(test.s)
		if (err == nil) != test.ok || got != test.want {
			t.Errorf("ParseFixedPointType(%q) got (%d, %v)", test.s, got, err)
		}
		if err != nil && !errors.Is(err, ErrUnsupportedRepresentation) {
			t.Errorf("ParseFixedPointType(%q) unexpected error kind %v", test.s, err)
		}
	}
}
