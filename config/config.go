// Package config loads compiler settings and scene descriptors from INI files.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/soypat/meshc"
	"gopkg.in/ini.v1"
)

// Settings is the content of a config.ini file.
type Settings struct {
	Compiler meshc.Config
	// InfoGeneratedBy is written to the banner of generated files.
	InfoGeneratedBy string
	// VertexArrayType is the C element type of vertex arrays.
	VertexArrayType string
	// FaceArrayType is the C element type of face and edge arrays.
	// It sets Compiler.IndexBits.
	FaceArrayType string
}

// Defaults returns the settings used for keys missing from a file.
func Defaults() Settings {
	return Settings{
		Compiler:        meshc.DefaultConfig(),
		InfoGeneratedBy: "Generated for lib3d by meshc.",
		VertexArrayType: "l3d_rtnl_t",
		FaceArrayType:   "uint16_t",
	}
}

// Load reads settings from the DEFAULT section of an INI source. source
// may be a file name, []byte or io.Reader, as accepted by ini.Load.
func Load(source interface{}) (Settings, error) {
	f, err := ini.Load(source)
	if err != nil {
		return Settings{}, err
	}
	s, err := parse(f.Section(ini.DefaultSection))
	if err != nil {
		return Settings{}, fmt.Errorf("%w: %w", meshc.ErrInvalidConfig, err)
	}
	if err := s.Compiler.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func parse(sec *ini.Section) (Settings, error) {
	s := Defaults()
	c := &s.Compiler
	var err error
	if sec.HasKey("UseFixedPoint") {
		if c.UseFixedPoint, err = sec.Key("UseFixedPoint").Bool(); err != nil {
			return s, fmt.Errorf("UseFixedPoint: %w", err)
		}
	}
	if sec.HasKey("FixedPointType") {
		if c.FixedPoint.Width, err = meshc.ParseFixedPointType(sec.Key("FixedPointType").String()); err != nil {
			return s, fmt.Errorf("FixedPointType: %w", err)
		}
	}
	if sec.HasKey("FixedPointBinaryDigits") {
		if c.FixedPoint.FracBits, err = sec.Key("FixedPointBinaryDigits").Int(); err != nil {
			return s, fmt.Errorf("FixedPointBinaryDigits: %w", err)
		}
	}
	if sec.HasKey("BoundaryEdgeThreshold") {
		if c.BoundaryThreshold, err = sec.Key("BoundaryEdgeThreshold").Float64(); err != nil {
			return s, fmt.Errorf("BoundaryEdgeThreshold: %w", err)
		}
	}
	for _, bit := range []struct {
		key string
		dst *uint
	}{
		{"EdgeVisibilityFlagBitPos", &c.Flags.VisibleBit},
		{"EdgeBoundaryFlagBitPos", &c.Flags.BoundaryBit},
		{"EdgeSilhouetteFlagBitPos", &c.Flags.SilhouetteBit},
	} {
		if !sec.HasKey(bit.key) {
			continue
		}
		v, err := sec.Key(bit.key).Uint()
		if err != nil {
			return s, fmt.Errorf("%s: %w", bit.key, err)
		}
		*bit.dst = v
	}
	if sec.HasKey("Concurrency") {
		if c.Concurrency, err = sec.Key("Concurrency").Int(); err != nil {
			return s, fmt.Errorf("Concurrency: %w", err)
		}
	}
	s.InfoGeneratedBy = sec.Key("InfoGeneratedBy").MustString(s.InfoGeneratedBy)
	s.VertexArrayType = sec.Key("VertexArrayType").MustString(s.VertexArrayType)
	s.FaceArrayType = sec.Key("FaceArrayType").MustString(s.FaceArrayType)
	if c.IndexBits, err = parseIndexType(s.FaceArrayType); err != nil {
		return s, fmt.Errorf("FaceArrayType: %w", err)
	}
	return s, nil
}

// parseIndexType returns the width of unsigned C types such as uint16_t.
func parseIndexType(t string) (int, error) {
	name := strings.TrimSuffix(strings.TrimSpace(t), "_t")
	if !strings.HasPrefix(name, "uint") {
		return 0, fmt.Errorf("want unsigned integer type, got %q", t)
	}
	w, err := strconv.Atoi(name[len("uint"):])
	if err != nil {
		return 0, fmt.Errorf("bad integer type %q", t)
	}
	switch w {
	case 8, 16, 32, 64:
		return w, nil
	}
	return 0, fmt.Errorf("bad integer width %d", w)
}
