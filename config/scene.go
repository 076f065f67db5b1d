package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/soypat/meshc"
	"gopkg.in/ini.v1"
)

// SceneFile describes a scene: a name, a camera count and the model
// files it instantiates, in order.
type SceneFile struct {
	Name    string
	Cameras int
	Meshes  []SceneMesh
}

// SceneMesh is a model file placed Instances times in a scene.
type SceneMesh struct {
	Name      string
	Path      string
	Instances int
}

const meshSectionPrefix = "mesh "

// LoadScene reads a scene descriptor such as
//
//	[scene]
//	Name = scene_cube
//	Cameras = 1
//
//	[mesh cube_tri]
//	Path = cube_tri.obj
//	Instances = 3
//
// Relative mesh paths are resolved against the descriptor's directory.
func LoadScene(path string) (SceneFile, error) {
	f, err := ini.Load(path)
	if err != nil {
		return SceneFile{}, err
	}
	sf, err := parseScene(f, filepath.Dir(path))
	if err != nil {
		return SceneFile{}, fmt.Errorf("%s: %w", path, err)
	}
	return sf, nil
}

func parseScene(f *ini.File, dir string) (SceneFile, error) {
	sec, err := f.GetSection("scene")
	if err != nil {
		return SceneFile{}, err
	}
	sf := SceneFile{
		Name:    sec.Key("Name").String(),
		Cameras: sec.Key("Cameras").MustInt(1),
	}
	if sf.Name == "" {
		return SceneFile{}, fmt.Errorf("scene has no Name")
	}
	for _, sec := range f.Sections() {
		if !strings.HasPrefix(sec.Name(), meshSectionPrefix) {
			continue
		}
		m := SceneMesh{
			Name:      strings.TrimSpace(strings.TrimPrefix(sec.Name(), meshSectionPrefix)),
			Path:      sec.Key("Path").String(),
			Instances: 1,
		}
		if sec.HasKey("Instances") {
			key := sec.Key("Instances")
			n, err := key.Int()
			if err != nil || n < 1 {
				return SceneFile{}, fmt.Errorf("mesh %q: %w: Instances = %s", m.Name, meshc.ErrInvalidInstanceCount, key.String())
			}
			m.Instances = n
		}
		if m.Path == "" {
			return SceneFile{}, fmt.Errorf("mesh %q has no Path", m.Name)
		}
		if !filepath.IsAbs(m.Path) {
			m.Path = filepath.Join(dir, m.Path)
		}
		sf.Meshes = append(sf.Meshes, m)
	}
	if len(sf.Meshes) == 0 {
		return SceneFile{}, fmt.Errorf("scene %q has no [mesh <name>] sections", sf.Name)
	}
	return sf, nil
}
