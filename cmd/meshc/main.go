// Command meshc compiles triangle meshes and scenes into lib3d C sources.
//
// Usage:
//
//	meshc mesh [flags] model.obj...
//	meshc scene [flags] scene.ini
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/soypat/meshc"
	"github.com/soypat/meshc/cgen"
	"github.com/soypat/meshc/config"
	"github.com/soypat/meshc/meshio"
	"github.com/soypat/meshc/render"
)

const usage = `usage:
	meshc mesh [flags] model.obj|model.stl...
	meshc scene [flags] scene.ini
Run "meshc <command> -h" for command flags.`

type flags struct {
	config  string
	outDir  string
	verbose bool
	preview bool
	hist    bool
	stl     bool
	weld    float64
}

func (f *flags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.config, "config", "", "INI configuration file. Defaults are used if empty.")
	fs.StringVar(&f.outDir, "o", ".", "Output directory for generated files.")
	fs.BoolVar(&f.verbose, "v", false, "Log debug records for every compiled mesh.")
	fs.BoolVar(&f.preview, "preview", false, "Render a PNG preview of every mesh with its boundary edges.")
	fs.BoolVar(&f.hist, "hist", false, "Plot a PNG histogram of every mesh's edge normal dot products.")
	fs.BoolVar(&f.stl, "stl", false, "Export every compiled mesh as binary STL.")
	fs.Float64Var(&f.weld, "weld", 0, "Merge STL vertices closer than this distance. Zero merges identical vertices only.")
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	var f flags
	fs := flag.NewFlagSet(os.Args[1], flag.ExitOnError)
	f.register(fs)
	fs.Parse(os.Args[2:])

	var run func(context.Context, flags, config.Settings, []string) error
	switch os.Args[1] {
	case "mesh":
		run = runMesh
	case "scene":
		run = runScene
		if fs.NArg() != 1 {
			fmt.Fprintln(os.Stderr, "error: scene takes exactly one scene descriptor")
			os.Exit(2)
		}
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "error: no input files")
		os.Exit(2)
	}

	level := slog.LevelInfo
	if f.verbose {
		level = slog.LevelDebug
	}
	meshc.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	settings := config.Defaults()
	if f.config != "" {
		var err error
		settings, err = config.Load(f.config)
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(2)
		}
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, f, settings, fs.Args()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(exitCode(err))
	}
}

func (f *flags) load(path string) (meshc.RawMesh, error) {
	if f.weld != 0 && strings.EqualFold(filepath.Ext(path), ".stl") {
		return meshio.LoadSTLWeld(path, f.weld)
	}
	return meshio.Load(path)
}

// exitCode returns 2 for configuration errors and 1 for everything else.
func exitCode(err error) int {
	if errors.Is(err, meshc.ErrInvalidConfig) || errors.Is(err, meshc.ErrUnsupportedRepresentation) {
		return 2
	}
	return 1
}

func options(s config.Settings) cgen.Options {
	return cgen.Options{
		GeneratedBy: s.InfoGeneratedBy,
		VertexType:  s.VertexArrayType,
		IndexType:   s.FaceArrayType,
		FixedPoint:  s.Compiler.FixedPoint,
		Flags:       s.Compiler.Flags,
	}
}

// runMesh compiles each model on its own and writes mesh_<name>.{h,c}.
func runMesh(ctx context.Context, f flags, s config.Settings, paths []string) error {
	opts := options(s)
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		raw, err := f.load(path)
		if err != nil {
			return err
		}
		m, err := meshc.Compile(raw, s.Compiler)
		if err != nil {
			return err
		}
		if _, err = meshc.PlanLayout([]*meshc.Mesh{m}, s.Compiler); err != nil {
			return fmt.Errorf("mesh %q: %w", m.Name, err)
		}
		hname, cname := cgen.MeshFileNames(m.Name)
		err = writeFile(filepath.Join(f.outDir, hname), func(w io.Writer) error {
			return cgen.WriteMeshHeader(w, m, opts)
		})
		if err != nil {
			return err
		}
		err = writeFile(filepath.Join(f.outDir, cname), func(w io.Writer) error {
			return cgen.WriteMeshSource(w, m, opts)
		})
		if err != nil {
			return err
		}
		if err = writeExtras(f, s, m); err != nil {
			return err
		}
	}
	return nil
}

// runScene compiles the meshes of a scene descriptor and writes <scene>.{h,c}.
func runScene(ctx context.Context, f flags, s config.Settings, paths []string) error {
	sf, err := config.LoadScene(paths[0])
	if err != nil {
		return err
	}
	desc := meshc.SceneDesc{Name: sf.Name, Cameras: sf.Cameras}
	for _, sm := range sf.Meshes {
		raw, err := f.load(sm.Path)
		if err != nil {
			return err
		}
		raw.Name = sm.Name
		raw.Instances = sm.Instances
		desc.Meshes = append(desc.Meshes, raw)
	}
	scene, err := meshc.CompileScene(ctx, desc, s.Compiler)
	if err != nil {
		return err
	}
	opts := options(s)
	hname, cname := cgen.SceneFileNames(scene.Name)
	err = writeFile(filepath.Join(f.outDir, hname), func(w io.Writer) error {
		return cgen.WriteSceneHeader(w, scene, opts)
	})
	if err != nil {
		return err
	}
	err = writeFile(filepath.Join(f.outDir, cname), func(w io.Writer) error {
		return cgen.WriteSceneSource(w, scene, opts)
	})
	if err != nil {
		return err
	}
	for _, m := range scene.Meshes {
		if err = writeExtras(f, s, m); err != nil {
			return err
		}
	}
	return nil
}

// writeExtras writes the optional preview, histogram and STL files of m.
func writeExtras(f flags, s config.Settings, m *meshc.Mesh) error {
	base := filepath.Join(f.outDir, cgen.Ident(m.Name))
	if f.preview {
		if err := render.SavePreview(base+"_preview.png", m, render.DefaultView()); err != nil {
			return fmt.Errorf("preview %s: %w", m.Name, err)
		}
	}
	if f.hist {
		err := writeFile(base+"_dots.png", func(w io.Writer) error {
			return render.WriteDotHistogram(w, m, s.Compiler.BoundaryThreshold, 20)
		})
		if err != nil {
			return fmt.Errorf("histogram %s: %w", m.Name, err)
		}
	}
	if f.stl {
		if err := render.CreateSTL(base+".stl", m); err != nil {
			return fmt.Errorf("stl %s: %w", m.Name, err)
		}
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	if err = write(fp); err != nil {
		fp.Close()
		return err
	}
	meshc.Logger().Debug("wrote file", "path", path)
	return fp.Close()
}
