// bbmodtool converts glTF 2.0 scenes to BBMOD binary models.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/bbmod/internal/config"
	"github.com/Faultbox/bbmod/internal/logger"
	"github.com/Faultbox/bbmod/pkg/bbmod"
	"github.com/Faultbox/bbmod/pkg/gltfscene"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "export", "x":
		err = cmdExport(args)
	case "info":
		err = cmdInfo(args)
	case "config":
		err = cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`bbmodtool - glTF to BBMOD model converter

Usage:
  bbmodtool <command> [options]

Commands:
  export [options] <scene.gltf>   Write a .bbmod file
  info [options] <scene.gltf>     Show what an export would contain
  config [options] [path]         Print the effective config or save it to path
                                  (-save writes it to the user config dir)

Options:
  -config <file>      Config file (default ./bbmodtool.yaml, then user config dir)
  -revision <n>       BBMOD revision, 2 or 3
  -attrs <a,b,...>    Vertex attributes: position,normal,texcoord,color,tangentW,boneWeights,ids
  -layout <name>      Node layout: single-root or per-object
  -strict             Fail on unknown vertex attributes
  -reject-empty       Fail when the scene has no meshes
  -o <file>           Output path
  -save               config: write to the user config dir
  -debug              Debug logging
  -log-file <file>    Also log to a rotating file

Examples:
  bbmodtool export character.glb
  bbmodtool export -revision 2 -attrs position,normal,texcoord -o tree.bbmod tree.gltf
  bbmodtool info -layout per-object level.glb
  bbmodtool config ./bbmodtool.yaml`)
}

// setup parses flags, loads config and starts the logger.
func setup(args []string) (*config.Config, error) {
	if err := config.ParseFlags(args); err != nil {
		return nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	logger.Sugar.Debugf("Config: %+v", cfg)
	return cfg, nil
}

// vertexFormat resolves the configured attributes. Unknown names are fatal
// only in strict mode.
func vertexFormat(cfg *config.Config) (bbmod.VertexFormat, error) {
	format, err := cfg.Export.VertexFormat()
	if err != nil {
		if cfg.Export.StrictAttributes || !errors.Is(err, bbmod.ErrInvalidVertexFormat) {
			return 0, err
		}
		logger.Warn("ignoring vertex attributes", zap.Error(err))
	}
	return format, nil
}

func loadScene(path string) (*bbmod.Scene, error) {
	imp, err := gltfscene.Load(path)
	if err != nil {
		return nil, err
	}
	for _, w := range imp.Warnings {
		logger.Warn("scene import", zap.String("file", path), zap.String("detail", w))
	}
	logger.Debug("scene loaded",
		zap.String("file", path),
		zap.Int("objects", len(imp.Scene.Objects)),
		zap.Int("materials", len(imp.Scene.Materials)))
	return imp.Scene, nil
}

func cmdExport(args []string) error {
	cfg, err := setup(args)
	if err != nil {
		return err
	}
	if len(config.Args()) != 1 {
		return errors.New("usage: bbmodtool export [options] <scene.gltf>")
	}
	input := config.Args()[0]

	format, err := vertexFormat(cfg)
	if err != nil {
		return err
	}
	opts, err := cfg.Export.Options()
	if err != nil {
		return err
	}
	scene, err := loadScene(input)
	if err != nil {
		return err
	}

	output := outputPath(input, config.OutputPath(), cfg.Export.OutputDir)
	logger.Info("exporting",
		zap.String("input", input),
		zap.String("output", output),
		zap.Stringer("revision", opts.Revision),
		zap.Stringer("format", format),
		zap.Stringer("layout", opts.NodeLayout))

	res, err := bbmod.ExportModel(scene, format, output, opts)
	if err != nil {
		logger.Error("export failed", zap.String("output", output), zap.Error(err))
		return err
	}

	logger.Info("model exported",
		zap.String("path", res.Path),
		zap.Int64("bytes", res.Size),
		zap.Int("meshes", res.Meshes),
		zap.Int("vertices", res.Vertices),
		zap.Int("nodes", res.Nodes),
		zap.Int("materials", res.Materials))
	return nil
}

func cmdInfo(args []string) error {
	cfg, err := setup(args)
	if err != nil {
		return err
	}
	if len(config.Args()) != 1 {
		return errors.New("usage: bbmodtool info [options] <scene.gltf>")
	}
	input := config.Args()[0]

	format, err := vertexFormat(cfg)
	if err != nil {
		return err
	}
	opts, err := cfg.Export.Options()
	if err != nil {
		return err
	}
	scene, err := loadScene(input)
	if err != nil {
		return err
	}

	w, err := bbmod.NewWriter(opts)
	if err != nil {
		return err
	}
	doc, err := w.Encode(scene, format)
	if err != nil {
		return err
	}

	fmt.Printf("Scene:     %s\n", input)
	fmt.Printf("Revision:  %s\n", doc.Revision)
	fmt.Printf("Format:    %s (%d bytes/vertex)\n", doc.Format, doc.Format.RecordSize())
	fmt.Printf("Meshes:    %d\n", doc.MeshCount)
	fmt.Printf("Vertices:  %d\n", doc.VertexCount)
	fmt.Printf("Nodes:     %d\n", len(doc.Nodes))
	fmt.Printf("Size:      %d bytes\n", doc.Len())
	fmt.Println()

	fmt.Println("Objects:")
	for _, obj := range scene.Objects {
		if obj.Kind == bbmod.KindMesh && obj.Mesh != nil {
			material := obj.Mesh.Material
			if material == "" {
				material = bbmod.DefaultMaterialName
			}
			fmt.Printf("  %-24s %-7s %6d vertices  %s\n", obj.Name, obj.Kind, obj.Mesh.VertexCount(), material)
			continue
		}
		fmt.Printf("  %-24s %-7s (skipped)\n", obj.Name, obj.Kind)
	}
	fmt.Println()

	names := make([]string, len(doc.Materials))
	for i, m := range doc.Materials {
		names[i] = m.Name
	}
	fmt.Printf("Materials: %s\n", strings.Join(names, ", "))
	return nil
}

func cmdConfig(args []string) error {
	cfg, err := setup(args)
	if err != nil {
		return err
	}

	if config.SaveRequested() {
		if len(config.Args()) != 0 {
			return errors.New("usage: bbmodtool config -save (no path)")
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		logger.Info("config saved", zap.String("path", config.UserConfigPath()))
		return nil
	}

	switch len(config.Args()) {
	case 0:
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		fmt.Print(string(data))
		return nil
	case 1:
		path := config.Args()[0]
		if err := cfg.SaveTo(path); err != nil {
			return err
		}
		logger.Info("config saved", zap.String("path", path))
		return nil
	default:
		return errors.New("usage: bbmodtool config [options] [path]")
	}
}

// outputPath picks the destination: the explicit -o value, otherwise the
// input name with a .bbmod extension, placed in dir when one is configured.
func outputPath(input, explicit, dir string) string {
	if explicit != "" {
		return explicit
	}
	base := strings.TrimSuffix(input, filepath.Ext(input)) + ".bbmod"
	if dir == "" {
		return base
	}
	return filepath.Join(dir, filepath.Base(base))
}
