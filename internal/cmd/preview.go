package cmd

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/0xsl1m/StaticChapel-sub001/internal/archive"
	"github.com/0xsl1m/StaticChapel-sub001/internal/material"
	"github.com/0xsl1m/StaticChapel-sub001/internal/normal"
	"github.com/0xsl1m/StaticChapel-sub001/internal/texture"
)

var previewCmd = &cobra.Command{
	Use:   "preview <material>",
	Short: "Render a tiled preview of one map to check for seams",
	Long: `Render one map of a material repeated in a grid, so tiling seams become
visible. The material is generated fresh unless --from points at a texture
folder or archive.`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().String("kind", "diffuse", "Map kind: diffuse, normal or roughness")
	previewCmd.Flags().Int("repeat", 3, "Number of repetitions along each axis")
	previewCmd.Flags().Int("size", 256, "Texture size in pixels when generating")
	previewCmd.Flags().Int64("seed", 1337, "Deterministic seed when generating")
	previewCmd.Flags().String("from", "", "Load the material from a texture folder or archive file")
	previewCmd.Flags().StringP("out", "o", "", "Output PNG path (default: <output-dir>/<material>_<kind>_preview.png)")

	mustBind := func(key string, name string) {
		if err := viper.BindPFlag(key, previewCmd.Flags().Lookup(name)); err != nil {
			panic(fmt.Sprintf("failed to bind flag: %v", err))
		}
	}

	mustBind("preview.kind", "kind")
	mustBind("preview.repeat", "repeat")
	mustBind("preview.size", "size")
	mustBind("preview.seed", "seed")
	mustBind("preview.from", "from")
	mustBind("preview.out", "out")
}

func runPreview(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	name := args[0]
	kind, err := texture.ParseKind(viper.GetString("preview.kind"))
	if err != nil {
		return err
	}
	repeat := viper.GetInt("preview.repeat")
	if repeat <= 0 {
		return fmt.Errorf("repeat must be positive")
	}

	set, err := loadPreviewSet(cmd.Context(), name, viper.GetString("preview.from"))
	if err != nil {
		return err
	}
	m, ok := set.Map(kind)
	if !ok {
		return fmt.Errorf("material %q has no %s map", name, kind)
	}

	if kind == texture.Normal {
		logger.Debug("Normal map stats", "material", name, "mean_z", meanNormalZ(m))
	}

	out := viper.GetString("preview.out")
	if out == "" {
		out = filepath.Join(viper.GetString("output-dir"), fmt.Sprintf("%s_%s_preview.png", name, kind))
	}
	if err := writePreview(out, texture.Tile(m, repeat, repeat)); err != nil {
		return err
	}

	logger.Info("Preview written", "material", name, "kind", string(kind), "repeat", repeat, "path", out)
	return nil
}

// loadPreviewSet generates name, or loads it from a folder or archive.
func loadPreviewSet(ctx context.Context, name, from string) (*texture.Set, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	if from == "" {
		gen, err := material.New(material.Config{
			Size:   viper.GetInt("preview.size"),
			Seed:   viper.GetInt64("preview.seed"),
			Logger: logger,
		})
		if err != nil {
			return nil, err
		}
		return gen.Generate(ctx, name)
	}

	info, err := os.Stat(from)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		sets, _, err := texture.LoadDir(from)
		if err != nil {
			return nil, err
		}
		for _, set := range sets {
			if set.Material() == name {
				return set, nil
			}
		}
		return nil, fmt.Errorf("%w: %q not found in %s", material.ErrUnknownMaterial, name, from)
	}

	reader, err := archive.OpenReader(from)
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return reader.LoadSet(name)
}

// meanNormalZ is the average decoded z component; flat maps approach 1.
func meanNormalZ(m texture.Map) float64 {
	var sum float64
	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			sum += normal.Decode(m.At(x, y)).Z()
		}
	}
	return sum / float64(m.Width()*m.Height())
}

func writePreview(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create preview file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("failed to encode preview: %w", err)
	}
	return nil
}
