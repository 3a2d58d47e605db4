package material

import (
	"image"
	"image/color"
	"math"
	"time"

	"github.com/0xsl1m/StaticChapel-sub001/internal/pixel"
	"github.com/0xsl1m/StaticChapel-sub001/internal/texture"
)

// FlutedColumnConfig configures the shaft of a fluted column, unrolled so
// the flutes run vertically across the texture width.
type FlutedColumnConfig struct {
	Flutes int
	// Depth is the height drop at the centre of a flute.
	Depth float64
	// ShadeDepth darkens flute centres, in channel units.
	ShadeDepth     float64
	Steps          int
	Base           color.NRGBA
	VeinColors     [2]color.NRGBA
	Veins          int
	NoiseIntensity float64
	NormalStrength float64
	Roughness      RoughnessParams
	SeedBase       float64
}

// DefaultFlutedColumn returns a sixteen-flute marble shaft.
func DefaultFlutedColumn() FlutedColumnConfig {
	return FlutedColumnConfig{
		Flutes:     16,
		Depth:      0.5,
		ShadeDepth: 34,
		Steps:      6,
		Base:       color.NRGBA{R: 214, G: 208, B: 196, A: 255},
		VeinColors: [2]color.NRGBA{
			{R: 170, G: 164, B: 154, A: 255},
			{R: 236, G: 232, B: 224, A: 255},
		},
		Veins:          5,
		NoiseIntensity: 10,
		NormalStrength: 6,
		Roughness:      RoughnessParams{Invert: true, Contrast: 15, Brightness: -25},
		SeedBase:       71,
	}
}

// FlutedColumn paints concave flutes with a cosine height profile and
// gradient strokes across each flute.
func (g *Generator) FlutedColumn(cfg FlutedColumnConfig) (*texture.Set, error) {
	start := time.Now()
	size := g.size
	c, err := newCanvas(size, cfg.Base, 0.9)
	if err != nil {
		return nil, err
	}
	flutes := max(cfg.Flutes, 1)
	steps := max(cfg.Steps, 1)
	s := float64(size)
	fw := s / float64(flutes)

	for x := 0; x < size; x++ {
		u := math.Mod((float64(x)+0.5)/fw, 1)
		c.height.FillHeight(image.Rect(x, 0, x+1, size), 0.9-cfg.Depth*math.Sin(math.Pi*u))
	}

	for f := 0; f < flutes; f++ {
		for k := 0; k < steps; k++ {
			u := (float64(k) + 0.5) / float64(steps)
			x := (float64(f) + u) * fw
			// Light falls from the left, so the right wall of a flute stays darker.
			shade := -cfg.ShadeDepth*math.Sin(math.Pi*u) + cfg.ShadeDepth*0.25*math.Cos(math.Pi*u)
			line := []pixel.Point{{X: x, Y: 0}, {X: x, Y: s}}
			c.diffuse.StrokeCurveTiled(line, pixel.Shade(cfg.Base, shade), fw/float64(steps)+0.5, 0.7)
		}
	}

	DrawVeins(c.diffuse, nil, c.diffuse.Bounds(), VeinSet{
		Count:     cfg.Veins,
		Axis:      Vertical,
		Amplitude: fw * 0.6,
		Jitter:    fw * 0.3,
		Segments:  48,
		Seed:      cfg.SeedBase,
		Colors:    cfg.VeinColors,
		Widths:    [2]float64{1.3, 0.8},
		Alpha:     0.35,
		Tiled:     true,
	})

	c.diffuse.AddNoise(c.diffuse.Bounds(), g.field, pixel.NoiseParams{Intensity: cfg.NoiseIntensity, Seed: 19})
	c.height.AddHeightNoise(c.height.Bounds(), g.field, 0.02, 401)

	return g.finish(NameFlutedColumn, c, outputs{
		NormalStrength: cfg.NormalStrength,
		Roughness:      &cfg.Roughness,
	}, start)
}
