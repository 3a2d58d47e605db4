package material

import (
	"image/color"
	"time"

	"github.com/0xsl1m/StaticChapel-sub001/internal/noise"
	"github.com/0xsl1m/StaticChapel-sub001/internal/pixel"
	"github.com/0xsl1m/StaticChapel-sub001/internal/texture"
)

// BrushedMetalConfig configures the brushed metal of candle stands and fittings.
type BrushedMetalConfig struct {
	Strokes     int
	Base        color.NRGBA
	StrokeShade float64
	// MinLength and MaxLength are relative to the texture size.
	MinLength float64
	MaxLength float64
	// Streak is the per-row simplex offset, in channel units.
	Streak         float64
	NoiseIntensity float64
	NormalStrength float64
	Roughness      RoughnessParams
	SeedBase       float64
}

// DefaultBrushedMetal returns 420 horizontal brush strokes over steel.
func DefaultBrushedMetal() BrushedMetalConfig {
	return BrushedMetalConfig{
		Strokes:        420,
		Base:           color.NRGBA{R: 170, G: 172, B: 176, A: 255},
		StrokeShade:    26,
		MinLength:      0.25,
		MaxLength:      0.9,
		Streak:         10,
		NoiseIntensity: 4,
		NormalStrength: 1.5,
		Roughness:      RoughnessParams{Contrast: 40, Brightness: -35},
		SeedBase:       131,
	}
}

// BrushedMetal strokes short horizontal brush marks and layers anisotropic
// simplex streaks on top.
func (g *Generator) BrushedMetal(cfg BrushedMetalConfig) (*texture.Set, error) {
	start := time.Now()
	size := g.size
	c, err := newCanvas(size, cfg.Base, 0.5)
	if err != nil {
		return nil, err
	}
	s := float64(size)

	for i := 0; i < cfg.Strokes; i++ {
		n := cfg.SeedBase + float64(i)*1.37
		y := g.hash(n) * s
		x := g.hash(n+0.11) * s
		length := (cfg.MinLength + (cfg.MaxLength-cfg.MinLength)*g.hash(n+0.23)) * s
		delta := g.jitter(n+0.37, cfg.StrokeShade)
		width := 0.6 + g.hash(n+0.41)
		alpha := 0.25 + 0.3*g.hash(n+0.53)

		line := []pixel.Point{{X: x, Y: y}, {X: x + length, Y: y}}
		c.diffuse.StrokeCurveTiled(line, pixel.Shade(cfg.Base, delta), width, alpha)
		h := pixel.ClampChannel(127 + delta*2)
		c.height.StrokeCurveTiled(line, color.NRGBA{R: h, G: h, B: h, A: 255}, width, alpha)
	}

	// One fbm value per row stretches the streaks along the brushing direction.
	period := g.simplex.Period()
	for y := 0; y < size; y++ {
		row := noise.FBM(g.simplex, 0, float64(y)/s*period, 4)
		delta := (2*row - 1) * cfg.Streak
		for x := 0; x < size; x++ {
			c.diffuse.Set(x, y, pixel.Shade(c.diffuse.At(x, y), delta))
		}
	}

	c.diffuse.AddNoise(c.diffuse.Bounds(), g.field, pixel.NoiseParams{Intensity: cfg.NoiseIntensity, Seed: 31, Octaves: 6})

	return g.finish(NameBrushedMetal, c, outputs{
		NormalStrength: cfg.NormalStrength,
		Roughness:      &cfg.Roughness,
	}, start)
}
