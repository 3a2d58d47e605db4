package material

import (
	"image/color"
	"math"
	"time"

	"github.com/0xsl1m/StaticChapel-sub001/internal/pixel"
	"github.com/0xsl1m/StaticChapel-sub001/internal/texture"
)

// FabricWeaveConfig configures the altar cloth.
type FabricWeaveConfig struct {
	// Threads per side; odd counts are rounded up so the weave tiles.
	Threads        int
	Warp           color.NRGBA
	Weft           color.NRGBA
	Gap            color.NRGBA
	GapWidth       float64
	GapAlpha       float64
	ThreadJitter   float64
	Fuzz           float64
	NormalStrength float64
	Roughness      RoughnessParams
	SeedBase       float64
}

// DefaultFabricWeave returns a 32-thread plain weave in deep red.
func DefaultFabricWeave() FabricWeaveConfig {
	return FabricWeaveConfig{
		Threads:        32,
		Warp:           color.NRGBA{R: 122, G: 38, B: 44, A: 255},
		Weft:           color.NRGBA{R: 146, G: 58, B: 52, A: 255},
		Gap:            color.NRGBA{R: 60, G: 18, B: 22, A: 255},
		GapWidth:       1,
		GapAlpha:       0.45,
		ThreadJitter:   10,
		Fuzz:           12,
		NormalStrength: 3,
		Roughness:      RoughnessParams{Contrast: -20, Brightness: 30},
		SeedBase:       211,
	}
}

// FabricWeave paints a plain over/under weave. Each crossing shows the thread
// on top, rounded across its width and arched along its length.
func (g *Generator) FabricWeave(cfg FabricWeaveConfig) (*texture.Set, error) {
	start := time.Now()
	size := g.size
	c, err := newCanvas(size, cfg.Warp, 0.4)
	if err != nil {
		return nil, err
	}
	threads := max(cfg.Threads, 2)
	threads += threads % 2
	s := float64(size)

	for j := 0; j < threads; j++ {
		y0, y1 := span(j, threads, size)
		for i := 0; i < threads; i++ {
			x0, x1 := span(i, threads, size)
			warpOver := (i+j)%2 == 0

			top := pixel.Shade(cfg.Weft, g.jitter(cfg.SeedBase+float64(j)*1.9, cfg.ThreadJitter))
			if warpOver {
				top = pixel.Shade(cfg.Warp, g.jitter(cfg.SeedBase+500+float64(i)*1.9, cfg.ThreadJitter))
			}

			for y := y0; y < y1; y++ {
				v := (float64(y-y0) + 0.5) / float64(y1-y0)
				for x := x0; x < x1; x++ {
					u := (float64(x-x0) + 0.5) / float64(x1-x0)
					along, across := u, v
					if warpOver {
						along, across = v, u
					}
					h := 0.35 + 0.45*math.Sin(math.Pi*along)*math.Sqrt(math.Sin(math.Pi*across))
					c.height.SetHeight(x, y, h)
					c.diffuse.Set(x, y, pixel.Shade(top, (h-0.6)*40))
				}
			}
		}
	}

	for k := 0; k < threads; k++ {
		p, _ := span(k, threads, size)
		at := float64(p)
		c.diffuse.StrokeCurveTiled([]pixel.Point{{X: 0, Y: at}, {X: s, Y: at}}, cfg.Gap, cfg.GapWidth, cfg.GapAlpha)
		c.diffuse.StrokeCurveTiled([]pixel.Point{{X: at, Y: 0}, {X: at, Y: s}}, cfg.Gap, cfg.GapWidth, cfg.GapAlpha)
	}

	c.diffuse.AddNoise(c.diffuse.Bounds(), g.simplex, pixel.NoiseParams{Intensity: cfg.Fuzz, Seed: 41})
	c.diffuse.AddNoise(c.diffuse.Bounds(), g.field, pixel.NoiseParams{Intensity: cfg.Fuzz / 2, Seed: 43, Octaves: 6})
	c.height.AddHeightNoise(c.height.Bounds(), g.simplex, 0.04, 601)

	return g.finish(NameFabricWeave, c, outputs{
		NormalStrength: cfg.NormalStrength,
		Roughness:      &cfg.Roughness,
	}, start)
}
