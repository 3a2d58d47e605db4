package material

import (
	"image/color"
	"time"

	"github.com/disintegration/gift"

	"github.com/0xsl1m/StaticChapel-sub001/internal/pixel"
	"github.com/0xsl1m/StaticChapel-sub001/internal/texture"
)

// StainedGlassConfig configures the window overlay. The overlay is a decal,
// so it has its own canvas size and is never tiled.
type StainedGlassConfig struct {
	CanvasSize int
	// Cells is the number of diamond rows and columns.
	Cells          int
	LeadWidth      float64
	Lead           color.NRGBA
	Palette        []color.NRGBA
	GlowSigma      float32
	GlowBrightness float32
	GlowAlpha      float64
	NoiseIntensity float64
	SeedBase       float64
}

// DefaultStainedGlass returns a 256px diamond-quarry window.
func DefaultStainedGlass() StainedGlassConfig {
	return StainedGlassConfig{
		CanvasSize: 256,
		Cells:      4,
		LeadWidth:  4,
		Lead:       color.NRGBA{R: 38, G: 36, B: 34, A: 255},
		Palette: []color.NRGBA{
			{R: 168, G: 28, B: 40, A: 200},
			{R: 30, G: 70, B: 160, A: 200},
			{R: 200, G: 150, B: 30, A: 200},
			{R: 40, G: 120, B: 70, A: 200},
			{R: 110, G: 40, B: 130, A: 200},
		},
		GlowSigma:      3,
		GlowBrightness: 20,
		GlowAlpha:      0.5,
		NoiseIntensity: 10,
		SeedBase:       173,
	}
}

// StainedGlass paints translucent diamond panes, a blurred glow behind them
// and the lead came between them. It emits a clamped, transparent diffuse
// map only.
func (g *Generator) StainedGlass(cfg StainedGlassConfig) (*texture.Set, error) {
	start := time.Now()
	size := cfg.CanvasSize
	if size <= 0 {
		size = g.size
	}
	panes, err := pixel.New(size, size)
	if err != nil {
		return nil, err
	}
	cells := max(cfg.Cells, 1)
	s := float64(size)
	cell := s / float64(cells)
	half := cell / 2

	if len(cfg.Palette) > 0 {
		pane := func(cx, cy, n float64) {
			col := cfg.Palette[int(g.hash(n)*float64(len(cfg.Palette)))%len(cfg.Palette)]
			panes.FillPolygon([]pixel.Point{
				{X: cx, Y: cy - half},
				{X: cx + half, Y: cy},
				{X: cx, Y: cy + half},
				{X: cx - half, Y: cy},
			}, pixel.Shade(col, g.jitter(n+0.5, 18)), 1)
		}
		// Diamonds centred on the grid corners and on the cell centres tile the canvas.
		for j := 0; j <= cells; j++ {
			for i := 0; i <= cells; i++ {
				n := cfg.SeedBase + float64(j*(cells+1)+i)*2.71
				pane(float64(i)*cell, float64(j)*cell, n)
				if i < cells && j < cells {
					pane((float64(i)+0.5)*cell, (float64(j)+0.5)*cell, n+1000)
				}
			}
		}
	}
	panes.AddNoise(panes.Bounds(), g.field, pixel.NoiseParams{Intensity: cfg.NoiseIntensity, Seed: 37})

	glow, err := pixel.New(size, size)
	if err != nil {
		return nil, err
	}
	filter := gift.New(gift.GaussianBlur(cfg.GlowSigma))
	if cfg.GlowBrightness != 0 {
		filter.Add(gift.Brightness(cfg.GlowBrightness))
	}
	filter.Draw(glow.Image(), panes.Image())
	for i := 3; i < len(glow.Pix); i += 4 {
		glow.Pix[i] = pixel.ClampChannel(float64(glow.Pix[i]) * cfg.GlowAlpha)
	}
	if err := glow.Over(panes); err != nil {
		return nil, err
	}
	diffuse := glow

	for m := 0; m < 2*cells; m++ {
		k := (float64(m) + 0.5) * cell
		diffuse.StrokeCurve([]pixel.Point{{X: k, Y: 0}, {X: k - s, Y: s}}, cfg.Lead, cfg.LeadWidth, 1)
	}
	for m := -cells; m < cells; m++ {
		k := (float64(m) + 0.5) * cell
		diffuse.StrokeCurve([]pixel.Point{{X: k, Y: 0}, {X: k + s, Y: s}}, cfg.Lead, cfg.LeadWidth, 1)
	}
	frame := []pixel.Point{{X: 0, Y: 0}, {X: s, Y: 0}, {X: s, Y: s}, {X: 0, Y: s}, {X: 0, Y: 0}}
	diffuse.StrokeCurve(frame, cfg.Lead, cfg.LeadWidth*2, 1)

	return g.finish(NameStainedGlass, &canvas{diffuse: diffuse}, outputs{
		Wrap:        texture.WrapClamp,
		Transparent: true,
	}, start)
}
