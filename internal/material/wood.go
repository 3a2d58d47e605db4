package material

import (
	"image/color"
	"math"
	"time"

	"github.com/0xsl1m/StaticChapel-sub001/internal/pixel"
	"github.com/0xsl1m/StaticChapel-sub001/internal/texture"
)

// WoodGrainConfig configures the pew and door wood.
type WoodGrainConfig struct {
	Lines int
	// Waves is the number of sine periods a grain line makes across the board.
	Waves int
	// WaveAmplitude is relative to the spacing between grain lines.
	WaveAmplitude float64
	// Warp is the Perlin displacement relative to the texture size.
	Warp           float64
	Segments       int
	Base           color.NRGBA
	Dark           color.NRGBA
	Light          color.NRGBA
	Knots          int
	KnotRings      int
	KnotRadius     float64
	NoiseIntensity float64
	NormalStrength float64
	Roughness      RoughnessParams
	SeedBase       float64
}

// DefaultWoodGrain returns 36 grain lines with two knots.
func DefaultWoodGrain() WoodGrainConfig {
	return WoodGrainConfig{
		Lines:          36,
		Waves:          2,
		WaveAmplitude:  0.6,
		Warp:           0.04,
		Segments:       96,
		Base:           color.NRGBA{R: 150, G: 102, B: 62, A: 255},
		Dark:           color.NRGBA{R: 102, G: 64, B: 34, A: 255},
		Light:          color.NRGBA{R: 178, G: 128, B: 80, A: 255},
		Knots:          2,
		KnotRings:      5,
		KnotRadius:     0.035,
		NoiseIntensity: 10,
		NormalStrength: 2.5,
		Roughness:      RoughnessParams{Invert: true, Contrast: 20, Brightness: 5},
		SeedBase:       97,
	}
}

// WoodGrain strokes sine-wave grain lines, warped by tileable Perlin noise,
// and adds elliptical knots.
func (g *Generator) WoodGrain(cfg WoodGrainConfig) (*texture.Set, error) {
	start := time.Now()
	size := g.size
	c, err := newCanvas(size, cfg.Base, 0.7)
	if err != nil {
		return nil, err
	}
	lines := max(cfg.Lines, 1)
	segments := max(cfg.Segments, 2)
	s := float64(size)
	spacing := s / float64(lines)
	period := g.perlin.Period()
	grooveHeight := color.NRGBA{R: 130, G: 130, B: 130, A: 255}

	for i := 0; i < lines; i++ {
		n := cfg.SeedBase + float64(i)*3.9
		y0 := (float64(i) + 0.5) * spacing
		phase := g.hash(n) * 2 * math.Pi

		pts := make([]pixel.Point, 0, segments+1)
		for k := 0; k <= segments; k++ {
			t := float64(k) / float64(segments)
			warp := (g.perlin.Sample(t*period, y0/s*period) - 0.5) * 2 * cfg.Warp * s
			y := y0 + math.Sin(2*math.Pi*float64(cfg.Waves)*t+phase)*cfg.WaveAmplitude*spacing + warp
			pts = append(pts, pixel.Point{X: t * s, Y: y})
		}

		// Squaring the hash keeps most lines close to the dark tone.
		tone := g.hash(n + 1.3)
		col := pixel.Mix(cfg.Dark, cfg.Light, tone*tone)
		width := 0.8 + 2.2*g.hash(n+2.7)
		c.diffuse.StrokeCurveTiled(pts, col, width, 0.75)
		c.height.StrokeCurveTiled(pts, grooveHeight, width, 0.6)
	}

	for k := 0; k < cfg.Knots; k++ {
		n := cfg.SeedBase + 500 + float64(k)*11.1
		center := pixel.Point{
			X: (0.2 + 0.6*g.hash(n)) * s,
			Y: (0.2 + 0.6*g.hash(n+1)) * s,
		}
		r := cfg.KnotRadius * s
		c.diffuse.FillPolygon(ellipse(center, r*0.8, r*0.5, 24), cfg.Dark, 0.85)
		c.height.FillPolygon(ellipse(center, r*0.8, r*0.5, 24), grooveHeight, 0.8)

		for ring := 1; ring <= cfg.KnotRings; ring++ {
			rr := r * (1 + float64(ring)*0.6)
			c.diffuse.StrokeCurveTiled(ellipse(center, rr*1.6, rr, 32), cfg.Dark, 1.2, 0.55)
			c.height.StrokeCurveTiled(ellipse(center, rr*1.6, rr, 32), grooveHeight, 1.2, 0.4)
		}
	}

	c.diffuse.AddNoise(c.diffuse.Bounds(), g.perlin, pixel.NoiseParams{Intensity: cfg.NoiseIntensity, Seed: 23, Octaves: 3})
	c.diffuse.AddNoise(c.diffuse.Bounds(), g.field, pixel.NoiseParams{Intensity: cfg.NoiseIntensity / 2, Seed: 29})
	c.height.AddHeightNoise(c.height.Bounds(), g.perlin, 0.03, 503)

	return g.finish(NameWoodGrain, c, outputs{
		NormalStrength: cfg.NormalStrength,
		Roughness:      &cfg.Roughness,
	}, start)
}

// ellipse returns a closed poly-line around c.
func ellipse(c pixel.Point, rx, ry float64, segments int) []pixel.Point {
	pts := make([]pixel.Point, 0, segments+1)
	for i := 0; i <= segments; i++ {
		a := 2 * math.Pi * float64(i) / float64(segments)
		pts = append(pts, pixel.Point{X: c.X + rx*math.Cos(a), Y: c.Y + ry*math.Sin(a)})
	}
	return pts
}
