package material

import (
	"image"
	"image/color"
	"math"

	"github.com/0xsl1m/StaticChapel-sub001/internal/noise"
	"github.com/0xsl1m/StaticChapel-sub001/internal/pixel"
)

// Axis is the primary direction a vein runs along.
type Axis int

const (
	Horizontal Axis = iota
	Vertical
)

// Vein is a parametric mineral band: Segments+1 points along Axis starting
// at Anchor, each displaced transversally by a seeded sine plus hash jitter.
type Vein struct {
	Anchor    pixel.Point
	Length    float64
	Axis      Axis
	Amplitude float64
	Jitter    float64
	Segments  int
	Seed      float64
}

// Points samples the vein curve.
func (v Vein) Points() []pixel.Point {
	n := max(v.Segments, 1)
	pts := make([]pixel.Point, 0, n+1)
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		off := math.Sin(t*2*math.Pi+v.Seed)*v.Amplitude +
			(noise.Hash(v.Seed*97+t*float64(n))-0.5)*v.Jitter
		along := t * v.Length
		if v.Axis == Vertical {
			pts = append(pts, pixel.Point{X: v.Anchor.X + off, Y: v.Anchor.Y + along})
		} else {
			pts = append(pts, pixel.Point{X: v.Anchor.X + along, Y: v.Anchor.Y + off})
		}
	}
	return pts
}

// VeinSet lays Count veins across a region, alternating between two
// colour/width pairs picked by the hash of each vein's seed.
type VeinSet struct {
	Count     int
	Axis      Axis
	Amplitude float64
	Jitter    float64
	Segments  int
	Seed      float64
	Colors    [2]color.NRGBA
	Widths    [2]float64
	Alpha     float64
	// Depth pulls the height under a vein towards 1-Depth.
	Depth float64
	// Tiled wraps veins across the buffer edges.
	Tiled bool
}

// DrawVeins strokes vs into diffuse, and into height when it is non-nil.
// Veins are spread evenly across r perpendicular to their axis and span r
// along it.
func DrawVeins(diffuse, height *pixel.Buffer, r image.Rectangle, vs VeinSet) {
	r = r.Canon()
	if vs.Count <= 0 || r.Empty() {
		return
	}

	length := float64(r.Dx())
	across := float64(r.Dy())
	if vs.Axis == Vertical {
		length, across = across, length
	}
	lane := across / float64(vs.Count)

	for i := 0; i < vs.Count; i++ {
		seed := vs.Seed + float64(i)*7.31
		pick := 0
		if noise.Hash(seed) >= 0.5 {
			pick = 1
		}

		pos := (float64(i)+0.5)*lane + (noise.Hash(seed+1.7)-0.5)*lane*0.6
		anchor := pixel.Point{X: float64(r.Min.X), Y: float64(r.Min.Y) + pos}
		if vs.Axis == Vertical {
			anchor = pixel.Point{X: float64(r.Min.X) + pos, Y: float64(r.Min.Y)}
		}

		pts := Vein{
			Anchor:    anchor,
			Length:    length,
			Axis:      vs.Axis,
			Amplitude: vs.Amplitude,
			Jitter:    vs.Jitter,
			Segments:  vs.Segments,
			Seed:      seed,
		}.Points()

		width := vs.Widths[pick]
		stroke(diffuse, pts, vs.Colors[pick], width, vs.Alpha, vs.Tiled)
		if height != nil && vs.Depth > 0 {
			v := pixel.ClampChannel((1 - vs.Depth) * 255)
			stroke(height, pts, color.NRGBA{R: v, G: v, B: v, A: 255}, width, vs.Alpha*0.5, vs.Tiled)
		}
	}
}

func stroke(b *pixel.Buffer, pts []pixel.Point, c color.NRGBA, width, alpha float64, tiled bool) {
	if tiled {
		b.StrokeCurveTiled(pts, c, width, alpha)
		return
	}
	b.StrokeCurve(pts, c, width, alpha)
}
