package pixel

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

// capSegments is the number of edges used to approximate round joins and caps.
const capSegments = 16

// Point is a position in pixel space. Pixel centres sit at half-integers.
type Point struct {
	X, Y float64
}

// StrokeCurve draws the poly-line through points as an anti-aliased stroke
// of the given width, composited over the buffer with alpha in [0,1].
// Joins and caps are round. Geometry outside the buffer is clipped.
func (b *Buffer) StrokeCurve(points []Point, c color.NRGBA, width, alpha float64) {
	if len(points) < 2 || width <= 0 || alpha <= 0 {
		return
	}
	b.strokeAt(points, c, width, alpha, 0, 0)
}

// StrokeCurveTiled is StrokeCurve for tileable textures: the stroke is also
// drawn shifted by one buffer size in every direction, so parts leaving one
// edge re-enter on the opposite edge.
func (b *Buffer) StrokeCurveTiled(points []Point, c color.NRGBA, width, alpha float64) {
	if len(points) < 2 || width <= 0 || alpha <= 0 {
		return
	}
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			b.strokeAt(points, c, width, alpha, float64(dx*b.W), float64(dy*b.H))
		}
	}
}

// FillPolygon fills the closed polygon through points.
func (b *Buffer) FillPolygon(points []Point, c color.NRGBA, alpha float64) {
	if len(points) < 3 || alpha <= 0 {
		return
	}
	clip := boundsOf(points, 0).Intersect(b.Bounds())
	if clip.Empty() {
		return
	}

	ras := vector.NewRasterizer(clip.Dx(), clip.Dy())
	addPolygon(ras, points, float64(clip.Min.X), float64(clip.Min.Y))
	b.composite(ras, clip, c, alpha)
}

func (b *Buffer) strokeAt(points []Point, c color.NRGBA, width, alpha, shiftX, shiftY float64) {
	hw := width / 2

	shifted := make([]Point, len(points))
	for i, p := range points {
		shifted[i] = Point{X: p.X + shiftX, Y: p.Y + shiftY}
	}

	clip := boundsOf(shifted, hw).Intersect(b.Bounds())
	if clip.Empty() {
		return
	}

	ras := vector.NewRasterizer(clip.Dx(), clip.Dy())
	ox := float64(clip.Min.X)
	oy := float64(clip.Min.Y)

	for i := 0; i+1 < len(shifted); i++ {
		p0, p1 := shifted[i], shifted[i+1]
		dx := p1.X - p0.X
		dy := p1.Y - p0.Y
		l := math.Hypot(dx, dy)
		if l == 0 {
			continue
		}
		nx := -dy / l * hw
		ny := dx / l * hw
		addPolygon(ras, []Point{
			{p0.X + nx, p0.Y + ny},
			{p1.X + nx, p1.Y + ny},
			{p1.X - nx, p1.Y - ny},
			{p0.X - nx, p0.Y - ny},
		}, ox, oy)
	}
	for _, p := range shifted {
		addPolygon(ras, disc(p, hw), ox, oy)
	}

	b.composite(ras, clip, c, alpha)
}

// composite rasterizes the coverage mask and blends c through it onto clip.
func (b *Buffer) composite(ras *vector.Rasterizer, clip image.Rectangle, c color.NRGBA, alpha float64) {
	if alpha > 1 {
		alpha = 1
	}
	mask := image.NewAlpha(image.Rect(0, 0, clip.Dx(), clip.Dy()))
	ras.DrawOp = draw.Src
	ras.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	strength := alpha * float64(c.A) / 255
	for y := 0; y < clip.Dy(); y++ {
		row := mask.Pix[y*mask.Stride : y*mask.Stride+clip.Dx()]
		for x, m := range row {
			if m == 0 {
				continue
			}
			b.blendOver(clip.Min.X+x, clip.Min.Y+y, c, strength*float64(m)/255)
		}
	}
}

// addPolygon adds a closed sub-path translated by (-ox, -oy). Every polygon
// is emitted with the same winding so overlapping pieces of one stroke
// saturate coverage instead of cancelling out.
func addPolygon(ras *vector.Rasterizer, pts []Point, ox, oy float64) {
	n := len(pts)
	if n < 3 {
		return
	}
	reverse := signedArea(pts) < 0
	at := func(i int) Point {
		if reverse {
			return pts[n-1-i]
		}
		return pts[i]
	}

	p := at(0)
	ras.MoveTo(float32(p.X-ox), float32(p.Y-oy))
	for i := 1; i < n; i++ {
		p = at(i)
		ras.LineTo(float32(p.X-ox), float32(p.Y-oy))
	}
	ras.ClosePath()
}

func signedArea(pts []Point) float64 {
	a := 0.0
	for i := range pts {
		j := (i + 1) % len(pts)
		a += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return a / 2
}

func disc(c Point, r float64) []Point {
	pts := make([]Point, capSegments)
	for i := range pts {
		theta := 2 * math.Pi * float64(i) / capSegments
		pts[i] = Point{X: c.X + r*math.Cos(theta), Y: c.Y + r*math.Sin(theta)}
	}
	return pts
}

func boundsOf(pts []Point, pad float64) image.Rectangle {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return image.Rect(
		int(math.Floor(minX-pad))-1,
		int(math.Floor(minY-pad))-1,
		int(math.Ceil(maxX+pad))+1,
		int(math.Ceil(maxY+pad))+1,
	)
}
