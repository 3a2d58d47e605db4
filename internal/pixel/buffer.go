// Package pixel implements the raster substrate the material recipes paint
// into: a fixed-size RGBA8 buffer with clipped region fills, fbm noise
// injection and anti-aliased curve stroking.
package pixel

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
)

var (
	// ErrInvalidDimension is returned for non-positive buffer sizes.
	ErrInvalidDimension = errors.New("pixel: invalid dimension")
	// ErrAllocation is returned when a buffer would exceed MaxPixels.
	ErrAllocation = errors.New("pixel: buffer allocation failed")
)

// MaxPixels caps a single buffer at 64 Mi pixels (256 MiB of RGBA8).
const MaxPixels = 1 << 26

// Buffer is a non-premultiplied RGBA8 raster. Its size is fixed at creation.
// Height buffers use the same layout with the height replicated in R, G and B.
type Buffer struct {
	Pix    []uint8
	Stride int
	W      int
	H      int
}

// New allocates a zeroed w x h buffer.
func New(w, h int) (*Buffer, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimension, w, h)
	}
	if w > MaxPixels/h {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrAllocation, w, h, MaxPixels)
	}
	return &Buffer{
		Pix:    make([]uint8, w*h*4),
		Stride: w * 4,
		W:      w,
		H:      h,
	}, nil
}

// FromImage copies img into a new buffer.
func FromImage(img image.Image) (*Buffer, error) {
	b := img.Bounds()
	buf, err := New(b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}
	for y := 0; y < buf.H; y++ {
		for x := 0; x < buf.W; x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			buf.Set(x, y, c)
		}
	}
	return buf, nil
}

// Bounds returns the buffer rectangle, anchored at the origin.
func (b *Buffer) Bounds() image.Rectangle { return image.Rect(0, 0, b.W, b.H) }

// Image returns an *image.NRGBA that shares memory with the buffer.
func (b *Buffer) Image() *image.NRGBA {
	return &image.NRGBA{Pix: b.Pix, Stride: b.Stride, Rect: b.Bounds()}
}

// Clone returns a deep copy.
func (b *Buffer) Clone() *Buffer {
	pix := make([]uint8, len(b.Pix))
	copy(pix, b.Pix)
	return &Buffer{Pix: pix, Stride: b.Stride, W: b.W, H: b.H}
}

func (b *Buffer) offset(x, y int) int { return y*b.Stride + x*4 }

// At returns the pixel at (x, y). Out-of-bounds reads return transparent black.
func (b *Buffer) At(x, y int) color.NRGBA {
	if x < 0 || y < 0 || x >= b.W || y >= b.H {
		return color.NRGBA{}
	}
	i := b.offset(x, y)
	p := b.Pix[i : i+4 : i+4]
	return color.NRGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
}

// Set writes the pixel at (x, y). Out-of-bounds writes are dropped.
func (b *Buffer) Set(x, y int, c color.NRGBA) {
	if x < 0 || y < 0 || x >= b.W || y >= b.H {
		return
	}
	i := b.offset(x, y)
	p := b.Pix[i : i+4 : i+4]
	p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
}

// AtWrapped reads with toroidal addressing.
func (b *Buffer) AtWrapped(x, y int) color.NRGBA {
	return b.At(wrapIndex(x, b.W), wrapIndex(y, b.H))
}

// SetHeight stores a height in [0,1] as an opaque gray pixel.
func (b *Buffer) SetHeight(x, y int, h float64) {
	v := ClampChannel(h * 255)
	b.Set(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
}

// Height returns the normalized height at (x, y) with toroidal addressing.
func (b *Buffer) Height(x, y int) float64 {
	i := b.offset(wrapIndex(x, b.W), wrapIndex(y, b.H))
	return float64(b.Pix[i]) / 255
}

// FillHeight fills r with a constant height in [0,1].
func (b *Buffer) FillHeight(r image.Rectangle, h float64) {
	v := ClampChannel(h * 255)
	b.FillRect(r, color.NRGBA{R: v, G: v, B: v, A: 255})
}

// FillRect sets every pixel of r, clipped to the buffer, to c.
// Empty rectangles are ignored.
func (b *Buffer) FillRect(r image.Rectangle, c color.NRGBA) {
	r = r.Canon().Intersect(b.Bounds())
	if r.Empty() {
		return
	}

	row := b.Pix[b.offset(r.Min.X, r.Min.Y):b.offset(r.Min.X, r.Min.Y)+r.Dx()*4]
	for i := 0; i < len(row); i += 4 {
		row[i], row[i+1], row[i+2], row[i+3] = c.R, c.G, c.B, c.A
	}
	for y := r.Min.Y + 1; y < r.Max.Y; y++ {
		i := b.offset(r.Min.X, y)
		copy(b.Pix[i:i+len(row)], row)
	}
}

// ClampChannel rounds v and clamps it to [0,255].
func ClampChannel(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Round(v))
}

// Shade adds delta to the colour channels of c, keeping alpha.
func Shade(c color.NRGBA, delta float64) color.NRGBA {
	return color.NRGBA{
		R: ClampChannel(float64(c.R) + delta),
		G: ClampChannel(float64(c.G) + delta),
		B: ClampChannel(float64(c.B) + delta),
		A: c.A,
	}
}

// Mix linearly interpolates between a and b.
func Mix(a, b color.NRGBA, t float64) color.NRGBA {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	lerp := func(x, y uint8) uint8 {
		return ClampChannel(float64(x) + (float64(y)-float64(x))*t)
	}
	return color.NRGBA{R: lerp(a.R, b.R), G: lerp(a.G, b.G), B: lerp(a.B, b.B), A: lerp(a.A, b.A)}
}

func wrapIndex(x, max int) int {
	x %= max
	if x < 0 {
		x += max
	}
	return x
}
