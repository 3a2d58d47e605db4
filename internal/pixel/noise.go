package pixel

import (
	"image"

	"github.com/0xsl1m/StaticChapel-sub001/internal/noise"
)

// DefaultOctaves is the fbm depth used when NoiseParams.Octaves is unset.
const DefaultOctaves = 4

// NoiseParams configures AddNoise.
type NoiseParams struct {
	// Intensity is the largest channel offset, in 0..255 units.
	Intensity float64
	// Seed decorrelates regions that share a noise source.
	Seed    int
	Octaves int
}

// AddNoise perturbs the colour channels in r by an fbm-driven offset in
// [-Intensity, +Intensity]. The same offset is applied to R, G and B so the
// hue balance is kept; alpha is left alone.
//
// One noise period spans the buffer width, so the result tiles whenever the
// input does.
func (b *Buffer) AddNoise(r image.Rectangle, src noise.Periodic, p NoiseParams) {
	r = r.Canon().Intersect(b.Bounds())
	if r.Empty() || p.Intensity == 0 {
		return
	}
	octaves := p.Octaves
	if octaves <= 0 {
		octaves = DefaultOctaves
	}

	period := src.Period()
	kx := period / float64(b.W)
	ky := period / float64(b.H)
	ox := noise.HashInt(p.Seed) * period
	oy := noise.HashInt(p.Seed+7919) * period

	// Offsets only depend on the pixel position and read-only noise, never on
	// neighbouring pixels, so the row order cannot leak into the result.
	for y := r.Min.Y; y < r.Max.Y; y++ {
		ny := float64(y)*ky + oy
		for x := r.Min.X; x < r.Max.X; x++ {
			n := noise.FBM(src, float64(x)*kx+ox, ny, octaves)
			delta := (2*n - 1) * p.Intensity

			i := b.offset(x, y)
			px := b.Pix[i : i+3 : i+3]
			px[0] = ClampChannel(float64(px[0]) + delta)
			px[1] = ClampChannel(float64(px[1]) + delta)
			px[2] = ClampChannel(float64(px[2]) + delta)
		}
	}
}

// AddHeightNoise perturbs a height buffer by up to ±amount (normalized units).
func (b *Buffer) AddHeightNoise(r image.Rectangle, src noise.Periodic, amount float64, seed int) {
	b.AddNoise(r, src, NoiseParams{Intensity: amount * 255, Seed: seed})
}
