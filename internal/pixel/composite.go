package pixel

import (
	"fmt"
	"image/color"
)

// Over composites src onto b with non-premultiplied source-over blending.
// Both buffers must have the same size.
func (b *Buffer) Over(src *Buffer) error {
	if src.W != b.W || src.H != b.H {
		return fmt.Errorf("pixel: layer size %dx%d does not match %dx%d", src.W, src.H, b.W, b.H)
	}
	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			s := src.At(x, y)
			if s.A == 0 {
				continue
			}
			b.blendOver(x, y, color.NRGBA{R: s.R, G: s.G, B: s.B, A: 255}, float64(s.A)/255)
		}
	}
	return nil
}

// blendOver blends the opaque colour of c over the pixel at (x, y) with
// coverage sa in [0,1].
func (b *Buffer) blendOver(x, y int, c color.NRGBA, sa float64) {
	if sa <= 0 {
		return
	}
	if sa > 1 {
		sa = 1
	}

	i := b.offset(x, y)
	d := b.Pix[i : i+4 : i+4]
	da := float64(d[3]) / 255

	outA := sa + da*(1-sa)
	if outA == 0 {
		d[0], d[1], d[2], d[3] = 0, 0, 0, 0
		return
	}

	blend := func(srcVal, dstVal uint8) uint8 {
		outPremult := float64(srcVal)*sa + float64(dstVal)*da*(1-sa)
		return ClampChannel(outPremult / outA)
	}
	d[0] = blend(c.R, d[0])
	d[1] = blend(c.G, d[1])
	d[2] = blend(c.B, d[2])
	d[3] = ClampChannel(outA * 255)
}
