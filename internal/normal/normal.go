// Package normal derives tangent-space normal maps from height buffers.
package normal

import (
	"errors"
	"image/color"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/0xsl1m/StaticChapel-sub001/internal/pixel"
)

// Derive converts a height buffer into a normal map of the same size.
//
// Heights are read as normalized R values with toroidal addressing, so a
// tileable height field yields a tileable normal map. For each pixel the
// central differences are scaled by strength, the vector (nx, ny, 1) is
// normalized and each component is encoded as c*127.5+127.5. Alpha is 255.
func Derive(height *pixel.Buffer, strength float64) (*pixel.Buffer, error) {
	if height == nil {
		return nil, errors.New("normal: nil height buffer")
	}
	out, err := pixel.New(height.W, height.H)
	if err != nil {
		return nil, err
	}

	for y := 0; y < height.H; y++ {
		for x := 0; x < height.W; x++ {
			nx := (height.Height(x-1, y) - height.Height(x+1, y)) * strength
			ny := (height.Height(x, y-1) - height.Height(x, y+1)) * strength
			out.Set(x, y, Encode(mgl64.Vec3{nx, ny, 1}.Normalize()))
		}
	}
	return out, nil
}

// Encode maps a unit vector from [-1,1]^3 into an opaque colour.
func Encode(n mgl64.Vec3) color.NRGBA {
	return color.NRGBA{
		R: pixel.ClampChannel(n[0]*127.5 + 127.5),
		G: pixel.ClampChannel(n[1]*127.5 + 127.5),
		B: pixel.ClampChannel(n[2]*127.5 + 127.5),
		A: 255,
	}
}

// Decode is the inverse of Encode, up to 8-bit quantization.
func Decode(c color.NRGBA) mgl64.Vec3 {
	return mgl64.Vec3{
		(float64(c.R) - 127.5) / 127.5,
		(float64(c.G) - 127.5) / 127.5,
		(float64(c.B) - 127.5) / 127.5,
	}
}
