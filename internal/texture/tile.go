package texture

import "image"

// Tile repeats m repeatX times horizontally and repeatY times vertically,
// the way a consumer applies its repeat factor. Useful to eyeball seams.
func Tile(m Map, repeatX, repeatY int) *image.NRGBA {
	if repeatX <= 0 || repeatY <= 0 {
		return nil
	}

	dst := image.NewNRGBA(image.Rect(0, 0, m.Width()*repeatX, m.Height()*repeatY))
	for y := 0; y < dst.Rect.Dy(); y++ {
		for x := 0; x < dst.Rect.Dx(); x++ {
			dst.SetNRGBA(x, y, m.buf.AtWrapped(x, y))
		}
	}

	return dst
}
