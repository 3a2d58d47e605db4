package material

import (
	"github.com/disintegration/gift"

	"github.com/0xsl1m/StaticChapel-sub001/internal/pixel"
)

// RoughnessParams maps diffuse luminance to roughness. Contrast and
// Brightness are percentages in [-100, 100] as understood by gift.
type RoughnessParams struct {
	Invert     bool
	Contrast   float32
	Brightness float32
}

// deriveRoughness runs point-wise filters only, so a tileable diffuse map
// yields a tileable roughness map.
func deriveRoughness(diffuse *pixel.Buffer, p RoughnessParams) (*pixel.Buffer, error) {
	out, err := pixel.New(diffuse.W, diffuse.H)
	if err != nil {
		return nil, err
	}

	filter := gift.New(gift.Grayscale())
	if p.Invert {
		filter.Add(gift.Invert())
	}
	if p.Contrast != 0 {
		filter.Add(gift.Contrast(p.Contrast))
	}
	if p.Brightness != 0 {
		filter.Add(gift.Brightness(p.Brightness))
	}
	filter.Draw(out.Image(), diffuse.Image())

	for i := 3; i < len(out.Pix); i += 4 {
		out.Pix[i] = 255
	}
	return out, nil
}
