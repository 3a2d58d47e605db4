// Package texture holds the output of a material recipe: a small, immutable
// bundle of named maps plus the tags a consumer needs to upload them.
package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/0xsl1m/StaticChapel-sub001/internal/pixel"
)

// Kind names a map inside a Set.
type Kind string

const (
	Diffuse   Kind = "diffuse"
	Normal    Kind = "normal"
	Roughness Kind = "roughness"
)

// Kinds lists every map kind in canonical order.
var Kinds = []Kind{Diffuse, Normal, Roughness}

// ParseKind validates a map kind name.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown map kind %q", s)
}

// Wrap is the addressing mode a consumer should sample a map with.
type Wrap string

const (
	// WrapRepeat marks tileable surface maps.
	WrapRepeat Wrap = "repeat"
	// WrapClamp marks decals and overlays.
	WrapClamp Wrap = "clamp"
)

// Map is a read-only raster with its sampling tags.
type Map struct {
	buf         *pixel.Buffer
	Wrap        Wrap
	Transparent bool
	Mipmaps     bool
}

// NewMap wraps buf. The caller must not modify buf afterwards.
func NewMap(buf *pixel.Buffer, wrap Wrap, transparent bool) Map {
	return Map{buf: buf, Wrap: wrap, Transparent: transparent, Mipmaps: true}
}

// Width returns the map width in pixels.
func (m Map) Width() int { return m.buf.W }

// Height returns the map height in pixels.
func (m Map) Height() int { return m.buf.H }

// At returns the pixel at (x, y).
func (m Map) At(x, y int) color.NRGBA { return m.buf.At(x, y) }

// Image returns a copy of the map as an *image.NRGBA.
func (m Map) Image() *image.NRGBA { return m.buf.Clone().Image() }

// EncodePNG writes the map as PNG.
func (m Map) EncodePNG(w io.Writer) error {
	return png.Encode(w, m.buf.Image())
}

// Set is the immutable result of one recipe invocation.
type Set struct {
	material string
	maps     map[Kind]Map
}

// NewSet bundles maps for material. A diffuse map is required and every map
// must share its dimensions.
func NewSet(material string, maps map[Kind]Map) (*Set, error) {
	if material == "" {
		return nil, errors.New("texture: empty material name")
	}
	diffuse, ok := maps[Diffuse]
	if !ok || diffuse.buf == nil {
		return nil, fmt.Errorf("texture: set %q has no diffuse map", material)
	}

	own := make(map[Kind]Map, len(maps))
	for kind, m := range maps {
		if _, err := ParseKind(string(kind)); err != nil {
			return nil, fmt.Errorf("texture: set %q: %w", material, err)
		}
		if m.buf == nil {
			return nil, fmt.Errorf("texture: set %q: %s map is empty", material, kind)
		}
		if m.Width() != diffuse.Width() || m.Height() != diffuse.Height() {
			return nil, fmt.Errorf("texture: set %q: %s map is %dx%d, diffuse is %dx%d",
				material, kind, m.Width(), m.Height(), diffuse.Width(), diffuse.Height())
		}
		own[kind] = m
	}
	return &Set{material: material, maps: own}, nil
}

// Material returns the recipe name that produced the set.
func (s *Set) Material() string { return s.material }

// Map returns the map of the given kind.
func (s *Set) Map(kind Kind) (Map, bool) {
	m, ok := s.maps[kind]
	return m, ok
}

// Kinds returns the kinds present in the set, in canonical order.
func (s *Set) Kinds() []Kind {
	var kinds []Kind
	for _, k := range Kinds {
		if _, ok := s.maps[k]; ok {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// Size returns the shared map dimensions.
func (s *Set) Size() (int, int) {
	d := s.maps[Diffuse]
	return d.Width(), d.Height()
}

// Transparent reports whether the diffuse map carries meaningful alpha.
func (s *Set) Transparent() bool { return s.maps[Diffuse].Transparent }
