// Package material holds the procedural recipes that turn the noise and
// pixel primitives into finished texture sets.
package material

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"time"

	"github.com/0xsl1m/StaticChapel-sub001/internal/noise"
	"github.com/0xsl1m/StaticChapel-sub001/internal/normal"
	"github.com/0xsl1m/StaticChapel-sub001/internal/pixel"
	"github.com/0xsl1m/StaticChapel-sub001/internal/texture"
)

var (
	// ErrInvalidDimension is returned by New for unusable resolutions.
	ErrInvalidDimension = errors.New("material: invalid dimension")
	// ErrUnknownMaterial is returned by Generate for unregistered names.
	ErrUnknownMaterial = errors.New("material: unknown material")
)

// MaxSize is the largest square resolution a Generator accepts.
const MaxSize = 8192

// Config configures a Generator.
type Config struct {
	// Size is the side length of every square surface texture.
	Size int
	// Seed drives the noise field, the noise adapters and the pattern hashes.
	Seed int64
	// FieldSize is the side of the shared noise field (0 uses noise.DefaultFieldSize).
	FieldSize int
	Logger    *slog.Logger
}

// Generator owns the read-only noise sources shared by every recipe.
// It is safe for concurrent use.
type Generator struct {
	size    int
	seed    int64
	salt    float64
	field   *noise.Field
	perlin  *noise.Perlin
	simplex *noise.Simplex
	logger  *slog.Logger
}

// New validates cfg and builds the shared noise sources.
func New(cfg Config) (*Generator, error) {
	if cfg.Size <= 0 || cfg.Size > MaxSize {
		return nil, fmt.Errorf("%w: size %d (must be 1..%d)", ErrInvalidDimension, cfg.Size, MaxSize)
	}
	if cfg.FieldSize < 0 {
		return nil, fmt.Errorf("%w: field size %d", ErrInvalidDimension, cfg.FieldSize)
	}
	fieldSize := cfg.FieldSize
	if fieldSize == 0 {
		fieldSize = noise.DefaultFieldSize
	}

	field, err := noise.NewField(fieldSize, cfg.Seed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDimension, err)
	}

	return &Generator{
		size:    cfg.Size,
		seed:    cfg.Seed,
		salt:    float64(cfg.Seed%10007) * 0.618,
		field:   field,
		perlin:  noise.NewPerlin(cfg.Seed+1, 1, 6),
		simplex: noise.NewSimplex(cfg.Seed+2, 1, 1.5),
		logger:  cfg.Logger,
	}, nil
}

// Size returns the surface texture resolution.
func (g *Generator) Size() int { return g.size }

// Seed returns the seed the generator was built with.
func (g *Generator) Seed() int64 { return g.seed }

// Field returns the shared noise field.
func (g *Generator) Field() *noise.Field { return g.field }

func (g *Generator) log() *slog.Logger {
	if g.logger != nil {
		return g.logger
	}
	return slog.Default()
}

// hash decorrelates pattern instances per generator seed.
func (g *Generator) hash(n float64) float64 {
	return noise.Hash(n + g.salt)
}

// jitter returns a signed value in [-amount, amount).
func (g *Generator) jitter(n, amount float64) float64 {
	return (g.hash(n)*2 - 1) * amount
}

// canvas is the pair of buffers a recipe paints into.
type canvas struct {
	diffuse *pixel.Buffer
	height  *pixel.Buffer
}

func newCanvas(size int, base color.NRGBA, baseHeight float64) (*canvas, error) {
	diffuse, err := pixel.New(size, size)
	if err != nil {
		return nil, err
	}
	height, err := pixel.New(size, size)
	if err != nil {
		return nil, err
	}
	diffuse.FillRect(diffuse.Bounds(), base)
	height.FillHeight(height.Bounds(), baseHeight)
	return &canvas{diffuse: diffuse, height: height}, nil
}

// outputs selects which maps a recipe emits.
type outputs struct {
	// NormalStrength of 0 skips the normal map.
	NormalStrength float64
	// Roughness nil skips the roughness map.
	Roughness   *RoughnessParams
	Wrap        texture.Wrap
	Transparent bool
}

func (g *Generator) finish(name string, c *canvas, out outputs, start time.Time) (*texture.Set, error) {
	wrap := out.Wrap
	if wrap == "" {
		wrap = texture.WrapRepeat
	}
	maps := map[texture.Kind]texture.Map{
		texture.Diffuse: texture.NewMap(c.diffuse, wrap, out.Transparent),
	}

	if out.NormalStrength > 0 && c.height != nil {
		n, err := normal.Derive(c.height, out.NormalStrength)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		maps[texture.Normal] = texture.NewMap(n, wrap, false)
	}

	if out.Roughness != nil {
		r, err := deriveRoughness(c.diffuse, *out.Roughness)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		maps[texture.Roughness] = texture.NewMap(r, wrap, false)
	}

	set, err := texture.NewSet(name, maps)
	if err != nil {
		return nil, err
	}

	g.log().Debug("Generated material",
		"material", name,
		"size", c.diffuse.W,
		"maps", len(maps),
		"elapsed_ms", time.Since(start).Milliseconds())
	return set, nil
}

// span returns the integer boundaries of cell i when n cells share size pixels.
func span(i, n, size int) (int, int) {
	return i * size / n, (i + 1) * size / n
}
