// Package noise provides the deterministic noise primitives the material
// recipes are built from: a sine hash, a toroidal value-noise field and an
// fbm accumulator, plus tileable adapters over Perlin and OpenSimplex noise.
package noise

import (
	"errors"
	"math"
)

// ErrInvalidSize is returned when a field is constructed with a non-positive side length.
var ErrInvalidSize = errors.New("noise: invalid field size")

// Sampler returns a noise value for a continuous 2D coordinate.
type Sampler interface {
	Sample(x, y float64) float64
}

// Periodic is a Sampler that repeats every Period() units along both axes.
type Periodic interface {
	Sampler
	Period() float64
}

const (
	hashA = 127.1
	hashB = 311.7
	hashC = 43758.5453
)

// Hash maps n to a pseudo-random value in [0,1).
// Small differences in n produce uncorrelated outputs.
func Hash(n float64) float64 {
	return fract(math.Sin(n*hashA+hashB) * hashC)
}

// HashInt is Hash for integer seeds.
func HashInt(n int) float64 {
	return Hash(float64(n))
}

// FBM sums octaves of s, starting at amplitude 0.5 and frequency 1 and
// halving/doubling each octave. The result lies in [0,1) for samplers
// bounded to [0,1).
func FBM(s Sampler, x, y float64, octaves int) float64 {
	sum := 0.0
	amp := 0.5
	freq := 1.0
	for i := 0; i < octaves; i++ {
		sum += amp * s.Sample(x*freq, y*freq)
		amp *= 0.5
		freq *= 2
	}
	return sum
}

func fract(x float64) float64 {
	f := x - math.Floor(x)
	// x - floor(x) can round up to exactly 1 for tiny negative x.
	if f >= 1 {
		return 0
	}
	return f
}

func wrap(x, period float64) float64 {
	x = math.Mod(x, period)
	if x < 0 {
		x += period
	}
	return x
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
