package noise

import (
	"fmt"
	"math"
	"math/rand"
)

// DefaultFieldSize is the side length used when callers do not choose one.
const DefaultFieldSize = 128

// Field is a square grid of random samples read with bilinear interpolation
// and toroidal addressing. A Field is immutable once built and safe for
// concurrent use.
type Field struct {
	values []float64
	size   int
}

// NewField fills a size x size grid from a uniform source seeded with seed.
func NewField(size int, seed int64) (*Field, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	rng := rand.New(rand.NewSource(seed))
	values := make([]float64, size*size)
	for i := range values {
		values[i] = rng.Float64()
	}

	return &Field{values: values, size: size}, nil
}

// NewFieldFromValues builds a field from explicit row-major samples.
func NewFieldFromValues(size int, values []float64) (*Field, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	if len(values) != size*size {
		return nil, fmt.Errorf("noise: expected %d values for size %d, got %d", size*size, size, len(values))
	}

	v := make([]float64, len(values))
	copy(v, values)
	return &Field{values: v, size: size}, nil
}

// Size returns the grid side length.
func (f *Field) Size() int { return f.size }

// Period implements Periodic.
func (f *Field) Period() float64 { return float64(f.size) }

// Sample bilinearly interpolates the four cells around (x, y), wrapping both
// axes modulo the grid size.
func (f *Field) Sample(x, y float64) float64 {
	x0f := math.Floor(x)
	y0f := math.Floor(y)
	fx := x - x0f
	fy := y - y0f

	x0 := f.wrapIndex(int(x0f))
	y0 := f.wrapIndex(int(y0f))
	x1 := f.wrapIndex(x0 + 1)
	y1 := f.wrapIndex(y0 + 1)

	v00 := f.values[y0*f.size+x0]
	v10 := f.values[y0*f.size+x1]
	v01 := f.values[y1*f.size+x0]
	v11 := f.values[y1*f.size+x1]

	top := v00 + (v10-v00)*fx
	bottom := v01 + (v11-v01)*fx
	return top + (bottom-top)*fy
}

func (f *Field) wrapIndex(i int) int {
	i %= f.size
	if i < 0 {
		i += f.size
	}
	return i
}
