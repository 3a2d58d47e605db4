package noise

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashRange(t *testing.T) {
	for i := -1000; i <= 1000; i++ {
		v := HashInt(i)
		if v < 0 || v >= 1 {
			t.Fatalf("HashInt(%d) = %v, want [0,1)", i, v)
		}
	}
	for _, n := range []float64{0, 0.001, -3.75, 1e6, 12345.678} {
		v := Hash(n)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestHashDecorrelatesNeighbours(t *testing.T) {
	same := 0
	for i := 0; i < 200; i++ {
		a := HashInt(i)
		b := HashInt(i + 1)
		if abs(a-b) < 0.01 {
			same++
		}
	}
	// Roughly 2% of independent pairs land within 0.01 of each other.
	assert.Less(t, same, 20, "consecutive seeds should produce unrelated values")
}

func TestHashIsPure(t *testing.T) {
	assert.Equal(t, Hash(42.5), Hash(42.5))
	assert.NotEqual(t, Hash(1), Hash(2))
}

func TestNewFieldRejectsInvalidSize(t *testing.T) {
	for _, size := range []int{0, -1, -128} {
		_, err := NewField(size, 1)
		require.ErrorIs(t, err, ErrInvalidSize)
	}

	_, err := NewFieldFromValues(2, []float64{0, 1, 2})
	require.Error(t, err)
}

func TestFieldGoldenBilinear(t *testing.T) {
	values := make([]float64, 16)
	for i := range values {
		values[i] = float64(i) / 16
	}
	f, err := NewFieldFromValues(4, values)
	require.NoError(t, err)

	// Cells (0,0)=0, (1,0)=1/16, (0,1)=4/16, (1,1)=5/16.
	want := (0.0 + 1.0/16 + 4.0/16 + 5.0/16) / 4
	assert.InDelta(t, want, f.Sample(0.5, 0.5), 1e-12)
	assert.InDelta(t, 0.15625, f.Sample(0.5, 0.5), 1e-12)

	// Lattice points return the cell value exactly.
	assert.InDelta(t, 6.0/16, f.Sample(2, 1), 1e-12)
	// Between the last and first column the field wraps: (3,0)=3/16, (0,0)=0.
	assert.InDelta(t, 1.5/16, f.Sample(3.5, 0), 1e-12)
}

func TestFieldToroidalWrap(t *testing.T) {
	f, err := NewField(16, 7)
	require.NoError(t, err)

	s := f.Period()
	points := [][2]float64{{0.25, 0.75}, {3.1, 9.9}, {15.5, 15.5}, {7, 2.5}}
	for _, p := range points {
		x, y := p[0], p[1]
		base := f.Sample(x, y)
		assert.InDelta(t, base, f.Sample(x+s, y), 1e-9)
		assert.InDelta(t, base, f.Sample(x, y+s), 1e-9)
		assert.InDelta(t, base, f.Sample(x-s, y-2*s), 1e-9)
	}
}

func TestFieldDeterminism(t *testing.T) {
	a, err := NewField(32, 1337)
	require.NoError(t, err)
	b, err := NewField(32, 1337)
	require.NoError(t, err)
	c, err := NewField(32, 1338)
	require.NoError(t, err)

	assert.Equal(t, a.values, b.values)
	assert.NotEqual(t, a.values, c.values)
}

func TestFBMBounded(t *testing.T) {
	f, err := NewField(DefaultFieldSize, 99)
	require.NoError(t, err)

	for octaves := 1; octaves <= 8; octaves++ {
		for i := 0; i < 500; i++ {
			x := float64(i) * 0.731
			y := float64(i) * 1.313
			v := FBM(f, x, y, octaves)
			if v < 0 || v > 1 {
				t.Fatalf("FBM(%v,%v,%d) = %v out of [0,1]", x, y, octaves, v)
			}
		}
	}
	assert.Equal(t, 0.0, FBM(f, 1, 2, 0))
}

func TestFBMSingleOctaveIsHalfSample(t *testing.T) {
	f, err := NewField(8, 3)
	require.NoError(t, err)
	assert.InDelta(t, 0.5*f.Sample(1.3, 2.7), FBM(f, 1.3, 2.7, 1), 1e-12)
}

func TestPerlinIsTileable(t *testing.T) {
	p := NewPerlin(5, 64, 4)
	for _, pt := range [][2]float64{{0, 0}, {10.5, 3.25}, {63.9, 0.1}, {31, 47}} {
		v := p.Sample(pt[0], pt[1])
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
		assert.InDelta(t, v, p.Sample(pt[0]+64, pt[1]), 1e-9)
		assert.InDelta(t, v, p.Sample(pt[0], pt[1]+64), 1e-9)
	}
	// Seam: the sample just before the period edge is close to the one at 0.
	assert.InDelta(t, p.Sample(0, 10), p.Sample(63.999, 10), 0.01)
}

func TestSimplexIsTileable(t *testing.T) {
	s := NewSimplex(11, 32, 3)
	for _, pt := range [][2]float64{{0, 0}, {1.5, 30}, {16, 16}, {31.9, 0.4}} {
		v := s.Sample(pt[0], pt[1])
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
		assert.InDelta(t, v, s.Sample(pt[0]+32, pt[1]), 1e-9)
		assert.InDelta(t, v, s.Sample(pt[0], pt[1]-32), 1e-9)
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
