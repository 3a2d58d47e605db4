package noise

import (
	"math"

	"github.com/aquilax/go-perlin"
)

// Perlin is a tileable Perlin noise source. go-perlin is not periodic on its
// own, so four lattice-shifted samples are cross-faded over one period.
type Perlin struct {
	p      *perlin.Perlin
	period float64
	scale  float64
}

// NewPerlin returns Perlin noise that repeats every period units, with
// cells lattice cells per period.
func NewPerlin(seed int64, period float64, cells int) *Perlin {
	if period <= 0 {
		period = 1
	}
	if cells <= 0 {
		cells = 4
	}
	return &Perlin{
		p:      perlin.NewPerlin(2.0, 2.0, 3, seed),
		period: period,
		scale:  float64(cells) / period,
	}
}

// Period implements Periodic.
func (n *Perlin) Period() float64 { return n.period }

// Sample returns noise in [0,1].
func (n *Perlin) Sample(x, y float64) float64 {
	p := n.period
	u := wrap(x, p)
	v := wrap(y, p)

	a := n.raw(u, v)
	b := n.raw(u-p, v)
	c := n.raw(u, v-p)
	d := n.raw(u-p, v-p)

	val := (a*(p-u)*(p-v) + b*u*(p-v) + c*(p-u)*v + d*u*v) / (p * p)
	return clamp01((val + 1) * 0.5)
}

// raw samples off the integer lattice, where Perlin noise is always zero.
func (n *Perlin) raw(x, y float64) float64 {
	return n.p.Noise2D(x*n.scale+0.5*math.Pi, y*n.scale+0.25*math.E)
}
