package noise

import (
	"math"

	"github.com/ojrac/opensimplex-go"
)

// Simplex is OpenSimplex noise mapped onto a 4D torus so that it tiles
// seamlessly with the configured period.
type Simplex struct {
	n      opensimplex.Noise
	period float64
	freq   float64
}

// NewSimplex returns tileable simplex noise; frequency controls how many
// features fit into one period.
func NewSimplex(seed int64, period, frequency float64) *Simplex {
	if period <= 0 {
		period = 1
	}
	if frequency <= 0 {
		frequency = 1
	}
	return &Simplex{
		n:      opensimplex.NewNormalized(seed),
		period: period,
		freq:   frequency,
	}
}

// Period implements Periodic.
func (s *Simplex) Period() float64 { return s.period }

// Sample returns noise in [0,1].
func (s *Simplex) Sample(x, y float64) float64 {
	theta := 2 * math.Pi * x / s.period
	phi := 2 * math.Pi * y / s.period

	return clamp01(s.n.Eval4(
		math.Cos(theta)*s.freq,
		math.Sin(theta)*s.freq,
		math.Cos(phi)*s.freq,
		math.Sin(phi)*s.freq,
	))
}
