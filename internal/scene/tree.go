package scene

import (
	"math"
	"math/rand"
)

// Params controls the generated tree geometry. Counts and radii are fixed
// for the lifetime of the scene; entities are only ever repositioned,
// never created or destroyed, after Build returns.
type Params struct {
	Particles     int     `yaml:"particles"`
	Ornaments     int     `yaml:"ornaments"`
	Height        float64 `yaml:"height"`
	Radius        float64 `yaml:"radius"`
	ExplodeRadius float64 `yaml:"explode_radius"`
	Seed          int64   `yaml:"seed"`
}

// DefaultParams returns the stock tree.
func DefaultParams() Params {
	return Params{
		Particles:     12000,
		Ornaments:     80,
		Height:        7.0,
		Radius:        2.6,
		ExplodeRadius: 9.0,
		Seed:          1,
	}
}

// spiralTurns is how many times the particle spiral winds around the cone
// from base to tip.
const spiralTurns = 14.0

// lightFraction of particles render as warm lights instead of foliage.
const lightFraction = 0.08

// foliage green shades, warm light color, and the ornament palette.
var (
	foliageColors = [][3]float32{
		{0.05, 0.35, 0.10},
		{0.08, 0.45, 0.14},
		{0.12, 0.55, 0.18},
		{0.16, 0.62, 0.22},
	}
	lightColor = [3]float32{1.0, 0.85, 0.45}

	ornamentColors = [][3]float32{
		{0.85, 0.12, 0.15}, // red
		{0.95, 0.75, 0.20}, // gold
		{0.20, 0.35, 0.85}, // blue
		{0.60, 0.25, 0.75}, // violet
		{0.80, 0.82, 0.85}, // silver
	}
)

// buildParticles fills the particle formation with a spiral cone of
// foliage points and scattered warm lights, plus per-particle colors and
// sizes. Exploded positions scatter into a shell around the tree center.
func buildParticles(f *Formation, colors, sizes []float32, p Params, rng *rand.Rand) {
	n := f.Count()
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n)

		y := t * p.Height
		radius := p.Radius * (1 - t)
		angle := t*spiralTurns*2*math.Pi + rng.Float64()*0.6

		// Jitter fills the cone surface into a volume.
		r := radius * (0.75 + rng.Float64()*0.35)

		rest := [3]float32{
			float32(r * math.Cos(angle)),
			float32(y),
			float32(r * math.Sin(angle)),
		}

		f.Place(i, rest, scatterPoint(p, rng))

		c := foliageColors[rng.Intn(len(foliageColors))]
		size := float32(0.02 + rng.Float64()*0.03)
		if rng.Float64() < lightFraction {
			c = lightColor
			size *= 2.2
		}
		copy(colors[3*i:3*i+3], c[:])
		sizes[i] = size
	}
}

// buildOrnaments hangs baubles on the cone surface and scatters their
// exploded positions into the same shell as the particles.
func buildOrnaments(f *Formation, colors, sizes, spinRates []float32, p Params, rng *rand.Rand) {
	n := f.Count()
	for i := 0; i < n; i++ {
		// Keep ornaments off the very tip where the topper sits.
		t := 0.05 + rng.Float64()*0.82

		y := t * p.Height
		radius := p.Radius * (1 - t) * 1.05
		angle := rng.Float64() * 2 * math.Pi

		rest := [3]float32{
			float32(radius * math.Cos(angle)),
			float32(y),
			float32(radius * math.Sin(angle)),
		}

		f.Place(i, rest, scatterPoint(p, rng))

		c := ornamentColors[rng.Intn(len(ornamentColors))]
		copy(colors[3*i:3*i+3], c[:])
		sizes[i] = float32(0.12 + rng.Float64()*0.08)
		spinRates[i] = float32(OrnamentSpinMin + rng.Float64()*(OrnamentSpinMax-OrnamentSpinMin))
	}
}

// scatterPoint picks an exploded position in a shell around the tree's
// vertical midpoint.
func scatterPoint(p Params, rng *rand.Rand) [3]float32 {
	// Uniform direction on the unit sphere.
	z := rng.Float64()*2 - 1
	theta := rng.Float64() * 2 * math.Pi
	s := math.Sqrt(1 - z*z)

	dist := p.ExplodeRadius * (0.45 + 0.55*rng.Float64())

	return [3]float32{
		float32(s * math.Cos(theta) * dist),
		float32(p.Height/2 + z*dist),
		float32(s * math.Sin(theta) * dist),
	}
}
