package physics

import (
	"github.com/san-kum/verlet/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

// fallbackAxis is used when a particle sits exactly on the arena center.
var fallbackAxis = dynamo.Vec{X: 1, Y: 0}

// Confine keeps p inside the circle of arenaRadius around center, placing it
// on the allowed rim (arenaRadius - particleRadius) along its current
// direction from center. Previous is left alone, so the correction feeds the
// next integration as velocity. Reports whether p was moved.
func Confine(p *dynamo.Particle, center dynamo.Vec, arenaRadius, particleRadius float64) bool {
	limit := arenaRadius - particleRadius
	offset := r2.Sub(p.Position, center)
	dist := r2.Norm(offset)
	if !(dist > limit) {
		return false
	}

	n := fallbackAxis
	if dist > 0 {
		n = r2.Scale(1/dist, offset)
	}
	p.Position = r2.Add(center, r2.Scale(limit, n))
	return true
}

// Escape returns how far beyond the allowed rim p sits, or 0 if inside.
func Escape(p dynamo.Particle, center dynamo.Vec, arenaRadius, particleRadius float64) float64 {
	d := r2.Norm(r2.Sub(p.Position, center)) - (arenaRadius - particleRadius)
	if d < 0 {
		return 0
	}
	return d
}
