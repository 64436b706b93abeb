package physics

import (
	"math"

	"github.com/san-kum/verlet/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

// goldenAngle spreads successive fallback normals evenly around the circle.
var goldenAngle = math.Pi * (3 - math.Sqrt(5))

// FallbackNormal is the separation axis used for two exactly coincident
// particles. It depends only on the pair indices so runs stay reproducible.
func FallbackNormal(i, j int) dynamo.Vec {
	pair := j*(j-1)/2 + i
	s, c := math.Sincos(goldenAngle * float64(pair))
	return dynamo.Vec{X: c, Y: s}
}

// ResolvePair pushes particles i and j apart by equal halves of their
// penetration depth. Reports whether they overlapped.
func ResolvePair(ps []dynamo.Particle, i, j int, radius float64) bool {
	a, b := &ps[i], &ps[j]
	minDist := 2 * radius

	axis := r2.Sub(a.Position, b.Position)
	d2 := r2.Norm2(axis)
	if d2 >= minDist*minDist {
		return false
	}

	dist := math.Sqrt(d2)
	n := FallbackNormal(i, j)
	if dist > 0 {
		n = r2.Scale(1/dist, axis)
	}
	shift := r2.Scale(0.5*(minDist-dist), n)
	a.Position = r2.Add(a.Position, shift)
	b.Position = r2.Sub(b.Position, shift)
	return true
}

// ResolveAll makes one sequential pass over every pair (i, j), i < j, in
// ascending order, correcting overlaps in place. Later pairs see earlier
// corrections; one pass does not guarantee a separated configuration.
// Returns the number of pairs corrected.
func ResolveAll(ps []dynamo.Particle, radius float64) int {
	corrected := 0
	n := len(ps)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if ResolvePair(ps, i, j, radius) {
				corrected++
			}
		}
	}
	return corrected
}

// MaxOverlap returns the deepest pairwise penetration, 0 if none.
func MaxOverlap(ps []dynamo.Particle, radius float64) float64 {
	minDist := 2 * radius
	worst := 0.0
	for i := range ps {
		for j := i + 1; j < len(ps); j++ {
			d2 := r2.Norm2(r2.Sub(ps[i].Position, ps[j].Position))
			if d2 >= minDist*minDist {
				continue
			}
			if pen := minDist - math.Sqrt(d2); pen > worst {
				worst = pen
			}
		}
	}
	return worst
}
