package sim

import (
	"math/rand"

	"github.com/san-kum/verlet/internal/dynamo"
)

// Box is an axis-aligned spawn region.
type Box struct {
	Min, Max dynamo.Vec
}

// World owns every particle in one contiguous slice, in spawn order.
// Particles are addressed by index; nothing outside a step holds pointers
// into the slice.
type World struct {
	particles []dynamo.Particle
}

func NewWorld() *World {
	return &World{}
}

// Spawn appends a particle at rest and returns its index.
func (w *World) Spawn(pos dynamo.Vec, c dynamo.Color) int {
	w.particles = append(w.particles, dynamo.NewParticle(pos, c))
	return len(w.particles) - 1
}

// Fill spawns n particles uniformly inside box. color picks the colour of
// the i-th new particle.
func (w *World) Fill(n int, rng *rand.Rand, box Box, color func(i int) dynamo.Color) {
	for i := 0; i < n; i++ {
		pos := dynamo.Vec{
			X: box.Min.X + rng.Float64()*(box.Max.X-box.Min.X),
			Y: box.Min.Y + rng.Float64()*(box.Max.Y-box.Min.Y),
		}
		var c dynamo.Color
		if color != nil {
			c = color(i)
		}
		w.Spawn(pos, c)
	}
}

func (w *World) Len() int { return len(w.particles) }

func (w *World) At(i int) dynamo.Particle { return w.particles[i] }

// Particles returns a copy of every particle in spawn order.
func (w *World) Particles() []dynamo.Particle {
	out := make([]dynamo.Particle, len(w.particles))
	copy(out, w.particles)
	return out
}

// Bodies appends the render snapshot to dst[:0] and returns it.
func (w *World) Bodies(dst []dynamo.Body, radius float64) []dynamo.Body {
	dst = dst[:0]
	for _, p := range w.particles {
		dst = append(dst, dynamo.Body{Position: p.Position, Radius: radius, Color: p.Color})
	}
	return dst
}

// Load replaces the world's contents with a copy of ps, velocities
// included.
func (w *World) Load(ps []dynamo.Particle) {
	w.particles = append(w.particles[:0], ps...)
}

func (w *World) Reset() {
	w.particles = w.particles[:0]
}
