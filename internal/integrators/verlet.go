package integrators

import (
	"github.com/san-kum/verlet/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

// Accelerate adds a to the particle's pending acceleration. It must be
// called before Integrate consumes it.
func Accelerate(p *dynamo.Particle, a dynamo.Vec) {
	p.Acceleration = r2.Add(p.Acceleration, a)
}

// Integrate is the position Verlet update:
//
//	x' = x + (x - x_prev) + a*dt²,  x_prev' = x,  a' = 0
func Integrate(p *dynamo.Particle, dt float64) {
	v := r2.Sub(p.Position, p.Previous)
	p.Previous = p.Position
	p.Position = r2.Add(p.Position, r2.Add(v, r2.Scale(dt*dt, p.Acceleration)))
	p.Acceleration = dynamo.Vec{}
}

// Verlet applies gravity and integrates in one call.
type Verlet struct{}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) Step(p *dynamo.Particle, gravity dynamo.Vec, dt float64) {
	Accelerate(p, gravity)
	Integrate(p, dt)
}
