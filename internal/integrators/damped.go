package integrators

import (
	"github.com/san-kum/verlet/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

// Damped is position Verlet with the carried displacement scaled by
// 1-Damping each step, which bleeds energy out of a settling pile.
type Damped struct {
	Damping float64
}

func NewDamped(damping float64) *Damped {
	return &Damped{Damping: damping}
}

func (d *Damped) Step(p *dynamo.Particle, gravity dynamo.Vec, dt float64) {
	Accelerate(p, gravity)
	v := r2.Scale(1-d.Damping, r2.Sub(p.Position, p.Previous))
	p.Previous = p.Position
	p.Position = r2.Add(p.Position, r2.Add(v, r2.Scale(dt*dt, p.Acceleration)))
	p.Acceleration = dynamo.Vec{}
}
