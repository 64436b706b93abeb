package metrics

import (
	"github.com/san-kum/verlet/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

// KineticEnergy is 0.5*Σ|v|² at unit mass, with each velocity recovered from
// the last Verlet displacement over the sub-step that produced it.
func KineticEnergy(ps []dynamo.Particle, subDt float64) float64 {
	if subDt <= 0 {
		return 0
	}
	sum := 0.0
	for _, p := range ps {
		sum += r2.Norm2(p.Displacement())
	}
	return 0.5 * sum / (subDt * subDt)
}

type Energy struct {
	name    string
	total   float64
	samples int
}

func NewEnergy() *Energy {
	return &Energy{name: "kinetic_energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(f dynamo.Frame) {
	e.total += KineticEnergy(f.Particles, f.SubDt)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *Energy) Reset() {
	e.total = 0
	e.samples = 0
}

// Population tracks the largest particle count seen.
type Population struct {
	name string
	peak int
}

func NewPopulation() *Population {
	return &Population{name: "peak_particles"}
}

func (p *Population) Name() string { return p.name }

func (p *Population) Observe(f dynamo.Frame) {
	if n := len(f.Particles); n > p.peak {
		p.peak = n
	}
}

func (p *Population) Value() float64 { return float64(p.peak) }

func (p *Population) Reset() { p.peak = 0 }
