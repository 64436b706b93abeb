package metrics

import (
	"github.com/san-kum/verlet/internal/dynamo"
	"github.com/san-kum/verlet/internal/physics"
)

// Overlap is the deepest pairwise penetration seen after any frame.
type Overlap struct {
	name  string
	worst float64
}

func NewOverlap() *Overlap {
	return &Overlap{name: "max_overlap"}
}

func (o *Overlap) Name() string { return o.name }

func (o *Overlap) Observe(f dynamo.Frame) {
	if d := physics.MaxOverlap(f.Particles, f.Config.ParticleRadius); d > o.worst {
		o.worst = d
	}
}

func (o *Overlap) Value() float64 { return o.worst }

func (o *Overlap) Reset() { o.worst = 0 }

// Escape is the furthest any particle ended a frame beyond the allowed rim.
// Collisions run after confinement, so this is small but not always zero.
type Escape struct {
	name  string
	worst float64
}

func NewEscape() *Escape {
	return &Escape{name: "max_escape"}
}

func (e *Escape) Name() string { return e.name }

func (e *Escape) Observe(f dynamo.Frame) {
	if d := MaxEscape(f.Particles, f.Config); d > e.worst {
		e.worst = d
	}
}

func (e *Escape) Value() float64 { return e.worst }

func (e *Escape) Reset() { e.worst = 0 }

func MaxEscape(ps []dynamo.Particle, cfg dynamo.Config) float64 {
	worst := 0.0
	for _, p := range ps {
		if d := physics.Escape(p, cfg.ArenaCenter, cfg.ArenaRadius, cfg.ParticleRadius); d > worst {
			worst = d
		}
	}
	return worst
}

// Stability is the fraction of frames whose worst overlap stayed within
// threshold particle radii.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(f dynamo.Frame) {
	s.samples++
	r := f.Config.ParticleRadius
	if physics.MaxOverlap(f.Particles, r) > s.threshold*r {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
