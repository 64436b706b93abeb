package metrics

import (
	"github.com/san-kum/verlet/internal/dynamo"
	"github.com/san-kum/verlet/internal/physics"
)

// SampleFrame computes the archived diagnostics row for one frame.
func SampleFrame(f dynamo.Frame) dynamo.Sample {
	return dynamo.Sample{
		Frame:         f.Index,
		Time:          f.Time,
		Particles:     len(f.Particles),
		KineticEnergy: KineticEnergy(f.Particles, f.SubDt),
		MaxOverlap:    physics.MaxOverlap(f.Particles, f.Config.ParticleRadius),
		MaxEscape:     MaxEscape(f.Particles, f.Config),
		Corrected:     f.Corrected,
	}
}

// Standard returns the metric set every headless run records.
func Standard() []dynamo.Metric {
	return []dynamo.Metric{
		NewEnergy(),
		NewOverlap(),
		NewEscape(),
		NewStability(0.05),
		NewCorrections(),
		NewPopulation(),
	}
}
