package analysis

import (
	"context"

	"github.com/san-kum/verlet/internal/dynamo"
	"github.com/san-kum/verlet/internal/metrics"
	"github.com/san-kum/verlet/internal/sim"
)

// SweepPoint is the outcome of one run at a given sub-step count.
type SweepPoint struct {
	SubSteps   int
	MaxOverlap float64
	MaxEscape  float64
	Energy     float64
}

// SubStepSweep replays the same initial crowd at each sub-step count and
// records how well the constraints held. Higher counts should drive the
// overlap toward zero.
func SubStepSweep(
	ctx context.Context,
	initial []dynamo.Particle,
	integ dynamo.Integrator,
	cfg dynamo.Config,
	subSteps []int,
	frames int,
	frameDt float64,
) ([]SweepPoint, error) {
	points := make([]SweepPoint, 0, len(subSteps))

	for _, n := range subSteps {
		c := cfg
		c.SubSteps = n

		w := sim.NewWorld()
		w.Load(initial)
		s := sim.New(w, integ, c)
		overlap, escape, energy := metrics.NewOverlap(), metrics.NewEscape(), metrics.NewEnergy()
		s.AddMetric(overlap)
		s.AddMetric(escape)
		s.AddMetric(energy)

		if _, err := s.Run(ctx, frames, frameDt); err != nil {
			return points, err
		}

		points = append(points, SweepPoint{
			SubSteps:   n,
			MaxOverlap: overlap.Value(),
			MaxEscape:  escape.Value(),
			Energy:     energy.Value(),
		})
	}

	return points, nil
}
