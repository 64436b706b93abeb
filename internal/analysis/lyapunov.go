package analysis

import (
	"math"

	"github.com/san-kum/verlet/internal/dynamo"
	"github.com/san-kum/verlet/internal/sim"
	"gonum.org/v1/gonum/spatial/r2"
)

// LyapunovExponent estimates how fast two copies of a crowd diverge when
// the first particle of one copy is nudged by perturbation along X. Both
// copies are advanced frame by frame; the separation is renormalised back
// to the initial distance whenever it grows past 1.
//
// Positive values mean the pile is chaotic at this sub-step count.
func LyapunovExponent(
	initial []dynamo.Particle,
	integ dynamo.Integrator,
	cfg dynamo.Config,
	frameDt float64,
	frames int,
	perturbation float64,
) float64 {
	if len(initial) == 0 || perturbation <= 0 || frameDt <= 0 {
		return 0
	}

	a, b := sim.NewWorld(), sim.NewWorld()
	a.Load(initial)
	b.Load(initial)
	nudged := b.Particles()
	nudged[0].Position.X += perturbation
	b.Load(nudged)

	d0 := perturbation
	sumLog := 0.0
	count := 0

	for f := 0; f < frames; f++ {
		sim.Advance(a, integ, cfg, dynamo.Controls{}, frameDt)
		sim.Advance(b, integ, cfg, dynamo.Controls{}, frameDt)

		pa, pb := a.Particles(), b.Particles()
		sep := separation(pa, pb)
		if sep > 0 {
			sumLog += math.Log(sep / d0)
			count++
		}

		// Renormalize to prevent saturation at arena size
		if sep > 1.0 {
			scale := d0 / sep
			for i := range pb {
				pb[i].Position = r2.Add(pa[i].Position, r2.Scale(scale, r2.Sub(pb[i].Position, pa[i].Position)))
				pb[i].Previous = r2.Add(pa[i].Previous, r2.Scale(scale, r2.Sub(pb[i].Previous, pa[i].Previous)))
			}
			b.Load(pb)
		}
	}

	if count == 0 {
		return 0
	}
	return sumLog / (float64(count) * frameDt)
}

func separation(a, b []dynamo.Particle) float64 {
	sum := 0.0
	for i := range a {
		sum += r2.Norm2(r2.Sub(a[i].Position, b[i].Position))
	}
	return math.Sqrt(sum)
}
