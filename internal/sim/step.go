package sim

import (
	"math"

	"github.com/san-kum/verlet/internal/dynamo"
	"github.com/san-kum/verlet/internal/physics"
)

// Step advances the world by one sub-step of dt. Every particle is
// integrated and confined first; only then does the single collision pass
// run, so all pairs are corrected from positions at the same instant.
// Returns the number of pairs corrected.
func Step(w *World, integ dynamo.Integrator, cfg dynamo.Config, ctrl dynamo.Controls, dt float64) int {
	g := ctrl.Gravity(cfg.Gravity)
	ps := w.particles
	for i := range ps {
		p := &ps[i]
		integ.Step(p, g, dt)
		physics.Confine(p, cfg.ArenaCenter, cfg.ArenaRadius, cfg.ParticleRadius)
		if ctrl.Freeze {
			p.Previous = p.Position
		}
	}
	return physics.ResolveAll(ps, cfg.ParticleRadius)
}

// FrameDelta is the frame time actually simulated for frameDt: 0 for a
// non-positive or non-finite delta, otherwise clamped to MaxFrameDt.
func FrameDelta(cfg dynamo.Config, frameDt float64) float64 {
	if !(frameDt > 0) || math.IsInf(frameDt, 0) {
		return 0
	}
	if cfg.MaxFrameDt > 0 && frameDt > cfg.MaxFrameDt {
		return cfg.MaxFrameDt
	}
	return frameDt
}

// Advance runs Step exactly cfg.SubSteps times with dt = frameDt/SubSteps.
// Paused controls, zero sub-steps or an empty delta leave the world alone.
// Returns the sub-steps taken and the pairs corrected over all of them.
func Advance(w *World, integ dynamo.Integrator, cfg dynamo.Config, ctrl dynamo.Controls, frameDt float64) (steps, corrected int) {
	if ctrl.Paused || cfg.SubSteps <= 0 {
		return 0, 0
	}
	frameDt = FrameDelta(cfg, frameDt)
	if frameDt == 0 {
		return 0, 0
	}

	dt := frameDt / float64(cfg.SubSteps)
	for steps = 0; steps < cfg.SubSteps; steps++ {
		corrected += Step(w, integ, cfg, ctrl, dt)
	}
	return steps, corrected
}
