// Package physics provides the constraint and collision passes of the arena.
//
//   - [Confine]: clamps a particle inside the circular arena
//   - [ResolveAll]: one positional-correction pass over every particle pair
//
// Both operate on positions only. Velocity is implicit in Verlet, so any
// positional correction shows up as velocity on the next integration.
//
// # Ordering
//
// ResolveAll mutates positions while it iterates, so the result depends on
// the pair order (i ascending, then j ascending). This is an approximation
// of a simultaneous solve; repeated sub-steps converge it. Changing the
// order changes how the simulation behaves.
//
// # Coincident particles
//
// A zero separation has no direction. Confine falls back to +X and
// ResolvePair to [FallbackNormal], so no NaN ever enters a position.
package physics
