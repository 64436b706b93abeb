// Package dynamo provides the core simulation primitives for the arena.
//
// The package defines the types every other package speaks:
//
//   - [Particle]: position, previous position, accumulated acceleration, colour
//   - [Config]: gravity, arena geometry, particle radius, sub-step count
//   - [Controls]: pause / freeze / inverted gravity toggles from a driver
//   - [Integrator]: advances one particle by one sub-step
//   - [Metric] and [Observer]: per-frame hooks fed a [Frame]
//
// # Example
//
//	cfg := dynamo.DefaultConfig()
//	w := sim.NewWorld()
//	w.Spawn(dynamo.Vec{X: 400, Y: 300}, 0xff00ff)
//	s := sim.New(w, integrators.NewVerlet(), cfg)
//	err := s.Frame(1.0 / 60)
//
// # Thread Safety
//
// Nothing here is thread-safe. A world is owned by exactly one simulator,
// and a driver calls it from one goroutine.
package dynamo
