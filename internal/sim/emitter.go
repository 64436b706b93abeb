package sim

import "github.com/san-kum/verlet/internal/dynamo"

// Emitter throttles driver spawn requests (a held mouse button) to at most
// one particle per Interval seconds, and stops at Max particles if Max > 0.
type Emitter struct {
	Interval float64
	Color    dynamo.Color
	Max      int

	last  float64
	fired bool
}

func NewEmitter(interval float64, c dynamo.Color, max int) *Emitter {
	return &Emitter{Interval: interval, Color: c, Max: max}
}

func (e *Emitter) Ready(now float64) bool {
	return !e.fired || now-e.last > e.Interval
}

// Emit spawns one particle at pos if the throttle and cap allow it.
func (e *Emitter) Emit(w *World, pos dynamo.Vec, now float64) bool {
	if !e.Ready(now) {
		return false
	}
	if e.Max > 0 && w.Len() >= e.Max {
		return false
	}
	w.Spawn(pos, e.Color)
	e.last, e.fired = now, true
	return true
}
