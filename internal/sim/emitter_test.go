package sim

import (
	"testing"

	"github.com/san-kum/verlet/internal/dynamo"
)

func TestEmitterThrottle(t *testing.T) {
	w := NewWorld()
	e := NewEmitter(0.1, 0xff00ff, 0)
	pos := dynamo.Vec{X: 400, Y: 200}

	if !e.Emit(w, pos, 0) {
		t.Fatal("expected first emit to succeed")
	}
	if e.Emit(w, pos, 0.05) {
		t.Error("expected emit inside interval to be refused")
	}
	if !e.Emit(w, pos, 0.2) {
		t.Error("expected emit after interval to succeed")
	}
	if w.Len() != 2 {
		t.Errorf("expected 2 particles, got %d", w.Len())
	}
	if w.At(0).Color != 0xff00ff {
		t.Errorf("expected emitter colour, got %v", w.At(0).Color)
	}
}

func TestEmitterMax(t *testing.T) {
	w := NewWorld()
	e := NewEmitter(0, 0, 3)
	for i := 0; i < 10; i++ {
		e.Emit(w, dynamo.Vec{}, float64(i))
	}
	if w.Len() != 3 {
		t.Errorf("expected cap of 3, got %d", w.Len())
	}
}
