package physics

import (
	"math"
	"testing"

	"github.com/san-kum/verlet/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

const eps = 1e-9

func TestConfine(t *testing.T) {
	center := dynamo.Vec{X: 400, Y: 300}

	tests := []struct {
		name  string
		pos   dynamo.Vec
		moved bool
	}{
		{"inside", dynamo.Vec{X: 450, Y: 300}, false},
		{"on rim", dynamo.Vec{X: 400 + 346, Y: 300}, false},
		{"outside right", dynamo.Vec{X: 900, Y: 300}, true},
		{"outside diagonal", dynamo.Vec{X: 700, Y: 700}, true},
		{"outside above", dynamo.Vec{X: 400, Y: -200}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := dynamo.NewParticle(tt.pos, 0)
			dirBefore := r2.Unit(r2.Sub(tt.pos, center))

			moved := Confine(&p, center, 350, 4)
			if moved != tt.moved {
				t.Fatalf("moved = %v, want %v", moved, tt.moved)
			}
			if !tt.moved {
				if p.Position != tt.pos {
					t.Errorf("inside particle moved to %v", p.Position)
				}
				return
			}

			offset := r2.Sub(p.Position, center)
			if d := r2.Norm(offset); math.Abs(d-346) > eps {
				t.Errorf("distance from center = %.12f, want 346", d)
			}
			dirAfter := r2.Unit(offset)
			if math.Abs(dirAfter.X-dirBefore.X) > eps || math.Abs(dirAfter.Y-dirBefore.Y) > eps {
				t.Errorf("direction changed from %v to %v", dirBefore, dirAfter)
			}
			if p.Previous != tt.pos {
				t.Errorf("previous position touched: %v", p.Previous)
			}
		})
	}
}

func TestConfine_AtCenterWithNegativeLimit(t *testing.T) {
	center := dynamo.Vec{X: 10, Y: 10}
	p := dynamo.NewParticle(center, 0)

	if !Confine(&p, center, 1, 4) {
		t.Fatal("expected a move when the allowed radius is negative")
	}
	if !p.IsValid() {
		t.Fatalf("non-finite position %v", p.Position)
	}
	if math.Abs(r2.Norm(r2.Sub(p.Position, center))-3) > eps {
		t.Errorf("expected |limit| = 3 from center, got %v", p.Position)
	}
}

func TestResolvePair_TwoParticles(t *testing.T) {
	tests := []struct {
		name string
		a, b dynamo.Vec
	}{
		{"horizontal", dynamo.Vec{X: 0, Y: 0}, dynamo.Vec{X: 5, Y: 0}},
		{"vertical", dynamo.Vec{X: 2, Y: 9}, dynamo.Vec{X: 2, Y: 3}},
		{"diagonal", dynamo.Vec{X: 1, Y: 1}, dynamo.Vec{X: 3, Y: 4}},
		{"barely touching", dynamo.Vec{X: 0, Y: 0}, dynamo.Vec{X: 7.999, Y: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps := []dynamo.Particle{dynamo.NewParticle(tt.a, 0), dynamo.NewParticle(tt.b, 0)}
			mid := r2.Scale(0.5, r2.Add(tt.a, tt.b))
			axis := r2.Unit(r2.Sub(tt.a, tt.b))

			if n := ResolveAll(ps, 4); n != 1 {
				t.Fatalf("corrected %d pairs, want 1", n)
			}

			if d := r2.Norm(r2.Sub(ps[0].Position, ps[1].Position)); math.Abs(d-8) > eps {
				t.Errorf("distance after resolve = %.12f, want 8", d)
			}
			newMid := r2.Scale(0.5, r2.Add(ps[0].Position, ps[1].Position))
			if r2.Norm(r2.Sub(newMid, mid)) > eps {
				t.Errorf("midpoint moved from %v to %v", mid, newMid)
			}
			newAxis := r2.Unit(r2.Sub(ps[0].Position, ps[1].Position))
			if r2.Norm(r2.Sub(newAxis, axis)) > eps {
				t.Errorf("axis rotated from %v to %v", axis, newAxis)
			}
		})
	}
}

func TestResolvePair_Separated(t *testing.T) {
	ps := []dynamo.Particle{
		dynamo.NewParticle(dynamo.Vec{X: 0, Y: 0}, 0),
		dynamo.NewParticle(dynamo.Vec{X: 8, Y: 0}, 0),
		dynamo.NewParticle(dynamo.Vec{X: 100, Y: 100}, 0),
	}
	before := append([]dynamo.Particle(nil), ps...)

	if n := ResolveAll(ps, 4); n != 0 {
		t.Errorf("corrected %d pairs, want 0", n)
	}
	for i := range ps {
		if ps[i] != before[i] {
			t.Errorf("particle %d changed: %v -> %v", i, before[i].Position, ps[i].Position)
		}
	}
}

func TestResolvePair_Coincident(t *testing.T) {
	p := dynamo.Vec{X: 50, Y: 50}
	ps := []dynamo.Particle{dynamo.NewParticle(p, 0), dynamo.NewParticle(p, 0)}

	ResolveAll(ps, 4)

	for i := range ps {
		if !ps[i].IsValid() {
			t.Fatalf("particle %d non-finite: %v", i, ps[i].Position)
		}
	}
	if d := r2.Norm(r2.Sub(ps[0].Position, ps[1].Position)); math.Abs(d-8) > eps {
		t.Errorf("coincident pair separated to %.12f, want 8", d)
	}
}

func TestFallbackNormal_Unit(t *testing.T) {
	seen := make(map[dynamo.Vec]bool)
	for j := 1; j < 20; j++ {
		for i := 0; i < j; i++ {
			n := FallbackNormal(i, j)
			if math.Abs(r2.Norm(n)-1) > eps {
				t.Fatalf("FallbackNormal(%d, %d) = %v is not unit", i, j, n)
			}
			seen[n] = true
		}
	}
	if len(seen) != 19*20/2 {
		t.Errorf("expected a distinct normal per pair, got %d", len(seen))
	}
}

func TestResolveAll_Converges(t *testing.T) {
	const r = 1.0
	var ps []dynamo.Particle
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			ps = append(ps, dynamo.NewParticle(dynamo.Vec{X: float64(x) * 1.2, Y: float64(y) * 1.2}, 0))
		}
	}

	passes := 0
	for ; passes < 2000 && MaxOverlap(ps, r) > 1e-3*r; passes++ {
		ResolveAll(ps, r)
	}

	if got := MaxOverlap(ps, r); got > 1e-3*r {
		t.Fatalf("still overlapping by %g after %d passes", got, passes)
	}
}

func TestEscape(t *testing.T) {
	c := dynamo.Vec{}
	if e := Escape(dynamo.NewParticle(dynamo.Vec{X: 10}, 0), c, 100, 4); e != 0 {
		t.Errorf("inside escape = %g", e)
	}
	if e := Escape(dynamo.NewParticle(dynamo.Vec{X: 106}, 0), c, 100, 4); math.Abs(e-10) > eps {
		t.Errorf("outside escape = %g, want 10", e)
	}
}
