package analysis

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/san-kum/verlet/internal/dynamo"
	"github.com/san-kum/verlet/internal/integrators"
	"github.com/san-kum/verlet/internal/sim"
)

func TestDominantFrequency(t *testing.T) {
	dt := 0.01
	data := make([]float64, 200)
	for i := range data {
		data[i] = 3 + math.Sin(2*math.Pi*5*float64(i)*dt)
	}

	freq, power := DominantFrequency(data, dt)
	if math.Abs(freq-5) > 1e-9 {
		t.Errorf("expected 5 Hz, got %f", freq)
	}
	if power <= 0 {
		t.Errorf("expected positive power, got %f", power)
	}
}

func TestPowerSpectrumRemovesMean(t *testing.T) {
	data := []float64{7, 7, 7, 7, 7}
	for i, v := range PowerSpectrum(data) {
		if v > 1e-9 {
			t.Errorf("bin %d: expected flat series to have no power, got %f", i, v)
		}
	}
	if PowerSpectrum([]float64{1}) != nil {
		t.Error("expected nil spectrum for a single sample")
	}
}

func TestPackingFraction(t *testing.T) {
	cfg := dynamo.DefaultConfig()
	limit := cfg.ArenaRadius - cfg.ParticleRadius
	want := 10 * cfg.ParticleRadius * cfg.ParticleRadius / (limit * limit)
	if got := PackingFraction(10, cfg); math.Abs(got-want) > 1e-12 {
		t.Errorf("expected %f, got %f", want, got)
	}
}

func TestRadialProfile(t *testing.T) {
	cfg := dynamo.DefaultConfig()
	ps := []dynamo.Particle{
		dynamo.NewParticle(cfg.ArenaCenter, 0),
		dynamo.NewParticle(dynamo.Vec{X: cfg.ArenaCenter.X + 1, Y: cfg.ArenaCenter.Y}, 0),
		dynamo.NewParticle(dynamo.Vec{X: cfg.ArenaCenter.X + 1000, Y: cfg.ArenaCenter.Y}, 0),
	}

	bins := 10
	profile := RadialProfile(ps, cfg, bins)
	if len(profile) != bins {
		t.Fatalf("expected %d bins, got %d", bins, len(profile))
	}
	if profile[0] <= 0 || profile[bins-1] <= 0 {
		t.Errorf("expected centre and rim bins filled: %v", profile)
	}
	for i := 1; i < bins-1; i++ {
		if profile[i] != 0 {
			t.Errorf("bin %d: expected empty, got %f", i, profile[i])
		}
	}

	limit := cfg.ArenaRadius - cfg.ParticleRadius
	width := limit / float64(bins)
	covered := 0.0
	for i, v := range profile {
		inner, outer := float64(i)*width, float64(i+1)*width
		covered += v * math.Pi * (outer*outer - inner*inner)
	}
	want := 3 * math.Pi * cfg.ParticleRadius * cfg.ParticleRadius
	if math.Abs(covered-want) > 1e-9 {
		t.Errorf("expected covered area %f, got %f", want, covered)
	}

	out := ProfileToASCII(profile, 20)
	if strings.Count(out, "\n") != bins {
		t.Errorf("expected %d lines, got:\n%s", bins, out)
	}
}

func TestLyapunovFreeFall(t *testing.T) {
	cfg := dynamo.DefaultConfig()
	ps := []dynamo.Particle{dynamo.NewParticle(cfg.ArenaCenter, 0)}

	lambda := LyapunovExponent(ps, integrators.NewVerlet(), cfg, 1.0/60, 10, 1e-6)
	if math.Abs(lambda) > 1e-3 {
		t.Errorf("expected no divergence for a lone falling particle, got %f", lambda)
	}

	if LyapunovExponent(nil, integrators.NewVerlet(), cfg, 1.0/60, 10, 1e-6) != 0 {
		t.Error("expected 0 for an empty crowd")
	}
}

func testCrowd(n int) []dynamo.Particle {
	w := sim.NewWorld()
	w.Fill(n, rand.New(rand.NewSource(5)), sim.Box{
		Min: dynamo.Vec{X: 300, Y: 300},
		Max: dynamo.Vec{X: 500, Y: 500},
	}, nil)
	return w.Particles()
}

func TestSubStepSweep(t *testing.T) {
	cfg := dynamo.DefaultConfig()
	counts := []int{1, 4, 16}

	points, err := SubStepSweep(context.Background(), testCrowd(30), integrators.NewVerlet(), cfg, counts, 30, 1.0/60)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if len(points) != len(counts) {
		t.Fatalf("expected %d points, got %d", len(counts), len(points))
	}
	for i, p := range points {
		if p.SubSteps != counts[i] {
			t.Errorf("expected sub-steps %d, got %d", counts[i], p.SubSteps)
		}
		if math.IsNaN(p.MaxOverlap) || math.IsNaN(p.Energy) {
			t.Errorf("point %d not finite: %+v", i, p)
		}
	}
}

func TestSubStepSweepCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := SubStepSweep(ctx, testCrowd(5), integrators.NewVerlet(), dynamo.DefaultConfig(), []int{1, 2}, 10, 1.0/60)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
