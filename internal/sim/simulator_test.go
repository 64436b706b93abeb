package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/verlet/internal/dynamo"
	"github.com/san-kum/verlet/internal/integrators"
)

type countMetric struct {
	frames int
	resets int
}

func (m *countMetric) Name() string         { return "count" }
func (m *countMetric) Observe(dynamo.Frame) { m.frames++ }
func (m *countMetric) Value() float64       { return float64(m.frames) }

func (m *countMetric) Reset() {
	m.frames = 0
	m.resets++
}

type recordingObserver struct {
	frames []dynamo.Frame
}

func (o *recordingObserver) OnFrame(f dynamo.Frame) { o.frames = append(o.frames, f) }

type nanIntegrator struct{}

func (nanIntegrator) Step(p *dynamo.Particle, gravity dynamo.Vec, dt float64) {
	p.Position.X = math.NaN()
}

func newTestSimulator(n int) *Simulator {
	cfg := dynamo.DefaultConfig()
	w := NewWorld()
	for i := 0; i < n; i++ {
		w.Spawn(dynamo.Vec{X: 300 + float64(i)*10, Y: 400}, 0)
	}
	return New(w, integrators.NewVerlet(), cfg)
}

func TestSimulatorRun(t *testing.T) {
	s := newTestSimulator(10)
	metric := &countMetric{}
	obs := &recordingObserver{}
	s.AddMetric(metric)
	s.AddObserver(obs)

	result, err := s.Run(context.Background(), 30, 1.0/60)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.FramesRun != 30 {
		t.Errorf("expected 30 frames, got %d", result.FramesRun)
	}
	if result.StepsTaken != 30*s.Config().SubSteps {
		t.Errorf("expected %d steps, got %d", 30*s.Config().SubSteps, result.StepsTaken)
	}
	if len(result.Final) != 10 {
		t.Errorf("expected 10 final particles, got %d", len(result.Final))
	}
	if result.Metrics["count"] != 30 {
		t.Errorf("expected metric 30, got %v", result.Metrics["count"])
	}
	if metric.resets != 1 {
		t.Errorf("expected metrics reset once, got %d", metric.resets)
	}
	if math.Abs(s.Time()-0.5) > 1e-9 {
		t.Errorf("expected time 0.5, got %v", s.Time())
	}

	if len(obs.frames) != 30 {
		t.Fatalf("expected 30 observed frames, got %d", len(obs.frames))
	}
	for i, f := range obs.frames {
		if f.Index != i+1 {
			t.Errorf("expected frame index %d, got %d", i+1, f.Index)
		}
		if math.Abs(f.SubDt*float64(f.SubSteps)-f.Dt) > 1e-12 {
			t.Errorf("frame %d: sub dt %v does not divide dt %v", i, f.SubDt, f.Dt)
		}
		if len(f.Particles) != 10 {
			t.Errorf("frame %d: expected 10 particles, got %d", i, len(f.Particles))
		}
	}
}

func TestSimulatorPaused(t *testing.T) {
	s := newTestSimulator(3)
	obs := &recordingObserver{}
	s.AddObserver(obs)
	s.TogglePause()
	before := s.World().Particles()

	result, err := s.Run(context.Background(), 10, 1.0/60)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.FramesRun != 0 || s.Time() != 0 || len(obs.frames) != 0 {
		t.Errorf("expected paused run to do nothing, frames=%d time=%v observed=%d", result.FramesRun, s.Time(), len(obs.frames))
	}
	for i, p := range s.World().Particles() {
		if p != before[i] {
			t.Errorf("particle %d moved while paused", i)
		}
	}

	s.TogglePause()
	if s.Controls().Paused {
		t.Error("expected toggle to resume")
	}
}

func TestSimulatorFrameClamp(t *testing.T) {
	s := newTestSimulator(1)
	if err := s.Frame(5); err != nil {
		t.Fatalf("frame failed: %v", err)
	}
	if s.Time() != s.Config().MaxFrameDt {
		t.Errorf("expected clamped time %v, got %v", s.Config().MaxFrameDt, s.Time())
	}
}

func TestSimulatorCancelled(t *testing.T) {
	s := newTestSimulator(5)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := s.Run(ctx, 100, 1.0/60)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result == nil || result.FramesRun != 0 {
		t.Errorf("expected partial result with 0 frames, got %+v", result)
	}
}

func TestSimulatorNonFinite(t *testing.T) {
	w := NewWorld()
	w.Spawn(dynamo.Vec{X: 400, Y: 400}, 0)
	s := New(w, nanIntegrator{}, dynamo.DefaultConfig())

	result, err := s.Run(context.Background(), 10, 1.0/60)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %d", len(result.Errors))
	}
	if !errors.Is(result.Errors[0], dynamo.ErrNonFinite) {
		t.Errorf("expected ErrNonFinite, got %v", result.Errors[0])
	}
	var simErr *dynamo.SimulationError
	if !errors.As(result.Errors[0], &simErr) || simErr.Particle != 0 || simErr.Frame != 1 {
		t.Errorf("unexpected simulation error %v", result.Errors[0])
	}
	if result.FramesRun != 1 {
		t.Errorf("expected run to stop after 1 frame, got %d", result.FramesRun)
	}
}

func TestSimulatorValidation(t *testing.T) {
	tests := []struct {
		name    string
		frames  int
		frameDt float64
		mutate  func(*dynamo.Config)
		invalid bool
	}{
		{"negative frames", -1, 1.0 / 60, nil, false},
		{"zero dt", 10, 0, nil, false},
		{"bad radius", 10, 1.0 / 60, func(c *dynamo.Config) { c.ParticleRadius = 0 }, true},
		{"arena too small", 10, 1.0 / 60, func(c *dynamo.Config) { c.ArenaRadius = 2 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := dynamo.DefaultConfig()
			if tt.mutate != nil {
				tt.mutate(&cfg)
			}
			s := New(NewWorld(), integrators.NewVerlet(), cfg)
			_, err := s.Run(context.Background(), tt.frames, tt.frameDt)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.invalid && !errors.Is(err, dynamo.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestSimulatorSetArena(t *testing.T) {
	s := newTestSimulator(1)
	s.SetArena(dynamo.Vec{X: 640, Y: 360}, 300)
	cfg := s.Config()
	if cfg.ArenaCenter.X != 640 || cfg.ArenaRadius != 300 {
		t.Errorf("arena not updated: %+v", cfg)
	}
}
