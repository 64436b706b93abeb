package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/verlet/internal/dynamo"
)

type Simulator struct {
	world      *World
	integrator dynamo.Integrator
	cfg        dynamo.Config
	controls   dynamo.Controls
	metrics    []dynamo.Metric
	observers  []dynamo.Observer

	frames int
	steps  int
	time   float64
}

func New(w *World, integrator dynamo.Integrator, cfg dynamo.Config) *Simulator {
	return &Simulator{
		world:      w,
		integrator: integrator,
		cfg:        cfg,
		metrics:    make([]dynamo.Metric, 0),
		observers:  make([]dynamo.Observer, 0),
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) World() *World                 { return s.world }
func (s *Simulator) Config() dynamo.Config         { return s.cfg }
func (s *Simulator) Controls() dynamo.Controls     { return s.controls }
func (s *Simulator) SetControls(c dynamo.Controls) { s.controls = c }
func (s *Simulator) Time() float64                 { return s.time }
func (s *Simulator) Frames() int                   { return s.frames }
func (s *Simulator) StepsTaken() int               { return s.steps }

// SetArena moves the arena, e.g. when the display is resized.
func (s *Simulator) SetArena(center dynamo.Vec, radius float64) {
	s.cfg.ArenaCenter = center
	s.cfg.ArenaRadius = radius
}

func (s *Simulator) TogglePause() { s.controls.Paused = !s.controls.Paused }

// Frame simulates one displayed frame of frameDt seconds. A paused or empty
// frame changes nothing and notifies nobody.
func (s *Simulator) Frame(frameDt float64) error {
	dt := FrameDelta(s.cfg, frameDt)
	steps, corrected := Advance(s.world, s.integrator, s.cfg, s.controls, dt)
	if steps == 0 {
		return nil
	}

	s.frames++
	s.steps += steps
	s.time += dt

	if s.cfg.ValidateState {
		for i := range s.world.particles {
			if !s.world.particles[i].IsValid() {
				return &dynamo.SimulationError{Frame: s.frames, Time: s.time, Particle: i, Wrapped: dynamo.ErrNonFinite}
			}
		}
	}

	f := dynamo.Frame{
		Index:     s.frames,
		Time:      s.time,
		Dt:        dt,
		SubDt:     dt / float64(steps),
		SubSteps:  steps,
		Corrected: corrected,
		Config:    s.cfg,
		Particles: s.world.particles,
	}
	for _, m := range s.metrics {
		m.Observe(f)
	}
	for _, obs := range s.observers {
		obs.OnFrame(f)
	}
	return nil
}

// Run drives frames of frameDt headlessly until frames have been simulated,
// the context is cancelled, or the state goes non-finite.
func (s *Simulator) Run(ctx context.Context, frames int, frameDt float64) (*dynamo.Result, error) {
	if err := s.validate(frames, frameDt); err != nil {
		return nil, err
	}

	result := &dynamo.Result{
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}
	for _, m := range s.metrics {
		m.Reset()
	}

	startFrames, startSteps := s.frames, s.steps
	for i := 0; i < frames; i++ {
		select {
		case <-ctx.Done():
			s.finish(result, startFrames, startSteps)
			return result, ctx.Err()
		default:
		}

		if err := s.Frame(frameDt); err != nil {
			result.Errors = append(result.Errors, err)
			break
		}
	}

	s.finish(result, startFrames, startSteps)
	return result, nil
}

func (s *Simulator) finish(result *dynamo.Result, startFrames, startSteps int) {
	result.FramesRun = s.frames - startFrames
	result.StepsTaken = s.steps - startSteps
	result.Final = s.world.Particles()
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func (s *Simulator) validate(frames int, frameDt float64) error {
	if frames < 0 {
		return fmt.Errorf("frames must not be negative, got %d", frames)
	}
	if !(frameDt > 0) {
		return fmt.Errorf("frame dt must be positive, got %f", frameDt)
	}
	return s.cfg.Validate()
}
