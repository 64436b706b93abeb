package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/san-kum/verlet/internal/config"
	"github.com/san-kum/verlet/internal/dynamo"
	"github.com/san-kum/verlet/internal/metrics"
	"github.com/san-kum/verlet/internal/palette"
	"github.com/san-kum/verlet/internal/sim"
)

// Experiment is one seeded headless run of a config.
type Experiment struct {
	cfg        *config.Config
	simulator  *sim.Simulator
	recorder   *Recorder
	randSource *rand.Rand
	logger     *slog.Logger
}

func New(cfg *config.Config, logger *slog.Logger) *Experiment {
	if logger == nil {
		logger = slog.Default()
	}
	return &Experiment{
		cfg:        cfg,
		randSource: rand.New(rand.NewSource(cfg.Seed)),
		logger:     logger.With("run", cfg.Name, "seed", cfg.Seed),
	}
}

// Setup validates the config, fills the initial population and attaches
// the metrics and the per-frame recorder.
func (e *Experiment) Setup(integrator dynamo.Integrator, ms []dynamo.Metric) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}

	w, err := Populate(e.cfg, e.randSource)
	if err != nil {
		return err
	}

	e.simulator = sim.New(w, integrator, e.cfg.SimConfig())
	for _, m := range ms {
		e.simulator.AddMetric(m)
	}
	e.recorder = NewRecorder(1)
	e.simulator.AddObserver(e.recorder)
	return nil
}

// Run simulates cfg.Frames frames of cfg.FrameDt. A cancelled context
// still returns what was recorded so far.
func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	e.logger.Info("run started",
		"particles", e.simulator.World().Len(),
		"frames", e.cfg.Frames,
		"sub_steps", e.cfg.Physics.SubSteps)

	result, err := e.simulator.Run(ctx, e.cfg.Frames, e.cfg.FrameDt)
	if result != nil {
		result.Samples = e.recorder.Samples()
	}
	if err != nil {
		e.logger.Warn("run interrupted", "err", err)
		return result, err
	}

	for _, simErr := range result.Errors {
		e.logger.Error("simulation error", "err", simErr)
	}
	e.logger.Info("run finished",
		"frames", result.FramesRun,
		"steps", result.StepsTaken,
		"sim_time", e.simulator.Time())
	for name, v := range result.Metrics {
		e.logger.Debug("metric", "name", name, "value", v)
	}
	return result, nil
}

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}

// Populate builds the initial crowd: cfg.InitialCount particles uniform in
// the spawn box, coloured by cfg.Palette.
func Populate(cfg *config.Config, rng *rand.Rand) (*sim.World, error) {
	emit, err := cfg.EmitColor()
	if err != nil {
		return nil, err
	}
	colors, err := palette.Func(cfg.Palette, cfg.InitialCount, rng, emit)
	if err != nil {
		return nil, err
	}

	w := sim.NewWorld()
	w.Fill(cfg.InitialCount, rng, SpawnBox(cfg), colors)
	return w, nil
}

func SpawnBox(cfg *config.Config) sim.Box {
	return sim.Box{
		Min: dynamo.Vec{X: cfg.Spawn.MinX, Y: cfg.Spawn.MinY},
		Max: dynamo.Vec{X: cfg.Spawn.MaxX, Y: cfg.Spawn.MaxY},
	}
}

// Recorder samples every Every-th frame into archive rows.
type Recorder struct {
	Every   int
	samples []dynamo.Sample
}

func NewRecorder(every int) *Recorder {
	if every < 1 {
		every = 1
	}
	return &Recorder{Every: every}
}

func (r *Recorder) OnFrame(f dynamo.Frame) {
	if f.Index%r.Every != 0 {
		return
	}
	r.samples = append(r.samples, metrics.SampleFrame(f))
}

func (r *Recorder) Samples() []dynamo.Sample { return r.samples }

func (r *Recorder) Reset() { r.samples = r.samples[:0] }
