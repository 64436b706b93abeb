package gui

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/verlet/internal/config"
	"github.com/san-kum/verlet/internal/dynamo"
	"github.com/san-kum/verlet/internal/experiment"
	"github.com/san-kum/verlet/internal/metrics"
	"github.com/san-kum/verlet/internal/sim"
)

var (
	ColBg      = rl.NewColor(0, 0, 0, 255)
	ColArena   = rl.NewColor(18, 18, 18, 255)
	ColRim     = rl.NewColor(180, 180, 180, 255)
	ColText    = rl.NewColor(255, 255, 255, 255)
	ColTextDim = rl.NewColor(90, 90, 90, 255)
	ColWarn    = rl.NewColor(230, 80, 80, 255)
)

const (
	arenaSides  = 96
	perfWindow  = 120
	perfLogEach = 5.0
)

// App is the window driver. It owns the simulator and feeds it the
// measured frame time, mouse spawns and held-key controls.
type App struct {
	cfg     *config.Config
	integ   dynamo.Integrator
	sim     *sim.Simulator
	emitter *sim.Emitter
	pool    *sim.BodyPool
	perf    *metrics.Perf
	logger  *slog.Logger

	screenW, screenH int32
	lastLog          float64
	err              error
}

func initWindow(w config.WindowConfig) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(w.Width), int32(w.Height), "verlet")
	rl.SetTargetFPS(int32(w.FPS))
}

func NewApp(cfg *config.Config, integ dynamo.Integrator, logger *slog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	emit, _ := cfg.EmitColor()
	a := &App{
		cfg:     cfg,
		integ:   integ,
		emitter: sim.NewEmitter(cfg.Spawn.Interval, emit, cfg.Spawn.MaxParticles),
		pool:    sim.NewBodyPool(cfg.InitialCount),
		perf:    metrics.NewPerf(perfWindow),
		logger:  logger,
	}
	if err := a.reset(); err != nil {
		return nil, err
	}
	return a, nil
}

// Run opens the window and blocks until it is closed.
func Run(cfg *config.Config, integ dynamo.Integrator, logger *slog.Logger) error {
	initWindow(cfg.Window)
	defer rl.CloseWindow()

	app, err := NewApp(cfg, integ, logger)
	if err != nil {
		return err
	}
	app.RunLoop()
	return app.err
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		a.Update()
		a.Draw()
	}
	a.logger.Info("window closed",
		"frames", a.sim.Frames(),
		"particles", a.sim.World().Len(),
		"sim_time", a.sim.Time())
}

func (a *App) reset() error {
	w, err := experiment.Populate(a.cfg, rand.New(rand.NewSource(a.cfg.Seed)))
	if err != nil {
		return err
	}
	a.sim = sim.New(w, a.integ, a.cfg.SimConfig())
	a.err = nil
	a.screenW, a.screenH = 0, 0
	a.logger.Debug("arena filled", "particles", w.Len(), "seed", a.cfg.Seed)
	return nil
}

// followWindow recentres the arena when the window is resized.
func (a *App) followWindow() {
	w, h := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
	if w == a.screenW && h == a.screenH {
		return
	}
	a.screenW, a.screenH = w, h
	center := dynamo.Vec{X: float64(w) / 2, Y: float64(h) / 2}
	a.sim.SetArena(center, a.cfg.Physics.ArenaRadius)
	a.logger.Debug("arena moved", "width", w, "height", h, "center_x", center.X, "center_y", center.Y)
}

func (a *App) Update() {
	a.followWindow()

	if rl.IsKeyPressed(rl.KeyR) {
		if err := a.reset(); err != nil {
			a.logger.Error("reset failed", "err", err)
		}
		return
	}

	if rl.IsKeyPressed(rl.KeyP) {
		a.sim.TogglePause()
	}
	ctrl := a.sim.Controls()
	ctrl.Freeze = rl.IsKeyDown(rl.KeySpace)
	ctrl.InvertGravity = rl.IsKeyDown(rl.KeyUp)
	a.sim.SetControls(ctrl)

	now := rl.GetTime()
	if rl.IsMouseButtonDown(rl.MouseLeftButton) {
		m := rl.GetMousePosition()
		a.emitter.Emit(a.sim.World(), dynamo.Vec{X: float64(m.X), Y: float64(m.Y)}, now)
	}

	if a.err != nil {
		return
	}
	start := time.Now()
	before := a.sim.StepsTaken()
	if err := a.sim.Frame(float64(rl.GetFrameTime())); err != nil {
		a.err = err
		a.logger.Error("simulation halted", "err", err)
		return
	}
	if steps := a.sim.StepsTaken() - before; steps > 0 {
		a.perf.Record(time.Since(start), steps)
	}

	if now-a.lastLog >= perfLogEach && a.perf.Count() > 0 {
		stats := a.perf.Stats()
		stats.Particles = a.sim.World().Len()
		a.logger.Debug("perf", "stats", stats)
		a.lastLog = now
	}
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	a.drawArena()
	a.drawParticles()
	a.DrawHUD()

	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	w := float32(a.screenW)
	x := int32(w * 0.9)
	rl.DrawText(fmt.Sprintf("%d", rl.GetFPS()), x, 20, 30, ColText)
	rl.DrawText(fmt.Sprintf("%.0f ms", rl.GetFrameTime()*1000), x, 50, 30, ColText)
	rl.DrawText(fmt.Sprintf("%d", a.sim.World().Len()), x, 80, 30, ColText)

	ctrl := a.sim.Controls()
	status, col := "", ColTextDim
	switch {
	case a.err != nil:
		status, col = "HALTED  [R] RESET", ColWarn
	case ctrl.Paused:
		status = "PAUSED"
	case ctrl.Freeze:
		status = "FROZEN"
	case ctrl.InvertGravity:
		status = "INVERTED"
	}
	if status != "" {
		rl.DrawText(status, 20, 20, 20, col)
	}
	rl.DrawText("[P] PAUSE  [SPACE] FREEZE  [UP] INVERT  [R] RESET  CLICK SPAWN", 20, a.screenH-30, 14, ColTextDim)
}
