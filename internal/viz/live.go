package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"math/rand"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/verlet/internal/config"
	"github.com/san-kum/verlet/internal/dynamo"
	"github.com/san-kum/verlet/internal/experiment"
	"github.com/san-kum/verlet/internal/metrics"
	"github.com/san-kum/verlet/internal/physics"
	"github.com/san-kum/verlet/internal/sim"
)

const (
	width           = 60
	height          = 30
	historyCapacity = 600
	gifPath         = "verlet.gif"
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model is the terminal driver: it owns the simulator, turns keys and
// mouse clicks into controls and spawns, and renders the arena.
type Model struct {
	cfg        *config.Config
	integrator dynamo.Integrator
	sim        *sim.Simulator
	emitter    *sim.Emitter
	canvas     *Canvas
	view       Viewport
	bodies     []dynamo.Body

	clock     float64
	lastTick  time.Time
	frameMs   float64
	err       error
	overlap   float64
	energy    []float64
	counts    []float64
	showHelp  bool
	recording bool
	frames    []*image.Paletted
}

func NewModel(cfg *config.Config, integ dynamo.Integrator) (Model, error) {
	if err := cfg.Validate(); err != nil {
		return Model{}, err
	}
	emit, _ := cfg.EmitColor()

	m := Model{
		cfg:        cfg,
		integrator: integ,
		emitter:    sim.NewEmitter(cfg.Spawn.Interval, emit, cfg.Spawn.MaxParticles),
		canvas:     NewCanvas(width, height),
		energy:     make([]float64, 0, historyCapacity),
		counts:     make([]float64, 0, historyCapacity),
	}
	if err := m.reset(); err != nil {
		return Model{}, err
	}
	return m, nil
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		ctrl := m.sim.Controls()
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "p":
			ctrl.Paused = !ctrl.Paused
		case " ":
			ctrl.Freeze = !ctrl.Freeze
		case "up":
			ctrl.InvertGravity = !ctrl.InvertGravity
		case "e":
			top := m.cfg.SimConfig()
			top.ArenaCenter.Y -= top.ArenaRadius / 2
			m.emitter.Emit(m.sim.World(), top.ArenaCenter, m.clock)
		case "r":
			if err := m.reset(); err != nil {
				m.err = err
			}
			return m, nil
		case "t":
			NextTheme()
		case "g":
			if m.recording {
				if err := m.saveGIF(gifPath); err != nil {
					m.err = err
				}
				m.recording = false
				m.frames = nil
			} else {
				m.recording = true
				m.frames = make([]*image.Paletted, 0)
			}
		case "?":
			m.showHelp = !m.showHelp
		}
		m.sim.SetControls(ctrl)

	case tea.MouseMsg:
		if msg.Button == tea.MouseButtonLeft && (msg.Action == tea.MouseActionPress || msg.Action == tea.MouseActionMotion) {
			m.spawnAtCell(msg.X, msg.Y)
		}

	case TickMsg:
		now := time.Time(msg)
		if !m.lastTick.IsZero() {
			m.frameMs = float64(now.Sub(m.lastTick).Microseconds()) / 1000
		}
		m.lastTick = now
		m.step()
		m.draw()
		if m.recording {
			m.captureFrame()
		}
		return m, tick()
	}
	return m, nil
}

// spawnAtCell maps a terminal cell to the world, accounting for the
// canvas padding, and asks the emitter for a particle there.
func (m *Model) spawnAtCell(x, y int) {
	col := x - canvasStyle.GetPaddingLeft()
	row := y - canvasStyle.GetPaddingTop()
	if col < 0 || row < 0 || col >= m.canvas.Width || row >= m.canvas.Height {
		return
	}
	m.emitter.Emit(m.sim.World(), m.view.Cell(col, row), m.clock)
}

// step advances one fixed display frame. The emitter clock keeps running
// while the simulation is paused.
func (m *Model) step() {
	m.clock += m.cfg.FrameDt
	if m.err != nil {
		return
	}
	if err := m.sim.Frame(m.cfg.FrameDt); err != nil {
		m.err = err
		ctrl := m.sim.Controls()
		ctrl.Paused = true
		m.sim.SetControls(ctrl)
		return
	}
	if m.sim.Controls().Paused {
		return
	}

	ps := m.sim.World().Particles()
	cfg := m.sim.Config()
	m.overlap = physics.MaxOverlap(ps, cfg.ParticleRadius)
	m.energy = appendCapped(m.energy, metrics.KineticEnergy(ps, m.cfg.FrameDt/float64(max(cfg.SubSteps, 1))))
	m.counts = appendCapped(m.counts, float64(len(ps)))
}

func appendCapped(h []float64, v float64) []float64 {
	h = append(h, v)
	if len(h) > historyCapacity {
		h = h[1:]
	}
	return h
}

// reset refills the arena from the config's seed.
func (m *Model) reset() error {
	w, err := experiment.Populate(m.cfg, rand.New(rand.NewSource(m.cfg.Seed)))
	if err != nil {
		return err
	}
	ctrl := dynamo.Controls{}
	if m.sim != nil {
		ctrl = m.sim.Controls()
	}
	m.sim = sim.New(w, m.integrator, m.cfg.SimConfig())
	m.sim.SetControls(ctrl)
	m.view = NewViewport(m.canvas, m.cfg.SimConfig().ArenaCenter, m.cfg.SimConfig().ArenaRadius)
	m.energy = m.energy[:0]
	m.counts = m.counts[:0]
	m.overlap = 0
	m.err = nil
	m.draw()
	return nil
}

func (m *Model) draw() {
	m.canvas.Clear()
	cfg := m.sim.Config()

	cx, cy := m.view.Project(cfg.ArenaCenter)
	m.canvas.DrawCircle(cx, cy, m.view.Length(cfg.ArenaRadius))

	m.bodies = m.sim.World().Bodies(m.bodies, cfg.ParticleRadius)
	r := m.view.Length(cfg.ParticleRadius)
	for _, b := range m.bodies {
		x, y := m.view.Project(b.Position)
		if r >= 1 {
			m.canvas.FillDisc(x, y, r)
		} else {
			m.canvas.Set(x, y)
		}
	}
}

func (m Model) status() string {
	ctrl := m.sim.Controls()
	switch {
	case m.err != nil:
		return StatusRecording.Render("HALTED")
	case ctrl.Paused:
		return StatusPaused.Render("PAUSED")
	case m.recording:
		return StatusRecording.Render("● REC")
	}
	s := StatusRunning.Render("RUNNING")
	if ctrl.Freeze {
		s += " " + StatusPaused.Render("FROZEN")
	}
	if ctrl.InvertGravity {
		s += " " + StatusPaused.Render("INVERTED")
	}
	return s
}

func (m Model) View() string {
	theme := CurrentTheme
	canvasView := canvasStyle.Foreground(theme.Arena).Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(GradientText(strings.ToUpper("verlet · "+m.cfg.Name), theme.Primary, theme.Secondary) + "\n\n")
	s.WriteString(m.status() + "\n\n")

	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Kinetic energy"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	cfg := m.sim.Config()
	n := m.sim.World().Len()
	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Particles", fmt.Sprintf("%d", n))
	row("Sub-steps", fmt.Sprintf("%d", cfg.SubSteps))
	row("Time", fmt.Sprintf("%.2fs", m.sim.Time()))
	row("Frame", fmt.Sprintf("%.1f ms", m.frameMs))
	row("Overlap", fmt.Sprintf("%.3f", m.overlap))
	if len(m.energy) > 0 {
		row("Energy", fmt.Sprintf("%.1f", m.energy[len(m.energy)-1]))
	}
	if m.cfg.Spawn.MaxParticles > 0 {
		s.WriteString(labelStyle.Render("Capacity") + ProgressBar(float64(n)/float64(m.cfg.Spawn.MaxParticles), 20) + "\n")
	}
	s.WriteString(labelStyle.Render("Count") + lipgloss.NewStyle().Foreground(theme.Secondary).Render(SparklineChart(m.counts, 20)) + "\n")
	if m.err != nil {
		s.WriteString("\n" + lipgloss.NewStyle().Foreground(theme.Warning).Render(m.err.Error()) + "\n")
	}

	s.WriteString(helpStyle.Foreground(theme.Muted).Render("\n─────────────────────\nP:Pause SP:Freeze ↑:Invert\nClick/E:Spawn R:Reset Q:Quit\nT:Theme G:Record ?:Help"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))

	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  P        - Pause/Resume             ║
║  Space    - Freeze (drop velocities) ║
║  Up       - Invert gravity           ║
║  Click    - Spawn at cursor          ║
║  E        - Spawn at top of arena    ║
║  R        - Refill from seed         ║
║  G        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

func (m *Model) captureFrame() {
	charW, charH := 8, 16
	dotW, dotH := charW/2, charH/4
	img := image.NewPaletted(image.Rect(0, 0, m.canvas.Width*charW, m.canvas.Height*charH), color.Palette{color.Black, color.White})

	for y := 0; y < m.canvas.SubHeight(); y++ {
		for x := 0; x < m.canvas.SubWidth(); x++ {
			if !m.canvas.IsSet(x, y) {
				continue
			}
			for py := 0; py < dotH; py++ {
				for px := 0; px < dotW; px++ {
					img.SetColorIndex(x*dotW+px, y*dotH+py, 1)
				}
			}
		}
	}
	m.frames = append(m.frames, img)
}

func (m *Model) saveGIF(path string) error {
	if len(m.frames) == 0 {
		return nil
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range m.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 2)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gif.EncodeAll(f, &anim)
}

// Run starts the full-screen live view with mouse support.
func Run(cfg *config.Config, integ dynamo.Integrator) error {
	m, err := NewModel(cfg, integ)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
