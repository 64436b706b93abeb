package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/verlet/internal/config"
	"github.com/san-kum/verlet/internal/dynamo"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
	red     = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

var presetInfo = map[string]string{
	"default": "empty arena, click to pour",
	"classic": "500 particles at 128 sub-steps",
	"crowd":   "1000 small particles",
	"zero-g":  "rainbow cloud without gravity",
	"drizzle": "fast emitter, large cap",
	"coarse":  "one sub-step, visible overlap",
}

const (
	stateMenu = iota
	stateConfig
	stateSim
)

// param is one editable field of the chosen preset.
type param struct {
	name string
	get  func(*config.Config) float64
	set  func(*config.Config, float64)
}

var params = []param{
	{"particles", func(c *config.Config) float64 { return float64(c.InitialCount) }, func(c *config.Config, v float64) { c.InitialCount = int(v) }},
	{"sub_steps", func(c *config.Config) float64 { return float64(c.Physics.SubSteps) }, func(c *config.Config, v float64) { c.Physics.SubSteps = int(v) }},
	{"gravity", func(c *config.Config) float64 { return c.Physics.GravityY }, func(c *config.Config, v float64) { c.Physics.GravityY = v }},
	{"radius", func(c *config.Config) float64 { return c.Physics.ParticleRadius }, func(c *config.Config, v float64) { c.Physics.ParticleRadius = v }},
	{"seed", func(c *config.Config) float64 { return float64(c.Seed) }, func(c *config.Config, v float64) { c.Seed = int64(v) }},
}

type model struct {
	state, cursor int
	presets       []string
	cfg           *config.Config
	integrator    dynamo.Integrator
	paramCursor   int
	editing       bool
	editBuf       string
	err           error
	liveModel     Model
}

// NewInteractiveApp opens on the preset menu.
func NewInteractiveApp(integ dynamo.Integrator) *model {
	return &model{
		state:      stateMenu,
		presets:    config.ListPresets(),
		integrator: integ,
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == stateSim {
		if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
			m.state = stateConfig
			return m, nil
		}
		newLive, cmd := m.liveModel.Update(msg)
		m.liveModel = newLive.(Model)
		return m, cmd
	}

	if k, ok := msg.(tea.KeyMsg); ok {
		if m.state == stateMenu {
			return m.menuKey(k)
		}
		return m.configKey(k)
	}
	return m, nil
}

func (m model) menuKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.cfg = config.GetPreset(m.presets[m.cursor])
		m.state, m.paramCursor, m.err = stateConfig, 0, nil
	}
	return m, nil
}

func (m model) configKey(msg tea.KeyMsg) (model, tea.Cmd) {
	p := params[m.paramCursor]
	if m.editing {
		switch msg.String() {
		case "enter":
			var val float64
			if _, err := fmt.Sscanf(m.editBuf, "%f", &val); err == nil {
				p.set(m.cfg, val)
			}
			m.editing, m.editBuf = false, ""
		case "esc":
			m.editing, m.editBuf = false, ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if len(msg.String()) == 1 {
				c := msg.String()[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' {
					m.editBuf += string(c)
				}
			}
		}
		return m, nil
	}

	switch msg.String() {
	case "q", "esc":
		m.state = stateMenu
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(params)-1 {
			m.paramCursor++
		}
	case "enter", " ":
		m.editing, m.editBuf = true, fmt.Sprintf("%g", p.get(m.cfg))
	case "s":
		return m.start()
	}
	return m, nil
}

func (m model) start() (model, tea.Cmd) {
	live, err := NewModel(m.cfg, m.integrator)
	if err != nil {
		m.err = err
		return m, nil
	}
	m.liveModel, m.state, m.err = live, stateSim, nil
	return m, live.Init()
}

func (m model) View() string {
	switch m.state {
	case stateSim:
		return m.liveModel.View()
	case stateConfig:
		return m.configView()
	}
	return m.menuView()
}

func (m model) menuView() string {
	var s strings.Builder
	s.WriteString(cyan.Render("VERLET") + dim.Render("  choose a preset") + "\n\n")
	for i, name := range m.presets {
		line := fmt.Sprintf("%-10s %s", name, dim.Render(presetInfo[name]))
		if i == m.cursor {
			s.WriteString(magenta.Render("› ") + white.Render(line) + "\n")
		} else {
			s.WriteString("  " + line + "\n")
		}
	}
	s.WriteString("\n" + dim.Render("↑↓ select · enter configure · q quit"))
	return lipgloss.NewStyle().Padding(1, 2).Render(s.String())
}

func (m model) configView() string {
	var s strings.Builder
	s.WriteString(cyan.Render(strings.ToUpper(m.cfg.Name)) + "\n\n")
	for i, p := range params {
		val := fmt.Sprintf("%g", p.get(m.cfg))
		if i == m.paramCursor && m.editing {
			val = m.editBuf + "█"
		}
		line := fmt.Sprintf("%-10s %s", p.name, val)
		if i == m.paramCursor {
			s.WriteString(magenta.Render("› ") + white.Render(line) + "\n")
		} else {
			s.WriteString("  " + dim.Render(line) + "\n")
		}
	}
	if m.err != nil {
		s.WriteString("\n" + red.Render(m.err.Error()) + "\n")
	}
	s.WriteString("\n" + dim.Render("enter edit · s start · esc back"))
	return lipgloss.NewStyle().Padding(1, 2).Render(s.String())
}
