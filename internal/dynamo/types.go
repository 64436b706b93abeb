package dynamo

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"
)

// Vec is a 2D vector in world (screen) coordinates, y pointing down.
type Vec = r2.Vec

// Color is a 24-bit 0xRRGGBB display attribute. The physics never reads it.
type Color uint32

func (c Color) RGB() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

func (c Color) Hex() string {
	return fmt.Sprintf("#%06x", uint32(c)&0xffffff)
}

// ParseColor accepts "ff00ff", "#ff00ff" and "0xff00ff".
func ParseColor(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "#"), "0x")
	if len(h) == 0 || len(h) > 6 {
		return 0, fmt.Errorf("dynamo: bad colour %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("dynamo: bad colour %q: %w", s, err)
	}
	return Color(v), nil
}

// Particle is the kinematic record of one circle. Velocity is implicit:
// Position - Previous is the displacement of the last integration.
type Particle struct {
	Position     Vec
	Previous     Vec
	Acceleration Vec
	Color        Color
}

// NewParticle returns a particle at rest at pos.
func NewParticle(pos Vec, c Color) Particle {
	return Particle{Position: pos, Previous: pos, Color: c}
}

func (p Particle) Displacement() Vec { return r2.Sub(p.Position, p.Previous) }

func (p Particle) IsValid() bool {
	return finite(p.Position.X) && finite(p.Position.Y) &&
		finite(p.Previous.X) && finite(p.Previous.Y) &&
		finite(p.Acceleration.X) && finite(p.Acceleration.Y)
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Body is what a renderer needs to draw one particle.
type Body struct {
	Position Vec
	Radius   float64
	Color    Color
}

type Integrator interface {
	Step(p *Particle, gravity Vec, dt float64)
}

// Controls are the driver's live toggles. They are passed into the step,
// never read from input state inside the physics.
type Controls struct {
	Paused        bool
	Freeze        bool
	InvertGravity bool
}

func (c Controls) Gravity(g Vec) Vec {
	if c.InvertGravity {
		g.Y = -g.Y
	}
	return g
}

type Config struct {
	Gravity        Vec
	ArenaCenter    Vec
	ArenaRadius    float64
	ParticleRadius float64
	SubSteps       int
	// MaxFrameDt clamps a single frame's delta before sub-stepping; 0 disables.
	MaxFrameDt    float64
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Gravity:        Vec{X: 0, Y: 2000},
		ArenaCenter:    Vec{X: 400, Y: 400},
		ArenaRadius:    350,
		ParticleRadius: 4,
		SubSteps:       8,
		MaxFrameDt:     0.1,
		ValidateState:  true,
	}
}

func (c Config) Validate() error {
	switch {
	case !(c.ParticleRadius > 0):
		return fmt.Errorf("%w: particle radius must be positive, got %g", ErrInvalidConfig, c.ParticleRadius)
	case !(c.ArenaRadius > c.ParticleRadius):
		return fmt.Errorf("%w: arena radius %g must exceed particle radius %g", ErrInvalidConfig, c.ArenaRadius, c.ParticleRadius)
	case c.SubSteps < 0:
		return fmt.Errorf("%w: sub-steps must not be negative, got %d", ErrInvalidConfig, c.SubSteps)
	case c.MaxFrameDt < 0:
		return fmt.Errorf("%w: max frame dt must not be negative, got %g", ErrInvalidConfig, c.MaxFrameDt)
	case !finite(c.Gravity.X) || !finite(c.Gravity.Y):
		return fmt.Errorf("%w: gravity must be finite", ErrInvalidConfig)
	case !finite(c.ArenaCenter.X) || !finite(c.ArenaCenter.Y):
		return fmt.Errorf("%w: arena center must be finite", ErrInvalidConfig)
	}
	return nil
}

// Frame is handed to metrics and observers after every simulated frame.
// Particles aliases the world's storage and must not be retained or mutated.
type Frame struct {
	Index     int
	Time      float64
	Dt        float64
	SubDt     float64
	SubSteps  int
	Corrected int
	Config    Config
	Particles []Particle
}

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(f Frame)
}

// Sample is one archived diagnostic row per frame.
type Sample struct {
	Frame         int     `csv:"frame" json:"frame"`
	Time          float64 `csv:"time" json:"time"`
	Particles     int     `csv:"particles" json:"particles"`
	KineticEnergy float64 `csv:"kinetic_energy" json:"kinetic_energy"`
	MaxOverlap    float64 `csv:"max_overlap" json:"max_overlap"`
	MaxEscape     float64 `csv:"max_escape" json:"max_escape"`
	Corrected     int     `csv:"corrected" json:"corrected"`
}

type Result struct {
	Samples    []Sample
	Metrics    map[string]float64
	Final      []Particle
	FramesRun  int
	StepsTaken int
	Errors     []error
}
