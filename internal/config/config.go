package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/verlet/internal/dynamo"
)

const (
	DefaultFrameDt      = 1.0 / 60
	DefaultFrames       = 600
	DefaultInitialCount = 0
	DefaultSubSteps     = 8
	DefaultGravity      = 2000.0
	DefaultArenaRadius  = 350.0
	DefaultRadius       = 4.0
	DefaultMaxFrameDt   = 0.1
	DefaultInterval     = 0.1
	DefaultMaxParticles = 2000
	DefaultEmitColor    = "ff00ff"
	DefaultWidth        = 800
	DefaultHeight       = 800
	DefaultFPS          = 60
)

type Config struct {
	Name         string        `yaml:"name"`
	Seed         int64         `yaml:"seed"`
	Frames       int           `yaml:"frames"`
	FrameDt      float64       `yaml:"frame_dt"`
	InitialCount int           `yaml:"initial_count"`
	Palette      string        `yaml:"palette"`
	Physics      PhysicsConfig `yaml:"physics"`
	Spawn        SpawnConfig   `yaml:"spawn"`
	Window       WindowConfig  `yaml:"window"`
}

type PhysicsConfig struct {
	GravityX       float64 `yaml:"gravity_x"`
	GravityY       float64 `yaml:"gravity_y"`
	CenterX        float64 `yaml:"center_x"`
	CenterY        float64 `yaml:"center_y"`
	ArenaRadius    float64 `yaml:"arena_radius"`
	ParticleRadius float64 `yaml:"particle_radius"`
	SubSteps       int     `yaml:"sub_steps"`
	MaxFrameDt     float64 `yaml:"max_frame_dt"`
	ValidateState  bool    `yaml:"validate_state"`
}

// SpawnConfig is the initial fill box and the click emitter.
type SpawnConfig struct {
	MinX         float64 `yaml:"min_x"`
	MinY         float64 `yaml:"min_y"`
	MaxX         float64 `yaml:"max_x"`
	MaxY         float64 `yaml:"max_y"`
	Interval     float64 `yaml:"interval"`
	Color        string  `yaml:"color"`
	MaxParticles int     `yaml:"max_particles"`
}

type WindowConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	FPS    int `yaml:"fps"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:         "default",
		Frames:       DefaultFrames,
		FrameDt:      DefaultFrameDt,
		InitialCount: DefaultInitialCount,
		Palette:      "random",
		Physics: PhysicsConfig{
			GravityY:       DefaultGravity,
			CenterX:        DefaultWidth / 2,
			CenterY:        DefaultHeight / 2,
			ArenaRadius:    DefaultArenaRadius,
			ParticleRadius: DefaultRadius,
			SubSteps:       DefaultSubSteps,
			MaxFrameDt:     DefaultMaxFrameDt,
			ValidateState:  true,
		},
		Spawn: SpawnConfig{
			MinX:         200,
			MinY:         200,
			MaxX:         600,
			MaxY:         600,
			Interval:     DefaultInterval,
			Color:        DefaultEmitColor,
			MaxParticles: DefaultMaxParticles,
		},
		Window: WindowConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
			FPS:    DefaultFPS,
		},
	}
}

func Load(path string) (*Config, error) {
	return LoadOnto(path, DefaultConfig())
}

// LoadOnto decodes the file over base, so keys the file omits keep base's
// values.
func LoadOnto(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, base); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return base, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// SimConfig converts the file layout into the simulation config.
func (c *Config) SimConfig() dynamo.Config {
	return dynamo.Config{
		Gravity:        dynamo.Vec{X: c.Physics.GravityX, Y: c.Physics.GravityY},
		ArenaCenter:    dynamo.Vec{X: c.Physics.CenterX, Y: c.Physics.CenterY},
		ArenaRadius:    c.Physics.ArenaRadius,
		ParticleRadius: c.Physics.ParticleRadius,
		SubSteps:       c.Physics.SubSteps,
		MaxFrameDt:     c.Physics.MaxFrameDt,
		ValidateState:  c.Physics.ValidateState,
	}
}

func (c *Config) EmitColor() (dynamo.Color, error) {
	return dynamo.ParseColor(c.Spawn.Color)
}

func (c *Config) Validate() error {
	if err := c.SimConfig().Validate(); err != nil {
		return err
	}
	switch {
	case c.Frames < 0:
		return fmt.Errorf("%w: frames must not be negative, got %d", dynamo.ErrInvalidConfig, c.Frames)
	case !(c.FrameDt > 0):
		return fmt.Errorf("%w: frame dt must be positive, got %g", dynamo.ErrInvalidConfig, c.FrameDt)
	case c.InitialCount < 0:
		return fmt.Errorf("%w: initial count must not be negative, got %d", dynamo.ErrInvalidConfig, c.InitialCount)
	case c.Spawn.MaxX < c.Spawn.MinX || c.Spawn.MaxY < c.Spawn.MinY:
		return fmt.Errorf("%w: spawn box is inverted", dynamo.ErrInvalidConfig)
	case c.Spawn.Interval < 0:
		return fmt.Errorf("%w: spawn interval must not be negative", dynamo.ErrInvalidConfig)
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window must have positive size", dynamo.ErrInvalidConfig)
	}
	switch c.Palette {
	case "random", "rainbow", "mono":
	default:
		return fmt.Errorf("%w: unknown palette %q", dynamo.ErrInvalidConfig, c.Palette)
	}
	if _, err := c.EmitColor(); err != nil {
		return fmt.Errorf("%w: %v", dynamo.ErrInvalidConfig, err)
	}
	return nil
}
