package config

import "sort"

var Presets = map[string]func(c *Config){
	"default": func(c *Config) {},
	// the classic demo: a full box of particles at a high sub-step count
	"classic": func(c *Config) {
		c.InitialCount = 500
		c.Physics.SubSteps = 128
	},
	"crowd": func(c *Config) {
		c.InitialCount = 1000
		c.Physics.SubSteps = 16
		c.Physics.ParticleRadius = 3
	},
	"zero-g": func(c *Config) {
		c.InitialCount = 300
		c.Physics.GravityY = 0
		c.Palette = "rainbow"
	},
	"drizzle": func(c *Config) {
		c.Spawn.Interval = 0.02
		c.Spawn.MaxParticles = 800
	},
	"coarse": func(c *Config) {
		c.InitialCount = 200
		c.Physics.SubSteps = 1
	},
}

// GetPreset returns a fresh config with the named preset applied, or nil.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Name = name
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
