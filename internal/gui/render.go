package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/verlet/internal/dynamo"
)

func toRL(c dynamo.Color) rl.Color {
	r, g, b := c.RGB()
	return rl.NewColor(r, g, b, 255)
}

func vec2(v dynamo.Vec) rl.Vector2 {
	return rl.NewVector2(float32(v.X), float32(v.Y))
}

func (a *App) drawArena() {
	cfg := a.sim.Config()
	c := vec2(cfg.ArenaCenter)
	r := float32(cfg.ArenaRadius)
	rl.DrawPoly(c, arenaSides, r, 0, ColArena)
	rl.DrawPolyLines(c, arenaSides, r, 0, ColRim)
}

func (a *App) drawParticles() {
	cfg := a.sim.Config()
	bodies := a.pool.Snapshot(a.sim.World(), cfg.ParticleRadius)
	defer a.pool.Put(bodies)

	for _, b := range *bodies {
		rl.DrawCircleV(vec2(b.Position), float32(b.Radius), toRL(b.Color))
	}
}
