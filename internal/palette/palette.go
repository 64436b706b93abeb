// Package palette picks particle colours.
package palette

import (
	"fmt"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/verlet/internal/dynamo"
)

func FromColorful(c colorful.Color) dynamo.Color {
	r, g, b := c.Clamped().RGB255()
	return dynamo.Color(uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

func ToColorful(c dynamo.Color) colorful.Color {
	r, g, b := c.RGB()
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// Random is a uniformly random 24-bit colour.
func Random(rng *rand.Rand) dynamo.Color {
	return dynamo.Color(rng.Uint32() & 0xffffff)
}

// Rainbow spreads n colours evenly around the hue circle.
func Rainbow(i, n int) dynamo.Color {
	if n <= 0 {
		n = 1
	}
	h := 360 * float64(i%n) / float64(n)
	return FromColorful(colorful.Hsv(h, 0.85, 0.95))
}

// Func returns the per-index colour picker for a named palette.
func Func(name string, n int, rng *rand.Rand, mono dynamo.Color) (func(i int) dynamo.Color, error) {
	switch name {
	case "random":
		return func(int) dynamo.Color { return Random(rng) }, nil
	case "rainbow":
		return func(i int) dynamo.Color { return Rainbow(i, n) }, nil
	case "mono":
		return func(int) dynamo.Color { return mono }, nil
	}
	return nil, fmt.Errorf("unknown palette %q", name)
}

// Shade blends c toward black by t in [0, 1], in Lab space.
func Shade(c dynamo.Color, t float64) dynamo.Color {
	return FromColorful(ToColorful(c).BlendLab(colorful.Color{}, t))
}
