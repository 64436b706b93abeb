package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/verlet/internal/dynamo"
	"github.com/san-kum/verlet/internal/palette"
)

// ArenaToSVG draws the arena outline and every body at world coordinates.
// The view box is the arena's bounding square plus a small margin.
func ArenaToSVG(bodies []dynamo.Body, cfg dynamo.Config, size int) string {
	margin := cfg.ArenaRadius * 0.05
	minX := cfg.ArenaCenter.X - cfg.ArenaRadius - margin
	minY := cfg.ArenaCenter.Y - cfg.ArenaRadius - margin
	span := 2 * (cfg.ArenaRadius + margin)

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="%.1f %.1f %.1f %.1f">
<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="#0a0a0a"/>
<circle cx="%.1f" cy="%.1f" r="%.1f" fill="#000000" stroke="#ffffff" stroke-width="1"/>
`, size, size, minX, minY, span, span,
		minX, minY, span, span,
		cfg.ArenaCenter.X, cfg.ArenaCenter.Y, cfg.ArenaRadius))

	for _, b := range bodies {
		sb.WriteString(fmt.Sprintf(`<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s" stroke="%s" stroke-width="%.2f"/>
`, b.Position.X, b.Position.Y, b.Radius, b.Color.Hex(), palette.Shade(b.Color, 0.4).Hex(), b.Radius*0.2))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// SeriesToSVG plots a per-frame series as a polyline, first sample at the
// left edge.
func SeriesToSVG(values []float64, width, height int, strokeColor string) string {
	if len(values) < 2 {
		return ""
	}

	minY, maxY := values[0], values[0]
	for _, v := range values {
		if v < minY {
			minY = v
		}
		if v > maxY {
			maxY = v
		}
	}

	// Add padding
	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	last := float64(len(values) - 1)
	for i, v := range values {
		x := float64(i) / last * float64(width)
		y := float64(height) - (v-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
