package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/verlet/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

// RadialProfile bins particle centres by distance from the arena centre
// over the allowed disc of radius R - r. Each bin holds the fraction of
// its annulus area covered by particle discs.
func RadialProfile(ps []dynamo.Particle, cfg dynamo.Config, bins int) []float64 {
	if bins <= 0 {
		return nil
	}
	limit := cfg.ArenaRadius - cfg.ParticleRadius
	if limit <= 0 {
		return make([]float64, bins)
	}

	counts := make([]float64, bins)
	for _, p := range ps {
		d := r2.Norm(r2.Sub(p.Position, cfg.ArenaCenter))
		i := int(d / limit * float64(bins))
		if i >= bins {
			i = bins - 1
		}
		counts[i]++
	}

	disc := math.Pi * cfg.ParticleRadius * cfg.ParticleRadius
	width := limit / float64(bins)
	for i := range counts {
		inner, outer := float64(i)*width, float64(i+1)*width
		area := math.Pi * (outer*outer - inner*inner)
		counts[i] = counts[i] * disc / area
	}
	return counts
}

// PackingFraction is the share of the allowed disc covered by particles.
func PackingFraction(n int, cfg dynamo.Config) float64 {
	limit := cfg.ArenaRadius - cfg.ParticleRadius
	if limit <= 0 {
		return 0
	}
	return float64(n) * cfg.ParticleRadius * cfg.ParticleRadius / (limit * limit)
}

// ProfileToASCII renders a profile as one horizontal bar per bin, centre
// first.
func ProfileToASCII(profile []float64, width int) string {
	if len(profile) == 0 || width <= 0 {
		return ""
	}
	peak := 0.0
	for _, v := range profile {
		peak = math.Max(peak, v)
	}

	var sb strings.Builder
	for i, v := range profile {
		n := 0
		if peak > 0 {
			n = int(math.Round(v / peak * float64(width)))
		}
		fmt.Fprintf(&sb, "%3d │%s %.3f\n", i, strings.Repeat("█", n), v)
	}
	return sb.String()
}
