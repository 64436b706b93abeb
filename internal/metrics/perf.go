package metrics

import (
	"log/slog"
	"time"
)

// Perf keeps frame timings over a rolling window.
type Perf struct {
	window     int
	samples    []time.Duration
	steps      []int
	writeIndex int
	count      int
}

func NewPerf(window int) *Perf {
	if window < 1 {
		window = 60
	}
	return &Perf{
		window:  window,
		samples: make([]time.Duration, window),
		steps:   make([]int, window),
	}
}

// Record stores the wall time one frame took and the sub-steps it ran.
func (p *Perf) Record(d time.Duration, steps int) {
	p.samples[p.writeIndex] = d
	p.steps[p.writeIndex] = steps
	p.writeIndex = (p.writeIndex + 1) % p.window
	if p.count < p.window {
		p.count++
	}
}

func (p *Perf) Count() int { return p.count }

type PerfStats struct {
	AvgFrame    time.Duration
	MinFrame    time.Duration
	MaxFrame    time.Duration
	StepsPerSec float64
	Particles   int
}

func (p *Perf) Stats() PerfStats {
	if p.count == 0 {
		return PerfStats{}
	}

	var total time.Duration
	var steps int
	minF, maxF := p.samples[0], p.samples[0]
	for i := 0; i < p.count; i++ {
		d := p.samples[i]
		total += d
		steps += p.steps[i]
		minF = min(minF, d)
		maxF = max(maxF, d)
	}

	s := PerfStats{
		AvgFrame: total / time.Duration(p.count),
		MinFrame: minF,
		MaxFrame: maxF,
	}
	if total > 0 {
		s.StepsPerSec = float64(steps) / total.Seconds()
	}
	return s
}

func (s PerfStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("avg_frame_us", s.AvgFrame.Microseconds()),
		slog.Int64("min_frame_us", s.MinFrame.Microseconds()),
		slog.Int64("max_frame_us", s.MaxFrame.Microseconds()),
		slog.Float64("steps_per_sec", s.StepsPerSec),
		slog.Int("particles", s.Particles),
	)
}
