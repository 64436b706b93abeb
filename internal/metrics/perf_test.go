package metrics

import (
	"testing"
	"time"
)

func TestPerfEmpty(t *testing.T) {
	p := NewPerf(0)
	if s := p.Stats(); s.AvgFrame != 0 || s.StepsPerSec != 0 {
		t.Errorf("expected zero stats, got %+v", s)
	}
}

func TestPerfRollingWindow(t *testing.T) {
	p := NewPerf(3)
	for _, ms := range []int{100, 1, 2, 3} {
		p.Record(time.Duration(ms)*time.Millisecond, 8)
	}

	if p.Count() != 3 {
		t.Fatalf("expected 3 samples, got %d", p.Count())
	}
	s := p.Stats()
	if s.MaxFrame != 3*time.Millisecond {
		t.Errorf("expected oldest sample dropped, max %v", s.MaxFrame)
	}
	if s.MinFrame != time.Millisecond {
		t.Errorf("expected min 1ms, got %v", s.MinFrame)
	}
	if s.AvgFrame != 2*time.Millisecond {
		t.Errorf("expected avg 2ms, got %v", s.AvgFrame)
	}
	if want := 24 / 0.006; s.StepsPerSec < want-1e-6 || s.StepsPerSec > want+1e-6 {
		t.Errorf("expected %v steps/s, got %v", want, s.StepsPerSec)
	}
}
