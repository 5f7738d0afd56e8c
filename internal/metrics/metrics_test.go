package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/enginesim/internal/engine"
)

func TestPeakPressure(t *testing.T) {
	m := NewPeakPressure()
	for _, p := range []float64{1, 50, 3} {
		m.Observe(engine.Snapshot{Pressure: p})
	}
	if m.Value() != 50 {
		t.Errorf("expected peak 50, got %f", m.Value())
	}
	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestMeanPressure(t *testing.T) {
	m := NewMeanPressure()
	if m.Value() != 0 {
		t.Error("expected zero with no samples")
	}
	m.Observe(engine.Snapshot{Pressure: 2})
	m.Observe(engine.Snapshot{Pressure: 4})
	if math.Abs(m.Value()-3) > 1e-12 {
		t.Errorf("expected mean 3, got %f", m.Value())
	}
}

func TestIndicatedWorkCountsCompletedCycles(t *testing.T) {
	m := NewIndicatedWork()
	loop := []engine.Snapshot{
		{Volume: 10, Pressure: 1},
		{Volume: 10, Pressure: 3},
		{Volume: 20, Pressure: 3},
		{Volume: 20, Pressure: 1},
	}
	for _, s := range loop {
		m.Observe(s)
	}
	if m.Value() != 0 {
		t.Errorf("partial cycle counted: %f", m.Value())
	}

	// First frame of the next cycle closes the previous loop.
	m.Observe(engine.Snapshot{Volume: 10, Pressure: 1, Cycles: 1})
	if math.Abs(m.Value()-20) > 1e-9 {
		t.Errorf("expected work 20, got %f", m.Value())
	}
}

func TestIgnitionRate(t *testing.T) {
	m := NewIgnitionRate()
	m.Observe(engine.Snapshot{Ignitions: 3, Cycles: 3})
	if m.Value() != 1 {
		t.Errorf("expected 1 ignition per cycle, got %f", m.Value())
	}
}

func TestDefault(t *testing.T) {
	seen := map[string]bool{}
	for _, m := range Default() {
		if seen[m.Name()] {
			t.Errorf("duplicate metric %q", m.Name())
		}
		seen[m.Name()] = true
	}
	if len(seen) != 4 {
		t.Errorf("expected 4 metrics, got %d", len(seen))
	}
}
