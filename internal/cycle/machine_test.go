package cycle

import (
	"testing"

	"github.com/san-kum/enginesim/internal/config"
)

func TestStrokeAt(t *testing.T) {
	tests := []struct {
		angle float64
		want  Stroke
	}{
		{0, Compression},
		{179.999, Compression},
		{180, Power},
		{359.9, Power},
		{360, Exhaust},
		{539.9, Exhaust},
		{540, Intake},
		{719.99, Intake},
		{720, Compression},
		{-1, Intake},
		{900, Power},
	}
	for _, tt := range tests {
		if got := StrokeAt(tt.angle); got != tt.want {
			t.Errorf("StrokeAt(%v) = %v, want %v", tt.angle, got, tt.want)
		}
	}
}

func TestValves(t *testing.T) {
	for s := Compression; s <= Intake; s++ {
		v := s.Valves()
		if v.Intake && v.Exhaust {
			t.Errorf("%v: both valves open", s)
		}
		if v.Intake != (s == Intake) {
			t.Errorf("%v: intake = %v", s, v.Intake)
		}
		if v.Exhaust != (s == Exhaust) {
			t.Errorf("%v: exhaust = %v", s, v.Exhaust)
		}
	}
}

func TestDescriptions(t *testing.T) {
	for s := Compression; s <= Intake; s++ {
		if s.Description() == "" {
			t.Errorf("%v has no description", s)
		}
	}
	if Stroke(9).String() != "Unknown" {
		t.Error("out of range stroke should be Unknown")
	}
}

func TestIgnitionWindow(t *testing.T) {
	cfg := config.DefaultConfig().Cycle
	m := NewMachine(cfg)

	if m.Update(160, 168) {
		t.Fatal("ignited before window")
	}
	if !m.Update(168, 176) {
		t.Fatal("expected ignition at 176")
	}
	st := m.State()
	if !st.SparkFiring {
		t.Error("spark should be firing right after ignition")
	}
	// The spark timer already ticked once on the ignition frame.
	if st.SparkTimer != cfg.SparkDuration-1 {
		t.Errorf("spark timer = %d, want %d", st.SparkTimer, cfg.SparkDuration-1)
	}
	if st.CombustionTimer != cfg.CombustionDecay {
		t.Errorf("combustion timer = %d, want %d", st.CombustionTimer, cfg.CombustionDecay)
	}
	if m.Update(176, 178) {
		t.Error("re-ignited inside cooldown")
	}
	if m.Ignitions() != 1 {
		t.Errorf("ignitions = %d, want 1", m.Ignitions())
	}
}

func TestNoIgnitionOutsideCompression(t *testing.T) {
	m := NewMachine(config.DefaultConfig().Cycle)
	for _, a := range []float64{175 + 180, 175 + 360, 175 + 540} {
		if m.Update(a-5, a) {
			t.Errorf("ignited at %v", a)
		}
	}
}

func TestSparkClears(t *testing.T) {
	cfg := config.DefaultConfig().Cycle
	m := NewMachine(cfg)
	m.Update(173, 175)
	for i := 1; i < cfg.SparkDuration; i++ {
		if !m.State().SparkFiring {
			t.Fatalf("spark cleared early after %d frames", i)
		}
		m.Update(200, 200)
	}
	st := m.State()
	if st.SparkFiring || st.SparkTimer != 0 {
		t.Errorf("spark should be cleared, got firing=%v timer=%d", st.SparkFiring, st.SparkTimer)
	}
}

func TestSparkFiringMatchesTimer(t *testing.T) {
	m := NewMachine(config.DefaultConfig().Cycle)
	for a := 0.0; a < 3*CycleDegrees; a += 3 {
		m.Update(a-3, a)
		st := m.State()
		if st.SparkFiring != (st.SparkTimer > 0) {
			t.Fatalf("angle %v: firing=%v timer=%d", a, st.SparkFiring, st.SparkTimer)
		}
	}
}

func TestOneIgnitionPerCycle(t *testing.T) {
	m := NewMachine(config.DefaultConfig().Cycle)
	cycles := 5
	for a := 0.0; a < float64(cycles)*CycleDegrees; a += 2 {
		m.Update(a-2, a)
	}
	if m.Ignitions() != cycles {
		t.Errorf("ignitions = %d, want %d", m.Ignitions(), cycles)
	}
}

func TestOneIgnitionPerCycleAnyStep(t *testing.T) {
	tests := []struct {
		name string
		step float64
	}{
		{"hair", 0.06},
		{"fine", 0.5},
		{"default", 6},
		{"wider than the window", 25},
		{"coarse", 100},
		{"uneven", 97.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMachine(config.DefaultConfig().Cycle)
			cycles := 6
			prev := 0.0
			for a := tt.step; a < float64(cycles)*CycleDegrees; a += tt.step {
				m.Update(prev, a)
				prev = a
			}
			if m.Ignitions() != cycles {
				t.Errorf("ignitions = %d, want %d", m.Ignitions(), cycles)
			}
		})
	}
}

func TestIgnitionLatch(t *testing.T) {
	m := NewMachine(config.DefaultConfig().Cycle)
	if !m.Update(169.9, 170.1) {
		t.Fatal("expected ignition entering the window")
	}
	// A slow crank stays in the window long after the combustion timer
	// would allow another spark.
	prev := 170.1
	for a := 170.2; a < 179.9; a += 0.1 {
		if m.Update(prev, a) {
			t.Fatalf("re-ignited at %v", a)
		}
		prev = a
	}
	m.Update(prev, 181)
	m.Seek(100)
	if !m.Update(168, 171) {
		t.Error("expected ignition on the next pass")
	}
}

func TestCombustionDecays(t *testing.T) {
	cfg := config.DefaultConfig().Cycle
	m := NewMachine(cfg)
	m.Update(170, 172)
	for i := 0; i < cfg.CombustionDecay; i++ {
		m.Update(400, 400)
	}
	if m.State().CombustionTimer != 0 {
		t.Errorf("combustion timer = %d, want 0", m.State().CombustionTimer)
	}
	m.Update(400, 400)
	if m.State().CombustionTimer != 0 {
		t.Error("timer went below zero")
	}
}

func TestFlash(t *testing.T) {
	cfg := config.DefaultConfig().Cycle
	if !InFlash(cfg.CombustionDecay, cfg) {
		t.Error("ignition frame should be in flash")
	}
	if InFlash(cfg.CombustionDecay-cfg.CombustionFlash, cfg) {
		t.Error("flash window should have closed")
	}
	if a := FlashAlpha(cfg.CombustionDecay, cfg); a != 1 {
		t.Errorf("alpha at ignition = %v, want 1", a)
	}
	if a := FlashAlpha(0, cfg); a != 0 {
		t.Errorf("alpha at rest = %v, want 0", a)
	}
}

func TestFadeRatio(t *testing.T) {
	cfg := config.DefaultConfig().Cycle
	if r := FadeRatio(0, cfg); r != 0 {
		t.Errorf("FadeRatio(0) = %v", r)
	}
	if r := FadeRatio(cfg.CombustionDecay, cfg); r != 1 {
		t.Errorf("FadeRatio(decay) = %v", r)
	}
	mid := (cfg.CombustionDecay + cfg.CombustionFlash) / 2
	if r := FadeRatio(mid, cfg); r <= 0 || r >= 1 {
		t.Errorf("FadeRatio(%d) = %v, want inside (0,1)", mid, r)
	}
}

func TestReset(t *testing.T) {
	m := NewMachine(config.DefaultConfig().Cycle)
	m.Update(173, 175)
	m.Reset(400)
	st := m.State()
	if st.SparkFiring || st.CombustionTimer != 0 || m.Ignitions() != 0 {
		t.Errorf("reset left state behind: %+v", st)
	}
	if st.Stroke != Exhaust {
		t.Errorf("stroke = %v, want Exhaust", st.Stroke)
	}
}

func TestSeekDoesNotIgnite(t *testing.T) {
	m := NewMachine(config.DefaultConfig().Cycle)
	m.Seek(175)
	st := m.State()
	if st.SparkFiring || m.Ignitions() != 0 {
		t.Error("Seek must not ignite")
	}
	if st.Stroke != Compression {
		t.Errorf("stroke = %v, want Compression", st.Stroke)
	}
	if !m.Update(175, 177) {
		t.Error("expected ignition on the next update")
	}
}

func TestParseStroke(t *testing.T) {
	for s := Compression; s <= Intake; s++ {
		got, ok := ParseStroke(s.String())
		if !ok || got != s {
			t.Errorf("ParseStroke(%q) = %v, %v", s.String(), got, ok)
		}
	}
	if _, ok := ParseStroke("Idle"); ok {
		t.Error("unknown name parsed")
	}
}
