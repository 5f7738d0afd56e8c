package sim

import (
	"context"
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/san-kum/enginesim/internal/config"
	"github.com/san-kum/enginesim/internal/engine"
	"github.com/san-kum/enginesim/internal/metrics"
)

func newTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Seed = 1
	eng, err := engine.New(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	return eng
}

func TestSimulatorRun(t *testing.T) {
	sim := New(newTestEngine(t))
	for _, m := range metrics.Default() {
		sim.AddMetric(m)
	}

	// 60 rpm at 60 fps is 6 degrees a frame, 120 frames a cycle.
	result, err := sim.Run(context.Background(), Config{Dt: 1.0 / 60, Cycles: 2})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.Cycles != 2 {
		t.Errorf("expected 2 cycles, got %d", result.Cycles)
	}
	if len(result.Frames) != 239 {
		t.Errorf("expected 239 frames, got %d", len(result.Frames))
	}
	if result.Ignitions != 2 {
		t.Errorf("expected 2 ignitions, got %d", result.Ignitions)
	}
	if result.Metrics["peak_pressure"] != config.DefaultConfig().Thermo.MaxPressurePower {
		t.Errorf("unexpected peak pressure %f", result.Metrics["peak_pressure"])
	}
	if result.Metrics["indicated_work"] <= 0 {
		t.Errorf("expected positive indicated work, got %f", result.Metrics["indicated_work"])
	}
	if result.Metrics["ignitions_per_cycle"] != 1 {
		t.Errorf("expected 1 ignition per cycle, got %f", result.Metrics["ignitions_per_cycle"])
	}
}

func TestSimulatorFramesAreOrdered(t *testing.T) {
	sim := New(newTestEngine(t))
	result, err := sim.Run(context.Background(), Config{Dt: 1.0 / 60, Cycles: 1, RPM: 120})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	for i, f := range result.Frames {
		if f.Index != i+1 {
			t.Fatalf("frame %d has index %d", i, f.Index)
		}
	}
}

func TestSimulatorRejectsBadConfig(t *testing.T) {
	sim := New(newTestEngine(t))
	if _, err := sim.Run(context.Background(), Config{Dt: 0, Cycles: 1}); err == nil {
		t.Error("expected error for zero dt")
	}
	if _, err := sim.Run(context.Background(), Config{Dt: math.NaN(), Cycles: 1}); err == nil {
		t.Error("expected error for NaN dt")
	}
	if _, err := sim.Run(context.Background(), Config{Dt: 0.01, Cycles: 0}); err == nil {
		t.Error("expected error for zero cycles")
	}
	if _, err := sim.Run(context.Background(), Config{Dt: 1e-9, Cycles: 1}); err == nil {
		t.Error("expected error for a frame budget that is too large")
	}
}

func TestSimulatorCancel(t *testing.T) {
	sim := New(newTestEngine(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := sim.Run(ctx, Config{Dt: 1.0 / 60, Cycles: 1}); err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRunWithCallback(t *testing.T) {
	sim := New(newTestEngine(t))
	frames := 0
	seen := 0
	sim.AddObserver(ObserverFunc(func(engine.Snapshot) { seen++ }))
	err := sim.RunWithCallback(context.Background(), 1.0/60, func(s engine.Snapshot) bool {
		frames++
		return frames < 10
	})
	if err != nil {
		t.Fatalf("callback run failed: %v", err)
	}
	if frames != 10 || seen != 10 {
		t.Errorf("expected 10 frames and observations, got %d and %d", frames, seen)
	}
}

func TestRunWithCallbackRejectsBadDt(t *testing.T) {
	sim := New(newTestEngine(t))
	for _, dt := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		err := sim.RunWithCallback(context.Background(), dt, func(engine.Snapshot) bool {
			t.Fatalf("callback ran for dt=%v", dt)
			return false
		})
		if err == nil {
			t.Errorf("expected error for dt=%v", dt)
		}
	}
}

func TestRunBatch(t *testing.T) {
	jobs := []Job{
		{Name: "idle", Engine: config.GetPreset("idle"), Run: Config{Dt: 1.0 / 60, Cycles: 1}},
		{Name: "default", Engine: config.GetPreset("default"), Run: Config{Dt: 1.0 / 60, Cycles: 1}},
	}
	results, err := RunBatch(context.Background(), jobs, zerolog.Nop())
	if err != nil {
		t.Fatalf("batch failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if len(results[0].Frames) <= len(results[1].Frames) {
		t.Errorf("idle should take more frames than default: %d vs %d",
			len(results[0].Frames), len(results[1].Frames))
	}
}

func TestRunBatchInvalidConfig(t *testing.T) {
	bad := config.DefaultConfig()
	bad.HistoryCapacity = 0
	_, err := RunBatch(context.Background(), []Job{{Name: "bad", Engine: bad, Run: Config{Dt: 0.01, Cycles: 1}}}, zerolog.Nop())
	if err == nil {
		t.Error("expected error for invalid engine config")
	}
}
