package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/enginesim/internal/cycle"
	"github.com/san-kum/enginesim/internal/dynamo"
	"github.com/san-kum/enginesim/internal/engine"
	"github.com/san-kum/enginesim/internal/metrics"
)

// maxFramesPerCycle bounds a run whose speed and timestep would need an
// absurd number of frames.
const maxFramesPerCycle = 1 << 16

type Simulator struct {
	eng       *engine.Engine
	metrics   []metrics.Metric
	observers []Observer
}

func New(eng *engine.Engine) *Simulator {
	return &Simulator{
		eng:       eng,
		metrics:   make([]metrics.Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m metrics.Metric) { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer)     { s.observers = append(s.observers, o) }

// Run resets the engine, unpauses it and advances until cfg.Cycles full
// cycles have completed.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}

	s.eng.Reset()
	if cfg.RPM > 0 {
		s.eng.SetRotationalSpeed(cfg.RPM)
	}
	steps, err := budget(s.eng.RPM(), cfg)
	if err != nil {
		return nil, err
	}
	s.eng.TogglePause()

	for _, m := range s.metrics {
		m.Reset()
	}

	result := &Result{
		Frames:  make([]Frame, 0, steps),
		Metrics: make(map[string]float64),
	}

	var last engine.Snapshot
	crossed := false
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		s.eng.Advance(cfg.Dt)
		last = s.eng.Snapshot()
		if last.Cycles >= cfg.Cycles {
			crossed = true
			break
		}
		s.observe(last)
		result.Frames = append(result.Frames, FrameOf(last))
		result.Duration += cfg.Dt
	}

	// The frame that crossed into the next cycle still closes the last
	// loop for cycle-based metrics.
	for _, m := range s.metrics {
		if crossed {
			m.Observe(last)
		}
		result.Metrics[m.Name()] = m.Value()
	}
	result.Cycles = last.Cycles
	result.Ignitions = last.Ignitions
	return result, nil
}

func (s *Simulator) observe(snap engine.Snapshot) {
	for _, m := range s.metrics {
		m.Observe(snap)
	}
	for _, obs := range s.observers {
		obs.OnFrame(snap)
	}
}

func validate(cfg Config) error {
	if cfg.Dt <= 0 || !dynamo.IsFinite(cfg.Dt) {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Cycles <= 0 {
		return fmt.Errorf("cycles must be positive, got %d", cfg.Cycles)
	}
	return nil
}

// budget is the frame limit for a run: the nominal frame count plus one
// cycle of slack.
func budget(rpm float64, cfg Config) (int, error) {
	perFrame := rpm * 360 / 60 * cfg.Dt
	perCycle := math.Ceil(cycle.CycleDegrees / perFrame)
	if perCycle > maxFramesPerCycle {
		return 0, fmt.Errorf("%.0f frames per cycle at dt=%g, rpm=%g", perCycle, cfg.Dt, rpm)
	}
	return int(perCycle) * (cfg.Cycles + 1), nil
}

// RunWithCallback advances the engine one frame per dt until callback
// returns false or the context is cancelled. Unlike Run it does not reset
// the engine.
func (s *Simulator) RunWithCallback(ctx context.Context, dt float64, callback func(engine.Snapshot) bool) error {
	if !(dt > 0) || !dynamo.IsFinite(dt) {
		return fmt.Errorf("dt must be a finite positive number, got %f", dt)
	}
	if s.eng.Paused() {
		s.eng.TogglePause()
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		s.eng.Advance(dt)
		snap := s.eng.Snapshot()
		s.observe(snap)
		if !callback(snap) {
			return nil
		}
	}
}
