package engine_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/rs/zerolog"

	"github.com/san-kum/enginesim/internal/config"
	"github.com/san-kum/enginesim/internal/cycle"
	"github.com/san-kum/enginesim/internal/dynamo"
	"github.com/san-kum/enginesim/internal/engine"
	"github.com/san-kum/enginesim/internal/particles"
)

const frame = 1.0 / 60

func newEngine(mutate ...func(*config.Config)) *engine.Engine {
	cfg := config.DefaultConfig()
	cfg.Seed = 7
	for _, m := range mutate {
		m(cfg)
	}
	eng, err := engine.New(cfg, zerolog.Nop())
	Expect(err).NotTo(HaveOccurred())
	return eng
}

var _ = Describe("Engine", func() {
	var (
		eng *engine.Engine
		cfg *config.Config
	)

	BeforeEach(func() {
		eng = newEngine()
		cfg = eng.Config()
	})

	Describe("construction", func() {
		It("starts paused at angle zero with an empty history", func() {
			snap := eng.Snapshot()
			Expect(snap.Angle).To(BeZero())
			Expect(snap.Paused).To(BeTrue())
			Expect(snap.RPM).To(Equal(config.DefaultRPM))
			Expect(snap.Stroke).To(Equal(cycle.Compression))
			Expect(eng.History()).To(BeEmpty())
			Expect(eng.Particles()).To(HaveLen(cfg.Particles.Count))
		})

		It("starts at bottom dead center with the chamber at full volume", func() {
			_, vmax := eng.VolumeRange()
			Expect(eng.Snapshot().Volume).To(BeNumerically("~", vmax, 1e-9))
		})

		It("rejects a connecting rod shorter than the crank", func() {
			bad := config.DefaultConfig()
			bad.Geometry.ConrodLength = bad.Geometry.CrankRadius / 2
			_, err := engine.New(bad, zerolog.Nop())
			Expect(errors.Is(err, dynamo.ErrInvalidGeometry)).To(BeTrue())
		})

		It("rejects an empty speed range", func() {
			bad := config.DefaultConfig()
			bad.Speed.Min, bad.Speed.Max = 500, 100
			_, err := engine.New(bad, zerolog.Nop())
			Expect(errors.Is(err, dynamo.ErrParameterBounds)).To(BeTrue())
		})

		It("uses defaults for a nil config", func() {
			e, err := engine.New(nil, zerolog.Nop())
			Expect(err).NotTo(HaveOccurred())
			Expect(e.RPM()).To(Equal(config.DefaultRPM))
		})
	})

	Describe("pause gating", func() {
		It("ignores Advance while paused", func() {
			eng.Advance(0.5)
			Expect(eng.Angle()).To(BeZero())
			Expect(eng.History()).To(BeEmpty())
		})

		It("ignores Step while running", func() {
			eng.TogglePause()
			eng.Step()
			Expect(eng.Angle()).To(BeZero())
			Expect(eng.History()).To(BeEmpty())
		})

		It("ignores a non-positive dt", func() {
			eng.TogglePause()
			eng.Advance(0)
			eng.Advance(-1)
			Expect(eng.Angle()).To(BeZero())
		})

		It("ignores a NaN or infinite dt and keeps running afterwards", func() {
			eng.TogglePause()
			eng.Advance(math.NaN())
			eng.Advance(math.Inf(1))
			eng.Advance(math.Inf(-1))
			Expect(eng.Angle()).To(BeZero())
			Expect(eng.History()).To(BeEmpty())

			eng.Advance(frame)
			snap := eng.Snapshot()
			Expect(snap.Angle).To(BeNumerically("~", 6, 1e-9))
			Expect(snap.Stroke).To(Equal(cycle.Compression))
			Expect(math.IsNaN(snap.Volume)).To(BeFalse())
			Expect(eng.History()).To(HaveLen(1))
		})

		It("steps by the configured increment and records a sample", func() {
			eng.Step()
			Expect(eng.Angle()).To(BeNumerically("~", cfg.Speed.StepDegrees, 1e-12))
			Expect(eng.History()).To(HaveLen(1))
		})
	})

	Describe("rotational speed", func() {
		It("clamps into the configured range", func() {
			eng.SetRotationalSpeed(5000)
			Expect(eng.RPM()).To(Equal(cfg.Speed.Max))
			eng.SetRotationalSpeed(-3)
			Expect(eng.RPM()).To(Equal(cfg.Speed.Min))
			eng.SetRotationalSpeed(250)
			Expect(eng.RPM()).To(Equal(250.0))
		})

		It("advances 180 degrees in 0.05s at 600 rpm", func() {
			eng.SetRotationalSpeed(600)
			eng.TogglePause()
			Expect(eng.Snapshot().Stroke).To(Equal(cycle.Compression))
			eng.Advance(0.05)
			Expect(eng.Angle()).To(BeNumerically("~", 180, 1e-9))
			Expect(eng.Snapshot().Stroke).To(Equal(cycle.Power))
		})
	})

	Describe("ignition", func() {
		It("fires when a step lands inside the window", func() {
			eng.Seek(175)
			Expect(eng.Snapshot().SparkFiring).To(BeFalse())

			eng.Step()
			snap := eng.Snapshot()
			Expect(snap.Angle).To(BeNumerically("~", 177, 1e-9))
			Expect(snap.Stroke).To(Equal(cycle.Compression))
			Expect(snap.SparkFiring).To(BeTrue())
			Expect(snap.Pressure).To(Equal(cfg.Thermo.MaxPressurePower))
			Expect(snap.CombustionTimer).To(Equal(cfg.Cycle.CombustionDecay))
			Expect(eng.CurrentSample().Pressure).To(Equal(cfg.Thermo.MaxPressurePower))
			Expect(eng.FlashAlpha()).To(BeNumerically("~", 1, 1e-12))
		})

		DescribeTable("fires exactly once per cycle",
			func(rpm, dt float64) {
				eng.SetRotationalSpeed(rpm)
				eng.TogglePause()
				for eng.Snapshot().Cycles < 4 {
					eng.Advance(dt)
				}
				Expect(eng.Snapshot().Ignitions).To(Equal(4))
			},
			Entry("idle", 10.0, frame),
			Entry("default", 60.0, frame),
			Entry("brisk", 90.0, frame),
			Entry("fast with a fine timestep", 600.0, 1.0/1000),
			Entry("top speed at the display rate", 1000.0, frame),
			Entry("idle with a millisecond timestep", 10.0, 1.0/1000),
		)

		It("fires when a single frame jumps clean over the window", func() {
			eng.Seek(160)
			eng.SetRotationalSpeed(1000)
			eng.TogglePause()
			eng.Advance(frame)
			snap := eng.Snapshot()
			Expect(snap.Angle).To(BeNumerically("~", 260, 1e-9))
			Expect(snap.Stroke).To(Equal(cycle.Power))
			Expect(snap.Ignitions).To(Equal(1))
			Expect(snap.Pressure).To(Equal(cfg.Thermo.MaxPressurePower))
		})
	})

	Describe("pressure bounds", func() {
		It("keeps every phase inside its limits over several cycles", func() {
			eng.TogglePause()
			vmin, vmax := eng.VolumeRange()
			_, pmax := eng.PressureRange()
			ignitions := 0
			for i := 0; i < 3*120; i++ {
				eng.Advance(frame)
				snap := eng.Snapshot()
				fired := snap.Ignitions > ignitions
				ignitions = snap.Ignitions

				Expect(snap.Volume).To(BeNumerically(">=", vmin))
				Expect(snap.Volume).To(BeNumerically("<=", vmax))
				Expect(snap.Pressure).To(BeNumerically(">=", 0))
				Expect(snap.Pressure).To(BeNumerically("<=", pmax))

				switch snap.Stroke {
				case cycle.Compression:
					if !fired {
						Expect(snap.Pressure).To(BeNumerically("<=", cfg.Thermo.MaxPressureCompression))
					}
				case cycle.Power:
					Expect(snap.Pressure).To(BeNumerically(">=", cfg.Thermo.MinPressure))
					Expect(snap.Pressure).To(BeNumerically("<=", cfg.Thermo.MaxPressurePower))
				case cycle.Exhaust:
					Expect(snap.Pressure).To(BeNumerically("~", cfg.Thermo.MinPressure*1.05, 1e-12))
				case cycle.Intake:
					Expect(snap.Pressure).To(Equal(cfg.Thermo.MinPressure))
				}
			}
		})
	})

	Describe("a full stepped cycle", func() {
		BeforeEach(func() {
			eng = newEngine(func(c *config.Config) { c.HistoryCapacity = 720 })
			cfg = eng.Config()
		})

		It("records compression rising, power falling and the wrap back to compression", func() {
			steps := int(cycle.CycleDegrees / cfg.Speed.StepDegrees)
			for i := 0; i < steps; i++ {
				eng.Step()
			}
			Expect(eng.Angle()).To(BeNumerically("~", 0, 1e-9))
			Expect(eng.Snapshot().Cycles).To(Equal(1))
			Expect(eng.Snapshot().Ignitions).To(Equal(1))

			samples := eng.History()
			Expect(samples).To(HaveLen(steps))

			// samples[i] is at angle 2(i+1).
			ignitionAt := int(cfg.Cycle.IgnitionStart/cfg.Speed.StepDegrees) - 1
			for i := 1; i < ignitionAt; i++ {
				Expect(samples[i].Pressure).To(BeNumerically(">=", samples[i-1].Pressure))
			}
			Expect(samples[ignitionAt].Pressure).To(Equal(cfg.Thermo.MaxPressurePower))

			powerStart := int(180/cfg.Speed.StepDegrees) - 1
			powerEnd := int(360/cfg.Speed.StepDegrees) - 1
			for i := powerStart + 1; i < powerEnd; i++ {
				Expect(samples[i].Pressure).To(BeNumerically("<=", samples[i-1].Pressure))
			}

			last := samples[len(samples)-1]
			Expect(last.Pressure).To(BeNumerically(">", samples[len(samples)-2].Pressure))

			_, pmax := eng.PressureRange()
			for _, s := range samples {
				Expect(s.Pressure).To(BeNumerically("<=", pmax))
			}
		})
	})

	Describe("dead centers", func() {
		It("maps 0 degrees to maximum volume and 180 to minimum", func() {
			vmin, vmax := eng.VolumeRange()
			eng.Seek(180)
			Expect(eng.Snapshot().Volume).To(BeNumerically("~", vmin, 1e-9))
			eng.Seek(0)
			Expect(eng.Snapshot().Volume).To(BeNumerically("~", vmax, 1e-9))
		})

		It("keeps volume in range for every angle", func() {
			vmin, vmax := eng.VolumeRange()
			for a := 0.0; a < 720; a += 0.5 {
				eng.Seek(a)
				v := eng.Snapshot().Volume
				Expect(v).To(BeNumerically(">=", vmin))
				Expect(v).To(BeNumerically("<=", vmax))
			}
		})
	})

	Describe("history", func() {
		It("never grows past capacity and evicts the oldest sample", func() {
			for i := 0; i < cfg.HistoryCapacity+1; i++ {
				eng.Step()
			}
			h := eng.History()
			Expect(h).To(HaveLen(cfg.HistoryCapacity))

			eng.Reset()
			eng.Step()
			first := eng.History()[0]
			for i := 0; i < cfg.HistoryCapacity; i++ {
				eng.Step()
			}
			Expect(eng.History()).NotTo(ContainElement(first))
		})

		It("returns a copy", func() {
			eng.Step()
			h := eng.History()
			h[0].Pressure = -1
			Expect(eng.History()[0].Pressure).NotTo(Equal(-1.0))
		})
	})

	Describe("Reset", func() {
		It("restores the initial state regardless of prior state", func() {
			eng.SetRotationalSpeed(400)
			eng.TogglePause()
			for i := 0; i < 50; i++ {
				eng.Advance(frame)
			}
			eng.Reset()

			snap := eng.Snapshot()
			Expect(snap.Angle).To(BeZero())
			Expect(snap.Paused).To(BeTrue())
			Expect(snap.RPM).To(Equal(cfg.Speed.Initial))
			Expect(snap.SparkFiring).To(BeFalse())
			Expect(snap.CombustionTimer).To(BeZero())
			Expect(snap.Ignitions).To(BeZero())
			Expect(eng.History()).To(BeEmpty())
		})
	})

	Describe("particles", func() {
		It("stay inside the chamber every frame", func() {
			eng.SetRotationalSpeed(120)
			eng.TogglePause()
			for i := 0; i < 2*60; i++ {
				eng.Advance(frame)
				bounds := eng.ChamberBounds()
				for _, p := range eng.Particles() {
					Expect(bounds.Contains(p.Pos)).To(BeTrue(), "particle %+v outside %+v", p.Pos, bounds)
				}
			}
		})

		It("take the gas color of the current stroke after Reset and Seek", func() {
			expectColor := func() {
				snap := eng.Snapshot()
				want := particles.Color(snap.Stroke, snap.CombustionTimer, cfg.Cycle)
				for _, p := range eng.Particles() {
					Expect(p.Color).To(Equal(want))
				}
			}
			expectColor()
			Expect(eng.Particles()[0].Color).To(Equal(particles.CompressedColor))

			eng.Seek(400)
			expectColor()
			Expect(eng.Particles()[0].Color).To(Equal(particles.ExhaustColor))

			eng.Seek(600)
			expectColor()
			Expect(eng.Particles()[0].Color).To(Equal(particles.IntakeColor))
		})

		It("never changes in number", func() {
			eng.TogglePause()
			for i := 0; i < 30; i++ {
				eng.Advance(frame)
			}
			eng.Reset()
			Expect(eng.Particles()).To(HaveLen(cfg.Particles.Count))
		})
	})
})
