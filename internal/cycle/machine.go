package cycle

import (
	"github.com/san-kum/enginesim/internal/config"
	"github.com/san-kum/enginesim/internal/kinematics"
)

// State is the observable output of the machine after an update.
type State struct {
	Stroke          Stroke
	Valves          Valves
	SparkFiring     bool
	SparkTimer      int
	CombustionTimer int
}

// Machine holds the stroke plus the two frame counters. The combustion
// timer is the only cross-cycle memory: once ignition has happened it
// cannot be recovered from the angle alone.
type Machine struct {
	cfg       config.CycleConfig
	state     State
	ignitions int
	// latched is set on ignition and cleared once the crank is outside the
	// ignition window, so a slow crank fires once per pass.
	latched bool
}

func NewMachine(cfg config.CycleConfig) *Machine {
	m := &Machine{cfg: cfg}
	m.Reset(0)
	return m
}

// Reset clears both counters and derives the stroke for angleDeg.
func (m *Machine) Reset(angleDeg float64) {
	s := StrokeAt(angleDeg)
	m.state = State{Stroke: s, Valves: s.Valves()}
	m.ignitions = 0
	m.latched = false
}

// Seek re-derives stroke and valves for angleDeg without ticking either
// counter or testing for ignition.
func (m *Machine) Seek(angleDeg float64) {
	m.state.Stroke = StrokeAt(angleDeg)
	m.state.Valves = m.state.Stroke.Valves()
	m.unlatch(angleDeg)
}

// Update runs one frame in which the crank moved from prevDeg to angleDeg
// and reports whether the spark fired on this frame. The spark fires when
// the swept arc overlaps the ignition window, whatever the step size. Both
// counters tick once per call regardless of stroke: the combustion timer
// before the ignition test, the spark timer after it.
func (m *Machine) Update(prevDeg, angleDeg float64) (ignited bool) {
	if m.state.CombustionTimer > 0 {
		m.state.CombustionTimer--
	}

	a := kinematics.ReduceDegrees(angleDeg, CycleDegrees)
	m.state.Stroke = StrokeAt(a)
	m.state.Valves = m.state.Stroke.Valves()

	from := kinematics.ReduceDegrees(prevDeg, CycleDegrees)
	sweep := kinematics.ReduceDegrees(a-from, CycleDegrees)
	if !m.latched && overlaps(from, sweep, m.cfg.IgnitionStart, m.cfg.IgnitionEnd) {
		m.state.SparkFiring = true
		m.state.SparkTimer = m.cfg.SparkDuration
		m.state.CombustionTimer = m.cfg.CombustionDecay
		m.ignitions++
		m.latched = true
		ignited = true
	}
	m.unlatch(a)

	if m.state.SparkTimer > 0 {
		m.state.SparkTimer--
		if m.state.SparkTimer <= 0 {
			m.state.SparkFiring = false
		}
	}
	return ignited
}

func (m *Machine) unlatch(angleDeg float64) {
	a := kinematics.ReduceDegrees(angleDeg, CycleDegrees)
	if a < m.cfg.IgnitionStart || a >= m.cfg.IgnitionEnd {
		m.latched = false
	}
}

// overlaps reports whether the arc (from, from+sweep] meets [lo, hi). A zero
// sweep is the single point from. The arc may wrap past 720.
func overlaps(from, sweep, lo, hi float64) bool {
	for _, k := range [...]float64{0, CycleDegrees} {
		if from < hi+k && from+sweep >= lo+k {
			return true
		}
	}
	return false
}

func (m *Machine) State() State   { return m.state }
func (m *Machine) Ignitions() int { return m.ignitions }
func (m *Machine) Stroke() Stroke { return m.state.Stroke }
func (m *Machine) InFlash() bool  { return InFlash(m.state.CombustionTimer, m.cfg) }

// InFlash reports whether timer is inside the flash sub-window, the first
// CombustionFlash frames after ignition.
func InFlash(timer int, cfg config.CycleConfig) bool {
	return timer > cfg.CombustionDecay-cfg.CombustionFlash
}

// FlashAlpha is the flash overlay intensity in [0,1]: 1 on the ignition
// frame, falling linearly to 0 as the flash sub-window closes.
func FlashAlpha(timer int, cfg config.CycleConfig) float64 {
	if !InFlash(timer, cfg) || cfg.CombustionFlash <= 0 {
		return 0
	}
	start := cfg.CombustionDecay - cfg.CombustionFlash
	a := float64(timer-start) / float64(cfg.CombustionFlash)
	if a > 1 {
		a = 1
	}
	return a
}

// FadeRatio is how much of the fade sub-window remains, in [0,1].
func FadeRatio(timer int, cfg config.CycleConfig) float64 {
	span := cfg.CombustionDecay - cfg.CombustionFlash
	if span <= 0 {
		return 0
	}
	r := float64(timer-cfg.CombustionFlash) / float64(span)
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}
