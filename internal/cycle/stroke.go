// Package cycle implements the four-stroke state machine: stroke phase and
// valve state as a pure function of crank angle, plus the spark and
// combustion-decay counters that carry memory from one frame to the next.
package cycle

import "github.com/san-kum/enginesim/internal/kinematics"

// CycleDegrees is one full four-stroke cycle: two crank revolutions.
const CycleDegrees = 720.0

// Stroke is one 180-degree segment of the cycle.
type Stroke int

const (
	Compression Stroke = iota
	Power
	Exhaust
	Intake
)

var strokeNames = [...]string{"Compression", "Power", "Exhaust", "Intake"}

var strokeDescriptions = [...]string{
	"Valves close. Piston moves up, compressing the air-fuel mixture, raising pressure and temperature.",
	"Spark plug ignites mixture. Rapid expansion forces piston down, producing power.",
	"Exhaust valve opens. Piston moves up, pushing burned gases out of the cylinder.",
	"Piston moves down, drawing air-fuel mixture through the open intake valve.",
}

// StrokeAt maps any angle onto its stroke. The four ranges [0,180),
// [180,360), [360,540), [540,720) partition the cycle.
func StrokeAt(angleDeg float64) Stroke {
	a := kinematics.ReduceDegrees(angleDeg, CycleDegrees)
	s := Stroke(int(a / 180))
	// a is strictly below 720, but guard the float division anyway.
	if s > Intake {
		s = Intake
	}
	return s
}

func (s Stroke) String() string {
	if s < Compression || s > Intake {
		return "Unknown"
	}
	return strokeNames[s]
}

// ParseStroke is the inverse of Stroke.String.
func ParseStroke(name string) (Stroke, bool) {
	for i, n := range strokeNames {
		if n == name {
			return Stroke(i), true
		}
	}
	return 0, false
}

// Description is the one-line explanation shown next to the engine.
func (s Stroke) Description() string {
	if s < Compression || s > Intake {
		return ""
	}
	return strokeDescriptions[s]
}

// Valves is the open/closed state of both valves.
type Valves struct {
	Intake  bool
	Exhaust bool
}

func (s Stroke) Valves() Valves {
	return Valves{Intake: s == Intake, Exhaust: s == Exhaust}
}

// Expanding reports whether the gas is being pulled or pushed downward
// (intake suction, power expansion).
func (s Stroke) Expanding() bool {
	return s == Intake || s == Power
}

// PistonRising reports whether the piston moves toward the head.
func (s Stroke) PistonRising() bool {
	return s == Compression || s == Exhaust
}
