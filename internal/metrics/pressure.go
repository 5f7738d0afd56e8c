package metrics

import "github.com/san-kum/enginesim/internal/engine"

type PeakPressure struct {
	name string
	peak float64
}

func NewPeakPressure() *PeakPressure {
	return &PeakPressure{name: "peak_pressure"}
}

func (p *PeakPressure) Name() string { return p.name }

func (p *PeakPressure) Observe(s engine.Snapshot) {
	if s.Pressure > p.peak {
		p.peak = s.Pressure
	}
}

func (p *PeakPressure) Value() float64 { return p.peak }
func (p *PeakPressure) Reset()         { p.peak = 0 }

// MeanPressure is the frame-averaged chamber pressure.
type MeanPressure struct {
	name    string
	sum     float64
	samples int
}

func NewMeanPressure() *MeanPressure {
	return &MeanPressure{name: "mean_pressure"}
}

func (m *MeanPressure) Name() string {
	return m.name
}

func (m *MeanPressure) Observe(s engine.Snapshot) {
	m.sum += s.Pressure
	m.samples++
}

func (m *MeanPressure) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanPressure) Reset() {
	m.sum = 0
	m.samples = 0
}
