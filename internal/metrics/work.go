package metrics

import (
	"github.com/san-kum/enginesim/internal/analysis"
	"github.com/san-kum/enginesim/internal/engine"
	"github.com/san-kum/enginesim/internal/thermo"
)

// IndicatedWork averages the PV loop area over completed cycles. The
// partial cycle in progress is not counted.
type IndicatedWork struct {
	name      string
	loop      []thermo.Sample
	lastCycle int
	total     float64
	cycles    int
}

func NewIndicatedWork() *IndicatedWork {
	return &IndicatedWork{name: "indicated_work"}
}

func (w *IndicatedWork) Name() string { return w.name }

func (w *IndicatedWork) Observe(s engine.Snapshot) {
	if s.Cycles > w.lastCycle {
		if len(w.loop) > 0 {
			w.total += analysis.IndicatedWork(w.loop)
			w.cycles++
		}
		w.loop = w.loop[:0]
		w.lastCycle = s.Cycles
	}
	w.loop = append(w.loop, thermo.Sample{Volume: s.Volume, Pressure: s.Pressure})
}

func (w *IndicatedWork) Value() float64 {
	if w.cycles == 0 {
		return 0
	}
	return w.total / float64(w.cycles)
}

func (w *IndicatedWork) Reset() {
	w.loop = w.loop[:0]
	w.lastCycle = 0
	w.total = 0
	w.cycles = 0
}
