// Package metrics accumulates per-frame figures over a headless run.
package metrics

import "github.com/san-kum/enginesim/internal/engine"

type Metric interface {
	Name() string
	Observe(s engine.Snapshot)
	Value() float64
	Reset()
}

// Default is the metric set recorded with every stored run.
func Default() []Metric {
	return []Metric{
		NewPeakPressure(),
		NewMeanPressure(),
		NewIndicatedWork(),
		NewIgnitionRate(),
	}
}
