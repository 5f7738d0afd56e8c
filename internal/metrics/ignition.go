package metrics

import "github.com/san-kum/enginesim/internal/engine"

// IgnitionRate is ignitions per completed cycle. A healthy engine fires
// exactly once per cycle.
type IgnitionRate struct {
	name      string
	ignitions int
	cycles    int
}

func NewIgnitionRate() *IgnitionRate {
	return &IgnitionRate{name: "ignitions_per_cycle"}
}

func (r *IgnitionRate) Name() string {
	return r.name
}

func (r *IgnitionRate) Observe(s engine.Snapshot) {
	r.ignitions = s.Ignitions
	r.cycles = s.Cycles
}

func (r *IgnitionRate) Value() float64 {
	if r.cycles == 0 {
		return 0
	}
	return float64(r.ignitions) / float64(r.cycles)
}

func (r *IgnitionRate) Reset() {
	r.ignitions = 0
	r.cycles = 0
}
