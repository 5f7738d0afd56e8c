// Package history keeps the most recent PV samples for the trace.
package history

import (
	"iter"

	"github.com/san-kum/enginesim/internal/thermo"
)

// Ring is a fixed-capacity FIFO. Appending to a full ring evicts the
// oldest sample.
type Ring struct {
	buf   []thermo.Sample
	start int
	n     int
}

// New returns an empty ring. A capacity below one is raised to one.
func New(capacity int) *Ring {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring{buf: make([]thermo.Sample, capacity)}
}

func (r *Ring) Append(s thermo.Sample) {
	if r.n < len(r.buf) {
		r.buf[(r.start+r.n)%len(r.buf)] = s
		r.n++
		return
	}
	r.buf[r.start] = s
	r.start = (r.start + 1) % len(r.buf)
}

func (r *Ring) Len() int { return r.n }
func (r *Ring) Cap() int { return len(r.buf) }

func (r *Ring) Reset() {
	r.start, r.n = 0, 0
}

// At returns the i-th oldest sample.
func (r *Ring) At(i int) thermo.Sample {
	return r.buf[(r.start+i)%len(r.buf)]
}

// Latest returns the newest sample, or false when empty.
func (r *Ring) Latest() (thermo.Sample, bool) {
	if r.n == 0 {
		return thermo.Sample{}, false
	}
	return r.At(r.n - 1), true
}

// All iterates oldest to newest.
func (r *Ring) All() iter.Seq[thermo.Sample] {
	return func(yield func(thermo.Sample) bool) {
		for i := 0; i < r.n; i++ {
			if !yield(r.At(i)) {
				return
			}
		}
	}
}

// Samples copies the contents in insertion order.
func (r *Ring) Samples() []thermo.Sample {
	out := make([]thermo.Sample, 0, r.n)
	for s := range r.All() {
		out = append(out, s)
	}
	return out
}
