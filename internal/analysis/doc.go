// Package analysis turns PV samples into plots and figures of merit.
//
//   - [PVAxes]: maps (volume, pressure) into a plot rectangle, clamped
//   - [IndicatedWork]: the closed-loop integral of P dV
//   - [Summarize]: peak pressure, work and loop extents of a run
//   - [PVToASCII]: a quick terminal rendering of a PV loop
//
// # Indicated Work
//
// The work of one cycle is the signed area enclosed by its PV loop. The
// power loop runs clockwise on a standard P-over-V plot, so a healthy
// cycle has positive work and the pumping loop subtracts a little:
//
//	w := analysis.IndicatedWork(cycleSamples)
package analysis
