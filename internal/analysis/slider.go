package analysis

import "github.com/san-kum/enginesim/internal/dynamo"

// SliderFraction places rpm on a linear slider spanning [lo, hi].
func SliderFraction(rpm, lo, hi float64) float64 {
	if hi <= lo {
		return 0
	}
	return dynamo.Clamp((rpm-lo)/(hi-lo), 0, 1)
}

// RPMFromFraction is the inverse of SliderFraction.
func RPMFromFraction(f, lo, hi float64) float64 {
	return lo + dynamo.Clamp(f, 0, 1)*(hi-lo)
}
