package config

import "github.com/san-kum/enginesim/internal/dynamo"

// Validate rejects configurations the per-frame computation cannot honor.
// It is called once at engine construction; nothing is validated per frame.
func (c *Config) Validate() error {
	g := c.Geometry
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"geometry.cylinder_width", g.CylinderWidth},
		{"geometry.piston_height", g.PistonHeight},
		{"geometry.crank_radius", g.CrankRadius},
		{"geometry.conrod_length", g.ConrodLength},
	} {
		if !(f.v > 0) || !dynamo.IsFinite(f.v) {
			return bad(f.name, f.v, dynamo.ErrInvalidGeometry)
		}
	}
	// A rod no longer than the crank throw makes the solver's radicand
	// structurally negative near 90 and 270 degrees.
	if g.ConrodLength <= g.CrankRadius {
		return bad("geometry.conrod_length", g.ConrodLength, dynamo.ErrInvalidGeometry)
	}

	t := c.Thermo
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"thermo.clearance_volume", t.ClearanceVolume},
		{"thermo.swept_volume_scale", t.SweptVolumeScale},
		{"thermo.min_pressure", t.MinPressure},
		{"thermo.compression_exponent", t.CompressionExponent},
		{"thermo.power_exponent", t.PowerExponent},
	} {
		if !(f.v > 0) || !dynamo.IsFinite(f.v) {
			return bad(f.name, f.v, dynamo.ErrParameterBounds)
		}
	}
	if t.MaxPressureCompression < t.MinPressure {
		return bad("thermo.max_pressure_compression", t.MaxPressureCompression, dynamo.ErrParameterBounds)
	}
	if t.MaxPressurePower < t.MinPressure {
		return bad("thermo.max_pressure_power", t.MaxPressurePower, dynamo.ErrParameterBounds)
	}

	cy := c.Cycle
	if cy.IgnitionStart < 0 || cy.IgnitionEnd > 180 || cy.IgnitionStart >= cy.IgnitionEnd {
		return bad("cycle.ignition_start", cy.IgnitionStart, dynamo.ErrParameterBounds)
	}
	if cy.SparkDuration <= 0 {
		return bad("cycle.spark_duration", float64(cy.SparkDuration), dynamo.ErrParameterBounds)
	}
	if cy.CombustionDecay <= 0 {
		return bad("cycle.combustion_decay", float64(cy.CombustionDecay), dynamo.ErrParameterBounds)
	}
	if cy.CombustionFlash < 0 || cy.CombustionFlash >= cy.CombustionDecay {
		return bad("cycle.combustion_flash", float64(cy.CombustionFlash), dynamo.ErrParameterBounds)
	}

	p := c.Particles
	switch {
	case p.Count < 0:
		return bad("particles.count", float64(p.Count), dynamo.ErrParameterBounds)
	case !(p.Radius > 0):
		return bad("particles.radius", p.Radius, dynamo.ErrParameterBounds)
	case 2*p.Radius >= g.CylinderWidth:
		return bad("particles.radius", p.Radius, dynamo.ErrInvalidGeometry)
	case !(p.MaxSpeed > 0):
		return bad("particles.max_speed", p.MaxSpeed, dynamo.ErrParameterBounds)
	case p.AccelJitter < 0:
		return bad("particles.accel_jitter", p.AccelJitter, dynamo.ErrParameterBounds)
	case !(p.Friction > 0) || p.Friction > 1:
		return bad("particles.friction", p.Friction, dynamo.ErrParameterBounds)
	case p.CombustionSpeedMultiplier < 1:
		return bad("particles.combustion_speed_multiplier", p.CombustionSpeedMultiplier, dynamo.ErrParameterBounds)
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"particles.wall_restitution", p.WallRestitution},
		{"particles.piston_restitution_hard", p.PistonRestitutionHard},
		{"particles.piston_restitution_soft", p.PistonRestitutionSoft},
	} {
		if f.v < 0 || f.v > 1 {
			return bad(f.name, f.v, dynamo.ErrParameterBounds)
		}
	}

	s := c.Speed
	if !(s.Min > 0) || s.Max < s.Min {
		return bad("speed.min", s.Min, dynamo.ErrParameterBounds)
	}
	if s.Initial < s.Min || s.Initial > s.Max {
		return bad("speed.initial", s.Initial, dynamo.ErrParameterBounds)
	}
	if !(s.StepDegrees > 0) || s.StepDegrees >= 720 {
		return bad("speed.step_degrees", s.StepDegrees, dynamo.ErrParameterBounds)
	}

	if c.HistoryCapacity <= 0 {
		return bad("history_capacity", float64(c.HistoryCapacity), dynamo.ErrParameterBounds)
	}
	return nil
}

func bad(field string, v float64, err error) error {
	return &dynamo.ConfigError{Field: field, Value: v, Wrapped: err}
}
