package dynamo

import "errors"

// Domain errors for engine construction.
var (
	// ErrInvalidGeometry indicates a crank/rod/cylinder layout the kinematic
	// solver cannot evaluate (for example a rod shorter than the crank throw).
	ErrInvalidGeometry = errors.New("dynamo: invalid engine geometry")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")
)

// ConfigError wraps an error with the offending configuration field.
type ConfigError struct {
	Field   string
	Value   float64
	Wrapped error
}

func (e *ConfigError) Error() string {
	return e.Wrapped.Error() + ": " + e.Field
}

func (e *ConfigError) Unwrap() error {
	return e.Wrapped
}
