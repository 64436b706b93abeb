package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidConfig indicates a configuration the solver cannot run with.
	ErrInvalidConfig = errors.New("dynamo: invalid configuration")

	// ErrNonFinite indicates a particle position became NaN or Inf.
	ErrNonFinite = errors.New("dynamo: non-finite particle state")

	// ErrNoRun indicates a run id with no archive behind it.
	ErrNoRun = errors.New("dynamo: run not found")
)

// SimulationError wraps an error with the frame and particle it was found at.
type SimulationError struct {
	Frame    int
	Time     float64
	Particle int
	Wrapped  error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("frame %d (t=%.4f) particle %d: %v", e.Frame, e.Time, e.Particle, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
