package models

import (
	"fmt"

	"github.com/guregu/null/v6"
)

// Control signal kinds. The signal is a dimensionless multiplier u(t) applied
// to the transmission rate: beta_eff(t) = beta * u(t).
const (
	SignalNone    = "none"
	SignalStep    = "step"
	SignalImpulse = "impulse"
	SignalRamp    = "ramp"
	SignalSin     = "sin"
)

// SignalKinds lists the accepted signal kinds in display order.
var SignalKinds = []string{SignalNone, SignalStep, SignalImpulse, SignalRamp, SignalSin}

// ValidSignalKind reports whether kind names a known control signal.
func ValidSignalKind(kind string) bool {
	for _, k := range SignalKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// SimulationParameters is the full input of one SIR run. StepTime is the only
// optional field; when unset each signal kind picks its own midpoint default.
type SimulationParameters struct {
	Beta     float64    `db:"beta"`
	Gamma    float64    `db:"gamma"`
	N        float64    `db:"n"`
	I0       float64    `db:"i0"`
	R0       float64    `db:"r0"`
	Days     int        `db:"days"`
	Signal   string     `db:"signal"`
	Amp      float64    `db:"amp"`
	Freq     float64    `db:"freq"`
	StepTime null.Float `db:"step_time"`
}

// DefaultParameters is the baseline outbreak scenario the form starts from.
func DefaultParameters() SimulationParameters {
	return SimulationParameters{
		Beta:   0.3,
		Gamma:  0.1,
		N:      1_000_000,
		I0:     10,
		R0:     0,
		Days:   100,
		Signal: SignalNone,
		Amp:    0.5,
		Freq:   1.0,
	}
}

// Validate rejects parameter sets the ODE system is undefined or unbounded
// for. Gamma may be zero (the reproduction number is then reported as +Inf);
// negative rates and non-positive populations or horizons are rejected.
func (p SimulationParameters) Validate() error {
	if p.N <= 0 {
		return fmt.Errorf("%w: population N must be positive, got %g", ErrInvalidParameter, p.N)
	}
	if p.Beta < 0 {
		return fmt.Errorf("%w: transmission rate beta must be non-negative, got %g", ErrInvalidParameter, p.Beta)
	}
	if p.Gamma < 0 {
		return fmt.Errorf("%w: recovery rate gamma must be non-negative, got %g", ErrInvalidParameter, p.Gamma)
	}
	if p.I0 < 0 || p.R0 < 0 {
		return fmt.Errorf("%w: initial compartments must be non-negative, got I0=%g R0=%g", ErrInvalidParameter, p.I0, p.R0)
	}
	if p.Days <= 0 {
		return fmt.Errorf("%w: simulation horizon must be positive, got %d days", ErrInvalidParameter, p.Days)
	}
	if !ValidSignalKind(p.Signal) {
		return fmt.Errorf("%w: unknown signal kind %q", ErrInvalidParameter, p.Signal)
	}
	return nil
}

// S0 is the derived initial susceptible count, clamped at zero when
// I0+R0 exceeds N.
func (p SimulationParameters) S0() float64 {
	return max(p.N-p.I0-p.R0, 0)
}

// Trajectory holds the integrated S/I/R series and the control signal
// recomputed over the same output grid. All slices share length and ordering.
type Trajectory struct {
	T []float64
	S []float64
	I []float64
	R []float64
	U []float64
}

// Len is the number of grid samples.
func (tr *Trajectory) Len() int { return len(tr.T) }

// SimulationStats are derived from a completed trajectory, never set directly.
type SimulationStats struct {
	PeakI   float64 `db:"peak_i"`
	PeakDay float64 `db:"peak_day"`
	FinalS  float64 `db:"final_s"`
	FinalI  float64 `db:"final_i"`
	FinalR  float64 `db:"final_r"`
}
