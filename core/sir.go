package core

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	ex "github.com/RAFLYBOSENG/Sistem-Dinamis-Penyebaran-HIV/extensions"
	m "github.com/RAFLYBOSENG/Sistem-Dinamis-Penyebaran-HIV/models"
)

const (
	// DefaultSamples is the output grid size of a trajectory.
	DefaultSamples = 500

	// maxSubstep bounds the internal RK4 step in time units; maxTotalSteps
	// bounds the whole integration so pathological horizons cannot block the
	// caller forever.
	maxSubstep    = 0.25
	maxTotalSteps = 4_000_000
)

type sirState struct {
	S, I, R float64
}

func (y sirState) finite() bool {
	for _, v := range []float64{y.S, y.I, y.R} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// sirDerivative evaluates the ODE right-hand side at scalar time t. The
// control signal is sampled here, at the solver's internal time, not read
// from any precomputed grid: adaptive or sub-grid steps land between output
// samples and the dynamics must still respond to u there.
func sirDerivative(t float64, y sirState, p m.SimulationParameters) sirState {
	betaEff := p.Beta * ControlSignalAt(t, p)
	infection := betaEff * y.S * y.I / p.N
	recovery := p.Gamma * y.I
	return sirState{
		S: -infection,
		I: infection - recovery,
		R: recovery,
	}
}

func rk4Step(t, h float64, y sirState, p m.SimulationParameters) sirState {
	k1 := sirDerivative(t, y, p)
	k2 := sirDerivative(t+h/2, advance(y, k1, h/2), p)
	k3 := sirDerivative(t+h/2, advance(y, k2, h/2), p)
	k4 := sirDerivative(t+h, advance(y, k3, h), p)

	y.S += h / 6 * (k1.S + 2*k2.S + 2*k3.S + k4.S)
	y.I += h / 6 * (k1.I + 2*k2.I + 2*k3.I + k4.I)
	y.R += h / 6 * (k1.R + 2*k2.R + 2*k3.R + k4.R)
	return y
}

func advance(y, dy sirState, h float64) sirState {
	return sirState{
		S: y.S + h*dy.S,
		I: y.I + h*dy.I,
		R: y.R + h*dy.R,
	}
}

// SimulateSIR integrates the SIR system over [0, days] and returns the
// trajectory sampled at npoints evenly spaced times. Integration is classic
// fourth-order Runge-Kutta with substeps capped at maxSubstep time units.
//
// The control signal is evaluated twice on purpose: scalar-wise inside every
// derivative evaluation while stepping, then once more over the finished
// output grid so the reported u series aligns exactly with the S/I/R samples.
// Collapsing the two passes into one changes the dynamics and must not be
// done.
//
// Small negative excursions of S/I/R from integration error are returned
// as-is; non-finite state aborts with an integration failure.
func SimulateSIR(ctx context.Context, p m.SimulationParameters, npoints int) (*m.Trajectory, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if npoints < 2 {
		return nil, fmt.Errorf("%w: need at least 2 output samples, got %d", m.ErrInvalidParameter, npoints)
	}

	t := make([]float64, npoints)
	floats.Span(t, 0, float64(p.Days))

	h := t[1] - t[0]
	nsub := ex.Max(1, int(math.Ceil(h/maxSubstep)))
	if (npoints-1)*nsub > maxTotalSteps {
		return nil, fmt.Errorf("%w: horizon of %d days at %d samples exceeds the step budget", m.ErrInvalidParameter, p.Days, npoints)
	}

	tr := &m.Trajectory{
		T: t,
		S: make([]float64, npoints),
		I: make([]float64, npoints),
		R: make([]float64, npoints),
	}

	y := sirState{S: p.S0(), I: p.I0, R: p.R0}
	tr.S[0], tr.I[0], tr.R[0] = y.S, y.I, y.R

	for i := 1; i < npoints; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		t0 := t[i-1]
		hs := (t[i] - t0) / float64(nsub)
		for s := range nsub {
			y = rk4Step(t0+float64(s)*hs, hs, y, p)
		}

		if !y.finite() {
			return nil, fmt.Errorf("%w: non-finite state at t=%.3f (S=%g I=%g R=%g)", m.ErrIntegrationFailure, t[i], y.S, y.I, y.R)
		}

		tr.S[i], tr.I[i], tr.R[i] = y.S, y.I, y.R
	}

	// Second pass: recompute u over the output grid for reporting.
	tr.U = ControlSignal(t, p)

	return tr, nil
}
