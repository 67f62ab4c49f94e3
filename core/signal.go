package core

import (
	"math"

	"gonum.org/v1/gonum/floats"

	m "github.com/RAFLYBOSENG/Sistem-Dinamis-Penyebaran-HIV/models"
)

// ControlSignal evaluates u(t) over the sample set t for the signal settings
// carried by p. The result has the same length and ordering as t. Defaults
// when StepTime is unset: step switches at half the span, impulse centers at
// the span midpoint. No variant ever errors; a single-sample set degenerates
// to the baseline via the span floor.
func ControlSignal(t []float64, p m.SimulationParameters) []float64 {
	u := make([]float64, len(t))
	if len(t) == 0 {
		return u
	}
	tmin := floats.Min(t)
	tmax := floats.Max(t)
	span := tmax - tmin

	switch p.Signal {
	case m.SignalStep:
		stepTime := p.StepTime.ValueOrZero()
		if !p.StepTime.Valid {
			stepTime = span / 2.0
		}
		for i, ti := range t {
			if ti >= stepTime {
				u[i] = 1.0 + p.Amp
			} else {
				u[i] = 1.0
			}
		}
	case m.SignalImpulse:
		center := (tmax + tmin) / 2.0
		if p.StepTime.Valid {
			center = p.StepTime.Float64
		}
		width := max(span*0.02, 0.5)
		for i, ti := range t {
			z := (ti - center) / width
			u[i] = 1.0 + p.Amp*math.Exp(-0.5*z*z)
		}
	case m.SignalRamp:
		if span <= 0 {
			for i := range u {
				u[i] = 1.0
			}
			break
		}
		for i, ti := range t {
			u[i] = 1.0 + p.Amp*(ti-tmin)/span
		}
	case m.SignalSin:
		for i, ti := range t {
			u[i] = 1.0 + p.Amp*math.Sin(2*math.Pi*p.Freq*(ti-tmin)/max(1.0, span))
		}
	default:
		for i := range u {
			u[i] = 1.0
		}
	}

	return u
}

// ControlSignalAt evaluates u at a single scalar time by wrapping it as a
// one-element sample set. This is exactly what the integrator calls inside
// each derivative evaluation, so solver-internal times see the same
// degenerate-span defaults the generator contract defines.
func ControlSignalAt(t float64, p m.SimulationParameters) float64 {
	return ControlSignal([]float64{t}, p)[0]
}
