package core

import (
	"testing"

	"github.com/guregu/null/v6"

	ex "github.com/RAFLYBOSENG/Sistem-Dinamis-Penyebaran-HIV/extensions"
	m "github.com/RAFLYBOSENG/Sistem-Dinamis-Penyebaran-HIV/models"
)

func grid(from, to float64, n int) []float64 {
	t := make([]float64, n)
	step := (to - from) / float64(n-1)
	for i := range t {
		t[i] = from + float64(i)*step
	}
	return t
}

func TestControlSignal_NoneIsAlwaysUnit(t *testing.T) {
	p := m.DefaultParameters()
	p.Signal = m.SignalNone
	p.Amp = 2.5

	for _, samples := range [][]float64{grid(0, 100, 500), grid(3, 7, 10), {42}} {
		u := ControlSignal(samples, p)
		if len(u) != len(samples) {
			t.Fatalf("expected %d samples, got %d", len(samples), len(u))
		}
		for i, v := range u {
			if v != 1.0 {
				t.Errorf("u[%d]: expected 1.0 for signal none, got %v", i, v)
			}
		}
	}
}

func TestControlSignal_StepTransitionsExactlyAtStepTime(t *testing.T) {
	p := m.DefaultParameters()
	p.Signal = m.SignalStep
	p.Amp = 0.5
	p.StepTime = null.FloatFrom(50)

	samples := []float64{0, 49.999, 50, 50.001, 100}
	u := ControlSignal(samples, p)

	ex.AssertAreEqual(t, "u before the step", 1.0, u[1])
	// right-continuous: the step is already on at t == step_time
	ex.AssertAreEqual(t, "u at the step", 1.5, u[2])
	ex.AssertAreEqual(t, "u after the step", 1.5, u[3])
}

func TestControlSignal_RampEndpointsAndMonotonic(t *testing.T) {
	p := m.DefaultParameters()
	p.Signal = m.SignalRamp
	p.Amp = 0.4

	samples := grid(10, 60, 200)
	u := ControlSignal(samples, p)

	ex.AssertInDelta(t, "ramp start", 1.0, u[0], 1e-12)
	ex.AssertInDelta(t, "ramp end", 1.4, u[len(u)-1], 1e-12)
	for i := 1; i < len(u); i++ {
		if u[i] < u[i-1] {
			t.Fatalf("ramp is not monotonic at sample %d: %v < %v", i, u[i], u[i-1])
		}
	}
}

func TestControlSignal_RampDegeneratesToBaseline(t *testing.T) {
	p := m.DefaultParameters()
	p.Signal = m.SignalRamp
	p.Amp = 0.4

	u := ControlSignal([]float64{25}, p)
	ex.AssertAreEqual(t, "single-sample ramp", 1.0, u[0])
}

func TestControlSignal_ImpulsePeaksAtCenter(t *testing.T) {
	p := m.DefaultParameters()
	p.Signal = m.SignalImpulse
	p.Amp = 0.8
	p.StepTime = null.FloatFrom(30)

	samples := grid(0, 100, 1001)
	u := ControlSignal(samples, p)

	peakIdx := 0
	for i, v := range u {
		if v > u[peakIdx] {
			peakIdx = i
		}
	}

	ex.AssertInDelta(t, "impulse center", 30.0, samples[peakIdx], 0.11)
	ex.AssertInDelta(t, "impulse height", 1.8, u[peakIdx], 1e-6)
	// far from the center the bump has decayed back to baseline
	ex.AssertInDelta(t, "impulse tail", 1.0, u[len(u)-1], 1e-6)
}

func TestControlSignal_SinStaysInBandAndToleratesSinglePoint(t *testing.T) {
	p := m.DefaultParameters()
	p.Signal = m.SignalSin
	p.Amp = 0.3
	p.Freq = 2.0

	samples := grid(0, 100, 500)
	u := ControlSignal(samples, p)
	ex.AssertInDelta(t, "sin start", 1.0, u[0], 1e-12)
	for i, v := range u {
		if v < 0.7-1e-9 || v > 1.3+1e-9 {
			t.Fatalf("sin sample %d out of band: %v", i, v)
		}
	}

	// degenerate single-point set: the span floor keeps the phase at zero
	single := ControlSignal([]float64{12.5}, p)
	ex.AssertAreEqual(t, "single-sample sin", 1.0, single[0])
}

func TestControlSignalAt_MatchesOneElementSet(t *testing.T) {
	p := m.DefaultParameters()
	p.Signal = m.SignalStep
	p.Amp = 0.5
	p.StepTime = null.FloatFrom(10)

	for _, ti := range []float64{0, 9.99, 10, 55} {
		scalar := ControlSignalAt(ti, p)
		vector := ControlSignal([]float64{ti}, p)[0]
		ex.AssertAreEqual(t, "scalar vs one-element set", vector, scalar)
	}
}
