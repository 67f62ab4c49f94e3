package core

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	m "github.com/RAFLYBOSENG/Sistem-Dinamis-Penyebaran-HIV/models"
)

// meaningfulSignalFactor separates a signal that visibly reshapes the curves
// from one that barely moves beta.
const meaningfulSignalFactor = 1.05

// BasicReproduction is beta/gamma, reported as +Inf when gamma is zero.
func BasicReproduction(beta, gamma float64) float64 {
	if gamma == 0 {
		return math.Inf(1)
	}
	return beta / gamma
}

// DeriveStats reads the peak and final state off a completed trajectory.
// Ties in the infected series resolve to the earliest sample.
func DeriveStats(tr *m.Trajectory) m.SimulationStats {
	peakIdx := floats.MaxIdx(tr.I)
	last := tr.Len() - 1
	return m.SimulationStats{
		PeakI:   tr.I[peakIdx],
		PeakDay: tr.T[peakIdx],
		FinalS:  tr.S[last],
		FinalI:  tr.I[last],
		FinalR:  tr.R[last],
	}
}

// GenerateSummary assembles the narrative for one run. It is a pure function
// of the parameters and trajectory: same inputs, same text.
func GenerateSummary(p m.SimulationParameters, tr *m.Trajectory) (string, m.SimulationStats) {
	stats := DeriveStats(tr)
	r0 := BasicReproduction(p.Beta, p.Gamma)

	lines := []string{
		fmt.Sprintf("Model: SIR. Parameters: beta=%.4g, gamma=%.4g, R0 (beta/gamma) ~ %.2f.", p.Beta, p.Gamma, r0),
		fmt.Sprintf("Total population N=%d, initial conditions I0=%d, R0=%d.", round(p.N), round(p.I0), round(p.R0)),
		fmt.Sprintf("Key result: infections peak at ~ %d individuals on day %.1f.", round(stats.PeakI), stats.PeakDay),
		fmt.Sprintf("At the end of the simulation (t=%d days): S=%d, I=%d, R=%d.",
			p.Days, round(stats.FinalS), round(stats.FinalI), round(stats.FinalR)),
	}

	switch {
	case r0 > 1.5:
		lines = append(lines, "Interpretation: R0 > 1 indicates fast spread; without intervention the outbreak is likely to grow rapidly.")
	case r0 > 1.0:
		lines = append(lines, "Interpretation: moderate spread; the infection peak arrives later and stays lower.")
	default:
		lines = append(lines, "Interpretation: R0 <= 1 indicates the infection tends to decline and no large outbreak is expected.")
	}

	if p.Signal != m.SignalNone {
		maxU := floats.Max(tr.U)
		if maxU > meaningfulSignalFactor {
			lines = append(lines, fmt.Sprintf("Signal effect (%s): the signal temporarily raises beta (max factor %.2f), reshaping the I(t) curve.", p.Signal, maxU))
		} else {
			meanU := stat.Mean(tr.U, nil)
			lines = append(lines, fmt.Sprintf("Signal effect (%s): the change in beta is relatively small (mean factor %.2f).", p.Signal, meanU))
		}
	} else {
		lines = append(lines, "No control signal: beta is constant for the whole simulation.")
	}

	if r0 > 1.5 {
		lines = append(lines, "Recommendation: consider interventions (contact reduction, therapy, or treatment) to lower beta.")
	} else {
		lines = append(lines, "Recommendation: conditions are relatively under control; keep observing to confirm the downward trend.")
	}

	return strings.Join(lines, " "), stats
}

// round converts a population count for display without float formatting noise.
func round(v float64) int64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0
	}
	return int64(math.Round(v))
}
