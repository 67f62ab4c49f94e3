package core

import (
	"context"
	"fmt"
	"log"
	"time"

	m "github.com/RAFLYBOSENG/Sistem-Dinamis-Penyebaran-HIV/models"
)

// RunResult is what one orchestrated run hands back to the caller. ID is
// empty for recomputations, which never touch the history store.
type RunResult struct {
	ID         string
	Trajectory *m.Trajectory
	Stats      m.SimulationStats
	Summary    string
	PlotHTML   string
}

// RunAndRecord is the single entry point for a fresh simulation: integrate,
// derive the summary, append exactly one history entry, render the plot.
// A failed store write surfaces immediately; nothing is retried, because a
// retry would mint a second id.
func (sc *ServiceContext) RunAndRecord(ctx context.Context, p m.SimulationParameters) (*RunResult, error) {
	start := time.Now()

	res, err := sc.compute(ctx, p)
	if err != nil {
		return nil, err
	}

	entry := m.NewHistoryEntry(p, res.Stats, res.Summary)
	id, err := sc.History.Append(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("error recording run: %w", err)
	}
	res.ID = id

	log.Printf("Run %s completed: signal=%s peak_I=%.0f on day %.1f (time: %v)",
		id, p.Signal, res.Stats.PeakI, res.Stats.PeakDay, time.Since(start))
	return res, nil
}

// Recompute re-derives trajectory, stats, and plot from stored parameters
// without appending history. Pure: two calls with the same parameters yield
// identical output.
func (sc *ServiceContext) Recompute(ctx context.Context, p m.SimulationParameters) (*RunResult, error) {
	return sc.compute(ctx, p)
}

func (sc *ServiceContext) compute(ctx context.Context, p m.SimulationParameters) (*RunResult, error) {
	tr, err := SimulateSIR(ctx, p, DefaultSamples)
	if err != nil {
		return nil, err
	}

	summary, stats := GenerateSummary(p, tr)

	plot, err := RenderPlot(tr, p)
	if err != nil {
		return nil, err
	}

	return &RunResult{
		Trajectory: tr,
		Stats:      stats,
		Summary:    summary,
		PlotHTML:   plot,
	}, nil
}

// ListHistory returns all recorded runs, most recent first.
func (sc *ServiceContext) ListHistory(ctx context.Context) ([]*m.HistoryEntry, error) {
	return sc.History.ListRecent(ctx)
}

// GetHistory looks one run up by id, translating the store's nil result into
// a not-found error at the orchestration boundary.
func (sc *ServiceContext) GetHistory(ctx context.Context, id string) (*m.HistoryEntry, error) {
	entry, err := sc.History.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, fmt.Errorf("%w: history entry %s", m.ErrNotFound, id)
	}
	return entry, nil
}
