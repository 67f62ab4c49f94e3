package models

import (
	"time"

	"github.com/guregu/null/v6"
)

// HistoryEntry is one persisted, immutable record of a simulation run. ID and
// Timestamp are assigned by the store on append and never change afterwards.
// The derived stats are nullable because old rows may predate them; rows
// written by this code always carry all five.
type HistoryEntry struct {
	ID        string
	Timestamp time.Time
	Params    SimulationParameters

	PeakI   null.Float
	PeakDay null.Float
	FinalS  null.Float
	FinalI  null.Float
	FinalR  null.Float

	Summary string
}

// NewHistoryEntry builds an unsaved entry from a run's inputs and outcomes.
func NewHistoryEntry(p SimulationParameters, stats SimulationStats, summary string) *HistoryEntry {
	return &HistoryEntry{
		Params:  p,
		PeakI:   null.FloatFrom(stats.PeakI),
		PeakDay: null.FloatFrom(stats.PeakDay),
		FinalS:  null.FloatFrom(stats.FinalS),
		FinalI:  null.FloatFrom(stats.FinalI),
		FinalR:  null.FloatFrom(stats.FinalR),
		Summary: summary,
	}
}

// Clone returns an independent copy so callers can never mutate the store's
// own records.
func (e *HistoryEntry) Clone() *HistoryEntry {
	c := *e
	return &c
}
