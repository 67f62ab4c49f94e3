package repos

import (
	"context"
	"fmt"
	"time"

	"github.com/guregu/null/v6"
	"github.com/jackc/pgx/v5"

	m "github.com/RAFLYBOSENG/Sistem-Dinamis-Penyebaran-HIV/models"
	q "github.com/RAFLYBOSENG/Sistem-Dinamis-Penyebaran-HIV/queries"
)

// historyRow is the flat table shape of one entry, the same eighteen columns
// the file backend writes.
type historyRow struct {
	Id        string     `db:"id"`
	Timestamp time.Time  `db:"timestamp"`
	Beta      float64    `db:"beta"`
	Gamma     float64    `db:"gamma"`
	N         float64    `db:"n"`
	I0        float64    `db:"i0"`
	R0        float64    `db:"r0"`
	Days      int        `db:"days"`
	Signal    string     `db:"signal"`
	Amp       float64    `db:"amp"`
	Freq      float64    `db:"freq"`
	StepTime  null.Float `db:"step_time"`
	PeakI     null.Float `db:"peak_i"`
	PeakDay   null.Float `db:"peak_day"`
	FinalS    null.Float `db:"final_s"`
	FinalI    null.Float `db:"final_i"`
	FinalR    null.Float `db:"final_r"`
	Summary   string     `db:"summary"`
}

func (pg *Postgres) EnsureInitialized(ctx context.Context) error {
	if _, err := pg.db.Exec(ctx, q.Get(q.QueryHelper.Create.HistoryTable)); err != nil {
		return fmt.Errorf("error creating history table: %w", err)
	}
	return nil
}

func (pg *Postgres) Append(ctx context.Context, entry *m.HistoryEntry) (string, error) {
	stamp(entry)

	args := pgx.NamedArgs{
		"id":        entry.ID,
		"timestamp": entry.Timestamp,
		"beta":      entry.Params.Beta,
		"gamma":     entry.Params.Gamma,
		"n":         entry.Params.N,
		"i0":        entry.Params.I0,
		"r0":        entry.Params.R0,
		"days":      entry.Params.Days,
		"signal":    entry.Params.Signal,
		"amp":       entry.Params.Amp,
		"freq":      entry.Params.Freq,
		"step_time": entry.Params.StepTime,
		"peak_i":    entry.PeakI,
		"peak_day":  entry.PeakDay,
		"final_s":   entry.FinalS,
		"final_i":   entry.FinalI,
		"final_r":   entry.FinalR,
		"summary":   entry.Summary,
	}

	if _, err := pg.db.Exec(ctx, q.Get(q.QueryHelper.Insert.HistoryEntry), args); err != nil {
		return "", fmt.Errorf("error inserting history entry: %w", err)
	}

	return entry.ID, nil
}

func (pg *Postgres) LoadAll(ctx context.Context) ([]*m.HistoryEntry, error) {
	rows, err := Query[historyRow](ctx, pg, q.Get(q.QueryHelper.Select.AllHistory), nil)
	if err != nil {
		return nil, err
	}
	return mapRows(rows), nil
}

func (pg *Postgres) GetByID(ctx context.Context, id string) (*m.HistoryEntry, error) {
	rows, err := Query[historyRow](ctx, pg, q.Get(q.QueryHelper.Select.HistoryById), pgx.NamedArgs{"id": id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rowToEntry(rows[0]), nil
}

func (pg *Postgres) ListRecent(ctx context.Context) ([]*m.HistoryEntry, error) {
	rows, err := Query[historyRow](ctx, pg, q.Get(q.QueryHelper.Select.RecentHistory), nil)
	if err != nil {
		return nil, err
	}
	return mapRows(rows), nil
}

func mapRows(rows []*historyRow) []*m.HistoryEntry {
	entries := make([]*m.HistoryEntry, len(rows))
	for i, r := range rows {
		entries[i] = rowToEntry(r)
	}
	return entries
}

func rowToEntry(r *historyRow) *m.HistoryEntry {
	return &m.HistoryEntry{
		ID:        r.Id,
		Timestamp: r.Timestamp,
		Params: m.SimulationParameters{
			Beta:     r.Beta,
			Gamma:    r.Gamma,
			N:        r.N,
			I0:       r.I0,
			R0:       r.R0,
			Days:     r.Days,
			Signal:   r.Signal,
			Amp:      r.Amp,
			Freq:     r.Freq,
			StepTime: r.StepTime,
		},
		PeakI:   r.PeakI,
		PeakDay: r.PeakDay,
		FinalS:  r.FinalS,
		FinalI:  r.FinalI,
		FinalR:  r.FinalR,
		Summary: r.Summary,
	}
}
