package repos

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	ex "github.com/RAFLYBOSENG/Sistem-Dinamis-Penyebaran-HIV/extensions"
	m "github.com/RAFLYBOSENG/Sistem-Dinamis-Penyebaran-HIV/models"
)

// HistoryColumns is the canonical column order of the persisted store. Every
// backend writes exactly these eighteen columns.
var HistoryColumns = []string{
	"id", "timestamp", "beta", "gamma", "N", "I0", "R0", "days",
	"signal", "amp", "freq", "step_time",
	"peak_I", "peak_day", "final_S", "final_I", "final_R", "summary",
}

// History is the append-only run log. Append assigns the id and creation
// timestamp; records are never mutated afterwards. GetByID returns (nil, nil)
// for an unknown id, lookups never invent errors for absence.
type History interface {
	// EnsureInitialized idempotently creates the backing store with the
	// canonical schema. Safe to call repeatedly, never duplicates headers.
	EnsureInitialized(ctx context.Context) error
	// Append writes one record and returns its freshly assigned id.
	Append(ctx context.Context, entry *m.HistoryEntry) (string, error)
	// LoadAll returns every record in insertion order. An empty store yields
	// an empty slice, not an error.
	LoadAll(ctx context.Context) ([]*m.HistoryEntry, error)
	// GetByID is a linear lookup; nil result means not found.
	GetByID(ctx context.Context, id string) (*m.HistoryEntry, error)
	// ListRecent returns all records with a valid timestamp, newest first.
	ListRecent(ctx context.Context) ([]*m.HistoryEntry, error)
}

// stamp assigns the identity fields a backend must set exactly once on append.
func stamp(entry *m.HistoryEntry) {
	entry.ID = uuid.NewString()
	entry.Timestamp = time.Now().UTC()
}

// sortRecent filters out rows whose timestamp failed to parse and orders the
// rest newest first. Shared by the file and memory backends; the Postgres
// backend pushes the same predicate into SQL.
func sortRecent(entries []*m.HistoryEntry) []*m.HistoryEntry {
	recent := ex.FilterMultiplePtr(entries, func(e *m.HistoryEntry) bool {
		return !e.Timestamp.IsZero()
	})
	slices.SortFunc(recent, func(a, b *m.HistoryEntry) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	return recent
}
