package repos

import (
	"context"
	"sync"

	m "github.com/RAFLYBOSENG/Sistem-Dinamis-Penyebaran-HIV/models"
)

// MemoryHistory keeps the run log in memory. It exists so tests can exercise
// the orchestration layer without touching the filesystem; it honors the same
// contract as the durable backends, including handing out copies only.
type MemoryHistory struct {
	mu      sync.Mutex
	entries []*m.HistoryEntry
}

func NewMemoryHistory() *MemoryHistory {
	return &MemoryHistory{}
}

func (h *MemoryHistory) EnsureInitialized(ctx context.Context) error {
	return nil
}

func (h *MemoryHistory) Append(ctx context.Context, entry *m.HistoryEntry) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	stamp(entry)
	h.entries = append(h.entries, entry.Clone())
	return entry.ID, nil
}

func (h *MemoryHistory) LoadAll(ctx context.Context) ([]*m.HistoryEntry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]*m.HistoryEntry, len(h.entries))
	for i, e := range h.entries {
		out[i] = e.Clone()
	}
	return out, nil
}

func (h *MemoryHistory) GetByID(ctx context.Context, id string) (*m.HistoryEntry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, e := range h.entries {
		if e.ID == id {
			return e.Clone(), nil
		}
	}
	return nil, nil
}

func (h *MemoryHistory) ListRecent(ctx context.Context) ([]*m.HistoryEntry, error) {
	entries, err := h.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	return sortRecent(entries), nil
}
