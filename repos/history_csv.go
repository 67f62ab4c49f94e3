package repos

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/guregu/null/v6"

	ex "github.com/RAFLYBOSENG/Sistem-Dinamis-Penyebaran-HIV/extensions"
	m "github.com/RAFLYBOSENG/Sistem-Dinamis-Penyebaran-HIV/models"
)

// headerOnlyThreshold: a file smaller than this holding at most one line is
// treated as header-only and re-seeded.
const headerOnlyThreshold = 200

// CSVHistory is the canonical file-backed store: one UTF-8, comma-delimited
// file with a header row and one row per entry. All mutation goes through a
// mutex and appends a single row with O_APPEND, so concurrent runs serialize
// instead of racing a read-modify-write of the whole file.
type CSVHistory struct {
	path string
	mu   sync.Mutex
}

func NewCSVHistory(path string) *CSVHistory {
	return &CSVHistory{path: path}
}

func (h *CSVHistory) EnsureInitialized(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ensureInitializedLocked()
}

func (h *CSVHistory) ensureInitializedLocked() error {
	if dir := filepath.Dir(h.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("error creating history directory: %w", err)
		}
	}

	info, err := os.Stat(h.path)
	if errors.Is(err, os.ErrNotExist) {
		return h.writeHeaderLocked()
	}
	if err != nil {
		return fmt.Errorf("error checking history file: %w", err)
	}

	// A tiny file holding at most one line is an empty or half-written
	// header; re-seed it with the canonical schema.
	if info.Size() < headerOnlyThreshold {
		raw, err := os.ReadFile(h.path)
		if err != nil {
			return fmt.Errorf("error reading history file: %w", err)
		}
		lines := ex.FilterMultiple(strings.Split(string(raw), "\n"), func(s string) bool {
			return strings.TrimSpace(s) != ""
		})
		if len(lines) <= 1 {
			return h.writeHeaderLocked()
		}
	}

	return nil
}

func (h *CSVHistory) writeHeaderLocked() error {
	f, err := os.Create(h.path)
	if err != nil {
		return fmt.Errorf("error creating history file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(HistoryColumns); err != nil {
		return fmt.Errorf("error writing history header: %w", err)
	}
	w.Flush()
	return w.Error()
}

func (h *CSVHistory) Append(ctx context.Context, entry *m.HistoryEntry) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.ensureInitializedLocked(); err != nil {
		return "", err
	}

	stamp(entry)

	f, err := os.OpenFile(h.path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return "", fmt.Errorf("error opening history file for append: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(encodeRow(entry)); err != nil {
		return "", fmt.Errorf("error appending history row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("error flushing history row: %w", err)
	}

	return entry.ID, nil
}

func (h *CSVHistory) LoadAll(ctx context.Context) ([]*m.HistoryEntry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.ensureInitializedLocked(); err != nil {
		return nil, err
	}

	f, err := os.Open(h.path)
	if err != nil {
		return nil, fmt.Errorf("error opening history file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err == io.EOF {
		return []*m.HistoryEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: unreadable header: %v", m.ErrStoreCorrupt, err)
	}
	if !slices.Equal(header, HistoryColumns) {
		return nil, fmt.Errorf("%w: header %v does not match the canonical schema", m.ErrStoreCorrupt, header)
	}

	entries := []*m.HistoryEntry{}
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", m.ErrStoreCorrupt, err)
		}
		entry, err := decodeRow(row)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

func (h *CSVHistory) GetByID(ctx context.Context, id string) (*m.HistoryEntry, error) {
	entries, err := h.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, nil
}

func (h *CSVHistory) ListRecent(ctx context.Context) ([]*m.HistoryEntry, error) {
	entries, err := h.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	return sortRecent(entries), nil
}

func encodeRow(e *m.HistoryEntry) []string {
	return []string{
		e.ID,
		ex.FmtLong(e.Timestamp),
		fmtFloat(e.Params.Beta),
		fmtFloat(e.Params.Gamma),
		fmtFloat(e.Params.N),
		fmtFloat(e.Params.I0),
		fmtFloat(e.Params.R0),
		strconv.Itoa(e.Params.Days),
		e.Params.Signal,
		fmtFloat(e.Params.Amp),
		fmtFloat(e.Params.Freq),
		fmtNull(e.Params.StepTime),
		fmtNull(e.PeakI),
		fmtNull(e.PeakDay),
		fmtNull(e.FinalS),
		fmtNull(e.FinalI),
		fmtNull(e.FinalR),
		e.Summary,
	}
}

func decodeRow(row []string) (*m.HistoryEntry, error) {
	e := &m.HistoryEntry{ID: row[0], Summary: row[17]}

	// Rows with a missing or mangled timestamp stay loadable; ListRecent
	// drops them because their creation instant is unknowable.
	if ts, err := time.Parse(time.RFC3339, row[1]); err == nil {
		e.Timestamp = ts
	}

	var err error
	if e.Params.Beta, err = parseFloat(row[2], "beta"); err != nil {
		return nil, err
	}
	if e.Params.Gamma, err = parseFloat(row[3], "gamma"); err != nil {
		return nil, err
	}
	if e.Params.N, err = parseFloat(row[4], "N"); err != nil {
		return nil, err
	}
	if e.Params.I0, err = parseFloat(row[5], "I0"); err != nil {
		return nil, err
	}
	if e.Params.R0, err = parseFloat(row[6], "R0"); err != nil {
		return nil, err
	}
	days, err := parseFloat(row[7], "days")
	if err != nil {
		return nil, err
	}
	e.Params.Days = int(days)
	e.Params.Signal = row[8]
	if e.Params.Amp, err = parseFloat(row[9], "amp"); err != nil {
		return nil, err
	}
	if e.Params.Freq, err = parseFloat(row[10], "freq"); err != nil {
		return nil, err
	}
	if e.Params.StepTime, err = parseNull(row[11], "step_time"); err != nil {
		return nil, err
	}
	if e.PeakI, err = parseNull(row[12], "peak_I"); err != nil {
		return nil, err
	}
	if e.PeakDay, err = parseNull(row[13], "peak_day"); err != nil {
		return nil, err
	}
	if e.FinalS, err = parseNull(row[14], "final_S"); err != nil {
		return nil, err
	}
	if e.FinalI, err = parseNull(row[15], "final_I"); err != nil {
		return nil, err
	}
	if e.FinalR, err = parseNull(row[16], "final_R"); err != nil {
		return nil, err
	}

	return e, nil
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// fmtNull writes the optional columns; absent values persist as the empty
// cell and parse back to null, never as a sentinel that reaches computation.
func fmtNull(v null.Float) string {
	if !v.Valid {
		return ""
	}
	return fmtFloat(v.Float64)
}

func parseFloat(s, column string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: column %s holds %q", m.ErrStoreCorrupt, column, s)
	}
	return v, nil
}

func parseNull(s, column string) (null.Float, error) {
	if s == "" {
		return null.Float{}, nil
	}
	v, err := parseFloat(s, column)
	if err != nil {
		return null.Float{}, err
	}
	return null.FloatFrom(v), nil
}
