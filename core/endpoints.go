package core

import (
	"embed"
	"errors"
	"html/template"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/guregu/null/v6"

	ex "github.com/RAFLYBOSENG/Sistem-Dinamis-Penyebaran-HIV/extensions"
	m "github.com/RAFLYBOSENG/Sistem-Dinamis-Penyebaran-HIV/models"
)

//go:embed templates/*.html
var templateFiles embed.FS

var pages = template.Must(template.ParseFS(templateFiles, "templates/*.html"))

const DefaultAddr = ":8080"

// GetHttpServer wires the thin web layer over the functional core: form,
// run, history list, detail with a regenerated plot, and rerun prefill.
func GetHttpServer(sc *ServiceContext, addr string) *http.Server {
	if addr == "" {
		addr = DefaultAddr
	}

	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/", sc.handleIndex)
	router.Post("/simulate", sc.handleSimulate)
	router.Get("/history", sc.handleHistory)
	router.Get("/history/{id}", sc.handleHistoryDetail)
	router.Get("/history/{id}/plot", sc.handleHistoryPlot)
	router.Get("/rerun/{id}", sc.handleRerun)

	return &http.Server{
		Addr:           addr,
		Handler:        router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}
}

type indexData struct {
	Prefill m.SimulationParameters
	Kinds   []string
	Error   string
}

func (sc *ServiceContext) handleIndex(w http.ResponseWriter, r *http.Request) {
	prefill := paramsFromForm(r.URL.Query().Get)
	data := indexData{
		Prefill: prefill,
		Kinds:   m.SignalKinds,
		Error:   r.URL.Query().Get("error"),
	}
	renderPage(w, "index.html", data)
}

func (sc *ServiceContext) handleSimulate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, "could not read the submitted form")
		return
	}

	params := paramsFromForm(r.PostForm.Get)
	result, err := sc.RunAndRecord(r.Context(), params)
	if err != nil {
		log.Printf("simulation request failed: %v", err)
		redirectWithError(w, r, userMessage(err))
		return
	}

	http.Redirect(w, r, "/history/"+result.ID, http.StatusSeeOther)
}

type historyRowView struct {
	ID        string
	Timestamp string
	Beta      float64
	Gamma     float64
	N         int64
	Days      int
	Signal    string
}

func (sc *ServiceContext) handleHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := sc.ListHistory(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	rows := make([]historyRowView, len(entries))
	for i, e := range entries {
		rows[i] = historyRowView{
			ID:        e.ID,
			Timestamp: ex.FmtReadable(e.Timestamp),
			Beta:      e.Params.Beta,
			Gamma:     e.Params.Gamma,
			N:         int64(e.Params.N),
			Days:      e.Params.Days,
			Signal:    e.Params.Signal,
		}
	}
	renderPage(w, "history.html", rows)
}

type detailData struct {
	Entry     *m.HistoryEntry
	Timestamp string
}

func (sc *ServiceContext) handleHistoryDetail(w http.ResponseWriter, r *http.Request) {
	entry, err := sc.GetHistory(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, m.ErrNotFound) {
		http.Redirect(w, r, "/history", http.StatusSeeOther)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	renderPage(w, "detail.html", detailData{
		Entry:     entry,
		Timestamp: ex.FmtReadable(entry.Timestamp),
	})
}

// handleHistoryPlot regenerates the plot from the stored parameters so the
// interactive view is always available, whatever happened to past artifacts.
func (sc *ServiceContext) handleHistoryPlot(w http.ResponseWriter, r *http.Request) {
	entry, err := sc.GetHistory(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, m.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	result, err := sc.Recompute(r.Context(), entry.Params)
	if err != nil {
		http.Error(w, userMessage(err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(result.PlotHTML))
}

func (sc *ServiceContext) handleRerun(w http.ResponseWriter, r *http.Request) {
	entry, err := sc.GetHistory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		http.Redirect(w, r, "/history", http.StatusSeeOther)
		return
	}

	p := entry.Params
	query := url.Values{}
	query.Set("beta", fmtParam(p.Beta))
	query.Set("gamma", fmtParam(p.Gamma))
	query.Set("N", fmtParam(p.N))
	query.Set("I0", fmtParam(p.I0))
	query.Set("R0", fmtParam(p.R0))
	query.Set("days", strconv.Itoa(p.Days))
	query.Set("signal_type", p.Signal)
	http.Redirect(w, r, "/?"+query.Encode(), http.StatusSeeOther)
}

// paramsFromForm reads parameters from a form or query getter, falling back
// to the baseline defaults field by field.
func paramsFromForm(get func(string) string) m.SimulationParameters {
	p := m.DefaultParameters()
	p.Beta = formFloat(get("beta"), p.Beta)
	p.Gamma = formFloat(get("gamma"), p.Gamma)
	p.N = formFloat(get("N"), p.N)
	p.I0 = formFloat(get("I0"), p.I0)
	p.R0 = formFloat(get("R0"), p.R0)
	p.Days = formInt(get("days"), p.Days)
	if kind := get("signal_type"); kind != "" {
		p.Signal = kind
	}
	p.Amp = formFloat(get("amp"), p.Amp)
	p.Freq = formFloat(get("freq"), p.Freq)
	if raw := get("step_time"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			p.StepTime = null.FloatFrom(v)
		}
	}
	return p
}

func formFloat(raw string, fallback float64) float64 {
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return v
}

func formInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func fmtParam(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func renderPage(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("error rendering %s: %v", name, err)
	}
}

func redirectWithError(w http.ResponseWriter, r *http.Request, msg string) {
	http.Redirect(w, r, "/?error="+url.QueryEscape(msg), http.StatusSeeOther)
}

// userMessage keeps internal wrapping out of what the browser shows while
// still naming the failure kind.
func userMessage(err error) string {
	switch {
	case errors.Is(err, m.ErrInvalidParameter):
		return "the simulation parameters are invalid: " + err.Error()
	case errors.Is(err, m.ErrIntegrationFailure):
		return "the simulation did not produce a finite result"
	case errors.Is(err, m.ErrStoreCorrupt):
		return "the history store is unreadable"
	default:
		return "an error occurred while running the simulation"
	}
}
