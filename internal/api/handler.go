// Package api exposes recurring-payment detection over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Veraticus/the-spice-must-recur/internal/recurring"
	"github.com/Veraticus/the-spice-must-recur/internal/service"
	"github.com/gorilla/mux"
)

const (
	dateLayout = "2006-01-02"
	apiPrefix  = "/api/v1"
)

var errBadDate = errors.New("now must be a YYYY-MM-DD date")

// Handler serves detection results read from a transaction store.
type Handler struct {
	store    service.ExpenseReader
	clock    func() time.Time
	defaults recurring.Config
}

// NewHandler creates a handler. defaults is used when a request names no preset.
func NewHandler(store service.ExpenseReader, defaults recurring.Config, clock func() time.Time) *Handler {
	if clock == nil {
		clock = time.Now
	}
	return &Handler{
		store:    store,
		defaults: defaults,
		clock:    clock,
	}
}

// PresetResponse describes one named preset.
type PresetResponse struct {
	Name   string           `json:"name"`
	Config recurring.Config `json:"config"`
}

// PresetsResponse is the body of GET /api/v1/presets.
type PresetsResponse struct {
	Presets []PresetResponse `json:"presets"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Router builds the mux router for the API.
func (h *Handler) Router() *mux.Router {
	router := mux.NewRouter()
	router.Use(logRequests)

	router.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)
	h.RegisterRoutes(router)

	return router
}

// RegisterRoutes attaches the v1 endpoints to router under full paths.
// Method mismatches on a PathPrefix subrouter surface as 404 rather than 405.
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc(apiPrefix+"/presets", h.ListPresets).Methods(http.MethodGet)
	router.HandleFunc(apiPrefix+"/candidates", h.ListCandidates).Methods(http.MethodGet)
	router.HandleFunc(apiPrefix+"/savings", h.GetSavings).Methods(http.MethodGet)
}

// Health reports that the server is up.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("ok")); err != nil {
		slog.Warn("Failed to write health response", "error", err)
	}
}

// ListPresets returns the built-in detection presets.
func (h *Handler) ListPresets(w http.ResponseWriter, _ *http.Request) {
	resp := PresetsResponse{Presets: make([]PresetResponse, 0, len(recurring.PresetNames()))}
	for _, name := range recurring.PresetNames() {
		cfg, err := recurring.Preset(name)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "preset table is inconsistent")
			return
		}
		resp.Presets = append(resp.Presets, PresetResponse{Name: name, Config: cfg})
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListCandidates runs detection and returns the ranked candidates.
func (h *Handler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	result, ok := h.detect(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GetSavings totals the candidates named by repeated id query parameters.
func (h *Handler) GetSavings(w http.ResponseWriter, r *http.Request) {
	result, ok := h.detect(w, r)
	if !ok {
		return
	}
	ids := r.URL.Query()["id"]
	writeJSON(w, http.StatusOK, recurring.Savings(result.Candidates, ids))
}

// detect resolves the request's config and clock, loads the window from the
// store and runs detection. It writes the error response itself.
func (h *Handler) detect(w http.ResponseWriter, r *http.Request) (recurring.Result, bool) {
	query := r.URL.Query()

	cfg, err := h.configFor(query.Get("preset"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return recurring.Result{}, false
	}

	now, err := h.nowFor(query.Get("now"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return recurring.Result{}, false
	}

	detector, err := recurring.NewDetector(cfg, recurring.WithClock(func() time.Time { return now }))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return recurring.Result{}, false
	}

	txns, err := h.store.GetExpensesSince(r.Context(), detector.Since())
	if err != nil {
		slog.Error("Failed to load expenses", "error", err, "since", detector.Since().Format(dateLayout))
		writeError(w, http.StatusInternalServerError, "failed to load transactions")
		return recurring.Result{}, false
	}

	result := detector.Detect(txns)
	slog.Debug("Detection complete",
		"transactions", len(txns),
		"candidates", result.Total,
		"now", now.Format(dateLayout))

	return result, true
}

func (h *Handler) configFor(preset string) (recurring.Config, error) {
	if strings.TrimSpace(preset) == "" {
		return h.defaults, nil
	}
	return recurring.Preset(preset)
}

func (h *Handler) nowFor(raw string) (time.Time, error) {
	if raw == "" {
		return h.clock(), nil
	}
	now, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", errBadDate, raw)
	}
	return now, nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Warn("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
