package webapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/spboyer/trialscope/internal/trial"
)

// Version is set at build time or defaults to dev.
var Version = "dev"

// Handlers holds the HTTP handler methods for the web API.
type Handlers struct {
	store TrialStore
}

// NewHandlers creates a new Handlers with the given store.
func NewHandlers(store TrialStore) *Handlers {
	return &Handlers{store: store}
}

// HandleHealth returns a simple health check response.
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: Version,
	})
}

// HandleTrials lists the trials that have at least one analysis.
func (h *Handlers) HandleTrials(w http.ResponseWriter, _ *http.Request) {
	trials, err := h.store.ListTrials()
	if err != nil {
		slog.Error("Error fetching trials", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch trials")
		return
	}
	writeJSON(w, http.StatusOK, TrialsResponse{Trials: trials})
}

// HandleAnalyses lists every stored analysis of one trial.
func (h *Handlers) HandleAnalyses(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	analyses, err := h.store.ListAnalyses(id)
	if err != nil {
		h.storeError(w, err, "Failed to fetch analyses")
		return
	}
	writeJSON(w, http.StatusOK, AnalysesResponse{TrialID: id, Analyses: analyses})
}

// HandleLatestAnalysis returns the most recent analysis of a trial as stored.
func (h *Handlers) HandleLatestAnalysis(w http.ResponseWriter, r *http.Request) {
	a, err := h.store.LatestAnalysis(r.PathValue("id"))
	if err != nil {
		h.storeError(w, err, "Failed to fetch AI analysis")
		return
	}
	writeRaw(w, a.Raw)
}

// HandleAnalysis returns one stored analysis by file name.
func (h *Handlers) HandleAnalysis(w http.ResponseWriter, r *http.Request) {
	a, err := h.store.GetAnalysis(r.PathValue("id"), r.PathValue("name"))
	if err != nil {
		h.storeError(w, err, "Failed to fetch AI analysis")
		return
	}
	writeRaw(w, a.Raw)
}

// HandleVideo streams the trial recording. Range requests are honored.
func (h *Handlers) HandleVideo(w http.ResponseWriter, r *http.Request) {
	h.serveAsset(w, r, VideoFile, "video/mp4", "Video not found for this trial")
}

// HandleTranscript serves the trial transcript PDF.
func (h *Handlers) HandleTranscript(w http.ResponseWriter, r *http.Request) {
	h.serveAsset(w, r, trial.TranscriptFile, "application/pdf", "Transcript not found for this trial")
}

func (h *Handlers) serveAsset(w http.ResponseWriter, r *http.Request, name, contentType, notFound string) {
	path, err := h.store.AssetPath(r.PathValue("id"), name)
	if err != nil {
		if errors.Is(err, ErrTrialNotFound) || errors.Is(err, ErrAssetNotFound) {
			writeError(w, http.StatusNotFound, notFound)
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	f, err := os.Open(path)
	if err != nil {
		writeError(w, http.StatusNotFound, notFound)
		return
	}
	defer f.Close() //nolint:errcheck

	info, err := f.Stat()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", contentType)
	http.ServeContent(w, r, name, info.ModTime(), f)
}

func (h *Handlers) storeError(w http.ResponseWriter, err error, msg string) {
	switch {
	case errors.Is(err, ErrTrialNotFound):
		writeError(w, http.StatusNotFound, "trial not found")
	case errors.Is(err, ErrAnalysisNotFound):
		writeError(w, http.StatusNotFound, "AI analysis not found for this trial")
	default:
		slog.Error(msg, "error", err)
		writeError(w, http.StatusInternalServerError, msg)
	}
}

// RegisterRoutes registers all web API routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, store TrialStore) {
	h := NewHandlers(store)
	mux.HandleFunc("GET /api/health", h.HandleHealth)
	mux.HandleFunc("GET /api/trials", h.HandleTrials)
	mux.HandleFunc("GET /api/trials/{id}/analyses", h.HandleAnalyses)
	mux.HandleFunc("GET /api/trials/{id}/analyses/{name}", h.HandleAnalysis)
	mux.HandleFunc("GET /api/trials/{id}/analysis", h.HandleLatestAnalysis)
	mux.HandleFunc("GET /api/trials/{id}/video", h.HandleVideo)
	mux.HandleFunc("GET /api/trials/{id}/transcript", h.HandleTranscript)
}

// CORSMiddleware wraps a handler with CORS headers.
// If allowedOrigins is empty, no CORS header is set (same-origin only).
// Otherwise, the request Origin is checked against the allowed list.
func CORSMiddleware(next http.Handler, allowedOrigins ...string) http.Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if len(allowedOrigins) > 0 && origin != "" && allowed[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Range")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeRaw(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data) //nolint:errcheck
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, ErrorResponse{Error: msg, Code: code})
}
