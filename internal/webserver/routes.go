package webserver

import (
	"encoding/json"
	"net/http"

	"github.com/spboyer/trialscope/internal/webapi"
)

// registerRoutes sets up the API routes on the given mux. Unknown /api/
// paths get a JSON 404 instead of the mux's plain-text one.
func registerRoutes(mux *http.ServeMux, cfg Config) {
	webapi.RegisterRoutes(mux, webapi.NewFileStore(cfg.Layout))
	mux.HandleFunc("/api/", handleAPINotFound)
}

func handleAPINotFound(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	json.NewEncoder(w).Encode(webapi.ErrorResponse{Error: "not found", Code: http.StatusNotFound}) //nolint:errcheck
}
