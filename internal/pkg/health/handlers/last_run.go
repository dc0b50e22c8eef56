package handlers

import (
	"net/http"
	"time"

	"github.com/Vodeneev/leonspider/internal/parser/harvest"
)

// LastRun is the outcome of the most recent pipeline run.
type LastRun struct {
	FinishedAt time.Time          `json:"finished_at"`
	Success    bool               `json:"success"`
	Result     *harvest.RunResult `json:"result,omitempty"`
	Error      string             `json:"error,omitempty"`
}

// HandleLastRun handles GET /api/analyze-leon/last
func HandleLastRun(last func() (LastRun, bool)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lr, ok := last()
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no run yet"})
			return
		}
		writeJSON(w, http.StatusOK, lr)
	}
}
